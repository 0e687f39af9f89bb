package core

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/available/internal/domain"
	nanoid "github.com/jaevor/go-nanoid"
)

const idLength = 12

// TopicStore keeps topics and recorded responses for the process lifetime.
// Topics are listed newest first, responses in arrival order.
type TopicStore struct {
	mu        sync.RWMutex
	topics    []*domain.Topic
	byID      map[domain.TopicID]*domain.Topic
	responses []*domain.Response
	newID     func() string
}

func NewTopicStore() (*TopicStore, error) {
	gen, err := nanoid.Standard(idLength)
	if err != nil {
		return nil, fmt.Errorf("topic id generator: %w", err)
	}
	return &TopicStore{
		byID:  make(map[domain.TopicID]*domain.Topic),
		newID: gen,
	}, nil
}

func (s *TopicStore) CreateTopic(d domain.TopicDraft, now time.Time) (domain.Topic, error) {
	t, err := domain.NewTopic(domain.TopicID("t_"+s.newID()), d, now)
	if err != nil {
		return domain.Topic{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = slices.Insert(s.topics, 0, t)
	s.byID[t.ID] = t
	return *t, nil
}

func (s *TopicStore) Topic(id domain.TopicID) (domain.Topic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok {
		return domain.Topic{}, false
	}
	return *t, true
}

func (s *TopicStore) Topics(room domain.RoomName) []domain.Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Topic, 0)
	for _, t := range s.topics {
		if t.Room == room {
			out = append(out, *t)
		}
	}
	return out
}

// AddResponse records a reply to an existing topic; the response inherits
// the topic's room.
func (s *TopicStore) AddResponse(d domain.ResponseDraft, now time.Time) (domain.Response, error) {
	t, ok := s.Topic(domain.TopicID(strings.TrimSpace(d.TopicID)))
	if !ok {
		return domain.Response{}, domain.ErrUnknownTopic
	}
	r, err := domain.NewResponse("r_"+s.newID(), &t, d, now)
	if err != nil {
		return domain.Response{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, r)
	return *r, nil
}

// Responses lists a room's responses, narrowed to one topic when topicID is
// not empty.
func (s *TopicStore) Responses(room domain.RoomName, topicID domain.TopicID) []domain.Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Response, 0)
	for _, r := range s.responses {
		if r.Room != room {
			continue
		}
		if topicID != "" && r.TopicID != topicID {
			continue
		}
		out = append(out, *r)
	}
	return out
}
