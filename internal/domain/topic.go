package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	MaxTopicTitleLen   = 160
	MaxTopicPromptLen  = 400
	MaxCreatedByLen    = 80
	DefaultTopicMins   = 5
	MaxResponseTagsLen = 120
	MaxResponseNoteLen = 200
	MaxResponseSeconds = 60 * 60
	AnonymousAuthor    = "anon"
)

var (
	ErrTitleRequired    = errors.New("title required")
	ErrNameRequired     = errors.New("name required")
	ErrAudioURLRequired = errors.New("audioUrl required")
	ErrUnknownTopic     = errors.New("unknown topic")
)

type TopicID string

// Topic is an asynchronous discussion prompt people answer with audio clips.
type Topic struct {
	ID         TopicID    `json:"id"`
	Title      string     `json:"title"`
	Prompt     string     `json:"prompt"`
	MaxMinutes int        `json:"maxMinutes"`
	Room       RoomName   `json:"room"`
	DueAt      *time.Time `json:"-"`
	CreatedBy  string     `json:"createdBy"`
	CreatedAt  time.Time  `json:"-"`
}

type Response struct {
	ID        string    `json:"id"`
	TopicID   TopicID   `json:"topicId"`
	Room      RoomName  `json:"room"`
	Name      string    `json:"name"`
	Tags      string    `json:"tags"`
	Note      string    `json:"note"`
	AudioURL  string    `json:"audioUrl"`
	Duration  int       `json:"duration"`
	CreatedAt time.Time `json:"-"`
}

type TopicDraft struct {
	Title      string
	Prompt     string
	MaxMinutes int
	Room       string
	DueAt      string
	CreatedBy  string
}

type ResponseDraft struct {
	TopicID  string
	Name     string
	Tags     string
	Note     string
	AudioURL string
	Duration int
}

// NewTopic validates a draft. Only a missing title is an error; every other
// field is clamped or defaulted. An unparseable DueAt is dropped.
func NewTopic(id TopicID, d TopicDraft, now time.Time) (*Topic, error) {
	title := strings.TrimSpace(Clamp(strings.TrimSpace(d.Title), MaxTopicTitleLen))
	if title == "" {
		return nil, ErrTitleRequired
	}
	mins := d.MaxMinutes
	if mins == 0 {
		mins = DefaultTopicMins
	}
	createdBy := strings.TrimSpace(Clamp(strings.TrimSpace(d.CreatedBy), MaxCreatedByLen))
	if createdBy == "" {
		createdBy = AnonymousAuthor
	}
	return &Topic{
		ID:         id,
		Title:      title,
		Prompt:     strings.TrimSpace(Clamp(strings.TrimSpace(d.Prompt), MaxTopicPromptLen)),
		MaxMinutes: ClampMinutes(mins),
		Room:       NormalizeRoomName(d.Room),
		DueAt:      parseDue(d.DueAt),
		CreatedBy:  createdBy,
		CreatedAt:  now,
	}, nil
}

// NewResponse validates a draft against the topic it answers; the room is
// always taken from the topic.
func NewResponse(id string, t *Topic, d ResponseDraft, now time.Time) (*Response, error) {
	name := CleanName(d.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	audio := strings.TrimSpace(d.AudioURL)
	if audio == "" {
		return nil, ErrAudioURLRequired
	}
	return &Response{
		ID:        id,
		TopicID:   t.ID,
		Room:      t.Room,
		Name:      name,
		Tags:      Clamp(d.Tags, MaxResponseTagsLen),
		Note:      Clamp(d.Note, MaxResponseNoteLen),
		AudioURL:  audio,
		Duration:  max(0, min(MaxResponseSeconds, d.Duration)),
		CreatedAt: now,
	}, nil
}

var dueLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func parseDue(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (t Topic) MarshalJSON() ([]byte, error) {
	type plain Topic
	var due *int64
	if t.DueAt != nil {
		ms := t.DueAt.UnixMilli()
		due = &ms
	}
	return json.Marshal(struct {
		plain
		DueAt     *int64 `json:"dueAt"`
		CreatedAt int64  `json:"createdAt"`
	}{plain(t), due, t.CreatedAt.UnixMilli()})
}

func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	return json.Marshal(struct {
		plain
		CreatedAt int64 `json:"createdAt"`
	}{plain(r), r.CreatedAt.UnixMilli()})
}
