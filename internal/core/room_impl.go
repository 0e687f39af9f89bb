package core

import (
	"sync"
	"time"

	"github.com/dkeye/available/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	name  domain.RoomName
	mu    sync.RWMutex
	users map[SessionID]*domain.User
	subs  map[SessionID]SignalConnection
}

func NewRoomService(name domain.RoomName) RoomService {
	return &roomImpl{
		name:  name,
		users: make(map[SessionID]*domain.User),
		subs:  make(map[SessionID]SignalConnection),
	}
}

func (r *roomImpl) Name() domain.RoomName { return r.name }

func (r *roomImpl) Info() RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RoomInfo{Name: r.name, MemberCount: len(r.users), Subscribers: len(r.subs)}
}

func (r *roomImpl) Subscribe(sid SessionID, conn SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sid] = conn
}

func (r *roomImpl) Join(sid SessionID, name string, p domain.ProfileInput, now time.Time) bool {
	name = domain.CleanName(name)
	if name == "" {
		return false
	}
	u := domain.NewUser(domain.UserID(sid), name, p, now)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[sid] = u
	log.Info().Str("module", "core.room").Str("room", string(r.name)).Str("sid", string(sid)).Str("name", name).Msg("user joined")
	return true
}

func (r *roomImpl) SetAvailable(sid SessionID, minutes int, p domain.ProfileInput, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[sid]
	if !ok {
		return false
	}
	u.Apply(p)
	u.SetAvailable(minutes, now)
	return true
}

func (r *roomImpl) Extend(sid SessionID, minutes int, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[sid]
	if !ok {
		return false
	}
	u.Extend(minutes, now)
	return true
}

func (r *roomImpl) Done(sid SessionID, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[sid]
	if !ok {
		return false
	}
	u.Done(now)
	return true
}

// Disconnect drops both the user record and the subscription. It always
// asks for a rebroadcast.
func (r *roomImpl) Disconnect(sid SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, sid)
	delete(r.subs, sid)
	log.Info().Str("module", "core.room").Str("room", string(r.name)).Str("sid", string(sid)).Msg("member removed")
	return true
}

func (r *roomImpl) User(sid SessionID) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[sid]
	if !ok {
		return domain.User{}, false
	}
	return u.Clone(), true
}

func (r *roomImpl) Roster(now time.Time) Roster {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Project(r.users, now)
}

func (r *roomImpl) Lapsed(since, now time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.AvailableUntil.IsZero() {
			continue
		}
		if u.AvailableUntil.After(since) && !u.AvailableUntil.After(now) {
			return true
		}
	}
	return false
}

func (r *roomImpl) PublishRoster(now time.Time, encode func(Roster) (Frame, error)) (PublishResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, err := encode(Project(r.users, now))
	if err != nil {
		return PublishResult{}, err
	}
	return r.publishLocked(f), nil
}

func (r *roomImpl) Publish(f Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.publishLocked(f)
}

func (r *roomImpl) publishLocked(f Frame) PublishResult {
	res := PublishResult{}
	for sid, conn := range r.subs {
		if err := conn.TrySend(f); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.name)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) Send(sid SessionID, f Frame) error {
	r.mu.RLock()
	conn, ok := r.subs[sid]
	r.mu.RUnlock()
	if !ok {
		return ErrNotSubscribed
	}
	return conn.TrySend(f)
}
