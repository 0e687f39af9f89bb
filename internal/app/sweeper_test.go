package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/available/internal/core"
	"github.com/dkeye/available/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.UnixMilli(1_700_000_000_000)

type recorder struct {
	mu    sync.Mutex
	rooms []domain.RoomName
	panic domain.RoomName
}

func (r *recorder) BroadcastRoster(room core.RoomService) {
	if room.Name() == r.panic {
		panic("broken room")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = append(r.rooms, room.Name())
}

func (r *recorder) seen() []domain.RoomName {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RoomName(nil), r.rooms...)
}

func availableFor(m core.RoomManager, room domain.RoomName, sid core.SessionID, mins int) {
	r := m.GetOrCreate(room)
	r.Join(sid, string(sid), domain.ProfileInput{}, t0)
	r.SetAvailable(sid, mins, domain.ProfileInput{}, t0)
}

func TestSweepRebroadcastsOnlyLapsedRooms(t *testing.T) {
	m := NewRoomManager()
	availableFor(m, "short", "a", 1)
	availableFor(m, "long", "b", 30)
	m.GetOrCreate("empty")

	rec := &recorder{}
	s := NewSweeper(m, rec)

	assert.Equal(t, 0, s.Sweep(t0.Add(15*time.Second)))
	assert.Equal(t, 0, s.Sweep(t0.Add(30*time.Second)))
	assert.Equal(t, 1, s.Sweep(t0.Add(75*time.Second)))
	assert.Equal(t, []domain.RoomName{"short"}, rec.seen())

	assert.Equal(t, 0, s.Sweep(t0.Add(90*time.Second)), "a lapse is reported once")
}

func TestSweepDoesNotMutateUsers(t *testing.T) {
	m := NewRoomManager()
	availableFor(m, "main", "a", 1)
	s := NewSweeper(m, &recorder{})
	s.Sweep(t0.Add(time.Minute))

	r, _ := m.Get("main")
	u, ok := r.User("a")
	require.True(t, ok)
	assert.Equal(t, t0.Add(time.Minute), u.AvailableUntil)
}

func TestSweepIsolatesRoomFailures(t *testing.T) {
	m := NewRoomManager()
	availableFor(m, "broken", "a", 1)
	availableFor(m, "fine", "b", 1)

	rec := &recorder{panic: "broken"}
	s := NewSweeper(m, rec)
	assert.Equal(t, 1, s.Sweep(t0.Add(time.Minute)))
	assert.Equal(t, []domain.RoomName{"fine"}, rec.seen())
}

func TestSweeperStartStop(t *testing.T) {
	m := NewRoomManager()
	availableFor(m, "main", "a", 1)

	var mu sync.Mutex
	now := t0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}

	rec := &recorder{}
	s := NewSweeper(m, rec, WithSweepInterval(5*time.Millisecond), WithClock(clock))
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return len(rec.seen()) > 0 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "stop is idempotent")
}

func TestSweeperStopWithoutStart(t *testing.T) {
	s := NewSweeper(NewRoomManager(), &recorder{})
	assert.NoError(t, s.Stop(context.Background()))
}
