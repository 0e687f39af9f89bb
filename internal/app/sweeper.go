package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/available/internal/core"
	"github.com/rs/zerolog/log"
)

const DefaultSweepInterval = 15 * time.Second

// RosterBroadcaster pushes a fresh roster snapshot to a room.
type RosterBroadcaster interface {
	BroadcastRoster(room core.RoomService)
}

// Sweeper periodically rebroadcasts rooms in which an availability window
// closed since the previous sweep. It never mutates users: expiry is applied
// when the roster is projected, the sweep only tells idle clients about it.
type Sweeper struct {
	rooms    core.RoomManager
	out      RosterBroadcaster
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

type SweeperOption func(*Sweeper)

func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		s.now = now
	}
}

func NewSweeper(rooms core.RoomManager, out RosterBroadcaster, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		rooms:    rooms,
		out:      out,
		interval: DefaultSweepInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the periodic sweep until Stop is called or ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	go s.run(ctx)
	log.Info().Str("module", "app.sweeper").Dur("interval", s.interval).Msg("sweeper started")
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.sweeper").Msg("sweeper ctx done")
			return
		case <-s.stopChan:
			log.Info().Str("module", "app.sweeper").Msg("sweeper received stop signal")
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Stop waits for the sweep loop to exit or for ctx to expire.
func (s *Sweeper) Stop(ctx context.Context) error {
	if s.stopChan == nil {
		return nil
	}
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	select {
	case <-s.doneChan:
		log.Info().Str("module", "app.sweeper").Msg("sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep runs one step synchronously and returns how many rooms were
// rebroadcast. A failing room is logged and skipped.
func (s *Sweeper) Sweep(now time.Time) int {
	s.mu.Lock()
	since := s.last
	if since.IsZero() {
		since = now.Add(-s.interval)
	}
	s.last = now
	s.mu.Unlock()

	changed := 0
	s.rooms.Range(func(room core.RoomService) {
		lapsed, err := s.sweepRoom(room, since, now)
		if err != nil {
			log.Error().Err(err).Str("module", "app.sweeper").Str("room", string(room.Name())).Msg("sweep failed")
			return
		}
		if lapsed {
			changed++
		}
	})
	if changed > 0 {
		log.Debug().Str("module", "app.sweeper").Int("rooms", changed).Msg("rebroadcast lapsed rooms")
	}
	return changed
}

func (s *Sweeper) sweepRoom(room core.RoomService, since, now time.Time) (lapsed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if !room.Lapsed(since, now) {
		return false, nil
	}
	s.out.BroadcastRoster(room)
	return true, nil
}
