package orch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/available/internal/app"
	"github.com/dkeye/available/internal/core"
	"github.com/dkeye/available/internal/domain"
	"github.com/stretchr/testify/require"
)

var t0 = time.UnixMilli(1_700_000_000_000)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

type envelope struct {
	Type  string            `json:"type"`
	Users []core.RosterUser `json:"users"`
	Now   int64             `json:"now"`
}

// messages decodes every frame of the given type, oldest first.
func (c *fakeConn) messages(t *testing.T, typ string) []envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []envelope
	for _, f := range c.frames {
		var e envelope
		require.NoError(t, json.Unmarshal(f, &e))
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func (c *fakeConn) lastRoster(t *testing.T) envelope {
	t.Helper()
	rs := c.messages(t, "roster")
	require.NotEmpty(t, rs, "no roster received")
	return rs[len(rs)-1]
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	orch  *Orchestrator
	clock *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	topics, err := core.NewTopicStore()
	require.NoError(t, err)
	clk := &clock{now: t0}
	catalog := domain.NewCatalog(
		[]domain.KindCategory{{ID: "social", Types: []domain.KindType{{ID: "coffee"}, {ID: "lunch"}}}},
		3,
		[]domain.ContactMethodType{{Type: "email"}},
	)
	return &fixture{
		orch: &Orchestrator{
			Registry: app.NewRegistry(),
			Rooms:    app.NewRoomManager(),
			Policy:   app.SimplePolicy{},
			Catalog:  catalog,
			Topics:   topics,
			Now:      clk.Now,
		},
		clock: clk,
	}
}

func (f *fixture) connect(sid core.SessionID) *fakeConn {
	conn := &fakeConn{}
	_, cancel := context.WithCancel(context.Background())
	f.orch.Connect(sid, conn, cancel)
	return conn
}

func (f *fixture) join(sid core.SessionID, name, room string) *fakeConn {
	conn := f.connect(sid)
	f.orch.Join(sid, JoinRequest{Name: name, Room: room})
	return conn
}
