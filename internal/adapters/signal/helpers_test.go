package signal

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/available/internal/app"
	"github.com/dkeye/available/internal/app/orch"
	"github.com/dkeye/available/internal/core"
	"github.com/dkeye/available/internal/domain"
	"github.com/stretchr/testify/require"
)

var t0 = time.UnixMilli(1_700_000_000_000)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

type message struct {
	Type  string            `json:"type"`
	Error string            `json:"error"`
	Users []core.RosterUser `json:"users"`
	Now   int64             `json:"now"`
}

func (c *fakeConn) last(t *testing.T, typ string) message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.frames) - 1; i >= 0; i-- {
		var m message
		require.NoError(t, json.Unmarshal(c.frames[i], &m))
		if m.Type == typ {
			return m
		}
	}
	t.Fatalf("no %q message received", typ)
	return message{}
}

func newOrchestrator(t *testing.T) *orch.Orchestrator {
	t.Helper()
	topics, err := core.NewTopicStore()
	require.NoError(t, err)
	return &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
		Catalog:  domain.DefaultCatalog(),
		Topics:   topics,
		Now:      func() time.Time { return t0 },
	}
}

func connect(o *orch.Orchestrator, sid core.SessionID) *fakeConn {
	conn := &fakeConn{}
	_, cancel := context.WithCancel(context.Background())
	o.Connect(sid, conn, cancel)
	return conn
}
