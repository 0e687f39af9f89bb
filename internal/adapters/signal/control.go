package signal

import (
	"time"

	"github.com/dkeye/available/internal/core"
)

type pongMessage struct {
	Type string `json:"type"`
	Now  int64  `json:"now"`
}

// handlePing answers with the server clock so idle clients can keep their
// countdowns aligned between rosters.
func (ctl *SignalWSController) handlePing(conn core.SignalConnection) {
	ctl.sendJSON(conn, pongMessage{Type: "pong", Now: time.Now().UnixMilli()})
}
