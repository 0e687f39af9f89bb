// Package orch binds connections to rooms and turns client intents into room
// mutations followed by a roster broadcast.
package orch

import (
	"encoding/json"
	"time"

	"github.com/dkeye/available/internal/app"
	"github.com/dkeye/available/internal/core"
	"github.com/dkeye/available/internal/domain"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
	Catalog  *domain.Catalog
	Topics   *core.TopicStore
	// Now is the clock used for every mutation; nil means time.Now.
	Now func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

type rosterMessage struct {
	Type string `json:"type"`
	core.Roster
}

type topicsMessage struct {
	Type   string         `json:"type"`
	Topics []domain.Topic `json:"topics"`
}

type responsesMessage struct {
	Type      string            `json:"type"`
	TopicID   domain.TopicID    `json:"topicId,omitempty"`
	Responses []domain.Response `json:"responses"`
}

func encodeRoster(r core.Roster) (core.Frame, error) {
	return json.Marshal(rosterMessage{Type: "roster", Roster: r})
}

// BroadcastRoster sends the room's current roster to everyone subscribed to
// it. Delivery is best effort; clients that cannot keep up are handed to the
// backpressure policy.
func (o *Orchestrator) BroadcastRoster(room core.RoomService) {
	res, err := room.PublishRoster(o.now(), encodeRoster)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(room.Name())).Msg("encode roster")
		return
	}
	o.handleDropped(room, res)
}

func (o *Orchestrator) publish(room core.RoomService, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(room.Name())).Msg("publish marshal")
		return
	}
	o.handleDropped(room, room.Publish(b))
}

func (o *Orchestrator) sendTo(room core.RoomService, sid core.SessionID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("send marshal")
		return
	}
	if err := room.Send(sid, b); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("send failed")
	}
}

func (o *Orchestrator) handleDropped(room core.RoomService, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, sid := range res.Dropped {
		switch o.Policy.OnBackPressure(room, sid) {
		case app.KickMember:
			o.Kick(sid)
		case app.NoAction:
		}
	}
}

// Kick closes the client's transport. The adapter's read loop then reports
// the disconnect, which removes the user and rebroadcasts.
func (o *Orchestrator) Kick(sid core.SessionID) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("room", string(sess.RoomName)).Msg("kicking slow client")
	o.Registry.Cancel(sid)
	if sess.Signal != nil {
		sess.Signal.Close()
	}
}
