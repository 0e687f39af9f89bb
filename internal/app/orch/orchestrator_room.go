package orch

import (
	"context"

	"github.com/dkeye/available/internal/core"
	"github.com/dkeye/available/internal/domain"
	"github.com/rs/zerolog/log"
)

type PresenceState int

const (
	StateDisconnected PresenceState = iota
	StateUnjoined
	StateIdle
	StateAvailable
)

func (s PresenceState) String() string {
	switch s {
	case StateUnjoined:
		return "unjoined"
	case StateIdle:
		return "idle"
	case StateAvailable:
		return "available"
	default:
		return "disconnected"
	}
}

type JoinRequest struct {
	Name    string
	Room    string
	Profile domain.ProfileInput
}

// Connect registers a fresh transport session. It starts out unjoined.
func (o *Orchestrator) Connect(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	o.Registry.BindSignal(sid, conn, cancel)
}

// Join subscribes the connection to a room and, when the name is usable,
// replaces its user record there. Joining a different room first removes the
// connection from the previous one.
func (o *Orchestrator) Join(sid core.SessionID, req JoinRequest) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	roomName := domain.NormalizeRoomName(req.Room)
	if sess.RoomName != "" && sess.RoomName != roomName {
		if prev, ok := o.Rooms.Get(sess.RoomName); ok {
			prev.Disconnect(sid)
			o.BroadcastRoster(prev)
			log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(sess.RoomName)).Msg("left previous room")
		}
	}

	room := o.Rooms.GetOrCreate(roomName)
	room.Subscribe(sid, sess.Signal)
	o.Registry.UpdateRoom(sid, roomName)

	if !room.Join(sid, req.Name, o.Catalog.SanitizeProfile(req.Profile), o.now()) {
		return
	}
	o.BroadcastRoster(room)
	o.sendBoard(room, sid)
}

func (o *Orchestrator) SetAvailable(sid core.SessionID, minutes int, p domain.ProfileInput) {
	room, ok := o.roomOf(sid)
	if !ok {
		return
	}
	if room.SetAvailable(sid, minutes, o.Catalog.SanitizeProfile(p), o.now()) {
		o.BroadcastRoster(room)
	}
}

func (o *Orchestrator) Extend(sid core.SessionID, minutes int) {
	room, ok := o.roomOf(sid)
	if !ok {
		return
	}
	if room.Extend(sid, minutes, o.now()) {
		o.BroadcastRoster(room)
	}
}

func (o *Orchestrator) Done(sid core.SessionID) {
	room, ok := o.roomOf(sid)
	if !ok {
		return
	}
	if room.Done(sid, o.now()) {
		o.BroadcastRoster(room)
	}
}

// OnDisconnect is terminal for the session: the user record goes away even
// when its window is still open.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	if room, ok := o.roomOf(sid); ok {
		room.Disconnect(sid)
		o.BroadcastRoster(room)
	}
	o.Registry.Unbind(sid)
}

// State reports where the connection is in the presence state machine.
func (o *Orchestrator) State(sid core.SessionID) PresenceState {
	if _, ok := o.Registry.GetSession(sid); !ok {
		return StateDisconnected
	}
	room, ok := o.roomOf(sid)
	if !ok {
		return StateUnjoined
	}
	u, ok := room.User(sid)
	if !ok {
		return StateUnjoined
	}
	if u.AvailableAt(o.now()) {
		return StateAvailable
	}
	return StateIdle
}

func (o *Orchestrator) roomOf(sid core.SessionID) (core.RoomService, bool) {
	name, ok := o.Registry.RoomOf(sid)
	if !ok {
		return nil, false
	}
	return o.Rooms.Get(name)
}

// RoomRoster is what a client subscribed to the room would see right now.
// An unknown room has an empty roster.
func (o *Orchestrator) RoomRoster(name domain.RoomName) core.Roster {
	now := o.now()
	room, ok := o.Rooms.Get(name)
	if !ok {
		return core.Roster{Users: []core.RosterUser{}, Now: now.UnixMilli()}
	}
	return room.Roster(now)
}
