package core

import (
	"time"

	"github.com/dkeye/available/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}

type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"memberCount"`
	Subscribers int             `json:"subscribers"`
}

// RoomService is the core-facing API of a room.
// It owns the user records and the broadcast set but never touches
// transport resources beyond TrySend.
type RoomService interface {
	Name() domain.RoomName
	Info() RoomInfo

	Subscribe(sid SessionID, conn SignalConnection)

	// Mutations report whether the roster must be rebroadcast.
	Join(sid SessionID, name string, p domain.ProfileInput, now time.Time) bool
	SetAvailable(sid SessionID, minutes int, p domain.ProfileInput, now time.Time) bool
	Extend(sid SessionID, minutes int, now time.Time) bool
	Done(sid SessionID, now time.Time) bool
	Disconnect(sid SessionID) bool

	User(sid SessionID) (domain.User, bool)
	Roster(now time.Time) Roster
	// Lapsed reports whether a window closed in (since, now].
	Lapsed(since, now time.Time) bool

	// PublishRoster projects at now and fans the encoded roster out to every
	// subscriber while holding the room lock, so snapshots reach each client
	// in mutation order.
	PublishRoster(now time.Time, encode func(Roster) (Frame, error)) (PublishResult, error)
	Publish(f Frame) PublishResult
	Send(sid SessionID, f Frame) error
}

type RoomManager interface {
	GetOrCreate(name domain.RoomName) RoomService
	Get(name domain.RoomName) (RoomService, bool)
	List() []RoomInfo
	Range(fn func(RoomService))
}
