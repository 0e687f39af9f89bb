package core

import "errors"

var (
	ErrBackpressure  = errors.New("backpressure")
	ErrNotSubscribed = errors.New("session not subscribed to room")
)

// Frame is one encoded message for a client.
type Frame []byte

// SignalConnection abstracts the realtime transport of one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend must never block; a full buffer returns ErrBackpressure.
	TrySend(Frame) error
	Close()
}
