package domain

import "strings"

const (
	MaxRoomNameLen = 32
	DefaultRoom    = RoomName("main")
)

type RoomName string

// NormalizeRoomName clamps a client-supplied room name and falls back to
// DefaultRoom when nothing usable is left. Names stay case-sensitive.
func NormalizeRoomName(s string) RoomName {
	name := strings.TrimSpace(Clamp(strings.TrimSpace(s), MaxRoomNameLen))
	if name == "" {
		return DefaultRoom
	}
	return RoomName(name)
}
