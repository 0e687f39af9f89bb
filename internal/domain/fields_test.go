package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, "abc", Clamp("abc", 5))
	assert.Equal(t, "ab", Clamp("abc", 2))
	assert.Equal(t, "", Clamp("abc", 0))
	assert.Equal(t, "héé", Clamp("héééé", 3), "counts runes, not bytes")

	long := strings.Repeat("x", 500)
	assert.Len(t, Clamp(long, MaxNoteLen), MaxNoteLen)
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Alice", CleanName("  Alice \n"))
	assert.Equal(t, "", CleanName("   "))
	assert.Len(t, CleanName(strings.Repeat("n", 100)), MaxNameLen)
}

func TestNormalizeRoomName(t *testing.T) {
	assert.Equal(t, DefaultRoom, NormalizeRoomName(""))
	assert.Equal(t, DefaultRoom, NormalizeRoomName("   "))
	assert.Equal(t, RoomName("Team"), NormalizeRoomName("Team"))
	assert.NotEqual(t, NormalizeRoomName("team"), NormalizeRoomName("Team"))
	assert.Len(t, string(NormalizeRoomName(strings.Repeat("r", 50))), MaxRoomNameLen)
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{``, 15},
		{`null`, 15},
		{`30`, 30},
		{`"45"`, 45},
		{`12.9`, 12},
		{`0`, 15},
		{`false`, 15},
		{`true`, 15},
		{`""`, 15},
		{`"0"`, 1},
		{`-5`, 1},
		{`"-5"`, 1},
		{`1000`, 240},
		{`1e20`, 240},
		{`1e3`, 240},
		{`"1e3"`, 1},
		{`"5abc"`, 5},
		{`" 20 minutes"`, 20},
		{`"99999999999999999999"`, 240},
		{`"soon"`, 15},
		{`{}`, 15},
		{`[1]`, 15},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseMinutes(json.RawMessage(tc.raw), DefaultAvailableMins))
		})
	}
}

func TestClampMinutes(t *testing.T) {
	assert.Equal(t, 1, ClampMinutes(-3))
	assert.Equal(t, 240, ClampMinutes(241))
	assert.Equal(t, 60, ClampMinutes(60))
}
