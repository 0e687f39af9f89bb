package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxNameLen     = 64
	MaxTagsLen     = 80
	MaxLocationLen = 160
	MaxNoteLen     = 160

	MaxContactMethods    = 5
	MaxContactValueLen   = 200
	MaxContactTypeLen    = 32
	DefaultMaxSelections = 3

	MinMinutes           = 1
	MaxMinutes           = 240
	DefaultAvailableMins = 15
	DefaultExtendMins    = 10
)

// Clamp truncates s to at most max runes. It never splits a UTF-8 sequence.
func Clamp(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// CleanName trims surrounding whitespace and clamps to MaxNameLen.
// An empty result means the name is unusable.
func CleanName(s string) string {
	return strings.TrimSpace(Clamp(strings.TrimSpace(s), MaxNameLen))
}

func ClampMinutes(m int) int {
	if m < MinMinutes {
		return MinMinutes
	}
	if m > MaxMinutes {
		return MaxMinutes
	}
	return m
}

// ParseMinutes reads a duration in minutes from an untrusted JSON value and
// clamps it into [MinMinutes, MaxMinutes]. Values that count as missing
// (absent, null, false, 0, "") yield def. Numbers truncate toward zero.
// Strings are read up to the first non-digit, so "5abc" is 5 and "1e3" is 1;
// a string with no leading digits yields def.
func ParseMinutes(raw json.RawMessage, def int) int {
	s := strings.TrimSpace(string(raw))
	switch {
	case s == "" || s == "null" || s == "false" || s == "true":
		return ClampMinutes(def)
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(raw, &str); err != nil || str == "" {
			return ClampMinutes(def)
		}
		n, ok := leadingInt(str)
		if !ok {
			return ClampMinutes(def)
		}
		return ClampMinutes(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return ClampMinutes(def)
	}
	if f > MaxMinutes {
		return MaxMinutes
	}
	return ClampMinutes(int(f))
}

// leadingInt parses an optionally signed run of decimal digits at the start
// of s after leading whitespace. Results saturate past MaxMinutes.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		if n <= MaxMinutes {
			n = n*10 + int(s[digits]-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
