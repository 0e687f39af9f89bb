// Package domain contains entities and the pure field validation around them.
package domain

import (
	"slices"
	"time"
)

type UserID string

type ContactMethod struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ProfileInput carries optional profile fields. A nil field was not supplied.
type ProfileInput struct {
	Kinds          *[]string
	Tags           *string
	Location       *string
	Note           *string
	ContactMethods *[]ContactMethod
}

// User is one connection's presence record inside a room.
// A zero AvailableUntil means not available.
type User struct {
	ID             UserID
	Name           string
	Kinds          []string
	Tags           string
	Location       string
	Note           string
	ContactMethods []ContactMethod
	AvailableUntil time.Time
	UpdatedAt      time.Time
}

// NewUser builds a fresh, not-yet-available record. Fields absent from p are
// empty: a join replaces, it never merges.
func NewUser(id UserID, name string, p ProfileInput, now time.Time) *User {
	u := &User{
		ID:             id,
		Name:           name,
		Kinds:          []string{},
		ContactMethods: []ContactMethod{},
		UpdatedAt:      now,
	}
	u.Apply(p)
	return u
}

// Apply overwrites the fields present in p. p must already be sanitized.
func (u *User) Apply(p ProfileInput) {
	if p.Kinds != nil {
		u.Kinds = *p.Kinds
	}
	if p.Tags != nil {
		u.Tags = *p.Tags
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Note != nil {
		u.Note = *p.Note
	}
	if p.ContactMethods != nil {
		u.ContactMethods = *p.ContactMethods
	}
}

// AvailableAt reports whether the window is still open at now (strict future).
func (u *User) AvailableAt(now time.Time) bool {
	return !u.AvailableUntil.IsZero() && u.AvailableUntil.After(now)
}

// SetAvailable opens a fresh window of minutes starting at now.
func (u *User) SetAvailable(minutes int, now time.Time) {
	u.AvailableUntil = now.Add(time.Duration(ClampMinutes(minutes)) * time.Minute)
	u.UpdatedAt = now
}

// Extend adds minutes to a window that is still open, or restarts it from
// now when it is unset or already in the past.
func (u *User) Extend(minutes int, now time.Time) {
	d := time.Duration(ClampMinutes(minutes)) * time.Minute
	if u.AvailableUntil.IsZero() || u.AvailableUntil.Before(now) {
		u.AvailableUntil = now.Add(d)
	} else {
		u.AvailableUntil = u.AvailableUntil.Add(d)
	}
	u.UpdatedAt = now
}

func (u *User) Done(now time.Time) {
	u.AvailableUntil = time.Time{}
	u.UpdatedAt = now
}

// Clone returns a deep copy safe to hand out of a room's lock.
func (u *User) Clone() User {
	c := *u
	c.Kinds = slices.Clone(u.Kinds)
	c.ContactMethods = slices.Clone(u.ContactMethods)
	return c
}
