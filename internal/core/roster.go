package core

import (
	"cmp"
	"slices"
	"time"

	"github.com/dkeye/available/internal/domain"
)

// RosterUser is the public shape of an available user. Timestamps are
// milliseconds since the epoch.
type RosterUser struct {
	ID             domain.UserID          `json:"id"`
	Name           string                 `json:"name"`
	Kinds          []string               `json:"kinds"`
	Tags           string                 `json:"tags"`
	Location       string                 `json:"location"`
	Note           string                 `json:"note"`
	ContactMethods []domain.ContactMethod `json:"contactMethods"`
	AvailableUntil int64                  `json:"availableUntil"`
	UpdatedAt      int64                  `json:"updatedAt"`
}

// Roster carries the server clock so clients can correct for skew.
type Roster struct {
	Users []RosterUser `json:"users"`
	Now   int64        `json:"now"`
}

// Project returns the users whose window is open at now, soonest to expire
// first. Ties break on id so equal inputs always give equal output.
func Project(users map[SessionID]*domain.User, now time.Time) Roster {
	out := make([]RosterUser, 0, len(users))
	for _, u := range users {
		if !u.AvailableAt(now) {
			continue
		}
		out = append(out, toRosterUser(u))
	}
	slices.SortFunc(out, func(a, b RosterUser) int {
		if c := cmp.Compare(a.AvailableUntil, b.AvailableUntil); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return Roster{Users: out, Now: now.UnixMilli()}
}

func toRosterUser(u *domain.User) RosterUser {
	kinds := slices.Clone(u.Kinds)
	if kinds == nil {
		kinds = []string{}
	}
	contacts := slices.Clone(u.ContactMethods)
	if contacts == nil {
		contacts = []domain.ContactMethod{}
	}
	return RosterUser{
		ID:             u.ID,
		Name:           u.Name,
		Kinds:          kinds,
		Tags:           u.Tags,
		Location:       u.Location,
		Note:           u.Note,
		ContactMethods: contacts,
		AvailableUntil: u.AvailableUntil.UnixMilli(),
		UpdatedAt:      u.UpdatedAt.UnixMilli(),
	}
}
