package signal

import (
	"bytes"
	"encoding/json"

	"github.com/dkeye/available/internal/domain"
)

// text is a string field that may be absent. Only a JSON string counts as
// supplied; null and other types leave the field untouched.
type text struct {
	Value string
	Set   bool
}

func (t *text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	t.Value, t.Set = s, true
	return nil
}

// stringList accepts an array and skips non-string elements.
type stringList struct {
	Values []string
	Set    bool
}

func (l *stringList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		return nil
	}
	l.Set = true
	l.Values = make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if json.Unmarshal(r, &s) == nil {
			l.Values = append(l.Values, s)
		}
	}
	return nil
}

type contactList struct {
	Values []domain.ContactMethod
	Set    bool
}

func (l *contactList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		return nil
	}
	l.Set = true
	l.Values = make([]domain.ContactMethod, 0, len(raw))
	for _, r := range raw {
		var m struct {
			Type  text `json:"type"`
			Value text `json:"value"`
		}
		if !bytes.HasPrefix(bytes.TrimSpace(r), []byte("{")) || json.Unmarshal(r, &m) != nil {
			continue
		}
		l.Values = append(l.Values, domain.ContactMethod{Type: m.Type.Value, Value: m.Value.Value})
	}
	return nil
}

type profilePayload struct {
	Kinds          stringList  `json:"kinds"`
	Tags           text        `json:"tags"`
	Location       text        `json:"location"`
	Note           text        `json:"note"`
	ContactMethods contactList `json:"contactMethods"`
}

func (p profilePayload) input() domain.ProfileInput {
	var in domain.ProfileInput
	if p.Kinds.Set {
		in.Kinds = &p.Kinds.Values
	}
	if p.Tags.Set {
		in.Tags = &p.Tags.Value
	}
	if p.Location.Set {
		in.Location = &p.Location.Value
	}
	if p.Note.Set {
		in.Note = &p.Note.Value
	}
	if p.ContactMethods.Set {
		in.ContactMethods = &p.ContactMethods.Values
	}
	return in
}

type joinPayload struct {
	Name text `json:"name"`
	Room text `json:"room"`
	profilePayload
}

type availablePayload struct {
	Minutes json.RawMessage `json:"minutes"`
	profilePayload
}

type extendPayload struct {
	Minutes json.RawMessage `json:"minutes"`
}
