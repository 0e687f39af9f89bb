package domain

// KindType is one selectable availability category, e.g. "coffee".
type KindType struct {
	ID    string `json:"id" mapstructure:"id"`
	Label string `json:"label" mapstructure:"label"`
	Emoji string `json:"emoji,omitempty" mapstructure:"emoji"`
}

type KindCategory struct {
	ID    string     `json:"id" mapstructure:"id"`
	Label string     `json:"label" mapstructure:"label"`
	Types []KindType `json:"types" mapstructure:"types"`
}

// ContactMethodType describes a contact channel clients may attach.
// URLTemplate is rendered client side; the server only checks Type.
type ContactMethodType struct {
	Type        string `json:"type" mapstructure:"type"`
	Label       string `json:"label" mapstructure:"label"`
	URLTemplate string `json:"urlTemplate,omitempty" mapstructure:"urltemplate"`
}

// Catalog is the whitelist every kind and contact method is checked against.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	Categories     []KindCategory      `json:"categories"`
	MaxSelections  int                 `json:"maxSelections"`
	ContactMethods []ContactMethodType `json:"contactMethods"`

	kinds    map[string]struct{}
	contacts map[string]struct{}
}

func NewCatalog(categories []KindCategory, maxSelections int, contacts []ContactMethodType) *Catalog {
	if maxSelections <= 0 {
		maxSelections = DefaultMaxSelections
	}
	c := &Catalog{
		Categories:     categories,
		MaxSelections:  maxSelections,
		ContactMethods: contacts,
		kinds:          make(map[string]struct{}),
		contacts:       make(map[string]struct{}),
	}
	for _, cat := range categories {
		for _, t := range cat.Types {
			c.kinds[t.ID] = struct{}{}
		}
	}
	for _, m := range contacts {
		c.contacts[m.Type] = struct{}{}
	}
	return c
}

// DefaultCatalog is used when no catalog document is configured.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		[]KindCategory{
			{ID: "social", Label: "Social", Types: []KindType{
				{ID: "coffee", Label: "Coffee chat", Emoji: "☕"},
				{ID: "lunch", Label: "Lunch", Emoji: "🥪"},
				{ID: "walk", Label: "Walk", Emoji: "🚶"},
			}},
			{ID: "work", Label: "Work", Types: []KindType{
				{ID: "pairing", Label: "Pairing", Emoji: "👥"},
				{ID: "review", Label: "Code review", Emoji: "🔍"},
				{ID: "brainstorm", Label: "Brainstorm", Emoji: "💡"},
			}},
		},
		DefaultMaxSelections,
		[]ContactMethodType{
			{Type: "email", Label: "Email", URLTemplate: "mailto:{value}"},
			{Type: "phone", Label: "Phone", URLTemplate: "tel:{value}"},
			{Type: "slack", Label: "Slack"},
			{Type: "zoom", Label: "Zoom", URLTemplate: "{value}"},
		},
	)
}

func (c *Catalog) AllowsKind(id string) bool {
	_, ok := c.kinds[id]
	return ok
}

func (c *Catalog) AllowsContact(typ string) bool {
	_, ok := c.contacts[typ]
	return ok
}

// SanitizeKinds keeps whitelisted, distinct kinds in submission order and
// truncates to MaxSelections. It never returns nil.
func (c *Catalog) SanitizeKinds(kinds []string) []string {
	out := make([]string, 0, min(len(kinds), c.MaxSelections))
	seen := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		if len(out) == c.MaxSelections {
			break
		}
		if !c.AllowsKind(k) {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// SanitizeContacts drops entries with an unknown type or an empty value,
// clamps values and caps the list at MaxContactMethods.
func (c *Catalog) SanitizeContacts(in []ContactMethod) []ContactMethod {
	out := make([]ContactMethod, 0, min(len(in), MaxContactMethods))
	for _, m := range in {
		if len(out) == MaxContactMethods {
			break
		}
		if !c.AllowsContact(m.Type) {
			continue
		}
		v := Clamp(m.Value, MaxContactValueLen)
		if v == "" {
			continue
		}
		out = append(out, ContactMethod{Type: m.Type, Value: v})
	}
	return out
}

// SanitizeProfile validates every field present in p. Absent fields stay nil
// so callers can tell "leave unchanged" from "clear".
func (c *Catalog) SanitizeProfile(p ProfileInput) ProfileInput {
	var out ProfileInput
	if p.Kinds != nil {
		k := c.SanitizeKinds(*p.Kinds)
		out.Kinds = &k
	}
	if p.Tags != nil {
		out.Tags = ptr(Clamp(*p.Tags, MaxTagsLen))
	}
	if p.Location != nil {
		out.Location = ptr(Clamp(*p.Location, MaxLocationLen))
	}
	if p.Note != nil {
		out.Note = ptr(Clamp(*p.Note, MaxNoteLen))
	}
	if p.ContactMethods != nil {
		cm := c.SanitizeContacts(*p.ContactMethods)
		out.ContactMethods = &cm
	}
	return out
}

func ptr[T any](v T) *T { return &v }
