package http

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/dkeye/available/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	profileKey    = "profile"
	profileMaxAge = 3600 * 24 * 30
	// maxProfileBytes keeps the encoded session under securecookie's 4096
	// byte limit; encoding roughly doubles the stored JSON.
	maxProfileBytes = 1800
)

// Profile is the form a client last submitted, kept so a returning browser
// can pre-fill it. It is never used to restore presence.
type Profile struct {
	Name           string                 `json:"name"`
	Room           domain.RoomName        `json:"room"`
	Kinds          []string               `json:"kinds"`
	Tags           string                 `json:"tags"`
	Location       string                 `json:"location"`
	Note           string                 `json:"note"`
	ContactMethods []domain.ContactMethod `json:"contactMethods"`
	Minutes        int                    `json:"minutes"`
}

func defaultProfile() Profile {
	return Profile{
		Room:           domain.DefaultRoom,
		Kinds:          []string{},
		ContactMethods: []domain.ContactMethod{},
		Minutes:        domain.DefaultAvailableMins,
	}
}

type profileRequest struct {
	Name           string                 `json:"name"`
	Room           string                 `json:"room"`
	Kinds          []string               `json:"kinds"`
	Tags           string                 `json:"tags"`
	Location       string                 `json:"location"`
	Note           string                 `json:"note"`
	ContactMethods []domain.ContactMethod `json:"contactMethods"`
	Minutes        json.RawMessage        `json:"minutes"`
}

func (h *Handlers) sanitizeProfile(req profileRequest) Profile {
	cat := h.orch.Catalog
	return Profile{
		Name:           domain.CleanName(req.Name),
		Room:           domain.NormalizeRoomName(req.Room),
		Kinds:          cat.SanitizeKinds(req.Kinds),
		Tags:           domain.Clamp(req.Tags, domain.MaxTagsLen),
		Location:       domain.Clamp(req.Location, domain.MaxLocationLen),
		Note:           domain.Clamp(req.Note, domain.MaxNoteLen),
		ContactMethods: cat.SanitizeContacts(req.ContactMethods),
		Minutes:        domain.ParseMinutes(req.Minutes, domain.DefaultAvailableMins),
	}
}

// fitProfile shrinks p until its encoding fits in the session cookie. It drops
// contact methods from the end first, then halves note, location and tags in
// that order. Name, room, kinds and minutes are always kept.
func fitProfile(p Profile) (Profile, []byte, error) {
	for {
		b, err := json.Marshal(p)
		if err != nil || len(b) <= maxProfileBytes {
			return p, b, err
		}
		switch {
		case len(p.ContactMethods) > 0:
			p.ContactMethods = p.ContactMethods[:len(p.ContactMethods)-1]
		case p.Note != "":
			p.Note = halve(p.Note)
		case p.Location != "":
			p.Location = halve(p.Location)
		case p.Tags != "":
			p.Tags = halve(p.Tags)
		default:
			return p, b, nil
		}
	}
}

func halve(s string) string {
	return domain.Clamp(s, utf8.RuneCountInString(s)/2)
}

func (h *Handlers) GetProfile(c *gin.Context) {
	p := defaultProfile()
	raw, ok := sessions.Default(c).Get(profileKey).(string)
	if ok {
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("discarding unreadable profile")
			p = defaultProfile()
		}
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) PutProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p, b, err := fitProfile(h.sanitizeProfile(req))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	sess := sessions.Default(c)
	sess.Set(profileKey, string(b))
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, p)
}
