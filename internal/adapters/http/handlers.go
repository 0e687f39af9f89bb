package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dkeye/available/internal/adapters/blob"
	"github.com/dkeye/available/internal/app/orch"
	"github.com/dkeye/available/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// Handlers serves the REST side: read-only views of the presence board and
// the asynchronous topic/response flow.
type Handlers struct {
	orch      *orch.Orchestrator
	blobs     blob.Store
	maxUpload int64
}

func NewHandlers(o *orch.Orchestrator, blobs blob.Store, maxUpload int64) *Handlers {
	if maxUpload <= 0 {
		maxUpload = 25 << 20
	}
	return &Handlers{orch: o, blobs: blobs, maxUpload: maxUpload}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"now":      time.Now().UnixMilli(),
		"sessions": h.orch.Registry.Count(),
	})
}

func (h *Handlers) AvailabilityTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Catalog)
}

func (h *Handlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Rooms.List()})
}

func (h *Handlers) RoomRoster(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.RoomRoster(domain.NormalizeRoomName(c.Param("name"))))
}

func (h *Handlers) ListTopics(c *gin.Context) {
	room := domain.NormalizeRoomName(c.Query("room"))
	c.JSON(http.StatusOK, h.orch.Topics.Topics(room))
}

type topicRequest struct {
	Title      string          `json:"title"`
	Prompt     string          `json:"prompt"`
	MaxMinutes json.RawMessage `json:"maxMinutes"`
	Room       string          `json:"room"`
	DueAt      string          `json:"dueAt"`
	CreatedBy  string          `json:"createdBy"`
}

func (h *Handlers) CreateTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.orch.CreateTopic(domain.TopicDraft{
		Title:      req.Title,
		Prompt:     req.Prompt,
		MaxMinutes: domain.ParseMinutes(req.MaxMinutes, domain.DefaultTopicMins),
		Room:       req.Room,
		DueAt:      req.DueAt,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	log.Info().Str("module", "adapters.http").Str("topic", string(t.ID)).Str("room", string(t.Room)).Msg("topic created")
	c.JSON(http.StatusOK, t)
}

func (h *Handlers) ListResponses(c *gin.Context) {
	room := domain.NormalizeRoomName(c.Query("room"))
	c.JSON(http.StatusOK, h.orch.Topics.Responses(room, domain.TopicID(c.Query("topicId"))))
}

type responseRequest struct {
	TopicID  string `json:"topicId"`
	Name     string `json:"name"`
	Tags     string `json:"tags"`
	Note     string `json:"note"`
	AudioURL string `json:"audioUrl"`
	Duration any    `json:"duration"`
}

func (h *Handlers) CreateResponse(c *gin.Context) {
	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	r, err := h.orch.AddResponse(domain.ResponseDraft{
		TopicID:  req.TopicID,
		Name:     req.Name,
		Tags:     req.Tags,
		Note:     req.Note,
		AudioURL: req.AudioURL,
		Duration: cast.ToInt(req.Duration),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrAudioURLRequired),
		errors.Is(err, domain.ErrUnknownTopic):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("module", "adapters.http").Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
