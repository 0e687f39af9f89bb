package http

import (
	"context"

	"github.com/dkeye/available/internal/adapters/blob"
	"github.com/dkeye/available/internal/adapters/signal"
	"github.com/dkeye/available/internal/app/orch"
	"github.com/dkeye/available/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const sessionName = "AvailableSessions"

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, blobs blob.Store) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: profileMaxAge, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)

	var limiter *signal.RateLimiter
	if cfg.Intents.Rate > 0 {
		limiter = signal.NewRateLimiter(cfg.Intents.Rate, cfg.Intents.Burst)
	}
	ws := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		Limiter:    limiter,
	})
	r.GET("/ws", func(c *gin.Context) {
		ws.HandleSignal(ctx, c)
	})

	h := NewHandlers(o, blobs, cfg.Blob.MaxUploadBytes)
	r.GET("/uploads/:name", h.ServeUpload)

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/config/availability-types", h.AvailabilityTypes)
	api.GET("/rooms", h.ListRooms)
	api.GET("/rooms/:name/roster", h.RoomRoster)
	api.GET("/topics", h.ListTopics)
	api.POST("/topics", h.CreateTopic)
	api.GET("/responses", h.ListResponses)
	api.POST("/responses", h.CreateResponse)
	api.POST("/upload", h.Upload)
	api.GET("/profile", h.GetProfile)
	api.PUT("/profile", h.PutProfile)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
