package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kotche/quicknotes/internal/config"
	"github.com/kotche/quicknotes/internal/metrics"
	"github.com/kotche/quicknotes/internal/service/identity"
	"github.com/kotche/quicknotes/internal/service/notes"
	"github.com/kotche/quicknotes/internal/service/webhook"
)

type Deps struct {
	Identity  identity.Service
	Notes     notes.Service
	Verifier  *webhook.Verifier
	Processor *webhook.Processor
	Tokens    TokenVerifier
}

type Server struct {
	engine *gin.Engine
	addr   string
}

func New(cfg config.ServerConfig, deps Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observeRequests())

	// CORS runs before any route, webhook included, matching the client's
	// expectations during local development.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := newHandler(deps)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok"})
	})

	// The webhook route must see the raw body, so it stays outside any
	// body-consuming middleware.
	router.POST("/api/webhooks/clerk", h.clerkWebhook)

	api := router.Group("/api/notes")
	api.Use(requireAuth(deps.Tokens))

	api.GET("", h.listNotes)
	api.POST("", h.createNote)
	api.DELETE("/:noteId", h.deleteNote)

	return &Server{engine: router, addr: ":" + cfg.Port}
}

func (s *Server) Run() error {
	return s.engine.Run(s.addr)
}

func observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		metrics.ObserveRequest(started)
	}
}
