// Package web serves the FocusFlow dashboard API and the live event
// feed over websocket.
package web

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/Techy2419/Focus-Flow/internal/store"
	"github.com/Techy2419/Focus-Flow/pkg/detect"
	"github.com/Techy2419/Focus-Flow/pkg/distraction"
	"github.com/Techy2419/Focus-Flow/pkg/engine"
	"github.com/Techy2419/Focus-Flow/pkg/hub"
)

// History reads persisted sessions for the dashboard. The SQLite store
// satisfies it; a nil History disables the history endpoints.
type History interface {
	RecentSessions(ctx context.Context, limit int) ([]store.Record, error)
	SessionEvents(ctx context.Context, sessionID string) ([]distraction.Event, error)
	Stats(ctx context.Context) (*store.Stats, error)
}

// Config assembles the server.
type Config struct {
	Engine   *engine.Engine
	Detector detect.Detector
	History  History
	Logger   *slog.Logger
}

// Server is the dashboard HTTP server.
type Server struct {
	app      *fiber.App
	engine   *engine.Engine
	detector detect.Detector
	history  History
	events   *hub.Hub
	logger   *slog.Logger
}

// NewServer builds the fiber app and its routes. The returned server's
// event hub should be passed to the engine as its publisher.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine:   cfg.Engine,
		detector: cfg.Detector,
		history:  cfg.History,
		events:   hub.New("events", logger),
		logger:   logger.With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "FocusFlow",
		DisableStartupMessage: true,
	})

	// CORS for the local dev frontend
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/state", s.handleState)
	api.Get("/alerts", s.handleAlerts)

	api.Get("/session", s.handleSession)
	api.Post("/session/start", s.handleSessionStart)
	api.Post("/session/pause", s.handleSessionPause)
	api.Post("/session/resume", s.handleSessionResume)
	api.Post("/session/end", s.handleSessionEnd)

	api.Get("/sessions", s.handleSessions)
	api.Get("/sessions/:id/events", s.handleSessionEvents)
	api.Get("/stats", s.handleStats)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Events returns the feed hub for wiring into the engine.
func (s *Server) Events() *hub.Hub {
	return s.events
}

// Listen starts the feed hub and blocks serving HTTP.
func (s *Server) Listen(addr string) error {
	go s.events.Run()
	s.logger.Info("dashboard listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleEventsWS subscribes one websocket client to the feed.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	client.Run()
}
