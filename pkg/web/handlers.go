package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Techy2419/Focus-Flow/internal/store"
	"github.com/Techy2419/Focus-Flow/pkg/detect"
	"github.com/Techy2419/Focus-Flow/pkg/session"
)

// handleHealth reports the API and detection service status.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	ready := true
	if s.detector != nil {
		if err := s.detector.Health(c.Context()); err != nil {
			ready = false
		}
	}
	return c.JSON(fiber.Map{
		"status": "healthy",
		"ready":  ready,
	})
}

// handleState returns the current smoothed detection state.
func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.engine.State())
}

// handleAlerts returns the alerts currently on screen.
func (s *Server) handleAlerts(c *fiber.Ctx) error {
	return c.JSON(s.engine.Alerts())
}

// handleSession returns the live session snapshot.
func (s *Server) handleSession(c *fiber.Ctx) error {
	return c.JSON(s.engine.Snapshot())
}

// StartSessionRequest is the body for POST /api/session/start.
type StartSessionRequest struct {
	Goal string `json:"goal"`
}

func (s *Server) handleSessionStart(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	id, err := s.engine.StartSession(c.Context(), req.Goal)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrAlreadyActive):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, detect.ErrNotReady):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"session_id": id})
}

// PauseSessionRequest is the body for POST /api/session/pause.
type PauseSessionRequest struct {
	BreakSeconds int `json:"break_seconds"`
}

func (s *Server) handleSessionPause(c *fiber.Ctx) error {
	var req PauseSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := s.engine.PauseSession(req.BreakSeconds); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.engine.Snapshot())
}

func (s *Server) handleSessionResume(c *fiber.Ctx) error {
	if err := s.engine.ResumeSession(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.engine.Snapshot())
}

func (s *Server) handleSessionEnd(c *fiber.Ctx) error {
	snap, err := s.engine.EndSession(c.Context())
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}

// handleSessions returns recent persisted sessions.
func (s *Server) handleSessions(c *fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "persistence disabled"})
	}

	records, err := s.history.RecentSessions(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		s.logger.Error("session history query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "query failed"})
	}
	if records == nil {
		records = []store.Record{}
	}
	return c.JSON(records)
}

// handleSessionEvents returns one session's distraction history.
func (s *Server) handleSessionEvents(c *fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "persistence disabled"})
	}

	events, err := s.history.SessionEvents(c.Context(), c.Params("id"))
	if err != nil {
		s.logger.Error("event history query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "query failed"})
	}
	return c.JSON(events)
}

// handleStats returns all-time aggregates.
func (s *Server) handleStats(c *fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "persistence disabled"})
	}

	stats, err := s.history.Stats(c.Context())
	if err != nil {
		s.logger.Error("stats query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "query failed"})
	}
	return c.JSON(stats)
}
