package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/ThyDrSlen/form-factor-sub005/pkg/calibration"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/history"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/hub"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/profiles"
)

func (s *Server) registerAPIRoutes(api fiber.Router) {
	api.Get("/status", s.handleStatus)
	api.Get("/session", s.handleSession)
	api.Post("/session/reset", s.handleReset)
	api.Get("/logs", s.handleGetLogs)
	api.Get("/patterns", s.handleListPatterns)
	api.Get("/history", s.handleHistory)

	cal := api.Group("/calibration")
	cal.Post("/begin", s.handleCalibrationBegin)
	cal.Post("/sample", s.handleCalibrationSample)
	cal.Post("/finalize", s.handleCalibrationFinalize)
}

// handleStatus returns the dashboard's top-level view
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.status())
}

// handleSession returns the current session snapshot
func (s *Server) handleSession(c *fiber.Ctx) error {
	return c.JSON(s.session.Snapshot())
}

// handleReset ends the current set and starts a new one. The finished
// set goes into the archive when one is configured.
func (s *Server) handleReset(c *fiber.Ctx) error {
	snap := s.session.Snapshot()

	s.cueCountMu.Lock()
	cueCount := s.cueCount
	s.cueCount = 0
	s.cueCountMu.Unlock()

	if s.archive != nil && snap.RepCount > 0 {
		s.archive.Record(history.SetRecord{
			SessionID:   snap.ID,
			Pattern:     snap.Pattern,
			Reps:        snap.RepCount,
			Cues:        cueCount,
			Confidence:  snap.Confidence,
			CompletedAt: time.Now(),
		})
	}

	s.session.Reset()
	s.AddLog("info", "session reset")
	return c.JSON(fiber.Map{"status": "reset", "recorded_reps": snap.RepCount})
}

// handleHistory returns recent recorded sets
func (s *Server) handleHistory(c *fiber.Ctx) error {
	if s.archive == nil {
		return c.JSON(fiber.Map{"sets": []history.SetRecord{}, "total_reps": 0})
	}
	return c.JSON(fiber.Map{
		"sets":       s.archive.Recent(50),
		"total_reps": s.archive.TotalReps(),
	})
}

// handleGetLogs returns recent log entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleListPatterns returns the movement patterns with cue profiles
func (s *Server) handleListPatterns(c *fiber.Ctx) error {
	return c.JSON(profiles.Patterns())
}

// CalibrationTimeRequest carries the client clock for a lifecycle edge
type CalibrationTimeRequest struct {
	T float64 `json:"t"`
}

// handleCalibrationBegin starts (or restarts) baseline collection
func (s *Server) handleCalibrationBegin(c *fiber.Ctx) error {
	var req CalibrationTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	s.session.BeginCalibration(req.T)
	s.AddLog("info", "calibration started")
	return c.JSON(fiber.Map{"phase": string(s.session.CalibrationPhase())})
}

// handleCalibrationSample adds one calibration observation
func (s *Server) handleCalibrationSample(c *fiber.Ctx) error {
	var sample calibration.Sample
	if err := c.BodyParser(&sample); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	s.session.CollectCalibrationSample(sample)
	return c.JSON(fiber.Map{"phase": string(s.session.CalibrationPhase())})
}

// handleCalibrationFinalize computes the baseline
func (s *Server) handleCalibrationFinalize(c *fiber.Ctx) error {
	var req CalibrationTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	res := s.session.FinalizeCalibration(req.T)
	if res == nil {
		return c.Status(409).JSON(fiber.Map{
			"error": "no active calibration or no samples collected",
		})
	}

	s.AddLog("info", "calibration complete")
	return c.JSON(res)
}

// handleCoachingWS streams coaching updates to a dashboard client
func (s *Server) handleCoachingWS(c *websocket.Conn) {
	client := hub.NewClient(s.coachingHub, c)
	client.Run() // Blocks until connection closes
}

// handleLogsWS streams log entries to a dashboard client
func (s *Server) handleLogsWS(c *websocket.Conn) {
	// Send recent logs before joining the broadcast set
	s.logsMu.RLock()
	for _, entry := range s.logs {
		c.WriteJSON(entry)
	}
	s.logsMu.RUnlock()

	client := hub.NewClient(s.logHub, c)
	client.Run()
}

// handleStatusWS streams status refreshes to a dashboard client
func (s *Server) handleStatusWS(c *websocket.Conn) {
	// Send current status immediately
	c.WriteJSON(s.status())

	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
