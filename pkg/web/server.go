// Package web provides a real-time dashboard for a coaching session
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/companion"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/history"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/hub"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/protocol"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/session"
)

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, cue, rep, error
	Message string `json:"message"`
}

// Status is the dashboard's top-level view: the session snapshot plus
// transport counters.
type Status struct {
	Session session.Snapshot `json:"session"`
	Devices int              `json:"devices"`
	Frames  uint64           `json:"frames_received"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	port string

	session   *session.Session
	deviceHub *companion.Hub   // optional; nil when running local-only
	archive   *history.History // optional; nil disables set records

	// Cues seen since the last reset
	cueCount   int
	cueCountMu sync.Mutex

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast
	coachingHub *hub.Hub
	logHub      *hub.Hub
	statusHub   *hub.Hub
}

// NewServer creates a new web dashboard server
func NewServer(port string, sess *session.Session, devices *companion.Hub, archive *history.History) *Server {
	s := &Server{
		port:        port,
		session:     sess,
		deviceHub:   devices,
		archive:     archive,
		logs:        make([]LogEntry, 0, 500),
		coachingHub: hub.New("coaching"),
		logHub:      hub.New("logs"),
		statusHub:   hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Form Factor Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	s.registerAPIRoutes(api)
	if devices != nil {
		devices.RegisterAPIRoutes(api)
	}

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/coaching", websocket.New(s.handleCoachingWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	if devices != nil {
		devices.RegisterRoutes(app)
	}

	s.app = app
	return s
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the web server
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)

	// Start all hubs
	go s.coachingHub.Run()
	go s.logHub.Run()
	go s.statusHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// PublishCoaching implements session.Sink: every coaching update from
// the engine fans out to dashboard clients, and the status view
// refreshes alongside it.
func (s *Server) PublishCoaching(update protocol.CoachingUpdate) {
	if update.Cue != "" {
		s.cueCountMu.Lock()
		s.cueCount++
		s.cueCountMu.Unlock()
	}
	s.coachingHub.BroadcastJSON(update)
	s.statusHub.BroadcastJSON(s.status())
}

// AddLog adds a log entry and broadcasts to clients
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

func (s *Server) status() Status {
	st := Status{Session: s.session.Snapshot()}
	if s.deviceHub != nil {
		stats := s.deviceHub.GetStats()
		st.Devices = stats.DeviceCount
		st.Frames = stats.FramesReceived
	}
	return st
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
