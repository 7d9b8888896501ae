// Package server exposes the backend over HTTP and websocket: a small
// read-only status surface and one persistent websocket per perception
// client feeding the description pipeline.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/intelevision/go-intelevision/internal/history"
	"github.com/intelevision/go-intelevision/internal/log"
	"github.com/intelevision/go-intelevision/pkg/pipeline"
)

const (
	// AppName reported by the status endpoints.
	AppName = "InteLeVision Backend"

	// Version reported by the status endpoints.
	Version = "1.0.0"
)

// Server is the HTTP/websocket front of the pipeline.
type Server struct {
	app       *fiber.App
	port      string
	pipe      *pipeline.Pipeline
	hist      *history.Store // nil when history is disabled
	startedAt time.Time
}

// NewServer wires the fiber app. hist may be nil.
func NewServer(port string, pipe *pipeline.Pipeline, hist *history.Store) *Server {
	s := &Server{
		port:      port,
		pipe:      pipe,
		hist:      hist,
		startedAt: time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               AppName,
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)
	app.Get("/api/descriptions", s.handleDescriptions)

	// Websocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.handleWS))

	s.app = app
	return s
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	log.Info("server listening",
		"port", s.port,
		"websocket", "/ws",
	)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleRoot returns service identity and the tracked-client count.
func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":      AppName,
		"version":   Version,
		"status":    "running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"clients":   s.pipe.ClientCount(),
	})
}

// handleHealth returns liveness plus pipeline counters.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime_s":  int64(time.Since(s.startedAt).Seconds()),
		"clients":   s.pipe.ClientCount(),
		"pipeline":  s.pipe.Metrics().Snapshot(),
	})
}

// handleDescriptions returns recent emitted descriptions from history.
func (s *Server) handleDescriptions(c *fiber.Ctx) error {
	if s.hist == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "history is disabled",
		})
	}

	entries, err := s.hist.Recent(c.QueryInt("limit", 50))
	if err != nil {
		log.Error("history query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "history unavailable",
		})
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return c.JSON(entries)
}

// handleWS owns one client connection for its lifetime.
func (s *Server) handleWS(conn *websocket.Conn) {
	sess := newSession(conn, s.pipe)
	sess.run()
}
