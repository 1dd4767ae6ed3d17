// Package web provides the debug dashboard: the latest annotated frame and
// aim result over HTTP, and live feeds of both over websockets.
package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/nerdyvision/internal/log"
	"github.com/teslashibe/nerdyvision/pkg/aim"
	"github.com/teslashibe/nerdyvision/pkg/hub"
)

// DefaultAddr is where the dashboard listens when enabled without an address
const DefaultAddr = ":5800"

// AimState is the aim result as served to dashboard clients
type AimState struct {
	aim.Result
	Frame     uint64 `json:"frame"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Status summarizes the dashboard for /api/status
type Status struct {
	Frames        uint64 `json:"frames"`
	CameraClients int    `json:"camera_clients"`
	AimClients    int    `json:"aim_clients"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	addr string

	mu     sync.RWMutex
	jpeg   []byte
	state  AimState
	frames uint64

	// Hubs for websocket broadcast
	cameraHub *hub.Hub
	aimHub    *hub.Hub
}

// NewServer creates a new dashboard server listening on addr
func NewServer(addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:      addr,
		cameraHub: hub.New("camera"),
		aimHub:    hub.New("aim"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "NerdyVision Dashboard",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/aim", s.handleAim)
	api.Get("/frame.jpg", s.handleFrame)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/camera", websocket.New(s.handleCameraWS))
	app.Get("/ws/aim", websocket.New(s.handleAimWS))

	s.app = app
	return s
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.addr
}

// Start runs the hubs and serves until the listener fails. Hubs stop when
// ctx is done; call Shutdown to stop the listener.
func (s *Server) Start(ctx context.Context) error {
	fmt.Printf("🌐 Dashboard: http://localhost%s\n", s.addr)

	go s.cameraHub.Run(ctx)
	go s.aimHub.Run(ctx)

	return s.app.Listen(s.addr)
}

// StartAsync starts the server in a goroutine and shuts it down when ctx
// is done.
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			log.Warn("dashboard stopped", "addr", s.addr, "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			log.Warn("dashboard shutdown", "error", err)
		}
	}()
}

// UpdateFrame stores the latest annotated frame and aim result and
// broadcasts both. A nil jpeg keeps the previous frame.
func (s *Server) UpdateFrame(jpeg []byte, result aim.Result) {
	s.mu.Lock()
	s.frames++
	if jpeg != nil {
		s.jpeg = jpeg
	}
	s.state = AimState{
		Result:    result,
		Frame:     s.frames,
		UpdatedAt: time.Now().Format(time.RFC3339Nano),
	}
	state := s.state
	s.mu.Unlock()

	if jpeg != nil {
		s.cameraHub.BroadcastBinary(jpeg)
	}
	if err := s.aimHub.BroadcastJSON(state); err != nil {
		log.Debug("encode aim state", "error", err)
	}
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
