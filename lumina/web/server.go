// Package web serves the HTTP health endpoint.
package web

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Status is the health endpoint payload.
type Status struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Guilds  int    `json:"guilds"`
	Uptime  string `json:"uptime"`
}

type Server struct {
	app    *fiber.App
	addr   string
	status func() Status
}

// New builds the server around a status snapshot func so the handler never
// reaches into bot internals.
func New(addr string, status func() Status) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(status())
	})

	return &Server{app: app, addr: addr, status: status}
}

// Start serves in a goroutine. Listen errors are logged, not fatal: the bot
// works without the health endpoint.
func (s *Server) Start() {
	go func() {
		slog.Info("Health endpoint listening",
			slog.String("type", "sys"),
			slog.String("addr", s.addr))
		if err := s.app.Listen(s.addr); err != nil {
			slog.Error("Health endpoint stopped",
				slog.String("type", "error"),
				slog.Any("error", err))
		}
	}()
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}
