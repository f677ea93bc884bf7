package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/banco/internal/banking"
	"github.com/congo-pay/banco/internal/config"
	"github.com/congo-pay/banco/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app   *fiber.App
	cfg   config.Config
	bank  *banking.Service
	cache *redis.Client
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
// cache may be nil in development.
func New(cfg config.Config, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          routes.ErrorHandler,
		DisableStartupMessage: true,
	})

	bank, err := routes.Setup(app, routes.Deps{Cfg: cfg, Cache: cache, Logger: logger})
	if err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, bank: bank, cache: cache}, nil
}

// App exposes the underlying Fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Bank returns the banking service behind the routes.
func (s *Server) Bank() *banking.Service { return s.bank }

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
