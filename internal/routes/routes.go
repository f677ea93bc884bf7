package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/audit"
	"github.com/congo-pay/banco/internal/banking"
	"github.com/congo-pay/banco/internal/config"
	"github.com/congo-pay/banco/internal/identity"
	"github.com/congo-pay/banco/internal/ledger"
	"github.com/congo-pay/banco/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. It returns the
// banking service backing the routes.
func Setup(app *fiber.App, d Deps) (*banking.Service, error) {
	if d.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if !d.Cfg.IsDev() && d.Cache == nil {
		return nil, fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	hooks := audit.Multi{audit.NewLoggerHook(d.Logger)}
	if d.Cache != nil {
		hooks = append(hooks, audit.NewStreamHook(d.Cache, d.Cfg.AuditStream, 0))
	}
	policy := account.Policy{DepositCeiling: d.Cfg.DepositCeiling}
	clients := identity.NewService(identity.NewMemoryRepository(), account.NewSequence(), policy, audit.Guard(hooks, d.Logger))
	bank := banking.NewService(clients, ledger.NewIDAllocator(), d.Logger)
	handler := banking.NewHandler(bank, account.Limits{
		PerWithdrawalCap: d.Cfg.DefaultWithdrawalCap,
		DailyWithdrawals: d.Cfg.DefaultDailyWithdrawals,
	})

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	RegisterBankingRoutes(api, handler)

	return bank, nil
}

// ErrorHandler renders handler errors as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
