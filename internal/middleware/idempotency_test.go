package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/banco/internal/logging"
)

type testApp struct {
	app   *fiber.App
	mr    *miniredis.Miniredis
	calls *atomic.Int32
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	calls := &atomic.Int32{}
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/deposits", func(c *fiber.Ctx) error {
		n := calls.Add(1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})
	app.Post("/withdrawals", func(c *fiber.Ctx) error {
		calls.Add(1)
		return fiber.NewError(fiber.StatusUnprocessableEntity, "insufficient funds")
	})
	app.Get("/statement", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})
	return &testApp{app: app, mr: mr, calls: calls}
}

func post(t *testing.T, app *fiber.App, path, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	ta := setupTestApp(t)

	status, _ := post(t, ta.app, "/deposits", "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, status)
	}
	if ta.calls.Load() != 0 {
		t.Fatal("handler ran without idempotency key")
	}
}

func TestIdempotencySkipsSafeMethods(t *testing.T) {
	ta := setupTestApp(t)

	resp, err := ta.app.Test(httptest.NewRequest(fiber.MethodGet, "/statement", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	ta := setupTestApp(t)

	status, payload := post(t, ta.app, "/deposits", "abc123")
	if status != fiber.StatusCreated {
		t.Fatalf("expected status %d got %d", fiber.StatusCreated, status)
	}

	// Second request should return the cached response without invoking handler again.
	status2, cachedPayload := post(t, ta.app, "/deposits", "abc123")
	if status2 != fiber.StatusCreated {
		t.Fatalf("expected cached status %d got %d", fiber.StatusCreated, status2)
	}
	if cachedPayload != payload {
		t.Fatalf("expected cached payload %s got %s", payload, cachedPayload)
	}
	if ta.calls.Load() != 1 {
		t.Fatalf("handler ran %d times", ta.calls.Load())
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(cachedPayload), &decoded); err != nil {
		t.Fatalf("cached payload invalid json: %v", err)
	}
}

func TestIdempotencyKeysAreScopedByRoute(t *testing.T) {
	ta := setupTestApp(t)

	post(t, ta.app, "/deposits", "same")
	post(t, ta.app, "/withdrawals", "same")
	if ta.calls.Load() != 2 {
		t.Fatalf("expected both routes to run, got %d calls", ta.calls.Load())
	}
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	ta := setupTestApp(t)

	for i := 0; i < 2; i++ {
		status, _ := post(t, ta.app, "/withdrawals", "retry-me")
		if status != fiber.StatusUnprocessableEntity {
			t.Fatalf("attempt %d: expected 422 got %d", i, status)
		}
	}
	if ta.calls.Load() != 2 {
		t.Fatalf("failed request was not retried, calls=%d", ta.calls.Load())
	}
}

func TestIdempotencyInProgressConflict(t *testing.T) {
	ta := setupTestApp(t)

	if err := ta.mr.Set(idempotencyPrefix+"POST:/deposits:busy", inProgressMarker); err != nil {
		t.Fatalf("seed: %v", err)
	}
	status, _ := post(t, ta.app, "/deposits", "busy")
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 got %d", status)
	}
	if ta.calls.Load() != 0 {
		t.Fatal("handler ran while request in progress")
	}
}
