package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/ratelimit"
)

type brokenStore struct{}

func (brokenStore) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("store down")
}

func hitRoute(t *testing.T, mw echo.MiddlewareFunc, ip string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := mw(handler)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec
}

func TestRateLimit_DeniesOverLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
	cfg := ratelimit.Config{Window: time.Minute, Max: 2, Message: "too many login attempts"}
	mw := RateLimit(limiter, "login", cfg, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if rec := hitRoute(t, mw, "1.2.3.4"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := hitRoute(t, mw, "1.2.3.4")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil || retryAfter < 1 {
		t.Fatalf("Retry-After = %q, want integer >= 1", rec.Header().Get("Retry-After"))
	}
}

func TestRateLimit_ClientsAreIndependent(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
	cfg := ratelimit.Config{Window: time.Minute, Max: 1, Message: "slow down"}
	mw := RateLimit(limiter, "login", cfg, zerolog.Nop())

	if rec := hitRoute(t, mw, "1.2.3.4"); rec.Code != http.StatusOK {
		t.Fatalf("first client first request: %d", rec.Code)
	}
	if rec := hitRoute(t, mw, "1.2.3.4"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client over limit: %d", rec.Code)
	}
	if rec := hitRoute(t, mw, "5.6.7.8"); rec.Code != http.StatusOK {
		t.Fatalf("second client throttled by first client's traffic: %d", rec.Code)
	}
}

func TestRateLimit_RouteClassesAreIndependent(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	limiter := ratelimit.NewLimiter(store)
	cfg := ratelimit.Config{Window: time.Minute, Max: 1, Message: "slow down"}

	loginMW := RateLimit(limiter, "login", cfg, zerolog.Nop())
	forgotMW := RateLimit(limiter, "forgot", cfg, zerolog.Nop())

	if rec := hitRoute(t, loginMW, "1.2.3.4"); rec.Code != http.StatusOK {
		t.Fatalf("login first request: %d", rec.Code)
	}
	if rec := hitRoute(t, loginMW, "1.2.3.4"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("login over limit: %d", rec.Code)
	}
	if rec := hitRoute(t, forgotMW, "1.2.3.4"); rec.Code != http.StatusOK {
		t.Fatalf("forgot route throttled by login traffic: %d", rec.Code)
	}
}

func TestRateLimit_FailsClosed(t *testing.T) {
	limiter := ratelimit.NewLimiter(brokenStore{})
	cfg := ratelimit.Config{Window: time.Minute, Max: 100, Message: "slow down"}
	mw := RateLimit(limiter, "login", cfg, zerolog.Nop())

	rec := hitRoute(t, mw, "1.2.3.4")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("store failure admitted the request: %d", rec.Code)
	}
}
