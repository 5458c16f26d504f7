package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/api/metrics"
	"github.com/storefront/identity-service/internal/ratelimit"
)

type rateLimitResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after"`
}

// RateLimit throttles one route class. The client key is the peer IP, so
// contention is only ever between requests from the same client on the same
// route class. Store failures deny: the limiter fails closed, never open.
func RateLimit(limiter *ratelimit.Limiter, routeClass string, cfg ratelimit.Config, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision, err := limiter.Admit(c.Request().Context(), routeClass, c.RealIP(), cfg)
			if err != nil {
				log.Error().Err(err).Str("route", routeClass).Msg("rate limit store failure, denying")
				metrics.RateLimitDenialsTotal.WithLabelValues(routeClass).Inc()
				return c.JSON(http.StatusTooManyRequests, rateLimitResponse{Error: cfg.Message, RetryAfter: 1})
			}
			if !decision.Allowed {
				retryAfter := int(decision.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				metrics.RateLimitDenialsTotal.WithLabelValues(routeClass).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, rateLimitResponse{Error: cfg.Message, RetryAfter: retryAfter})
			}
			return next(c)
		}
	}
}
