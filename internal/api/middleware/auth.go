package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/api/metrics"
	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
)

// Context keys for the claims injected by Authenticate.
const (
	CtxSubjectID = "subject_id"
	CtxRole      = "role"
)

// Authenticate is the authorization gate's first stage: it verifies the
// bearer token and injects the subject and role into the request context.
// The client always sees the same generic 401; the specific failure kind
// (expired, malformed, bad signature) goes to the log and the metric only.
func Authenticate(tokens ports.TokenService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				reason := verifyFailureReason(err)
				metrics.TokenVerificationsTotal.WithLabelValues(reason).Inc()
				log.Warn().
					Str("reason", reason).
					Str("path", c.Path()).
					Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.Set(CtxSubjectID, claims.SubjectID)
			c.Set(CtxRole, claims.Role)

			return next(c)
		}
	}
}

func verifyFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
