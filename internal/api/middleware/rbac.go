package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/identity-service/internal/core/domain"
)

// RequireRole is the authorization gate's policy stage: it admits only the
// listed roles. Runs after Authenticate, before any handler logic — an
// insufficient role terminates the request with 403, distinct from the 401
// an unauthenticated request gets.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
