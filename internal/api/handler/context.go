package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/identity-service/internal/api/middleware"
)

// ctxClaims extracts the claims injected by the Authenticate middleware and
// fast-fails before any service call: a missing subject means the gate did
// not run, which is a wiring bug surfaced as 401, never a silent pass.
func ctxClaims(c echo.Context) (subjectID, role string, err error) {
	subjectID, _ = c.Get(middleware.CtxSubjectID).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if subjectID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return subjectID, role, nil
}
