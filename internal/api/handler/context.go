package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/aurawell/storefront/internal/api/middleware"
	"github.com/aurawell/storefront/internal/core/domain"
)

// ctxSession returns the session injected by the Session middleware. Routes
// behind RequireAuth or RBAC always have one; elsewhere a missing session
// means the request is anonymous.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, ok := c.Get(middleware.SessionKey).(*domain.Session)
	if !ok || sess.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

// requestID returns the id set by echo's RequestID middleware, if any.
func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
