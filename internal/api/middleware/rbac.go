package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aurawell/storefront/internal/core/domain"
)

// RBAC enforces role-based access control. Anonymous requests get 401,
// authenticated requests with another role get 403.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := c.Get(SessionKey).(*domain.Session)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
			}
			if _, ok := allowed[sess.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Admin access required"})
			}
			return next(c)
		}
	}
}
