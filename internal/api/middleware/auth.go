package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/core/domain"
)

// SessionKey is the echo.Context key holding the *domain.Session of an
// authenticated request.
const SessionKey = "session"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Session reads the session cookie and, when it is valid and not revoked,
// stores the session in the context. Requests without a valid cookie pass
// through anonymously; rejected cookies are logged at debug level.
func Session(auth Authenticator, cookieName string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			sess, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("session rejected")
				return next(c)
			}
			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(SessionKey).(*domain.Session); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
			}
			return next(c)
		}
	}
}
