package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/core/domain"
)

// errorResponse is the canonical error envelope for API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler maps domain errors to status codes and renders
// {"error": "<message>"}. Unexpected errors are logged and reported as 500
// without details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

var domainErrors = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
	{domain.ErrForbidden, http.StatusForbidden, "Admin access required"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrUserExists, http.StatusConflict, "Email already registered"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{domain.ErrInvalidProduct, http.StatusBadRequest, "Invalid product"},
	{domain.ErrInsufficientStock, http.StatusConflict, "Insufficient stock"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "Quantity must be at least 1"},
	{domain.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
	{domain.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "Invalid status"},
	{domain.ErrInvalidImage, http.StatusBadRequest, "Invalid file type. Allowed: jpg, jpeg, png, gif, webp"},
	{domain.ErrImageTooLarge, http.StatusRequestEntityTooLarge, "File too large"},
	{domain.ErrImageNotFound, http.StatusNotFound, "Image not found"},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			return de.code, de.msg
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
