package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/api/metrics"
	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

// CookieConfig controls the session cookie issued on login and registration.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

// Register creates a customer account and signs it in.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      409   {object}  authResponse
// @Failure      500   {object}  authResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: err.Error()})
	}

	token, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.AuthAttemptsTotal.WithLabelValues("register", "rejected").Inc()
			return c.JSON(http.StatusConflict, authResponse{Message: "Email already registered"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.AuthAttemptsTotal.WithLabelValues("register", "rejected").Inc()
			return c.JSON(http.StatusBadRequest, authResponse{Message: "Invalid registration details"})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("register failed")
		return c.JSON(http.StatusInternalServerError, authResponse{Message: "Registration failed"})
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	h.setCookie(c, token)
	return c.JSON(http.StatusCreated, authResponse{Success: true, Message: "Registration successful", User: toUserResponse(user)})
}

// Login authenticates a customer and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{Message: err.Error()})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
			return c.JSON(http.StatusUnauthorized, authResponse{Message: "Invalid email or password"})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("login failed")
		return c.JSON(http.StatusInternalServerError, authResponse{Message: "Login failed"})
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	h.setCookie(c, token)
	return c.JSON(http.StatusOK, authResponse{Success: true, Message: "Login successful", User: toUserResponse(user)})
}

// Me returns the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), sess.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{Success: true, User: toUserResponse(user)})
}

// Logout revokes the session, if any, and expires the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess, err := ctxSession(c); err == nil {
		if err := h.authService.Logout(c.Request().Context(), sess.ID); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}

func (h *AuthHandler) setCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
