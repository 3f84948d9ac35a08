package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aurawell/storefront/internal/api/middleware"
	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
	loggedOut  []string
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func (s *stubAuthService) Logout(_ context.Context, sessionID string) error {
	s.loggedOut = append(s.loggedOut, sessionID)
	return nil
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrUnauthenticated
}

type stubCartService struct {
	view    *ports.CartView
	err     error
	added   []string
	updated map[string]int
}

func (s *stubCartService) View(context.Context, string) (*ports.CartView, error) {
	return s.view, s.err
}

func (s *stubCartService) Add(_ context.Context, userID, productID string, quantity int) error {
	s.added = append(s.added, userID+":"+productID+":"+strconv.Itoa(quantity))
	return s.err
}

func (s *stubCartService) Update(_ context.Context, _ string, productID string, quantity int) error {
	if s.updated == nil {
		s.updated = map[string]int{}
	}
	s.updated[productID] = quantity
	return s.err
}

func (s *stubCartService) Remove(context.Context, string, string) error { return s.err }
func (s *stubCartService) Clear(context.Context, string) error          { return s.err }

type stubOrderService struct {
	checkoutFn func(ctx context.Context, userID, address string) (*domain.Order, error)
	orders     []domain.Order
	statusFn   func(ctx context.Context, id, status string) (*domain.Order, error)
}

func (s *stubOrderService) Checkout(ctx context.Context, userID, address string) (*domain.Order, error) {
	return s.checkoutFn(ctx, userID, address)
}

func (s *stubOrderService) ListForUser(context.Context, string) ([]domain.Order, error) {
	return s.orders, nil
}

func (s *stubOrderService) ListAll(context.Context) ([]domain.Order, error) { return s.orders, nil }

func (s *stubOrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	return s.statusFn(ctx, id, status)
}

type stubImageService struct {
	uploaded string
	content  string
	err      error
}

func (s *stubImageService) Upload(_ context.Context, filename string, _ int64, r io.Reader) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	b, _ := io.ReadAll(r)
	s.uploaded, s.content = filename, string(b)
	return "abc.png", "/api/images/abc.png", nil
}

func (s *stubImageService) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if name != "abc.png" {
		return nil, domain.ErrImageNotFound
	}
	return io.NopCloser(strings.NewReader("png")), nil
}

// newContext builds an echo.Context with the handler validator installed and,
// when sess is non-nil, an authenticated session.
func newContext(method, target, body string, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(middleware.SessionKey, sess)
	}
	return c, rec
}

var customer = &domain.Session{ID: "s1", UserID: "u1", Role: domain.RoleUser}
