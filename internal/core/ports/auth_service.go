package ports

import (
	"context"

	"github.com/aurawell/storefront/internal/core/domain"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}
