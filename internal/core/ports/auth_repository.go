package ports

import (
	"context"
	"time"

	"github.com/aurawell/storefront/internal/core/domain"
)

// UserRepository persists storefront accounts. Create returns
// domain.ErrUserExists when the email is taken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// SessionRegistry tracks live sessions so logout can revoke a cookie before
// it expires.
type SessionRegistry interface {
	Save(ctx context.Context, session domain.Session, ttl time.Duration) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
