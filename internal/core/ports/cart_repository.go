package ports

import (
	"context"

	"github.com/aurawell/storefront/internal/core/domain"
)

// CartRepository stores one cart per user. Get returns an empty cart for
// users that never added anything.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}
