package ports

import (
	"context"

	"github.com/aurawell/storefront/internal/core/domain"
)

// CartLineView is a cart line joined with its product.
type CartLineView struct {
	ProductID string
	Quantity  int
	Name      string
	Price     float64
	ImageURL  string
	Subtotal  float64
}

type CartView struct {
	Items       []CartLineView
	TotalAmount float64
	ItemCount   int
}

type CartService interface {
	View(ctx context.Context, userID string) (*CartView, error)
	Add(ctx context.Context, userID, productID string, quantity int) error
	Update(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type OrderService interface {
	Checkout(ctx context.Context, userID, shippingAddress string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
}
