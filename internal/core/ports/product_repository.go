package ports

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/aurawell/storefront/internal/core/domain"
)

// ErrCacheMiss is returned by ProductCache when nothing is cached under a key.
var ErrCacheMiss = errors.New("cache miss")

type ProductRepository interface {
	// List returns products ordered by creation time. An empty category
	// means all categories.
	List(ctx context.Context, category string) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock adds delta to the stock of a product.
	AdjustStock(ctx context.Context, id string, delta int) error
	Count(ctx context.Context) (int64, error)
}

// ProductCache holds catalog listings keyed by category.
type ProductCache interface {
	GetList(ctx context.Context, category string) ([]domain.Product, error)
	SetList(ctx context.Context, category string, products []domain.Product, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// StockAdjustment changes a product's stock on behalf of an order.
type StockAdjustment struct {
	OrderID   string
	ProductID string
	Delta     int
}

// StockQueue accepts stock adjustments for asynchronous application.
type StockQueue interface {
	Enqueue(adj StockAdjustment)
}
