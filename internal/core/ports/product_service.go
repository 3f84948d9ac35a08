package ports

import (
	"context"
	"io"

	"github.com/aurawell/storefront/internal/core/domain"
)

type ProductService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) error
}

type ImageService interface {
	// Upload stores an image and returns its stored name and public URL.
	Upload(ctx context.Context, filename string, size int64, r io.Reader) (name, url string, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
