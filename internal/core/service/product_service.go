package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

const catalogCacheTTL = 5 * time.Minute

type ProductService struct {
	repo   ports.ProductRepository
	cache  ports.ProductCache
	sfg    singleflight.Group
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, cache ports.ProductCache, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, logger: logger}
}

// List returns the catalog, optionally filtered by category. Listings are
// read through the cache and concurrent misses share one repository query.
func (s *ProductService) List(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.ToLower(strings.TrimSpace(category))

	v, err, _ := s.sfg.Do("list:"+category, func() (interface{}, error) {
		products, err := s.cache.GetList(ctx, category)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("category", category).Msg("catalog cache read failed")
		}

		products, err = s.repo.List(ctx, category)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetList(ctx, category, products, catalogCacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("category", category).Msg("catalog cache write failed")
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate()
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate()
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// AdjustStock applies a stock delta and drops cached listings that show the
// old value.
func (s *ProductService) AdjustStock(ctx context.Context, id string, delta int) error {
	if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *ProductService) invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidate failed")
	}
}
