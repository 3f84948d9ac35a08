package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

const catalogKeyPrefix = "catalog:"

// ProductCache stores catalog listings as JSON, one key per category.
// Key format: catalog:<category>, with "catalog:all" for the full listing.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

func (c *ProductCache) GetList(ctx context.Context, category string) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, catalogKey(category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return products, nil
}

// SetList caches a listing. Up to a minute of jitter is added to ttl so
// category keys do not all expire together.
func (c *ProductCache) SetList(ctx context.Context, category string, products []domain.Product, ttl time.Duration) error {
	if products == nil {
		products = []domain.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := c.client.Set(ctx, catalogKey(category), data, ttl+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops every cached listing.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, catalogKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func catalogKey(category string) string {
	if category == "" {
		category = "all"
	}
	return catalogKeyPrefix + category
}
