package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aurawell/storefront/internal/core/domain"
)

// SessionRegistry records live sessions in Redis.
// Key format: session:<session_id>, value is the owning user id.
type SessionRegistry struct {
	client *redis.Client
}

func NewSessionRegistry(client *redis.Client) *SessionRegistry {
	return &SessionRegistry{client: client}
}

// Save registers a session until ttl elapses.
func (r *SessionRegistry) Save(ctx context.Context, s domain.Session, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKey(s.ID), s.UserID, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (r *SessionRegistry) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("session check: %w", err)
	}
	return n > 0, nil
}

func (r *SessionRegistry) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
