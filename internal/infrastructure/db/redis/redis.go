package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config holds the settings for the session and catalog cache connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// Timeout is used for dialing and for the startup ping.
	Timeout time.Duration
}

func clientOptions(cfg Config) *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: timeout,
	}
}

// Connect returns a client for the session registry and catalog cache after
// checking the server answers a PING.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := clientOptions(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
