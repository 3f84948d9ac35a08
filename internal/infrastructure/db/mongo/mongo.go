package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	defaultAppName = "aurawell"
)

// Config holds the storefront's MongoDB settings. Zero values fall back to
// the package defaults.
type Config struct {
	URI         string
	Database    string
	AppName     string
	MaxPoolSize uint64
	// Timeout bounds server selection and the startup ping.
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func clientOptions(cfg Config) *options.ClientOptions {
	appName := cfg.AppName
	if appName == "" {
		appName = defaultAppName
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(cfg.timeout())
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	return opts
}

// Connect opens the catalog database and pings it. The returned client must be
// disconnected by the caller.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("mongo connect: database name is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect %s: %w", cfg.Database, err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}
