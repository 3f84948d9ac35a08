// Package config loads process configuration from the environment.
//
// An optional .env file in the working directory is read first; real
// environment variables always win over values from the file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// ServerConfig configures the reference storefront API (cmd/api).
type ServerConfig struct {
	Port     string `env:"PORT,      default=9090"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	CORS    CORSConfig
	Upload  UploadConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Admin   AdminConfig

	// SeedProductsFile, when set, is a JSON array of products inserted on
	// startup if the catalog is empty.
	SeedProductsFile string `env:"SEED_PRODUCTS_FILE"`
}

type SessionConfig struct {
	JWTSecret    string        `env:"JWT_SECRET, required"`
	TTL          time.Duration `env:"SESSION_TTL,    default=24h"`
	CookieName   string        `env:"COOKIE_NAME,    default=aurawell_session"`
	CookieSecure bool          `env:"COOKIE_SECURE,  default=false"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ORIGINS, default=http://localhost:5173"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR,       default=uploads/products"`
	MaxBytes int64  `env:"MAX_UPLOAD_BYTES, default=10485760"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=aurawell"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=100"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
}

// AdminConfig bootstraps an administrator account on startup when both
// Email and Password are set. An existing account with that email is left as is.
type AdminConfig struct {
	Email     string `env:"ADMIN_EMAIL"`
	Password  string `env:"ADMIN_PASSWORD"`
	FirstName string `env:"ADMIN_FIRST_NAME, default=Store"`
	LastName  string `env:"ADMIN_LAST_NAME,  default=Admin"`
}

// Enabled reports whether an admin account should be bootstrapped.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// IsProduction reports whether the server runs with ENV=production.
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ClientConfig configures the storefront CLI (cmd/storefront).
type ClientConfig struct {
	APIURL           string        `env:"STOREFRONT_API_URL,           default=http://localhost:9090/api"`
	Timeout          time.Duration `env:"STOREFRONT_TIMEOUT,           default=15s"`
	LogLevel         string        `env:"LOG_LEVEL,                    default=warn"`
	PlaceholderImage string        `env:"STOREFRONT_PLACEHOLDER_IMAGE, default=/images/products/default-product.jpg"`
}

// LoadServer reads ServerConfig from the process environment.
func LoadServer(ctx context.Context) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := load(ctx, &cfg, envconfig.OsLookuper()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient reads ClientConfig from the process environment.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := load(ctx, &cfg, envconfig.OsLookuper()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(ctx context.Context, target any, lookuper envconfig.Lookuper) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: read .env: %w", err)
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   target,
		Lookuper: lookuper,
	}); err != nil {
		return fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return nil
}
