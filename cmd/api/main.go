// Command api serves the AuraWell storefront REST API.
//
//	@title						AuraWell Storefront API
//	@version					1.0
//	@description				Catalog, cart, checkout and back-office API for the AuraWell wellness store.
//	@BasePath					/api
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						aurawell_session
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/aurawell/storefront/internal/api"
	"github.com/aurawell/storefront/internal/api/handler"
	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/service"
	mongodb "github.com/aurawell/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/aurawell/storefront/internal/infrastructure/db/redis"
	"github.com/aurawell/storefront/internal/infrastructure/http/handlers"
	"github.com/aurawell/storefront/internal/infrastructure/queue"
	"github.com/aurawell/storefront/internal/infrastructure/storage"
	"github.com/aurawell/storefront/internal/pkg/config"
	"github.com/aurawell/storefront/pkg/logger"
)

const stockWorkers = 4

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadServer(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "aurawell-api",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	products := mongodb.NewProductRepository(db)
	carts := mongodb.NewCartRepository(db)
	orders := mongodb.NewOrderRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":    users.EnsureIndexes,
		"products": products.EnsureIndexes,
		"orders":   orders.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	if cfg.Admin.Enabled() {
		if err := bootstrapAdmin(ctx, users, cfg.Admin); err != nil {
			return err
		}
		log.Info().Str("email", cfg.Admin.Email).Msg("admin account ensured")
	}
	if cfg.SeedProductsFile != "" {
		if err := seedCatalog(ctx, products, cfg.SeedProductsFile, log); err != nil {
			return err
		}
	}

	disk, err := storage.NewDisk(cfg.Upload.Dir)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(users, redisdb.NewSessionRegistry(rdb), cfg.Session.JWTSecret, cfg.Session.TTL, logger.Component(log, "auth"))
	productSvc := service.NewProductService(products, redisdb.NewProductCache(rdb), logger.Component(log, "catalog"))

	stock := queue.NewDispatcher(stockWorkers, productSvc, logger.Component(log, "stock"))
	stock.Start(context.WithoutCancel(ctx))

	e := api.NewRouter(api.Deps{
		Auth:     authSvc,
		Products: productSvc,
		Carts:    service.NewCartService(carts, products, logger.Component(log, "cart")),
		Orders:   service.NewOrderService(orders, carts, products, stock, logger.Component(log, "orders")),
		Images:   service.NewImageService(disk, cfg.Upload.MaxBytes, logger.Component(log, "images")),
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
		AllowOrigins: cfg.CORS.AllowOrigins,
		Checks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		Log: log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		err := e.Shutdown(sctx)
		// No handler can enqueue any more; apply what is left.
		stock.Close()
		log.Info().Msg("stock adjustments drained")
		return err
	})
	return g.Wait()
}

func bootstrapAdmin(ctx context.Context, users *mongodb.UserRepository, a config.AdminConfig) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return users.EnsureAdmin(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(a.Email)),
		PasswordHash: string(hash),
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
}

// seedCatalog loads a JSON array of products into an empty catalog.
func seedCatalog(ctx context.Context, products *mongodb.ProductRepository, path string, log zerolog.Logger) error {
	n, err := products.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Debug().Int64("products", n).Msg("catalog already populated, skipping seed")
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed []domain.Product
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	now := time.Now().UTC()
	for i := range seed {
		if seed[i].ID == "" {
			seed[i].ID = uuid.NewString()
		}
		if seed[i].CreatedAt.IsZero() {
			seed[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		}
		if err := seed[i].Validate(); err != nil {
			return fmt.Errorf("seed product %q: %w", seed[i].Name, err)
		}
	}
	if err := products.InsertMany(ctx, seed); err != nil {
		return err
	}
	log.Info().Int("products", len(seed)).Msg("catalog seeded")
	return nil
}
