package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/aurawell/storefront/internal/api/handler"
	"github.com/aurawell/storefront/internal/api/middleware"
	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
	"github.com/aurawell/storefront/internal/infrastructure/http/handlers"
	"github.com/aurawell/storefront/pkg/logger"

	_ "github.com/aurawell/storefront/docs"
)

// Deps are the services and settings the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Products ports.ProductService
	Carts    ports.CartService
	Orders   ports.OrderService
	Images   ports.ImageService

	Cookie       handler.CookieConfig
	AllowOrigins []string
	Checks       map[string]handlers.Check
	Log          zerolog.Logger

	// Registry receives the HTTP request metrics. A fresh registry is used
	// when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Storefront routes live under /api; probes, metrics and docs sit at the root.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "aurawell",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.AllowOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie, logger.Component(d.Log, "auth"))
	productHandler := handler.NewProductHandler(d.Products)
	cartHandler := handler.NewCartHandler(d.Carts)
	orderHandler := handler.NewOrderHandler(d.Orders)
	adminHandler := handler.NewAdminHandler(d.Products, d.Orders)
	imageHandler := handler.NewImageHandler(d.Images, logger.Component(d.Log, "images"))

	api := e.Group("/api", middleware.Session(d.Auth, d.Cookie.Name, logger.Component(d.Log, "session")))

	// --- Auth ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me, middleware.RequireAuth())

	// --- Catalog (public) ---
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/images/:name", imageHandler.Serve)

	// --- Cart & orders ---
	cart := api.Group("/cart", middleware.RequireAuth())
	cart.GET("", cartHandler.Get)
	cart.POST("", cartHandler.Add)
	cart.DELETE("", cartHandler.Clear)
	cart.PUT("/:productId", cartHandler.Update)
	cart.DELETE("/:productId", cartHandler.Remove)

	orders := api.Group("/orders", middleware.RequireAuth())
	orders.GET("", orderHandler.List)
	orders.POST("", orderHandler.Create)

	// --- Admin ---
	admin := api.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/products", adminHandler.ListProducts)
	admin.POST("/products", adminHandler.CreateProduct)
	admin.PUT("/products/:id", adminHandler.UpdateProduct)
	admin.DELETE("/products/:id", adminHandler.DeleteProduct)
	admin.GET("/orders", adminHandler.ListOrders)
	admin.PUT("/orders", adminHandler.UpdateOrderStatus)

	api.POST("/upload/image", imageHandler.Upload, middleware.RBAC(domain.RoleAdmin))

	// --- Probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 10 * time.Second
