package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/sweetshop/inventory-api/internal/api/handler"
	"github.com/sweetshop/inventory-api/internal/api/middleware"
	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

// Deps carries the wired services the router exposes.
type Deps struct {
	AuthService      ports.AuthService
	InventoryService ports.InventoryService
	Mongo            *mongo.Database
	Redis            *redis.Client
	Logger           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("sweetshop"))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	sweetHandler := handler.NewSweetHandler(deps.InventoryService)
	authRequired := middleware.Auth(deps.AuthService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes (rate limited) ---
	auth := e.Group("/api/auth", middleware.RateLimit(rate.Limit(5), 10))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Catalog routes ---
	sweets := e.Group("/api/sweets")
	sweets.GET("", sweetHandler.List)
	sweets.GET("/search", sweetHandler.Search)
	sweets.GET("/:id", sweetHandler.Get)
	sweets.POST("", sweetHandler.Create, authRequired, adminOnly)
	sweets.PUT("/:id", sweetHandler.Update, authRequired, adminOnly)
	sweets.DELETE("/:id", sweetHandler.Delete, authRequired, adminOnly)
	sweets.POST("/:id/purchase", sweetHandler.Purchase, authRequired)
	sweets.POST("/:id/restock", sweetHandler.Restock, authRequired, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
