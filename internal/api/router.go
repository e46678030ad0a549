package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sweetshop/inventory-api/internal/api/handler"
	"github.com/sweetshop/inventory-api/internal/api/middleware"
	"github.com/sweetshop/inventory-api/internal/core/service"
	mongodb "github.com/sweetshop/inventory-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sweetshop/inventory-api/internal/infrastructure/db/redis"
	"github.com/sweetshop/inventory-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(client *mongo.Client, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(client, db)
	sweetRepo := mongodb.NewSweetRepository(db)
	dedup := redisdb.NewDedupStore(rdb)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminKey, cfg.TokenTTL, log)
	inventoryService := service.NewInventoryService(sweetRepo, dedup, log)

	authHandler := handler.NewAuthHandler(authService)
	sweetHandler := handler.NewSweetHandler(inventoryService)

	// --- Auth routes ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/auth/register", authHandler.Register)
	apiGroup.POST("/auth/login", authHandler.Login)

	// --- Catalog routes (bearer token required) ---
	sweets := apiGroup.Group("/sweets", middleware.Auth(authService))
	sweets.POST("", sweetHandler.Create)
	sweets.GET("", sweetHandler.List)
	sweets.GET("/search", sweetHandler.Search)
	sweets.PUT("/:id", sweetHandler.Update)
	sweets.POST("/:id/purchase", sweetHandler.Purchase)

	// --- Admin-only catalog routes ---
	sweets.DELETE("/:id", sweetHandler.Delete, middleware.AdminOnly())
	sweets.POST("/:id/restock", sweetHandler.Restock, middleware.AdminOnly())

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
