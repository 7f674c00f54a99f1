package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sweetshop/inventory-api/internal/api"
	"github.com/sweetshop/inventory-api/internal/core/service"
	"github.com/sweetshop/inventory-api/internal/infrastructure/config"
	mongodb "github.com/sweetshop/inventory-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sweetshop/inventory-api/internal/infrastructure/db/redis"
	"github.com/sweetshop/inventory-api/pkg/logger"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	userRepo := mongodb.NewUserRepository(db)
	sweetRepo := mongodb.NewSweetRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := sweetRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("sweet index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:    cfg.Redis.Addr,
		DB:      cfg.Redis.DB,
		Timeout: cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.MinPasswordLen, log)
	catalogCache := redisdb.NewCatalogCache(rdb, cfg.Redis.CacheTTL)
	inventoryService := service.NewInventoryService(sweetRepo, catalogCache, log)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("admin bootstrap failed")
		}
	}

	e := api.NewRouter(api.Deps{
		AuthService:      authService,
		InventoryService: inventoryService,
		Mongo:            db,
		Redis:            rdb,
		Logger:           log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
