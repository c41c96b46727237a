package main

// @title Trygga Platser Locator API
// @version 1.0.0
// @description Backend for the Trygga Platser map: safe places in Stockholm with opening hours, categories and per-device map sessions.
// @description
// @description Main features:
// @description - Location listing with grouped opening hours and open/closed status
// @description - Category and subcategory browsing
// @description - Free-text search with walking estimates
// @description - Map sessions driving camera commands and UI instructions per device

// @contact.name API Support
// @contact.email support@tryggaplatser.se

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/tryggaplatser/locator/docs/swagger"
	"github.com/tryggaplatser/locator/internal/config"
	httpDelivery "github.com/tryggaplatser/locator/internal/delivery/http"
	"github.com/tryggaplatser/locator/internal/delivery/http/handler"
	"github.com/tryggaplatser/locator/internal/facade"
	"github.com/tryggaplatser/locator/internal/pkg/logger"
	"github.com/tryggaplatser/locator/internal/render"
	"github.com/tryggaplatser/locator/internal/repository/cache"
	"github.com/tryggaplatser/locator/internal/repository/postgres"
	"github.com/tryggaplatser/locator/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Trygga Platser Locator")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories
	serviceRepo := postgres.NewServiceRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient, log)
	stateRepo := cache.NewStateRepository(redisClient, log)

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	locationUC := usecase.NewLocationUseCase(serviceRepo, cacheRepo, &cfg.Cache, log)
	categoryUC := usecase.NewCategoryUseCase(serviceRepo, cacheRepo, &cfg.Cache, log)
	searchUC := usecase.NewSearchUseCase(serviceRepo, log)

	dataFacade := facade.NewLocal(locationUC, categoryUC, searchUC)
	renderer := render.New()

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers
	locationHandler := handler.NewLocationHandler(locationUC, log)
	categoryHandler := handler.NewCategoryHandler(categoryUC, log)
	searchHandler := handler.NewSearchHandler(searchUC, log)
	sessionHandler := handler.NewSessionHandler(dataFacade, renderer, stateRepo, &cfg.Map, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		locationHandler,
		categoryHandler,
		searchHandler,
		sessionHandler,
	)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped")
}
