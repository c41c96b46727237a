package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/pkg/logger"
	"github.com/tryggaplatser/locator/internal/repository/cache"
	"github.com/tryggaplatser/locator/internal/repository/postgres"
	"github.com/tryggaplatser/locator/internal/usecase"
	"github.com/tryggaplatser/locator/internal/worker"
	"github.com/tryggaplatser/locator/internal/worker/cachewarm"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting cache warm worker")
	log.Info("Configuration loaded",
		zap.Duration("warm_interval", cfg.Worker.WarmInterval))

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

	// 5. Initialize repositories and use cases
	serviceRepo := postgres.NewServiceRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient, log)
	locationUC := usecase.NewLocationUseCase(serviceRepo, cacheRepo, &cfg.Cache, log)

	// 6. Create worker manager and register workers
	warmWorker := cachewarm.NewWarmWorker(locationUC, cfg.Worker.WarmInterval, log)

	manager := worker.NewManager(log)
	manager.Register(warmWorker)

	// 7. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := manager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
