package cachewarm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/usecase"
	"github.com/tryggaplatser/locator/internal/worker"
)

// WarmWorker keeps the homepage location cache hot so the first visitor
// after a TTL expiry never waits on the database.
type WarmWorker struct {
	*worker.BaseWorker
	locations usecase.LocationUseCase
	interval  time.Duration
}

func NewWarmWorker(locations usecase.LocationUseCase, interval time.Duration, logger *zap.Logger) *WarmWorker {
	return &WarmWorker{
		BaseWorker: worker.NewBaseWorker("cache-warm", logger),
		locations:  locations,
		interval:   interval,
	}
}

func (w *WarmWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting cache warm worker", zap.Duration("interval", w.interval))

	// Warm once at startup, then on the ticker.
	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *WarmWorker) warm(ctx context.Context) {
	start := time.Now()
	locations, err := w.locations.AllLocations(ctx)
	if err != nil {
		w.Logger().Warn("Cache warm failed", zap.Error(err))
		return
	}
	w.Logger().Debug("Cache warmed",
		zap.Int("locations", len(locations)),
		zap.Duration("took", time.Since(start)),
	)
}
