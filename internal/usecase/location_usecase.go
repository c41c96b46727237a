package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/domain"
	"github.com/tryggaplatser/locator/internal/domain/repository"
)

const cacheKeyAllLocations = "locations:all"

// LocationUseCase exposes the service-location read operations consumed by
// the map orchestrator and the HTTP layer.
type LocationUseCase interface {
	// AllLocations returns every placeable service for the homepage map.
	AllLocations(ctx context.Context) ([]domain.Location, error)

	// SinglePost returns one service with the given category attached.
	SinglePost(ctx context.Context, postID, catID int64) (*domain.Location, error)

	// LocationDetails returns one service with facilities and group
	// schedules, for the expanded info panel.
	LocationDetails(ctx context.Context, postID int64) (*domain.Location, error)
}

type locationUseCase struct {
	services repository.ServiceRepository
	cache    repository.CacheRepository
	cfg      *config.CacheConfig
	logger   *zap.Logger
}

func NewLocationUseCase(
	services repository.ServiceRepository,
	cache repository.CacheRepository,
	cfg *config.CacheConfig,
	logger *zap.Logger,
) LocationUseCase {
	return &locationUseCase{
		services: services,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

func (uc *locationUseCase) AllLocations(ctx context.Context) ([]domain.Location, error) {
	if cached, err := uc.cache.Get(ctx, cacheKeyAllLocations); err == nil && cached != nil {
		var locations []domain.Location
		if err := json.Unmarshal(cached, &locations); err == nil {
			return locations, nil
		}
		uc.logger.Warn("discarding unreadable cache entry", zap.String("key", cacheKeyAllLocations))
	}

	locations, err := uc.services.GetAllPlaceable(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(locations); err == nil {
		if err := uc.cache.Set(ctx, cacheKeyAllLocations, data, uc.cfg.LocationsTTL); err != nil {
			uc.logger.Warn("failed to cache locations", zap.Error(err))
		}
	}

	return locations, nil
}

func (uc *locationUseCase) SinglePost(ctx context.Context, postID, catID int64) (*domain.Location, error) {
	return uc.services.GetByID(ctx, postID, catID)
}

func (uc *locationUseCase) LocationDetails(ctx context.Context, postID int64) (*domain.Location, error) {
	return uc.services.GetByID(ctx, postID, 0)
}
