package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/domain"
)

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		LocationsTTL: 5 * time.Minute,
		CategoryTTL:  5 * time.Minute,
	}
}

func TestLocationUseCase_AllLocations_CacheMiss(t *testing.T) {
	services := new(mockServiceRepository)
	cache := new(mockCacheRepository)

	locations := []domain.Location{
		{ID: 1, Title: "Fryshuset", Lat: "59.30", Lng: "18.08"},
		{ID: 2, Title: "Stadsbiblioteket", Lat: "59.34", Lng: "18.05"},
	}

	cache.On("Get", mock.Anything, cacheKeyAllLocations).Return(nil, nil)
	services.On("GetAllPlaceable", mock.Anything).Return(locations, nil)
	cache.On("Set", mock.Anything, cacheKeyAllLocations, mock.Anything, 5*time.Minute).Return(nil)

	uc := NewLocationUseCase(services, cache, testCacheConfig(), zap.NewNop())

	got, err := uc.AllLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, locations, got)

	services.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestLocationUseCase_AllLocations_CacheHit(t *testing.T) {
	services := new(mockServiceRepository)
	cache := new(mockCacheRepository)

	locations := []domain.Location{{ID: 7, Title: "Kulturhuset", Lat: "59.33", Lng: "18.06"}}
	data, err := json.Marshal(locations)
	require.NoError(t, err)

	cache.On("Get", mock.Anything, cacheKeyAllLocations).Return(data, nil)

	uc := NewLocationUseCase(services, cache, testCacheConfig(), zap.NewNop())

	got, err := uc.AllLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kulturhuset", got[0].Title)

	services.AssertNotCalled(t, "GetAllPlaceable", mock.Anything)
}

func TestLocationUseCase_AllLocations_CorruptCacheFallsThrough(t *testing.T) {
	services := new(mockServiceRepository)
	cache := new(mockCacheRepository)

	cache.On("Get", mock.Anything, cacheKeyAllLocations).Return([]byte("{not json"), nil)
	services.On("GetAllPlaceable", mock.Anything).Return([]domain.Location{}, nil)
	cache.On("Set", mock.Anything, cacheKeyAllLocations, mock.Anything, mock.Anything).Return(nil)

	uc := NewLocationUseCase(services, cache, testCacheConfig(), zap.NewNop())

	got, err := uc.AllLocations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	services.AssertExpectations(t)
}

func TestLocationUseCase_SinglePost(t *testing.T) {
	services := new(mockServiceRepository)
	cache := new(mockCacheRepository)

	loc := &domain.Location{ID: 42, Title: "Medborgarplatsen", CatID: 7}
	services.On("GetByID", mock.Anything, int64(42), int64(7)).Return(loc, nil)

	uc := NewLocationUseCase(services, cache, testCacheConfig(), zap.NewNop())

	got, err := uc.SinglePost(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.Equal(t, loc, got)
}
