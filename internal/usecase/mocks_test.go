package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tryggaplatser/locator/internal/domain"
)

type mockServiceRepository struct {
	mock.Mock
}

func (m *mockServiceRepository) GetAllPlaceable(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockServiceRepository) GetByCategory(ctx context.Context, catID int64) ([]domain.Location, error) {
	args := m.Called(ctx, catID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockServiceRepository) GetByID(ctx context.Context, postID, catID int64) (*domain.Location, error) {
	args := m.Called(ctx, postID, catID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *mockServiceRepository) GetBySubcategories(ctx context.Context, subcatIDs []int64) ([]domain.Location, error) {
	args := m.Called(ctx, subcatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockServiceRepository) GetSubcategories(ctx context.Context, parentID int64) (*domain.SubcategoryList, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubcategoryList), args.Error(1)
}

func (m *mockServiceRepository) GetTopCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockServiceRepository) SearchByText(ctx context.Context, query string) ([]domain.Location, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

type mockCacheRepository struct {
	mock.Mock
}

func (m *mockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
