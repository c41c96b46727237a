package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/domain"
	"github.com/tryggaplatser/locator/internal/domain/repository"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
)

// CategoryUseCase serves category views: member lists and the subcategory
// filter that hangs off a category page.
type CategoryUseCase interface {
	TopCategories(ctx context.Context) ([]domain.Category, error)
	CategoryPosts(ctx context.Context, catID int64) ([]domain.Location, error)
	Subcategories(ctx context.Context, parentID int64) (*domain.SubcategoryList, error)
	SubcategoryPostsMultiple(ctx context.Context, subcatIDs []int64) ([]domain.Location, error)
}

type categoryUseCase struct {
	services repository.ServiceRepository
	cache    repository.CacheRepository
	cfg      *config.CacheConfig
	logger   *zap.Logger
}

func NewCategoryUseCase(
	services repository.ServiceRepository,
	cache repository.CacheRepository,
	cfg *config.CacheConfig,
	logger *zap.Logger,
) CategoryUseCase {
	return &categoryUseCase{
		services: services,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

func (uc *categoryUseCase) TopCategories(ctx context.Context) ([]domain.Category, error) {
	const key = "category:top"
	if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
		var categories []domain.Category
		if err := json.Unmarshal(cached, &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := uc.services.GetTopCategories(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		if err := uc.cache.Set(ctx, key, data, uc.cfg.CategoryTTL); err != nil {
			uc.logger.Warn("failed to cache top categories", zap.Error(err))
		}
	}

	return categories, nil
}

func (uc *categoryUseCase) CategoryPosts(ctx context.Context, catID int64) ([]domain.Location, error) {
	if catID <= 0 {
		return nil, errors.ErrInvalidCategoryID
	}

	key := fmt.Sprintf("category:posts:%d", catID)
	if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
		var locations []domain.Location
		if err := json.Unmarshal(cached, &locations); err == nil {
			return locations, nil
		}
	}

	locations, err := uc.services.GetByCategory(ctx, catID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(locations); err == nil {
		if err := uc.cache.Set(ctx, key, data, uc.cfg.CategoryTTL); err != nil {
			uc.logger.Warn("failed to cache category posts", zap.Int64("cat_id", catID), zap.Error(err))
		}
	}

	return locations, nil
}

func (uc *categoryUseCase) Subcategories(ctx context.Context, parentID int64) (*domain.SubcategoryList, error) {
	if parentID <= 0 {
		return nil, errors.ErrInvalidCategoryID
	}

	key := fmt.Sprintf("category:subcats:%d", parentID)
	if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
		var list domain.SubcategoryList
		if err := json.Unmarshal(cached, &list); err == nil {
			return &list, nil
		}
	}

	list, err := uc.services.GetSubcategories(ctx, parentID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		if err := uc.cache.Set(ctx, key, data, uc.cfg.CategoryTTL); err != nil {
			uc.logger.Warn("failed to cache subcategories", zap.Int64("parent_id", parentID), zap.Error(err))
		}
	}

	return list, nil
}

func (uc *categoryUseCase) SubcategoryPostsMultiple(ctx context.Context, subcatIDs []int64) ([]domain.Location, error) {
	if len(subcatIDs) == 0 {
		return nil, errors.ErrInvalidCategoryID
	}
	for _, id := range subcatIDs {
		if id <= 0 {
			return nil, errors.ErrInvalidCategoryID
		}
	}
	return uc.services.GetBySubcategories(ctx, subcatIDs)
}
