package repository

import (
	"context"

	"github.com/tryggaplatser/locator/internal/domain"
)

// ServiceRepository is the read-only query layer over the content store.
type ServiceRepository interface {
	// GetAllPlaceable returns every service with usable coordinates,
	// excluding services whose only category is the hygiene one.
	GetAllPlaceable(ctx context.Context) ([]domain.Location, error)

	// GetByCategory returns the members of a category with the category's
	// own metadata attached to each record.
	GetByCategory(ctx context.Context, catID int64) ([]domain.Location, error)

	// GetByID returns full detail for one service, including facilities and
	// group schedules. catID, when non-zero, selects which of the service's
	// categories is attached.
	GetByID(ctx context.Context, postID, catID int64) (*domain.Location, error)

	// GetBySubcategories returns the union of members across the given
	// subcategory IDs.
	GetBySubcategories(ctx context.Context, subcatIDs []int64) ([]domain.Location, error)

	// GetSubcategories returns a category's children plus its display name.
	GetSubcategories(ctx context.Context, parentID int64) (*domain.SubcategoryList, error)

	// GetTopCategories returns the browseable top-level categories.
	GetTopCategories(ctx context.Context) ([]domain.Category, error)

	// SearchByText matches query against title and description.
	SearchByText(ctx context.Context, query string) ([]domain.Location, error)
}
