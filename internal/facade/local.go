package facade

import (
	"context"

	"github.com/tryggaplatser/locator/internal/domain"
	"github.com/tryggaplatser/locator/internal/usecase"
)

type localFacade struct {
	locations  usecase.LocationUseCase
	categories usecase.CategoryUseCase
	search     usecase.SearchUseCase
}

// NewLocal wraps the use cases as a DataFacade for in-process use.
func NewLocal(
	locations usecase.LocationUseCase,
	categories usecase.CategoryUseCase,
	search usecase.SearchUseCase,
) DataFacade {
	return &localFacade{
		locations:  locations,
		categories: categories,
		search:     search,
	}
}

func (f *localFacade) AllLocations(ctx context.Context) ([]domain.Location, error) {
	return f.locations.AllLocations(ctx)
}

func (f *localFacade) CategoryPosts(ctx context.Context, catID int64) ([]domain.Location, error) {
	return f.categories.CategoryPosts(ctx, catID)
}

func (f *localFacade) SubcategoriesByParent(ctx context.Context, parentID int64) (*domain.SubcategoryList, error) {
	return f.categories.Subcategories(ctx, parentID)
}

func (f *localFacade) SinglePost(ctx context.Context, postID, catID int64) (*domain.Location, error) {
	return f.locations.SinglePost(ctx, postID, catID)
}

func (f *localFacade) SubcategoryPostsMultiple(ctx context.Context, subcatIDs []int64) ([]domain.Location, error) {
	return f.categories.SubcategoryPostsMultiple(ctx, subcatIDs)
}

func (f *localFacade) Search(ctx context.Context, query string) ([]domain.Location, error) {
	return f.search.Search(ctx, query)
}

func (f *localFacade) LocationDetails(ctx context.Context, postID int64) (*domain.Location, error) {
	return f.locations.LocationDetails(ctx, postID)
}
