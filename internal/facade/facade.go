package facade

import (
	"context"

	"github.com/tryggaplatser/locator/internal/domain"
)

// DataFacade is the single data boundary the orchestrator talks to. The
// local implementation wraps the use cases in-process; the client
// implementation speaks to a remote locator API over HTTP. Callers cannot
// tell them apart.
type DataFacade interface {
	AllLocations(ctx context.Context) ([]domain.Location, error)
	CategoryPosts(ctx context.Context, catID int64) ([]domain.Location, error)
	SubcategoriesByParent(ctx context.Context, parentID int64) (*domain.SubcategoryList, error)
	SinglePost(ctx context.Context, postID, catID int64) (*domain.Location, error)
	SubcategoryPostsMultiple(ctx context.Context, subcatIDs []int64) ([]domain.Location, error)
	Search(ctx context.Context, query string) ([]domain.Location, error)
	LocationDetails(ctx context.Context, postID int64) (*domain.Location, error)
}
