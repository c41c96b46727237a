package facade

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/domain"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
)

// httpFacade is a DataFacade over a remote locator API. Useful when the
// orchestrator runs in a separate process from the data service.
type httpFacade struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) DataFacade {
	return &httpFacade{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// envelope matches the API's success wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (f *httpFacade) get(ctx context.Context, path string, query url.Values, out any) error {
	u := f.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("locator API request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("locator API request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return errors.ErrLocationNotFound
	case http.StatusBadRequest:
		return errors.ErrInvalidRequest
	default:
		f.logger.Warn("locator API returned error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("locator API returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

func (f *httpFacade) AllLocations(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	if err := f.get(ctx, "/api/v1/locations", nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (f *httpFacade) CategoryPosts(ctx context.Context, catID int64) ([]domain.Location, error) {
	var locations []domain.Location
	path := fmt.Sprintf("/api/v1/categories/%d/posts", catID)
	if err := f.get(ctx, path, nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (f *httpFacade) SubcategoriesByParent(ctx context.Context, parentID int64) (*domain.SubcategoryList, error) {
	var list domain.SubcategoryList
	path := fmt.Sprintf("/api/v1/categories/%d/subcategories", parentID)
	if err := f.get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (f *httpFacade) SinglePost(ctx context.Context, postID, catID int64) (*domain.Location, error) {
	query := url.Values{}
	if catID > 0 {
		query.Set("cat_id", strconv.FormatInt(catID, 10))
	}
	var loc domain.Location
	path := fmt.Sprintf("/api/v1/posts/%d", postID)
	if err := f.get(ctx, path, query, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (f *httpFacade) SubcategoryPostsMultiple(ctx context.Context, subcatIDs []int64) ([]domain.Location, error) {
	ids := make([]string, len(subcatIDs))
	for i, id := range subcatIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))

	var locations []domain.Location
	if err := f.get(ctx, "/api/v1/subcategories/posts", query, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (f *httpFacade) Search(ctx context.Context, query string) ([]domain.Location, error) {
	q := url.Values{}
	q.Set("q", query)

	var locations []domain.Location
	if err := f.get(ctx, "/api/v1/search", q, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (f *httpFacade) LocationDetails(ctx context.Context, postID int64) (*domain.Location, error) {
	var loc domain.Location
	path := fmt.Sprintf("/api/v1/posts/%d/details", postID)
	if err := f.get(ctx, path, nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}
