package postgres

import (
	"context"
	"database/sql"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/domain"
	"github.com/tryggaplatser/locator/internal/domain/repository"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
)

// hygieneImageURL replaces the service image for hygiene-category services.
const hygieneImageURL = "/uploads/stockholms-stad-logo.png"

type serviceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewServiceRepository(db *DB) repository.ServiceRepository {
	return &serviceRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// serviceRow mirrors the service columns plus the attached category.
// Coordinates live as text in the store; partial records are expected.
type serviceRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Address     sql.NullString `db:"street_name"`
	Lat         sql.NullString `db:"lat"`
	Lng         sql.NullString `db:"lng"`
	ImageURL    sql.NullString `db:"image_url"`
	Link        sql.NullString `db:"link"`
	ServiceLink sql.NullString `db:"service_link"`
	Description sql.NullString `db:"description"`
	CatID       sql.NullInt64  `db:"cat_id"`
	CatSlug     sql.NullString `db:"cat_slug"`
	CatName     sql.NullString `db:"cat_name"`
	CatImageURL sql.NullString `db:"cat_image"`
}

// attachedCategory joins each service to one category: the requested one when
// preferredCat > 0, otherwise a top-level term, otherwise the first term.
const attachedCategory = `
	LEFT JOIN LATERAL (
		SELECT c.id, c.slug, c.name, c.image_url
		FROM categories c
		JOIN service_categories sc ON sc.category_id = c.id
		WHERE sc.service_id = s.id
		ORDER BY (c.id = $1) DESC, (c.parent_id = 0) DESC, c.id
		LIMIT 1
	) c ON TRUE
`

const serviceColumns = `
	s.id, s.title, s.street_name, s.lat, s.lng, s.image_url, s.link,
	s.service_link, s.description,
	c.id AS cat_id, c.slug AS cat_slug, c.name AS cat_name, c.image_url AS cat_image
`

func (r *serviceRepository) GetAllPlaceable(ctx context.Context) ([]domain.Location, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services s
		` + attachedCategory + `
		WHERE s.lat IS NOT NULL AND s.lat <> ''
		  AND s.lng IS NOT NULL AND s.lng <> ''
		  AND NOT (
			(SELECT COUNT(DISTINCT c2.slug)
			 FROM service_categories sc2
			 JOIN categories c2 ON c2.id = sc2.category_id
			 WHERE sc2.service_id = s.id) = 1
			AND EXISTS (
			 SELECT 1
			 FROM service_categories sc3
			 JOIN categories c3 ON c3.id = sc3.category_id
			 WHERE sc3.service_id = s.id AND c3.slug = $2)
		  )
		ORDER BY s.id
	`

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query, 0, domain.HygieneSlug); err != nil {
		r.logger.Error("Failed to load placeable services", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return r.hydrate(ctx, rows, false)
}

func (r *serviceRepository) GetByCategory(ctx context.Context, catID int64) ([]domain.Location, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services s
		JOIN service_categories m ON m.service_id = s.id AND m.category_id = $1
		` + attachedCategory + `
		ORDER BY s.id
	`

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query, catID); err != nil {
		r.logger.Error("Failed to load category services",
			zap.Int64("cat_id", catID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return r.hydrate(ctx, rows, false)
}

func (r *serviceRepository) GetByID(ctx context.Context, postID, catID int64) (*domain.Location, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services s
		` + attachedCategory + `
		WHERE s.id = $2
	`

	var row serviceRow
	err := r.db.GetContext(ctx, &row, query, catID, postID)
	if err == sql.ErrNoRows {
		return nil, errors.ErrLocationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load service",
			zap.Int64("post_id", postID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	locations, err := r.hydrate(ctx, []serviceRow{row}, true)
	if err != nil {
		return nil, err
	}
	return &locations[0], nil
}

func (r *serviceRepository) GetBySubcategories(ctx context.Context, subcatIDs []int64) ([]domain.Location, error) {
	if len(subcatIDs) == 0 {
		return []domain.Location{}, nil
	}

	query := `
		SELECT DISTINCT ON (s.id) ` + serviceColumns + `
		FROM services s
		JOIN service_categories m ON m.service_id = s.id AND m.category_id = ANY($2)
		` + attachedCategory + `
		ORDER BY s.id
	`

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query, 0, pq.Array(subcatIDs)); err != nil {
		r.logger.Error("Failed to load subcategory services", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return r.hydrate(ctx, rows, false)
}

func (r *serviceRepository) GetSubcategories(ctx context.Context, parentID int64) (*domain.SubcategoryList, error) {
	var catName string
	err := r.db.GetContext(ctx, &catName, `SELECT name FROM categories WHERE id = $1`, parentID)
	if err == sql.ErrNoRows {
		return nil, errors.ErrCategoryNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load category name",
			zap.Int64("cat_id", parentID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	var subs []domain.Subcategory
	query := `SELECT id, name FROM categories WHERE parent_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &subs, query, parentID); err != nil {
		r.logger.Error("Failed to load subcategories",
			zap.Int64("parent_id", parentID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &domain.SubcategoryList{
		Subcategories: subs,
		CatName:       catName,
	}, nil
}

func (r *serviceRepository) GetTopCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	query := `SELECT id, name, slug, COALESCE(image_url, '') AS image_url, parent_id
		FROM categories WHERE parent_id = 0 ORDER BY name`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		r.logger.Error("Failed to load top categories", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return categories, nil
}

func (r *serviceRepository) SearchByText(ctx context.Context, query string) ([]domain.Location, error) {
	pattern := "%" + query + "%"
	sqlQuery := `
		SELECT ` + serviceColumns + `
		FROM services s
		` + attachedCategory + `
		WHERE s.title ILIKE $2 OR s.description ILIKE $2
		ORDER BY (s.title ILIKE $2) DESC, s.id
	`

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, 0, pattern); err != nil {
		r.logger.Error("Search query failed", zap.String("query", query), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return r.hydrate(ctx, rows, false)
}

// hydrate converts rows to domain records and batch-loads opening hours and
// facilities. Group schedules are only loaded for detail views.
func (r *serviceRepository) hydrate(ctx context.Context, rows []serviceRow, detail bool) ([]domain.Location, error) {
	locations := make([]domain.Location, 0, len(rows))
	ids := make([]int64, 0, len(rows))

	for _, row := range rows {
		loc := domain.Location{
			ID:          row.ID,
			Title:       row.Title,
			Address:     row.Address.String,
			Lat:         row.Lat.String,
			Lng:         row.Lng.String,
			ImageURL:    row.ImageURL.String,
			Link:        row.Link.String,
			ServiceLink: sanitizeServiceLink(row.ServiceLink.String),
			CatID:       row.CatID.Int64,
			CatSlug:     row.CatSlug.String,
			CatName:     row.CatName.String,
			CatImageURL: row.CatImageURL.String,
		}
		if detail {
			loc.Description = row.Description.String
		}
		if loc.CatSlug == domain.HygieneSlug {
			loc.ImageURL = hygieneImageURL
		}
		locations = append(locations, loc)
		ids = append(ids, row.ID)
	}

	if len(ids) == 0 {
		return locations, nil
	}

	hours, err := r.loadHours(ctx, ids)
	if err != nil {
		return nil, err
	}
	facilities, err := r.loadFacilities(ctx, ids)
	if err != nil {
		return nil, err
	}

	var schedules map[int64][]domain.GroupSchedule
	if detail {
		schedules, err = r.loadGroupSchedules(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	for i := range locations {
		locations[i].OpeningHours = domain.GroupWeeklyHours(hours[locations[i].ID])
		locations[i].Facilities = facilities[locations[i].ID]
		if detail {
			locations[i].GroupSchedules = schedules[locations[i].ID]
		}
	}

	return locations, nil
}

func (r *serviceRepository) loadHours(ctx context.Context, ids []int64) (map[int64][]domain.WeeklyHourRow, error) {
	query := `
		SELECT service_id, day, is_closed, opening_time, closing_time
		FROM weekly_hours
		WHERE service_id = ANY($1)
		ORDER BY service_id, position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to load weekly hours", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	result := make(map[int64][]domain.WeeklyHourRow)
	for rows.Next() {
		var serviceID int64
		var row domain.WeeklyHourRow
		var open, close sql.NullString

		if err := rows.Scan(&serviceID, &row.Day, &row.Closed, &open, &close); err != nil {
			r.logger.Error("Failed to scan weekly hour row", zap.Error(err))
			continue
		}
		row.Open = open.String
		row.Close = close.String
		result[serviceID] = append(result[serviceID], row)
	}

	return result, rows.Err()
}

func (r *serviceRepository) loadFacilities(ctx context.Context, ids []int64) (map[int64][]domain.Facility, error) {
	query := `
		SELECT service_id, image_url, text
		FROM facilities
		WHERE service_id = ANY($1)
		ORDER BY service_id, position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to load facilities", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	result := make(map[int64][]domain.Facility)
	for rows.Next() {
		var serviceID int64
		var f domain.Facility
		var text sql.NullString

		if err := rows.Scan(&serviceID, &f.ImageURL, &text); err != nil {
			r.logger.Error("Failed to scan facility row", zap.Error(err))
			continue
		}
		f.Text = text.String
		result[serviceID] = append(result[serviceID], f)
	}

	return result, rows.Err()
}

func (r *serviceRepository) loadGroupSchedules(ctx context.Context, ids []int64) (map[int64][]domain.GroupSchedule, error) {
	query := `
		SELECT service_id, group_name, day, opening_time, closing_time
		FROM group_schedule_days
		WHERE service_id = ANY($1)
		ORDER BY service_id, group_name, position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to load group schedules", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	result := make(map[int64][]domain.GroupSchedule)
	for rows.Next() {
		var serviceID int64
		var groupName string
		var day domain.GroupOpeningDay

		if err := rows.Scan(&serviceID, &groupName, &day.Day, &day.Open, &day.Close); err != nil {
			r.logger.Error("Failed to scan group schedule row", zap.Error(err))
			continue
		}

		schedules := result[serviceID]
		if n := len(schedules); n > 0 && schedules[n-1].GroupName == groupName {
			schedules[n-1].OpeningDays = append(schedules[n-1].OpeningDays, day)
		} else {
			schedules = append(schedules, domain.GroupSchedule{
				GroupName:   groupName,
				OpeningDays: []domain.GroupOpeningDay{day},
			})
		}
		result[serviceID] = schedules
	}

	return result, rows.Err()
}

var schemeRe = regexp.MustCompile(`^https?://`)

// sanitizeServiceLink forces a protocol on bare host links from the store.
func sanitizeServiceLink(link string) string {
	if link == "" || schemeRe.MatchString(link) {
		return link
	}
	return "https://" + link
}
