package domain

// Category is a service taxonomy term. Top-level categories (ParentID 0) are
// browseable pages; children act as subcategory filters.
type Category struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Slug     string `json:"slug" db:"slug"`
	ImageURL string `json:"image,omitempty" db:"image_url"`
	ParentID int64  `json:"parent_id" db:"parent_id"`
}

// HygieneSlug is the reserved category for public hygiene facilities. It gets
// a dedicated marker icon, a fixed list image, and is excluded from the
// homepage when it is a service's only category.
const HygieneSlug = "hygien"

type Subcategory struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// SubcategoryList carries a parent's children plus its display name.
type SubcategoryList struct {
	Subcategories []Subcategory `json:"data"`
	CatName       string        `json:"cat_name"`
}
