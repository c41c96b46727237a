package nav

import "strconv"

// Page is the coarse view the client is on.
type Page string

const (
	PageHome     Page = "home"
	PageCategory Page = "category"
	PageSingle   Page = "single"
)

// Valid reports whether p is one of the known pages.
func (p Page) Valid() bool {
	switch p {
	case PageHome, PageCategory, PageSingle:
		return true
	}
	return false
}

// State is the restorable navigation position of one device.
type State struct {
	Page   Page  `json:"page"`
	CatID  int64 `json:"cat_id,omitempty"`
	PostID int64 `json:"post_id,omitempty"`
}

// HomeState is the position every malformed or missing saved state
// collapses to.
func HomeState() State {
	return State{Page: PageHome}
}

// Persisted state keys. The names predate this service and are shared
// with stored client data, so they stay as-is.
const (
	keyCurrentPage   = "currentPage"
	keyCurrentCatID  = "currentCatId"
	keyCurrentPostID = "currentPostId"
)

func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
