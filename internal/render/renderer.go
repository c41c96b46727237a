package render

import (
	"fmt"
	"html/template"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/tryggaplatser/locator/internal/domain"
)

// walkingSpeedKmh is the pace behind the "promenad" estimate in search
// results.
const walkingSpeedKmh = 5.0

// hygieneLogoURL replaces per-service imagery on hygiene cards. Same
// asset the store substitutes, pinned here for records fetched remotely.
const hygieneLogoURL = "/uploads/stockholms-stad-logo.png"

// Renderer produces the HTML fragments the clients inject. Output is
// Swedish because the audience is; only the markup lives here, styling is
// the client's.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

func New() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("fragments").Parse(fragmentTemplates)),
		now:  time.Now,
	}
}

// WithClock fixes the renderer's notion of now. Used in tests.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

type cardView struct {
	Title       string
	Address     string
	ImageURL    string
	Status      domain.Status
	ReadMoreURL string
	PostID      int64
	CatID       int64
}

type popupView struct {
	Title         string
	Address       string
	Status        domain.Status
	ServiceLink   string
	DirectionsURL string
	PostID        int64
}

type searchHitView struct {
	Title       string
	Address     string
	CatName     string
	WalkingText string
	PostID      int64
	CatID       int64
}

type headerView struct {
	CatName     string
	CatImageURL string
}

type singleView struct {
	Location     *domain.Location
	Status       domain.Status
	OpeningHours []hoursRowView
	ShowReadMore bool
}

type hoursRowView struct {
	DayRange string
	Hours    string
}

func (r *Renderer) render(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}

// CategoryCards renders the scrollable card list for a category page.
func (r *Renderer) CategoryCards(locations []domain.Location) (string, error) {
	now := r.now()
	cards := make([]cardView, 0, len(locations))
	for _, loc := range locations {
		cards = append(cards, r.cardFor(loc, now))
	}
	return r.render("category_cards", struct {
		Cards      []cardView
		SingleItem bool
	}{cards, len(cards) == 1})
}

func (r *Renderer) cardFor(loc domain.Location, now time.Time) cardView {
	card := cardView{
		Title:    loc.Title,
		Address:  loc.Address,
		ImageURL: loc.ImageURL,
		Status:   domain.TodayStatus(loc.OpeningHours, now),
		PostID:   loc.ID,
		CatID:    loc.CatID,
	}
	if loc.CatSlug == domain.HygieneSlug {
		// Hygiene services share one logo and have no detail page.
		card.ImageURL = hygieneLogoURL
	} else {
		card.ReadMoreURL = loc.Link
	}
	return card
}

// CategoryHeader renders the banner above a category's card list.
func (r *Renderer) CategoryHeader(catName, catImageURL string) (string, error) {
	return r.render("category_header", headerView{CatName: catName, CatImageURL: catImageURL})
}

// SinglePost renders the full detail panel for one service.
func (r *Renderer) SinglePost(loc *domain.Location) (string, error) {
	rows := make([]hoursRowView, 0, len(loc.OpeningHours))
	for _, g := range loc.OpeningHours {
		rows = append(rows, hoursRowView{
			DayRange: domain.FormatDayRange(g.Days),
			Hours:    domain.FormatHours(g.Hours),
		})
	}
	return r.render("single_post", singleView{
		Location:     loc,
		Status:       domain.TodayStatus(loc.OpeningHours, r.now()),
		OpeningHours: rows,
		ShowReadMore: loc.CatSlug != domain.HygieneSlug && loc.Link != "",
	})
}

// LocationPopup renders the marker popup for loc.
func (r *Renderer) LocationPopup(loc domain.Location) (string, error) {
	return r.render("location_popup", popupView{
		Title:         loc.Title,
		Address:       loc.Address,
		Status:        domain.TodayStatus(loc.OpeningHours, r.now()),
		ServiceLink:   loc.ServiceLink,
		DirectionsURL: DirectionsURL(loc),
		PostID:        loc.ID,
	})
}

// SearchResult pairs a hit with its distance from the device.
type SearchResult struct {
	Location   domain.Location
	DistanceKm float64
	HasOrigin  bool
}

// SearchResults renders the result list under the search box.
func (r *Renderer) SearchResults(results []SearchResult) (string, error) {
	hits := make([]searchHitView, 0, len(results))
	for _, res := range results {
		hit := searchHitView{
			Title:   res.Location.Title,
			Address: res.Location.Address,
			CatName: res.Location.CatName,
			PostID:  res.Location.ID,
			CatID:   res.Location.CatID,
		}
		if res.HasOrigin {
			hit.WalkingText = WalkingEstimate(res.DistanceKm)
		}
		hits = append(hits, hit)
	}
	return r.render("search_results", struct{ Hits []searchHitView }{hits})
}

// SubcategoryDropdown renders the filter checklist for a category page.
func (r *Renderer) SubcategoryDropdown(list *domain.SubcategoryList) (string, error) {
	return r.render("subcategory_dropdown", list)
}

// GroupSchedules renders the per-audience schedule popup on a detail page.
func (r *Renderer) GroupSchedules(loc *domain.Location) (string, error) {
	return r.render("group_schedules", struct {
		Title  string
		Groups []domain.GroupSchedule
	}{loc.Title, loc.GroupSchedules})
}

// WalkingEstimate formats a distance as a rounded-up minutes-on-foot label.
func WalkingEstimate(distanceKm float64) string {
	minutes := int(math.Ceil(distanceKm / walkingSpeedKmh * 60))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("ca %d min promenad", minutes)
}

// DirectionsURL builds the external walking-directions link for loc.
// Empty when the location has no usable coordinates.
func DirectionsURL(loc domain.Location) string {
	lat, lng, ok := loc.Coords()
	if !ok {
		return ""
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", fmt.Sprintf("%g,%g", lat, lng))
	q.Set("travelmode", "walking")
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

const fragmentTemplates = `
{{define "category_cards"}}<div class="card-list{{if .SingleItem}} single-item{{end}}">
{{range .Cards}}<div class="card" data-post-id="{{.PostID}}" data-cat-id="{{.CatID}}">
{{if .ImageURL}}<img class="card-image" src="{{.ImageURL}}" alt="{{.Title}}">{{end}}
<h3 class="card-title">{{.Title}}</h3>
{{if .Address}}<p class="card-address">{{.Address}}</p>{{end}}
<span class="{{.Status.Kind}}">{{.Status.Label}}</span>
{{if .ReadMoreURL}}<a class="read-more" href="{{.ReadMoreURL}}">Läs Mer</a>{{end}}
</div>
{{end}}</div>{{end}}

{{define "category_header"}}<div class="category-header">
{{if .CatImageURL}}<img src="{{.CatImageURL}}" alt="{{.CatName}}">{{end}}
<h2>{{.CatName}}</h2>
</div>{{end}}

{{define "single_post"}}<article class="single-post" data-post-id="{{.Location.ID}}">
{{if .Location.ImageURL}}<img class="single-image" src="{{.Location.ImageURL}}" alt="{{.Location.Title}}">{{end}}
<h2>{{.Location.Title}}</h2>
{{if .Location.Address}}<p class="single-address">{{.Location.Address}}</p>{{end}}
<span class="{{.Status.Kind}}">{{.Status.Label}}</span>
{{if .OpeningHours}}<ul class="opening-hours">
{{range .OpeningHours}}<li><span class="days">{{.DayRange}}</span> <span class="hours">{{.Hours}}</span></li>
{{end}}</ul>{{end}}
{{if .Location.Description}}<div class="single-description">{{.Location.Description}}</div>{{end}}
{{if .Location.Facilities}}<ul class="facilities">
{{range .Location.Facilities}}<li><img src="{{.ImageURL}}" alt="">{{if .Text}}<span>{{.Text}}</span>{{end}}</li>
{{end}}</ul>{{end}}
{{if .ShowReadMore}}<a class="read-more" href="{{.Location.Link}}">Läs Mer</a>{{end}}
</article>{{end}}

{{define "location_popup"}}<div class="map-popup" data-post-id="{{.PostID}}">
<h3>{{.Title}}</h3>
{{if .Address}}<p>{{.Address}}</p>{{end}}
<span class="{{.Status.Kind}}">{{.Status.Label}}</span>
{{if .DirectionsURL}}<a class="directions" href="{{.DirectionsURL}}" target="_blank" rel="noopener">Vägbeskrivning</a>{{end}}
{{if .ServiceLink}}<a class="service-link" href="{{.ServiceLink}}">Till tjänsten</a>{{end}}
</div>{{end}}

{{define "search_results"}}<ul class="search-results">
{{range .Hits}}<li data-post-id="{{.PostID}}" data-cat-id="{{.CatID}}">
<span class="hit-title">{{.Title}}</span>
{{if .CatName}}<span class="hit-category">{{.CatName}}</span>{{end}}
{{if .Address}}<span class="hit-address">{{.Address}}</span>{{end}}
{{if .WalkingText}}<span class="hit-distance">{{.WalkingText}}</span>{{end}}
</li>
{{end}}</ul>{{end}}

{{define "subcategory_dropdown"}}<div class="subcategory-dropdown">
<h4>{{.CatName}}</h4>
<ul>
{{range .Subcategories}}<li><label><input type="checkbox" value="{{.ID}}"> {{.Name}}</label></li>
{{end}}</ul>
<button class="apply-filter">Filtrera</button>
</div>{{end}}

{{define "group_schedules"}}<div class="group-schedules">
<h3>{{.Title}}</h3>
{{range .Groups}}<div class="group">
<h4>{{.GroupName}}</h4>
<ul>
{{range .OpeningDays}}<li><span class="day">{{.Day}}</span> <span class="hours">{{.Open}} - {{.Close}}</span></li>
{{end}}</ul>
</div>
{{end}}</div>{{end}}
`
