package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tryggaplatser/locator/internal/domain"
)

// Monday 2025-10-06 12:00 in the renderer's clock.
func fixedClock() time.Time {
	return time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
}

func testRenderer() *Renderer {
	return New().WithClock(fixedClock)
}

func TestCategoryCards(t *testing.T) {
	locations := []domain.Location{
		{
			ID:      1,
			Title:   "Fryshuset",
			Address: "Mårtensdalsgatan 6",
			CatID:   3,
			CatSlug: "aktiviteter",
			Link:    "https://example.se/fryshuset",
			OpeningHours: []domain.OpeningHoursGroup{
				{Days: []string{"Måndag"}, Hours: "10:00-18:00"},
			},
		},
		{ID: 2, Title: "Offentlig toalett", CatSlug: "hygien", ImageURL: "https://example.se/photo.jpg"},
	}

	html, err := testRenderer().CategoryCards(locations)
	require.NoError(t, err)

	assert.Contains(t, html, `data-post-id="1"`)
	assert.Contains(t, html, "Fryshuset")
	assert.Contains(t, html, "Öppet")
	assert.Contains(t, html, "Läs Mer")

	// Hygiene cards swap imagery for the shared logo and drop the link.
	assert.Contains(t, html, hygieneLogoURL)
	assert.NotContains(t, html, "photo.jpg")

	// Two cards, so no single-item modifier.
	assert.NotContains(t, html, "single-item")
}

func TestCategoryCards_SingleItemClass(t *testing.T) {
	html, err := testRenderer().CategoryCards([]domain.Location{{ID: 1, Title: "Ensam"}})
	require.NoError(t, err)
	assert.Contains(t, html, "single-item")
}

func TestSinglePost(t *testing.T) {
	loc := &domain.Location{
		ID:      42,
		Title:   "Stadsmissionen",
		Address: "Hantverkargatan 3",
		CatSlug: "mat",
		Link:    "https://example.se/stadsmissionen",
		OpeningHours: []domain.OpeningHoursGroup{
			{Days: []string{"Måndag", "Tisdag", "Onsdag"}, Hours: "09:00-17:00"},
			{Days: []string{"Lördag"}, Hours: domain.ClosedSentinel},
		},
		Facilities: []domain.Facility{{ImageURL: "/assets/icons/wifi.svg", Text: "Wi-Fi"}},
	}

	html, err := testRenderer().SinglePost(loc)
	require.NoError(t, err)

	assert.Contains(t, html, "Stadsmissionen")
	assert.Contains(t, html, "Måndag - Onsdag")
	assert.Contains(t, html, "09:00-17:00")
	assert.Contains(t, html, "Wi-Fi")
	assert.Contains(t, html, "Läs Mer")
}

func TestLocationPopup_Directions(t *testing.T) {
	loc := domain.Location{ID: 7, Title: "Kulturhuset", Lat: "59.3326", Lng: "18.0649"}

	html, err := testRenderer().LocationPopup(loc)
	require.NoError(t, err)
	assert.Contains(t, html, "google.com/maps/dir")
	assert.Contains(t, html, "travelmode=walking")

	// No coordinates, no directions link.
	html, err = testRenderer().LocationPopup(domain.Location{ID: 8, Title: "Okänd"})
	require.NoError(t, err)
	assert.NotContains(t, html, "google.com/maps/dir")
}

func TestSearchResults_WalkingEstimate(t *testing.T) {
	results := []SearchResult{
		{Location: domain.Location{ID: 1, Title: "Biblioteket", CatName: "Lugn & ro"}, DistanceKm: 1.0, HasOrigin: true},
		{Location: domain.Location{ID: 2, Title: "Parkleken"}},
	}

	html, err := testRenderer().SearchResults(results)
	require.NoError(t, err)

	// 1 km at 5 km/h is 12 minutes.
	assert.Contains(t, html, "ca 12 min promenad")
	assert.Contains(t, html, "Parkleken")
}

func TestWalkingEstimate(t *testing.T) {
	assert.Equal(t, "ca 12 min promenad", WalkingEstimate(1.0))
	assert.Equal(t, "ca 1 min promenad", WalkingEstimate(0.01))
	assert.Equal(t, "ca 30 min promenad", WalkingEstimate(2.5))
}

func TestSubcategoryDropdown(t *testing.T) {
	list := &domain.SubcategoryList{
		CatName: "Mat",
		Subcategories: []domain.Subcategory{
			{ID: 21, Name: "Frukost"},
			{ID: 22, Name: "Lunch"},
		},
	}

	html, err := testRenderer().SubcategoryDropdown(list)
	require.NoError(t, err)
	assert.Contains(t, html, `value="21"`)
	assert.Contains(t, html, "Lunch")
}

func TestGroupSchedules(t *testing.T) {
	loc := &domain.Location{
		Title: "Fritidsgården",
		GroupSchedules: []domain.GroupSchedule{
			{
				GroupName: "Tjejkväll",
				OpeningDays: []domain.GroupOpeningDay{
					{Day: "Onsdag", Open: "17:00", Close: "21:00"},
				},
			},
		},
	}

	html, err := testRenderer().GroupSchedules(loc)
	require.NoError(t, err)
	assert.Contains(t, html, "Tjejkväll")
	assert.Contains(t, html, "17:00 - 21:00")
}
