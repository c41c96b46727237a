package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/domain"
	"github.com/tryggaplatser/locator/internal/mapview"
	"github.com/tryggaplatser/locator/internal/nav"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
	"github.com/tryggaplatser/locator/internal/render"
	"github.com/tryggaplatser/locator/internal/repository/memory"
)

type mockFacade struct {
	mock.Mock
}

func (m *mockFacade) AllLocations(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockFacade) CategoryPosts(ctx context.Context, catID int64) ([]domain.Location, error) {
	args := m.Called(ctx, catID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockFacade) SubcategoriesByParent(ctx context.Context, parentID int64) (*domain.SubcategoryList, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubcategoryList), args.Error(1)
}

func (m *mockFacade) SinglePost(ctx context.Context, postID, catID int64) (*domain.Location, error) {
	args := m.Called(ctx, postID, catID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *mockFacade) SubcategoryPostsMultiple(ctx context.Context, subcatIDs []int64) ([]domain.Location, error) {
	args := m.Called(ctx, subcatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockFacade) Search(ctx context.Context, query string) ([]domain.Location, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *mockFacade) LocationDetails(ctx context.Context, postID int64) (*domain.Location, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

// stubGeolocator returns a fixed position or an unavailable error.
type stubGeolocator struct {
	pos mapview.LatLng
	err error
}

func (s *stubGeolocator) Position() (mapview.LatLng, error) {
	return s.pos, s.err
}

// manualScheduler collects deferred work to be run explicitly.
type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) schedule(_ time.Duration, fn func()) {
	s.pending = append(s.pending, fn)
}

func (s *manualScheduler) fire() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type fixture struct {
	orch    *Orchestrator
	data    *mockFacade
	surface *mapview.CommandLog
	sink    *nav.InstructionLog
	sched   *manualScheduler
	geoStub *stubGeolocator
	navMgr  *nav.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.MapConfig{
		DefaultLat:  59.3293,
		DefaultLng:  18.0686,
		DefaultZoom: 13,
		FallbackLat: 59.33024608264878,
		FallbackLng: 18.058248426091545,
		TileURL:     "https://tiles.example/{z}/{x}/{y}.png",
	}

	surface := mapview.NewCommandLog()
	sink := nav.NewInstructionLog()
	sched := &manualScheduler{}
	geoStub := &stubGeolocator{err: errors.ErrGeolocationUnavailable}
	data := new(mockFacade)

	controller := mapview.NewController(surface, cfg, zap.NewNop(), sched.schedule)
	controller.InitMap()
	surface.Drain()
	navMgr := nav.NewManager(memory.NewStateRepository(), "device-1", sink, zap.NewNop())
	renderer := render.New()

	orch := NewOrchestrator(controller, navMgr, data, renderer, geoStub, sink, cfg, zap.NewNop(), sched.schedule)

	return &fixture{
		orch:    orch,
		data:    data,
		surface: surface,
		sink:    sink,
		sched:   sched,
		geoStub: geoStub,
		navMgr:  navMgr,
	}
}

func commandsOfOp(cmds []mapview.Command, op mapview.CommandOp) []mapview.Command {
	var out []mapview.Command
	for _, c := range cmds {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func TestOrchestrator_FreshSessionHomepage(t *testing.T) {
	f := newFixture(t)

	locations := []domain.Location{
		{ID: 1, Title: "A", Lat: "59.31", Lng: "18.01", CatSlug: "mat"},
		{ID: 2, Title: "B", Lat: "59.32", CatSlug: "mat"}, // no lng
		{ID: 3, Title: "C", Lat: "59.33", Lng: "18.03", CatSlug: "hygien"},
	}
	f.data.On("AllLocations", mock.Anything).Return(locations, nil)

	f.orch.Start(context.Background())
	f.sched.fire()

	cmds := f.surface.Drain()

	// Only the two locations with coordinates become markers.
	markers := commandsOfOp(cmds, mapview.OpAddMarker)
	require.Len(t, markers, 2)
	assert.Equal(t, "loc-1", markers[0].Marker.ID)
	assert.Equal(t, "loc-3", markers[1].Marker.ID)

	// No device fix, so the camera falls back to the city center.
	views := commandsOfOp(cmds, mapview.OpSetView)
	last := views[len(views)-1]
	assert.InDelta(t, 59.33024608264878, last.Center.Lat, 1e-12)
	assert.Equal(t, 12, last.Zoom)

	// The home panel is showing.
	assert.Equal(t, nav.HomeState(), f.navMgr.Current())
}

func TestOrchestrator_HomepageWithFixCentersOnClosest(t *testing.T) {
	f := newFixture(t)
	f.geoStub.err = nil
	f.geoStub.pos = mapview.LatLng{Lat: 59.310, Lng: 18.012}

	locations := []domain.Location{
		{ID: 1, Title: "Nära", Lat: "59.311", Lng: "18.013"},
		{ID: 2, Title: "Långt bort", Lat: "59.40", Lng: "18.20"},
	}
	f.data.On("AllLocations", mock.Anything).Return(locations, nil)

	f.orch.LoadHomepage(context.Background())
	f.sched.fire()

	cmds := f.surface.Drain()

	markers := commandsOfOp(cmds, mapview.OpAddMarker)
	var userMarkers []mapview.Command
	for _, m := range markers {
		if m.Marker.ID == "user" {
			userMarkers = append(userMarkers, m)
		}
	}
	require.Len(t, userMarkers, 1)
	assert.Equal(t, "You are here", userMarkers[0].Marker.PopupHTML)

	flys := commandsOfOp(cmds, mapview.OpFlyTo)
	require.NotEmpty(t, flys)
	last := flys[len(flys)-1]
	assert.InDelta(t, 59.311, last.Center.Lat, 1e-9)
	assert.Equal(t, mapview.ClosestZoom, last.Zoom)
}

func TestOrchestrator_StaleGenerationDoesNotMoveCamera(t *testing.T) {
	f := newFixture(t)

	category := []domain.Location{{ID: 1, Title: "A", Lat: "59.31", Lng: "18.01", CatID: 7, CatName: "Mat"}}
	f.data.On("CategoryPosts", mock.Anything, int64(7)).Return(category, nil)
	f.data.On("SubcategoriesByParent", mock.Anything, int64(7)).Return(&domain.SubcategoryList{CatName: "Mat"}, nil)
	single := &domain.Location{ID: 9, Title: "B", Lat: "59.35", Lng: "18.09"}
	f.data.On("SinglePost", mock.Anything, int64(9), int64(0)).Return(single, nil)

	f.orch.LoadCategory(context.Background(), 7)

	// The user clicks through to a post before the category camera move
	// fires. Note the pending category callback is still queued.
	f.orch.LoadSinglePost(context.Background(), 9, 0)
	f.surface.Drain()

	f.sched.fire()
	cmds := f.surface.Drain()

	// Only the single-post fly-to runs; the category's deferred move was
	// superseded.
	flys := commandsOfOp(cmds, mapview.OpFlyTo)
	require.Len(t, flys, 1)
	assert.InDelta(t, 59.35, flys[0].Center.Lat, 1e-9)
	assert.Equal(t, mapview.DefaultFlyZoom, flys[0].Zoom)
}

func TestOrchestrator_LoadCategoryRendersFragments(t *testing.T) {
	f := newFixture(t)

	category := []domain.Location{
		{ID: 1, Title: "Fryshuset", Lat: "59.31", Lng: "18.01", CatID: 7, CatName: "Aktiviteter"},
	}
	f.data.On("CategoryPosts", mock.Anything, int64(7)).Return(category, nil)
	f.data.On("SubcategoriesByParent", mock.Anything, int64(7)).Return(&domain.SubcategoryList{
		CatName:       "Aktiviteter",
		Subcategories: []domain.Subcategory{{ID: 71, Name: "Idrott"}},
	}, nil)

	f.orch.LoadCategory(context.Background(), 7)

	byTarget := map[string]string{}
	for _, in := range f.sink.Drain() {
		if in.Op == nav.OpSetHTML {
			byTarget[in.Target] = in.HTML
		}
	}

	assert.Contains(t, byTarget[targetCategoryHeader], "Aktiviteter")
	assert.Contains(t, byTarget[targetCategoryList], "Fryshuset")
	assert.Contains(t, byTarget[targetCategoryList], "single-item")
	assert.Contains(t, byTarget[targetSubcatDropdown], "Idrott")
}

func TestOrchestrator_SearchShortQueryClears(t *testing.T) {
	f := newFixture(t)

	f.orch.Search(context.Background(), "ab")

	instructions := f.sink.Drain()
	var sawClear, sawHide bool
	for _, in := range instructions {
		if in.Op == nav.OpSetHTML && in.Target == targetSearchResults && in.HTML == "" {
			sawClear = true
		}
		if in.Op == nav.OpHidePanel && in.Target == nav.PanelSearch {
			sawHide = true
		}
	}
	assert.True(t, sawClear)
	assert.True(t, sawHide)
	f.data.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestOrchestrator_SearchWithFixAddsWalkingEstimate(t *testing.T) {
	f := newFixture(t)
	f.geoStub.err = nil
	f.geoStub.pos = mapview.LatLng{Lat: 59.33, Lng: 18.06}

	results := []domain.Location{{ID: 1, Title: "Biblioteket", Lat: "59.34", Lng: "18.06"}}
	f.data.On("Search", mock.Anything, "bibliotek").Return(results, nil)

	f.orch.Search(context.Background(), "bibliotek")

	var html string
	for _, in := range f.sink.Drain() {
		if in.Op == nav.OpSetHTML && in.Target == targetSearchResults {
			html = in.HTML
		}
	}
	assert.Contains(t, html, "Biblioteket")
	assert.Contains(t, html, "min promenad")
}

func TestOrchestrator_HeaderSlugClassFollowsNavigation(t *testing.T) {
	f := newFixture(t)

	category := []domain.Location{{ID: 1, Title: "A", Lat: "59.31", Lng: "18.01", CatID: 7, CatName: "Mat", CatSlug: "mat"}}
	f.data.On("CategoryPosts", mock.Anything, int64(7)).Return(category, nil)
	f.data.On("SubcategoriesByParent", mock.Anything, int64(7)).Return(&domain.SubcategoryList{CatName: "Mat"}, nil)
	f.data.On("AllLocations", mock.Anything).Return([]domain.Location{}, nil)

	f.orch.LoadCategory(context.Background(), 7)
	assert.Contains(t, f.sink.Drain(),
		nav.Instruction{Op: nav.OpAddClass, Target: targetCategoryHeader, Class: "mat"})

	// Going home strips the slug from the header it was put on.
	f.orch.LoadHomepage(context.Background())
	assert.Contains(t, f.sink.Drain(),
		nav.Instruction{Op: nav.OpRemoveClass, Target: targetCategoryHeader, Class: "mat"})
}

func TestOrchestrator_FilterBoundsIncludeUserPosition(t *testing.T) {
	f := newFixture(t)
	f.geoStub.err = nil
	f.geoStub.pos = mapview.LatLng{Lat: 59.40, Lng: 18.20}

	filtered := []domain.Location{
		{ID: 1, Title: "A", Lat: "59.31", Lng: "18.01"},
		{ID: 2, Title: "B", Lat: "59.33", Lng: "18.03"},
	}
	f.data.On("SubcategoryPostsMultiple", mock.Anything, []int64{4, 5}).Return(filtered, nil)

	f.orch.FilterSubcategories(context.Background(), 7, []int64{4, 5})
	f.sched.fire()

	fits := commandsOfOp(f.surface.Drain(), mapview.OpFitBounds)
	require.Len(t, fits, 1)
	assert.InDelta(t, 59.40, fits[0].Bounds.NorthEast.Lat, 1e-9)
	assert.InDelta(t, 18.20, fits[0].Bounds.NorthEast.Lng, 1e-9)
	assert.InDelta(t, 59.31, fits[0].Bounds.SouthWest.Lat, 1e-9)
}

func TestOrchestrator_SearchPlacesResultMarkers(t *testing.T) {
	f := newFixture(t)

	results := []domain.Location{
		{ID: 4, Title: "Biblioteket", Lat: "59.34", Lng: "18.06"},
		{ID: 9, Title: "Simhallen", Lat: "59.31", Lng: "18.09"},
	}
	f.data.On("Search", mock.Anything, "bibliotek").Return(results, nil)

	f.orch.Search(context.Background(), "bibliotek")

	markers := commandsOfOp(f.surface.Drain(), mapview.OpAddMarker)
	require.Len(t, markers, 2)
	assert.Equal(t, "loc-4", markers[0].Marker.ID)
	assert.Equal(t, "loc-9", markers[1].Marker.ID)
}

func TestOrchestrator_LocateMe(t *testing.T) {
	f := newFixture(t)

	f.data.On("AllLocations", mock.Anything).Return([]domain.Location{}, nil)
	f.orch.Start(context.Background())
	f.surface.Drain()

	// Without a fix the user gets an alert.

	f.orch.LocateMe()
	cmds := f.surface.Drain()
	alerts := commandsOfOp(cmds, mapview.OpShowAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, alertGeoUnavailable, alerts[0].Text)

	// With one, the camera jumps there.
	f.geoStub.err = nil
	f.geoStub.pos = mapview.LatLng{Lat: 59.32, Lng: 18.07}
	f.orch.LocateMe()
	cmds = f.surface.Drain()
	views := commandsOfOp(cmds, mapview.OpSetView)
	require.Len(t, views, 1)
	assert.Equal(t, mapview.LocateZoom, views[0].Zoom)
}

func TestOrchestrator_GoBackFromSingleToCategory(t *testing.T) {
	f := newFixture(t)

	single := &domain.Location{ID: 9, Title: "B", Lat: "59.35", Lng: "18.09", CatID: 7}
	category := []domain.Location{{ID: 1, Title: "A", Lat: "59.31", Lng: "18.01", CatID: 7, CatName: "Mat"}}
	f.data.On("SinglePost", mock.Anything, int64(9), int64(7)).Return(single, nil)
	f.data.On("CategoryPosts", mock.Anything, int64(7)).Return(category, nil)
	f.data.On("SubcategoriesByParent", mock.Anything, int64(7)).Return(&domain.SubcategoryList{CatName: "Mat"}, nil)
	f.data.On("AllLocations", mock.Anything).Return([]domain.Location{}, nil)

	f.orch.Start(context.Background())

	f.orch.LoadSinglePost(context.Background(), 9, 7)
	assert.Equal(t, nav.PageSingle, f.navMgr.Current().Page)

	f.orch.GoBack(context.Background())
	assert.Equal(t, nav.State{Page: nav.PageCategory, CatID: 7}, f.navMgr.Current())
}

func TestOrchestrator_DirectionsWithoutCoordsAlerts(t *testing.T) {
	f := newFixture(t)
	f.data.On("AllLocations", mock.Anything).Return([]domain.Location{}, nil)
	f.orch.Start(context.Background())
	f.surface.Drain()
	f.sink.Drain()

	f.orch.Directions(domain.Location{ID: 1, Title: "Utan position"})
	alerts := commandsOfOp(f.surface.Drain(), mapview.OpShowAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, alertNoDirections, alerts[0].Text)

	f.orch.Directions(domain.Location{ID: 2, Lat: "59.33", Lng: "18.06"})
	var opened []nav.Instruction
	for _, in := range f.sink.Drain() {
		if in.Op == nav.OpOpenURL {
			opened = append(opened, in)
		}
	}
	require.Len(t, opened, 1)
	assert.Contains(t, opened[0].URL, "google.com/maps/dir")
}

func TestOrchestrator_RestoreDispatchesToSavedPage(t *testing.T) {
	f := newFixture(t)

	category := []domain.Location{{ID: 1, Title: "A", Lat: "59.31", Lng: "18.01", CatID: 7, CatName: "Mat"}}
	f.data.On("CategoryPosts", mock.Anything, int64(7)).Return(category, nil)
	f.data.On("SubcategoriesByParent", mock.Anything, int64(7)).Return(&domain.SubcategoryList{CatName: "Mat"}, nil)

	// Seed the saved state through a first session.
	f.orch.LoadCategory(context.Background(), 7)

	// A second orchestrator over the same nav manager resumes there.
	f.orch.Start(context.Background())
	assert.Equal(t, nav.State{Page: nav.PageCategory, CatID: 7}, f.navMgr.Current())
	f.data.AssertNotCalled(t, "AllLocations", mock.Anything)
}

func TestOrchestrator_CloseInfoOnHomeRestoresCamera(t *testing.T) {
	f := newFixture(t)

	loc := domain.Location{ID: 5, Title: "Badhus", Lat: "59.350", Lng: "18.100", CatSlug: "mat"}
	f.data.On("AllLocations", mock.Anything).Return([]domain.Location{loc}, nil)
	f.data.On("LocationDetails", mock.Anything, int64(5)).Return(&loc, nil)

	f.orch.Start(context.Background())
	f.sched.fire()
	f.surface.Drain()

	// Clicking the marker flies the camera away from the home view.
	f.orch.OnMarkerClick(context.Background(), loc)
	flights := commandsOfOp(f.surface.Drain(), mapview.OpFlyTo)
	require.Len(t, flights, 1)
	assert.Equal(t, mapview.DefaultFlyZoom, flights[0].Zoom)

	// Closing the panel on the homepage puts the view back.
	f.orch.CloseLocationInfo()
	flights = commandsOfOp(f.surface.Drain(), mapview.OpFlyTo)
	require.Len(t, flights, 1)
	assert.InDelta(t, 59.33024608264878, flights[0].Center.Lat, 1e-12)
	assert.Equal(t, 12, flights[0].Zoom)
}
