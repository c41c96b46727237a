package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/domain"
	"github.com/tryggaplatser/locator/internal/facade"
	"github.com/tryggaplatser/locator/internal/mapview"
	"github.com/tryggaplatser/locator/internal/nav"
	"github.com/tryggaplatser/locator/internal/pkg/geo"
	"github.com/tryggaplatser/locator/internal/render"
)

// settleDelay is how long the orchestrator waits after a panel switch
// before moving the camera, so the surface has re-measured itself first.
const settleDelay = 300 * time.Millisecond

// HTML targets the orchestrator writes fragments into.
const (
	targetCategoryHeader = "category-header"
	targetCategoryList   = "category-list"
	targetSingle         = "single-content"
	targetSearchResults  = "search-results-list"
	targetLocationInfo   = "location-info-content"
	targetSubcatDropdown = "subcategory-options"
)

const (
	alertGeoUnavailable = "Din position kunde inte hämtas."
	alertNoDirections   = "Platsen saknar koordinater."
	alertLoadFailed     = "Något gick fel. Försök igen."
)

// Orchestrator drives one device's session: it owns the map controller
// and the navigation manager, pulls data through the facade and decides
// what happens on every user action. Each session gets its own instance;
// nothing here is shared.
type Orchestrator struct {
	mu sync.Mutex

	controller *mapview.Controller
	nav        *nav.Manager
	data       facade.DataFacade
	renderer   *render.Renderer
	geo        Geolocator
	sink       nav.Sink
	cfg        *config.MapConfig
	logger     *zap.Logger
	schedule   mapview.Scheduler

	// viewGen invalidates deferred camera work when a newer view has
	// taken over. Only the latest generation is allowed to move the
	// camera.
	viewGen uint64

	// infoFromSearch tracks whether the open info panel covered search
	// results rather than a category list.
	searchActive bool

	// homeCamera remembers where the homepage settled so closing an
	// info panel on Home can put the view back.
	homeCamera    mapview.LatLng
	homeZoom      int
	homeCameraSet bool

	// headerTarget/headerSlug track which slug class is currently on
	// which page header, so it can be swapped or stripped on the next
	// navigation.
	headerTarget string
	headerSlug   string
}

func NewOrchestrator(
	controller *mapview.Controller,
	navManager *nav.Manager,
	data facade.DataFacade,
	renderer *render.Renderer,
	geolocator Geolocator,
	sink nav.Sink,
	cfg *config.MapConfig,
	logger *zap.Logger,
	schedule mapview.Scheduler,
) *Orchestrator {
	if schedule == nil {
		schedule = mapview.AfterFuncScheduler
	}
	return &Orchestrator{
		controller: controller,
		nav:        navManager,
		data:       data,
		renderer:   renderer,
		geo:        geolocator,
		sink:       sink,
		cfg:        cfg,
		logger:     logger,
		schedule:   schedule,
	}
}

// Start initializes the map and resumes wherever the device left off.
func (o *Orchestrator) Start(ctx context.Context) {
	o.controller.InitMap()

	state := o.nav.RestoreState(ctx)
	o.dispatch(ctx, state)
}

func (o *Orchestrator) dispatch(ctx context.Context, state nav.State) {
	switch state.Page {
	case nav.PageCategory:
		o.LoadCategory(ctx, state.CatID)
	case nav.PageSingle:
		o.LoadSinglePost(ctx, state.PostID, state.CatID)
	default:
		o.LoadHomepage(ctx)
	}
}

func (o *Orchestrator) nextGen() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.viewGen++
	return o.viewGen
}

func (o *Orchestrator) genCurrent(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.viewGen == gen
}

// LoadHomepage shows the full map of services. With a device fix the
// camera settles on the nearest one; without, it falls back to the city
// center.
func (o *Orchestrator) LoadHomepage(ctx context.Context) {
	gen := o.nextGen()
	o.setSearchActive(false)
	o.nav.ShowPage(ctx, nav.HomeState())
	o.setHeaderClass("", "")
	o.controller.InvalidateSize()

	locations, err := o.data.AllLocations(ctx)
	if err != nil {
		o.logger.Error("failed to load locations", zap.Error(err))
		o.controller.ShowAlert(alertLoadFailed)
		return
	}

	o.addLocationMarkers(locations)

	pos, posErr := o.geo.Position()
	if posErr == nil {
		o.controller.AddUserMarker(pos)
	}

	o.schedule(settleDelay, func() {
		if !o.genCurrent(gen) {
			return
		}
		if posErr != nil {
			o.controller.SetView(
				mapview.LatLng{Lat: o.cfg.FallbackLat, Lng: o.cfg.FallbackLng},
				12,
			)
			o.snapshotHomeCamera()
			return
		}
		if closest := geo.Closest(locations, pos.Lat, pos.Lng); closest != nil {
			lat, lng, _ := closest.Coords()
			o.controller.FlyTo(mapview.LatLng{Lat: lat, Lng: lng}, mapview.ClosestZoom)
		}
		o.snapshotHomeCamera()
	})
}

// LoadCategory shows one category: header, card list, subcategory filter
// and the members on the map.
func (o *Orchestrator) LoadCategory(ctx context.Context, catID int64) {
	gen := o.nextGen()
	o.setSearchActive(false)
	o.nav.ShowPage(ctx, nav.State{Page: nav.PageCategory, CatID: catID})
	o.controller.InvalidateSize()

	locations, err := o.data.CategoryPosts(ctx, catID)
	if err != nil {
		o.logger.Error("failed to load category", zap.Int64("cat_id", catID), zap.Error(err))
		o.controller.ShowAlert(alertLoadFailed)
		return
	}

	if len(locations) > 0 {
		if html, err := o.renderer.CategoryHeader(locations[0].CatName, locations[0].CatImageURL); err == nil {
			o.setHTML(targetCategoryHeader, html)
		}
		o.setHeaderClass(targetCategoryHeader, locations[0].CatSlug)
	}
	if html, err := o.renderer.CategoryCards(locations); err == nil {
		o.setHTML(targetCategoryList, html)
	}

	o.addLocationMarkers(locations)
	o.loadSubcategories(ctx, catID)

	o.schedule(settleDelay, func() {
		if !o.genCurrent(gen) {
			return
		}
		o.settleOnLocations(locations)
	})
}

// settleOnLocations centers the camera over a freshly shown list: on the
// nearest member when the device position is known, otherwise over the
// whole set.
func (o *Orchestrator) settleOnLocations(locations []domain.Location) {
	if pos, err := o.geo.Position(); err == nil {
		if closest := geo.Closest(locations, pos.Lat, pos.Lng); closest != nil {
			lat, lng, _ := closest.Coords()
			o.controller.FlyTo(mapview.LatLng{Lat: lat, Lng: lng}, mapview.ClosestZoom)
			return
		}
	}
	o.controller.FlyToBounds(o.boundsPoints(locations))
}

// boundsPoints is the placeable coordinates of a list plus the device
// position when one is known.
func (o *Orchestrator) boundsPoints(locations []domain.Location) []mapview.LatLng {
	points := placeablePoints(locations)
	if pos, err := o.geo.Position(); err == nil {
		points = append(points, pos)
	}
	return points
}

func (o *Orchestrator) loadSubcategories(ctx context.Context, catID int64) {
	list, err := o.data.SubcategoriesByParent(ctx, catID)
	if err != nil {
		o.logger.Warn("failed to load subcategories", zap.Int64("cat_id", catID), zap.Error(err))
		return
	}
	if len(list.Subcategories) == 0 {
		o.setHTML(targetSubcatDropdown, "")
		return
	}
	if html, err := o.renderer.SubcategoryDropdown(list); err == nil {
		o.setHTML(targetSubcatDropdown, html)
	}
}

// LoadSinglePost shows one service's detail page with its marker.
func (o *Orchestrator) LoadSinglePost(ctx context.Context, postID, catID int64) {
	gen := o.nextGen()
	o.setSearchActive(false)
	o.nav.ShowPage(ctx, nav.State{Page: nav.PageSingle, CatID: catID, PostID: postID})
	o.controller.InvalidateSize()

	loc, err := o.data.SinglePost(ctx, postID, catID)
	if err != nil {
		o.logger.Error("failed to load post", zap.Int64("post_id", postID), zap.Error(err))
		o.controller.ShowAlert(alertLoadFailed)
		return
	}

	if html, err := o.renderer.SinglePost(loc); err == nil {
		o.setHTML(targetSingle, html)
	}
	o.setHeaderClass(targetSingle, loc.CatSlug)

	o.addLocationMarkers([]domain.Location{*loc})

	lat, lng, ok := loc.Coords()
	if !ok {
		return
	}
	o.schedule(settleDelay, func() {
		if !o.genCurrent(gen) {
			return
		}
		o.controller.FlyTo(mapview.LatLng{Lat: lat, Lng: lng}, mapview.DefaultFlyZoom)
	})
}

// OnMarkerClick opens the expanded info panel for the clicked service.
func (o *Orchestrator) OnMarkerClick(ctx context.Context, loc domain.Location) {
	details, err := o.data.LocationDetails(ctx, loc.ID)
	if err != nil {
		o.logger.Warn("failed to load details", zap.Int64("post_id", loc.ID), zap.Error(err))
		details = &loc
	}

	if html, err := o.renderer.SinglePost(details); err == nil {
		o.setHTML(targetLocationInfo, html)
	}
	o.nav.ShowLocationInfo(o.isSearchActive())
	o.controller.InvalidateSize()

	if lat, lng, ok := details.Coords(); ok {
		o.controller.FlyTo(mapview.LatLng{Lat: lat, Lng: lng}, mapview.DefaultFlyZoom)
	}
}

func (o *Orchestrator) snapshotHomeCamera() {
	center, zoom := o.controller.Camera()
	o.mu.Lock()
	o.homeCamera = center
	o.homeZoom = zoom
	o.homeCameraSet = true
	o.mu.Unlock()
}

// CloseLocationInfo dismisses the info panel and restores the covered
// list. On the homepage the camera also returns to where it settled
// before the panel opened.
func (o *Orchestrator) CloseLocationInfo() {
	o.nav.HideLocationInfo()
	o.controller.InvalidateSize()

	if o.nav.Current().Page != nav.PageHome {
		return
	}
	o.mu.Lock()
	set, center, zoom := o.homeCameraSet, o.homeCamera, o.homeZoom
	o.mu.Unlock()
	if set {
		o.controller.FlyTo(center, zoom)
	}
}

// GoBack moves one navigation level up.
func (o *Orchestrator) GoBack(ctx context.Context) {
	if o.nav.InfoOpen() {
		o.CloseLocationInfo()
		return
	}
	if state, ok := o.nav.Back(); ok {
		o.dispatch(ctx, state)
	}
}

// FilterSubcategories reloads the category list down to the checked
// subcategories. An empty selection reloads the whole category.
func (o *Orchestrator) FilterSubcategories(ctx context.Context, catID int64, subcatIDs []int64) {
	if len(subcatIDs) == 0 {
		o.LoadCategory(ctx, catID)
		return
	}

	gen := o.nextGen()
	locations, err := o.data.SubcategoryPostsMultiple(ctx, subcatIDs)
	if err != nil {
		o.logger.Error("failed to filter subcategories", zap.Error(err))
		o.controller.ShowAlert(alertLoadFailed)
		return
	}

	if html, err := o.renderer.CategoryCards(locations); err == nil {
		o.setHTML(targetCategoryList, html)
	}
	o.addLocationMarkers(locations)

	o.schedule(settleDelay, func() {
		if !o.genCurrent(gen) {
			return
		}
		o.controller.FlyToBounds(o.boundsPoints(locations))
	})
}

// Search runs a text search. Input below three characters only clears the
// previous results, matching how the search box behaves while typing.
func (o *Orchestrator) Search(ctx context.Context, query string) {
	if len([]rune(query)) < 3 {
		o.setHTML(targetSearchResults, "")
		o.sink.Emit(nav.Instruction{Op: nav.OpHidePanel, Target: nav.PanelSearch})
		o.setSearchActive(false)
		return
	}

	locations, err := o.data.Search(ctx, query)
	if err != nil {
		o.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return
	}

	pos, posErr := o.geo.Position()
	results := make([]render.SearchResult, 0, len(locations))
	for _, loc := range locations {
		res := render.SearchResult{Location: loc}
		if posErr == nil {
			if lat, lng, ok := loc.Coords(); ok {
				res.DistanceKm = geo.DistanceKm(pos.Lat, pos.Lng, lat, lng)
				res.HasOrigin = true
			}
		}
		results = append(results, res)
	}

	if html, err := o.renderer.SearchResults(results); err == nil {
		o.setHTML(targetSearchResults, html)
	}
	o.addLocationMarkers(locations)
	o.sink.Emit(nav.Instruction{Op: nav.OpShowPanel, Target: nav.PanelSearch})
	o.setSearchActive(true)
}

// LocateMe centers the camera on the device. Without a fix the user gets
// an alert instead of a silent nothing.
func (o *Orchestrator) LocateMe() {
	pos, err := o.geo.Position()
	if err != nil {
		o.controller.ShowAlert(alertGeoUnavailable)
		return
	}
	o.controller.AddUserMarker(pos)
	o.controller.SetView(pos, mapview.LocateZoom)
}

// DirectionsByID looks a service up and opens directions to it.
func (o *Orchestrator) DirectionsByID(ctx context.Context, postID int64) {
	loc, err := o.data.LocationDetails(ctx, postID)
	if err != nil {
		o.logger.Warn("failed to load location for directions", zap.Int64("post_id", postID), zap.Error(err))
		o.controller.ShowAlert(alertLoadFailed)
		return
	}
	o.Directions(*loc)
}

// Directions opens external walking directions to a service.
func (o *Orchestrator) Directions(loc domain.Location) {
	u := render.DirectionsURL(loc)
	if u == "" {
		o.controller.ShowAlert(alertNoDirections)
		return
	}
	o.sink.Emit(nav.Instruction{Op: nav.OpOpenURL, Target: "directions", URL: u})
}

func (o *Orchestrator) addLocationMarkers(locations []domain.Location) {
	o.controller.AddMarkers(locations,
		func(loc domain.Location) string {
			html, err := o.renderer.LocationPopup(loc)
			if err != nil {
				return ""
			}
			return html
		},
		func(loc domain.Location) {
			o.OnMarkerClick(context.Background(), loc)
		},
	)
}

// setHeaderClass puts the category slug on a page header as a class, so
// clients can theme headers per category. An empty slug strips whatever
// was there.
func (o *Orchestrator) setHeaderClass(target, slug string) {
	o.mu.Lock()
	prevTarget, prevSlug := o.headerTarget, o.headerSlug
	o.headerTarget, o.headerSlug = target, slug
	o.mu.Unlock()

	if prevTarget == target && prevSlug == slug {
		return
	}
	if prevSlug != "" {
		o.sink.Emit(nav.Instruction{Op: nav.OpRemoveClass, Target: prevTarget, Class: prevSlug})
	}
	if slug != "" {
		o.sink.Emit(nav.Instruction{Op: nav.OpAddClass, Target: target, Class: slug})
	}
}

func (o *Orchestrator) setHTML(target, html string) {
	o.sink.Emit(nav.Instruction{Op: nav.OpSetHTML, Target: target, HTML: html})
}

func (o *Orchestrator) setSearchActive(v bool) {
	o.mu.Lock()
	o.searchActive = v
	o.mu.Unlock()
}

func (o *Orchestrator) isSearchActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.searchActive
}

func placeablePoints(locations []domain.Location) []mapview.LatLng {
	points := make([]mapview.LatLng, 0, len(locations))
	for _, loc := range locations {
		if lat, lng, ok := loc.Coords(); ok {
			points = append(points, mapview.LatLng{Lat: lat, Lng: lng})
		}
	}
	return points
}
