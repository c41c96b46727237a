package mapview

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/domain"
)

const (
	// flyToSkipDelta is the camera-move dead zone: a fly-to whose target
	// differs from the current camera by less than this on both axes, with
	// the zoom within one level, is dropped.
	flyToSkipDelta = 0.0005

	// DefaultFlyZoom is the zoom applied when a fly-to target does not
	// specify one.
	DefaultFlyZoom = 16

	// ClosestZoom is the zoom used when centering on the nearest service.
	ClosestZoom = 13

	// LocateZoom is the zoom applied after a successful device fix.
	LocateZoom = 15

	// tightBoundsSpan is the box size under which a bounds fit collapses to
	// an instant centered view instead of an animated fit.
	tightBoundsSpan = 0.005
	tightBoundsZoom = 15

	fitPadding = 80
	fitMaxZoom = 15

	invalidateDelay = 200 * time.Millisecond

	tileAttribution = "© MapTiler © OpenStreetMap contributors"

	userMarkerID    = "user"
	userMarkerPopup = "You are here"
)

// flyAnimation matches the camera easing the clients are tuned for.
var flyAnimation = AnimationOptions{Duration: 1.5, EaseLinearity: 0.25}

// Scheduler defers fn by d. The production scheduler is time.AfterFunc;
// tests substitute a synchronous one.
type Scheduler func(d time.Duration, fn func())

// AfterFuncScheduler runs fn on a timer goroutine after d.
func AfterFuncScheduler(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// MarkerClickFunc receives the location behind a clicked marker.
type MarkerClickFunc func(loc domain.Location)

// Controller owns the camera and marker state for one map. Every visual
// effect goes through the injected Surface, so the controller itself never
// touches a widget. All methods are safe on a controller whose map was
// never initialized: they do nothing.
type Controller struct {
	mu       sync.Mutex
	surface  Surface
	cfg      *config.MapConfig
	logger   *zap.Logger
	schedule Scheduler

	initialized bool
	center      LatLng
	zoom        int

	markerIDs     []string
	markerByID    map[string]domain.Location
	onMarkerClick MarkerClickFunc
	userMarkerSet bool
}

func NewController(surface Surface, cfg *config.MapConfig, logger *zap.Logger, schedule Scheduler) *Controller {
	if schedule == nil {
		schedule = AfterFuncScheduler
	}
	return &Controller{
		surface:    surface,
		cfg:        cfg,
		logger:     logger,
		schedule:   schedule,
		markerByID: map[string]domain.Location{},
	}
}

// InitMap sets up the tile layer, controls and default camera. Calling it
// again is a no-op.
func (c *Controller) InitMap() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil || c.initialized {
		return
	}

	c.surface.AddTileLayer(c.cfg.TileURL, tileAttribution)
	c.surface.AddControl("zoom", "bottomright")
	c.surface.AddControl("locate", "bottomright")

	c.center = LatLng{Lat: c.cfg.DefaultLat, Lng: c.cfg.DefaultLng}
	c.zoom = c.cfg.DefaultZoom
	c.surface.SetView(c.center, c.zoom)
	c.initialized = true

	c.logger.Debug("map initialized",
		zap.Float64("lat", c.center.Lat),
		zap.Float64("lng", c.center.Lng),
		zap.Int("zoom", c.zoom),
	)
}

// SetView jumps the camera without animation.
func (c *Controller) SetView(center LatLng, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready() {
		return
	}
	c.center = center
	c.zoom = zoom
	c.surface.SetView(center, zoom)
}

// FlyTo animates the camera to center. A zoom of 0 means DefaultFlyZoom.
// Moves inside the dead zone are dropped so repeated selections of the
// same place do not jiggle the camera.
func (c *Controller) FlyTo(center LatLng, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready() {
		return
	}
	if zoom == 0 {
		zoom = DefaultFlyZoom
	}
	if math.Abs(center.Lat-c.center.Lat) < flyToSkipDelta &&
		math.Abs(center.Lng-c.center.Lng) < flyToSkipDelta &&
		math.Abs(float64(zoom-c.zoom)) < 1 {
		return
	}
	c.center = center
	c.zoom = zoom
	c.surface.FlyTo(center, zoom, flyAnimation)
}

// FlyToBounds frames a set of points. One point flies to it at the default
// zoom; a tight cluster snaps to its center instantly; anything larger
// gets an animated padded fit.
func (c *Controller) FlyToBounds(points []LatLng) {
	b, ok := BoundsAround(points)
	if !ok {
		return
	}
	if len(points) == 1 {
		c.FlyTo(points[0], DefaultFlyZoom)
		return
	}
	if b.LatSpan() < tightBoundsSpan && b.LngSpan() < tightBoundsSpan {
		center := LatLng{
			Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
			Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
		}
		c.SetView(center, tightBoundsZoom)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready() {
		return
	}
	center := LatLng{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
	c.center = center
	c.zoom = fitMaxZoom
	c.surface.FitBounds(b, fitPadding, fitMaxZoom, flyAnimation)
}

// AddMarkers replaces the current marker set with one marker per location
// that has usable coordinates. popupHTML renders each marker's popup;
// onClick, when non-nil, makes the markers clickable.
func (c *Controller) AddMarkers(locations []domain.Location, popupHTML func(domain.Location) string, onClick MarkerClickFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready() {
		return
	}

	c.clearMarkersLocked()
	c.onMarkerClick = onClick

	skipped := 0
	for _, loc := range locations {
		lat, lng, ok := loc.Coords()
		if !ok {
			skipped++
			continue
		}
		id := markerID(loc.ID)
		m := Marker{
			ID:        id,
			Pos:       LatLng{Lat: lat, Lng: lng},
			Icon:      IconFor(loc.CatSlug),
			Clickable: onClick != nil,
		}
		if popupHTML != nil {
			m.PopupHTML = popupHTML(loc)
		}
		c.surface.AddMarker(m)
		c.markerIDs = append(c.markerIDs, id)
		c.markerByID[id] = loc
	}

	if skipped > 0 {
		c.logger.Debug("skipped locations without coordinates", zap.Int("count", skipped))
	}
}

// ClearMarkers removes every service marker. The user marker stays.
func (c *Controller) ClearMarkers() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready() {
		return
	}
	c.clearMarkersLocked()
}

func (c *Controller) clearMarkersLocked() {
	for _, id := range c.markerIDs {
		c.surface.RemoveMarker(id)
		delete(c.markerByID, id)
	}
	c.markerIDs = nil
	c.onMarkerClick = nil
}

// HandleMarkerClick dispatches a click on the marker for postID to the
// callback registered by the last AddMarkers call.
func (c *Controller) HandleMarkerClick(postID int64) {
	c.mu.Lock()
	loc, ok := c.markerByID[markerID(postID)]
	onClick := c.onMarkerClick
	c.mu.Unlock()

	if !ok || onClick == nil {
		return
	}
	onClick(loc)
}

// AddUserMarker drops (or moves) the device-position marker.
func (c *Controller) AddUserMarker(pos LatLng) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready() {
		return
	}
	if c.userMarkerSet {
		c.surface.RemoveMarker(userMarkerID)
	}
	c.surface.AddMarker(Marker{
		ID:        userMarkerID,
		Pos:       pos,
		Icon:      UserIcon(),
		PopupHTML: userMarkerPopup,
	})
	c.userMarkerSet = true
}

// Markers returns the locations currently on the map, in insertion order.
func (c *Controller) Markers() []domain.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Location, 0, len(c.markerIDs))
	for _, id := range c.markerIDs {
		out = append(out, c.markerByID[id])
	}
	return out
}

// Camera reports the current center and zoom.
func (c *Controller) Camera() (LatLng, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.center, c.zoom
}

// InvalidateSize asks the surface to re-measure itself shortly after a
// layout change has settled.
func (c *Controller) InvalidateSize() {
	c.mu.Lock()
	ready := c.ready()
	c.mu.Unlock()
	if !ready {
		return
	}
	c.schedule(invalidateDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.ready() {
			c.surface.InvalidateSize()
		}
	})
}

// ShowAlert surfaces a message to the user.
func (c *Controller) ShowAlert(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return
	}
	c.surface.ShowAlert(text)
}

// Initialized reports whether InitMap has run.
func (c *Controller) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

func (c *Controller) ready() bool {
	return c.surface != nil && c.initialized
}

func markerID(postID int64) string {
	return fmt.Sprintf("loc-%d", postID)
}
