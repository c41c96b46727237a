package app

import (
	"sync"
	"time"

	"github.com/tryggaplatser/locator/internal/mapview"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
)

// Geolocator answers "where is this device right now".
type Geolocator interface {
	// Position returns the last known fix, or ErrGeolocationUnavailable
	// when the device has never reported one or it has gone stale.
	Position() (mapview.LatLng, error)
}

// maxFixAge is how long a reported fix stays usable.
const maxFixAge = 10 * time.Minute

// SessionGeolocator holds the fix a device reports through the session
// API. Browsers resolve geolocation on their side and push the result
// here.
type SessionGeolocator struct {
	mu      sync.Mutex
	fix     mapview.LatLng
	fixedAt time.Time
	hasFix  bool
	now     func() time.Time
}

func NewSessionGeolocator() *SessionGeolocator {
	return &SessionGeolocator{now: time.Now}
}

// ReportPosition stores a device-resolved fix.
func (g *SessionGeolocator) ReportPosition(pos mapview.LatLng) {
	g.mu.Lock()
	g.fix = pos
	g.fixedAt = g.now()
	g.hasFix = true
	g.mu.Unlock()
}

func (g *SessionGeolocator) Position() (mapview.LatLng, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hasFix || g.now().Sub(g.fixedAt) > maxFixAge {
		return mapview.LatLng{}, errors.ErrGeolocationUnavailable
	}
	return g.fix, nil
}
