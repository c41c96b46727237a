package geo

import (
	"math"

	"github.com/tryggaplatser/locator/internal/domain"
)

const earthRadiusKm = 6371.0

// DistanceKm computes the haversine great-circle distance in kilometers.
// Callers must supply finite numbers; NaN inputs propagate.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Closest returns the location nearest to the reference point, or nil for an
// empty set. Locations whose coordinates do not parse to finite numbers are
// skipped entirely. Ties go to the first candidate seen (strict less-than).
func Closest(locations []domain.Location, refLat, refLng float64) *domain.Location {
	var closest *domain.Location
	minDistance := math.Inf(1)

	for i := range locations {
		lat, lng, ok := locations[i].Coords()
		if !ok {
			continue
		}

		distance := DistanceKm(refLat, refLng, lat, lng)
		if distance < minDistance {
			minDistance = distance
			closest = &locations[i]
		}
	}

	return closest
}

// ValidateCoordinates reports whether a pair lies within WGS84 ranges.
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
