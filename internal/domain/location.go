package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Location is one mapped service (a "post" in the content store). Coordinates
// arrive as text and may be missing or malformed; an entity is only placeable
// on the map when both parse. Records are rebuilt from every fetch and never
// mutated after rendering.
type Location struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Address     string `json:"address,omitempty"`
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
	ImageURL    string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
	ServiceLink string `json:"service_link,omitempty"`
	Description string `json:"content,omitempty"`

	CatID       int64  `json:"cat_id,omitempty"`
	CatSlug     string `json:"cat_slug"`
	CatName     string `json:"cat_name,omitempty"`
	CatImageURL string `json:"cat_image,omitempty"`

	OpeningHours   []OpeningHoursGroup `json:"opening_hours_grouped,omitempty"`
	Facilities     []Facility          `json:"facilities,omitempty"`
	GroupSchedules []GroupSchedule     `json:"groups_schedule,omitempty"`
}

// UnmarshalJSON normalizes the legacy "long" key to Lng. The upstream content
// store emitted both spellings depending on the endpoint; the facade boundary
// is the one place where that inconsistency is absorbed.
func (l *Location) UnmarshalJSON(data []byte) error {
	type alias Location
	aux := struct {
		*alias
		LegacyLng json.RawMessage `json:"long"`
	}{alias: (*alias)(l)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if l.Lng == "" && len(aux.LegacyLng) > 0 {
		var s string
		if err := json.Unmarshal(aux.LegacyLng, &s); err == nil {
			l.Lng = s
		} else {
			// Some upstream endpoints emitted the coordinate as a bare number.
			var f float64
			if err := json.Unmarshal(aux.LegacyLng, &f); err == nil {
				l.Lng = strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
	}
	return nil
}

// Coords parses both coordinates. ok is false when either is missing,
// non-finite, or zero; absent coordinates serialize as empty or 0 upstream,
// so zero counts as missing.
func (l *Location) Coords() (lat, lng float64, ok bool) {
	lat, latOK := ParseCoord(l.Lat)
	lng, lngOK := ParseCoord(l.Lng)
	return lat, lng, latOK && lngOK
}

// Placeable reports whether the location can be rendered as a marker.
func (l *Location) Placeable() bool {
	_, _, ok := l.Coords()
	return ok
}

// ParseCoord parses a text coordinate to a finite non-zero float.
func ParseCoord(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0, false
	}
	return v, true
}

// Facility is a pictogram plus optional description shown on detail views.
type Facility struct {
	ImageURL string `json:"image"`
	Text     string `json:"text,omitempty"`
}

// GroupSchedule holds per-audience opening days for a single service.
type GroupSchedule struct {
	GroupName   string            `json:"group_name"`
	OpeningDays []GroupOpeningDay `json:"opening_days"`
}

type GroupOpeningDay struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}
