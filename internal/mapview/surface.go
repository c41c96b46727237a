package mapview

import "sync"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is an axis-aligned box spanned by its south-west and north-east
// corners.
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

// LatSpan returns the box height in degrees.
func (b Bounds) LatSpan() float64 {
	return b.NorthEast.Lat - b.SouthWest.Lat
}

// LngSpan returns the box width in degrees.
func (b Bounds) LngSpan() float64 {
	return b.NorthEast.Lng - b.SouthWest.Lng
}

// Extend grows the box to include p.
func (b Bounds) Extend(p LatLng) Bounds {
	if p.Lat < b.SouthWest.Lat {
		b.SouthWest.Lat = p.Lat
	}
	if p.Lat > b.NorthEast.Lat {
		b.NorthEast.Lat = p.Lat
	}
	if p.Lng < b.SouthWest.Lng {
		b.SouthWest.Lng = p.Lng
	}
	if p.Lng > b.NorthEast.Lng {
		b.NorthEast.Lng = p.Lng
	}
	return b
}

// BoundsAround returns the tight box covering points. ok is false when
// points is empty.
func BoundsAround(points []LatLng) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b = Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}

// AnimationOptions tune an animated camera move.
type AnimationOptions struct {
	Duration      float64 `json:"duration"`
	EaseLinearity float64 `json:"ease_linearity"`
}

// Icon describes how a marker is drawn.
type Icon struct {
	ImageURL  string `json:"image_url"`
	ClassName string `json:"class_name,omitempty"`
}

// Marker is a renderable point of interest.
type Marker struct {
	ID        string `json:"id"`
	Pos       LatLng `json:"pos"`
	Icon      Icon   `json:"icon"`
	PopupHTML string `json:"popup_html,omitempty"`
	Clickable bool   `json:"clickable,omitempty"`
}

// Surface is the drawing target for map operations. Implementations relay
// the calls to an actual map widget; the Controller never talks to one
// directly.
type Surface interface {
	SetView(center LatLng, zoom int)
	FlyTo(center LatLng, zoom int, opts AnimationOptions)
	FitBounds(b Bounds, padding, maxZoom int, opts AnimationOptions)
	AddTileLayer(url, attribution string)
	AddControl(name, position string)
	AddMarker(m Marker)
	RemoveMarker(id string)
	InvalidateSize()
	ShowAlert(text string)
}

// CommandOp names a recorded surface call.
type CommandOp string

const (
	OpSetView        CommandOp = "set_view"
	OpFlyTo          CommandOp = "fly_to"
	OpFitBounds      CommandOp = "fit_bounds"
	OpAddTileLayer   CommandOp = "add_tile_layer"
	OpAddControl     CommandOp = "add_control"
	OpAddMarker      CommandOp = "add_marker"
	OpRemoveMarker   CommandOp = "remove_marker"
	OpInvalidateSize CommandOp = "invalidate_size"
	OpShowAlert      CommandOp = "show_alert"
)

// Command is one recorded surface call in wire-friendly form.
type Command struct {
	Op          CommandOp         `json:"op"`
	Center      *LatLng           `json:"center,omitempty"`
	Zoom        int               `json:"zoom,omitempty"`
	Bounds      *Bounds           `json:"bounds,omitempty"`
	Padding     int               `json:"padding,omitempty"`
	MaxZoom     int               `json:"max_zoom,omitempty"`
	Animate     *AnimationOptions `json:"animate,omitempty"`
	Marker      *Marker           `json:"marker,omitempty"`
	MarkerID    string            `json:"marker_id,omitempty"`
	URL         string            `json:"url,omitempty"`
	Attribution string            `json:"attribution,omitempty"`
	Control     string            `json:"control,omitempty"`
	Position    string            `json:"position,omitempty"`
	Text        string            `json:"text,omitempty"`
}

// CommandLog is a Surface that records every call. The session API drains
// it to ship pending commands to the client; tests inspect it directly.
type CommandLog struct {
	mu       sync.Mutex
	commands []Command
}

func NewCommandLog() *CommandLog {
	return &CommandLog{}
}

func (l *CommandLog) append(c Command) {
	l.mu.Lock()
	l.commands = append(l.commands, c)
	l.mu.Unlock()
}

func (l *CommandLog) SetView(center LatLng, zoom int) {
	l.append(Command{Op: OpSetView, Center: &center, Zoom: zoom})
}

func (l *CommandLog) FlyTo(center LatLng, zoom int, opts AnimationOptions) {
	l.append(Command{Op: OpFlyTo, Center: &center, Zoom: zoom, Animate: &opts})
}

func (l *CommandLog) FitBounds(b Bounds, padding, maxZoom int, opts AnimationOptions) {
	l.append(Command{Op: OpFitBounds, Bounds: &b, Padding: padding, MaxZoom: maxZoom, Animate: &opts})
}

func (l *CommandLog) AddTileLayer(url, attribution string) {
	l.append(Command{Op: OpAddTileLayer, URL: url, Attribution: attribution})
}

func (l *CommandLog) AddControl(name, position string) {
	l.append(Command{Op: OpAddControl, Control: name, Position: position})
}

func (l *CommandLog) AddMarker(m Marker) {
	l.append(Command{Op: OpAddMarker, Marker: &m})
}

func (l *CommandLog) RemoveMarker(id string) {
	l.append(Command{Op: OpRemoveMarker, MarkerID: id})
}

func (l *CommandLog) InvalidateSize() {
	l.append(Command{Op: OpInvalidateSize})
}

func (l *CommandLog) ShowAlert(text string) {
	l.append(Command{Op: OpShowAlert, Text: text})
}

// Drain returns the recorded commands and empties the log.
func (l *CommandLog) Drain() []Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.commands
	l.commands = nil
	return out
}

// Commands returns a copy of the recorded commands without clearing them.
func (l *CommandLog) Commands() []Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Command, len(l.commands))
	copy(out, l.commands)
	return out
}
