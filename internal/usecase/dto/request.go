package dto

// PositionRequest is a device-reported geolocation fix.
type PositionRequest struct {
	Lat float64 `json:"lat" validate:"required"`
	Lng float64 `json:"lng" validate:"required"`
}
