package mapview

import "github.com/tryggaplatser/locator/internal/domain"

const (
	toiletIconURL  = "/assets/icons/toilet-pin.svg"
	defaultIconURL = "/assets/icons/map-pin.svg"
	userIconURL    = "/assets/icons/user-pin.svg"
)

// IconFor maps a category slug to a marker icon. Hygiene services get the
// toilet pin; everything else shares the generic pin with a class derived
// from the slug so clients can style per category. An empty slug yields an
// untagged generic pin.
func IconFor(catSlug string) Icon {
	if catSlug == domain.HygieneSlug {
		return Icon{ImageURL: toiletIconURL, ClassName: "marker-" + domain.HygieneSlug}
	}
	if catSlug == "" {
		return Icon{ImageURL: defaultIconURL}
	}
	return Icon{ImageURL: defaultIconURL, ClassName: "marker-" + catSlug}
}

// UserIcon is the marker icon for the device's own position.
func UserIcon() Icon {
	return Icon{ImageURL: userIconURL, ClassName: "marker-user"}
}
