package domain

import (
	"errors"
	"math"
	"unicode/utf8"
)

// Country bounding box for accepted coordinates.
const (
	MinLat = 33.0
	MaxLat = 39.0
	MinLng = 124.0
	MaxLng = 132.0
)

const (
	minNameLen    = 2
	minAddressLen = 5
)

var (
	ErrMissingName        = errors.New("missing name")
	ErrMissingAddress     = errors.New("missing address")
	ErrNameTooShort       = errors.New("name too short")
	ErrAddressTooShort    = errors.New("address too short")
	ErrLocationOutOfRange = errors.New("location out of range")
)

// InBounds reports whether the coordinate lies inside the country bounding
// box, edges included.
func InBounds(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= MinLat && lat <= MaxLat && lng >= MinLng && lng <= MaxLng
}

// Validate returns nil if s is fit for output, or the first rule it breaks.
// Lengths are counted in characters, not bytes. A missing location is fine.
func Validate(s Shelter) error {
	if err := ValidateText(s); err != nil {
		return err
	}
	if s.Location != nil && !InBounds(s.Location.Lat, s.Location.Lng) {
		return ErrLocationOutOfRange
	}
	return nil
}

// ValidateText checks the name and address rules only. It lets callers skip
// work, such as geocoding, for records Validate will reject anyway.
func ValidateText(s Shelter) error {
	if s.Name == "" {
		return ErrMissingName
	}
	if s.Address == "" {
		return ErrMissingAddress
	}
	if utf8.RuneCountInString(s.Name) < minNameLen {
		return ErrNameTooShort
	}
	if utf8.RuneCountInString(s.Address) < minAddressLen {
		return ErrAddressTooShort
	}
	return nil
}

// IsValid reports whether Validate accepts s.
func IsValid(s Shelter) bool { return Validate(s) == nil }

// ReasonLabel maps a validation error to a short metrics label.
func ReasonLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingName):
		return "missing_name"
	case errors.Is(err, ErrMissingAddress):
		return "missing_address"
	case errors.Is(err, ErrNameTooShort):
		return "name_too_short"
	case errors.Is(err, ErrAddressTooShort):
		return "address_too_short"
	case errors.Is(err, ErrLocationOutOfRange):
		return "location_out_of_range"
	default:
		return "other"
	}
}
