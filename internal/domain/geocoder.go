package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
}

// Found reports whether the provider returned a coordinate.
func (r GeocodingResult) Found() bool { return r.Lat != 0 || r.Lng != 0 }

// Geocoder resolves street addresses to coordinates.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, address string) (GeocodingResult, error)
}
