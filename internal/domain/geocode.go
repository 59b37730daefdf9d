package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding fills in the location of a shelter that has none by
// geocoding its address. Shelters that already have coordinates are returned
// unchanged. A failed lookup or a result outside the country bounding box
// leaves the shelter without a location, so enrichment never causes a record
// to fail validation.
func EnrichWithGeocoding(ctx context.Context, s Shelter, geocoder Geocoder, logger *slog.Logger) Shelter {
	if geocoder == nil || s.Location != nil || s.Address == "" {
		return s
	}

	result, err := geocoder.ForwardGeocode(ctx, s.Address)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"shelter_id", s.ID,
			"address", s.Address,
			"error", err,
		)
		s.Source.GeoSource = GeoSourceFailed
		return s
	}
	if !result.Found() {
		return s
	}
	if !InBounds(result.Lat, result.Lng) {
		logger.Debug("geocoding result outside bounds, ignoring",
			"shelter_id", s.ID,
			"lat", result.Lat,
			"lng", result.Lng,
		)
		return s
	}

	s.Location = &Location{Lat: result.Lat, Lng: result.Lng}
	s.Source.GeoSource = GeoSourceForward
	return s
}
