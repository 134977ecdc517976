package geo

import (
	"context"

	"shieldkit/internal/logging"
)

// ReverseGeocoder names a point.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// ResolveUserLocation combines the current position with a reverse geocode.
// It never fails: without a position the default location is returned, and a
// failed reverse geocode keeps the coordinates under generic names.
func ResolveUserLocation(ctx context.Context, src PositionSource, rg ReverseGeocoder) Location {
	lat, lng, err := src.CurrentPosition(ctx)
	if err != nil {
		logging.GeoWarn("position unavailable, using default location: %v", err)
		return DefaultLocation()
	}

	loc := Location{Lat: lat, Lng: lng, Name: "Current Location", Country: "Unknown"}
	if rg == nil {
		return loc
	}

	place, err := rg.Reverse(ctx, lat, lng)
	if err != nil {
		logging.GeoWarn("reverse geocoding failed: %v", err)
		return loc
	}
	if place.City != "" {
		loc.Name = place.City
	}
	if place.Country != "" {
		loc.Country = place.Country
	}
	logging.Geo("resolved user location %s, %s", loc.Name, loc.Country)
	return loc
}
