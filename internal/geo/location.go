// Package geo resolves the user's position, geocodes place names and measures
// great-circle distances.
package geo

import (
	"context"
	"errors"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0

// ErrPositionUnavailable is returned when no position can be determined.
var ErrPositionUnavailable = errors.New("position unavailable")

// Location is a named point on the globe.
type Location struct {
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
	Name    string  `json:"name" yaml:"name"`
	Country string  `json:"country" yaml:"country"`
}

// DefaultLocation is used whenever the user's position cannot be resolved.
func DefaultLocation() Location {
	return Location{Lat: 40.7128, Lng: -74.0060, Name: "New York", Country: "United States"}
}

// Distance returns the haversine distance between a and b in kilometres.
func Distance(a, b Location) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Trip is a flight from the user's location to a destination.
type Trip struct {
	From Location `json:"from"`
	To   Location `json:"to"`
}

// DistanceKm is the great-circle length of the trip.
func (t Trip) DistanceKm() float64 {
	return Distance(t.From, t.To)
}

// PositionSource reports the device's current coordinates.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (lat, lng float64, err error)
}

// StaticPosition is a PositionSource backed by configured coordinates.
// A nil coordinate means the position is unknown.
type StaticPosition struct {
	Lat *float64
	Lng *float64
}

// CurrentPosition implements PositionSource.
func (p StaticPosition) CurrentPosition(ctx context.Context) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if p.Lat == nil || p.Lng == nil {
		return 0, 0, ErrPositionUnavailable
	}
	return *p.Lat, *p.Lng, nil
}
