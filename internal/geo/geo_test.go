package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	nyc := DefaultLocation()
	london := Location{Lat: 51.5074, Lng: -0.1278}

	assert.InDelta(t, 5570, Distance(nyc, london), 10)
	assert.InDelta(t, Distance(nyc, london), Distance(london, nyc), 1e-9)
	assert.Zero(t, Distance(nyc, nyc))

	antipode := Location{Lat: 0, Lng: 180}
	assert.InDelta(t, EarthRadiusKm*3.141592653589793, Distance(Location{}, antipode), 1e-6)
}

func TestTripDistance(t *testing.T) {
	trip := Trip{From: DefaultLocation(), To: Location{Lat: 13.7563, Lng: 100.5018, Name: "Bangkok"}}
	assert.InDelta(t, 13940, trip.DistanceKm(), 60)
}

func TestStaticPosition(t *testing.T) {
	_, _, err := StaticPosition{}.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrPositionUnavailable)

	lat, lng := 1.5, 2.5
	gotLat, gotLng, err := StaticPosition{Lat: &lat, Lng: &lng}.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.5, gotLat)
	assert.Equal(t, 2.5, gotLng)
}

func newNominatim(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeocoder(srv.URL, "shieldkit-test", time.Second)
}

func TestGeocoderReverse(t *testing.T) {
	g := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "13.75", r.URL.Query().Get("lat"))
		assert.Equal(t, "shieldkit-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"address":{"town":"Pai","country":"Thailand"}}`))
	})

	place, err := g.Reverse(context.Background(), 13.75, 100.5)
	require.NoError(t, err)
	assert.Equal(t, Place{City: "Pai", Country: "Thailand"}, place)
}

func TestGeocoderReverseNoAddress(t *testing.T) {
	g := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	})
	place, err := g.Reverse(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Place{}, place)
}

func TestGeocoderSearch(t *testing.T) {
	g := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		switch r.URL.Query().Get("q") {
		case "Kyoto":
			w.Write([]byte(`[{"lat":"35.0116","lon":"135.7681","display_name":"Kyoto, Kyoto Prefecture, Japan"}]`))
		case "Nowhere":
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`[{"lat":"1","lon":"2","display_name":"Lonely Rock,"}]`))
		}
	})

	loc, err := g.Search(context.Background(), "Kyoto")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Kyoto", loc.Name)
	assert.Equal(t, "Japan", loc.Country)
	assert.InDelta(t, 35.0116, loc.Lat, 1e-9)

	loc, err = g.Search(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Nil(t, loc)

	loc, err = g.Search(context.Background(), "Rock")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", loc.Country)
}

func TestGeocoderHTTPError(t *testing.T) {
	g := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})
	_, err := g.Search(context.Background(), "Kyoto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

type fakeReverse struct {
	place Place
	err   error
}

func (f fakeReverse) Reverse(context.Context, float64, float64) (Place, error) {
	return f.place, f.err
}

func TestResolveUserLocation(t *testing.T) {
	ctx := context.Background()
	lat, lng := 48.8566, 2.3522
	here := StaticPosition{Lat: &lat, Lng: &lng}

	t.Run("no position", func(t *testing.T) {
		assert.Equal(t, DefaultLocation(), ResolveUserLocation(ctx, StaticPosition{}, fakeReverse{}))
	})

	t.Run("named", func(t *testing.T) {
		loc := ResolveUserLocation(ctx, here, fakeReverse{place: Place{City: "Paris", Country: "France"}})
		assert.Equal(t, Location{Lat: lat, Lng: lng, Name: "Paris", Country: "France"}, loc)
	})

	t.Run("reverse fails", func(t *testing.T) {
		loc := ResolveUserLocation(ctx, here, fakeReverse{err: errors.New("offline")})
		assert.Equal(t, Location{Lat: lat, Lng: lng, Name: "Current Location", Country: "Unknown"}, loc)
	})

	t.Run("no geocoder", func(t *testing.T) {
		loc := ResolveUserLocation(ctx, here, nil)
		assert.Equal(t, "Current Location", loc.Name)
	})
}
