package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shieldkit/internal/logging"
)

// Place is the result of a reverse geocode. Fields may be empty.
type Place struct {
	City    string
	Country string
}

// Geocoder talks to a Nominatim-compatible geocoding service.
type Geocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewGeocoder creates a geocoder for baseURL (e.g. https://nominatim.openstreetmap.org).
func NewGeocoder(baseURL, userAgent string, timeout time.Duration) *Geocoder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Geocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type nominatimAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Country string `json:"country"`
}

type nominatimReverse struct {
	Address *nominatimAddress `json:"address"`
}

type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Reverse returns the city (or town, or village) and country at a point.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var out nominatimReverse
	if err := g.get(ctx, "/reverse", q, &out); err != nil {
		return Place{}, err
	}
	if out.Address == nil {
		return Place{}, nil
	}

	city := out.Address.City
	if city == "" {
		city = out.Address.Town
	}
	if city == "" {
		city = out.Address.Village
	}
	return Place{City: city, Country: out.Address.Country}, nil
}

// Search geocodes a free-form place name and returns the best hit, or nil
// when nothing matches.
func (g *Geocoder) Search(ctx context.Context, name string) (*Location, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", name)
	q.Set("limit", "1")

	var hits []nominatimHit
	if err := g.get(ctx, "/search", q, &hits); err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		logging.GeoDebug("no geocoding hit for %q", name)
		return nil, nil
	}

	hit := hits[0]
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q: %w", hit.Lat, err)
	}
	lng, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q: %w", hit.Lon, err)
	}

	parts := strings.Split(hit.DisplayName, ",")
	country := strings.TrimSpace(parts[len(parts)-1])
	if country == "" {
		country = "Unknown"
	}
	return &Location{
		Lat:     lat,
		Lng:     lng,
		Name:    parts[0],
		Country: country,
	}, nil
}

func (g *Geocoder) get(ctx context.Context, path string, q url.Values, dst interface{}) error {
	endpoint := g.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	timer := logging.StartTimer(logging.CategoryGeo, "nominatim "+path)
	defer timer.Stop()

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("geocoding returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	return nil
}
