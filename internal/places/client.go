// Package places searches for travel clinics and vaccination centres through
// the Places v1 REST API.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"shieldkit/internal/geo"
	"shieldkit/internal/logging"
)

// DefaultBaseURL is the production Places API endpoint.
const DefaultBaseURL = "https://places.googleapis.com/v1"

// DefaultTextRadiusKm biases text searches when no radius is given.
const DefaultTextRadiusKm = 50.0

const fieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
	"places.internationalPhoneNumber,places.websiteUri,places.rating"

// ErrMissingAPIKey is returned when no Places API key is configured.
var ErrMissingAPIKey = errors.New("places API key is missing")

// Clinic is a health facility with its distance from the search origin.
type Clinic struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Phone    string   `json:"phone,omitempty"`
	Website  string   `json:"website,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Distance float64  `json:"distance"`
}

// APIError is a non-2xx response from the Places API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("places API returned status %d: %s", e.Status, e.Body)
}

// Client calls the Places API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Places client. An empty baseURL uses DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type area struct {
	Circle circle `json:"circle"`
}

type nearbyRequest struct {
	IncludedTypes       []string `json:"includedTypes"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction area     `json:"locationRestriction"`
}

type textRequest struct {
	TextQuery    string `json:"textQuery"`
	LocationBias area   `json:"locationBias"`
}

type apiPlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress         string   `json:"formattedAddress"`
	Location                 latLng   `json:"location"`
	InternationalPhoneNumber string   `json:"internationalPhoneNumber"`
	WebsiteURI               string   `json:"websiteUri"`
	Rating                   *float64 `json:"rating"`
}

type searchResponse struct {
	Places []apiPlace `json:"places"`
}

func circleAround(origin geo.Location, radiusKm float64) area {
	return area{Circle: circle{
		Center: latLng{Latitude: origin.Lat, Longitude: origin.Lng},
		Radius: radiusKm * 1000,
	}}
}

// SearchNearby finds hospitals and wellness centres within radiusKm of
// origin, nearest first.
func (c *Client) SearchNearby(ctx context.Context, origin geo.Location, radiusKm float64) ([]Clinic, error) {
	req := nearbyRequest{
		IncludedTypes:       []string{"hospital", "wellness_center"},
		MaxResultCount:      20,
		LocationRestriction: circleAround(origin, radiusKm),
	}
	clinics, err := c.search(ctx, "/places:searchNearby", req, origin)
	if err != nil {
		return nil, err
	}
	SortByDistance(clinics)
	logging.Places("nearby search found %d places within %.0f km", len(clinics), radiusKm)
	return clinics, nil
}

// SearchText runs a free-text search biased towards origin. Results keep the
// API's relevance order. radiusKm <= 0 uses DefaultTextRadiusKm.
func (c *Client) SearchText(ctx context.Context, query string, origin geo.Location, radiusKm float64) ([]Clinic, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultTextRadiusKm
	}
	req := textRequest{
		TextQuery:    query,
		LocationBias: circleAround(origin, radiusKm),
	}
	clinics, err := c.search(ctx, "/places:searchText", req, origin)
	if err != nil {
		return nil, err
	}
	logging.PlacesDebug("text search %q found %d places", query, len(clinics))
	return clinics, nil
}

func (c *Client) search(ctx context.Context, path string, payload interface{}, origin geo.Location) ([]Clinic, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	clinics := make([]Clinic, 0, len(result.Places))
	for _, p := range result.Places {
		clinics = append(clinics, toClinic(p, origin))
	}
	return clinics, nil
}

func toClinic(p apiPlace, origin geo.Location) Clinic {
	pos := geo.Location{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	return Clinic{
		ID:       p.ID,
		Name:     p.DisplayName.Text,
		Address:  p.FormattedAddress,
		Lat:      pos.Lat,
		Lng:      pos.Lng,
		Phone:    p.InternationalPhoneNumber,
		Website:  p.WebsiteURI,
		Rating:   p.Rating,
		Distance: geo.Distance(origin, pos),
	}
}

// SortByDistance orders clinics nearest first, keeping ties stable.
func SortByDistance(clinics []Clinic) {
	sort.SliceStable(clinics, func(i, j int) bool {
		return clinics[i].Distance < clinics[j].Distance
	})
}

// Within returns the clinics no farther than radiusKm.
func Within(clinics []Clinic, radiusKm float64) []Clinic {
	out := []Clinic{}
	for _, c := range clinics {
		if c.Distance <= radiusKm {
			out = append(out, c)
		}
	}
	return out
}
