package health

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"shieldkit/internal/logging"
)

//go:embed data/countries.yaml
var builtinCountries []byte

// Registry maps country names to health guidance. Names keep insertion order.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]CountryInfo
	now    func() time.Time
}

// NewRegistry returns an empty registry. now stamps fallback results; nil uses time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		byName: make(map[string]CountryInfo),
		now:    now,
	}
}

// NewMockRegistry returns a registry seeded with the built-in countries.
func NewMockRegistry(now func() time.Time) *Registry {
	countries, err := ParseCountries(builtinCountries)
	if err != nil {
		panic(fmt.Sprintf("health: built-in country data: %v", err))
	}
	r := NewRegistry(now)
	for _, c := range countries {
		r.Add(c)
	}
	return r
}

// Add inserts or replaces a country. A replaced country keeps its position.
func (r *Registry) Add(info CountryInfo) {
	if info.DataSource == "" {
		info.DataSource = SourceMock
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[info.Country]; !exists {
		r.order = append(r.order, info.Country)
	}
	r.byName[info.Country] = info.clone()
}

// Len returns the number of countries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Lookup returns guidance for name. An exact key wins; otherwise the first
// country (in insertion order) whose name contains, or is contained in, name
// ignoring case. With no match the generic fallback is returned.
func (r *Registry) Lookup(name string) CountryInfo {
	if strings.TrimSpace(name) == "" {
		logging.HealthWarn("blank country name, using fallback")
		return r.Fallback(name)
	}

	r.mu.RLock()
	if info, ok := r.byName[name]; ok {
		r.mu.RUnlock()
		logging.HealthDebug("exact match for %s", name)
		return info.clone()
	}

	needle := strings.ToLower(name)
	for _, key := range r.order {
		k := strings.ToLower(key)
		if strings.Contains(k, needle) || strings.Contains(needle, k) {
			info := r.byName[key]
			r.mu.RUnlock()
			logging.Health("matched %s to %s", name, key)
			return info.clone()
		}
	}
	r.mu.RUnlock()

	logging.Health("no data for %s, using fallback", name)
	return r.Fallback(name)
}

// Has reports whether name has specific (non-fallback) data.
func (r *Registry) Has(name string) bool {
	return r.Lookup(name).DataSource != SourceFallback
}

// Fallback returns generic guidance for a country without specific data.
func (r *Registry) Fallback(name string) CountryInfo {
	updated := r.now()
	return CountryInfo{
		Country:     name,
		CountryCode: "XX",
		DataSource:  SourceFallback,
		LastUpdated: &updated,
		Vaccinations: []Vaccination{
			{
				ID:          "routine",
				Name:        "Routine Vaccinations",
				Recommended: true,
				Description: "Ensure all routine vaccinations are up to date (MMR, DTaP, Polio, etc.)",
				Doses:       1,
			},
			{
				ID:           "hep-a",
				Name:         "Hepatitis A",
				Recommended:  true,
				Description:  "Recommended for most international travelers",
				Doses:        2,
				DoseSchedule: []string{"Initial dose", "6-12 months after first dose"},
			},
			{
				ID:           "hep-b",
				Name:         "Hepatitis B",
				Description:  "Consider if you might have intimate contact with locals or need medical procedures",
				Doses:        3,
				DoseSchedule: []string{"Initial dose", "1 month after first", "6 months after first"},
			},
		},
		Precautions: []Precaution{
			{
				ID:          "consult-doctor",
				Type:        PrecautionAdvice,
				Title:       "Consult a Travel Medicine Specialist",
				Description: fmt.Sprintf("We don't have specific health data for %s in our database. Please consult with a healthcare provider or travel medicine specialist for personalized advice.", name),
				Severity:    SeverityHigh,
			},
			{
				ID:          "general-safety",
				Type:        PrecautionAdvice,
				Title:       "General Travel Health",
				Description: "Practice good hygiene, drink safe water, and be cautious with food. Consider travel insurance that covers medical emergencies.",
				Severity:    SeverityMedium,
			},
			{
				ID:          "insect-protection",
				Type:        PrecautionAdvice,
				Title:       "Insect Protection",
				Description: "Use insect repellent and wear protective clothing to prevent mosquito-borne diseases.",
				Severity:    SeverityMedium,
			},
		},
	}
}

// Countries returns all country names in insertion order.
func (r *Registry) Countries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Search returns country names containing query, ignoring case. An empty
// query returns every country.
func (r *Registry) Search(query string) []string {
	if query == "" {
		return r.Countries()
	}
	needle := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, key := range r.order {
		if strings.Contains(strings.ToLower(key), needle) {
			out = append(out, key)
		}
	}
	return out
}

// Suggest returns search suggestions for a partially typed destination.
// Queries of one character or fewer give no suggestions.
func (r *Registry) Suggest(query string) []string {
	if len([]rune(query)) <= 1 {
		return nil
	}
	return r.Search(query)
}
