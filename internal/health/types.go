// Package health holds per-country travel health guidance: vaccinations,
// precautions and the registry used to look them up.
package health

import "time"

// PrecautionType classifies a precaution.
type PrecautionType string

const (
	PrecautionMedication PrecautionType = "medication"
	PrecautionAdvice     PrecautionType = "advice"
	PrecautionWarning    PrecautionType = "warning"
)

// Severity ranks a precaution. Empty means unspecified.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DataSource records where a CountryInfo came from.
type DataSource string

const (
	SourceMock     DataSource = "mock"
	SourceAPI      DataSource = "api"
	SourceFallback DataSource = "fallback"
)

// Vaccination is a vaccine entry for a destination.
type Vaccination struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Required     bool     `yaml:"required" json:"required"`
	Recommended  bool     `yaml:"recommended" json:"recommended"`
	Description  string   `yaml:"description" json:"description"`
	Doses        int      `yaml:"doses,omitempty" json:"doses,omitempty"`
	DoseSchedule []string `yaml:"dose_schedule,omitempty" json:"doseSchedule,omitempty"`
	SideEffects  []string `yaml:"side_effects,omitempty" json:"sideEffects,omitempty"`
}

// Precaution is a non-vaccine health note for a destination.
type Precaution struct {
	ID          string         `yaml:"id" json:"id"`
	Type        PrecautionType `yaml:"type" json:"type"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Severity    Severity       `yaml:"severity,omitempty" json:"severity,omitempty"`
}

// CountryInfo is the health guidance for one country.
type CountryInfo struct {
	Country             string        `yaml:"country" json:"country"`
	CountryCode         string        `yaml:"country_code" json:"countryCode"`
	Vaccinations        []Vaccination `yaml:"vaccinations" json:"vaccinations"`
	Precautions         []Precaution  `yaml:"precautions" json:"healthPrecautions"`
	MalariaRisk         bool          `yaml:"malaria_risk" json:"malariaRisk"`
	YellowFeverRequired bool          `yaml:"yellow_fever_required" json:"yellowFeverRequired"`
	CovidRequirements   string        `yaml:"covid_requirements,omitempty" json:"covidRequirements,omitempty"`
	DataSource          DataSource    `yaml:"data_source,omitempty" json:"dataSource"`
	LastUpdated         *time.Time    `yaml:"last_updated,omitempty" json:"lastUpdated,omitempty"`
}

// RequiredVaccinations returns the vaccinations required for entry.
func (c CountryInfo) RequiredVaccinations() []Vaccination {
	var out []Vaccination
	for _, v := range c.Vaccinations {
		if v.Required {
			out = append(out, v)
		}
	}
	return out
}

// RecommendedVaccinations returns vaccinations that are recommended but not required.
func (c CountryInfo) RecommendedVaccinations() []Vaccination {
	var out []Vaccination
	for _, v := range c.Vaccinations {
		if v.Recommended && !v.Required {
			out = append(out, v)
		}
	}
	return out
}

// OptionalVaccinations returns vaccinations that are neither required nor recommended.
func (c CountryInfo) OptionalVaccinations() []Vaccination {
	var out []Vaccination
	for _, v := range c.Vaccinations {
		if !v.Recommended && !v.Required {
			out = append(out, v)
		}
	}
	return out
}

func (c CountryInfo) clone() CountryInfo {
	out := c
	out.Vaccinations = make([]Vaccination, len(c.Vaccinations))
	for i, v := range c.Vaccinations {
		v.DoseSchedule = append([]string(nil), v.DoseSchedule...)
		v.SideEffects = append([]string(nil), v.SideEffects...)
		out.Vaccinations[i] = v
	}
	out.Precautions = append([]Precaution(nil), c.Precautions...)
	if c.LastUpdated != nil {
		t := *c.LastUpdated
		out.LastUpdated = &t
	}
	return out
}
