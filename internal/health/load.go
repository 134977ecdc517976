package health

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type countriesFile struct {
	Countries []CountryInfo `yaml:"countries"`
}

// LoadCountries reads country guidance from a YAML file with a top-level
// "countries" list.
func LoadCountries(path string) ([]CountryInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read countries: %w", err)
	}
	return ParseCountries(data)
}

// ParseCountries decodes and validates country guidance.
func ParseCountries(data []byte) ([]CountryInfo, error) {
	var file countriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse countries: %w", err)
	}
	for i := range file.Countries {
		c := &file.Countries[i]
		if err := validateCountry(*c); err != nil {
			return nil, fmt.Errorf("country %d: %w", i, err)
		}
		if c.DataSource == "" {
			c.DataSource = SourceMock
		}
	}
	return file.Countries, nil
}

// Import loads a countries file into the registry and returns how many were added or replaced.
func (r *Registry) Import(path string) (int, error) {
	countries, err := LoadCountries(path)
	if err != nil {
		return 0, err
	}
	for _, c := range countries {
		r.Add(c)
	}
	return len(countries), nil
}

func validateCountry(c CountryInfo) error {
	if strings.TrimSpace(c.Country) == "" {
		return fmt.Errorf("country name is required")
	}
	switch c.DataSource {
	case "", SourceMock, SourceAPI, SourceFallback:
	default:
		return fmt.Errorf("%s: unknown data source %q", c.Country, c.DataSource)
	}
	for _, v := range c.Vaccinations {
		if v.ID == "" || v.Name == "" {
			return fmt.Errorf("%s: vaccination needs id and name", c.Country)
		}
	}
	for _, p := range c.Precautions {
		switch p.Type {
		case PrecautionMedication, PrecautionAdvice, PrecautionWarning:
		default:
			return fmt.Errorf("%s: precaution %s has unknown type %q", c.Country, p.ID, p.Type)
		}
		switch p.Severity {
		case "", SeverityLow, SeverityMedium, SeverityHigh:
		default:
			return fmt.Errorf("%s: precaution %s has unknown severity %q", c.Country, p.ID, p.Severity)
		}
	}
	return nil
}
