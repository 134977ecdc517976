package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all shieldkit configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Local persistence for vaccination records and reminders
	Storage StorageConfig `yaml:"storage"`

	// Outbound services
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Places    PlacesConfig    `yaml:"places"`

	// Home location used when no position source is available
	Location LocationConfig `yaml:"location"`

	// Phishing quiz
	Quiz QuizConfig `yaml:"quiz"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig configures the key-value store.
type StorageConfig struct {
	Driver       string `yaml:"driver"` // sqlite3 (cgo) or sqlite (pure Go)
	DatabasePath string `yaml:"database_path"`
}

// GeocodingConfig configures the Nominatim geocoder.
type GeocodingConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	Timeout   string `yaml:"timeout"`
}

// PlacesConfig configures the places API used for clinic search.
type PlacesConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Timeout         string  `yaml:"timeout"`
	DefaultRadiusKm float64 `yaml:"default_radius_km"`
}

// LocationConfig pins the user's position. Lat/Lng are pointers so that
// the equator and prime meridian stay expressible.
type LocationConfig struct {
	Lat *float64 `yaml:"lat,omitempty"`
	Lng *float64 `yaml:"lng,omitempty"`
}

// QuizConfig configures the phishing quiz.
type QuizConfig struct {
	DatasetPath string `yaml:"dataset_path"`
	Watch       bool   `yaml:"watch"`
}

// ValidDrivers lists the registered database/sql driver names.
var ValidDrivers = []string{"sqlite3", "sqlite"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "shieldkit",
		Version: "0.3.0",

		Storage: StorageConfig{
			Driver:       "sqlite3",
			DatabasePath: "shieldkit.db",
		},

		Geocoding: GeocodingConfig{
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "shieldkit/0.3 (travel-tracker)",
			Timeout:   "10s",
		},

		Places: PlacesConfig{
			BaseURL:         "https://places.googleapis.com/v1",
			Timeout:         "15s",
			DefaultRadiusKm: 50,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultHome returns the data directory: $SHIELDKIT_HOME or ~/.shieldkit.
func DefaultHome() string {
	if home := os.Getenv("SHIELDKIT_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".shieldkit"
	}
	return filepath.Join(userHome, ".shieldkit")
}

// DefaultConfigPath returns the config file location inside DefaultHome.
func DefaultConfigPath() string {
	return filepath.Join(DefaultHome(), "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults still honour the environment
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_PLACES_API_KEY"); key != "" {
		c.Places.APIKey = key
	}
	if url := os.Getenv("NOMINATIM_URL"); url != "" {
		c.Geocoding.BaseURL = url
	}
	if path := os.Getenv("SHIELDKIT_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if driver := os.Getenv("SHIELDKIT_DB_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if lat, ok := envFloat("SHIELDKIT_HOME_LAT"); ok {
		c.Location.Lat = &lat
	}
	if lng, ok := envFloat("SHIELDKIT_HOME_LNG"); ok {
		c.Location.Lng = &lng
	}
}

func envFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ResolveDatabasePath returns the database path, anchoring relative paths at home.
func (c *Config) ResolveDatabasePath(home string) string {
	p := c.Storage.DatabasePath
	if p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}

// GetGeocodingTimeout returns the geocoder timeout as a duration.
func (c *Config) GetGeocodingTimeout() time.Duration {
	d, err := time.ParseDuration(c.Geocoding.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetPlacesTimeout returns the places API timeout as a duration.
func (c *Config) GetPlacesTimeout() time.Duration {
	d, err := time.ParseDuration(c.Places.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// HasPlacesKey reports whether clinic search can reach the places API.
func (c *Config) HasPlacesKey() bool {
	return c.Places.APIKey != ""
}

// HasHomeLocation reports whether both coordinates are pinned.
func (c *Config) HasHomeLocation() bool {
	return c.Location.Lat != nil && c.Location.Lng != nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validDriver := false
	for _, d := range ValidDrivers {
		if c.Storage.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, ValidDrivers)
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path must not be empty")
	}
	if c.Places.DefaultRadiusKm <= 0 {
		return fmt.Errorf("places.default_radius_km must be positive, got %v", c.Places.DefaultRadiusKm)
	}
	if lat := c.Location.Lat; lat != nil && (*lat < -90 || *lat > 90) {
		return fmt.Errorf("location.lat out of range: %v", *lat)
	}
	if lng := c.Location.Lng; lng != nil && (*lng < -180 || *lng > 180) {
		return fmt.Errorf("location.lng out of range: %v", *lng)
	}
	return nil
}
