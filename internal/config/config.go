// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Roster      string `json:"roster,omitempty"`      // Path to roster JSON export
	Institution string `json:"institution,omitempty"` // Default course context when an entry has none

	// Resolution
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty" validate:"omitempty,gt=0,lte=1"` // Minimum match score for promotion (0-1]
	SearchBackend       string  `json:"search_backend,omitempty" validate:"omitempty,oneof=html cse"`   // Candidate source: scraped results page or Custom Search API
	SearchAPIKey        string  `json:"search_api_key,omitempty"`                                       // Custom Search API key
	SearchEngineID      string  `json:"search_engine_id,omitempty"`                                     // Custom Search engine ID

	// Fetching
	MinRequestIntervalMS int  `json:"min_request_interval_ms,omitempty" validate:"omitempty,gte=0"` // Per-host pacing floor
	MaxBackoffMS         int  `json:"max_backoff_ms,omitempty" validate:"omitempty,gte=0"`          // Backoff ceiling
	MaxRetryAttempts     int  `json:"max_retry_attempts,omitempty" validate:"omitempty,gte=1"`      // Attempts per URL before giving up
	UseBrowser           bool `json:"use_browser,omitempty"`                                        // Headless browser fetcher for authenticated sessions

	// Scoring
	TraitWeights map[string]float64 `json:"trait_weights,omitempty" validate:"omitempty,dive,gte=0"` // Pairwise trait weighting for group fit

	// Behavior
	Concurrency int    `json:"concurrency,omitempty" validate:"omitempty,gte=1"` // Max roster entries in flight
	Verbose     bool   `json:"verbose,omitempty"`                                // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"`                           // PostgreSQL connection URL for run audit
}

var validate = newValidator()

// newValidator builds a validator that reports fields by their JSON names, so
// config errors point at what the user actually wrote in the file.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DefaultConfig returns the standard settings used when neither the config file
// nor a CLI flag provides a value.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold:  0.65,
		SearchBackend:        "html",
		MinRequestIntervalMS: 1000,
		MaxBackoffMS:         30000,
		MaxRetryAttempts:     3,
		Concurrency:          4,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields are
// not checked here; those are handled by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config error: field '%s' failed '%s' validation", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.SearchBackend == "cse" && (c.SearchAPIKey == "" || c.SearchEngineID == "") {
		return fmt.Errorf("config error: 'search_backend' cse requires 'search_api_key' and 'search_engine_id'")
	}

	if c.Roster != "" {
		if _, err := os.Stat(c.Roster); os.IsNotExist(err) {
			return fmt.Errorf("config error: roster file not found: %s", c.Roster)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Roster == "" {
		result.Roster = defaults.Roster
	}
	if result.Institution == "" {
		result.Institution = defaults.Institution
	}
	if result.SearchBackend == "" {
		result.SearchBackend = defaults.SearchBackend
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchEngineID == "" {
		result.SearchEngineID = defaults.SearchEngineID
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.ConfidenceThreshold == 0 {
		result.ConfidenceThreshold = defaults.ConfidenceThreshold
	}
	if result.MinRequestIntervalMS == 0 {
		result.MinRequestIntervalMS = defaults.MinRequestIntervalMS
	}
	if result.MaxBackoffMS == 0 {
		result.MaxBackoffMS = defaults.MaxBackoffMS
	}
	if result.MaxRetryAttempts == 0 {
		result.MaxRetryAttempts = defaults.MaxRetryAttempts
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if len(result.TraitWeights) == 0 {
		result.TraitWeights = defaults.TraitWeights
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
