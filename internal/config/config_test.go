package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"institution": "Northeastern University",
		"confidence_threshold": 0.7,
		"search_backend": "html",
		"min_request_interval_ms": 1500,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Northeastern University", cfg.Institution)
	assert.Equal(t, 0.7, cfg.ConfidenceThreshold)
	assert.Equal(t, "html", cfg.SearchBackend)
	assert.Equal(t, 1500, cfg.MinRequestIntervalMS)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	_, err := LoadConfig(tmpFile)
	assert.ErrorContains(t, err, "failed to parse config JSON")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty config is valid", Config{}, ""},
		{"defaults are valid", DefaultConfig(), ""},
		{"threshold above one", Config{ConfidenceThreshold: 1.5}, "confidence_threshold"},
		{"negative threshold", Config{ConfidenceThreshold: -0.2}, "confidence_threshold"},
		{"unknown backend", Config{SearchBackend: "duckduckgo"}, "search_backend"},
		{"negative interval", Config{MinRequestIntervalMS: -1}, "min_request_interval_ms"},
		{"zero retry attempts rejected", Config{MaxRetryAttempts: -3}, "max_retry_attempts"},
		{
			"cse without credentials",
			Config{SearchBackend: "cse"},
			"requires 'search_api_key'",
		},
		{
			"cse with credentials",
			Config{SearchBackend: "cse", SearchAPIKey: "k", SearchEngineID: "e"},
			"",
		},
		{"negative trait weight", Config{TraitWeights: map[string]float64{"technical": -1}}, "trait_weights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestValidate_RosterMustExist(t *testing.T) {
	cfg := Config{Roster: filepath.Join(t.TempDir(), "absent.json")}
	assert.ErrorContains(t, cfg.Validate(), "roster file not found")

	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entries":[]}`), 0644))
	cfg = Config{Roster: path}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	fileCfg := Config{
		Institution:         "Northeastern University",
		ConfidenceThreshold: 0.8,
	}

	merged := fileCfg.MergeWithDefaults(DefaultConfig())

	// Explicit values survive the merge.
	assert.Equal(t, "Northeastern University", merged.Institution)
	assert.Equal(t, 0.8, merged.ConfidenceThreshold)

	// Unset values come from defaults.
	assert.Equal(t, "html", merged.SearchBackend)
	assert.Equal(t, 1000, merged.MinRequestIntervalMS)
	assert.Equal(t, 30000, merged.MaxBackoffMS)
	assert.Equal(t, 3, merged.MaxRetryAttempts)
	assert.Equal(t, 4, merged.Concurrency)
}

func TestMergeWithDefaults_TraitWeights(t *testing.T) {
	defaults := Config{TraitWeights: map[string]float64{"technical": 0.5}}

	merged := (&Config{}).MergeWithDefaults(defaults)
	assert.Equal(t, defaults.TraitWeights, merged.TraitWeights)

	explicit := Config{TraitWeights: map[string]float64{"extraversion": 1}}
	merged = explicit.MergeWithDefaults(defaults)
	assert.Equal(t, explicit.TraitWeights, merged.TraitWeights)
}
