package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/mifotohu/katyufigyelo/internal/severity"
)

// DefaultPath is where Load looks for the config file unless
// KATYUFIGYELO_CONFIG points elsewhere.
const DefaultPath = "katyufigyelo.yaml"

// Matching controls how location descriptions are compared for dedup.
type Matching struct {
	// CaseSensitive disables case folding of the dedup key. Off by default:
	// case-insensitive matching is strictly more duplicate-avoiding.
	CaseSensitive bool `yaml:"case_sensitive"`
}

// Config is the optional YAML application config. Every field has a working
// default, so a missing file is not an error.
type Config struct {
	Matching Matching       `yaml:"matching"`
	Severity severity.Scale `yaml:"severity"`
}

func defaults() *Config {
	return &Config{
		Matching: Matching{CaseSensitive: false},
		Severity: severity.DefaultScale(),
	}
}

// Load reads the YAML config from KATYUFIGYELO_CONFIG (falling back to
// DefaultPath), merging it over the compiled-in defaults.
func Load() (*Config, error) {
	path := os.Getenv("KATYUFIGYELO_CONFIG")
	if path == "" {
		path = DefaultPath
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Severity.Thresholds) == 0 && cfg.Severity.Top == "" {
		cfg.Severity = severity.DefaultScale()
	}
	if err := cfg.Severity.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays value-level environment overrides on top of the file.
func applyEnv(cfg *Config) {
	cfg.Matching.CaseSensitive = getEnvBool("MATCHING_CASE_SENSITIVE", cfg.Matching.CaseSensitive)
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
