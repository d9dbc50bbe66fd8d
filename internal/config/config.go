package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ledgermatch/ledgermatch/internal/builder"
)

// Config represents the top-level ledgermatch.yaml configuration.
type Config struct {
	Tolerances TolerancesConfig       `yaml:"tolerances"`
	Detection  DetectionConfig        `yaml:"detection"`
	Matching   MatchingConfig         `yaml:"matching"`
	Storage    StorageConfig          `yaml:"storage"`
	Categories []builder.CategoryRule `yaml:"categories,omitempty"`
}

// TolerancesConfig defines the reconciliation tolerance window.
type TolerancesConfig struct {
	DateDays int     `yaml:"date_days"`
	Amount   float64 `yaml:"amount"`
}

// DetectionConfig controls column-type detection.
type DetectionConfig struct {
	HighConfidence float64 `yaml:"high_confidence"`
	NameHintBonus  float64 `yaml:"name_hint_bonus"`
	SampleSize     int     `yaml:"sample_size"`
	DayFirst       bool    `yaml:"day_first"` // DD/MM date order for ambiguous dates
}

// MatchingConfig controls match acceptance.
type MatchingConfig struct {
	AcceptThreshold float64 `yaml:"accept_threshold"`
}

// StorageConfig selects the query-layer backend.
type StorageConfig struct {
	Strategy string `yaml:"strategy"` // memory, sqlite, or hash
	Path     string `yaml:"path,omitempty"`
}

// Load reads a ledgermatch.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the reference defaults.
func Default() *Config {
	return &Config{
		Tolerances: TolerancesConfig{
			DateDays: 3,
			Amount:   0.01,
		},
		Detection: DetectionConfig{
			HighConfidence: 0.7,
			NameHintBonus:  0.3,
			SampleSize:     50,
		},
		Matching: MatchingConfig{
			AcceptThreshold: 50,
		},
		Storage: StorageConfig{
			Strategy: "memory",
		},
		Categories: builder.DefaultCategoryRules(),
	}
}
