package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level bankfeed.yaml configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Export ExportConfig `yaml:"export"`
}

// APIConfig points the client at an Open Banking environment.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	RedirectURI    string `yaml:"redirect_uri"`
	Country        string `yaml:"country"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ExportConfig controls the CSV output.
type ExportConfig struct {
	Output  string `yaml:"output"`
	LogRuns bool   `yaml:"log_runs"`
}

// Secrets holds credentials sourced from the environment rather than
// the config file.
type Secrets struct {
	ClientID string `env:"HANDELSBANKEN_CLIENT_ID"`
}

// Load reads a bankfeed.yaml file from disk.
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

// Default returns a Config pointed at the Handelsbanken sandbox.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://sandbox.handelsbanken.com/openbanking",
			RedirectURI:    "https://example.com",
			Country:        "GB",
			TimeoutSeconds: 30,
		},
		Export: ExportConfig{
			Output:  "transactions.csv",
			LogRuns: true,
		},
	}
}

// LoadSecrets reads credentials from the environment.
func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if s.ClientID == "" {
		return nil, errors.New("HANDELSBANKEN_CLIENT_ID is not set")
	}
	return &s, nil
}
