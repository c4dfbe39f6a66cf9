// Package common provides shared utilities for Tally
package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Tally
type Config struct {
	Environment     string        `toml:"environment"`
	DisplayCurrency string        `toml:"display_currency"` // currency all summaries and net-worth figures are reported in
	Storage         StorageConfig `toml:"storage"`
	Logging         LoggingConfig `toml:"logging"`
}

// StorageConfig selects and configures the store backend.
type StorageConfig struct {
	Driver    string `toml:"driver"` // "memory" (default) or "surrealdb"
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:     "development",
		DisplayCurrency: "USD",
		Storage: StorageConfig{
			Driver:    "memory",
			Address:   "ws://localhost:8000",
			Namespace: "tally",
			Database:  "tally",
			Username:  "root",
			Password:  "root",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateDisplayCurrency(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TALLY_ENV"); env != "" {
		config.Environment = env
	}

	if cur := os.Getenv("TALLY_DISPLAY_CURRENCY"); cur != "" {
		config.DisplayCurrency = cur
	}

	if driver := os.Getenv("TALLY_STORAGE_DRIVER"); driver != "" {
		config.Storage.Driver = driver
	}

	if addr := os.Getenv("TALLY_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if user := os.Getenv("TALLY_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}

	if pass := os.Getenv("TALLY_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}

	if level := os.Getenv("TALLY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// validateDisplayCurrency normalizes the display currency to an upper-case
// ISO code and falls back to USD when the code is unknown.
func validateDisplayCurrency(config *Config) {
	code := strings.ToUpper(strings.TrimSpace(config.DisplayCurrency))
	if money.GetCurrency(code) == nil {
		code = "USD"
	}
	config.DisplayCurrency = code
}
