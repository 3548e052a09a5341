// Package config handles loading and saving the partdex YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config is the persisted partdex configuration
type Config struct {
	ClientID     string  `yaml:"client_id"`
	ClientSecret string  `yaml:"client_secret"`
	Sandbox      bool    `yaml:"sandbox"`
	DailyLimit   int     `yaml:"daily_limit"`
	Locale       Locale  `yaml:"locale"`
	Logging      Logging `yaml:"logging"`
}

// Locale selects the DigiKey site, language and currency sent with searches
type Locale struct {
	Site     string `yaml:"site"`
	Language string `yaml:"language"`
	Currency string `yaml:"currency"`
}

// Logging holds log output settings
type Logging struct {
	Level string `yaml:"level"`
}

// Default returns the default partdex configuration
func Default() *Config {
	return &Config{
		Sandbox:    false,
		DailyLimit: 1000,
		Locale: Locale{
			Site:     "US",
			Language: "en",
			Currency: "USD",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads the config file at path. A missing file yields the defaults so
// the tool works before credentials are configured.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes config from YAML bytes, filling unset fields from defaults
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Save writes the config to path as YAML
func (c *Config) Save(fs afero.Fs, path string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate performs config validation
func (c *Config) Validate() error {
	if c.DailyLimit < 0 {
		return errors.New("daily_limit cannot be negative")
	}
	return nil
}

// Configured reports whether API credentials are present
func (c *Config) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// MaskedSecret returns the client secret with all but the last four
// characters replaced, for display purposes
func (c *Config) MaskedSecret() string {
	if c.ClientSecret == "" {
		return ""
	}
	const visible = 4
	if len(c.ClientSecret) <= visible {
		return strings.Repeat("*", len(c.ClientSecret))
	}
	return strings.Repeat("*", len(c.ClientSecret)-visible) + c.ClientSecret[len(c.ClientSecret)-visible:]
}
