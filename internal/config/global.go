package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/ash/config.yml.
type Config struct {
	RetractionDB string `yaml:"retraction_db,omitempty" json:"retraction_db,omitempty"`
	CachePath    string `yaml:"cache_path,omitempty" json:"cache_path,omitempty"`
}

// ErrRetractionDBNotConfigured is returned when no retraction CSV is set.
var ErrRetractionDBNotConfigured = errors.New("retraction database not configured")

// Load reads the config file and applies environment overrides.
// A missing file is not an error.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := ConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	cfg.RetractionDB = ExpandPath(GetConfigValue(EnvRetractionDB, cfg.RetractionDB))
	cfg.CachePath = ExpandPath(GetConfigValue(EnvCachePath, cfg.CachePath))
	if cfg.CachePath == "" {
		cfg.CachePath = DefaultCachePath()
	}
	return cfg, nil
}

// GetConfigValue returns the environment variable if set, else fallback.
func GetConfigValue(envKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

// Override returns a copy of c with non-empty flag values applied.
func (c *Config) Override(retractionDB, cachePath string) *Config {
	out := *c
	if retractionDB != "" {
		out.RetractionDB = ExpandPath(retractionDB)
	}
	if cachePath != "" {
		out.CachePath = ExpandPath(cachePath)
	}
	return &out
}

// ValidateRetractionDB checks that the retraction CSV is set and exists.
func (c *Config) ValidateRetractionDB() (string, error) {
	if c.RetractionDB == "" {
		return "", ErrRetractionDBNotConfigured
	}
	if _, err := os.Stat(c.RetractionDB); err != nil {
		return "", fmt.Errorf("retraction database does not exist: %s", c.RetractionDB)
	}
	return c.RetractionDB, nil
}

// HelpfulConfigMessage explains how to point ash at a retraction CSV.
func HelpfulConfigMessage() string {
	configPath := ConfigPath()
	return fmt.Sprintf(`No retraction database configured.

Download the Retraction Watch CSV, then either pass --db, set %s, or create %s:
  mkdir -p %s
  echo 'retraction_db: /path/to/retraction-watch.csv' > %s`,
		EnvRetractionDB,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
