// Package config resolves where ash finds the retraction dataset and its
// query cache.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppDir is the directory name under XDG_CONFIG_HOME and XDG_CACHE_HOME.
	AppDir = "ash"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// CacheFile is the default SQLite cache file name.
	CacheFile = "retractions.db"

	// EnvRetractionDB overrides the retraction CSV path.
	EnvRetractionDB = "ASH_RETRACTION_DB"
	// EnvCachePath overrides the SQLite cache path.
	EnvCachePath = "ASH_CACHE_PATH"
)

// ConfigPath returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/ash/config.yml.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDir, ConfigFile)
}

// DefaultCachePath returns the default SQLite cache location.
// Respects XDG_CACHE_HOME, defaults to ~/.cache/ash/retractions.db.
func DefaultCachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, AppDir, CacheFile)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
