package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeConfig writes a config.yml under a fresh XDG_CONFIG_HOME.
func writeConfig(t *testing.T, content string) {
	t.Helper()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
}

func TestLoad_NotFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", "/cache")
	t.Setenv(EnvRetractionDB, "")
	t.Setenv(EnvCachePath, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetractionDB != "" {
		t.Errorf("RetractionDB = %q, want empty", cfg.RetractionDB)
	}
	if cfg.CachePath != "/cache/ash/retractions.db" {
		t.Errorf("CachePath = %q, want default", cfg.CachePath)
	}
}

func TestLoad_Valid(t *testing.T) {
	writeConfig(t, "retraction_db: ~/data/rw.csv\ncache_path: /tmp/rw.db\n")
	t.Setenv(EnvRetractionDB, "")
	t.Setenv(EnvCachePath, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "data/rw.csv"); cfg.RetractionDB != want {
		t.Errorf("RetractionDB = %q, want %q", cfg.RetractionDB, want)
	}
	if cfg.CachePath != "/tmp/rw.db" {
		t.Errorf("CachePath = %q, want /tmp/rw.db", cfg.CachePath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	writeConfig(t, "retraction_db: /from/config.csv\n")
	t.Setenv(EnvRetractionDB, "/from/env.csv")
	t.Setenv(EnvCachePath, "/from/env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetractionDB != "/from/env.csv" {
		t.Errorf("RetractionDB = %q, want /from/env.csv", cfg.RetractionDB)
	}
	if cfg.CachePath != "/from/env.db" {
		t.Errorf("CachePath = %q, want /from/env.db", cfg.CachePath)
	}

	flagged := cfg.Override("/from/flag.csv", "")
	if flagged.RetractionDB != "/from/flag.csv" {
		t.Errorf("Override() RetractionDB = %q, want /from/flag.csv", flagged.RetractionDB)
	}
	if flagged.CachePath != "/from/env.db" {
		t.Errorf("Override() CachePath = %q, want unchanged", flagged.CachePath)
	}
	if cfg.RetractionDB != "/from/env.csv" {
		t.Error("Override() modified the receiver")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	writeConfig(t, "retraction_db: [unterminated\n")

	if _, err := Load(); err == nil {
		t.Error("Load() should return error for invalid YAML")
	}
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-env" {
		t.Errorf("GetConfigValue() = %q, want from-env", got)
	}

	t.Setenv("TEST_CONFIG_KEY", "")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-config" {
		t.Errorf("GetConfigValue() = %q, want from-config", got)
	}
}

func TestValidateRetractionDB(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.ValidateRetractionDB(); !errors.Is(err, ErrRetractionDBNotConfigured) {
		t.Errorf("ValidateRetractionDB() error = %v, want ErrRetractionDBNotConfigured", err)
	}

	cfg.RetractionDB = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := cfg.ValidateRetractionDB(); err == nil {
		t.Error("ValidateRetractionDB() should fail for missing file")
	}

	path := filepath.Join(t.TempDir(), "rw.csv")
	if err := os.WriteFile(path, []byte("OriginalPaperDOI\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.RetractionDB = path
	got, err := cfg.ValidateRetractionDB()
	if err != nil {
		t.Fatalf("ValidateRetractionDB() error = %v", err)
	}
	if got != path {
		t.Errorf("ValidateRetractionDB() = %q, want %q", got, path)
	}
}
