package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.State.Backend != DefaultBackend {
		t.Errorf("backend = %q", cfg.State.Backend)
	}
	if cfg.State.Path == "" {
		t.Error("state path should get a default")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestMediaURLDerivedFromBaseURL(t *testing.T) {
	cfg := Config{}
	cfg.API.BaseURL = "https://shop.example.com/api"
	cfg.SetDefaults()

	if cfg.API.MediaURL != "https://shop.example.com" {
		t.Errorf("media url = %q, want the base with /api stripped", cfg.API.MediaURL)
	}

	// Explicit media URL wins.
	cfg2 := Config{}
	cfg2.API.BaseURL = "https://shop.example.com/api"
	cfg2.API.MediaURL = "https://cdn.example.com"
	cfg2.SetDefaults()
	if cfg2.API.MediaURL != "https://cdn.example.com" {
		t.Errorf("explicit media url overridden: %q", cfg2.API.MediaURL)
	}
}

func TestSQLiteBackendGetsDatabasePath(t *testing.T) {
	cfg := Config{}
	cfg.State.Backend = "sqlite"
	cfg.SetDefaults()
	if !strings.HasSuffix(cfg.State.Path, "session.db") {
		t.Errorf("sqlite default path = %q", cfg.State.Path)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.API.BaseURL = "localhost:8000/api" }},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://shop.example.com" }},
		{"unknown backend", func(c *Config) { c.State.Backend = "redis" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.SetDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	cfg := Config{}
	cfg.API.BaseURL = "https://shop.example.com/api"
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestFindConfigFileRequiresYAMLExtension(t *testing.T) {
	dir := t.TempDir()
	if got := findConfigFileInPaths([]string{dir}); got != "" {
		t.Errorf("empty dir should yield no config, got %q", got)
	}

	// A file named exactly "meridian" (e.g. the binary) must not match.
	if err := os.WriteFile(filepath.Join(dir, "meridian"), []byte{}, 0600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFileInPaths([]string{dir}); got != "" {
		t.Errorf("extensionless file should not match, got %q", got)
	}

	want := filepath.Join(dir, "meridian.yaml")
	if err := os.WriteFile(want, []byte("log_level: debug\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFileInPaths([]string{dir}); got != want {
		t.Errorf("findConfigFileInPaths = %q, want %q", got, want)
	}
}
