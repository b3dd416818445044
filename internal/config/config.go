// Package config provides configuration loading for Meridian.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the root configuration for the meridian client.
type Config struct {
	API      APIConfig   `mapstructure:"api"`
	State    StateConfig `mapstructure:"state"`
	LogLevel string      `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Trace    bool        `mapstructure:"trace"`
}

// APIConfig locates the storefront backend.
type APIConfig struct {
	// BaseURL is the API root, e.g. "https://shop.example.com/api".
	BaseURL string `mapstructure:"base_url" validate:"required,api_url"`
	// MediaURL serves product images. Defaults to BaseURL with the
	// trailing "/api" stripped.
	MediaURL string `mapstructure:"media_url" validate:"omitempty,api_url"`
	// Timeout bounds each request.
	Timeout time.Duration `mapstructure:"timeout"`
}

// StateConfig locates the persisted session.
type StateConfig struct {
	// Path is the session file (file backend) or database (sqlite
	// backend).
	Path string `mapstructure:"path"`
	// Backend selects the storage implementation.
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=file sqlite"`
}

// Default values applied by SetDefaults.
const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 10 * time.Second
	DefaultBackend = "file"
)

// SetDefaults fills optional fields that were left empty.
func (c *Config) SetDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.MediaURL == "" {
		c.API.MediaURL = strings.TrimSuffix(strings.TrimRight(c.API.BaseURL, "/"), "/api")
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.State.Backend == "" {
		c.State.Backend = DefaultBackend
	}
	if c.State.Path == "" {
		c.State.Path = defaultStatePath(c.State.Backend)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// defaultStatePath places the session under ~/.meridian, falling back
// to the working directory when the home directory is unknown.
func defaultStatePath(backend string) string {
	name := "session.json"
	if backend == "sqlite" {
		name = "session.db"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".meridian", name)
}
