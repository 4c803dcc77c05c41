// Package config loads the configuration of the client: a TOML file, then
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/etnz/maney/api"
	"github.com/etnz/maney/devproxy"
)

// Config holds all configuration for maney
type Config struct {
	Currency string        `toml:"currency"` // display currency of estimated values
	Backend  BackendConfig `toml:"backend"`
	Session  SessionConfig `toml:"session"`
	Shell    ShellConfig   `toml:"shell"`
	Proxy    ProxyConfig   `toml:"proxy"`
	Logging  LoggingConfig `toml:"logging"`
}

// BackendConfig describes how to reach the backend.
type BackendConfig struct {
	URL        string `toml:"url"`         // absolute origin, or a prefix relative to origin
	Origin     string `toml:"origin"`      // origin of relative urls, usually the dev proxy
	Endpoints  string `toml:"endpoints"`   // "user" or "api"
	CSRFHeader string `toml:"csrf_header"` // X-CSRF-TOKEN or X-XSRF-TOKEN
	Timeout    string `toml:"timeout"`     // duration, empty for none
}

// GetTimeout parses and returns the timeout duration, 0 when unset or invalid.
func (c *BackendConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// SessionConfig holds where the session is kept.
type SessionConfig struct {
	Store string `toml:"store"` // "file", "sqlite" or "memory"
	Dir   string `toml:"dir"`
}

// ShellConfig holds the presentation settings.
type ShellConfig struct {
	Theme string `toml:"theme"`
	Width int    `toml:"width"`
}

// ProxyConfig holds the development proxy settings.
type ProxyConfig struct {
	Listen   string   `toml:"listen"`
	Target   string   `toml:"target"`
	Prefixes []string `toml:"prefixes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Currency: "EUR",
		Backend: BackendConfig{
			URL:        devproxy.DefaultTarget,
			Origin:     "http://localhost" + devproxy.DefaultListen,
			Endpoints:  "user",
			CSRFHeader: api.HeaderCSRF,
		},
		Session: SessionConfig{
			Store: "file",
			Dir:   DefaultStateDir(),
		},
		Shell: ShellConfig{
			Theme: "light",
			Width: 100,
		},
		Proxy: ProxyConfig{
			Listen:   devproxy.DefaultListen,
			Target:   devproxy.DefaultTarget,
			Prefixes: append([]string(nil), devproxy.DefaultPrefixes...),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// DefaultPath returns the configuration file read when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "maney", "config.toml")
}

// DefaultStateDir returns the directory holding the session.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "maney")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "maney")
	}
	return filepath.Join(home, ".local", "state", "maney")
}

// Load loads configuration from files with environment overrides.
// Missing files are skipped, later files override earlier ones.
func Load(paths ...string) (*Config, error) {
	config := Default()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	overrides := []struct {
		env   string
		field *string
	}{
		{"MANEY_BACKEND_URL", &config.Backend.URL},
		{"MANEY_CSRF_HEADER", &config.Backend.CSRFHeader},
		{"MANEY_ENDPOINTS", &config.Backend.Endpoints},
		{"MANEY_SESSION_STORE", &config.Session.Store},
		{"MANEY_STATE_DIR", &config.Session.Dir},
		{"MANEY_THEME", &config.Shell.Theme},
		{"MANEY_LOG_LEVEL", &config.Logging.Level},
		{"MANEY_PROXY_LISTEN", &config.Proxy.Listen},
		{"MANEY_PROXY_TARGET", &config.Proxy.Target},
		{"MANEY_CURRENCY", &config.Currency},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = v
		}
	}
	config.Currency = strings.ToUpper(config.Currency)
}

// API returns the configuration of the backend client.
func (c *Config) API() (api.Config, error) {
	endpoints, err := api.EndpointsByName(c.Backend.Endpoints)
	if err != nil {
		return api.Config{}, err
	}
	return api.Config{
		BaseURL:    c.Backend.URL,
		Origin:     c.Backend.Origin,
		Endpoints:  endpoints,
		CSRFHeader: c.Backend.CSRFHeader,
		Timeout:    c.Backend.GetTimeout(),
	}, nil
}

// DevProxy returns the configuration of the development proxy.
func (c *Config) DevProxy() devproxy.Config {
	return devproxy.Config{
		Listen:   c.Proxy.Listen,
		Target:   c.Proxy.Target,
		Prefixes: c.Proxy.Prefixes,
	}
}
