// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the chantier client.
type Config struct {
	// APIBaseURL is the backend root, e.g. https://erp.example.com/api.
	APIBaseURL string `env:"CHANTIER_API_URL" envDefault:"http://localhost:8000/api"`

	// HTTPTimeout bounds each HTTP exchange. Zero leaves the client's
	// default (no timeout) in place.
	HTTPTimeout time.Duration `env:"CHANTIER_HTTP_TIMEOUT" envDefault:"0s"`

	// SessionDB is the SQLite file holding persisted credentials.
	SessionDB string `env:"CHANTIER_SESSION_DB"`

	// SessionRedisURL selects the Redis session backend when set.
	SessionRedisURL string `env:"CHANTIER_SESSION_REDIS_URL"`

	// SessionProfile namespaces persisted credentials so several backends
	// can be used side by side.
	SessionProfile string `env:"CHANTIER_PROFILE" envDefault:"default"`

	// RefreshCooldown is the minimum delay between two combined refreshes.
	RefreshCooldown time.Duration `env:"CHANTIER_REFRESH_COOLDOWN" envDefault:"3s"`

	LogLevel    string `env:"CHANTIER_LOG_LEVEL" envDefault:"warn"`
	LogRequests bool   `env:"CHANTIER_LOG_REQUESTS" envDefault:"false"`
}

// DefaultConfig returns a Config with defaults applied and no environment
// lookups.
func DefaultConfig() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset values.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.RefreshCooldown < 0 {
		return Config{}, fmt.Errorf("CHANTIER_REFRESH_COOLDOWN must not be negative")
	}
	if cfg.SessionDB == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.SessionDB = filepath.Join(home, ".chantier", "chantier.db")
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level; unknown values mean warn.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
