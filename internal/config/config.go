// Package config loads deployment settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server and game-creation settings.
type Config struct {
	DBPath      string `env:"TRIBES_DB_PATH"      envDefault:"data/tribes.db"`
	SnapshotDir string `env:"TRIBES_SNAPSHOT_DIR" envDefault:"data/snapshots"`
	CatalogPath string `env:"TRIBES_CATALOG"` // empty uses the embedded catalog

	Port     int    `env:"TRIBES_PORT"      envDefault:"8080"`
	AdminKey string `env:"TRIBES_ADMIN_KEY"`

	Seed     int64 `env:"TRIBES_SEED"`
	Radius   int   `env:"TRIBES_MAP_RADIUS" envDefault:"12"`
	Tribes   int   `env:"TRIBES_TRIBES"     envDefault:"4"`
	AITribes int   `env:"TRIBES_AI_TRIBES"  envDefault:"3"`

	// TurnInterval auto-advances turns when positive.
	TurnInterval time.Duration `env:"TRIBES_TURN_INTERVAL"`

	// Action submissions per second per client, and burst.
	SubmitRate  float64 `env:"TRIBES_SUBMIT_RATE"  envDefault:"1"`
	SubmitBurst int     `env:"TRIBES_SUBMIT_BURST" envDefault:"5"`

	LogLevel     string `env:"TRIBES_LOG_LEVEL" envDefault:"info"`
	OTelEndpoint string `env:"TRIBES_OTEL_ENDPOINT"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch {
	case c.Tribes <= 0:
		return fmt.Errorf("config: TRIBES_TRIBES must be positive, got %d", c.Tribes)
	case c.AITribes < 0 || c.AITribes > c.Tribes:
		return fmt.Errorf("config: TRIBES_AI_TRIBES must be between 0 and %d, got %d", c.Tribes, c.AITribes)
	case c.Radius <= 0:
		return fmt.Errorf("config: TRIBES_MAP_RADIUS must be positive, got %d", c.Radius)
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("config: TRIBES_PORT out of range: %d", c.Port)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level; unknown names read as info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
