package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 || cfg.Tribes != 4 || cfg.AITribes != 3 || cfg.Radius != 12 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.TurnInterval != 0 {
		t.Fatalf("expected no turn interval, got %v", cfg.TurnInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TRIBES_PORT", "9000")
	t.Setenv("TRIBES_TURN_INTERVAL", "90s")
	t.Setenv("TRIBES_SEED", "42")
	t.Setenv("TRIBES_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.TurnInterval != 90*time.Second {
		t.Fatalf("expected 90s interval, got %v", cfg.TurnInterval)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Seed)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.SlogLevel())
	}
}

func TestLoadRejectsBadCounts(t *testing.T) {
	t.Setenv("TRIBES_TRIBES", "2")
	t.Setenv("TRIBES_AI_TRIBES", "3")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for more AI tribes than tribes")
	}
}
