// Command tribesd hosts a TRIBES game: it serves orders and observation
// over HTTP, persists every turn and optionally advances on a timer.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Platopotato/TRIBES-sub000/internal/ai"
	"github.com/Platopotato/TRIBES-sub000/internal/api"
	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/config"
	"github.com/Platopotato/TRIBES-sub000/internal/engine"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/persistence"
	"github.com/Platopotato/TRIBES-sub000/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	slog.Info("TRIBES turn server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "tribesd", cfg.OTelEndpoint)
	if err != nil {
		slog.Error("tracing setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("tracing shutdown", "error", err)
		}
	}()

	// ── Catalog ───────────────────────────────────────────────────────
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			slog.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("catalog ready", "technologies", len(cat.Technologies()), "chiefs", len(cat.Chiefs()))

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Generate Game ────────────────────────────────────────
	var state *engine.GameState
	if db.HasGameState() {
		if state, err = db.LoadGameState(); err != nil {
			slog.Error("failed to load game", "error", err)
			os.Exit(1)
		}
		slog.Info("game restored", "turn", state.Turn, "tribes", len(state.Tribes))
	} else {
		opts := engine.DefaultGameOptions()
		opts.Seed = cfg.Seed
		opts.Radius = cfg.Radius
		opts.Tribes = cfg.Tribes
		opts.AITribes = cfg.AITribes
		if state, err = engine.NewGame(opts, cat); err != nil {
			slog.Error("failed to create game", "error", err)
			os.Exit(1)
		}
		if err := db.SaveGameState(state); err != nil {
			slog.Error("initial save failed", "error", err)
			os.Exit(1)
		}
		slog.Info("new game created", "tribes", len(state.Tribes), "hexes", state.Map.HexCount())
	}

	// ── Engine ────────────────────────────────────────────────────────
	src := entropy.NewSource(entropy.CryptoSeed())
	proc := engine.NewProcessor(cat, src)
	proc.AI = ai.New(cat, src)
	proc.Logger = logger
	runner := engine.NewRunner(proc, state)

	hub := api.NewHub()
	runner.OnTurn(func(ctx context.Context, s *engine.GameState) {
		if err := db.SaveGameState(s); err != nil {
			slog.Error("turn save failed", "turn", s.Turn, "error", err)
		}
		if cfg.SnapshotDir != "" {
			if _, err := persistence.SaveSnapshot(cfg.SnapshotDir, s); err != nil {
				slog.Error("turn snapshot failed", "turn", s.Turn, "error", err)
			}
		}
	})
	runner.OnTurn(func(ctx context.Context, s *engine.GameState) {
		hub.Broadcast(api.TurnEvent{Type: "turn", Turn: s.Turn, Stats: s.Summarize()})
	})

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("TRIBES_ADMIN_KEY not set, admin endpoints disabled")
	}
	server := &api.Server{
		Runner:      runner,
		DB:          db,
		SnapshotDir: cfg.SnapshotDir,
		Port:        cfg.Port,
		AdminKey:    cfg.AdminKey,
		Limiter:     api.NewRateLimiter(cfg.SubmitRate, cfg.SubmitBurst),
		Hub:         hub,
	}
	server.Start(ctx)

	fmt.Printf("\nTRIBES is running: turn %d, %d tribes.\n", state.Turn, len(state.Tribes))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)

	// ── Run ───────────────────────────────────────────────────────────
	if cfg.TurnInterval > 0 {
		clock := &engine.Clock{Runner: runner, Interval: cfg.TurnInterval, Logger: logger}
		clock.Run(ctx)
	} else {
		fmt.Println("Turns advance via POST /api/v1/turn (Ctrl+C to stop)")
		<-ctx.Done()
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}

	final, err := runner.Snapshot()
	if err == nil {
		err = db.SaveGameState(final)
	}
	if err != nil {
		slog.Error("final save failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("Server stopped. Game saved.")
}
