// Package api serves the game over HTTP.
// GET endpoints are public observation; orders are posted per tribe and
// rate limited; turn and snapshot control need the admin bearer token.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Platopotato/TRIBES-sub000/internal/engine"
	"github.com/Platopotato/TRIBES-sub000/internal/persistence"
	"github.com/Platopotato/TRIBES-sub000/internal/protocol"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

const maxBodyBytes = 64 << 10

// Server serves a running game.
type Server struct {
	Runner      *engine.Runner
	DB          *persistence.DB // optional
	SnapshotDir string          // empty disables file snapshots
	Port        int
	AdminKey    string // bearer token for admin endpoints; empty disables them
	Limiter     *RateLimiter
	Hub         *Hub

	srv *http.Server
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	if s.Limiter == nil {
		s.Limiter = NewRateLimiter(1, 5)
	}
	if s.Hub == nil {
		s.Hub = NewHub()
	}

	mux := http.NewServeMux()

	// Public observation.
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/tribes", s.handleTribes)
	mux.HandleFunc("GET /api/v1/tribe/{id}", s.handleTribe)
	mux.HandleFunc("GET /api/v1/journeys", s.handleJourneys)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /api/v1/map", s.handleMap)
	mux.Handle("GET /api/v1/stream", s.Hub)

	// Orders.
	mux.HandleFunc("POST /api/v1/tribe/{id}/actions", RateLimitMiddleware(s.Limiter, s.handleSubmit))

	// Admin.
	mux.HandleFunc("POST /api/v1/turn", s.adminOnly(s.handleTurn))
	mux.HandleFunc("POST /api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	return mux
}

// Start begins serving in a goroutine and prunes idle rate-limit entries
// until ctx ends.
func (s *Server) Start(ctx context.Context) {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.Limiter.Cleanup(now)
			}
		}
	}()
}

// Shutdown stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no TRIBES_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var pending []string
	var waiting int
	s.Runner.View(func(g *engine.GameState) {
		for _, t := range g.Tribes {
			if t.Eliminated || t.IsAI {
				continue
			}
			if !t.TurnSubmitted {
				pending = append(pending, t.ID)
			}
			waiting++
		}
	})
	writeJSON(w, map[string]any{
		"name":          "TRIBES",
		"stats":         s.Runner.Stats(),
		"awaiting":      pending,
		"human_players": waiting,
		"watchers":      s.Hub.Watchers(),
	})
}

type tribeSummary struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	PlayerName    string         `json:"player_name,omitempty"`
	Home          world.HexCoord `json:"home"`
	IsAI          bool           `json:"is_ai"`
	Eliminated    bool           `json:"eliminated"`
	TurnSubmitted bool           `json:"turn_submitted"`
	Troops        int            `json:"troops"`
	Weapons       int            `json:"weapons"`
	Garrisons     int            `json:"garrisons"`
	Techs         int            `json:"techs"`
	Score         int            `json:"score"`
}

func (s *Server) handleTribes(w http.ResponseWriter, r *http.Request) {
	var out []tribeSummary
	s.Runner.View(func(g *engine.GameState) {
		for _, t := range g.Tribes {
			troops, weapons, _ := t.Totals()
			out = append(out, tribeSummary{
				ID:            t.ID,
				Name:          t.Name,
				PlayerName:    t.PlayerName,
				Home:          t.Location,
				IsAI:          t.IsAI,
				Eliminated:    t.Eliminated,
				TurnSubmitted: t.TurnSubmitted,
				Troops:        troops,
				Weapons:       weapons,
				Garrisons:     t.ActiveGarrisons(),
				Techs:         len(t.CompletedTechs),
				Score:         social.Score(t),
			})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	writeJSON(w, out)
}

// handleTribe returns the full tribe record, including last turn's results.
func (s *Server) handleTribe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var raw []byte
	var err error
	s.Runner.View(func(g *engine.GameState) {
		if t := g.Tribe(id); t != nil {
			raw, err = json.Marshal(t)
		}
	})
	if err != nil {
		http.Error(w, "encode tribe", http.StatusInternalServerError)
		return
	}
	if raw == nil {
		http.Error(w, "tribe not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func (s *Server) handleJourneys(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("tribe")
	var raw []byte
	var err error
	s.Runner.View(func(g *engine.GameState) {
		out := make([]*engine.Journey, 0, len(g.Journeys))
		for _, j := range g.Journeys {
			if owner == "" || j.OwnerTribeID == owner {
				out = append(out, j)
			}
		}
		raw, err = json.Marshal(out)
	})
	if err != nil {
		http.Error(w, "encode journeys", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// handleHistory serves recent turn records, newest last. The store is used
// when present since the live state only carries what the engine keeps.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, 500)
	}

	if s.DB != nil {
		records, err := s.DB.History(limit)
		if err != nil {
			slog.Error("history query failed", "error", err)
			http.Error(w, "history unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, records)
		return
	}

	var records []social.TurnHistoryRecord
	s.Runner.View(func(g *engine.GameState) {
		start := max(len(g.History)-limit, 0)
		records = append(records, g.History[start:]...)
	})
	writeJSON(w, records)
}

type hexView struct {
	Coord   world.HexCoord `json:"coord"`
	Terrain world.Terrain  `json:"terrain"`
	POI     *world.POI     `json:"poi,omitempty"`
}

// handleMap lists hexes in key order. With ?tribe=id only that tribe's
// explored hexes are returned.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	viewer := r.URL.Query().Get("tribe")
	var out []hexView
	found := true
	s.Runner.View(func(g *engine.GameState) {
		var explored map[world.HexCoord]bool
		if viewer != "" {
			t := g.Tribe(viewer)
			if t == nil {
				found = false
				return
			}
			explored = t.ExploredHexes
		}
		for c, h := range g.Map.Hexes {
			if explored != nil && !explored[c] {
				continue
			}
			v := hexView{Coord: c, Terrain: h.Terrain}
			if h.POI != nil {
				poi := *h.POI
				v.POI = &poi
			}
			out = append(out, v)
		}
	})
	if !found {
		http.Error(w, "tribe not found", http.StatusNotFound)
		return
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Coord.Key() < out[j].Coord.Key() })
	writeJSON(w, out)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	actions, err := protocol.DecodeActions(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.Runner.Submit(id, actions); err != nil {
		switch {
		case errors.Is(err, engine.ErrUnknownTribe):
			http.Error(w, "tribe not found", http.StatusNotFound)
		case errors.Is(err, engine.ErrTribeEliminated):
			http.Error(w, "tribe eliminated", http.StatusConflict)
		default:
			slog.Error("submit failed", "tribe", id, "error", err)
			http.Error(w, "submit failed", http.StatusInternalServerError)
		}
		return
	}
	slog.Info("orders submitted", "tribe", id, "actions", len(actions))
	writeJSON(w, map[string]any{
		"tribe":   id,
		"queued":  len(actions),
		"message": "orders queued",
	})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Runner.Advance(r.Context())
	if err != nil {
		slog.Error("turn processing failed", "error", err)
		http.Error(w, "turn processing failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil && s.SnapshotDir == "" {
		http.Error(w, "no storage configured", http.StatusServiceUnavailable)
		return
	}
	state, err := s.Runner.Snapshot()
	if err != nil {
		slog.Error("snapshot copy failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"turn": state.Turn}
	if s.DB != nil {
		if err := s.DB.SaveGameState(state); err != nil {
			slog.Error("snapshot save failed", "error", err)
			http.Error(w, "snapshot failed", http.StatusInternalServerError)
			return
		}
		resp["database"] = true
	}
	if s.SnapshotDir != "" {
		path, err := persistence.SaveSnapshot(s.SnapshotDir, state)
		if err != nil {
			slog.Error("snapshot file failed", "error", err)
			http.Error(w, "snapshot failed", http.StatusInternalServerError)
			return
		}
		resp["file"] = path
	}
	resp["message"] = "snapshot saved"
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
