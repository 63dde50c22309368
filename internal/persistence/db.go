// Package persistence provides SQLite-based game state storage and
// compressed snapshot files.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Platopotato/TRIBES-sub000/internal/engine"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// ErrNoGameState is returned by LoadGameState on an empty database.
var ErrNoGameState = errors.New("persistence: no saved game state")

// DB wraps a SQLite connection for game state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; SQLite serializes anyway.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tribes (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		is_ai INTEGER NOT NULL,
		eliminated INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journeys (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		owner_tribe_id TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		arrival_turn INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS proposals (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		from_tribe_id TEXT NOT NULL,
		to_tribe_id TEXT NOT NULL,
		expires_on_turn INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turn_history (
		turn INTEGER PRIMARY KEY,
		records_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journeys_owner ON journeys(owner_tribe_id);
	CREATE INDEX IF NOT EXISTS idx_proposals_to ON proposals(to_tribe_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Proposal kinds stored in the proposals table.
const (
	kindDiplomatic = "diplomatic"
	kindExchange   = "exchange"
)

type tribeRow struct {
	ID    string `db:"id"`
	State string `db:"state_json"`
}

type journeyRow struct {
	ID    string `db:"id"`
	State string `db:"state_json"`
}

type proposalRow struct {
	ID    string `db:"id"`
	Kind  string `db:"kind"`
	State string `db:"state_json"`
}

type historyRow struct {
	Turn    int    `db:"turn"`
	Records string `db:"records_json"`
}

// SaveGameState replaces the stored game with s in one transaction.
// History rows are upserted so earlier turns are kept.
func (db *DB) SaveGameState(s *engine.GameState) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"tribes", "journeys", "proposals"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, t := range s.Tribes {
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode tribe %s: %w", t.ID, err)
		}
		_, err = tx.Exec(`INSERT INTO tribes (id, seq, name, is_ai, eliminated, state_json)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Name, t.IsAI, t.Eliminated, string(raw))
		if err != nil {
			return fmt.Errorf("insert tribe %s: %w", t.ID, err)
		}
	}

	for i, j := range s.Journeys {
		raw, err := json.Marshal(j)
		if err != nil {
			return fmt.Errorf("encode journey %s: %w", j.ID, err)
		}
		_, err = tx.Exec(`INSERT INTO journeys (id, seq, owner_tribe_id, type, status, arrival_turn, state_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			j.ID, i, j.OwnerTribeID, j.Type, j.Status, j.ArrivalTurn, string(raw))
		if err != nil {
			return fmt.Errorf("insert journey %s: %w", j.ID, err)
		}
	}

	seq := 0
	insertProposal := func(id, kind, from, to string, expires int, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode proposal %s: %w", id, err)
		}
		_, err = tx.Exec(`INSERT INTO proposals (id, seq, kind, from_tribe_id, to_tribe_id, expires_on_turn, state_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, seq, kind, from, to, expires, string(raw))
		seq++
		if err != nil {
			return fmt.Errorf("insert proposal %s: %w", id, err)
		}
		return nil
	}
	for _, p := range s.DiplomaticProposals {
		if err := insertProposal(p.ID, kindDiplomatic, p.FromTribeID, p.ToTribeID, p.ExpiresOnTurn, p); err != nil {
			return err
		}
	}
	for _, p := range s.PrisonerExchangeProposals {
		if err := insertProposal(p.ID, kindExchange, p.FromTribeID, p.ToTribeID, p.ExpiresOnTurn, p); err != nil {
			return err
		}
	}

	for _, h := range s.History {
		raw, err := json.Marshal(h.TribeRecords)
		if err != nil {
			return fmt.Errorf("encode history %d: %w", h.Turn, err)
		}
		if _, err := tx.Exec("INSERT OR REPLACE INTO turn_history (turn, records_json) VALUES (?, ?)", h.Turn, string(raw)); err != nil {
			return fmt.Errorf("insert history %d: %w", h.Turn, err)
		}
	}

	mapJSON, err := json.Marshal(s.Map)
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	meta := map[string]string{
		"turn": strconv.Itoa(s.Turn),
		"map":  string(mapJSON),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("game state saved", "turn", s.Turn, "tribes", len(s.Tribes), "journeys", len(s.Journeys))
	return nil
}

// HasGameState reports whether a game has been saved.
func (db *DB) HasGameState() bool {
	_, err := db.GetMeta("turn")
	return err == nil
}

// LoadGameState reads the stored game. It returns ErrNoGameState when
// nothing has been saved.
func (db *DB) LoadGameState() (*engine.GameState, error) {
	turnStr, err := db.GetMeta("turn")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoGameState
	}
	if err != nil {
		return nil, fmt.Errorf("load turn: %w", err)
	}
	s := &engine.GameState{}
	if s.Turn, err = strconv.Atoi(turnStr); err != nil {
		return nil, fmt.Errorf("parse turn %q: %w", turnStr, err)
	}

	mapJSON, err := db.GetMeta("map")
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	s.Map = &world.Map{}
	if err := json.Unmarshal([]byte(mapJSON), s.Map); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}

	var tribes []tribeRow
	if err := db.conn.Select(&tribes, "SELECT id, state_json FROM tribes ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("load tribes: %w", err)
	}
	for _, r := range tribes {
		t := &social.Tribe{}
		if err := json.Unmarshal([]byte(r.State), t); err != nil {
			return nil, fmt.Errorf("decode tribe %s: %w", r.ID, err)
		}
		t.EnsureMaps()
		s.Tribes = append(s.Tribes, t)
	}

	var journeys []journeyRow
	if err := db.conn.Select(&journeys, "SELECT id, state_json FROM journeys ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("load journeys: %w", err)
	}
	for _, r := range journeys {
		j := &engine.Journey{}
		if err := json.Unmarshal([]byte(r.State), j); err != nil {
			return nil, fmt.Errorf("decode journey %s: %w", r.ID, err)
		}
		s.Journeys = append(s.Journeys, j)
	}

	var proposals []proposalRow
	if err := db.conn.Select(&proposals, "SELECT id, kind, state_json FROM proposals ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("load proposals: %w", err)
	}
	for _, r := range proposals {
		switch r.Kind {
		case kindDiplomatic:
			p := &social.DiplomaticProposal{}
			if err := json.Unmarshal([]byte(r.State), p); err != nil {
				return nil, fmt.Errorf("decode proposal %s: %w", r.ID, err)
			}
			s.DiplomaticProposals = append(s.DiplomaticProposals, p)
		case kindExchange:
			p := &social.PrisonerExchangeProposal{}
			if err := json.Unmarshal([]byte(r.State), p); err != nil {
				return nil, fmt.Errorf("decode exchange %s: %w", r.ID, err)
			}
			s.PrisonerExchangeProposals = append(s.PrisonerExchangeProposals, p)
		default:
			slog.Warn("skipping proposal of unknown kind", "id", r.ID, "kind", r.Kind)
		}
	}

	if s.History, err = db.History(0); err != nil {
		return nil, err
	}
	return s, nil
}

// History returns turn records oldest first. A positive limit keeps only
// the most recent entries.
func (db *DB) History(limit int) ([]social.TurnHistoryRecord, error) {
	var rows []historyRow
	var err error
	if limit > 0 {
		err = db.conn.Select(&rows,
			"SELECT turn, records_json FROM (SELECT * FROM turn_history ORDER BY turn DESC LIMIT ?) ORDER BY turn", limit)
	} else {
		err = db.conn.Select(&rows, "SELECT turn, records_json FROM turn_history ORDER BY turn")
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	out := make([]social.TurnHistoryRecord, 0, len(rows))
	for _, r := range rows {
		rec := social.TurnHistoryRecord{Turn: r.Turn}
		if err := json.Unmarshal([]byte(r.Records), &rec.TribeRecords); err != nil {
			return nil, fmt.Errorf("decode history %d: %w", r.Turn, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
