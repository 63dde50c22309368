package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// ErrNoRoom is returned when the map cannot fit every starting camp.
var ErrNoRoom = errors.New("engine: not enough room for starting camps")

// GameOptions configures a fresh game.
type GameOptions struct {
	Seed       int64   // 0 picks a random seed
	Radius     int     // map radius; 0 uses the generator default
	Tribes     int     // total tribes
	AITribes   int     // how many of them are computer-controlled
	POIDensity float64 // fraction of land hexes with a POI; 0 uses 0.08

	StartTroops  int
	StartWeapons int
}

// DefaultGameOptions is a small four-tribe game.
func DefaultGameOptions() GameOptions {
	return GameOptions{
		Tribes:       4,
		AITribes:     3,
		POIDensity:   0.08,
		StartTroops:  20,
		StartWeapons: 5,
	}
}

// NewGame generates a map, places starting camps and creates the tribes.
// Each chief in the roster is given to at most one tribe.
func NewGame(opts GameOptions, cat *catalog.Catalog) (*GameState, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	if opts.Tribes <= 0 {
		return nil, fmt.Errorf("new game: need at least one tribe, got %d", opts.Tribes)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}
	density := opts.POIDensity
	if density <= 0 {
		density = 0.08
	}

	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	if opts.Radius > 0 {
		cfg.Radius = opts.Radius
	}
	m := world.Generate(cfg)
	pois := world.PlacePOIs(m, seed, density)

	homes := world.PlaceHomes(m, opts.Tribes, 4)
	if len(homes) < opts.Tribes {
		return nil, fmt.Errorf("new game: placed %d of %d camps on radius %d: %w", len(homes), opts.Tribes, cfg.Radius, ErrNoRoom)
	}

	rng := rand.New(rand.NewSource(seed + 7))
	names := world.GenerateNames(rng, opts.Tribes)
	roster := cat.Chiefs()

	state := &GameState{Turn: 1, Map: m}
	for i, home := range homes {
		name := fmt.Sprintf("Tribe %d", i+1)
		if i < len(names) {
			name = names[i]
		}
		var chiefs []social.Chief
		if i < len(roster) {
			c := roster[i]
			chiefs = append(chiefs, social.Chief{Name: c.Name, Description: c.Description, Stats: c.Stats})
		}
		tr := social.NewTribe(fmt.Sprintf("tribe-%d", i+1), name, home, opts.StartTroops, opts.StartWeapons, chiefs...)
		tr.IsAI = i >= opts.Tribes-opts.AITribes
		tr.Stats = social.Stats{
			Strength:     4 + rng.Intn(4),
			Intelligence: 4 + rng.Intn(4),
			Leadership:   4 + rng.Intn(4),
			Charisma:     4 + rng.Intn(4),
		}
		explore(tr, home, 1)
		state.Tribes = append(state.Tribes, tr)
	}

	slog.Info("new game created",
		"seed", seed,
		"radius", cfg.Radius,
		"hexes", m.HexCount(),
		"pois", pois,
		"tribes", len(state.Tribes),
	)
	return state, nil
}
