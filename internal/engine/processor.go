package engine

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// PathFunc finds a route and its entry cost between two hexes.
type PathFunc func(from, to world.HexCoord, m *world.Map) (world.Path, bool)

// ActionGenerator produces actions for a computer-controlled tribe.
type ActionGenerator interface {
	GenerateActions(t *social.Tribe, all []*social.Tribe, m *world.Map, turn int) []social.GameAction
}

// Processor resolves turns. The zero value is usable; nil fields fall
// back to defaults.
type Processor struct {
	Catalog  *catalog.Catalog
	FindPath PathFunc
	AI       ActionGenerator
	Rand     entropy.Source
	NewID    func() string
	Logger   *slog.Logger
}

// NewProcessor returns a Processor with the given catalog and ambient
// random source.
func NewProcessor(cat *catalog.Catalog, src entropy.Source) *Processor {
	return &Processor{Catalog: cat, Rand: src}
}

func (p *Processor) defaults() {
	if p.Catalog == nil {
		p.Catalog = catalog.Default()
	}
	if p.FindPath == nil {
		p.FindPath = world.FindPath
	}
	if p.Rand == nil {
		p.Rand = entropy.NewSource(0)
	}
	if p.NewID == nil {
		p.NewID = uuid.NewString
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
}

// turn is the working set for one ProcessTurn call. It owns the cloned
// state for the duration of the pass.
type turn struct {
	*Processor
	state    *GameState
	number   int // turn being processed
	log      *slog.Logger
	spawned  []*Journey // journeys created during the journey phase
	inFlight bool       // journey phase is iterating state.Journeys
}

func (t *turn) tribe(id string) *social.Tribe {
	return t.state.Tribe(id)
}

func (t *turn) effects(tr *social.Tribe) CombinedEffects {
	return AggregateEffects(tr, t.Catalog)
}

// addJourney queues a new journey. During the journey phase new journeys
// join after the pass so they do not advance the turn they are born.
func (t *turn) addJourney(j *Journey) {
	if j.ID == "" {
		j.ID = t.NewID()
	}
	if t.inFlight {
		t.spawned = append(t.spawned, j)
		return
	}
	t.state.Journeys = append(t.state.Journeys, j)
}

// guard runs one handler, converting a panic into a failure narrative so
// one bad action never aborts the turn.
func (t *turn) guard(tr *social.Tribe, what string, fn func() string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("handler panicked",
				"tribe", tr.ID,
				"handler", what,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			result = fmt.Sprintf("%s failed: the orders were lost in the chaos.", what)
		}
	}()
	return fn()
}

// blockingOutpost returns the first hex on path (after the start) holding
// an outpost whose owner is not allied with mover. The destination is
// exempt when allowDest is set.
func (t *turn) blockingOutpost(mover *social.Tribe, path []world.HexCoord, allowDest bool) (world.HexCoord, bool) {
	for i := 1; i < len(path); i++ {
		if allowDest && i == len(path)-1 {
			break
		}
		owner := t.state.Map.POIAt(path[i]).OutpostOwner()
		if owner == "" || owner == mover.ID {
			continue
		}
		other := t.tribe(owner)
		if other == nil || social.IsAllied(mover, other) {
			continue
		}
		return path[i], true
	}
	return world.HexCoord{}, false
}

// hostileAt reports whether any tribe at war with tr holds coord.
func (t *turn) hostileAt(tr *social.Tribe, coord world.HexCoord) bool {
	for _, o := range t.state.GarrisonsAt(coord) {
		if o.ID != tr.ID && hostile(tr, o) {
			return true
		}
	}
	return false
}

// hostile is true for tribes at war and not allied.
func hostile(a, b *social.Tribe) bool {
	return social.IsAtWar(a, b) && !social.IsAllied(a, b)
}

// terrainAt reads the terrain of a hex; missing hexes read as Water.
func (t *turn) terrainAt(c world.HexCoord) world.Terrain {
	return t.state.Map.TerrainAt(c)
}

// explore marks the hexes within radius of center as explored.
func explore(tr *social.Tribe, center world.HexCoord, radius int) {
	for _, c := range world.HexesInRange(center, radius) {
		tr.ExploredHexes[c] = true
	}
}
