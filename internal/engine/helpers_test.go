package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// plainsMap returns a map of the given radius covered in Plains.
func plainsMap(radius int) *world.Map {
	m := world.NewMap(radius)
	for _, c := range world.HexesInRange(world.HexCoord{}, radius) {
		m.Set(&world.Hex{Coord: c, Terrain: world.TerrainPlains})
	}
	return m
}

func hex(q, r int) world.HexCoord { return world.HexCoord{Q: q, R: r} }

// testTribe makes a well-fed tribe with one home garrison.
func testTribe(id string, home world.HexCoord, troops, weapons int) *social.Tribe {
	tr := social.NewTribe(id, "Tribe "+strings.ToUpper(id), home, troops, weapons)
	tr.GlobalResources.Food = 1000
	tr.GlobalResources.Morale = 60
	return tr
}

func newState(m *world.Map, tribes ...*social.Tribe) *GameState {
	return &GameState{Turn: 1, Map: m, Tribes: tribes}
}

// testProcessor uses the given random source and sequential ids.
func testProcessor(src entropy.Source) *Processor {
	n := 0
	p := NewProcessor(nil, src)
	p.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return p
}

func order(kind social.ActionType, d social.ActionData) social.GameAction {
	return social.GameAction{ActionType: kind, ActionData: d}
}

func process(t *testing.T, p *Processor, s *GameState) *GameState {
	t.Helper()
	next, err := p.ProcessTurn(context.Background(), s)
	if err != nil {
		t.Fatalf("process turn %d: %v", s.Turn, err)
	}
	return next
}

// hasResult reports whether any of the tribe's results contains substr.
func hasResult(tr *social.Tribe, substr string) bool {
	for _, r := range tr.LastTurnResults {
		if strings.Contains(r.Result, substr) {
			return true
		}
	}
	return false
}

func dumpResults(tr *social.Tribe) string {
	var b strings.Builder
	for _, r := range tr.LastTurnResults {
		fmt.Fprintf(&b, "\n  [%s] %s", r.ActionType, r.Result)
	}
	return b.String()
}
