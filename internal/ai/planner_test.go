package ai

import (
	"testing"

	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

func plains(radius int) *world.Map {
	m := world.NewMap(radius)
	for _, c := range world.HexesInRange(world.HexCoord{}, radius) {
		m.Set(&world.Hex{Coord: c, Terrain: world.TerrainPlains})
	}
	return m
}

func find(actions []social.GameAction, kind social.ActionType) (social.GameAction, bool) {
	for _, a := range actions {
		if a.ActionType == kind {
			return a, true
		}
	}
	return social.GameAction{}, false
}

func TestHungryTribeTightensAndForages(t *testing.T) {
	m := plains(4)
	food := world.HexCoord{Q: 2, R: 0}
	m.Get(food).POI = &world.POI{ID: "f", Type: world.POIFoodSource}

	tr := social.NewTribe("a", "Ash", world.HexCoord{}, 20, 0)
	tr.GlobalResources.Food = 10

	out := New(nil, entropy.Fixed()).GenerateActions(tr, []*social.Tribe{tr}, m, 2)
	r, ok := find(out, social.ActionSetRations)
	if !ok || r.ActionData.RationLevel != economy.RationHard {
		t.Fatalf("expected hard rations, got %+v", out)
	}
	s, ok := find(out, social.ActionScavenge)
	if !ok {
		t.Fatalf("expected a foraging party, got %+v", out)
	}
	if s.ActionData.Destination != food || s.ActionData.Troops != 5 || s.ActionData.ResourceType != economy.ResourceFood {
		t.Fatalf("expected 5 foragers to %v, got %+v", food, s.ActionData)
	}
	if _, ok := find(out, social.ActionRecruit); ok {
		t.Fatalf("expected no recruiting while hungry")
	}
}

func TestLowMoraleRests(t *testing.T) {
	tr := social.NewTribe("a", "Ash", world.HexCoord{}, 20, 0)
	tr.GlobalResources.Morale = 20

	out := New(nil, entropy.Fixed()).GenerateActions(tr, []*social.Tribe{tr}, plains(3), 2)
	r, ok := find(out, social.ActionRest)
	if !ok {
		t.Fatalf("expected rest, got %+v", out)
	}
	if r.ActionData.Location != tr.Location {
		t.Fatalf("expected rest at home, got %v", r.ActionData.Location)
	}
}

func TestAttacksWeakEnemyAtWar(t *testing.T) {
	a := social.NewTribe("a", "Ash", world.HexCoord{}, 30, 10)
	a.GlobalResources.Food = 1000
	b := social.NewTribe("b", "Bone", world.HexCoord{Q: 2, R: 0}, 3, 0)
	all := []*social.Tribe{a, b}
	p := New(nil, entropy.Fixed())

	if _, ok := find(p.GenerateActions(a, all, plains(4), 2), social.ActionAttack); ok {
		t.Fatalf("expected no attack while neutral")
	}

	social.SetMutual(a, b, social.StatusWar)
	at, ok := find(p.GenerateActions(a, all, plains(4), 2), social.ActionAttack)
	if !ok {
		t.Fatalf("expected an attack once at war")
	}
	if at.ActionData.Destination != b.Location || at.ActionData.Troops != 18 || at.ActionData.Weapons != 6 {
		t.Fatalf("expected 18 troops and 6 weapons against %v, got %+v", b.Location, at.ActionData)
	}
}

func TestScoutsTheUnknown(t *testing.T) {
	tr := social.NewTribe("a", "Ash", world.HexCoord{}, 20, 0)
	out := New(nil, entropy.Fixed(0)).GenerateActions(tr, []*social.Tribe{tr}, plains(4), 1)
	s, ok := find(out, social.ActionScout)
	if !ok {
		t.Fatalf("expected a scout, got %+v", out)
	}
	if s.ActionData.Troops != 1 || tr.ExploredHexes[s.ActionData.Destination] {
		t.Fatalf("expected one scout to an unexplored hex, got %+v", s.ActionData)
	}
}

func TestNoForceNoOrders(t *testing.T) {
	tr := social.NewTribe("a", "Ash", world.HexCoord{}, 0, 0)
	delete(tr.Garrisons, tr.Location)
	if out := New(nil, nil).GenerateActions(tr, []*social.Tribe{tr}, plains(2), 1); len(out) != 0 {
		t.Fatalf("expected no orders, got %+v", out)
	}
}
