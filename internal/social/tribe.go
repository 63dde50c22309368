// Package social provides tribes, their garrisons and chiefs, diplomacy,
// queued actions and the proposals exchanged between tribes.
package social

import (
	"sort"

	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// Stats is the tribe and chief stat block.
type Stats = catalog.Stats

// GlobalResources are pooled across all of a tribe's garrisons.
type GlobalResources struct {
	Food   int `json:"food"`
	Scrap  int `json:"scrap"`
	Morale int `json:"morale"` // 0–100
}

// ResearchProject is the tribe's single active research.
type ResearchProject struct {
	TechID         string         `json:"tech_id"`
	Location       world.HexCoord `json:"location"`
	AssignedTroops int            `json:"assigned_troops"`
	Progress       int            `json:"progress"`
}

// Prisoner is a captured chief with provenance.
type Prisoner struct {
	Chief           Chief  `json:"chief"`
	OriginalOwnerID string `json:"original_owner_id"`
}

// InjuredChief is parked off the field until ReturnTurn.
type InjuredChief struct {
	Chief      Chief `json:"chief"`
	ReturnTurn int   `json:"return_turn"`
}

// Tribe is a player or AI faction.
type Tribe struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	PlayerName string         `json:"player_name,omitempty"`
	Location   world.HexCoord `json:"location"` // home hex
	IsAI       bool           `json:"is_ai"`

	TurnSubmitted bool `json:"turn_submitted"`

	Garrisons        map[world.HexCoord]*Garrison `json:"garrisons"`
	GlobalResources  GlobalResources              `json:"global_resources"`
	RationLevel      economy.RationLevel          `json:"ration_level"`
	ActionEfficiency float64                      `json:"action_efficiency"`
	Stats            Stats                        `json:"stats"`

	CompletedTechs  map[string]bool  `json:"completed_techs"`
	CurrentResearch *ResearchProject `json:"current_research,omitempty"`
	Assets          map[string]bool  `json:"assets"`

	// Diplomacy is this tribe's own view of each other tribe.
	Diplomacy map[string]DiplomaticRelation `json:"diplomacy"`

	ExploredHexes map[world.HexCoord]bool `json:"explored_hexes"`
	Prisoners     []Prisoner              `json:"prisoners"`
	InjuredChiefs []InjuredChief          `json:"injured_chiefs"`

	Actions         []GameAction   `json:"actions"`
	LastTurnResults []ActionResult `json:"last_turn_results"`
	Eliminated      bool           `json:"eliminated"`
}

// NewTribe creates a tribe with a home garrison.
func NewTribe(id, name string, home world.HexCoord, troops, weapons int, chiefs ...Chief) *Tribe {
	t := &Tribe{
		ID:       id,
		Name:     name,
		Location: home,
		GlobalResources: GlobalResources{
			Food:   100,
			Scrap:  20,
			Morale: 50,
		},
		RationLevel:      economy.RationNormal,
		ActionEfficiency: 1,
	}
	t.EnsureMaps()
	t.Garrisons[home] = &Garrison{Troops: troops, Weapons: weapons, Chiefs: chiefs}
	t.ExploredHexes[home] = true
	return t
}

// EnsureMaps allocates any nil collections so decoded snapshots are safe
// to mutate.
func (t *Tribe) EnsureMaps() {
	if t.Garrisons == nil {
		t.Garrisons = make(map[world.HexCoord]*Garrison)
	}
	if t.CompletedTechs == nil {
		t.CompletedTechs = make(map[string]bool)
	}
	if t.Assets == nil {
		t.Assets = make(map[string]bool)
	}
	if t.Diplomacy == nil {
		t.Diplomacy = make(map[string]DiplomaticRelation)
	}
	if t.ExploredHexes == nil {
		t.ExploredHexes = make(map[world.HexCoord]bool)
	}
	for c, g := range t.Garrisons {
		if g == nil {
			delete(t.Garrisons, c)
		}
	}
}

// Garrison returns the garrison at coord, or nil.
func (t *Tribe) Garrison(coord world.HexCoord) *Garrison {
	return t.Garrisons[coord]
}

// EnsureGarrison returns the garrison at coord, creating an empty one.
func (t *Tribe) EnsureGarrison(coord world.HexCoord) *Garrison {
	g := t.Garrisons[coord]
	if g == nil {
		g = &Garrison{}
		t.Garrisons[coord] = g
	}
	return g
}

// HoldsHex reports whether the tribe has a non-empty garrison at coord.
func (t *Tribe) HoldsHex(coord world.HexCoord) bool {
	g := t.Garrisons[coord]
	return g != nil && g.HasForce()
}

// HoldsHome reports whether the home hex is garrisoned.
func (t *Tribe) HoldsHome() bool {
	return t.HoldsHex(t.Location)
}

// GarrisonCoords returns held coordinates in key order.
func (t *Tribe) GarrisonCoords() []world.HexCoord {
	out := make([]world.HexCoord, 0, len(t.Garrisons))
	for c := range t.Garrisons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// ActiveGarrisons counts garrisons with any force.
func (t *Tribe) ActiveGarrisons() int {
	n := 0
	for _, g := range t.Garrisons {
		if g.HasForce() {
			n++
		}
	}
	return n
}

// PruneGarrisons deletes empty garrisons.
func (t *Tribe) PruneGarrisons() {
	for c, g := range t.Garrisons {
		if !g.HasForce() {
			delete(t.Garrisons, c)
		}
	}
}

// Totals sums troops, weapons and chiefs across all garrisons.
func (t *Tribe) Totals() (troops, weapons, chiefs int) {
	for _, g := range t.Garrisons {
		troops += g.Troops
		weapons += g.Weapons
		chiefs += len(g.Chiefs)
	}
	return
}

// AddMorale adjusts morale, clamped to [0,100].
func (t *Tribe) AddMorale(delta int) {
	t.GlobalResources.Morale = min(max(t.GlobalResources.Morale+delta, 0), 100)
}

// ClampResources enforces the non-negative invariants.
func (t *Tribe) ClampResources() {
	r := &t.GlobalResources
	r.Food = max(r.Food, 0)
	r.Scrap = max(r.Scrap, 0)
	r.Morale = min(max(r.Morale, 0), 100)
	for _, g := range t.Garrisons {
		g.Troops = max(g.Troops, 0)
		g.Weapons = max(g.Weapons, 0)
	}
}

// Log appends a narrative entry to the tribe's results.
func (t *Tribe) Log(r ActionResult) {
	t.LastTurnResults = append(t.LastTurnResults, r)
}

// Logf appends a system event narrative of the given kind. Events carry
// no id; only results of queued orders are keyed by the order's id.
func (t *Tribe) Logf(kind ActionType, text string) {
	t.Log(ActionResult{ActionType: kind, Result: text})
}

// HasPrisoner reports whether the tribe holds the named chief.
func (t *Tribe) HasPrisoner(name string) bool {
	for _, p := range t.Prisoners {
		if p.Chief.Name == name {
			return true
		}
	}
	return false
}

// TakePrisoner removes and returns a held prisoner.
func (t *Tribe) TakePrisoner(name string) (Prisoner, bool) {
	for i, p := range t.Prisoners {
		if p.Chief.Name == name {
			t.Prisoners = append(t.Prisoners[:i:i], t.Prisoners[i+1:]...)
			return p, true
		}
	}
	return Prisoner{}, false
}
