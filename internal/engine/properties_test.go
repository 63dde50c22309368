package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// scriptedPlanner queues the same orders every turn.
type scriptedPlanner struct{ plan func(t *social.Tribe, turn int) []social.GameAction }

func (p scriptedPlanner) GenerateActions(t *social.Tribe, _ []*social.Tribe, _ *world.Map, turn int) []social.GameAction {
	return p.plan(t, turn)
}

func aiGame(t *testing.T) *GameState {
	t.Helper()
	opts := DefaultGameOptions()
	opts.Seed = 5
	opts.Radius = 12
	opts.Tribes = 4
	opts.AITribes = 4
	s, err := NewGame(opts, catalog.Default())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return s
}

// restlessPlanner keeps every tribe busy: each turn it rests at home and
// sends a small party toward the center.
var restlessPlanner = scriptedPlanner{plan: func(tr *social.Tribe, turn int) []social.GameAction {
	g := tr.Garrison(tr.Location)
	if g == nil || g.Troops < 4 {
		return nil
	}
	kind := social.ActionMove
	if turn%2 == 0 {
		kind = social.ActionAttack
	}
	return []social.GameAction{
		order(social.ActionRest, social.ActionData{Location: tr.Location}),
		order(kind, social.ActionData{Location: tr.Location, Destination: world.HexCoord{}, Troops: 2}),
		order(social.ActionRecruit, social.ActionData{Location: tr.Location, FoodOffered: 4}),
	}
}}

func TestProcessTurnLeavesInputUntouched(t *testing.T) {
	prev := aiGame(t)
	prev.Tribes[0].Actions = []social.GameAction{order(social.ActionMove, social.ActionData{
		Location: prev.Tribes[0].Location, Destination: world.HexCoord{}, Troops: 3,
	})}
	before, err := prev.Clone()
	if err != nil {
		t.Fatal(err)
	}

	p := testProcessor(entropy.NewSource(9))
	p.AI = restlessPlanner
	if _, err := p.ProcessTurn(context.Background(), prev); err != nil {
		t.Fatalf("process: %v", err)
	}
	if diff := cmp.Diff(before, prev, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("input state changed (-before +after):\n%s", diff)
	}
}

func TestProcessTurnErrors(t *testing.T) {
	p := testProcessor(entropy.Fixed())
	if _, err := p.ProcessTurn(context.Background(), nil); !errors.Is(err, ErrNilState) {
		t.Fatalf("expected ErrNilState, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newState(plainsMap(2), testTribe("a", hex(0, 0), 5, 0))
	next, err := p.ProcessTurn(ctx, s)
	if !errors.Is(err, context.Canceled) || next != nil {
		t.Fatalf("expected a cancelled turn with no state, got %v, %v", next, err)
	}
	if s.Turn != 1 {
		t.Fatalf("expected the input turn unchanged, got %d", s.Turn)
	}
}

func TestEveryOrderGetsOneResult(t *testing.T) {
	home := hex(0, 0)
	a := testTribe("a", home, 10, 0)
	a.Actions = []social.GameAction{
		{ID: "dup", ActionType: social.ActionRest, ActionData: social.ActionData{Location: home}},
		{ID: "dup", ActionType: social.ActionRest, ActionData: social.ActionData{Location: hex(1, 1)}},
		{ActionType: "Teleport"},
		order(social.ActionBuildWeapons, social.ActionData{Location: home, ScrapOffered: 1}),
	}
	s := process(t, testProcessor(entropy.Fixed()), newState(plainsMap(2), a))

	ids := map[string]bool{}
	orders := 0
	upkeep := false
	for _, r := range s.Tribe("a").LastTurnResults {
		if r.ID == "" {
			upkeep = upkeep || r.ActionType == social.EventUpkeep
			continue // system events
		}
		if r.ActionType == social.EventUpkeep {
			t.Fatalf("upkeep event carries order id %q", r.ID)
		}
		orders++
		if ids[r.ID] {
			t.Fatalf("duplicate result id %q", r.ID)
		}
		ids[r.ID] = true
		if r.Result == "" {
			t.Fatalf("empty narrative for %s", r.ActionType)
		}
	}
	if orders != 4 {
		t.Fatalf("expected 4 order results, got %d%s", orders, dumpResults(s.Tribe("a")))
	}
	if !upkeep {
		t.Fatalf("expected an id-less upkeep event%s", dumpResults(s.Tribe("a")))
	}
}

func TestEveryPlayerActionIsHandled(t *testing.T) {
	a := testTribe("a", hex(0, 0), 10, 0)
	for _, kind := range social.PlayerActions {
		a.Actions = append(a.Actions, order(kind, social.ActionData{}))
	}
	s := process(t, testProcessor(entropy.Fixed()), newState(plainsMap(2), a))

	handled := 0
	for _, r := range s.Tribe("a").LastTurnResults {
		if r.ID == "" {
			continue
		}
		handled++
		if strings.Contains(r.Result, "Unknown action") || strings.Contains(r.Result, "lost in the chaos") {
			t.Fatalf("%s was not handled: %s", r.ActionType, r.Result)
		}
	}
	if handled != len(social.PlayerActions) {
		t.Fatalf("expected %d results, got %d%s", len(social.PlayerActions), handled, dumpResults(s.Tribe("a")))
	}
}

func TestHandlerPanicIsContained(t *testing.T) {
	a := testTribe("a", hex(0, 0), 10, 0)
	a.IsAI = true
	p := testProcessor(entropy.Fixed())
	p.AI = scriptedPlanner{plan: func(*social.Tribe, int) []social.GameAction { panic("boom") }}

	s := process(t, p, newState(plainsMap(2), a))
	if s.Turn != 2 || s.Tribe("a") == nil {
		t.Fatalf("expected the turn to complete despite the panic")
	}
}

func TestInvariantsAcrossTurns(t *testing.T) {
	s := aiGame(t)
	p := testProcessor(entropy.NewSource(21))
	p.AI = restlessPlanner

	for i := 0; i < 12; i++ {
		s = process(t, p, s)
		checkInvariants(t, s)
	}
}

func checkInvariants(t *testing.T, s *GameState) {
	t.Helper()
	where := map[string]string{}
	place := func(name, loc string) {
		if prev, ok := where[name]; ok {
			t.Fatalf("turn %d: chief %s is both %s and %s", s.Turn, name, prev, loc)
		}
		where[name] = loc
	}

	for _, tr := range s.Tribes {
		r := tr.GlobalResources
		if r.Food < 0 || r.Scrap < 0 || r.Morale < 0 || r.Morale > 100 {
			t.Fatalf("turn %d: %s has resources out of range: %+v", s.Turn, tr.ID, r)
		}
		for c, g := range tr.Garrisons {
			if g.Troops < 0 || g.Weapons < 0 {
				t.Fatalf("turn %d: %s garrison %s is negative: %+v", s.Turn, tr.ID, c.Key(), g)
			}
			for _, ch := range g.Chiefs {
				place(ch.Name, tr.ID+" garrison "+c.Key())
			}
		}
		for _, ic := range tr.InjuredChiefs {
			place(ic.Chief.Name, tr.ID+" infirmary")
		}
		for _, pr := range tr.Prisoners {
			place(pr.Chief.Name, tr.ID+" prison")
		}
		if len(tr.Actions) != 0 || tr.TurnSubmitted {
			t.Fatalf("turn %d: %s orders were not reset", s.Turn, tr.ID)
		}
	}
	for _, j := range s.Journeys {
		for _, ch := range j.Force.Chiefs {
			place(ch.Name, "journey "+j.ID)
		}
		if len(j.Path) == 0 || j.Path[0] != j.CurrentLocation {
			t.Fatalf("turn %d: journey %s path does not start at its location", s.Turn, j.ID)
		}
	}
	for _, p := range s.DiplomaticProposals {
		if p.ExpiresOnTurn <= s.Turn {
			t.Fatalf("turn %d: proposal %s outlived its expiry %d", s.Turn, p.ID, p.ExpiresOnTurn)
		}
	}
	for _, coord := range s.Map.Outposts() {
		owner := s.Map.POIAt(coord).OwnerTribeID
		if owner != "" && s.Tribe(owner) == nil {
			t.Fatalf("turn %d: outpost %s owned by missing tribe %s", s.Turn, coord.Key(), owner)
		}
	}
	if len(s.History) == 0 || s.History[len(s.History)-1].Turn != s.Turn-1 {
		t.Fatalf("turn %d: expected a history record for the processed turn", s.Turn)
	}
}

func TestSameSeedSameTurn(t *testing.T) {
	run := func() *GameState {
		p := testProcessor(entropy.NewSource(2))
		p.AI = restlessPlanner
		s := aiGame(t)
		for i := 0; i < 3; i++ {
			s = process(t, p, s)
		}
		return s
	}
	if diff := cmp.Diff(run(), run(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("seeded runs diverged (-first +second):\n%s", diff)
	}
}

func TestRollTwoPartyMonotonic(t *testing.T) {
	draws := []float64{0, 0.1, 0.3, 0.5, 0.7, 0.9, 0.99}
	for _, u := range draws {
		for _, v := range draws {
			won := false
			for atk := 1.0; atk <= 100; atk++ {
				got := rollTwoParty(entropy.Fixed(u, v), atk, 20)
				if won && !got {
					t.Fatalf("draws %.2f/%.2f: attacker %.0f lost after a smaller force won", u, v, atk)
				}
				won = won || got
			}
			if !won {
				t.Fatalf("draws %.2f/%.2f: five to one never won", u, v)
			}
		}
	}
}

func TestRollTwoPartyEdges(t *testing.T) {
	src := entropy.Fixed(0.5)
	if rollTwoParty(src, 0, 0) {
		t.Fatalf("expected an empty attack to lose")
	}
	if !rollTwoParty(src, 5, 0) {
		t.Fatalf("expected any attack to beat an empty defense")
	}
	if rollTwoParty(src, 10, 10) {
		t.Fatalf("expected ties to go to the defender")
	}
}

func TestCasualtiesNeverExceedForces(t *testing.T) {
	for _, v := range []float64{0, 0.5, 0.999} {
		c := computeCasualties(entropy.Fixed(v), casualtyInput{
			winner:         social.Force{Troops: 3, Weapons: 1},
			loser:          social.Force{Troops: 2, Weapons: 7},
			winnerStrength: 4.5,
			loserStrength:  12.5,
			defenderLost:   true,
			terrainDefense: 0.3,
			outpost:        true,
			homeBase:       true,
		})
		if c.loser.Troops > 2 || c.loser.Weapons > 7 || c.winner.Troops > 3 || c.winner.Weapons > 1 {
			t.Fatalf("losses exceed forces: %+v", c)
		}
		if c.loserRate < 0.20 {
			t.Fatalf("expected the defender floor of 20%%, got %.2f", c.loserRate)
		}
		if c.salvage > c.loser.Weapons {
			t.Fatalf("salvage %d above destroyed weapons %d", c.salvage, c.loser.Weapons)
		}
	}
}

func TestContestReplaysExactly(t *testing.T) {
	build := func() *GameState {
		x := hex(0, 0)
		tribes := []*social.Tribe{
			testTribe("a", hex(1, 0), 12, 2),
			testTribe("b", hex(-1, 1), 10, 4),
			testTribe("c", hex(0, -1), 14, 0),
		}
		for i, tr := range tribes {
			for _, o := range tribes[i+1:] {
				social.SetMutual(tr, o, social.StatusWar)
			}
			tr.Actions = []social.GameAction{{ID: "atk-" + tr.ID, ActionType: social.ActionAttack, ActionData: social.ActionData{
				Location: tr.Location, Destination: x, Troops: 8,
			}}}
		}
		return newState(plainsMap(3), tribes...)
	}

	first := process(t, testProcessor(entropy.Fixed(0.1)), build())
	second := process(t, testProcessor(entropy.Fixed(0.9)), build())
	if diff := cmp.Diff(first, second, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("contest did not replay (-first +second):\n%s", diff)
	}

	holders := first.GarrisonsAt(hex(0, 0))
	if len(holders) == 0 {
		t.Fatalf("expected a winner to hold the hex")
	}
	for _, tr := range first.Tribes {
		if !hasResult(tr, "Battle for") {
			t.Fatalf("expected %s to get a battle report%s", tr.ID, dumpResults(tr))
		}
	}
}
