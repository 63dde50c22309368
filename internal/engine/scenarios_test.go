package engine

import (
	"testing"

	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

func TestRecruitSpendsFood(t *testing.T) {
	home := hex(0, 0)
	a := testTribe("a", home, 10, 0)
	a.GlobalResources.Food = 10
	a.GlobalResources.Morale = 100
	a.Actions = []social.GameAction{order(social.ActionRecruit, social.ActionData{Location: home, FoodOffered: 10})}

	next := process(t, testProcessor(entropy.Fixed()), newState(plainsMap(3), a))
	got := next.Tribe("a")
	if got.GlobalResources.Food != 0 {
		t.Fatalf("expected food 0, got %d", got.GlobalResources.Food)
	}
	if troops := got.Garrison(home).Troops; troops < 15 {
		t.Fatalf("expected at least 15 troops, got %d%s", troops, dumpResults(got))
	}
	if !hasResult(got, "recruited") {
		t.Fatalf("expected a recruitment narrative, got%s", dumpResults(got))
	}
}

func TestAttackOverwhelmsWeakGarrison(t *testing.T) {
	x := hex(1, 0)
	a := testTribe("a", hex(0, 0), 25, 10)
	b := testTribe("b", hex(4, 0), 10, 0)
	b.Garrisons[x] = &social.Garrison{Troops: 5}
	a.Actions = []social.GameAction{order(social.ActionAttack, social.ActionData{
		Location: hex(0, 0), Destination: x, Troops: 20, Weapons: 10,
	})}

	next := process(t, testProcessor(entropy.NewSource(7)), newState(plainsMap(5), a, b))
	ga, gb := next.Tribe("a"), next.Tribe("b")
	if gb.HoldsHex(x) {
		t.Fatalf("expected defender driven from %s, got %+v%s", x.Key(), gb.Garrison(x), dumpResults(gb))
	}
	if !ga.HoldsHex(x) {
		t.Fatalf("expected attacker to occupy %s%s", x.Key(), dumpResults(ga))
	}
	if g := ga.Garrison(x); g.Troops == 0 || g.Troops > 20 {
		t.Fatalf("expected between 1 and 20 surviving attackers, got %d", g.Troops)
	}
	if !social.IsAtWar(ga, gb) {
		t.Fatalf("expected the attack to start a war")
	}
	if len(next.Journeys) != 0 {
		t.Fatalf("expected no journeys left, got %d", len(next.Journeys))
	}
}

func TestMultiTurnMoveArrivesOnSchedule(t *testing.T) {
	m := plainsMap(5)
	m.Get(hex(2, 0)).Terrain = world.TerrainDesert // path cost 1 + 1.5 + 1
	home, dest := hex(0, 0), hex(3, 0)
	a := testTribe("a", home, 10, 0)
	a.Actions = []social.GameAction{order(social.ActionMove, social.ActionData{Location: home, Destination: dest, Troops: 5})}

	p := testProcessor(entropy.Fixed())
	s := process(t, p, newState(m, a))
	if len(s.Journeys) != 1 {
		t.Fatalf("expected a journey, got %d%s", len(s.Journeys), dumpResults(s.Tribe("a")))
	}
	if j := s.Journeys[0]; j.Type != JourneyMove || j.Destination != dest {
		t.Fatalf("unexpected journey %+v", j)
	}
	if got := s.Tribe("a").Garrison(home).Troops; got != 5 {
		t.Fatalf("expected 5 troops left at home, got %d", got)
	}

	for i := 2; i <= 3; i++ {
		s = process(t, p, s)
		if len(s.Journeys) != 1 || s.Tribe("a").HoldsHex(dest) {
			t.Fatalf("turn %d: expected the column still on the road", i)
		}
	}
	s = process(t, p, s)
	if len(s.Journeys) != 0 {
		t.Fatalf("expected the journey to finish on the fourth turn, got %d left", len(s.Journeys))
	}
	if got := s.Tribe("a").Garrison(dest); got == nil || got.Troops != 5 {
		t.Fatalf("expected 5 troops at %s, got %+v", dest.Key(), got)
	}
}

func TestNeutralArrivalsStandOff(t *testing.T) {
	x := hex(0, 0)
	a := testTribe("a", hex(-2, 0), 10, 0)
	b := testTribe("b", hex(2, 0), 10, 0)
	a.Actions = []social.GameAction{order(social.ActionMove, social.ActionData{Location: hex(-2, 0), Destination: x, Troops: 4})}
	b.Actions = []social.GameAction{order(social.ActionMove, social.ActionData{Location: hex(2, 0), Destination: x, Troops: 6})}

	p := testProcessor(entropy.Fixed())
	s := process(t, p, newState(plainsMap(4), a, b))
	if len(s.Journeys) != 2 {
		t.Fatalf("expected two journeys, got %d", len(s.Journeys))
	}
	s = process(t, p, s)

	ga, gb := s.Tribe("a"), s.Tribe("b")
	if g := ga.Garrison(x); g == nil || g.Troops != 4 {
		t.Fatalf("expected 4 of ours at %s, got %+v%s", x.Key(), g, dumpResults(ga))
	}
	if g := gb.Garrison(x); g == nil || g.Troops != 6 {
		t.Fatalf("expected 6 of theirs at %s, got %+v%s", x.Key(), g, dumpResults(gb))
	}
	for _, tr := range []*social.Tribe{ga, gb} {
		if !hasResult(tr, "Standoff") {
			t.Fatalf("expected a standoff note for %s, got%s", tr.ID, dumpResults(tr))
		}
		if hasResult(tr, "Battle") {
			t.Fatalf("expected no combat for %s", tr.ID)
		}
	}
}

func TestLowMoraleCausesDesertion(t *testing.T) {
	home, camp := hex(0, 0), hex(2, 0)
	a := testTribe("a", home, 45, 0)
	a.Garrisons[camp] = &social.Garrison{Troops: 5}
	a.GlobalResources.Morale = 15

	s := process(t, testProcessor(entropy.Fixed()), newState(plainsMap(3), a))
	got := s.Tribe("a")
	troops, _, _ := got.Totals()
	if troops != 45 {
		t.Fatalf("expected 5 deserters leaving 45 troops, got %d", troops)
	}
	if got.HoldsHex(camp) {
		t.Fatalf("expected the smallest garrison to empty first")
	}
	if got.Garrison(home).Troops != 45 {
		t.Fatalf("expected the home garrison untouched, got %d", got.Garrison(home).Troops)
	}
	if !hasResult(got, "MASS DESERTION") {
		t.Fatalf("expected a desertion narrative, got%s", dumpResults(got))
	}
}

func TestUnansweredProposalExpires(t *testing.T) {
	a := testTribe("a", hex(-2, 0), 10, 0)
	b := testTribe("b", hex(2, 0), 10, 0)
	s := newState(plainsMap(3), a, b)
	s.Turn = 9
	s.DiplomaticProposals = []*social.DiplomaticProposal{{
		ID: "p1", FromTribeID: "a", FromTribeName: a.Name, ToTribeID: "b",
		StatusChange: social.ProposalAlliance, ExpiresOnTurn: 10,
	}}

	next := process(t, testProcessor(entropy.Fixed()), s)
	if next.Turn != 10 {
		t.Fatalf("expected turn 10, got %d", next.Turn)
	}
	if len(next.DiplomaticProposals) != 0 {
		t.Fatalf("expected the proposal to expire, got %d left", len(next.DiplomaticProposals))
	}
	ga, gb := next.Tribe("a"), next.Tribe("b")
	for _, tr := range []*social.Tribe{ga, gb} {
		if !hasResult(tr, "expired") {
			t.Fatalf("expected an expiry note for %s, got%s", tr.ID, dumpResults(tr))
		}
	}
	if ga.RelationTo("b") != social.StatusNeutral || gb.RelationTo("a") != social.StatusNeutral {
		t.Fatalf("expected relations to stay neutral")
	}
}
