package engine

import (
	"testing"

	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

func TestStarvationPenalty(t *testing.T) {
	home := hex(0, 0)
	a := testTribe("a", home, 10, 0)
	a.GlobalResources.Food = 4

	s := process(t, testProcessor(entropy.Fixed()), newState(plainsMap(2), a))
	got := s.Tribe("a")
	if got.GlobalResources.Food != 0 {
		t.Fatalf("expected the stores emptied, food %d", got.GlobalResources.Food)
	}
	// Six short: 5 + 2*6.
	if got.GlobalResources.Morale != 60-17 {
		t.Fatalf("expected morale %d, got %d", 60-17, got.GlobalResources.Morale)
	}
	if !hasResult(got, "6 short") {
		t.Fatalf("expected a hunger note%s", dumpResults(got))
	}
}

func TestRationMorale(t *testing.T) {
	tests := []struct {
		name   string
		level  economy.RationLevel
		food   int
		morale int
	}{
		// Intn(4) reads 2 from a 0.5 draw: +2+2.
		{"generous and fed", economy.RationGenerous, 1000, 64},
		// 15 needed, 10 short: no feast bonus, 5+20 lost.
		{"generous and short", economy.RationGenerous, 5, 35},
		// Hard: -3 + Intn(2) = -2.
		{"hard", economy.RationHard, 1000, 58},
		{"normal", economy.RationNormal, 1000, 60},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := testTribe("a", hex(0, 0), 10, 0)
			a.RationLevel = tc.level
			a.GlobalResources.Food = tc.food

			s := process(t, testProcessor(entropy.Fixed()), newState(plainsMap(2), a))
			if got := s.Tribe("a").GlobalResources.Morale; got != tc.morale {
				t.Fatalf("morale = %d, want %d%s", got, tc.morale, dumpResults(s.Tribe("a")))
			}
		})
	}
}

func TestHomelessIncomeIsHalved(t *testing.T) {
	home, farm := hex(0, 0), hex(2, 0)
	tests := []struct {
		name     string
		homeless bool
		food     int
	}{
		// 20 troops eat 20; the farm yields 10*3.
		{"at home", false, 1000 - 20 + 30},
		// 10 troops eat 10; half of 30 is lost.
		{"homeless", true, 1000 - 10 + 15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := plainsMap(3)
			m.Get(farm).POI = &world.POI{ID: "farm", Type: world.POIFoodSource, Rarity: world.RarityCommon}
			a := testTribe("a", home, 10, 0)
			a.Garrisons[farm] = &social.Garrison{Troops: 10}
			if tc.homeless {
				delete(a.Garrisons, home)
			}

			s := process(t, testProcessor(entropy.Fixed()), newState(m, a))
			got := s.Tribe("a")
			if got.GlobalResources.Food != tc.food {
				t.Fatalf("food = %d, want %d%s", got.GlobalResources.Food, tc.food, dumpResults(got))
			}
			if lost := hasResult(got, "half the yield was lost"); lost != tc.homeless {
				t.Fatalf("halving note = %v, want %v", lost, tc.homeless)
			}
		})
	}
}

func TestResearchProgress(t *testing.T) {
	home := hex(0, 0)
	tests := []struct {
		name     string
		project  social.ResearchProject
		homeless bool
		note     string
		done     bool
		progress int // remaining project's progress; -1 when none
	}{
		{"advances", social.ResearchProject{TechID: "basic_farming", Location: home, AssignedTroops: 5}, false, "advanced to 5/20", false, 5},
		{"completes", social.ResearchProject{TechID: "basic_farming", Location: home, AssignedTroops: 5, Progress: 18}, false, "Breakthrough", true, -1},
		{"unknown technology", social.ResearchProject{TechID: "cold_fusion", Location: home, AssignedTroops: 5}, false, "no longer exists", false, -1},
		{"home lost", social.ResearchProject{TechID: "basic_farming", Location: home, AssignedTroops: 5}, true, "home base lost", false, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := testTribe("a", home, 10, 0)
			if tc.homeless {
				delete(a.Garrisons, home)
				a.Garrisons[hex(1, 0)] = &social.Garrison{Troops: 10}
			}
			project := tc.project
			a.CurrentResearch = &project

			s := process(t, testProcessor(entropy.Fixed()), newState(plainsMap(2), a))
			got := s.Tribe("a")
			if !hasResult(got, tc.note) {
				t.Fatalf("expected %q%s", tc.note, dumpResults(got))
			}
			if got.CompletedTechs["basic_farming"] != tc.done {
				t.Fatalf("completed = %v, want %v", got.CompletedTechs["basic_farming"], tc.done)
			}
			switch {
			case tc.progress < 0 && got.CurrentResearch != nil:
				t.Fatalf("expected the project closed, got %+v", got.CurrentResearch)
			case tc.progress >= 0 && (got.CurrentResearch == nil || got.CurrentResearch.Progress != tc.progress):
				t.Fatalf("expected progress %d, got %+v", tc.progress, got.CurrentResearch)
			}
		})
	}
}

func TestCompletedTechPaysPassiveIncome(t *testing.T) {
	a := testTribe("a", hex(0, 0), 10, 0)
	a.CompletedTechs["basic_farming"] = true

	s := process(t, testProcessor(entropy.Fixed()), newState(plainsMap(2), a))
	if food := s.Tribe("a").GlobalResources.Food; food != 1000-10+5 {
		t.Fatalf("expected 5 passive food, have %d%s", food, dumpResults(s.Tribe("a")))
	}
}
