package economy

import "testing"

func TestRationPolicies(t *testing.T) {
	cases := []struct {
		level           RationLevel
		troop, chief    float64
		recruit, combat float64
	}{
		{RationHard, 0.5, 0.25, 0.8, 0.9},
		{RationNormal, 1.0, 0.5, 1.0, 1.0},
		{RationGenerous, 1.5, 0.75, 1.2, 1.1},
		{"Feast", 1.0, 0.5, 1.0, 1.0},
	}
	for _, tc := range cases {
		p := tc.level.Policy()
		if p.TroopRate != tc.troop || p.ChiefRate != tc.chief {
			t.Fatalf("%s: expected rates %v/%v, got %v/%v", tc.level, tc.troop, tc.chief, p.TroopRate, p.ChiefRate)
		}
		if p.RecruitEfficiency != tc.recruit || p.CombatModifier != tc.combat {
			t.Fatalf("%s: expected recruit %v combat %v, got %v %v", tc.level, tc.recruit, tc.combat, p.RecruitEfficiency, p.CombatModifier)
		}
	}
}

func TestParseRationLevel(t *testing.T) {
	if _, ok := ParseRationLevel("Generous"); !ok {
		t.Fatal("expected Generous to parse")
	}
	if _, ok := ParseRationLevel("generous"); ok {
		t.Fatal("expected level names to be case sensitive")
	}
	if got := RationLevel("").Normalize(); got != RationNormal {
		t.Fatalf("expected Normal, got %s", got)
	}
}

func TestMoraleFactor(t *testing.T) {
	for morale, want := range map[int]float64{0: 0.8, 29: 0.8, 30: 1.0, 80: 1.0, 81: 1.1, 100: 1.1} {
		if got := MoraleFactor(morale); got != want {
			t.Fatalf("morale %d: expected %v, got %v", morale, want, got)
		}
	}
}

func TestStockArithmetic(t *testing.T) {
	s := Stock{Food: 3}.With(ResourceWeapons, 2).Add(Stock{Scrap: 4})
	if s != (Stock{Food: 3, Scrap: 4, Weapons: 2}) {
		t.Fatalf("unexpected stock %+v", s)
	}
	if got := (Stock{Food: -1, Scrap: 2}).Clamp(); got != (Stock{Scrap: 2}) {
		t.Fatalf("expected clamp to zero negatives, got %+v", got)
	}
	if !(Stock{}).IsZero() || s.Get(ResourceScrap) != 4 {
		t.Fatal("unexpected accessors")
	}
}
