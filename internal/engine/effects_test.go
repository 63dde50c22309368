package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

func baseTerrainDefense() map[world.Terrain]float64 {
	out := make(map[world.Terrain]float64, len(world.AllTerrains))
	for _, t := range world.AllTerrains {
		out[t] = t.BaseDefenseBonus()
	}
	return out
}

func TestAggregateEffects(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name  string
		setup func(tr *social.Tribe)
		want  func(e *CombinedEffects)
	}{
		{"untrained tribe", func(*social.Tribe) {}, func(*CombinedEffects) {}},
		{"mountain warfare", func(tr *social.Tribe) {
			tr.CompletedTechs["tactics"] = true
			tr.CompletedTechs["mountain_warfare"] = true
		}, func(e *CombinedEffects) {
			e.AttackBonus = 0.10
			e.TerrainDefense[world.TerrainMountains] += 0.20
			e.TerrainAttack[world.TerrainMountains] = 0.10
		}},
		{"assets and unknown ids", func(tr *social.Tribe) {
			tr.Assets["water_purifier"] = true
			tr.Assets["salvage_crane"] = true
			tr.CompletedTechs["cold_fusion"] = true
		}, func(e *CombinedEffects) {
			e.PassiveFood = 3
			e.ScavengeBonus[economy.ResourceScrap] = 0.20
		}},
		{"generous and weary", func(tr *social.Tribe) {
			tr.RationLevel = economy.RationGenerous
			tr.ActionEfficiency = 0.8
		}, func(e *CombinedEffects) {
			e.CombatModifier = 1.1
			e.MovementSpeed = 0.8
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := testTribe("a", hex(0, 0), 10, 0)
			tc.setup(tr)

			want := CombinedEffects{
				MovementSpeed:  1,
				ScavengeBonus:  map[economy.Resource]float64{},
				TerrainAttack:  map[world.Terrain]float64{},
				TerrainDefense: baseTerrainDefense(),
				CombatModifier: 1,
			}
			tc.want(&want)

			got := AggregateEffects(tr, cat)
			if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Fatalf("effects mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTerrainDefenseSeeds(t *testing.T) {
	e := AggregateEffects(testTribe("a", hex(0, 0), 10, 0), catalog.Default())
	want := map[world.Terrain]float64{
		world.TerrainMountains: 0.30,
		world.TerrainForest:    0.15,
		world.TerrainRuins:     0.10,
		world.TerrainPlains:    -0.05,
		world.TerrainDesert:    0,
	}
	for terrain, bonus := range want {
		if got := e.TerrainDefense[terrain]; got != bonus {
			t.Fatalf("%s defense = %v, want %v", terrain, got, bonus)
		}
	}
	if len(e.TerrainDefense) != len(world.AllTerrains) {
		t.Fatalf("expected a seed for every terrain, got %d", len(e.TerrainDefense))
	}
}
