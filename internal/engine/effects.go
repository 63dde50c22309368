package engine

import (
	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// CombinedEffects is the modifier bundle derived from a tribe's techs,
// assets and rations. Percentages are additive fractions.
type CombinedEffects struct {
	MovementSpeed float64 // multiplier, base 1.0

	ScavengeBonus map[economy.Resource]float64

	AttackBonus  float64
	DefenseBonus float64

	// Terrain-scoped bonuses. TerrainDefense starts from the base terrain
	// values.
	TerrainAttack  map[world.Terrain]float64
	TerrainDefense map[world.Terrain]float64

	PassiveFood  float64
	PassiveScrap float64

	CombatModifier float64 // ration multiplier on strength
}

// AggregateEffects folds a tribe's completed techs and assets into one
// bundle. Unknown ids are skipped.
func AggregateEffects(t *social.Tribe, cat *catalog.Catalog) CombinedEffects {
	e := CombinedEffects{
		MovementSpeed:  1,
		ScavengeBonus:  make(map[economy.Resource]float64),
		TerrainAttack:  make(map[world.Terrain]float64),
		TerrainDefense: make(map[world.Terrain]float64, len(world.AllTerrains)),
		CombatModifier: t.RationLevel.Policy().CombatModifier,
	}
	for _, terrain := range world.AllTerrains {
		e.TerrainDefense[terrain] = terrain.BaseDefenseBonus()
	}

	for id := range t.CompletedTechs {
		if tech := cat.Technology(id); tech != nil {
			e.apply(tech.Effects)
		}
	}
	for id := range t.Assets {
		if asset := cat.Asset(id); asset != nil {
			e.apply(asset.Effects)
		}
	}

	eff := t.ActionEfficiency
	if eff <= 0 {
		eff = 1
	}
	e.MovementSpeed *= eff
	return e
}

func (e *CombinedEffects) apply(effects []catalog.Effect) {
	for _, fx := range effects {
		switch fx.Type {
		case catalog.EffectPassiveFood:
			e.PassiveFood += fx.Value
		case catalog.EffectPassiveScrap:
			e.PassiveScrap += fx.Value
		case catalog.EffectScavengeYield:
			e.ScavengeBonus[fx.Resource] += fx.Value
		case catalog.EffectCombatAttack:
			if fx.Terrain != nil {
				e.TerrainAttack[*fx.Terrain] += fx.Value
			} else {
				e.AttackBonus += fx.Value
			}
		case catalog.EffectCombatDefense:
			if fx.Terrain != nil {
				e.TerrainDefense[*fx.Terrain] += fx.Value
			} else {
				e.DefenseBonus += fx.Value
			}
		case catalog.EffectMovementSpeed:
			e.MovementSpeed += fx.Value
		}
	}
}

// attackStrength is the attacker's modified strength on a terrain.
func (e CombinedEffects) attackStrength(f social.Force, terrain world.Terrain) float64 {
	return f.Strength() * (1 + e.AttackBonus + e.TerrainAttack[terrain]) * e.CombatModifier
}

// defenseStrength applies global and terrain defense but not positional
// bonuses, which depend on the hex.
func (e CombinedEffects) defenseStrength(f social.Force, terrain world.Terrain) float64 {
	return f.Strength() * (1 + e.DefenseBonus + e.TerrainDefense[terrain]) * e.CombatModifier
}
