package engine

import (
	"math"

	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

// Losses is what one side gives up in a fight.
type Losses struct {
	Troops  int `json:"troops"`
	Weapons int `json:"weapons"`
}

// casualtyInput parameterizes the shared casualty model.
type casualtyInput struct {
	winner, loser                 social.Force
	winnerStrength, loserStrength float64

	defenderLost   bool // the loser is the defending garrison
	terrainDefense float64
	outpost        bool
	homeBase       bool
}

type casualties struct {
	winner, loser Losses
	salvage       int     // weapons the winner recovers
	loserRate     float64 // fraction of the loser's troops lost
	winnerRate    float64
}

// computeCasualties is more punishing to the loser. Losses never exceed
// the force sizes.
func computeCasualties(src entropy.Source, in casualtyInput) casualties {
	loserRate := entropy.Between(src, 0.40, 0.70)
	if in.defenderLost {
		loserRate -= in.terrainDefense / 2
		if in.outpost {
			loserRate -= 0.1
		}
		if in.homeBase {
			loserRate -= 0.1
		}
		loserRate = max(loserRate, 0.20)
	}

	ratio := 1.0
	if in.winnerStrength > 0 {
		ratio = math.Min(in.loserStrength/in.winnerStrength, 1)
	}
	winnerRate := entropy.Between(src, 0.10, 0.25) * ratio

	out := casualties{loserRate: loserRate, winnerRate: winnerRate}
	out.loser.Troops = portion(in.loser.Troops, loserRate)
	out.winner.Troops = portion(in.winner.Troops, winnerRate)
	out.loser.Weapons = portion(in.loser.Weapons, entropy.Between(src, 0.30, 0.60))
	out.winner.Weapons = portion(in.winner.Weapons, entropy.Between(src, 0.05, 0.15))
	out.salvage = portion(out.loser.Weapons, entropy.Between(src, 0.30, 0.50))
	return out
}

// portion rounds n*rate and clamps it to [0, n].
func portion(n int, rate float64) int {
	if n <= 0 || rate <= 0 {
		return 0
	}
	return min(int(math.Round(float64(n)*rate)), n)
}

// applyLosses returns the surviving force. Chiefs are copied.
func applyLosses(f social.Force, l Losses) social.Force {
	return social.Force{
		Troops:  max(f.Troops-l.Troops, 0),
		Weapons: max(f.Weapons-l.Weapons, 0),
		Chiefs:  append([]social.Chief(nil), f.Chiefs...),
	}
}
