package engine

import (
	"fmt"
	"strings"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

// severity grades a fight by the loser's casualty rate.
func severity(rate float64) string {
	switch {
	case rate >= 0.5:
		return "bloodbath"
	case rate >= 0.25:
		return "brutal"
	default:
		return "measured"
	}
}

var severityPhrases = map[string][2]string{
	"bloodbath": {"a bloodbath that left the ground red", "a bloodbath"},
	"brutal":    {"a brutal close-quarters fight", "a brutal fight"},
	"measured":  {"a measured exchange of fire", "a short, sharp skirmish"},
}

func chiefNames(chiefs []social.Chief) string {
	names := make([]string, len(chiefs))
	for i, c := range chiefs {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

// battleReport renders the matched pair of narratives for a two-party
// fight, attacker's first. fate describes where the losing survivors went.
func battleReport(atk, def *social.Tribe, site battleSite, out battleOutcome, fate string) (string, string) {
	grade := severity(out.cas.loserRate)
	phrase := severityPhrases[grade]
	where := fmt.Sprintf("%s (%s)", site.hex.Key(), site.terrain)

	var a, d strings.Builder
	if out.attackerWon {
		switch {
		case out.breach:
			fmt.Fprintf(&a, "Our assault on %s breached %s's outpost after %s, but the defenders still hold part of the works. We dig in beside them.", where, def.Name, phrase[0])
			fmt.Fprintf(&d, "%s breached our outpost at %s in %s. Our defenders hold on, but the enemy has a foothold.", atk.Name, where, phrase[1])
		default:
			fmt.Fprintf(&a, "Victory at %s! After %s we overran %s's garrison and hold the hex.", where, phrase[0], def.Name)
			fmt.Fprintf(&d, "Our garrison at %s fell to %s in %s; %s.", where, atk.Name, phrase[1], fate)
		}
	} else {
		fmt.Fprintf(&a, "Our attack on %s at %s was repulsed in %s; %s.", def.Name, where, phrase[1], fate)
		fmt.Fprintf(&d, "We threw back %s's attack on %s after %s.", atk.Name, where, phrase[0])
	}

	atkLoss, defLoss := out.cas.winner, out.cas.loser
	if !out.attackerWon {
		atkLoss, defLoss = out.cas.loser, out.cas.winner
	}
	fmt.Fprintf(&a, " Losses: %d troops, %d weapons. Enemy losses: %d troops, %d weapons.", atkLoss.Troops, atkLoss.Weapons, defLoss.Troops, defLoss.Weapons)
	fmt.Fprintf(&d, " Losses: %d troops, %d weapons. Enemy losses: %d troops, %d weapons.", defLoss.Troops, defLoss.Weapons, atkLoss.Troops, atkLoss.Weapons)

	if out.cas.salvage > 0 {
		if out.attackerWon {
			fmt.Fprintf(&a, " Salvaged %d weapons from the field.", out.cas.salvage)
		} else {
			fmt.Fprintf(&d, " Salvaged %d weapons from the field.", out.cas.salvage)
		}
	}
	if len(out.captured) > 0 {
		fmt.Fprintf(&a, " Captured: %s.", chiefNames(out.captured))
		fmt.Fprintf(&d, " Taken prisoner: %s.", chiefNames(out.captured))
	}
	if len(out.injured) > 0 {
		fmt.Fprintf(&a, " Wounded and carried home: %s.", chiefNames(out.injured))
	}
	return a.String(), d.String()
}
