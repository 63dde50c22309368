package engine

import (
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// Combat tuning.
const (
	outpostBonus      = 0.25
	homeBaseBonus     = 0.50
	lastStandBonus    = 0.25
	captureChance     = 0.30
	injuryChance      = 0.20
	injuryTurns       = 3
	overwhelmingRatio = 3.0
	compressedSpan    = 0.3
)

// battleSite is the defended hex as seen by the defending tribe.
type battleSite struct {
	hex       world.HexCoord
	terrain   world.Terrain
	outpost   bool // defender owns an outpost here
	homeBase  bool
	lastStand bool // home is the defender's only garrison
}

func (t *turn) siteFor(def *social.Tribe, hex world.HexCoord) battleSite {
	s := battleSite{
		hex:     hex,
		terrain: t.terrainAt(hex),
		outpost: t.state.Map.POIAt(hex).OutpostOwner() == def.ID,
	}
	if def.Location == hex {
		s.homeBase = true
		s.lastStand = def.ActiveGarrisons() == 1
	}
	return s
}

// multiplier is the positional defense factor.
func (s battleSite) multiplier() float64 {
	m := 1.0
	if s.outpost {
		m *= 1 + outpostBonus
	}
	if s.homeBase {
		m *= 1 + homeBaseBonus
		if s.lastStand {
			m *= 1 + lastStandBonus
		}
	}
	return m
}

// rollTwoParty reports whether the attacker wins. Each side's strength is
// scaled by a roll in [0.5, 1.5]; past a 3:1 ratio the band narrows to
// [0.5, 0.8] so overwhelming force is decisive. Ties go to the defender.
func rollTwoParty(src entropy.Source, atk, def float64) bool {
	lo, hi := min(atk, def), max(atk, def)
	if lo <= 0 {
		return atk > def
	}
	span := 1.0
	if hi/lo > overwhelmingRatio {
		span = compressedSpan
	}
	ra := atk * (0.5 + src.Float64()*span)
	rd := def * (0.5 + src.Float64()*span)
	return ra > rd
}

// battleOutcome is a resolved two-party fight, not yet applied.
type battleOutcome struct {
	attackerWon  bool
	cas          casualties
	attackerLeft social.Force
	defenderLeft social.Force
	captured     []social.Chief // defender chiefs taken prisoner
	injured      []social.Chief // attacker chiefs wounded
	breach       bool           // attacker won but defenders hold the outpost
}

// fight resolves attacker force against a defending force at a site.
func (t *turn) fight(src entropy.Source, atk *social.Tribe, atkForce social.Force, def *social.Tribe, defForce social.Force, site battleSite) battleOutcome {
	ae, de := t.effects(atk), t.effects(def)
	a := ae.attackStrength(atkForce, site.terrain)
	d := de.defenseStrength(defForce, site.terrain) * site.multiplier()

	won := rollTwoParty(src, a, d)
	in := casualtyInput{
		defenderLost:   won,
		terrainDefense: de.TerrainDefense[site.terrain],
		outpost:        site.outpost,
		homeBase:       site.homeBase,
	}
	if won {
		in.winner, in.loser = atkForce, defForce
		in.winnerStrength, in.loserStrength = a, d
	} else {
		in.winner, in.loser = defForce, atkForce
		in.winnerStrength, in.loserStrength = d, a
	}
	cas := computeCasualties(src, in)

	out := battleOutcome{attackerWon: won, cas: cas}
	if won {
		out.attackerLeft = applyLosses(atkForce, cas.winner)
		out.attackerLeft.Weapons += cas.salvage
		out.defenderLeft = applyLosses(defForce, cas.loser)
		var kept []social.Chief
		for _, c := range out.defenderLeft.Chiefs {
			if entropy.Chance(src, captureChance) {
				out.captured = append(out.captured, c)
			} else {
				kept = append(kept, c)
			}
		}
		out.defenderLeft.Chiefs = kept
		out.breach = site.outpost && out.defenderLeft.Troops > 0
	} else {
		out.defenderLeft = applyLosses(defForce, cas.winner)
		out.defenderLeft.Weapons += cas.salvage
		out.attackerLeft = applyLosses(atkForce, cas.loser)
		var kept []social.Chief
		for _, c := range out.attackerLeft.Chiefs {
			if entropy.Chance(src, injuryChance) {
				out.injured = append(out.injured, c)
			} else {
				kept = append(kept, c)
			}
		}
		out.attackerLeft.Chiefs = kept
	}
	return out
}

// recordChiefFates moves captured and injured chiefs to their new places.
func (t *turn) recordChiefFates(atk, def *social.Tribe, out battleOutcome) {
	for _, c := range out.captured {
		atk.Prisoners = append(atk.Prisoners, social.Prisoner{Chief: c, OriginalOwnerID: def.ID})
	}
	for _, c := range out.injured {
		atk.InjuredChiefs = append(atk.InjuredChiefs, social.InjuredChief{Chief: c, ReturnTurn: t.number + injuryTurns})
	}
}

// setGarrison overwrites the tribe's garrison at hex with f, deleting it
// when f is empty.
func setGarrison(tr *social.Tribe, hex world.HexCoord, f social.Force) {
	if f.IsEmpty() {
		delete(tr.Garrisons, hex)
		return
	}
	tr.Garrisons[hex] = &social.Garrison{Troops: f.Troops, Weapons: f.Weapons, Chiefs: f.Chiefs}
}

// rout sends defeated defenders to their home garrison if that is another
// hex they still hold. Otherwise they scatter. Returns a narrative clause.
func (t *turn) rout(def *social.Tribe, from world.HexCoord, survivors social.Force) string {
	if survivors.IsEmpty() {
		return "none survived"
	}
	home := def.Location
	if home != from && def.HoldsHex(home) {
		def.Garrisons[home].Merge(survivors)
		return "survivors fell back to the home camp"
	}
	return "the survivors scattered into the wastes"
}

// resolveAssault is the two-party arrival path: one tribe's arrivals
// against a single hostile occupant.
func (t *turn) resolveAssault(atk *social.Tribe, arrivals []*Journey, def *social.Tribe, hex world.HexCoord) {
	var force social.Force
	for _, j := range arrivals {
		force = force.Add(j.Force)
	}
	origin := arrivals[0].Origin

	site := t.siteFor(def, hex)
	out := t.fight(t.Rand, atk, force, def, def.Garrison(hex).AsForce(), site)
	t.recordChiefFates(atk, def, out)

	var fate string
	switch {
	case out.attackerWon && out.breach:
		setGarrison(def, hex, out.defenderLeft)
		atk.EnsureGarrison(hex).Merge(out.attackerLeft)
	case out.attackerWon:
		delete(def.Garrisons, hex)
		fate = t.rout(def, hex, out.defenderLeft)
		if poi := t.state.Map.POIAt(hex); poi.OutpostOwner() == def.ID {
			poi.OwnerTribeID = atk.ID
		}
		atk.EnsureGarrison(hex).Merge(out.attackerLeft)
	default:
		setGarrison(def, hex, out.defenderLeft)
		fate = t.sendHome(atk, hex, origin, out.attackerLeft, cargoOf(arrivals), "the retreating survivors")
	}

	atkText, defText := battleReport(atk, def, site, out, fate)
	atk.Logf(social.EventCombat, atkText)
	def.Logf(social.EventCombat, defText)
	t.log.Info("battle",
		"hex", hex.Key(),
		"attacker", atk.ID,
		"defender", def.ID,
		"attacker_won", out.attackerWon,
		"breach", out.breach,
	)

	if out.attackerWon {
		t.landCargo(atk, hex, arrivals, true)
	}
}

// encounter fights a hostile garrison met mid-path. It returns false when
// the journey is finished (beaten back or wiped out).
func (t *turn) encounter(j *Journey, owner *social.Tribe) bool {
	hex := j.CurrentLocation
	for _, def := range t.state.GarrisonsAt(hex) {
		if def.ID == owner.ID || !hostile(owner, def) {
			continue
		}
		site := t.siteFor(def, hex)
		out := t.fight(t.Rand, owner, j.Force, def, def.Garrison(hex).AsForce(), site)
		t.recordChiefFates(owner, def, out)

		var fate string
		alive := true
		switch {
		case out.attackerWon && out.breach:
			setGarrison(def, hex, out.defenderLeft)
			j.Force = out.attackerLeft
		case out.attackerWon:
			delete(def.Garrisons, hex)
			fate = t.rout(def, hex, out.defenderLeft)
			j.Force = out.attackerLeft
		default:
			setGarrison(def, hex, out.defenderLeft)
			fate = t.sendHome(owner, hex, j.Origin, out.attackerLeft, j.Payload, "the battered survivors")
			alive = false
		}
		atkText, defText := battleReport(owner, def, site, out, fate)
		owner.Logf(social.EventCombat, "Ambush en route. "+atkText)
		def.Logf(social.EventCombat, "Enemy column intercepted. "+defText)
		if j.Force.IsEmpty() {
			alive = false
		}
		return alive
	}
	return true
}
