package engine

import (
	"fmt"
	"strings"

	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// Contest loss caps per side.
const (
	contestWinnerCap = 3
	contestLoserCap  = 5
)

// contestSide is one tribe's presence at a contested hex.
type contestSide struct {
	tribe       *social.Tribe
	arrivals    []*Journey
	occupant    social.Force
	hasOccupant bool
	attacking   bool // at least one Attack arrival
}

func (s *contestSide) arriving() social.Force {
	var f social.Force
	for _, j := range s.arrivals {
		f = f.Add(j.Force)
	}
	return f
}

func cargoOf(arrivals []*Journey) economy.Stock {
	var p economy.Stock
	for _, j := range arrivals {
		p = p.Add(j.Payload)
	}
	return p
}

// resolveArrivals settles every force landing on one hex this turn
// together with the garrisons already there.
func (t *turn) resolveArrivals(hex world.HexCoord, arrivals []*Journey) {
	var sides []*contestSide
	index := make(map[string]*contestSide)
	for _, o := range t.state.GarrisonsAt(hex) {
		s := &contestSide{tribe: o, occupant: o.Garrison(hex).AsForce(), hasOccupant: true}
		sides = append(sides, s)
		index[o.ID] = s
	}
	for _, j := range arrivals {
		s := index[j.OwnerTribeID]
		if s == nil {
			s = &contestSide{tribe: t.tribe(j.OwnerTribeID)}
			sides = append(sides, s)
			index[j.OwnerTribeID] = s
		}
		s.arrivals = append(s.arrivals, j)
		if j.Type == JourneyAttack {
			s.attacking = true
		}
	}

	// Attacking anyone who is not an ally is an act of war.
	for _, a := range sides {
		if !a.attacking {
			continue
		}
		for _, b := range sides {
			if a == b || social.IsAllied(a.tribe, b.tribe) || social.IsAtWar(a.tribe, b.tribe) {
				continue
			}
			social.SetMutual(a.tribe, b.tribe, social.StatusWar)
			a.tribe.Logf(social.EventDiplomacy, fmt.Sprintf("Our attack at %s means war with %s.", hex.Key(), b.tribe.Name))
			b.tribe.Logf(social.EventDiplomacy, fmt.Sprintf("%s attacked us at %s. We are now at war.", a.tribe.Name, hex.Key()))
		}
	}

	var fighting, bystanders []*contestSide
	for _, a := range sides {
		enemy := false
		for _, b := range sides {
			if a != b && hostile(a.tribe, b.tribe) {
				enemy = true
				break
			}
		}
		if enemy {
			fighting = append(fighting, a)
		} else {
			bystanders = append(bystanders, a)
		}
	}

	if len(fighting) == 0 {
		t.settlePeacefully(hex, sides)
		return
	}
	if len(bystanders) > 0 {
		t.settlePeacefully(hex, bystanders)
	}

	// Occupants sort first, so fighting[0] is the defender when the
	// pattern is one arriving tribe against one garrison.
	if len(fighting) == 2 {
		def, atk := fighting[0], fighting[1]
		if def.hasOccupant && len(def.arrivals) == 0 && !atk.hasOccupant && len(atk.arrivals) > 0 {
			t.resolveAssault(atk.tribe, atk.arrivals, def.tribe, hex)
			return
		}
	}
	t.resolveContest(hex, fighting)
}

// settlePeacefully stacks each side into its own garrison without combat.
func (t *turn) settlePeacefully(hex world.HexCoord, sides []*contestSide) {
	allAllied := true
	for i, a := range sides {
		for _, b := range sides[i+1:] {
			if !social.IsAllied(a.tribe, b.tribe) {
				allAllied = false
			}
		}
	}

	for _, s := range sides {
		if len(s.arrivals) > 0 {
			s.tribe.EnsureGarrison(hex).Merge(s.arriving())
			t.landCargo(s.tribe, hex, s.arrivals, false)
		}
		if len(sides) == 1 {
			continue
		}
		var others []string
		for _, o := range sides {
			if o != s {
				others = append(others, o.tribe.Name)
			}
		}
		if allAllied {
			s.tribe.Logf(social.EventJourney, fmt.Sprintf("Our forces at %s stand together with allied %s.", hex.Key(), strings.Join(others, ", ")))
		} else {
			s.tribe.Logf(social.EventJourney, fmt.Sprintf("Standoff at %s: our forces share the hex with %s. Neither side is at war, and nobody lowers their weapons.", hex.Key(), strings.Join(others, ", ")))
		}
	}
}

// landCargo applies the arrival effects of journeys whose owner now
// holds hex. fought suppresses the plain arrival notes.
func (t *turn) landCargo(tr *social.Tribe, hex world.HexCoord, arrivals []*Journey, fought bool) {
	for _, j := range arrivals {
		held := tr.HoldsHex(hex)
		switch j.Type {
		case JourneyReturn:
			if held {
				t.deposit(tr, tr.Garrison(hex), j.Payload)
			}
			if !fought {
				tr.Logf(social.EventJourney, fmt.Sprintf("A returning party of %d troops reached %s.", j.Force.Troops, hex.Key()))
			}
		case JourneyBuildOutpost:
			if held {
				tr.Logf(social.EventJourney, t.completeOutpost(tr, hex))
			}
		case JourneyMove:
			if !fought {
				tr.Logf(social.EventJourney, fmt.Sprintf("%d troops arrived at %s.", j.Force.Troops, hex.Key()))
			}
		case JourneyAttack:
			if !fought {
				tr.Logf(social.EventJourney, fmt.Sprintf("Our attack force reached %s and found no enemy to fight.", hex.Key()))
			}
		}
	}
	explore(tr, hex, 0)
}

// completeOutpost fortifies the hex for tr.
func (t *turn) completeOutpost(tr *social.Tribe, hex world.HexCoord) string {
	h := t.state.Map.Get(hex)
	switch {
	case h == nil:
		return fmt.Sprintf("There is no ground to build on at %s.", hex.Key())
	case h.POI.IsOutpost():
		return fmt.Sprintf("%s is already fortified; the builders joined the garrison instead.", hex.Key())
	case h.POI != nil:
		h.POI.Fortify(tr.ID)
		return fmt.Sprintf("Our builders fortified the %s at %s. It is now our outpost.", h.POI.Type, hex.Key())
	default:
		h.POI = &world.POI{
			ID:           "outpost-" + hex.Key(),
			Type:         world.POIOutpost,
			Rarity:       world.RarityCommon,
			OwnerTribeID: tr.ID,
		}
		return fmt.Sprintf("Our builders raised a new outpost at %s.", hex.Key())
	}
}

// resolveContest is the N-party path. Rolls come from the seeded
// per-tribe hash and a stream seeded by turn and hex, so the same
// contest always plays out the same way.
func (t *turn) resolveContest(hex world.HexCoord, fighting []*contestSide) {
	key := hex.Key()
	terrain := t.terrainAt(hex)
	src := entropy.ContestSource(t.number, key)

	best, bestRoll := 0, -1.0
	for i, s := range fighting {
		eff := t.effects(s.tribe)
		strength := eff.defenseStrength(s.occupant, terrain)*t.siteFor(s.tribe, hex).multiplier() +
			eff.attackStrength(s.arriving(), terrain)
		roll := strength * (0.5 + entropy.SeededUnit(t.number, key, s.tribe.ID))
		if roll > bestRoll {
			best, bestRoll = i, roll
		}
	}
	winner := fighting[best].tribe

	var names []string
	for _, s := range fighting {
		names = append(names, s.tribe.Name)
	}
	header := fmt.Sprintf("Battle for %s (%s) between %s.", key, terrain, strings.Join(names, ", "))

	// The winner's allies share the victory. A side at war with none of
	// them keeps its ground beside them; everyone else is defeated.
	winners := make(map[string]bool)
	for _, s := range fighting {
		if social.IsAllied(s.tribe, winner) {
			winners[s.tribe.ID] = true
		}
	}
	beaten := func(s *contestSide) bool {
		if winners[s.tribe.ID] {
			return false
		}
		for _, o := range fighting {
			if winners[o.tribe.ID] && hostile(s.tribe, o.tribe) {
				return true
			}
		}
		return false
	}

	salvage := 0
	for _, s := range fighting {
		lost := beaten(s)
		total := s.occupant.Add(s.arriving())

		var l Losses
		if lost {
			l.Troops = min(contestLoserCap, portion(total.Troops, entropy.Between(src, 0.40, 0.70)))
			l.Weapons = portion(total.Weapons, entropy.Between(src, 0.30, 0.60))
			salvage += portion(l.Weapons, entropy.Between(src, 0.30, 0.50))
		} else {
			l.Troops = min(contestWinnerCap, portion(total.Troops, entropy.Between(src, 0.10, 0.25)))
			l.Weapons = portion(total.Weapons, entropy.Between(src, 0.05, 0.15))
		}
		left := applyLosses(total, l)

		var outcome string
		switch {
		case !lost:
			setGarrison(s.tribe, hex, left)
			t.landCargo(s.tribe, hex, s.arrivals, true)
			switch {
			case s.tribe == winner:
				outcome = "We hold the hex"
			case winners[s.tribe.ID]:
				outcome = fmt.Sprintf("We stood with %s and hold the hex", winner.Name)
			default:
				outcome = fmt.Sprintf("Our enemies were driven off and we hold our ground beside %s", winner.Name)
			}
		case s.hasOccupant:
			delete(s.tribe.Garrisons, hex)
			outcome = fmt.Sprintf("We were driven out by %s; %s", winner.Name, t.rout(s.tribe, hex, left))
		default:
			outcome = fmt.Sprintf("We were beaten back by %s; %s", winner.Name,
				t.sendHome(s.tribe, hex, s.arrivals[0].Origin, left, cargoOf(s.arrivals), "the survivors"))
		}
		s.tribe.Logf(social.EventCombat, fmt.Sprintf("%s %s. Losses: %d troops, %d weapons.", header, outcome, l.Troops, l.Weapons))
	}

	if g := winner.Garrison(hex); g != nil && salvage > 0 {
		g.Weapons += salvage
		winner.Logf(social.EventCombat, fmt.Sprintf("Salvaged %d weapons from the battlefield at %s.", salvage, key))
	}

	if poi := t.state.Map.POIAt(hex); poi.IsOutpost() && !winners[poi.OwnerTribeID] {
		prev := t.tribe(poi.OwnerTribeID)
		if prev == nil || !prev.HoldsHex(hex) {
			poi.OwnerTribeID = winner.ID
			winner.Logf(social.EventCombat, fmt.Sprintf("The outpost at %s is now ours.", key))
		}
	}

	t.log.Info("contested hex resolved",
		"hex", key,
		"sides", len(fighting),
		"winner", winner.ID,
	)
}
