package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

var zeroStock economy.Stock

// Journey tuning.
const (
	tradeWindow        = 3
	scavengePerTroop   = 0.5
	scavengeRiskPerLvl = 0.03
)

// advanceJourneys moves every active journey one step, then resolves all
// arrivals batched by destination hex. The journey list is read as a
// snapshot; new journeys are appended after the pass.
func (t *turn) advanceJourneys(ctx context.Context) error {
	active := t.state.Journeys
	var keep []*Journey
	batches := make(map[world.HexCoord][]*Journey)
	var order []world.HexCoord

	t.inFlight = true
	defer func() { t.inFlight = false }()

	for _, j := range active {
		if err := ctx.Err(); err != nil {
			return err
		}
		owner := t.tribe(j.OwnerTribeID)
		if owner == nil {
			continue
		}

		if j.Status == StatusAwaitingResponse {
			if t.resolveTradeWait(j, owner) {
				keep = append(keep, j)
			}
			continue
		}

		j.ArrivalTurn--
		if j.ArrivalTurn > 0 {
			if j.step() && j.hostileMove() && !t.encounter(j, owner) {
				continue
			}
			keep = append(keep, j)
			continue
		}

		j.CurrentLocation = j.Destination
		j.Path = []world.HexCoord{j.Destination}
		switch j.Type {
		case JourneyMove, JourneyAttack, JourneyBuildOutpost:
		case JourneyReturn:
			if !t.hostileAt(owner, j.Destination) {
				t.arriveReturn(j, owner)
				continue
			}
		case JourneyScout:
			t.arriveScout(j, owner)
			continue
		case JourneyScavenge:
			owner.Logf(social.EventJourney, t.scavenge(owner, j.Destination, j.Force, j.ScavengeType))
			continue
		case JourneyTrade:
			if t.arriveTrade(j, owner) {
				keep = append(keep, j)
			}
			continue
		default:
			t.log.Warn("dropping journey of unknown type", "journey", j.ID, "type", j.Type)
			continue
		}
		if _, seen := batches[j.Destination]; !seen {
			order = append(order, j.Destination)
		}
		batches[j.Destination] = append(batches[j.Destination], j)
	}

	for _, hex := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.resolveArrivals(hex, batches[hex])
	}

	t.state.Journeys = append(keep, t.spawned...)
	t.spawned = nil
	return nil
}

// sendHome dispatches a Return journey carrying force and payload from
// one hex to another. With no route the party is stranded and lost. The
// result is a narrative clause.
func (t *turn) sendHome(owner *social.Tribe, from, to world.HexCoord, force social.Force, payload economy.Stock, who string) string {
	if force.IsEmpty() {
		return "none survived"
	}
	if from == to {
		g := owner.EnsureGarrison(to)
		g.Merge(force)
		t.deposit(owner, g, payload)
		return who + " regrouped in place"
	}
	path, ok := t.FindPath(from, to, t.state.Map)
	if !ok {
		owner.Logf(social.EventJourney, fmt.Sprintf("%s at %s found no way back to %s and are stranded. They are lost.",
			capitalize(who), from.Key(), to.Key()))
		return who + " were stranded"
	}
	turns := world.TravelTurns(path.Cost, t.effects(owner).MovementSpeed)
	t.addJourney(&Journey{
		OwnerTribeID:    owner.ID,
		Type:            JourneyReturn,
		Status:          StatusReturning,
		Origin:          from,
		Destination:     to,
		Path:            path.Hexes,
		CurrentLocation: from,
		ArrivalTurn:     turns,
		Force:           force,
		Payload:         payload,
	})
	return fmt.Sprintf("%s are heading back to %s (%d turns)", who, to.Key(), turns)
}

// deposit pays cargo into the economy: food and scrap to the pool,
// weapons into the garrison that received them.
func (t *turn) deposit(owner *social.Tribe, g *social.Garrison, p economy.Stock) {
	owner.GlobalResources.Food += p.Food
	owner.GlobalResources.Scrap += p.Scrap
	g.Weapons += p.Weapons
}

func (t *turn) arriveReturn(j *Journey, owner *social.Tribe) {
	g := owner.EnsureGarrison(j.Destination)
	g.Merge(j.Force)
	t.deposit(owner, g, j.Payload)
	msg := fmt.Sprintf("A returning party of %d troops reached %s.", j.Force.Troops, j.Destination.Key())
	if !j.Payload.IsZero() {
		msg += fmt.Sprintf(" They brought %s.", describeStock(j.Payload))
	}
	owner.Logf(social.EventJourney, msg)
}

func (t *turn) arriveScout(j *Journey, owner *social.Tribe) {
	owner.Logf(social.EventJourney, t.reconnoitre(owner, j.Destination))
	t.sendHome(owner, j.Destination, j.Origin, j.Force, zeroStock, "the scouts")
}

// reconnoitre reveals the hexes around center and reports what is there.
func (t *turn) reconnoitre(owner *social.Tribe, center world.HexCoord) string {
	explore(owner, center, 1)

	var pois, camps []string
	for _, c := range world.HexesInRange(center, 1) {
		if poi := t.state.Map.POIAt(c); poi != nil {
			desc := fmt.Sprintf("%s %s at %s", poi.Rarity, poi.Type, c.Key())
			if ownerID := poi.OutpostOwner(); ownerID != "" {
				if o := t.tribe(ownerID); o != nil {
					desc += " (outpost of " + o.Name + ")"
				}
			}
			pois = append(pois, desc)
		}
		for _, o := range t.state.GarrisonsAt(c) {
			if o.ID == owner.ID {
				continue
			}
			g := o.Garrison(c)
			camps = append(camps, fmt.Sprintf("%s with %d troops and %d weapons at %s", o.Name, g.Troops, g.Weapons, c.Key()))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scouts surveyed the area around %s (%s).", center.Key(), t.terrainAt(center))
	if len(pois) == 0 {
		b.WriteString(" Nothing of value was found.")
	} else {
		fmt.Fprintf(&b, " Points of interest: %s.", strings.Join(pois, "; "))
	}
	if len(camps) > 0 {
		fmt.Fprintf(&b, " Foreign forces sighted: %s.", strings.Join(camps, "; "))
	}
	return b.String()
}

// scavenge resolves a scavenging party at hex and stations it there.
func (t *turn) scavenge(owner *social.Tribe, hex world.HexCoord, party social.Force, res economy.Resource) string {
	if !res.Valid() {
		res = economy.ResourceScrap
	}
	poi := t.state.Map.POIAt(hex)
	y := float64(party.Troops) * scavengePerTroop
	if poiYields(poi, res) {
		y *= 2
	}
	if poi != nil && poi.Type == world.POIVault {
		y *= 1.5
	}
	y *= 1 + t.effects(owner).ScavengeBonus[res]
	y *= entropy.Between(t.Rand, 0.8, 1.2)
	amount := int(y)

	lost := 0
	if poi != nil && poi.Difficulty > 0 && party.Troops > 0 &&
		entropy.Chance(t.Rand, float64(poi.Difficulty)*scavengeRiskPerLvl) {
		maxLoss := max(1, party.Troops/10)
		lost = min(party.Troops, 1+t.Rand.Intn(maxLoss))
	}
	party.Troops -= lost

	g := owner.EnsureGarrison(hex)
	g.Merge(party)
	t.deposit(owner, g, economy.Stock{}.With(res, amount))
	explore(owner, hex, 0)

	msg := fmt.Sprintf("Scavengers combed %s and recovered %d %s.", hex.Key(), amount, res)
	if poi != nil {
		msg = fmt.Sprintf("Scavengers searched the %s at %s and recovered %d %s.", poi.Type, hex.Key(), amount, res)
	}
	if lost > 0 {
		msg += fmt.Sprintf(" %d troops were lost to the hazards.", lost)
	}
	return msg + " The party is holding the site."
}

// poiYields reports whether a POI type boosts a scavenged resource.
func poiYields(poi *world.POI, res economy.Resource) bool {
	if poi == nil {
		return false
	}
	switch poi.Type {
	case world.POIFoodSource:
		return res == economy.ResourceFood
	case world.POIScrapyard, world.POIFactory, world.POIMine, world.POIRuins:
		return res == economy.ResourceScrap
	case world.POIWeaponsCache:
		return res == economy.ResourceWeapons
	}
	return false
}

// arriveTrade parks a caravan awaiting the target's answer. It returns
// false when the caravan turned back instead.
func (t *turn) arriveTrade(j *Journey, owner *social.Tribe) bool {
	target := t.tribe(j.TargetTribeID)
	if target == nil || !target.HoldsHex(j.Destination) {
		fate := t.sendHome(owner, j.Destination, j.Origin, j.Force, j.Payload, "the caravan")
		owner.Logf(social.EventJourney, fmt.Sprintf("Our caravan found no trading partner at %s; %s.", j.Destination.Key(), fate))
		return false
	}
	j.Status = StatusAwaitingResponse
	j.ResponseDeadline = t.number + tradeWindow
	var request economy.Stock
	if j.TradeOffer != nil {
		request = j.TradeOffer.Request
	}
	target.Logf(social.EventJourney, fmt.Sprintf(
		"A caravan from %s arrived at %s offering %s in exchange for %s. Respond to trade %s before turn %d.",
		owner.Name, j.Destination.Key(), describeStock(j.Payload), describeStock(request), j.ID, j.ResponseDeadline))
	owner.Logf(social.EventJourney, fmt.Sprintf("Our caravan reached %s at %s and awaits an answer.", target.Name, j.Destination.Key()))
	return true
}

// resolveTradeWait settles an awaiting caravan once answered or past its
// deadline. It returns true while the caravan keeps waiting.
func (t *turn) resolveTradeWait(j *Journey, owner *social.Tribe) bool {
	if j.TradeResponse == social.ResponseNone && t.number < j.ResponseDeadline {
		return true
	}
	target := t.tribe(j.TargetTribeID)
	var request economy.Stock
	if j.TradeOffer != nil {
		request = j.TradeOffer.Request
	}

	cargo := j.Payload
	var ownerMsg, targetMsg string
	switch {
	case j.TradeResponse == social.ResponseAccept && target != nil && t.canPay(target, j.Destination, request):
		g := target.Garrison(j.Destination)
		target.GlobalResources.Food -= request.Food
		target.GlobalResources.Scrap -= request.Scrap
		g.Weapons -= request.Weapons
		t.deposit(target, g, j.Payload)
		cargo = request
		ownerMsg = fmt.Sprintf("%s accepted our trade. The caravan returns with %s.", target.Name, describeStock(request))
		targetMsg = fmt.Sprintf("Trade with %s completed: received %s for %s.", owner.Name, describeStock(j.Payload), describeStock(request))
	case j.TradeResponse == social.ResponseAccept && target != nil:
		ownerMsg = fmt.Sprintf("%s agreed to trade but could not pay. The caravan returns with its goods.", target.Name)
		targetMsg = fmt.Sprintf("We could not pay %s's caravan; the trade fell through.", owner.Name)
	case j.TradeResponse == social.ResponseReject:
		ownerMsg = "Our trade offer was rejected. The caravan returns with its goods."
		targetMsg = fmt.Sprintf("We turned away %s's caravan.", owner.Name)
	default:
		ownerMsg = "No answer came to our trade offer. The caravan returns with its goods."
		targetMsg = fmt.Sprintf("%s's caravan left after waiting without an answer.", owner.Name)
	}

	fate := t.sendHome(owner, j.Destination, j.Origin, j.Force, cargo, "the caravan")
	owner.Logf(social.EventJourney, ownerMsg+" ("+fate+")")
	if target != nil {
		target.Logf(social.EventJourney, targetMsg)
	}
	return false
}

// canPay checks the acceptor's current holdings against a request.
func (t *turn) canPay(tr *social.Tribe, hex world.HexCoord, req economy.Stock) bool {
	g := tr.Garrison(hex)
	return g != nil &&
		tr.GlobalResources.Food >= req.Food &&
		tr.GlobalResources.Scrap >= req.Scrap &&
		g.Weapons >= req.Weapons
}

func describeStock(s economy.Stock) string {
	var parts []string
	if s.Food > 0 {
		parts = append(parts, fmt.Sprintf("%d food", s.Food))
	}
	if s.Scrap > 0 {
		parts = append(parts, fmt.Sprintf("%d scrap", s.Scrap))
	}
	if s.Weapons > 0 {
		parts = append(parts, fmt.Sprintf("%d weapons", s.Weapons))
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
