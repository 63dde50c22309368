package engine

import (
	"fmt"
	"strings"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// fastTrackTurns is the longest trip resolved the turn it is ordered.
const fastTrackTurns = 1

// route is a validated travel plan.
type route struct {
	path  world.Path
	turns int
}

// planRoute finds a path and checks it against hostile outposts. The
// returned reason is empty on success.
func (t *turn) planRoute(tr *social.Tribe, from, to world.HexCoord, attack bool) (route, string) {
	if from == to {
		return route{}, "the destination is where they already stand"
	}
	if !t.state.Map.InBounds(to) {
		return route{}, fmt.Sprintf("%s lies beyond the edge of the map", to.Key())
	}
	if !t.state.Map.TerrainAt(to).Passable() {
		return route{}, fmt.Sprintf("%s cannot be reached on foot", to.Key())
	}
	path, ok := t.FindPath(from, to, t.state.Map)
	if !ok {
		return route{}, fmt.Sprintf("no path from %s to %s", from.Key(), to.Key())
	}
	if hex, blocked := t.blockingOutpost(tr, path.Hexes, attack); blocked {
		return route{}, fmt.Sprintf("the way is blocked by a hostile outpost at %s", hex.Key())
	}
	return route{path: path, turns: world.TravelTurns(path.Cost, t.effects(tr).MovementSpeed)}, ""
}

// checkForce reports why g cannot supply the force, or "".
func checkForce(g *social.Garrison, troops, weapons int, chiefs []string) string {
	switch {
	case g == nil:
		return "we have no garrison there"
	case troops < 0 || weapons < 0:
		return "force sizes cannot be negative"
	case g.Troops < troops:
		return fmt.Sprintf("only %d troops are available", g.Troops)
	case g.Weapons < weapons:
		return fmt.Sprintf("only %d weapons are available", g.Weapons)
	}
	for _, c := range chiefs {
		if !g.HasChief(c) {
			return fmt.Sprintf("chief %s is not at that garrison", c)
		}
	}
	return ""
}

// detach removes a force from g. Callers check it first with checkForce.
func detach(g *social.Garrison, troops, weapons int, chiefs []string) social.Force {
	taken, _ := g.TakeChiefs(chiefs)
	g.Troops -= troops
	g.Weapons -= weapons
	return social.Force{Troops: troops, Weapons: weapons, Chiefs: taken}
}

// launch creates the journey for a validated route. It takes its first
// step in this turn's journey phase, where the hex it enters is checked
// for enemies.
func (t *turn) launch(tr *social.Tribe, kind JourneyType, r route, force social.Force) *Journey {
	hexes := append([]world.HexCoord(nil), r.path.Hexes...)
	j := &Journey{
		OwnerTribeID:    tr.ID,
		Type:            kind,
		Status:          StatusEnRoute,
		Origin:          hexes[0],
		Destination:     hexes[len(hexes)-1],
		Path:            hexes,
		CurrentLocation: hexes[0],
		ArrivalTurn:     r.turns,
		Force:           force,
	}
	t.addJourney(j)
	return j
}

func describeForce(f social.Force) string {
	s := fmt.Sprintf("%d troops", f.Troops)
	if f.Weapons > 0 {
		s += fmt.Sprintf(", %d weapons", f.Weapons)
	}
	if len(f.Chiefs) > 0 {
		s += " led by " + chiefNames(f.Chiefs)
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func (t *turn) move(tr *social.Tribe, d social.ActionData) string {
	if d.Troops+d.Weapons+len(d.Chiefs) <= 0 {
		return "Move failed: no forces were assigned."
	}
	g := tr.Garrison(d.Location)
	if why := checkForce(g, d.Troops, d.Weapons, d.Chiefs); why != "" {
		return "Move failed: " + why + "."
	}
	r, why := t.planRoute(tr, d.Location, d.Destination, false)
	if why != "" {
		return "Move failed: " + why + "."
	}
	force := detach(g, d.Troops, d.Weapons, d.Chiefs)

	if r.turns <= fastTrackTurns && !t.hostileAt(tr, d.Destination) {
		tr.EnsureGarrison(d.Destination).Merge(force)
		explore(tr, d.Destination, 0)
		return fmt.Sprintf("Moved %s from %s to %s.", describeForce(force), d.Location.Key(), d.Destination.Key())
	}
	t.launch(tr, JourneyMove, r, force)
	return fmt.Sprintf("Dispatched %s toward %s, arriving in %s.", describeForce(force), d.Destination.Key(), plural(r.turns, "turn"))
}

func (t *turn) attack(tr *social.Tribe, d social.ActionData) string {
	if d.Troops <= 0 {
		return "Attack failed: an attack needs troops."
	}
	g := tr.Garrison(d.Location)
	if why := checkForce(g, d.Troops, d.Weapons, d.Chiefs); why != "" {
		return "Attack failed: " + why + "."
	}
	r, why := t.planRoute(tr, d.Location, d.Destination, true)
	if why != "" {
		return "Attack failed: " + why + "."
	}
	force := detach(g, d.Troops, d.Weapons, d.Chiefs)
	t.launch(tr, JourneyAttack, r, force)
	return fmt.Sprintf("Attack force of %s is marching on %s, arriving in %s.", describeForce(force), d.Destination.Key(), plural(r.turns, "turn"))
}

func (t *turn) scout(tr *social.Tribe, d social.ActionData) string {
	if d.Troops <= 0 {
		return "Scouting failed: no scouts were assigned."
	}
	g := tr.Garrison(d.Location)
	if why := checkForce(g, d.Troops, 0, d.Chiefs); why != "" {
		return "Scouting failed: " + why + "."
	}
	r, why := t.planRoute(tr, d.Location, d.Destination, false)
	if why != "" {
		return "Scouting failed: " + why + "."
	}
	if r.turns <= fastTrackTurns {
		return t.reconnoitre(tr, d.Destination)
	}
	force := detach(g, d.Troops, 0, d.Chiefs)
	t.launch(tr, JourneyScout, r, force)
	return fmt.Sprintf("Sent %s to scout %s, arriving in %s.", describeForce(force), d.Destination.Key(), plural(r.turns, "turn"))
}

func (t *turn) dispatchScavenge(tr *social.Tribe, d social.ActionData) string {
	if d.Troops <= 0 {
		return "Scavenging failed: no troops were assigned."
	}
	if !d.ResourceType.Valid() {
		return fmt.Sprintf("Scavenging failed: %q is not a resource.", d.ResourceType)
	}
	g := tr.Garrison(d.Location)
	if why := checkForce(g, d.Troops, 0, d.Chiefs); why != "" {
		return "Scavenging failed: " + why + "."
	}
	r, why := t.planRoute(tr, d.Location, d.Destination, false)
	if why != "" {
		return "Scavenging failed: " + why + "."
	}
	force := detach(g, d.Troops, 0, d.Chiefs)
	if r.turns <= fastTrackTurns && !t.hostileAt(tr, d.Destination) {
		return t.scavenge(tr, d.Destination, force, d.ResourceType)
	}
	j := t.launch(tr, JourneyScavenge, r, force)
	j.ScavengeType = d.ResourceType
	return fmt.Sprintf("Sent %s to scavenge %s at %s, arriving in %s.", describeForce(force), d.ResourceType, d.Destination.Key(), plural(r.turns, "turn"))
}

func (t *turn) trade(tr *social.Tribe, d social.ActionData) string {
	target := t.tribe(d.TargetTribeID)
	switch {
	case target == nil || target.ID == tr.ID:
		return "Trade failed: no such trading partner."
	case social.IsAtWar(tr, target):
		return fmt.Sprintf("Trade failed: we are at war with %s.", target.Name)
	case d.Troops <= 0:
		return "Trade failed: a caravan needs an escort."
	case d.Offer.IsZero():
		return "Trade failed: nothing was offered."
	case d.Offer.Food < 0 || d.Offer.Scrap < 0 || d.Offer.Weapons < 0 || d.Request.Food < 0 || d.Request.Scrap < 0 || d.Request.Weapons < 0:
		return "Trade failed: amounts cannot be negative."
	case tr.GlobalResources.Food < d.Offer.Food || tr.GlobalResources.Scrap < d.Offer.Scrap:
		return "Trade failed: we cannot cover the offer."
	}
	g := tr.Garrison(d.Location)
	if why := checkForce(g, d.Troops, d.Weapons+d.Offer.Weapons, d.Chiefs); why != "" {
		return "Trade failed: " + why + "."
	}
	r, why := t.planRoute(tr, d.Location, d.Destination, false)
	if why != "" {
		return "Trade failed: " + why + "."
	}

	force := detach(g, d.Troops, d.Weapons+d.Offer.Weapons, d.Chiefs)
	force.Weapons -= d.Offer.Weapons
	tr.GlobalResources.Food -= d.Offer.Food
	tr.GlobalResources.Scrap -= d.Offer.Scrap

	j := t.launch(tr, JourneyTrade, r, force)
	j.Payload = d.Offer
	j.TargetTribeID = target.ID
	j.TradeOffer = &TradeOffer{Request: d.Request, FromTribeName: tr.Name}
	return fmt.Sprintf("A caravan carrying %s left for %s at %s, arriving in %s.",
		describeStock(d.Offer), target.Name, d.Destination.Key(), plural(r.turns, "turn"))
}

func (t *turn) buildOutpost(tr *social.Tribe, d social.ActionData) string {
	g := tr.Garrison(d.Location)
	h := t.state.Map.Get(d.Destination)
	switch {
	case g == nil || g.Troops < outpostTroops:
		return fmt.Sprintf("Outpost failed: %d troops are needed at %s.", outpostTroops, d.Location.Key())
	case tr.GlobalResources.Scrap < outpostScrap:
		return fmt.Sprintf("Outpost failed: %d scrap is needed (have %d).", outpostScrap, tr.GlobalResources.Scrap)
	case h == nil || !h.Terrain.Passable():
		return fmt.Sprintf("Outpost failed: nothing can be built at %s.", d.Destination.Key())
	case h.POI.IsOutpost():
		return fmt.Sprintf("Outpost failed: %s is already an outpost.", d.Destination.Key())
	}

	if d.Location == d.Destination {
		tr.GlobalResources.Scrap -= outpostScrap
		return t.completeOutpost(tr, d.Destination)
	}
	r, why := t.planRoute(tr, d.Location, d.Destination, false)
	if why != "" {
		return "Outpost failed: " + why + "."
	}
	tr.GlobalResources.Scrap -= outpostScrap
	force := detach(g, outpostTroops, 0, nil)
	if r.turns <= fastTrackTurns && !t.hostileAt(tr, d.Destination) {
		tr.EnsureGarrison(d.Destination).Merge(force)
		explore(tr, d.Destination, 0)
		return t.completeOutpost(tr, d.Destination)
	}
	t.launch(tr, JourneyBuildOutpost, r, force)
	return fmt.Sprintf("Builders set out for %s, arriving in %s.", d.Destination.Key(), plural(r.turns, "turn"))
}

// findJourney looks up an active journey by id.
func (t *turn) findJourney(id string) *Journey {
	for _, j := range t.state.Journeys {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func (t *turn) respondToTrade(tr *social.Tribe, d social.ActionData) string {
	j := t.findJourney(d.JourneyID)
	switch {
	case j == nil || j.Type != JourneyTrade || j.Status != StatusAwaitingResponse:
		return "Trade response failed: no caravan is waiting for that answer."
	case j.TargetTribeID != tr.ID:
		return "Trade response failed: that caravan is not waiting on us."
	case j.TradeResponse != social.ResponseNone:
		return "Trade response failed: we already answered that caravan."
	case d.Response != social.ResponseAccept && d.Response != social.ResponseReject:
		return fmt.Sprintf("Trade response failed: %q is not an answer.", d.Response)
	}
	j.TradeResponse = d.Response
	from := "the caravan"
	if j.TradeOffer != nil {
		from = j.TradeOffer.FromTribeName + "'s caravan"
	}
	return fmt.Sprintf("We will %s the offer from %s.", strings.ToLower(string(d.Response)), from)
}
