// Package ai generates orders for computer-controlled tribes.
//
// Each turn a tribe weighs its needs bottom-up (food, morale, defense,
// growth, expansion) and queues orders for the most pressing ones. Troops
// committed to one order are not offered to the next.
package ai

import (
	"math"
	"sort"

	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// Planner thresholds.
const (
	foodReserveTurns  = 2   // turns of food below which the tribe goes hungry
	foodSurplusTurns  = 4   // turns of food above which rations relax
	moraleFloor       = 35  // rest below this
	recruitCap        = 60  // stop recruiting past this many troops at base
	attackRatio       = 2.0 // our strength must exceed theirs by this factor
	attackRange       = 5
	expansionRange    = 3
	scoutRange        = 4
	outpostReserve    = 10 // troops kept at base when building
	weaponScrapBuffer = 10
)

// Planner is the default heuristic generator.
type Planner struct {
	Catalog  *catalog.Catalog
	FindPath func(from, to world.HexCoord, m *world.Map) (world.Path, bool)
	Rand     entropy.Source
}

// New returns a planner over the given catalog and random source.
func New(cat *catalog.Catalog, src entropy.Source) *Planner {
	if cat == nil {
		cat = catalog.Default()
	}
	if src == nil {
		src = entropy.NewSource(0)
	}
	return &Planner{Catalog: cat, FindPath: world.FindPath, Rand: src}
}

// plan is the working set for one tribe's orders.
type plan struct {
	p      *Planner
	tribe  *social.Tribe
	all    []*social.Tribe
	m      *world.Map
	turn   int
	base   world.HexCoord
	avail  int // uncommitted troops at base
	weapon int // uncommitted weapons at base
	food   int
	scrap  int
	out    []social.GameAction
}

// GenerateActions implements engine.ActionGenerator.
func (p *Planner) GenerateActions(t *social.Tribe, all []*social.Tribe, m *world.Map, turn int) []social.GameAction {
	base, ok := baseOf(t)
	if !ok {
		return nil
	}
	g := t.Garrison(base)
	pl := &plan{
		p:      p,
		tribe:  t,
		all:    all,
		m:      m,
		turn:   turn,
		base:   base,
		avail:  g.Troops,
		weapon: g.Weapons,
		food:   t.GlobalResources.Food,
		scrap:  t.GlobalResources.Scrap,
	}

	pl.feed()
	pl.rest()
	pl.arm()
	pl.research()
	pl.attack()
	pl.expand()
	pl.scout()
	return pl.out
}

// baseOf is the home hex if held, else the largest garrison.
func baseOf(t *social.Tribe) (world.HexCoord, bool) {
	if t.HoldsHome() {
		return t.Location, true
	}
	var best world.HexCoord
	found := false
	for _, c := range t.GarrisonCoords() {
		g := t.Garrison(c)
		if !g.HasForce() {
			continue
		}
		if !found || g.Troops > t.Garrison(best).Troops {
			best, found = c, true
		}
	}
	return best, found
}

func (pl *plan) add(kind social.ActionType, d social.ActionData) {
	if d.Location == (world.HexCoord{}) {
		d.Location = pl.base
	}
	pl.out = append(pl.out, social.GameAction{ActionType: kind, ActionData: d})
}

// upkeep is the food the tribe eats per turn at the given level.
func (pl *plan) upkeep(level economy.RationLevel) int {
	troops, _, chiefs := pl.tribe.Totals()
	pol := level.Policy()
	return int(math.Ceil(float64(troops)*pol.TroopRate + float64(chiefs)*pol.ChiefRate))
}

// feed tightens rations when food runs low and sends foragers out.
func (pl *plan) feed() {
	level := pl.tribe.RationLevel
	need := pl.upkeep(level)
	switch {
	case pl.food < need*foodReserveTurns:
		if level != economy.RationHard {
			pl.add(social.ActionSetRations, social.ActionData{RationLevel: economy.RationHard})
		}
		if party := pl.avail / 4; party > 0 {
			if dest, ok := pl.nearestPOI(world.POIFoodSource, scoutRange); ok {
				pl.add(social.ActionScavenge, social.ActionData{Destination: dest, Troops: party, ResourceType: economy.ResourceFood})
				pl.avail -= party
			}
		}
	case level == economy.RationHard && pl.food > need*foodSurplusTurns:
		pl.add(social.ActionSetRations, social.ActionData{RationLevel: economy.RationNormal})
	}
}

func (pl *plan) rest() {
	if pl.tribe.GlobalResources.Morale < moraleFloor {
		pl.add(social.ActionRest, social.ActionData{})
		return
	}
	need := pl.upkeep(pl.tribe.RationLevel)
	if pl.food > need*foodSurplusTurns && pl.avail < recruitCap && pl.tribe.GlobalResources.Morale > 20 {
		offer := (pl.food - need*foodReserveTurns) / 2
		offer -= offer % 2
		if offer >= 2 {
			pl.add(social.ActionRecruit, social.ActionData{FoodOffered: offer})
			pl.food -= offer
		}
	}
}

// arm turns spare scrap into weapons until half the troops carry one.
func (pl *plan) arm() {
	if pl.weapon*2 >= pl.avail {
		return
	}
	spare := pl.scrap - weaponScrapBuffer
	if pl.tribe.CurrentResearch == nil {
		spare -= pl.cheapestTechCost()
	}
	want := min(pl.avail/2-pl.weapon, spare/3)
	if want <= 0 {
		return
	}
	pl.add(social.ActionBuildWeapons, social.ActionData{ScrapOffered: want * 3})
	pl.scrap -= want * 3
}

func (pl *plan) cheapestTechCost() int {
	best := 0
	for _, tech := range pl.p.Catalog.Available(pl.tribe.CompletedTechs) {
		if best == 0 || tech.Cost < best {
			best = tech.Cost
		}
	}
	return best
}

// research starts the cheapest affordable tech when idle.
func (pl *plan) research() {
	if pl.tribe.CurrentResearch != nil || pl.base != pl.tribe.Location {
		return
	}
	avail := pl.p.Catalog.Available(pl.tribe.CompletedTechs)
	sort.SliceStable(avail, func(i, j int) bool { return avail[i].Cost < avail[j].Cost })
	for _, tech := range avail {
		assigned := max(tech.RequiredTroops, 1)
		if tech.Cost > pl.scrap || assigned > pl.avail/2 {
			continue
		}
		pl.add(social.ActionStartResearch, social.ActionData{TechID: tech.ID, AssignedTroops: assigned})
		pl.scrap -= tech.Cost
		return
	}
}

// attack strikes the weakest enemy garrison in reach when clearly ahead.
func (pl *plan) attack() {
	ours := float64(pl.avail) + 1.5*float64(pl.weapon)
	type target struct {
		coord    world.HexCoord
		strength float64
	}
	var targets []target
	for _, o := range pl.all {
		if o.ID == pl.tribe.ID || o.Eliminated || !social.IsAtWar(pl.tribe, o) {
			continue
		}
		for _, c := range o.GarrisonCoords() {
			g := o.Garrison(c)
			if !g.HasForce() || world.Distance(pl.base, c) > attackRange {
				continue
			}
			targets = append(targets, target{c, float64(g.Troops) + 1.5*float64(g.Weapons)})
		}
	}
	if len(targets) == 0 {
		return
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].strength == targets[j].strength {
			return targets[i].coord.Key() < targets[j].coord.Key()
		}
		return targets[i].strength < targets[j].strength
	})
	tg := targets[0]
	troops := pl.avail * 3 / 5
	weapons := pl.weapon * 3 / 5
	if float64(troops)+1.5*float64(weapons) < tg.strength*attackRatio || ours <= 0 {
		return
	}
	if _, ok := pl.p.FindPath(pl.base, tg.coord, pl.m); !ok {
		return
	}
	pl.add(social.ActionAttack, social.ActionData{Destination: tg.coord, Troops: troops, Weapons: weapons})
	pl.avail -= troops
	pl.weapon -= weapons
}

// expand fortifies a nearby unclaimed productive POI every few turns.
func (pl *plan) expand() {
	if pl.turn%3 != 0 || pl.scrap < 20 || pl.avail < 5+outpostReserve {
		return
	}
	var best world.HexCoord
	bestDist := -1
	for _, c := range world.HexesInRange(pl.base, expansionRange) {
		poi := pl.m.POIAt(c)
		if poi == nil || poi.IsOutpost() || c == pl.base || pl.occupied(c) {
			continue
		}
		if d := world.Distance(pl.base, c); bestDist < 0 || d < bestDist || (d == bestDist && c.Key() < best.Key()) {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 {
		return
	}
	pl.add(social.ActionBuildOutpost, social.ActionData{Destination: best})
	pl.avail -= 5
	pl.scrap -= 20
}

// scout sends a lone scout toward an unexplored hex now and then.
func (pl *plan) scout() {
	if pl.turn%4 != 1 || pl.avail < 2 {
		return
	}
	var unknown []world.HexCoord
	for _, c := range world.HexesInRange(pl.base, scoutRange) {
		if !pl.tribe.ExploredHexes[c] && pl.m.TerrainAt(c).Passable() {
			unknown = append(unknown, c)
		}
	}
	if len(unknown) == 0 {
		return
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].Key() < unknown[j].Key() })
	dest := unknown[pl.p.Rand.Intn(len(unknown))]
	pl.add(social.ActionScout, social.ActionData{Destination: dest, Troops: 1})
	pl.avail--
}

func (pl *plan) occupied(c world.HexCoord) bool {
	for _, o := range pl.all {
		if o.HoldsHex(c) {
			return true
		}
	}
	return false
}

func (pl *plan) nearestPOI(kind world.POIType, radius int) (world.HexCoord, bool) {
	var best world.HexCoord
	bestDist := -1
	for _, c := range world.HexesInRange(pl.base, radius) {
		if c == pl.base {
			continue
		}
		poi := pl.m.POIAt(c)
		if poi == nil || poi.Type != kind {
			continue
		}
		if d := world.Distance(pl.base, c); bestDist < 0 || d < bestDist || (d == bestDist && c.Key() < best.Key()) {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}
