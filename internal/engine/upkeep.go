package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// Upkeep tuning.
const (
	starvationBase    = 5
	starvationPerFood = 2
	desertionRate     = 0.10
	homelessFactor    = 0.5
)

// poiIncome maps productive POI types to per-troop income.
var poiIncome = map[world.POIType]struct {
	res  economy.Resource
	rate float64
}{
	world.POIFactory:     {economy.ResourceScrap, 5},
	world.POIMine:        {economy.ResourceScrap, 5},
	world.POIFoodSource:  {economy.ResourceFood, 3},
	world.POIScrapyard:   {economy.ResourceScrap, 3},
	world.POIResearchLab: {economy.ResourceScrap, 1.5},
}

// upkeep runs the per-tribe economic pass after its actions.
func (t *turn) upkeep(tr *social.Tribe) {
	t.healChiefs(tr)

	troops, _, chiefs := tr.Totals()
	policy := tr.RationLevel.Policy()
	need := int(math.Ceil(float64(troops)*policy.TroopRate + float64(chiefs)*policy.ChiefRate))
	shortfall := max(need-tr.GlobalResources.Food, 0)
	tr.GlobalResources.Food = max(tr.GlobalResources.Food-need, 0)

	before := tr.GlobalResources.Morale
	switch {
	case shortfall > 0:
		tr.AddMorale(-(starvationBase + starvationPerFood*shortfall))
		tr.Logf(social.EventUpkeep, fmt.Sprintf("The tribe needed %d food but was %d short. Hunger spreads and morale fell to %d.",
			need, shortfall, tr.GlobalResources.Morale))
	default:
		if policy.MoraleMax != 0 || policy.MoraleMin != 0 {
			tr.AddMorale(policy.MoraleMin + t.Rand.Intn(policy.MoraleMax-policy.MoraleMin+1))
		}
		msg := fmt.Sprintf("The tribe ate %d food on %s rations.", need, tr.RationLevel.Normalize())
		if d := tr.GlobalResources.Morale - before; d != 0 {
			msg += fmt.Sprintf(" Morale %+d to %d.", d, tr.GlobalResources.Morale)
		}
		tr.Logf(social.EventUpkeep, msg)
	}

	if tr.GlobalResources.Morale <= starvationMorale {
		t.desert(tr)
	}

	t.collectIncome(tr)
	t.progressResearch(tr)

	tr.ActionEfficiency = policy.ActionEfficiency * economy.MoraleFactor(tr.GlobalResources.Morale)
	tr.ClampResources()
	if t.defeated(tr) {
		tr.Eliminated = true
	}
}

// healChiefs returns injured chiefs whose time has come to a held
// garrison, home first. With nowhere to go they keep waiting.
func (t *turn) healChiefs(tr *social.Tribe) {
	var waiting []social.InjuredChief
	for _, ic := range tr.InjuredChiefs {
		if ic.ReturnTurn > t.number {
			waiting = append(waiting, ic)
			continue
		}
		g := tr.Garrison(tr.Location)
		if !tr.HoldsHome() {
			g = nil
			for _, c := range tr.GarrisonCoords() {
				if tr.HoldsHex(c) {
					g = tr.Garrison(c)
					break
				}
			}
		}
		if g == nil {
			waiting = append(waiting, ic)
			continue
		}
		g.AddChiefs(ic.Chief)
		tr.Logf(social.EventUpkeep, fmt.Sprintf("%s has recovered and rejoined the tribe.", ic.Chief.Name))
	}
	tr.InjuredChiefs = waiting
}

// desert removes a tenth of all troops, emptying the smallest garrisons
// first so the largest concentration holds longest.
func (t *turn) desert(tr *social.Tribe) {
	troops, _, _ := tr.Totals()
	if troops == 0 {
		return
	}
	quota := max(1, int(math.Round(float64(troops)*desertionRate)))

	coords := tr.GarrisonCoords()
	sort.SliceStable(coords, func(i, j int) bool {
		return tr.Garrison(coords[i]).Troops < tr.Garrison(coords[j]).Troops
	})
	left := quota
	for _, c := range coords {
		if left == 0 {
			break
		}
		g := tr.Garrison(c)
		n := min(g.Troops, left)
		g.Troops -= n
		left -= n
	}
	tr.Logf(social.EventUpkeep, fmt.Sprintf("MASS DESERTION! With morale at %d, %d troops abandoned the tribe.",
		tr.GlobalResources.Morale, quota-left))
}

// collectIncome pays POI and passive income, halved for a homeless tribe.
func (t *turn) collectIncome(tr *social.Tribe) {
	var food, scrap float64
	for _, c := range tr.GarrisonCoords() {
		g := tr.Garrison(c)
		poi := t.state.Map.POIAt(c)
		if g.Troops <= 0 || poi == nil {
			continue
		}
		inc, ok := poiIncome[poi.Type]
		if !ok {
			continue
		}
		amount := float64(g.Troops) * inc.rate
		if inc.res == economy.ResourceFood {
			food += amount
		} else {
			scrap += amount
		}
	}
	fx := t.effects(tr)
	food += fx.PassiveFood
	scrap += fx.PassiveScrap

	homeless := !tr.HoldsHome()
	if homeless {
		food *= homelessFactor
		scrap *= homelessFactor
	}
	gotFood, gotScrap := int(food), int(scrap)
	if gotFood == 0 && gotScrap == 0 {
		return
	}
	tr.GlobalResources.Food += gotFood
	tr.GlobalResources.Scrap += gotScrap
	msg := fmt.Sprintf("Holdings produced %d food and %d scrap.", gotFood, gotScrap)
	if homeless {
		msg += " Without a home base, half the yield was lost."
	}
	tr.Logf(social.EventUpkeep, msg)
}

func (t *turn) progressResearch(tr *social.Tribe) {
	p := tr.CurrentResearch
	if p == nil {
		return
	}
	tech := t.Catalog.Technology(p.TechID)
	switch {
	case tech == nil:
		tr.CurrentResearch = nil
		tr.Logf(social.EventResearch, fmt.Sprintf("Research on %q was abandoned: the knowledge no longer exists.", p.TechID))
		return
	case !tr.HoldsHome():
		tr.CurrentResearch = nil
		tr.Logf(social.EventResearch, fmt.Sprintf("With our home base lost, research on %s was abandoned.", tech.Name))
		return
	}

	p.Progress += p.AssignedTroops
	if p.Progress >= tech.ResearchPoints {
		tr.CompletedTechs[tech.ID] = true
		tr.CurrentResearch = nil
		tr.Logf(social.EventResearch, fmt.Sprintf("Breakthrough! Our people have mastered %s. %s", tech.Name, tech.Description))
		return
	}
	tr.Logf(social.EventResearch, fmt.Sprintf("Research on %s advanced to %d/%d.", tech.Name, p.Progress, tech.ResearchPoints))
}

// defeated reports a tribe with no garrisoned force and nothing on the
// road.
func (t *turn) defeated(tr *social.Tribe) bool {
	if tr.ActiveGarrisons() > 0 {
		return false
	}
	for _, j := range t.state.Journeys {
		if j.OwnerTribeID == tr.ID {
			return false
		}
	}
	for _, j := range t.spawned {
		if j.OwnerTribeID == tr.ID {
			return false
		}
	}
	return true
}
