package engine

import (
	"fmt"

	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

// Action tuning.
const (
	starvationMorale    = 20
	restMorale          = 3
	scrapPerWeapon      = 3
	generousBonusChance = 0.20
	outpostTroops       = 5
	outpostScrap        = 20
)

// runAction executes one queued immediate action and returns its
// narrative. Handlers validate before mutating, so a failure leaves the
// world unchanged.
func (t *turn) runAction(tr *social.Tribe, a social.GameAction) string {
	d := a.ActionData
	switch a.ActionType {
	case social.ActionRecruit:
		return t.recruit(tr, d)
	case social.ActionRest:
		return t.rest(tr, d)
	case social.ActionBuildWeapons:
		return t.buildWeapons(tr, d)
	case social.ActionSetRations:
		return t.setRations(tr, d)
	case social.ActionStartResearch:
		return t.startResearch(tr, d)
	case social.ActionBuildOutpost:
		return t.buildOutpost(tr, d)
	case social.ActionMove:
		return t.move(tr, d)
	case social.ActionAttack:
		return t.attack(tr, d)
	case social.ActionScout:
		return t.scout(tr, d)
	case social.ActionScavenge:
		return t.dispatchScavenge(tr, d)
	case social.ActionTrade:
		return t.trade(tr, d)
	case social.ActionRespondToTrade:
		return t.respondToTrade(tr, d)
	case social.ActionReleasePrisoner:
		return t.releasePrisoner(tr, d)
	case social.ActionExchangePrisoners:
		return t.proposeExchange(tr, d)
	case social.ActionRespondToPrisonerExchange:
		return t.respondToExchange(tr, d)
	case social.ActionProposeAlliance:
		return t.propose(tr, d, social.ProposalAlliance)
	case social.ActionSueForPeace:
		return t.propose(tr, d, social.ProposalPeace)
	case social.ActionDeclareWar:
		return t.declareWar(tr, d)
	case social.ActionRespondToProposal:
		return t.respondToProposal(tr, d)
	default:
		return fmt.Sprintf("Unknown action %q was ignored.", a.ActionType)
	}
}

func (t *turn) recruit(tr *social.Tribe, d social.ActionData) string {
	g := tr.Garrison(d.Location)
	if !g.HasForce() {
		return fmt.Sprintf("Recruitment failed: we have no garrison at %s.", d.Location.Key())
	}
	if tr.GlobalResources.Morale <= starvationMorale {
		return "Recruitment failed: starvation unrest keeps anyone from joining."
	}
	if d.FoodOffered <= 0 {
		return "Recruitment failed: no food was offered."
	}
	if tr.GlobalResources.Food < d.FoodOffered {
		return fmt.Sprintf("Recruitment failed: insufficient food (have %d, offered %d).", tr.GlobalResources.Food, d.FoodOffered)
	}

	policy := tr.RationLevel.Policy()
	gained := int(float64(d.FoodOffered/2) * policy.RecruitEfficiency)
	if tr.RationLevel == economy.RationGenerous && entropy.Chance(t.Rand, generousBonusChance) {
		gained++
	}
	tr.GlobalResources.Food -= d.FoodOffered
	g.Troops += gained
	return fmt.Sprintf("Spent %d food and recruited %d new troops at %s.", d.FoodOffered, gained, d.Location.Key())
}

func (t *turn) rest(tr *social.Tribe, d social.ActionData) string {
	if !tr.HoldsHex(d.Location) {
		return fmt.Sprintf("Rest failed: we have no garrison at %s.", d.Location.Key())
	}
	tr.AddMorale(restMorale)
	return fmt.Sprintf("The garrison at %s rested. Morale rose to %d.", d.Location.Key(), tr.GlobalResources.Morale)
}

func (t *turn) buildWeapons(tr *social.Tribe, d social.ActionData) string {
	g := tr.Garrison(d.Location)
	if !g.HasForce() {
		return fmt.Sprintf("Weapon building failed: we have no garrison at %s.", d.Location.Key())
	}
	weapons := d.ScrapOffered / scrapPerWeapon
	if weapons <= 0 {
		return fmt.Sprintf("Weapon building failed: each weapon takes %d scrap.", scrapPerWeapon)
	}
	cost := weapons * scrapPerWeapon
	if tr.GlobalResources.Scrap < cost {
		return fmt.Sprintf("Weapon building failed: insufficient scrap (have %d, need %d).", tr.GlobalResources.Scrap, cost)
	}
	tr.GlobalResources.Scrap -= cost
	g.Weapons += weapons
	return fmt.Sprintf("Forged %d weapons from %d scrap at %s.", weapons, cost, d.Location.Key())
}

func (t *turn) setRations(tr *social.Tribe, d social.ActionData) string {
	level, ok := economy.ParseRationLevel(string(d.RationLevel))
	if !ok {
		return fmt.Sprintf("Ration change failed: %q is not a ration level.", d.RationLevel)
	}
	tr.RationLevel = level
	return fmt.Sprintf("Rations set to %s.", level)
}

func (t *turn) startResearch(tr *social.Tribe, d social.ActionData) string {
	tech := t.Catalog.Technology(d.TechID)
	switch {
	case tech == nil:
		return fmt.Sprintf("Research failed: unknown technology %q.", d.TechID)
	case tr.CurrentResearch != nil:
		return "Research failed: a project is already under way."
	case tr.CompletedTechs[tech.ID]:
		return fmt.Sprintf("Research failed: %s is already known.", tech.Name)
	}
	for _, p := range tech.Prerequisites {
		if !tr.CompletedTechs[p] {
			req := p
			if pt := t.Catalog.Technology(p); pt != nil {
				req = pt.Name
			}
			return fmt.Sprintf("Research failed: %s requires %s.", tech.Name, req)
		}
	}
	if tr.GlobalResources.Scrap < tech.Cost {
		return fmt.Sprintf("Research failed: %s costs %d scrap (have %d).", tech.Name, tech.Cost, tr.GlobalResources.Scrap)
	}
	g := tr.Garrison(d.Location)
	if g == nil || g.Troops < d.AssignedTroops {
		return fmt.Sprintf("Research failed: not enough troops at %s.", d.Location.Key())
	}
	if d.AssignedTroops < tech.RequiredTroops || d.AssignedTroops <= 0 {
		return fmt.Sprintf("Research failed: %s needs at least %d troops assigned.", tech.Name, tech.RequiredTroops)
	}

	tr.GlobalResources.Scrap -= tech.Cost
	tr.CurrentResearch = &social.ResearchProject{
		TechID:         tech.ID,
		Location:       d.Location,
		AssignedTroops: d.AssignedTroops,
	}
	return fmt.Sprintf("Began researching %s with %d troops for %d scrap.", tech.Name, d.AssignedTroops, tech.Cost)
}
