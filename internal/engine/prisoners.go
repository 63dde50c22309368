package engine

import (
	"fmt"
	"strings"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

// returnChief puts a freed chief back with its tribe: home first, then
// any held garrison. A tribe with no garrisons gets the chief back once
// it holds ground again.
func (t *turn) returnChief(owner *social.Tribe, c social.Chief) {
	if owner.HoldsHome() {
		owner.Garrison(owner.Location).AddChiefs(c)
		return
	}
	for _, coord := range owner.GarrisonCoords() {
		if owner.HoldsHex(coord) {
			owner.Garrison(coord).AddChiefs(c)
			return
		}
	}
	owner.InjuredChiefs = append(owner.InjuredChiefs, social.InjuredChief{Chief: c, ReturnTurn: t.number + 1})
}

func (t *turn) releasePrisoner(tr *social.Tribe, d social.ActionData) string {
	p, ok := tr.TakePrisoner(d.ChiefName)
	if !ok {
		return fmt.Sprintf("Release failed: we hold no prisoner named %s.", d.ChiefName)
	}
	owner := t.tribe(p.OriginalOwnerID)
	if owner == nil || owner.Eliminated {
		return fmt.Sprintf("Released %s, who wandered off into the wastes.", p.Chief.Name)
	}
	t.returnChief(owner, p.Chief)
	owner.Logf(social.EventDiplomacy, fmt.Sprintf("%s released our chief %s, who has rejoined us.", tr.Name, p.Chief.Name))
	return fmt.Sprintf("Released %s back to %s.", p.Chief.Name, owner.Name)
}

// prisonersHeld reports the first name in names that holder does not
// have captive, or "".
func prisonersHeld(holder *social.Tribe, names []string) string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] || !holder.HasPrisoner(n) {
			return n
		}
		seen[n] = true
	}
	return ""
}

func (t *turn) proposeExchange(tr *social.Tribe, d social.ActionData) string {
	target := t.tribe(d.TargetTribeID)
	switch {
	case target == nil || target.ID == tr.ID || target.Eliminated:
		return "Exchange failed: no such tribe."
	case len(d.OfferedChiefs) == 0 && len(d.RequestedChiefs) == 0:
		return "Exchange failed: no prisoners were named."
	}
	if n := prisonersHeld(tr, d.OfferedChiefs); n != "" {
		return fmt.Sprintf("Exchange failed: we do not hold %s.", n)
	}
	if n := prisonersHeld(target, d.RequestedChiefs); n != "" {
		return fmt.Sprintf("Exchange failed: %s does not hold %s.", target.Name, n)
	}

	p := &social.PrisonerExchangeProposal{
		ID:                  t.NewID(),
		FromTribeID:         tr.ID,
		ToTribeID:           target.ID,
		OfferedChiefNames:   append([]string(nil), d.OfferedChiefs...),
		RequestedChiefNames: append([]string(nil), d.RequestedChiefs...),
		ExpiresOnTurn:       t.number + social.ProposalLifetime,
	}
	t.state.PrisonerExchangeProposals = append(t.state.PrisonerExchangeProposals, p)
	target.Logf(social.EventDiplomacy, fmt.Sprintf(
		"%s proposes a prisoner exchange: %s for %s. Respond to exchange %s before turn %d.",
		tr.Name, nameList(p.OfferedChiefNames), nameList(p.RequestedChiefNames), p.ID, p.ExpiresOnTurn))
	return fmt.Sprintf("Proposed a prisoner exchange to %s.", target.Name)
}

func (t *turn) respondToExchange(tr *social.Tribe, d social.ActionData) string {
	var p *social.PrisonerExchangeProposal
	for _, c := range t.state.PrisonerExchangeProposals {
		if c.ID == d.ProposalID {
			p = c
			break
		}
	}
	switch {
	case p == nil || p.ToTribeID != tr.ID:
		return "Exchange response failed: no such exchange was offered to us."
	case p.Response != social.ResponseNone:
		return "Exchange response failed: we already answered."
	case d.Response != social.ResponseAccept && d.Response != social.ResponseReject:
		return fmt.Sprintf("Exchange response failed: %q is not an answer.", d.Response)
	}
	p.Response = d.Response
	if d.Response == social.ResponseAccept {
		return "Accepted the prisoner exchange. The swap happens at the end of the turn."
	}
	return "Rejected the prisoner exchange."
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "nothing"
	}
	return strings.Join(names, ", ")
}
