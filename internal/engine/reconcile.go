package engine

import (
	"context"
	"fmt"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

// reconcileProposals applies answered proposals and drops expired ones.
// A proposal expires once the turn being entered reaches ExpiresOnTurn.
func (t *turn) reconcileProposals(ctx context.Context) error {
	next := t.number + 1

	var keep []*social.DiplomaticProposal
	for _, p := range t.state.DiplomaticProposals {
		from, to := t.tribe(p.FromTribeID), t.tribe(p.ToTribeID)
		if from == nil || to == nil {
			continue
		}
		switch {
		case p.Response == social.ResponseAccept:
			status := social.StatusAlliance
			if p.StatusChange == social.ProposalPeace {
				status = social.StatusNeutral
			}
			social.SetMutual(from, to, status)
			from.Logf(social.EventDiplomacy, fmt.Sprintf("%s accepted our %s proposal.", to.Name, p.StatusChange))
			to.Logf(social.EventDiplomacy, fmt.Sprintf("Our %s with %s is now in effect.", p.StatusChange, from.Name))
		case p.Response == social.ResponseReject:
			from.Logf(social.EventDiplomacy, fmt.Sprintf("%s rejected our %s proposal.", to.Name, p.StatusChange))
			to.Logf(social.EventDiplomacy, fmt.Sprintf("We rejected the %s proposal from %s.", p.StatusChange, from.Name))
		case next >= p.ExpiresOnTurn:
			from.Logf(social.EventDiplomacy, fmt.Sprintf("Our %s proposal to %s expired without an answer.", p.StatusChange, to.Name))
			to.Logf(social.EventDiplomacy, fmt.Sprintf("The %s proposal from %s expired.", p.StatusChange, from.Name))
		default:
			keep = append(keep, p)
		}
	}
	t.state.DiplomaticProposals = keep

	var pending []*social.PrisonerExchangeProposal
	for _, p := range t.state.PrisonerExchangeProposals {
		if err := ctx.Err(); err != nil {
			return err
		}
		from, to := t.tribe(p.FromTribeID), t.tribe(p.ToTribeID)
		if from == nil || to == nil {
			continue
		}
		switch {
		case p.Response == social.ResponseAccept:
			t.settleExchange(p, from, to)
		case p.Response == social.ResponseReject:
			from.Logf(social.EventDiplomacy, fmt.Sprintf("%s rejected our prisoner exchange.", to.Name))
			to.Logf(social.EventDiplomacy, fmt.Sprintf("We rejected the prisoner exchange from %s.", from.Name))
		case next >= p.ExpiresOnTurn:
			from.Logf(social.EventDiplomacy, fmt.Sprintf("Our prisoner exchange offer to %s expired.", to.Name))
			to.Logf(social.EventDiplomacy, fmt.Sprintf("The prisoner exchange offer from %s expired.", from.Name))
		default:
			pending = append(pending, p)
		}
	}
	t.state.PrisonerExchangeProposals = pending
	return nil
}

// settleExchange swaps the named prisoners after checking both sides
// still hold them.
func (t *turn) settleExchange(p *social.PrisonerExchangeProposal, from, to *social.Tribe) {
	if prisonersHeld(from, p.OfferedChiefNames) != "" || prisonersHeld(to, p.RequestedChiefNames) != "" {
		msg := "The prisoner exchange fell through: the captives were no longer held."
		from.Logf(social.EventDiplomacy, msg)
		to.Logf(social.EventDiplomacy, msg)
		return
	}
	for _, n := range p.OfferedChiefNames {
		pr, _ := from.TakePrisoner(n)
		t.handOver(pr, to)
	}
	for _, n := range p.RequestedChiefNames {
		pr, _ := to.TakePrisoner(n)
		t.handOver(pr, from)
	}
	from.Logf(social.EventDiplomacy, fmt.Sprintf("Exchanged %s for %s with %s.",
		nameList(p.OfferedChiefNames), nameList(p.RequestedChiefNames), to.Name))
	to.Logf(social.EventDiplomacy, fmt.Sprintf("Exchanged %s for %s with %s.",
		nameList(p.RequestedChiefNames), nameList(p.OfferedChiefNames), from.Name))
}

// handOver gives a prisoner to a tribe: its own chiefs come home, anyone
// else's stays captive.
func (t *turn) handOver(pr social.Prisoner, to *social.Tribe) {
	if pr.OriginalOwnerID == to.ID {
		t.returnChief(to, pr.Chief)
		return
	}
	to.Prisoners = append(to.Prisoners, pr)
}
