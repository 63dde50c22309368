package engine

import (
	"fmt"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

func (t *turn) counterpart(tr *social.Tribe, id string) (*social.Tribe, string) {
	o := t.tribe(id)
	if o == nil || o.Eliminated {
		return nil, "no such tribe"
	}
	if o.ID == tr.ID {
		return nil, "a tribe cannot treat with itself"
	}
	return o, ""
}

func (t *turn) propose(tr *social.Tribe, d social.ActionData, kind social.ProposalKind) string {
	label := "Alliance proposal"
	if kind == social.ProposalPeace {
		label = "Peace offer"
	}
	target, why := t.counterpart(tr, d.TargetTribeID)
	if target == nil {
		return label + " failed: " + why + "."
	}
	switch kind {
	case social.ProposalAlliance:
		if social.IsAllied(tr, target) {
			return fmt.Sprintf("%s failed: we are already allied with %s.", label, target.Name)
		}
		if social.IsAtWar(tr, target) {
			return fmt.Sprintf("%s failed: we must make peace with %s first.", label, target.Name)
		}
	case social.ProposalPeace:
		if !social.IsAtWar(tr, target) {
			return fmt.Sprintf("%s failed: we are not at war with %s.", label, target.Name)
		}
	}
	for _, p := range t.state.DiplomaticProposals {
		if p.FromTribeID == tr.ID && p.ToTribeID == target.ID && p.StatusChange == kind && p.Response == social.ResponseNone {
			return fmt.Sprintf("%s failed: an offer to %s is already pending.", label, target.Name)
		}
	}

	p := &social.DiplomaticProposal{
		ID:            t.NewID(),
		FromTribeID:   tr.ID,
		FromTribeName: tr.Name,
		ToTribeID:     target.ID,
		StatusChange:  kind,
		ExpiresOnTurn: t.number + social.ProposalLifetime,
	}
	t.state.DiplomaticProposals = append(t.state.DiplomaticProposals, p)
	target.Logf(social.EventDiplomacy, fmt.Sprintf("%s sent us a %s proposal. Respond to proposal %s before turn %d.",
		tr.Name, kind, p.ID, p.ExpiresOnTurn))
	return fmt.Sprintf("Sent a %s proposal to %s.", kind, target.Name)
}

func (t *turn) declareWar(tr *social.Tribe, d social.ActionData) string {
	target, why := t.counterpart(tr, d.TargetTribeID)
	if target == nil {
		return "War declaration failed: " + why + "."
	}
	if social.IsAtWar(tr, target) {
		return fmt.Sprintf("War declaration failed: we are already at war with %s.", target.Name)
	}
	social.SetMutual(tr, target, social.StatusWar)
	target.Logf(social.EventDiplomacy, fmt.Sprintf("%s has declared war on us!", tr.Name))
	return fmt.Sprintf("Declared war on %s.", target.Name)
}

func (t *turn) respondToProposal(tr *social.Tribe, d social.ActionData) string {
	var p *social.DiplomaticProposal
	for _, c := range t.state.DiplomaticProposals {
		if c.ID == d.ProposalID {
			p = c
			break
		}
	}
	switch {
	case p == nil || p.ToTribeID != tr.ID:
		return "Proposal response failed: no such proposal was made to us."
	case p.Response != social.ResponseNone:
		return "Proposal response failed: we already answered."
	case d.Response != social.ResponseAccept && d.Response != social.ResponseReject:
		return fmt.Sprintf("Proposal response failed: %q is not an answer.", d.Response)
	}
	p.Response = d.Response
	verb := "Accepted"
	if d.Response == social.ResponseReject {
		verb = "Rejected"
	}
	return fmt.Sprintf("%s the %s proposal from %s.", verb, p.StatusChange, p.FromTribeName)
}
