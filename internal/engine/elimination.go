package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

// removeEliminated drops every tribe left with nothing, along with its
// journeys, proposals and map claims.
func (t *turn) removeEliminated(ctx context.Context) error {
	var survivors, fallen []*social.Tribe
	for _, tr := range t.state.Tribes {
		if !tr.Eliminated && t.defeated(tr) {
			tr.Eliminated = true
		}
		if tr.Eliminated {
			fallen = append(fallen, tr)
		} else {
			survivors = append(survivors, tr)
		}
	}
	if len(fallen) == 0 {
		return nil
	}
	t.state.Tribes = survivors

	gone := make(map[string]bool, len(fallen))
	for _, tr := range fallen {
		gone[tr.ID] = true
	}

	var journeys []*Journey
	for _, j := range t.state.Journeys {
		if !gone[j.OwnerTribeID] {
			journeys = append(journeys, j)
		}
	}
	t.state.Journeys = journeys

	for _, tr := range fallen {
		t.state.DiplomaticProposals = slices.DeleteFunc(t.state.DiplomaticProposals, func(p *social.DiplomaticProposal) bool {
			return p.Involves(tr.ID)
		})
		t.state.PrisonerExchangeProposals = slices.DeleteFunc(t.state.PrisonerExchangeProposals, func(p *social.PrisonerExchangeProposal) bool {
			return p.Involves(tr.ID)
		})
	}

	for _, coord := range t.state.Map.Outposts() {
		poi := t.state.Map.POIAt(coord)
		if gone[poi.OwnerTribeID] {
			poi.OwnerTribeID = ""
			poi.Fortified = false
		}
	}

	for _, tr := range fallen {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, p := range tr.Prisoners {
			if owner := t.tribe(p.OriginalOwnerID); owner != nil {
				t.returnChief(owner, p.Chief)
				owner.Logf(social.EventElimination, fmt.Sprintf("With %s destroyed, our chief %s walked free and came home.", tr.Name, p.Chief.Name))
			}
		}
		for _, s := range survivors {
			delete(s.Diplomacy, tr.ID)
			s.Logf(social.EventElimination, fmt.Sprintf("%s has been wiped from the wastes.", tr.Name))
		}
		t.log.Info("tribe eliminated", "tribe", tr.ID, "name", tr.Name)
	}
	return nil
}
