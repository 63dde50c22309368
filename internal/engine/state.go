// Package engine resolves game turns. A GameState ties together the map,
// tribes, journeys and proposals; ProcessTurn transforms one state into
// the next.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// ErrNilState is returned when ProcessTurn is handed no state.
var ErrNilState = errors.New("engine: nil game state")

// GameState is the complete persisted world between turns.
type GameState struct {
	Turn     int             `json:"turn"`
	Map      *world.Map      `json:"map"`
	Tribes   []*social.Tribe `json:"tribes"`
	Journeys []*Journey      `json:"journeys"`

	DiplomaticProposals       []*social.DiplomaticProposal       `json:"diplomatic_proposals"`
	PrisonerExchangeProposals []*social.PrisonerExchangeProposal `json:"prisoner_exchange_proposals"`

	History []social.TurnHistoryRecord `json:"history"`
}

// Tribe returns the tribe with the given id, or nil.
func (s *GameState) Tribe(id string) *social.Tribe {
	for _, t := range s.Tribes {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Clone returns a deep copy via a JSON round trip, the same encoding the
// store persists.
func (s *GameState) Clone() (*GameState, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	var out GameState
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	return &out, nil
}

// GarrisonsAt lists every tribe with a non-empty garrison at coord, in
// tribe order.
func (s *GameState) GarrisonsAt(coord world.HexCoord) []*social.Tribe {
	var out []*social.Tribe
	for _, t := range s.Tribes {
		if t.HoldsHex(coord) {
			out = append(out, t)
		}
	}
	return out
}

// Stats summarizes the world for status endpoints and logs.
type Stats struct {
	Turn      int `json:"turn"`
	Tribes    int `json:"tribes"`
	Troops    int `json:"troops"`
	Weapons   int `json:"weapons"`
	Garrisons int `json:"garrisons"`
	Journeys  int `json:"journeys"`
	Proposals int `json:"proposals"`
	Exchanges int `json:"exchanges"`
	Prisoners int `json:"prisoners"`
	Outposts  int `json:"outposts"`
}

// Summarize computes aggregate statistics.
func (s *GameState) Summarize() Stats {
	st := Stats{
		Turn:      s.Turn,
		Tribes:    len(s.Tribes),
		Journeys:  len(s.Journeys),
		Proposals: len(s.DiplomaticProposals),
		Exchanges: len(s.PrisonerExchangeProposals),
	}
	for _, t := range s.Tribes {
		troops, weapons, _ := t.Totals()
		st.Troops += troops
		st.Weapons += weapons
		st.Garrisons += t.ActiveGarrisons()
		st.Prisoners += len(t.Prisoners)
	}
	if s.Map != nil {
		st.Outposts = len(s.Map.Outposts())
	}
	return st
}
