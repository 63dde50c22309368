package engine

import (
	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// JourneyType is what an expedition intends to do on arrival.
type JourneyType string

const (
	JourneyMove         JourneyType = "Move"
	JourneyAttack       JourneyType = "Attack"
	JourneyScout        JourneyType = "Scout"
	JourneyScavenge     JourneyType = "Scavenge"
	JourneyTrade        JourneyType = "Trade"
	JourneyBuildOutpost JourneyType = "BuildOutpost"
	JourneyReturn       JourneyType = "Return"
)

// JourneyStatus is the lifecycle state of an expedition.
type JourneyStatus string

const (
	StatusEnRoute          JourneyStatus = "en_route"
	StatusReturning        JourneyStatus = "returning"
	StatusAwaitingResponse JourneyStatus = "awaiting_response"
)

// TradeOffer is what a caravan asks for in return for its payload.
type TradeOffer struct {
	Request       economy.Stock `json:"request"`
	FromTribeName string        `json:"from_tribe_name"`
}

// Journey is an in-flight expedition. Path[0] is always the current
// location; ArrivalTurn counts the turns remaining.
type Journey struct {
	ID              string           `json:"id"`
	OwnerTribeID    string           `json:"owner_tribe_id"`
	Type            JourneyType      `json:"type"`
	Status          JourneyStatus    `json:"status"`
	Origin          world.HexCoord   `json:"origin"`
	Destination     world.HexCoord   `json:"destination"`
	Path            []world.HexCoord `json:"path"`
	CurrentLocation world.HexCoord   `json:"current_location"`
	ArrivalTurn     int              `json:"arrival_turn"`

	Force   social.Force  `json:"force"`
	Payload economy.Stock `json:"payload"`

	ScavengeType     economy.Resource `json:"scavenge_type,omitempty"`
	TargetTribeID    string           `json:"target_tribe_id,omitempty"`
	TradeOffer       *TradeOffer      `json:"trade_offer,omitempty"`
	ResponseDeadline int              `json:"response_deadline,omitempty"`
	TradeResponse    social.Response  `json:"trade_response,omitempty"`
}

// hostileMove reports whether the journey type fights what it meets.
func (j *Journey) hostileMove() bool {
	return j.Type == JourneyMove || j.Type == JourneyAttack
}

// step pops the current hex, moving to the next one on the path.
func (j *Journey) step() bool {
	if len(j.Path) <= 1 {
		return false
	}
	j.Path = j.Path[1:]
	j.CurrentLocation = j.Path[0]
	return true
}
