package social

import (
	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

// ActionType names a queued action or a result-only system event.
type ActionType string

// Player actions.
const (
	ActionRecruit                   ActionType = "Recruit"
	ActionRest                      ActionType = "Rest"
	ActionBuildWeapons              ActionType = "BuildWeapons"
	ActionSetRations                ActionType = "SetRations"
	ActionStartResearch             ActionType = "StartResearch"
	ActionBuildOutpost              ActionType = "BuildOutpost"
	ActionMove                      ActionType = "Move"
	ActionAttack                    ActionType = "Attack"
	ActionScout                     ActionType = "Scout"
	ActionScavenge                  ActionType = "Scavenge"
	ActionTrade                     ActionType = "Trade"
	ActionRespondToTrade            ActionType = "RespondToTrade"
	ActionReleasePrisoner           ActionType = "ReleasePrisoner"
	ActionExchangePrisoners         ActionType = "ExchangePrisoners"
	ActionRespondToPrisonerExchange ActionType = "RespondToPrisonerExchange"
	ActionProposeAlliance           ActionType = "ProposeAlliance"
	ActionSueForPeace               ActionType = "SueForPeace"
	ActionDeclareWar                ActionType = "DeclareWar"
	ActionRespondToProposal         ActionType = "RespondToProposal"
)

// System events that only appear in result logs.
const (
	EventUpkeep      ActionType = "Upkeep"
	EventCombat      ActionType = "Combat"
	EventJourney     ActionType = "Journey"
	EventDiplomacy   ActionType = "Diplomacy"
	EventResearch    ActionType = "Research"
	EventElimination ActionType = "Elimination"
)

// PlayerActions lists every queueable action type.
var PlayerActions = []ActionType{
	ActionRecruit, ActionRest, ActionBuildWeapons, ActionSetRations,
	ActionStartResearch, ActionBuildOutpost, ActionMove, ActionAttack,
	ActionScout, ActionScavenge, ActionTrade, ActionRespondToTrade,
	ActionReleasePrisoner, ActionExchangePrisoners, ActionRespondToPrisonerExchange,
	ActionProposeAlliance, ActionSueForPeace, ActionDeclareWar, ActionRespondToProposal,
}

// Response is an accept/reject answer to a trade or proposal.
type Response string

const (
	ResponseNone   Response = ""
	ResponseAccept Response = "accept"
	ResponseReject Response = "reject"
)

// ActionData carries the parameters of a queued action. Which fields are
// meaningful depends on the action type; the inbound boundary validates
// presence per type.
type ActionData struct {
	Location    world.HexCoord `json:"location"`    // acting garrison
	Destination world.HexCoord `json:"destination"` // travel target

	Troops  int      `json:"troops,omitempty"`
	Weapons int      `json:"weapons,omitempty"`
	Chiefs  []string `json:"chiefs,omitempty"`

	FoodOffered  int                 `json:"food_offered,omitempty"`
	ScrapOffered int                 `json:"scrap_offered,omitempty"`
	RationLevel  economy.RationLevel `json:"ration_level,omitempty"`

	TechID         string `json:"tech_id,omitempty"`
	AssignedTroops int    `json:"assigned_troops,omitempty"`

	ResourceType economy.Resource `json:"resource_type,omitempty"`

	TargetTribeID string        `json:"target_tribe_id,omitempty"`
	Offer         economy.Stock `json:"offer"`
	Request       economy.Stock `json:"request"`

	JourneyID  string   `json:"journey_id,omitempty"`
	ProposalID string   `json:"proposal_id,omitempty"`
	Response   Response `json:"response,omitempty"`

	ChiefName       string   `json:"chief_name,omitempty"`
	OfferedChiefs   []string `json:"offered_chiefs,omitempty"`
	RequestedChiefs []string `json:"requested_chiefs,omitempty"`
}

// GameAction is one queued action.
type GameAction struct {
	ID         string     `json:"id"`
	ActionType ActionType `json:"action_type"`
	ActionData ActionData `json:"action_data"`
}

// ActionResult is one narrative line of a tribe's turn report.
type ActionResult struct {
	ID         string     `json:"id"`
	ActionType ActionType `json:"action_type"`
	ActionData ActionData `json:"action_data"`
	Result     string     `json:"result"`
}
