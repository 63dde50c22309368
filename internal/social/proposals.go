package social

// ProposalKind is the diplomatic change a proposal asks for.
type ProposalKind string

const (
	ProposalAlliance ProposalKind = "Alliance"
	ProposalPeace    ProposalKind = "Peace"
)

// ProposalLifetime is how many turns a proposal stays open.
const ProposalLifetime = 3

// DiplomaticProposal asks another tribe to change the bilateral status.
type DiplomaticProposal struct {
	ID            string       `json:"id"`
	FromTribeID   string       `json:"from_tribe_id"`
	FromTribeName string       `json:"from_tribe_name"`
	ToTribeID     string       `json:"to_tribe_id"`
	StatusChange  ProposalKind `json:"status_change"`
	ExpiresOnTurn int          `json:"expires_on_turn"`
	Response      Response     `json:"response,omitempty"`
}

// PrisonerExchangeProposal offers held prisoners for the target's.
type PrisonerExchangeProposal struct {
	ID                  string   `json:"id"`
	FromTribeID         string   `json:"from_tribe_id"`
	ToTribeID           string   `json:"to_tribe_id"`
	OfferedChiefNames   []string `json:"offered_chief_names"`
	RequestedChiefNames []string `json:"requested_chief_names"`
	ExpiresOnTurn       int      `json:"expires_on_turn"`
	Response            Response `json:"response,omitempty"`
}

// Involves reports whether tribeID is either party.
func (p *DiplomaticProposal) Involves(tribeID string) bool {
	return p.FromTribeID == tribeID || p.ToTribeID == tribeID
}

// Involves reports whether tribeID is either party.
func (p *PrisonerExchangeProposal) Involves(tribeID string) bool {
	return p.FromTribeID == tribeID || p.ToTribeID == tribeID
}
