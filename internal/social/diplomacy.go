package social

// DiplomaticStatus is one side's stance toward another tribe.
type DiplomaticStatus string

const (
	StatusNeutral  DiplomaticStatus = "Neutral"
	StatusAlliance DiplomaticStatus = "Alliance"
	StatusWar      DiplomaticStatus = "War"
)

// DiplomaticRelation is a bilateral record as one tribe stores it.
type DiplomaticRelation struct {
	Status DiplomaticStatus `json:"status"`
}

// RelationTo returns this tribe's stance toward other. Missing records
// read as Neutral.
func (t *Tribe) RelationTo(otherID string) DiplomaticStatus {
	if r, ok := t.Diplomacy[otherID]; ok && r.Status != "" {
		return r.Status
	}
	return StatusNeutral
}

// SetMutual writes status into both tribes' records.
func SetMutual(a, b *Tribe, status DiplomaticStatus) {
	a.Diplomacy[b.ID] = DiplomaticRelation{Status: status}
	b.Diplomacy[a.ID] = DiplomaticRelation{Status: status}
}

// IsAtWar is true if either side records War with the other.
func IsAtWar(a, b *Tribe) bool {
	if a == nil || b == nil || a.ID == b.ID {
		return false
	}
	return a.RelationTo(b.ID) == StatusWar || b.RelationTo(a.ID) == StatusWar
}

// IsAllied is true if either side records Alliance. A tribe counts as
// allied with itself.
func IsAllied(a, b *Tribe) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ID == b.ID {
		return true
	}
	return a.RelationTo(b.ID) == StatusAlliance || b.RelationTo(a.ID) == StatusAlliance
}
