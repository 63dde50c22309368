package world

// POIType enumerates points of interest.
type POIType string

const (
	POIMine         POIType = "Mine"
	POIFactory      POIType = "Factory"
	POIFoodSource   POIType = "FoodSource"
	POIScrapyard    POIType = "Scrapyard"
	POIVault        POIType = "Vault"
	POIWeaponsCache POIType = "WeaponsCache"
	POIResearchLab  POIType = "ResearchLab"
	POISettlement   POIType = "Settlement"
	POIBanditCamp   POIType = "BanditCamp"
	POIRuins        POIType = "Ruins"
	POIBattlefield  POIType = "Battlefield"
	POIOutpost      POIType = "Outpost"
)

// Rarity grades how uncommon a POI is.
type Rarity string

const (
	RarityCommon   Rarity = "Common"
	RarityUncommon Rarity = "Uncommon"
	RarityRare     Rarity = "Rare"
	RarityVeryRare Rarity = "VeryRare"
)

// POI is a special feature on a hex.
//
// An outpost is either a standalone Outpost POI or any other POI with
// Fortified set; both carry their owner in OwnerTribeID. The fortified
// overlay keeps the original type and its benefits.
type POI struct {
	ID           string  `json:"id"`
	Type         POIType `json:"type"`
	Rarity       Rarity  `json:"rarity"`
	Difficulty   int     `json:"difficulty"`
	Fortified    bool    `json:"fortified,omitempty"`
	OwnerTribeID string  `json:"owner_tribe_id,omitempty"`
}

// IsOutpost reports whether the POI acts as an outpost.
func (p *POI) IsOutpost() bool {
	return p != nil && (p.Type == POIOutpost || p.Fortified)
}

// OutpostOwner returns the owning tribe of an outpost, or "" if the POI is
// not an outpost or is unowned.
func (p *POI) OutpostOwner() string {
	if !p.IsOutpost() {
		return ""
	}
	return p.OwnerTribeID
}

// Fortify turns the POI into an outpost owned by tribeID, keeping its type.
func (p *POI) Fortify(tribeID string) {
	if p.Type != POIOutpost {
		p.Fortified = true
	}
	p.OwnerTribeID = tribeID
}
