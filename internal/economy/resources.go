// Package economy provides resource bundles and the ration policy that
// drives consumption, recruitment and morale.
package economy

// Resource names a tradeable or scavengeable good.
type Resource string

const (
	ResourceFood    Resource = "food"
	ResourceScrap   Resource = "scrap"
	ResourceWeapons Resource = "weapons"
)

// Resources lists every resource kind.
var Resources = []Resource{ResourceFood, ResourceScrap, ResourceWeapons}

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	switch r {
	case ResourceFood, ResourceScrap, ResourceWeapons:
		return true
	}
	return false
}

// Stock is a bundle of the three resources, used for cargo, trade offers
// and requests.
type Stock struct {
	Food    int `json:"food"`
	Scrap   int `json:"scrap"`
	Weapons int `json:"weapons"`
}

// IsZero reports whether the bundle is empty.
func (s Stock) IsZero() bool {
	return s.Food == 0 && s.Scrap == 0 && s.Weapons == 0
}

// Add returns the element-wise sum.
func (s Stock) Add(o Stock) Stock {
	return Stock{Food: s.Food + o.Food, Scrap: s.Scrap + o.Scrap, Weapons: s.Weapons + o.Weapons}
}

// Get returns the amount held of one resource.
func (s Stock) Get(r Resource) int {
	switch r {
	case ResourceFood:
		return s.Food
	case ResourceScrap:
		return s.Scrap
	case ResourceWeapons:
		return s.Weapons
	}
	return 0
}

// With returns a copy with amount added to resource r.
func (s Stock) With(r Resource, amount int) Stock {
	switch r {
	case ResourceFood:
		s.Food += amount
	case ResourceScrap:
		s.Scrap += amount
	case ResourceWeapons:
		s.Weapons += amount
	}
	return s
}

// Clamp zeroes any negative component.
func (s Stock) Clamp() Stock {
	return Stock{Food: max(s.Food, 0), Scrap: max(s.Scrap, 0), Weapons: max(s.Weapons, 0)}
}
