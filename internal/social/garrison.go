package social

// Chief is a named unique unit.
type Chief struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Stats       Stats  `json:"stats"`
}

// Garrison is one tribe's force stationed at one hex.
type Garrison struct {
	Troops  int     `json:"troops"`
	Weapons int     `json:"weapons"`
	Chiefs  []Chief `json:"chiefs"`
}

// HasForce reports whether anything is stationed here.
func (g *Garrison) HasForce() bool {
	return g != nil && (g.Troops > 0 || g.Weapons > 0 || len(g.Chiefs) > 0)
}

// HasChief reports whether the named chief is present.
func (g *Garrison) HasChief(name string) bool {
	return indexChief(g.Chiefs, name) >= 0
}

// AddChiefs merges chiefs in, skipping names already present.
func (g *Garrison) AddChiefs(chiefs ...Chief) {
	for _, c := range chiefs {
		if !g.HasChief(c.Name) {
			g.Chiefs = append(g.Chiefs, c)
		}
	}
}

// RemoveChief takes the named chief out of the garrison.
func (g *Garrison) RemoveChief(name string) (Chief, bool) {
	i := indexChief(g.Chiefs, name)
	if i < 0 {
		return Chief{}, false
	}
	c := g.Chiefs[i]
	g.Chiefs = append(g.Chiefs[:i:i], g.Chiefs[i+1:]...)
	return c, true
}

// TakeChiefs removes every named chief, failing without change if any is
// missing.
func (g *Garrison) TakeChiefs(names []string) ([]Chief, bool) {
	for _, n := range names {
		if !g.HasChief(n) {
			return nil, false
		}
	}
	out := make([]Chief, 0, len(names))
	for _, n := range names {
		if c, ok := g.RemoveChief(n); ok {
			out = append(out, c)
		}
	}
	return out, true
}

// Merge adds a force into the garrison.
func (g *Garrison) Merge(f Force) {
	g.Troops += f.Troops
	g.Weapons += f.Weapons
	g.AddChiefs(f.Chiefs...)
}

// Force is a movable body of troops, weapons and chiefs.
type Force struct {
	Troops  int     `json:"troops"`
	Weapons int     `json:"weapons"`
	Chiefs  []Chief `json:"chiefs"`
}

// IsEmpty reports whether the force carries nothing.
func (f Force) IsEmpty() bool {
	return f.Troops <= 0 && f.Weapons <= 0 && len(f.Chiefs) == 0
}

// Strength is the raw combat value: troops plus one and a half per weapon.
func (f Force) Strength() float64 {
	return float64(f.Troops) + float64(f.Weapons)*1.5
}

// Add combines two forces.
func (f Force) Add(o Force) Force {
	chiefs := append(append([]Chief(nil), f.Chiefs...), o.Chiefs...)
	return Force{Troops: f.Troops + o.Troops, Weapons: f.Weapons + o.Weapons, Chiefs: chiefs}
}

// AsForce views the garrison as a Force (chiefs are shared, not copied).
func (g *Garrison) AsForce() Force {
	return Force{Troops: g.Troops, Weapons: g.Weapons, Chiefs: g.Chiefs}
}

func indexChief(chiefs []Chief, name string) int {
	for i, c := range chiefs {
		if c.Name == name {
			return i
		}
	}
	return -1
}
