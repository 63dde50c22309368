package world

import "math"

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains    Terrain = iota // Open ground, easy travel
	TerrainDesert                   // Dry flats, slow going
	TerrainMountains                // Strong defensive ground
	TerrainForest                   // Cover for defenders
	TerrainRuins                    // Old-world rubble, scrap-rich
	TerrainWasteland                // Blasted scrubland
	TerrainWater                    // Impassable
	TerrainRadiation                // Hot zones
	TerrainCrater                   // Impact sites
	TerrainSwamp                    // Slowest passable terrain
)

var terrainNames = [...]string{
	TerrainPlains:    "Plains",
	TerrainDesert:    "Desert",
	TerrainMountains: "Mountains",
	TerrainForest:    "Forest",
	TerrainRuins:     "Ruins",
	TerrainWasteland: "Wasteland",
	TerrainWater:     "Water",
	TerrainRadiation: "Radiation",
	TerrainCrater:    "Crater",
	TerrainSwamp:     "Swamp",
}

// AllTerrains lists every terrain in declaration order.
var AllTerrains = []Terrain{
	TerrainPlains, TerrainDesert, TerrainMountains, TerrainForest, TerrainRuins,
	TerrainWasteland, TerrainWater, TerrainRadiation, TerrainCrater, TerrainSwamp,
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "Unknown"
}

// String implements fmt.Stringer.
func (t Terrain) String() string {
	return TerrainName(t)
}

// ParseTerrain maps a terrain name back to its value.
func ParseTerrain(name string) (Terrain, bool) {
	for i, n := range terrainNames {
		if n == name {
			return Terrain(i), true
		}
	}
	return TerrainPlains, false
}

// MarshalText implements encoding.TextMarshaler so catalogs and snapshots
// carry terrain by name.
func (t Terrain) MarshalText() ([]byte, error) {
	return []byte(TerrainName(t)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode
// as Plains.
func (t *Terrain) UnmarshalText(text []byte) error {
	*t, _ = ParseTerrain(string(text))
	return nil
}

// MovementCost returns the cost of entering a hex of this terrain.
// Water is impassable and reports +Inf.
func (t Terrain) MovementCost() float64 {
	switch t {
	case TerrainPlains:
		return 1
	case TerrainDesert, TerrainRuins, TerrainWasteland:
		return 1.5
	case TerrainForest, TerrainRadiation, TerrainCrater:
		return 2
	case TerrainSwamp:
		return 2.5
	case TerrainMountains:
		return 3
	default:
		return math.Inf(1)
	}
}

// Passable reports whether forces can enter the terrain.
func (t Terrain) Passable() bool {
	return t != TerrainWater
}

// BaseDefenseBonus is the terrain's inherent defensive modifier as an
// additive fraction (0.30 = +30%).
func (t Terrain) BaseDefenseBonus() float64 {
	switch t {
	case TerrainMountains:
		return 0.30
	case TerrainForest:
		return 0.15
	case TerrainRuins:
		return 0.10
	case TerrainPlains:
		return -0.05
	default:
		return 0
	}
}
