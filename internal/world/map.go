package world

import (
	"fmt"
	"sort"
)

// Hex represents a single tile on the world map.
type Hex struct {
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`
	POI     *POI     `json:"poi,omitempty"`

	// Elevation and rainfall are kept from generation for display.
	Elevation float64 `json:"elevation"`
	Rainfall  float64 `json:"rainfall"`
}

// Map holds the complete hex grid.
type Map struct {
	Hexes  map[HexCoord]*Hex `json:"hexes"`
	Radius int               `json:"radius"`
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	m := &Map{
		Hexes:  make(map[HexCoord]*Hex),
		Radius: radius,
	}
	return m
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	if m == nil {
		return nil
	}
	return m.Hexes[coord]
}

// Set places a hex at the given coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// POIAt returns the POI on a hex, or nil.
func (m *Map) POIAt(coord HexCoord) *POI {
	if h := m.Get(coord); h != nil {
		return h.POI
	}
	return nil
}

// TerrainAt returns the terrain at coord. Missing hexes read as Water.
func (m *Map) TerrainAt(coord HexCoord) Terrain {
	if h := m.Get(coord); h != nil {
		return h.Terrain
	}
	return TerrainWater
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return max(abs(coord.Q), abs(coord.R), abs(coord.S())) <= m.Radius
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// Outposts returns every outpost POI keyed by hex, in key order.
func (m *Map) Outposts() []HexCoord {
	var out []HexCoord
	for c, h := range m.Hexes {
		if h.POI.IsOutpost() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, m.HexCount())
}
