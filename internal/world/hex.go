// Package world provides the hex grid, terrain, points of interest and
// spatial queries the turn engine runs on.
// Uses axial coordinates (q, r) for the hex grid.
package world

import (
	"fmt"
	"strconv"
	"strings"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
//
// HexCoord is the only coordinate type passed between packages. Its text
// form is the padded offset key ("050.050"), so JSON map keys and fields
// always serialize canonically.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// keyOffset shifts axial coordinates into the non-negative padded key space.
const keyOffset = 50

// Origin is the sentinel returned for unparseable coordinates.
var Origin = HexCoord{}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Key returns the canonical padded offset key, e.g. "047.053".
func (h HexCoord) Key() string {
	return fmt.Sprintf("%03d.%03d", h.Q+keyOffset, h.R+keyOffset)
}

// String implements fmt.Stringer.
func (h HexCoord) String() string {
	return h.Key()
}

// MarshalText implements encoding.TextMarshaler.
func (h HexCoord) MarshalText() ([]byte, error) {
	return []byte(h.Key()), nil
}

// UnmarshalText accepts either external encoding and never fails.
func (h *HexCoord) UnmarshalText(text []byte) error {
	*h = ParseCoord(string(text))
	return nil
}

// ParseCoord converts an axial "q,r" string or a padded offset "QQQ.RRR"
// key into a HexCoord. Malformed input yields Origin.
func ParseCoord(s string) HexCoord {
	s = strings.TrimSpace(s)
	if q, r, ok := splitInts(s, ","); ok {
		return HexCoord{Q: q, R: r}
	}
	if q, r, ok := splitInts(s, "."); ok {
		return HexCoord{Q: q - keyOffset, R: r - keyOffset}
	}
	return Origin
}

// NormalizeKey canonicalizes a coordinate string in either encoding.
func NormalizeKey(s string) string {
	return ParseCoord(s).Key()
}

func splitInts(s, sep string) (int, int, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

// HexesInRange returns every coordinate within radius of center, center
// included, in a stable order.
func HexesInRange(center HexCoord, radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	out := make([]HexCoord, 0, 1+3*radius*(radius+1))
	for dq := -radius; dq <= radius; dq++ {
		for dr := max(-radius, -dq-radius); dr <= min(radius, -dq+radius); dr++ {
			out = append(out, HexCoord{Q: center.Q + dq, R: center.R + dr})
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
