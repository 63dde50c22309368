// POI and home placement: scores land hexes and seeds points of interest
// and starting locations for tribes.
package world

import (
	"fmt"
	"math/rand"
	"sort"
)

// poiWeights is the relative frequency of each POI type at generation.
// Outposts are built by tribes, never generated.
var poiWeights = []struct {
	Type   POIType
	Weight int
}{
	{POIFoodSource, 18}, {POIScrapyard, 16}, {POIRuins, 14}, {POIMine, 10},
	{POIFactory, 8}, {POIBanditCamp, 8}, {POIWeaponsCache, 7}, {POISettlement, 6},
	{POIBattlefield, 6}, {POIResearchLab, 4}, {POIVault, 3},
}

// PlacePOIs scatters points of interest over roughly density of the land
// hexes. It returns the number placed.
func PlacePOIs(m *Map, seed int64, density float64) int {
	rng := rand.New(rand.NewSource(seed + 200))

	land := landHexes(m)
	rng.Shuffle(len(land), func(i, j int) { land[i], land[j] = land[j], land[i] })

	total := 0
	for _, w := range poiWeights {
		total += w.Weight
	}

	count := int(float64(len(land)) * density)
	for i := 0; i < count && i < len(land); i++ {
		hex := m.Get(land[i])
		pick := rng.Intn(total)
		var typ POIType
		for _, w := range poiWeights {
			if pick < w.Weight {
				typ = w.Type
				break
			}
			pick -= w.Weight
		}
		rarity := rollRarity(rng)
		hex.POI = &POI{
			ID:         fmt.Sprintf("poi-%s", hex.Coord.Key()),
			Type:       typ,
			Rarity:     rarity,
			Difficulty: 1 + rng.Intn(3) + rarityDifficulty(rarity),
		}
	}
	return min(count, len(land))
}

func rollRarity(rng *rand.Rand) Rarity {
	switch r := rng.Float64(); {
	case r < 0.60:
		return RarityCommon
	case r < 0.85:
		return RarityUncommon
	case r < 0.97:
		return RarityRare
	default:
		return RarityVeryRare
	}
}

func rarityDifficulty(r Rarity) int {
	switch r {
	case RarityUncommon:
		return 2
	case RarityRare:
		return 4
	case RarityVeryRare:
		return 6
	default:
		return 0
	}
}

// PlaceHomes picks count starting hexes, best-scoring first, at least
// minDist apart. Fewer are returned if the map runs out of room.
func PlaceHomes(m *Map, count, minDist int) []HexCoord {
	type scored struct {
		coord HexCoord
		score float64
	}
	var candidates []scored
	for _, c := range landHexes(m) {
		hex := m.Get(c)
		if hex.POI != nil {
			continue
		}
		if s := homeScore(m, c, hex); s > 0 {
			candidates = append(candidates, scored{c, s})
		}
	}

	// Sort by score descending, key order breaks ties.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score == candidates[j].score {
			return candidates[i].coord.Key() < candidates[j].coord.Key()
		}
		return candidates[i].score > candidates[j].score
	})

	var homes []HexCoord
	for _, c := range candidates {
		if len(homes) >= count {
			break
		}
		if tooClose(c.coord, homes, minDist) {
			continue
		}
		homes = append(homes, c.coord)
	}
	return homes
}

// homeScore prefers open, passable ground with useful POIs nearby.
func homeScore(m *Map, coord HexCoord, hex *Hex) float64 {
	score := 0.0
	switch hex.Terrain {
	case TerrainPlains:
		score += 3.0
	case TerrainForest:
		score += 2.5
	case TerrainWasteland, TerrainDesert:
		score += 1.0
	case TerrainRuins:
		score += 1.5
	default:
		return 0
	}
	for _, nc := range coord.Neighbors() {
		nh := m.Get(nc)
		if nh == nil || !nh.Terrain.Passable() {
			score -= 0.3
			continue
		}
		if nh.POI != nil {
			score += 0.5
		}
	}
	return score
}

func tooClose(coord HexCoord, existing []HexCoord, minDist int) bool {
	for _, e := range existing {
		if Distance(coord, e) < minDist {
			return true
		}
	}
	return false
}

// landHexes returns passable hexes in key order so seeded shuffles are
// reproducible regardless of map iteration order.
func landHexes(m *Map) []HexCoord {
	var out []HexCoord
	for c, h := range m.Hexes {
		if h.Terrain.Passable() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// GenerateNames produces procedural tribe names by combining syllables.
func GenerateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Ash", "Stone", "Rust", "Black", "Red", "Bone", "Dust",
		"Ember", "Storm", "Thorn", "Scrap", "Salt", "Grey", "Cinder", "Hollow",
	}
	suffixes := []string{
		"fang", "claw", "walkers", "born", "reach", "hand", "kin", "riders",
		"blood", "watch", "crows", "wolves", "eaters", "breakers", "seekers",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)
	limit := len(prefixes) * len(suffixes)

	for len(names) < count && len(used) < limit {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}
