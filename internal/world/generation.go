// World generation using layered simplex noise.
// Generates elevation and rainfall maps, then derives terrain.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Radius      int     // Hex grid radius
	Seed        int64   // Random seed (0 = random)
	SeaLevel    float64 // Elevation threshold for water (0.0–1.0)
	MountainLvl float64 // Elevation threshold for mountains (0.0–1.0)
	HazardRate  float64 // Chance a land hex is turned into radiation or crater
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      12,
		Seed:        0,
		SeaLevel:    0.22,
		MountainLvl: 0.74,
		HazardRate:  0.03,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:      5,
		Seed:        42,
		SeaLevel:    0.20,
		MountainLvl: 0.80,
		HazardRate:  0.02,
	}
}

// Generate creates a complete world map with terrain.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Independent noise layers.
	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	rng := rand.New(rand.NewSource(seed + 2))

	m := NewMap(cfg.Radius)

	for _, coord := range HexesInRange(HexCoord{}, cfg.Radius) {
		// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
		x := float64(coord.Q) + float64(coord.R)*0.5
		y := float64(coord.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.09, 0.5)
		rain := octaveNoise(rainNoise, x, y, 3, 0.07, 0.5)

		// Continental shaping: water collects toward the rim.
		distFromCenter := math.Sqrt(x*x+y*y) / float64(cfg.Radius+1)
		edgeFalloff := 1.0 - math.Pow(distFromCenter, 4)
		if edgeFalloff < 0 {
			edgeFalloff = 0
		}
		elev *= edgeFalloff

		terrain := deriveTerrain(elev, rain, cfg)
		if terrain.Passable() && terrain != TerrainMountains && rng.Float64() < cfg.HazardRate {
			if rng.Intn(2) == 0 {
				terrain = TerrainRadiation
			} else {
				terrain = TerrainCrater
			}
		}

		m.Set(&Hex{
			Coord:     coord,
			Terrain:   terrain,
			Elevation: elev,
			Rainfall:  rain,
		})
	}

	return m
}

// deriveTerrain determines terrain type from environmental parameters.
func deriveTerrain(elev, rain float64, cfg GenConfig) Terrain {
	if elev < cfg.SeaLevel {
		return TerrainWater
	}
	if elev > cfg.MountainLvl {
		return TerrainMountains
	}
	if rain > 0.72 && elev < 0.4 {
		return TerrainSwamp
	}
	if rain > 0.55 {
		return TerrainForest
	}
	if rain < 0.25 {
		return TerrainDesert
	}
	if rain < 0.35 {
		return TerrainWasteland
	}
	if elev > 0.6 && rain < 0.5 {
		return TerrainRuins
	}
	return TerrainPlains
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(m *Map) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, hex := range m.Hexes {
		counts[hex.Terrain]++
	}
	return counts
}
