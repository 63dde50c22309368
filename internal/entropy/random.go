// Package entropy provides the random sources used by turn resolution.
// Ordinary rolls use an injectable ambient Source; contested-hex rolls
// are derived from a hash of the turn, hex and tribe so that one
// resolution can be replayed exactly.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mathrand "math/rand"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Source is the random number interface the engine draws from.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

// lockedSource wraps math/rand for concurrent callers.
type lockedSource struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// NewSource returns a math/rand backed Source. A zero seed draws one from
// crypto/rand.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = CryptoSeed()
	}
	return &lockedSource{rng: mathrand.New(mathrand.NewSource(seed))}
}

// CryptoSeed reads a seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to a fixed seed.
		slog.Warn("crypto/rand unavailable, using fixed seed", "error", err)
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}

// Between returns a float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Chance returns true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// SeededUnit derives a value in [0, 1) from the turn, hex key and tribe
// id. The same inputs always give the same value.
func SeededUnit(turn int, hexKey, tribeID string) float64 {
	h := contestHash(turn, hexKey, tribeID)
	return float64(h>>11) / float64(1<<53)
}

// ContestSource returns a Source seeded from the turn and hex key, used
// for everything inside one contested-hex resolution.
func ContestSource(turn int, hexKey string) Source {
	seed := int64(contestHash(turn, hexKey, "") >> 1)
	return &lockedSource{rng: mathrand.New(mathrand.NewSource(seed))}
}

func contestHash(turn int, hexKey, tribeID string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.Itoa(turn))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(hexKey)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(tribeID)
	return d.Sum64()
}
