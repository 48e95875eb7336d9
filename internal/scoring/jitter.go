package scoring

import (
	"math/rand"
	"sync"
)

// jitterMax is the amplitude of the tie-breaking noise added to several
// sub-formulas so near-identical projects do not collide on the leaderboard.
const jitterMax = 0.8

// JitterSource supplies the tie-breaking noise. It is injectable so tests
// can pin it to zero for reproducible scores.
type JitterSource interface {
	Jitter() float64 // in [0, jitterMax)
}

// RandomJitter is the production source, seeded once at construction.
type RandomJitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomJitter creates a seeded jitter source.
func NewRandomJitter(seed int64) *RandomJitter {
	return &RandomJitter{rng: rand.New(rand.NewSource(seed))}
}

// Jitter returns a value in [0, jitterMax).
func (r *RandomJitter) Jitter() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() * jitterMax
}

// ZeroJitter disables tie-breaking noise; used in tests.
type ZeroJitter struct{}

// Jitter always returns 0.
func (ZeroJitter) Jitter() float64 { return 0 }
