package engine

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Random is the source every roll in the engine draws from. Inject a seeded
// source for reproducible battles and merges.
type Random interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be > 0.
	IntN(n int) int
}

// LockedRandom is a PCG-backed Random safe for concurrent use.
type LockedRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom returns a PCG source. A zero seed is replaced with the current
// time.
func NewRandom(seed uint64) *LockedRandom {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *LockedRandom) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *LockedRandom) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// Sample returns k distinct indexes drawn uniformly from [0, n) using a
// partial Fisher-Yates shuffle. k is clamped to n.
func Sample(rng Random, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
