package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// scriptedRandom replays fixed draws. Once a script runs out Float64
// returns 0.5 and IntN returns 0.
type scriptedRandom struct {
	floats []float64
	ints   []int
}

func (s *scriptedRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedRandom) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func TestNewRandom_SameSeedSameSequence(t *testing.T) {
	a := NewRandom(7)
	b := NewRandom(7)
	for i := 0; i < 32; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.IntN(100), b.IntN(100))
	}
}

func TestSample_DistinctIndexes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		k := rapid.IntRange(0, 40).Draw(t, "k")
		seed := rapid.Uint64Min(1).Draw(t, "seed")

		got := Sample(NewRandom(seed), n, k)

		want := k
		if want > n {
			want = n
		}
		if len(got) != want {
			t.Fatalf("expected %d indexes, got %d", want, len(got))
		}
		seen := make(map[int]bool, len(got))
		for _, i := range got {
			if i < 0 || i >= n {
				t.Fatalf("index %d out of range [0,%d)", i, n)
			}
			if seen[i] {
				t.Fatalf("index %d drawn twice", i)
			}
			seen[i] = true
		}
	})
}

func TestSample_ZeroK(t *testing.T) {
	assert.Nil(t, Sample(NewRandom(1), 5, 0))
}
