package random

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeySource(t *testing.T) {
	t.Run("same seed gives the same stream", func(t *testing.T) {
		a, b := NewKeySource(7), NewKeySource(7)
		for i := 0; i < 100; i++ {
			require.Equal(t, a.Uint64n(1<<62), b.Uint64n(1<<62), "Draw %d should match", i)
		}
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		a, b := NewKeySource(1), NewKeySource(2)
		same := 0
		for i := 0; i < 100; i++ {
			if a.Uint64n(1<<62) == b.Uint64n(1<<62) {
				same++
			}
		}
		require.Zero(t, same, "Streams for different seeds should not collide")
	})
}

func TestRolloutSource(t *testing.T) {
	t.Run("reproducible for a fixed seed", func(t *testing.T) {
		a, b := NewRolloutSource(42), NewRolloutSource(42)
		for i := 0; i < 100; i++ {
			require.Equal(t, a.Intn(16), b.Intn(16))
		}
	})

	t.Run("roughly uniform over small ranges", func(t *testing.T) {
		r := NewRolloutSource(3)
		var counts [8]int
		const draws = 80000
		for i := 0; i < draws; i++ {
			counts[r.Intn(len(counts))]++
		}
		for i, c := range counts {
			require.InDelta(t, draws/len(counts), c, 600, "Bucket %d is skewed", i)
		}
	})
}

func TestSeedFn(t *testing.T) {
	old := seedFn
	SetSeedFn(func() uint64 { return 99 })
	defer SetSeedFn(old)
	require.Equal(t, uint64(99), Seed())
}
