package generator

import (
	"github.com/hhkbp2/testify/require"
	"math"
	"testing"
)

func newTestRandom(seed int64) *Random {
	return NewRandom(WithSeed(seed), WithPoolSize(1024))
}

func TestNumber(t *testing.T) {
	r := newTestRandom(1)
	for i := 0; i < 1000; i++ {
		v := r.Number(5, 9)
		require.True(t, v >= 5 && v <= 9)
	}
	require.Equal(t, int64(7), r.Number(7, 7))
	require.Panics(t, func() { r.Number(9, 5) })
}

func TestSeedIsDeterministic(t *testing.T) {
	r1 := newTestRandom(42)
	r2 := newTestRandom(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, r1.Number(0, 1000000), r2.Number(0, 1000000))
	}
	require.Equal(t, r1.AString(10, 20), r2.AString(10, 20))
	require.Equal(t, int64(42), r1.Seed())
}

func TestNumberExcluding(t *testing.T) {
	r := newTestRandom(2)
	min := int64(1)
	max := int64(10)
	excluding := int64(4)
	trials := 90000
	counts := make(map[int64]int)
	for i := 0; i < trials; i++ {
		v := r.NumberExcluding(min, max, excluding)
		require.True(t, v >= min && v <= max)
		require.NotEqual(t, excluding, v)
		counts[v]++
	}
	require.Len(t, counts, int(max-min))

	// chi-square goodness of fit against a uniform distribution over the
	// remaining 9 values; 26.12 is the 0.999 quantile for 8 degrees of
	// freedom.
	expected := float64(trials) / float64(max-min)
	var chi2 float64
	for v := min; v <= max; v++ {
		if v == excluding {
			continue
		}
		d := float64(counts[v]) - expected
		chi2 += d * d / expected
	}
	require.True(t, chi2 < 26.12, "chi-square %g", chi2)
}

func TestNumberExcludingBounds(t *testing.T) {
	r := newTestRandom(3)
	for i := 0; i < 100; i++ {
		require.Equal(t, int64(2), r.NumberExcluding(1, 2, 1))
		require.Equal(t, int64(1), r.NumberExcluding(1, 2, 2))
	}
	require.Panics(t, func() { r.NumberExcluding(2, 2, 2) })
	require.Panics(t, func() { r.NumberExcluding(1, 5, 6) })
}

func TestFixedPoint(t *testing.T) {
	r := newTestRandom(4)
	for i := 0; i < 1000; i++ {
		v := r.FixedPoint(2, 0.01, 100.0)
		require.True(t, v >= 0.01 && v <= 100.0)
		scaled := v * 100
		require.True(t, math.Abs(scaled-math.Round(scaled)) < 1e-6)
	}
	for i := 0; i < 100; i++ {
		v := r.FixedPoint(4, 0.0, 0.2)
		require.True(t, v >= 0.0 && v <= 0.2)
	}
	require.Panics(t, func() { r.FixedPoint(0, 0.0, 1.0) })
	require.Panics(t, func() { r.FixedPoint(2, 1.0, 1.0) })
}

func TestSelectUniqueIDs(t *testing.T) {
	r := newTestRandom(5)
	ids := r.SelectUniqueIDs(10, 1, 3000)
	require.Len(t, ids, 10)
	seen := make(map[int64]bool)
	for _, id := range ids {
		require.True(t, id >= 1 && id <= 3000)
		require.False(t, seen[id])
		seen[id] = true
	}
	// a full draw is a permutation of the range
	all := r.SelectUniqueIDs(5, 1, 5)
	require.Len(t, all, 5)
	require.Panics(t, func() { r.SelectUniqueIDs(6, 1, 5) })
}

func TestRandomLastName(t *testing.T) {
	r := newTestRandom(6)
	r.SetNURand(&NURandContext{CLast: 0, CID: 0, OrderLineItemID: 0})
	// with only one customer the code is always 0
	for i := 0; i < 10; i++ {
		require.Equal(t, "BARBARBAR", r.RandomLastName(1))
	}
	names := make(map[string]bool)
	for i := 0; i < 500; i++ {
		names[r.RandomLastName(3000)] = true
	}
	require.True(t, len(names) > 1)
}
