package generator

import (
	"github.com/hhkbp2/testify/require"
	"testing"
)

func TestNURandBounds(t *testing.T) {
	r := newTestRandom(10)
	r.SetNURand(NewNURandForLoad(r))
	cases := []struct {
		a, x, y int64
	}{
		{255, 0, 999},
		{1023, 1, 3000},
		{8191, 1, 100000},
		{255, 5, 5},
	}
	for _, c := range cases {
		for i := 0; i < 10000; i++ {
			v := r.NURand(c.a, c.x, c.y)
			require.True(t, v >= c.x && v <= c.y, "NURand(%d, %d, %d) = %d", c.a, c.x, c.y, v)
		}
	}
}

func TestNURandUnsupportedSelector(t *testing.T) {
	r := newTestRandom(11)
	require.Panics(t, func() { r.NURand(100, 0, 10) })
	require.Panics(t, func() { r.NURand(255, 10, 0) })
}

func TestNURandContextIsFixed(t *testing.T) {
	r := newTestRandom(12)
	ctx := &NURandContext{CLast: 1, CID: 2, OrderLineItemID: 3}
	r.SetNURand(ctx)
	require.Panics(t, func() { r.SetNURand(NewNURandForLoad(r)) })
	require.Equal(t, ctx, r.EnsureNURand())
}

func TestEnsureNURandIsLazy(t *testing.T) {
	r := newTestRandom(13)
	first := r.EnsureNURand()
	require.NotNil(t, first)
	require.Equal(t, first, r.EnsureNURand())
	require.True(t, first.CLast >= 0 && first.CLast <= 255)
	require.True(t, first.CID >= 0 && first.CID <= 1023)
	require.True(t, first.OrderLineItemID >= 0 && first.OrderLineItemID <= 8191)
	require.Panics(t, func() { r.SetNURand(first) })
}

func TestNURandForRun(t *testing.T) {
	r := newTestRandom(14)
	load := NewNURandForLoad(r)
	for i := 0; i < 100; i++ {
		run := NewNURandForRun(r, load)
		require.True(t, validCLastDelta(run.CLast, load.CLast))
	}
	require.False(t, validCLastDelta(96, 0))
	require.False(t, validCLastDelta(0, 112))
	require.True(t, validCLastDelta(65, 0))
	require.False(t, validCLastDelta(64, 0))
}
