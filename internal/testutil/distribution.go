package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lottery/internal/lottery"
)

// AssertSameDistribution checks that want and got reduce to the same
// multiset of (probability, payoff) pairs, ignoring event order.
func AssertSameDistribution(t *testing.T, want, got lottery.Lottery, tol float64) {
	t.Helper()

	cw, cg := lottery.Canonical(want), lottery.Canonical(got)
	require.Len(t, cg, len(cw), "distribution sizes differ: want %v, got %v", cw, cg)
	for i := range cw {
		assert.Equal(t, cw[i].Out, cg[i].Out, "payoff at rank %d", i)
		assert.InDelta(t, cw[i].Prob, cg[i].Prob, tol, "probability of payoff %v", cw[i].Out)
	}
}

// Pairs flattens a flat lottery to (prob, payoff) pairs for table assertions.
func Pairs(l lottery.Lottery) [][2]float64 {
	out := make([][2]float64, 0, len(l))
	for _, ev := range l {
		if p, ok := ev.Out.(lottery.Payoff); ok {
			out = append(out, [2]float64{ev.Prob, float64(p)})
		}
	}
	return out
}
