package testutil

import (
	"github.com/roach88/lottery/internal/lottery"
)

// ThreeOutcome is the lottery [{0.5, 100}, {0.25, 50}, {0.25, 50}].
// Its expected value is 75.
func ThreeOutcome() lottery.Lottery {
	return lottery.New(
		lottery.E(0.5, lottery.P(100)),
		lottery.E(0.25, lottery.P(50)),
		lottery.E(0.25, lottery.P(50)),
	)
}

// OneDeep is the compound lottery [{0.5, [{1.0, 10}]}, {0.5, 20}].
// It reduces to {(0.5, 10), (0.5, 20)} with expected value 15.
func OneDeep() lottery.Lottery {
	return lottery.New(
		lottery.E(0.5, lottery.Sub(lottery.E(1.0, lottery.P(10)))),
		lottery.E(0.5, lottery.P(20)),
	)
}

// Constant returns a lottery of the given depth whose every leaf pays c.
// Each level splits its mass evenly between two children.
func Constant(depth int, c float64) lottery.Lottery {
	if depth <= 1 {
		return lottery.New(lottery.E(0.5, lottery.P(c)), lottery.E(0.5, lottery.P(c)))
	}
	return lottery.New(
		lottery.E(0.5, lottery.Sub(Constant(depth-1, c)...)),
		lottery.E(0.5, lottery.P(c)),
	)
}

// Chain returns a lottery nested depth levels deep along a single path,
// ending in payoff x. Every probability is 1.
func Chain(depth int, x float64) lottery.Lottery {
	l := lottery.New(lottery.E(1.0, lottery.P(x)))
	for i := 1; i < depth; i++ {
		l = lottery.New(lottery.E(1.0, lottery.Sub(l...)))
	}
	return l
}
