package evaluate

import (
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

// Default solver settings.
const (
	DefaultPrecision     = 0.1
	DefaultMaxIterations = 200
)

// Evaluator holds the tolerances evaluation runs with.
// The zero value is not usable; start from Default().
type Evaluator struct {
	// Tolerance bounds |sum of probabilities - 1| for every lottery level.
	Tolerance float64

	// Precision is the default solver acceptance band around the target utility.
	Precision float64

	// MaxIterations caps the bisection search.
	MaxIterations int
}

// Default returns an Evaluator with lottery.DefaultTolerance and the default
// solver settings.
func Default() Evaluator {
	return Evaluator{
		Tolerance:     lottery.DefaultTolerance,
		Precision:     DefaultPrecision,
		MaxIterations: DefaultMaxIterations,
	}
}

// ExpectedValue evaluates l with the default settings.
func ExpectedValue(l lottery.Lottery) (float64, error) {
	return Default().ExpectedValue(l)
}

// ExpectedUtility evaluates l under u with the default settings.
func ExpectedUtility(l lottery.Lottery, u utility.Func) (float64, error) {
	return Default().ExpectedUtility(l, u)
}

// ExpectedValue returns the probability-weighted sum of the payoffs of the
// reduced lottery. The empty lottery is defined to have expected value 0.
func (e Evaluator) ExpectedValue(l lottery.Lottery) (float64, error) {
	flat, err := e.reduce(l, -1)
	if err != nil {
		return 0, err
	}

	ev := 0.0
	for _, event := range flat {
		ev += event.Prob * float64(event.Out.(lottery.Payoff))
	}
	return ev, nil
}

// ExpectedUtility returns the probability-weighted sum of u over the payoffs
// of the reduced lottery. The empty lottery is defined to have expected
// utility 0. An error from u is returned as is.
func (e Evaluator) ExpectedUtility(l lottery.Lottery, u utility.Func) (float64, error) {
	return e.expectedUtilityAt(l, u, -1)
}

// expectedUtilityAt is ExpectedUtility with the list position of l recorded
// on validation errors.
func (e Evaluator) expectedUtilityAt(l lottery.Lottery, u utility.Func, index int) (float64, error) {
	flat, err := e.reduce(l, index)
	if err != nil {
		return 0, err
	}

	eu := 0.0
	for _, event := range flat {
		util, err := u(float64(event.Out.(lottery.Payoff)))
		if err != nil {
			return 0, err
		}
		eu += util * event.Prob
	}
	return eu, nil
}

// reduce validates the whole tree and flattens it. index is the position of
// l in a caller's list, or -1. An empty lottery reduces to an empty one
// without validation so that its sums are vacuously 0.
func (e Evaluator) reduce(l lottery.Lottery, index int) (lottery.Lottery, error) {
	if len(l) == 0 {
		return lottery.Lottery{}, nil
	}
	if err := lottery.ValidateDeep(l, e.Tolerance); err != nil {
		return nil, newInvalidLotteryError(index, err)
	}
	return lottery.Reduce(l), nil
}
