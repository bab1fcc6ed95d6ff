package evaluate

import (
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

// Parameterized is a utility function together with the parameter value it
// was built from, e.g. CRRA with r = 0.3.
type Parameterized struct {
	Param float64
	U     utility.Func
}

// SweepRow is the evaluation of one lottery under one parameter value.
type SweepRow struct {
	Param           float64 `json:"param"`
	Index           int     `json:"index"`
	ExpectedValue   float64 `json:"expected_value"`
	ExpectedUtility float64 `json:"expected_utility"`
}

// Sweep evaluates every lottery under every utility function, in parameter
// order then lottery order. Expected values do not depend on the parameter
// and are computed once per lottery.
func (e Evaluator) Sweep(lotteries []lottery.Lottery, funcs []Parameterized) ([]SweepRow, error) {
	if len(lotteries) == 0 || len(funcs) == 0 {
		return nil, &EvalError{
			Code:    ErrCodeEmptyInput,
			Message: "sweep needs at least one lottery and one utility function",
			Index:   -1,
		}
	}

	evs := make([]float64, len(lotteries))
	for i, l := range lotteries {
		flat, err := e.reduce(l, i)
		if err != nil {
			return nil, err
		}
		for _, event := range flat {
			evs[i] += event.Prob * float64(event.Out.(lottery.Payoff))
		}
	}

	rows := make([]SweepRow, 0, len(lotteries)*len(funcs))
	for _, f := range funcs {
		for i, l := range lotteries {
			eu, err := e.expectedUtilityAt(l, f.U, i)
			if err != nil {
				return nil, err
			}
			rows = append(rows, SweepRow{
				Param:           f.Param,
				Index:           i,
				ExpectedValue:   evs[i],
				ExpectedUtility: eu,
			})
		}
	}
	return rows, nil
}

// Sweep evaluates every lottery under every utility function with the
// default settings.
func Sweep(lotteries []lottery.Lottery, funcs []Parameterized) ([]SweepRow, error) {
	return Default().Sweep(lotteries, funcs)
}
