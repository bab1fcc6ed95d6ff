package evaluate

import (
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

// Choice identifies the lottery with the highest expected utility.
type Choice struct {
	Index           int     `json:"index"`
	ExpectedUtility float64 `json:"expected_utility"`
}

// RiskPremium returns ExpectedValue(l) - ce. The certainty equivalent must
// come from the caller; nothing ties it to any particular utility function.
func RiskPremium(l lottery.Lottery, ce float64) (float64, error) {
	return Default().RiskPremium(l, ce)
}

// Choose picks the lottery with the highest expected utility under u, with
// the default settings.
func Choose(lotteries []lottery.Lottery, u utility.Func) (Choice, error) {
	return Default().Choose(lotteries, u)
}

// RiskPremium returns ExpectedValue(l) - ce.
func (e Evaluator) RiskPremium(l lottery.Lottery, ce float64) (float64, error) {
	ev, err := e.ExpectedValue(l)
	if err != nil {
		return 0, err
	}
	return ev - ce, nil
}

// Choose returns the index and expected utility of the best lottery under u.
// Ties go to the lowest index. An empty list is an EMPTY_INPUT error.
func (e Evaluator) Choose(lotteries []lottery.Lottery, u utility.Func) (Choice, error) {
	if len(lotteries) == 0 {
		return Choice{}, &EvalError{
			Code:    ErrCodeEmptyInput,
			Message: "no lotteries to choose from",
			Index:   -1,
		}
	}

	best := Choice{Index: -1}
	for i, l := range lotteries {
		eu, err := e.expectedUtilityAt(l, u, i)
		if err != nil {
			return Choice{}, err
		}
		if best.Index < 0 || eu > best.ExpectedUtility {
			best = Choice{Index: i, ExpectedUtility: eu}
		}
	}
	return best, nil
}
