package evaluate

import (
	"math"

	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

// Bounds is the closed payoff interval the solver searches.
type Bounds struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Equivalent is the result of a certainty-equivalent search.
type Equivalent struct {
	// CE is the sure payoff found.
	CE float64 `json:"certainty_equivalent"`

	// UtilityAtCE is u(CE); |UtilityAtCE - ExpectedUtility| < precision.
	UtilityAtCE float64 `json:"utility_at_ce"`

	// ExpectedUtility is the target utility of the lottery.
	ExpectedUtility float64 `json:"expected_utility"`

	// Iterations is the number of midpoints evaluated.
	Iterations int `json:"iterations"`
}

// SolverOption configures a single certainty-equivalent search.
type SolverOption func(*solverConfig)

type solverConfig struct {
	precision     float64
	maxIterations int
}

// WithPrecision sets the acceptance band around the target utility.
func WithPrecision(p float64) SolverOption {
	return func(c *solverConfig) {
		c.precision = p
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) SolverOption {
	return func(c *solverConfig) {
		c.maxIterations = n
	}
}

// CertaintyEquivalent finds the certainty equivalent with the default settings.
func CertaintyEquivalent(l lottery.Lottery, u utility.Func, b Bounds, opts ...SolverOption) (Equivalent, error) {
	return Default().CertaintyEquivalent(l, u, b, opts...)
}

// CertaintyEquivalent finds the payoff x in [b.Min, b.Max] whose utility is
// within precision of the lottery's expected utility.
//
// The search is a bisection that assumes u is monotone increasing: when
// u(mid) is below the target the lower bound moves up, otherwise the upper
// bound moves down. If no midpoint is accepted within the iteration cap a
// *SearchDivergenceError is returned.
func (e Evaluator) CertaintyEquivalent(l lottery.Lottery, u utility.Func, b Bounds, opts ...SolverOption) (Equivalent, error) {
	cfg := solverConfig{precision: e.Precision, maxIterations: e.MaxIterations}
	for _, opt := range opts {
		opt(&cfg)
	}

	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min >= b.Max {
		return Equivalent{}, newArgumentError("search interval [%g, %g] is empty", b.Min, b.Max)
	}
	if !(cfg.precision > 0) {
		return Equivalent{}, newArgumentError("precision must be positive, got %g", cfg.precision)
	}
	if cfg.maxIterations < 1 {
		return Equivalent{}, newArgumentError("max iterations must be at least 1, got %d", cfg.maxIterations)
	}

	eu, err := e.ExpectedUtility(l, u)
	if err != nil {
		return Equivalent{}, err
	}

	lower, upper := b.Min, b.Max
	for i := 1; i <= cfg.maxIterations; i++ {
		mid := .5*lower + .5*upper
		uMid, err := u(mid)
		if err != nil {
			return Equivalent{}, err
		}
		if isNearTarget(uMid, eu, cfg.precision) {
			return Equivalent{CE: mid, UtilityAtCE: uMid, ExpectedUtility: eu, Iterations: i}, nil
		}
		if uMid < eu {
			lower = mid
		} else {
			upper = mid
		}
	}

	return Equivalent{}, &SearchDivergenceError{
		Iterations: cfg.maxIterations,
		Limit:      cfg.maxIterations,
		Lower:      lower,
		Upper:      upper,
		Target:     eu,
	}
}

// isNearTarget reports whether x lies strictly inside
// (target-precision, target+precision).
func isNearTarget(x, target, precision float64) bool {
	return x > target-precision && x < target+precision
}
