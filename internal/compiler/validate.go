package compiler

import (
	"fmt"
	"math"

	"github.com/roach88/lottery/internal/lottery"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrDuplicateName = "E100" // duplicate lottery name

	// Lottery errors (E101-E109)
	ErrNegativeProbability = "E101" // probability below zero
	ErrProbabilitySum      = "E102" // probabilities do not sum to 1
	ErrEmptyLottery        = "E103" // lottery with no events
	ErrNestingTooDeep      = "E104" // nesting beyond MaxDepth
	ErrMissingOutcome      = "E105" // event without an outcome
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks compiled lotteries at every nesting level.
// Returns all errors found (does not fail-fast), in catalog order.
func Validate(named []lottery.Named, tol float64) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(named))

	for _, n := range named {
		field := "lottery." + n.Name

		// E100: names must be unique after normalization
		name := lottery.NormalizeName(n.Name)
		if seen[name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate lottery name: %q", name),
				Code:    ErrDuplicateName,
			})
		}
		seen[name] = true

		errs = append(errs, validateLottery(n.Lottery, field, tol, 1)...)
	}
	return errs
}

func validateLottery(l lottery.Lottery, field string, tol float64, depth int) []ValidationError {
	// E104: nesting limit
	if depth > MaxDepth {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("lottery nested deeper than %d levels", MaxDepth),
			Code:    ErrNestingTooDeep,
		}}
	}

	// E103: at least one event
	if len(l) == 0 {
		return []ValidationError{{
			Field:   field,
			Message: "lottery must have at least one event",
			Code:    ErrEmptyLottery,
		}}
	}

	var errs []ValidationError
	total := 0.0
	for i, ev := range l {
		evField := fmt.Sprintf("%s[%d]", field, i)

		// E101: non-negative probabilities
		if ev.Prob < 0 || math.IsNaN(ev.Prob) {
			errs = append(errs, ValidationError{
				Field:   evField + ".prob",
				Message: fmt.Sprintf("probability %g must be non-negative", ev.Prob),
				Code:    ErrNegativeProbability,
			})
		}
		total += ev.Prob

		switch out := ev.Out.(type) {
		case nil:
			// E105: every event has an outcome
			errs = append(errs, ValidationError{
				Field:   evField + ".out",
				Message: "event has no outcome",
				Code:    ErrMissingOutcome,
			})
		case lottery.SubLottery:
			errs = append(errs, validateLottery(lottery.Lottery(out), evField+".out", tol, depth+1)...)
		}
	}

	// E102: probabilities sum to 1
	if math.Abs(total-1) >= tol || math.IsNaN(total) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("probabilities sum to %g, want 1 (tolerance %g)", total, tol),
			Code:    ErrProbabilitySum,
		})
	}
	return errs
}
