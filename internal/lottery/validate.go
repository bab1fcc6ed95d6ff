package lottery

import (
	"errors"
	"fmt"
)

// DefaultTolerance bounds how far the probabilities of a lottery may sum
// away from 1.
const DefaultTolerance = 1e-6

// InvalidReason categorizes why a lottery failed validation.
type InvalidReason string

const (
	// ReasonNegativeProbability indicates an event with probability < 0.
	ReasonNegativeProbability InvalidReason = "NEGATIVE_PROBABILITY"

	// ReasonProbabilitySum indicates the probabilities do not sum to 1.
	ReasonProbabilitySum InvalidReason = "PROBABILITY_SUM"

	// ReasonMissingOutcome indicates an event with a nil outcome.
	ReasonMissingOutcome InvalidReason = "MISSING_OUTCOME"
)

// InvalidLotteryError describes the first problem found in a lottery.
type InvalidLotteryError struct {
	// Reason identifies the failed check.
	Reason InvalidReason

	// Path locates the offending lottery or event, e.g. "[1].out[0]".
	// Empty for the top-level lottery.
	Path string

	// Prob is the offending probability (ReasonNegativeProbability).
	Prob float64

	// Sum is the probability total (ReasonProbabilitySum).
	Sum float64
}

// Error implements the error interface.
func (e *InvalidLotteryError) Error() string {
	where := e.Path
	if where == "" {
		where = "lottery"
	}
	switch e.Reason {
	case ReasonNegativeProbability:
		return fmt.Sprintf("%s: %s: probability %g is negative", e.Reason, where, e.Prob)
	case ReasonProbabilitySum:
		return fmt.Sprintf("%s: %s: probabilities sum to %g, want 1", e.Reason, where, e.Sum)
	default:
		return fmt.Sprintf("%s: %s: event has no outcome", e.Reason, where)
	}
}

// IsInvalidLottery returns true if err is (or wraps) an InvalidLotteryError.
func IsInvalidLottery(err error) bool {
	var ie *InvalidLotteryError
	return errors.As(err, &ie)
}

// IsValid checks that every top-level probability is non-negative and that
// they sum to 1 within DefaultTolerance. Nested lotteries are not checked.
func IsValid(l Lottery) bool {
	return IsValidWithin(l, DefaultTolerance)
}

// IsValidWithin is IsValid with an explicit tolerance.
// It never panics; NaN probabilities make the lottery invalid.
func IsValidWithin(l Lottery, tol float64) bool {
	return Validate(l, tol) == nil
}

// Validate checks the top-level probabilities of l and returns an
// *InvalidLotteryError describing the first failure.
func Validate(l Lottery, tol float64) error {
	return validateLevel(l, tol, "")
}

// ValidateDeep validates l and every lottery nested inside it.
// Nested lotteries are visited depth-first, left to right.
func ValidateDeep(l Lottery, tol float64) error {
	return validateDeep(l, tol, "")
}

func validateDeep(l Lottery, tol float64, path string) error {
	if err := validateLevel(l, tol, path); err != nil {
		return err
	}
	for i, ev := range l {
		switch out := ev.Out.(type) {
		case nil:
			return &InvalidLotteryError{Reason: ReasonMissingOutcome, Path: eventPath(path, i)}
		case SubLottery:
			if err := validateDeep(Lottery(out), tol, eventPath(path, i)+".out"); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateLevel(l Lottery, tol float64, path string) error {
	total := 0.0
	for i, ev := range l {
		if ev.Prob < 0.0 {
			return &InvalidLotteryError{
				Reason: ReasonNegativeProbability,
				Path:   eventPath(path, i),
				Prob:   ev.Prob,
			}
		}
		total += ev.Prob
	}
	if !isNearTarget(total, 1.0, tol) {
		return &InvalidLotteryError{Reason: ReasonProbabilitySum, Path: path, Sum: total}
	}
	return nil
}

func eventPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// isNearTarget reports whether x lies strictly inside
// (target-precision, target+precision).
func isNearTarget(x, target, precision float64) bool {
	return x > target-precision && x < target+precision
}
