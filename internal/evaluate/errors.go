package evaluate

import (
	"errors"
	"fmt"

	"github.com/roach88/lottery/internal/lottery"
)

// ErrorCode categorizes evaluation errors.
type ErrorCode string

const (
	// ErrCodeInvalidLottery indicates a lottery failed validation.
	ErrCodeInvalidLottery ErrorCode = "INVALID_LOTTERY"

	// ErrCodeSearchDivergence indicates the solver hit its iteration cap.
	ErrCodeSearchDivergence ErrorCode = "SEARCH_DIVERGENCE"

	// ErrCodeEmptyInput indicates an operation got an empty collection.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"

	// ErrCodeInvalidArgument indicates bad solver bounds or settings.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// EvalError represents an error detected during evaluation.
type EvalError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the position of the offending lottery in a list, or -1.
	Index int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s (lottery %d)", msg, e.Index)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// SearchDivergenceError is returned when the certainty-equivalent bisection
// does not reach the target within its iteration cap.
type SearchDivergenceError struct {
	Iterations int     // Iterations performed
	Limit      int     // Maximum allowed iterations
	Lower      float64 // Final lower bound
	Upper      float64 // Final upper bound
	Target     float64 // Expected utility being searched for
}

// Error implements the error interface.
func (e *SearchDivergenceError) Error() string {
	return fmt.Sprintf("%s: no certainty equivalent within %d iterations (target utility %g, last interval [%g, %g]); utility must be increasing on the interval and the target reachable",
		ErrCodeSearchDivergence, e.Limit, e.Target, e.Lower, e.Upper)
}

// IsInvalidLottery returns true if the error reports a malformed lottery.
// Uses errors.As to handle wrapped errors.
func IsInvalidLottery(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) && ee.Code == ErrCodeInvalidLottery {
		return true
	}
	return lottery.IsInvalidLottery(err)
}

// IsSearchDivergence returns true if the solver gave up.
func IsSearchDivergence(err error) bool {
	var se *SearchDivergenceError
	return errors.As(err, &se)
}

// IsEmptyInput returns true if the error reports an empty collection.
func IsEmptyInput(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Code == ErrCodeEmptyInput
}

func newInvalidLotteryError(index int, err error) *EvalError {
	return &EvalError{
		Code:    ErrCodeInvalidLottery,
		Message: "lottery failed validation",
		Index:   index,
		Err:     err,
	}
}

func newArgumentError(format string, args ...any) *EvalError {
	return &EvalError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
		Index:   -1,
	}
}
