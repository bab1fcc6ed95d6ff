package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lottery/internal/evaluate"
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

// utilityFlags selects a utility function from the command line.
type utilityFlags struct {
	name   string
	params map[string]string
}

func (u *utilityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&u.name, "utility", "linear",
		fmt.Sprintf("utility family (%s)", strings.Join(utility.Names(), "|")))
	cmd.Flags().StringToStringVar(&u.params, "param", nil,
		"utility parameter as key=value, e.g. --param r=0.5 (repeatable)")
}

// spec parses the flags into a utility.Spec.
func (u *utilityFlags) spec() (utility.Spec, error) {
	s := utility.Spec{Name: u.name}
	if len(u.params) > 0 {
		s.Params = make(map[string]float64, len(u.params))
	}
	for k, v := range u.params {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return utility.Spec{}, fmt.Errorf("--param %s=%s: value must be a number", k, v)
		}
		s.Params[k] = x
	}
	return s, nil
}

// build returns the utility function and the spec it was built from.
func (u *utilityFlags) build() (utility.Func, utility.Spec, error) {
	s, err := u.spec()
	if err != nil {
		return nil, utility.Spec{}, err
	}
	fn, err := utility.FromSpec(s)
	if err != nil {
		return nil, utility.Spec{}, err
	}
	return fn, s, nil
}

// solverFlags configures the certainty-equivalent search.
type solverFlags struct {
	min       float64
	max       float64
	precision float64
	maxIter   int
}

func (s *solverFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&s.min, "min", 0, "lower end of the certainty-equivalent search interval")
	cmd.Flags().Float64Var(&s.max, "max", 1000, "upper end of the certainty-equivalent search interval")
	cmd.Flags().Float64Var(&s.precision, "precision", 0, "utility precision (default from LOTTERY_PRECISION)")
	cmd.Flags().IntVar(&s.maxIter, "max-iter", 0, "iteration cap (default from LOTTERY_MAX_ITERATIONS)")
}

func (s *solverFlags) bounds() evaluate.Bounds {
	return evaluate.Bounds{Min: s.min, Max: s.max}
}

// apply overrides the evaluator's solver settings with any flags given.
func (s *solverFlags) apply(e evaluate.Evaluator) evaluate.Evaluator {
	if s.precision != 0 {
		e.Precision = s.precision
	}
	if s.maxIter != 0 {
		e.MaxIterations = s.maxIter
	}
	return e
}

// fail reports err in the configured format and returns the matching
// ExitError.
func fail(f *OutputFormatter, exit int, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}

// flagFailure reports a bad flag value (exit code 2).
func flagFailure(f *OutputFormatter, code string, err error) error {
	return fail(f, ExitCommandError, code, err)
}

// loadFailure reports a catalog that could not be loaded (exit code 2).
func loadFailure(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		var details any
		if loadErr.Pos.IsValid() {
			details = map[string]any{
				"file":   loadErr.Pos.Filename(),
				"line":   loadErr.Pos.Line(),
				"column": loadErr.Pos.Column(),
			}
		}
		_ = f.Error(loadErr.Code, loadErr.Message, details)
		return WrapExitError(ExitCommandError, loadErr.Code, err)
	}
	return fail(f, ExitCommandError, ErrCodeGeneric, err)
}

// evalFailure reports an evaluation error. Invalid solver arguments are
// command errors (exit code 2); everything else is an evaluation failure
// (exit code 1).
func evalFailure(f *OutputFormatter, name string, err error) error {
	code := MapEvalErrorToCode(err)
	exit := ExitFailure
	if code == ErrCodeInvalidArgument {
		exit = ExitCommandError
	}
	if name != "" {
		err = fmt.Errorf("lottery %s: %w", name, err)
	}
	return fail(f, exit, code, err)
}

// failedName returns the name of the lottery an evaluation error points at,
// or "" when it does not point at one.
func failedName(err error, named []lottery.Named) string {
	var evalErr *evaluate.EvalError
	if errors.As(err, &evalErr) && evalErr.Index >= 0 && evalErr.Index < len(named) {
		return named[evalErr.Index].Name
	}
	return ""
}
