package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/roach88/lottery/internal/evaluate"
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/present"
	"github.com/roach88/lottery/internal/utility"
)

// maxSweepSteps bounds the number of parameter values in one sweep.
const maxSweepSteps = 10000

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	Names   []string
	Utility utilityFlags
	From    float64
	To      float64
	Step    float64
}

// SweepLine is one row of the sweep command output.
type SweepLine struct {
	Param           float64 `json:"param"`
	Name            string  `json:"name"`
	ExpectedValue   float64 `json:"expected_value"`
	ExpectedUtility float64 `json:"expected_utility"`
}

// SweepResult holds the sweep command output.
type SweepResult struct {
	Utility utility.Spec `json:"utility"`
	Param   string       `json:"param"`
	Rows    []SweepLine  `json:"rows"`
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep <catalog>",
		Short: "Tabulate expected utility across a parameter range",
		Long: `Evaluate every lottery while varying the main parameter of a utility
family from --from to --to in steps of --step (r for crra and cara, a for
exponential and hara, slope for linear). Other parameters are fixed with
--param.

Rows are ordered by parameter value, then by lottery.

Examples:
  lottery sweep catalog.cue --utility crra --from 0.1 --to 0.9 --step 0.1
  lottery sweep catalog.cue --utility hara --param b=20 --from 1 --to 3 --step 1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Names, "name", nil, "only evaluate the named lotteries (repeatable)")
	opts.Utility.register(cmd)
	cmd.Flags().Float64Var(&opts.From, "from", 0.1, "first parameter value")
	cmd.Flags().Float64Var(&opts.To, "to", 0.9, "last parameter value")
	cmd.Flags().Float64Var(&opts.Step, "step", 0.1, "parameter increment")

	return cmd
}

// sweepValues returns from, from+step, ... up to to (inclusive, allowing
// for rounding).
func sweepValues(from, to, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("--step must be positive, got %g", step)
	}
	if to < from {
		return nil, fmt.Errorf("--to (%g) must not be below --from (%g)", to, from)
	}
	steps := math.Floor((to-from)/step + 1e-9)
	if steps >= maxSweepSteps {
		return nil, fmt.Errorf("sweep has more than %d steps", maxSweepSteps)
	}
	values := make([]float64, int(steps)+1)
	for i := range values {
		values[i] = from + float64(i)*step
	}
	return values, nil
}

func runSweep(opts *SweepOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	base, err := opts.Utility.spec()
	if err != nil {
		return flagFailure(formatter, ErrCodeInvalidUtility, err)
	}
	param, err := utility.PrimaryParam(base.Name)
	if err != nil {
		return flagFailure(formatter, ErrCodeInvalidUtility, err)
	}
	values, err := sweepValues(opts.From, opts.To, opts.Step)
	if err != nil {
		return flagFailure(formatter, ErrCodeBadFlag, err)
	}

	funcs := make([]evaluate.Parameterized, len(values))
	for i, v := range values {
		u, err := utility.FromSpec(base.With(param, v))
		if err != nil {
			return flagFailure(formatter, ErrCodeInvalidUtility, err)
		}
		funcs[i] = evaluate.Parameterized{Param: v, U: u}
	}

	named, err := LoadCatalog(path, opts.Names)
	if err != nil {
		return loadFailure(formatter, err)
	}
	lotteries := make([]lottery.Lottery, len(named))
	for i, n := range named {
		lotteries[i] = n.Lottery
	}

	rows, err := opts.settings().Evaluator().Sweep(lotteries, funcs)
	if err != nil {
		return evalFailure(formatter, failedName(err, named), err)
	}
	formatter.VerboseLog("Swept %s over %d value(s) for %d lottery(s)", param, len(values), len(named))

	result := SweepResult{Utility: base, Param: param, Rows: make([]SweepLine, len(rows))}
	for i, r := range rows {
		result.Rows[i] = SweepLine{
			Param:           r.Param,
			Name:            named[r.Index].Name,
			ExpectedValue:   r.ExpectedValue,
			ExpectedUtility: r.ExpectedUtility,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	p := present.NewPrinter(formatter.Writer)
	for _, r := range result.Rows {
		err := p.Printf("%s = %.4f lottery %s: expected value = %.4f, expected utility = %.4f\n",
			param, r.Param, r.Name, r.ExpectedValue, r.ExpectedUtility)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
		}
	}
	return nil
}
