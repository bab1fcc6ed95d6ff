package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/lottery/internal/evaluate"
	"github.com/roach88/lottery/internal/present"
	"github.com/roach88/lottery/internal/utility"
)

// CEOptions holds flags for the ce and premium commands.
type CEOptions struct {
	*RootOptions
	Names   []string
	Utility utilityFlags
	Solver  solverFlags
}

// CEResult is the certainty equivalent of one lottery.
type CEResult struct {
	Name string `json:"name"`
	evaluate.Equivalent
}

// PremiumResult is the risk premium of one lottery.
type PremiumResult struct {
	Name                string  `json:"name"`
	ExpectedValue       float64 `json:"expected_value"`
	CertaintyEquivalent float64 `json:"certainty_equivalent"`
	RiskPremium         float64 `json:"risk_premium"`
}

// CEOutput holds the ce command output.
type CEOutput struct {
	Utility   utility.Spec    `json:"utility"`
	Bounds    evaluate.Bounds `json:"bounds"`
	Lotteries []CEResult      `json:"lotteries"`
}

// PremiumOutput holds the premium command output.
type PremiumOutput struct {
	Utility   utility.Spec    `json:"utility"`
	Bounds    evaluate.Bounds `json:"bounds"`
	Lotteries []PremiumResult `json:"lotteries"`
}

func newCEOptions(rootOpts *RootOptions, cmd *cobra.Command) *CEOptions {
	opts := &CEOptions{RootOptions: rootOpts}
	cmd.Flags().StringSliceVar(&opts.Names, "name", nil, "only evaluate the named lotteries (repeatable)")
	opts.Utility.register(cmd)
	opts.Solver.register(cmd)
	return opts
}

// NewCECommand creates the ce command.
func NewCECommand(rootOpts *RootOptions) *cobra.Command {
	var opts *CEOptions

	cmd := &cobra.Command{
		Use:   "ce <catalog>",
		Short: "Find certainty equivalents",
		Long: `Find the certainty equivalent of every lottery in a catalog.

The certainty equivalent is the sure payoff whose utility equals the
lottery's expected utility. It is found by bisection over [--min, --max],
which assumes the utility function is increasing there. The search stops
once u(x) is within --precision of the expected utility; a search that
runs out of iterations is an error (exit code 1).

Examples:
  lottery ce catalog.cue
  lottery ce catalog.cue --utility crra --param r=0.5 --max 200 --precision 1e-6`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCE(opts, args[0], cmd)
		},
	}
	opts = newCEOptions(rootOpts, cmd)

	return cmd
}

func runCE(opts *CEOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	u, spec, err := opts.Utility.build()
	if err != nil {
		return flagFailure(formatter, ErrCodeInvalidUtility, err)
	}

	named, err := LoadCatalog(path, opts.Names)
	if err != nil {
		return loadFailure(formatter, err)
	}

	eval := opts.Solver.apply(opts.settings().Evaluator())
	out := CEOutput{Utility: spec, Bounds: opts.Solver.bounds(), Lotteries: make([]CEResult, 0, len(named))}
	for _, n := range named {
		eq, err := eval.CertaintyEquivalent(n.Lottery, u, out.Bounds)
		if err != nil {
			return evalFailure(formatter, n.Name, err)
		}
		formatter.VerboseLog("Certainty equivalent of %s found after %d iteration(s)", n.Name, eq.Iterations)
		out.Lotteries = append(out.Lotteries, CEResult{Name: n.Name, Equivalent: eq})
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	p := present.NewPrinter(formatter.Writer)
	for _, r := range out.Lotteries {
		err := p.Printf("Lottery %s: certainty equivalent = %.4f (utility %.4f, expected utility %.4f, %d iterations)\n",
			r.Name, r.CE, r.UtilityAtCE, r.ExpectedUtility, r.Iterations)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
		}
	}
	return nil
}

// NewPremiumCommand creates the premium command.
func NewPremiumCommand(rootOpts *RootOptions) *cobra.Command {
	var opts *CEOptions

	cmd := &cobra.Command{
		Use:   "premium <catalog>",
		Short: "Compute risk premiums",
		Long: `Compute the risk premium of every lottery in a catalog: its expected
value minus its certainty equivalent under the chosen utility function.

A risk-averse (concave) utility gives a positive premium; a linear one
gives a premium near zero. Solver flags are the same as for ce.

Examples:
  lottery premium catalog.cue --utility crra --param r=0.5
  lottery premium catalog.cue --utility cara --param r=0.01 --max 500`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPremium(opts, args[0], cmd)
		},
	}
	opts = newCEOptions(rootOpts, cmd)

	return cmd
}

func runPremium(opts *CEOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	u, spec, err := opts.Utility.build()
	if err != nil {
		return flagFailure(formatter, ErrCodeInvalidUtility, err)
	}

	named, err := LoadCatalog(path, opts.Names)
	if err != nil {
		return loadFailure(formatter, err)
	}

	eval := opts.Solver.apply(opts.settings().Evaluator())
	out := PremiumOutput{Utility: spec, Bounds: opts.Solver.bounds(), Lotteries: make([]PremiumResult, 0, len(named))}
	for _, n := range named {
		eq, err := eval.CertaintyEquivalent(n.Lottery, u, out.Bounds)
		if err != nil {
			return evalFailure(formatter, n.Name, err)
		}
		ev, err := eval.ExpectedValue(n.Lottery)
		if err != nil {
			return evalFailure(formatter, n.Name, err)
		}
		premium, err := eval.RiskPremium(n.Lottery, eq.CE)
		if err != nil {
			return evalFailure(formatter, n.Name, err)
		}
		out.Lotteries = append(out.Lotteries, PremiumResult{
			Name:                n.Name,
			ExpectedValue:       ev,
			CertaintyEquivalent: eq.CE,
			RiskPremium:         premium,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	p := present.NewPrinter(formatter.Writer)
	for _, r := range out.Lotteries {
		err := p.Printf("Lottery %s: risk premium = %.4f (expected value %.4f, certainty equivalent %.4f)\n",
			r.Name, r.RiskPremium, r.ExpectedValue, r.CertaintyEquivalent)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
		}
	}
	return nil
}
