package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/lottery/internal/present"
	"github.com/roach88/lottery/internal/utility"
)

// EVOptions holds flags for the ev and eu commands.
type EVOptions struct {
	*RootOptions
	Names   []string
	Utility utilityFlags
}

// ValueResult is the expected value of one lottery.
type ValueResult struct {
	Name          string  `json:"name"`
	ExpectedValue float64 `json:"expected_value"`
}

// UtilityResult is the expected utility of one lottery.
type UtilityResult struct {
	Name            string  `json:"name"`
	ExpectedUtility float64 `json:"expected_utility"`
}

// EUResult holds the eu command output.
type EUResult struct {
	Utility   utility.Spec    `json:"utility"`
	Lotteries []UtilityResult `json:"lotteries"`
}

// NewEVCommand creates the ev command.
func NewEVCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EVOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ev <catalog>",
		Short: "Compute expected values",
		Long: `Compute the expected value of every lottery in a catalog.

Compound lotteries are reduced first. A lottery that fails validation at
any nesting level is an error (exit code 1).

Examples:
  lottery ev catalog.cue
  lottery ev catalog.yaml --name three --name nested`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEV(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Names, "name", nil, "only evaluate the named lotteries (repeatable)")

	return cmd
}

func runEV(opts *EVOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	named, err := LoadCatalog(path, opts.Names)
	if err != nil {
		return loadFailure(formatter, err)
	}

	eval := opts.settings().Evaluator()
	results := make([]ValueResult, 0, len(named))
	for _, n := range named {
		ev, err := eval.ExpectedValue(n.Lottery)
		if err != nil {
			return evalFailure(formatter, n.Name, err)
		}
		results = append(results, ValueResult{Name: n.Name, ExpectedValue: ev})
	}

	if formatter.Format == "json" {
		return formatter.Success(results)
	}

	p := present.NewPrinter(formatter.Writer)
	for _, r := range results {
		if err := p.Printf("Lottery %s: expected value = %.4f\n", r.Name, r.ExpectedValue); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
		}
	}
	return nil
}

// NewEUCommand creates the eu command.
func NewEUCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EVOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eu <catalog>",
		Short: "Compute expected utilities",
		Long: `Compute the expected utility of every lottery in a catalog.

The utility function is chosen with --utility and tuned with --param;
parameters not given take the family defaults. With -v the utility of
every payoff is printed to stderr.

Examples:
  lottery eu catalog.cue --utility crra --param r=0.5
  lottery eu catalog.yaml --utility hara --param a=2 --param b=50`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEU(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Names, "name", nil, "only evaluate the named lotteries (repeatable)")
	opts.Utility.register(cmd)

	return cmd
}

func runEU(opts *EVOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	u, spec, err := opts.Utility.build()
	if err != nil {
		return flagFailure(formatter, ErrCodeInvalidUtility, err)
	}

	named, err := LoadCatalog(path, opts.Names)
	if err != nil {
		return loadFailure(formatter, err)
	}

	eval := opts.settings().Evaluator()
	result := EUResult{Utility: spec, Lotteries: make([]UtilityResult, 0, len(named))}
	for _, n := range named {
		eu, err := eval.ExpectedUtility(n.Lottery, u)
		if err != nil {
			return evalFailure(formatter, n.Name, err)
		}
		if formatter.Verbose {
			_ = present.NewPrinter(formatter.GetErrWriter()).LotteryWithUtility(n.Lottery, u)
		}
		result.Lotteries = append(result.Lotteries, UtilityResult{Name: n.Name, ExpectedUtility: eu})
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	p := present.NewPrinter(formatter.Writer)
	for _, r := range result.Lotteries {
		if err := p.Printf("Lottery %s: expected utility = %.4f\n", r.Name, r.ExpectedUtility); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
		}
	}
	return nil
}
