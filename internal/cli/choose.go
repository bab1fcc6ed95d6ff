package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/present"
	"github.com/roach88/lottery/internal/utility"
)

// ChooseOptions holds flags for the choose command.
type ChooseOptions struct {
	*RootOptions
	Names   []string
	Utility utilityFlags
}

// ChooseResult holds the choose command output.
type ChooseResult struct {
	Utility         utility.Spec `json:"utility"`
	Candidates      []string     `json:"candidates"`
	Name            string       `json:"name"`
	Index           int          `json:"index"`
	ExpectedUtility float64      `json:"expected_utility"`
}

// NewChooseCommand creates the choose command.
func NewChooseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChooseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "choose <catalog>",
		Short: "Pick the lottery with the highest expected utility",
		Long: `Pick the lottery with the highest expected utility among the lotteries of
a catalog (or those selected with --name, in the order given).

Ties go to the first candidate. If any candidate is invalid the command
fails and names it.

Examples:
  lottery choose catalog.cue --utility crra --param r=0.5
  lottery choose catalog.cue --name sure --name gamble`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChoose(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Names, "name", nil, "candidate lotteries (repeatable, default all)")
	opts.Utility.register(cmd)

	return cmd
}

func runChoose(opts *ChooseOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	u, spec, err := opts.Utility.build()
	if err != nil {
		return flagFailure(formatter, ErrCodeInvalidUtility, err)
	}

	named, err := LoadCatalog(path, opts.Names)
	if err != nil {
		return loadFailure(formatter, err)
	}

	names := make([]string, len(named))
	lotteries := make([]lottery.Lottery, len(named))
	for i, n := range named {
		names[i] = n.Name
		lotteries[i] = n.Lottery
	}

	choice, err := opts.settings().Evaluator().Choose(lotteries, u)
	if err != nil {
		return evalFailure(formatter, failedName(err, named), err)
	}

	result := ChooseResult{
		Utility:         spec,
		Candidates:      names,
		Name:            names[choice.Index],
		Index:           choice.Index,
		ExpectedUtility: choice.ExpectedUtility,
	}
	formatter.VerboseLog("Chose %s among %d candidate(s)", result.Name, len(names))

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	err = present.NewPrinter(formatter.Writer).Printf("Best lottery: %s (index %d), expected utility = %.4f\n",
		result.Name, result.Index, result.ExpectedUtility)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
	}
	return nil
}
