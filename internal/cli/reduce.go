package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/present"
)

// ReduceOptions holds flags for the reduce command.
type ReduceOptions struct {
	*RootOptions
	Names     []string
	Canonical bool
}

// ReducedLottery is one reduced lottery in the command output.
type ReducedLottery struct {
	Name        string          `json:"name"`
	Events      lottery.Lottery `json:"events"`
	Fingerprint string          `json:"fingerprint"`
}

// ReduceResult holds the reduce command output.
type ReduceResult struct {
	Lotteries []ReducedLottery `json:"lotteries"`
}

// NewReduceCommand creates the reduce command.
func NewReduceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReduceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reduce <catalog>",
		Short: "Reduce compound lotteries to simple ones",
		Long: `Flatten every compound lottery in a catalog into a simple lottery.

Each nested event is replaced by its sub-events, with the parent
probability multiplied in. With --canonical, events with equal payoffs
are merged and sorted by payoff.

Examples:
  lottery reduce catalog.cue
  lottery reduce catalog.yaml --name nested --canonical
  lottery reduce catalog.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduce(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Names, "name", nil, "only reduce the named lotteries (repeatable)")
	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "merge equal payoffs and sort by payoff")

	return cmd
}

func runReduce(opts *ReduceOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	named, err := LoadCatalog(path, opts.Names)
	if err != nil {
		return loadFailure(formatter, err)
	}

	tol := opts.settings().Tolerance
	result := ReduceResult{Lotteries: make([]ReducedLottery, 0, len(named))}
	for _, n := range named {
		if err := lottery.ValidateDeep(n.Lottery, tol); err != nil {
			return evalFailure(formatter, n.Name, err)
		}

		var flat lottery.Lottery
		if opts.Canonical {
			flat = lottery.Canonical(n.Lottery)
		} else {
			flat = lottery.Reduce(n.Lottery)
		}
		fp := lottery.Fingerprint(n.Lottery)
		formatter.VerboseLog("Reduced %s: depth %d, %d event(s), fingerprint %s",
			n.Name, n.Lottery.Depth(), len(flat), fp)

		result.Lotteries = append(result.Lotteries, ReducedLottery{
			Name:        n.Name,
			Events:      flat,
			Fingerprint: fp,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	p := present.NewPrinter(formatter.Writer)
	for i, r := range result.Lotteries {
		if i > 0 {
			_ = p.Printf("\n")
		}
		if err := p.Named(lottery.Named{Name: r.Name, Lottery: r.Events}); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
		}
	}
	return nil
}
