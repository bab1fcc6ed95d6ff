package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/present"
)

// lineReader is a present.LineReader that must be closed after use.
type lineReader interface {
	present.LineReader
	Close() error
}

// newLineReader opens the prompt reader for the build command.
// Prompts and corrections go to stderr so stdout carries only the result.
var newLineReader = func(cmd *cobra.Command) (lineReader, error) {
	return readline.NewEx(&readline.Config{
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: cmd.ErrOrStderr(),
		Stderr: cmd.ErrOrStderr(),
	})
}

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Name    string
	Out     string
	Utility utilityFlags
}

// BuildResult holds the build command output.
type BuildResult struct {
	Lottery         lottery.Named `json:"lottery"`
	ExpectedValue   float64       `json:"expected_value"`
	ExpectedUtility *float64      `json:"expected_utility,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Enter a lottery interactively",
		Long: `Enter a simple lottery at the prompt: the number of events, then a
payoff and a probability for each. Entries that do not form a lottery are
rejected and the prompts start over. Answer q at any prompt to quit.

The lottery is printed with its expected value (and expected utility when
--utility is given). With --out it is also saved as a one-entry catalog.

Examples:
  lottery build
  lottery build --utility crra --param r=0.5
  lottery build --name mine --out mine.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "built", "catalog name for the lottery")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "save the lottery to a YAML catalog")
	opts.Utility.register(cmd)

	return cmd
}

func runBuild(opts *BuildOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	withUtility := cmd.Flags().Changed("utility") || cmd.Flags().Changed("param")
	u, _, err := opts.Utility.build()
	if err != nil {
		return flagFailure(formatter, ErrCodeInvalidUtility, err)
	}

	rl, err := newLineReader(cmd)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeGeneric, fmt.Errorf("failed to open prompt: %w", err))
	}
	defer rl.Close()

	cfg := opts.settings()
	b := &present.Builder{In: rl, Out: cmd.ErrOrStderr(), Tolerance: cfg.Tolerance}
	l, err := b.Build()
	if err != nil {
		if errors.Is(err, present.ErrAborted) || errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return fail(formatter, ExitFailure, ErrCodeAborted, present.ErrAborted)
		}
		return fail(formatter, ExitCommandError, ErrCodeGeneric, err)
	}
	named := lottery.Named{Name: lottery.NormalizeName(opts.Name), Lottery: l}

	eval := cfg.Evaluator()
	result := BuildResult{Lottery: named}
	if result.ExpectedValue, err = eval.ExpectedValue(l); err != nil {
		return evalFailure(formatter, named.Name, err)
	}
	if withUtility {
		eu, err := eval.ExpectedUtility(l, u)
		if err != nil {
			return evalFailure(formatter, named.Name, err)
		}
		result.ExpectedUtility = &eu
	}

	if opts.Out != "" {
		if err := saveCatalog(opts.Out, named); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
		}
		formatter.VerboseLog("Saved %s to %s", named.Name, opts.Out)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	p := present.NewPrinter(formatter.Writer)
	if withUtility {
		err = p.LotteryWithUtility(l, u)
	} else {
		err = p.Named(named)
	}
	if err == nil {
		err = p.Printf("Expected value = %.4f\n", result.ExpectedValue)
	}
	if err == nil && result.ExpectedUtility != nil {
		err = p.Printf("Expected utility = %.4f\n", *result.ExpectedUtility)
	}
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeWriteFailed, err)
	}
	return nil
}

// saveCatalog writes a one-entry catalog to path.
func saveCatalog(path string, n lottery.Named) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}
	if err := lottery.EncodeCatalog(f, &lottery.Catalog{Lotteries: []lottery.Named{n}}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
