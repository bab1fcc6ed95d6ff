package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/lottery/internal/config"
	"github.com/roach88/lottery/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Set by the root command before any subcommand runs.
	Config config.Config
	Logger *zap.Logger
	RunID  string
}

// Version is the lottery CLI version.
const Version = "0.1.0"

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lottery CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "lottery",
		Version: Version,
		Short:   "Lottery - compound lotteries and expected utility",
		Long: `Reduce compound lotteries and evaluate them under expected-utility theory.

Lotteries are read from CUE catalogs (lottery: <name>: [...]) or YAML/JSON
catalogs (lotteries: [{name, events}]). Defaults for tolerances and logging
come from LOTTERY_* environment variables.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			// Validate format flag
			if !isValidFormat(opts.Format) {
				err = NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			} else {
				err = opts.init(cmd)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	// Bad flags are command errors (exit code 2).
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintf(c.ErrOrStderr(), "Error: %v\n", err)
		return WrapExitError(ExitCommandError, ErrCodeBadFlag, err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewReduceCommand(opts))
	cmd.AddCommand(NewEVCommand(opts))
	cmd.AddCommand(NewEUCommand(opts))
	cmd.AddCommand(NewCECommand(opts))
	cmd.AddCommand(NewPremiumCommand(opts))
	cmd.AddCommand(NewChooseCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// init loads configuration, builds the logger and assigns a run id.
func (o *RootOptions) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	o.Config = cfg

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr(), o.Verbose)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	o.RunID = uuid.Must(uuid.NewV7()).String()
	o.Logger = logger.With(zap.String("run_id", o.RunID), zap.String("command", cmd.Name()))
	return nil
}

// settings returns the configuration, loading defaults when the command runs
// without the root (as in unit tests of a single subcommand).
func (o *RootOptions) settings() config.Config {
	if o.Config == (config.Config{}) {
		if cfg, err := config.Load(); err == nil {
			o.Config = cfg
		}
	}
	return o.Config
}

// formatter returns an OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		Logger:    o.Logger,
		RunID:     o.RunID,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
