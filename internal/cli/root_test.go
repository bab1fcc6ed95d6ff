package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogPath = filepath.Join("testdata", "catalog.cue")

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func assertGolden(t *testing.T, name, output string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(output))
}

// decodeResponse parses a JSON CLI response, decoding its data into data.
func decodeResponse(t *testing.T, output string, data any) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	if data != nil && resp.Data != nil {
		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, data))
	}
	return resp
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lottery", cmd.Use)
	assert.Contains(t, cmd.Long, "expected-utility")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "reduce", "ev", "eu", "ce", "premium", "choose", "sweep", "generate", "build", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestUtilityFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"eu", "ce", "premium", "choose", "sweep", "build"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			utilityFlag := subCmd.Flags().Lookup("utility")
			require.NotNil(t, utilityFlag)
			assert.Equal(t, "linear", utilityFlag.DefValue)
			require.NotNil(t, subCmd.Flags().Lookup("param"))
		})
	}
}

func TestSolverFlags(t *testing.T) {
	cmd := NewRootCommand()
	ceCmd, _, err := cmd.Find([]string{"ce"})
	require.NoError(t, err)

	assert.Equal(t, "0", ceCmd.Flags().Lookup("min").DefValue)
	assert.Equal(t, "1000", ceCmd.Flags().Lookup("max").DefValue)
	assert.Equal(t, "0", ceCmd.Flags().Lookup("precision").DefValue)
	assert.Equal(t, "0", ceCmd.Flags().Lookup("max-iter").DefValue)
}

func TestRootInvalidFormat(t *testing.T) {
	_, err := execute(t, NewRootCommand(), "ev", catalogPath, "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
	assert.True(t, Reported(err))
}

func TestRootBadFlag(t *testing.T) {
	_, err := execute(t, NewRootCommand(), "ev", catalogPath, "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeBadFlag)
}

func TestRootJSONCarriesRunID(t *testing.T) {
	out, err := execute(t, NewRootCommand(), "ev", catalogPath, "--format", "json", "--name", "three")
	require.NoError(t, err)

	var results []ValueResult
	resp := decodeResponse(t, out, &results)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.RunID)
	require.Len(t, results, 1)
	assert.Equal(t, 75.0, results[0].ExpectedValue)
}

func TestRootVerboseLogsToStderr(t *testing.T) {
	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{"reduce", catalogPath, "--name", "nested", "-v"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Lottery nested")
	assert.Contains(t, stderr.String(), "Reduced nested")
	assert.Contains(t, stderr.String(), "run_id")
	assert.NotContains(t, stdout.String(), "Reduced nested")
}

func TestRootConfigFromEnvironment(t *testing.T) {
	invalid := filepath.Join("testdata", "invalid.yaml")

	// With the default tolerance both broken lotteries are reported.
	out, err := execute(t, NewRootCommand(), "validate", invalid)
	require.Error(t, err)
	assert.Contains(t, out, "E102")
	assert.Contains(t, out, "E101")

	// A loose tolerance accepts the 1.25 sum.
	t.Setenv("LOTTERY_TOLERANCE", "0.5")
	out, err = execute(t, NewRootCommand(), "validate", invalid)
	require.Error(t, err)
	assert.NotContains(t, out, "E102")
	assert.Contains(t, out, "E101")
}

func TestRootBadEnvironment(t *testing.T) {
	t.Setenv("LOTTERY_LOG_LEVEL", "loud")

	_, err := execute(t, NewRootCommand(), "ev", catalogPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid config")
}
