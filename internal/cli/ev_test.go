package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEVText(t *testing.T) {
	out, err := execute(t, NewEVCommand(&RootOptions{Format: "text"}), catalogPath)
	require.NoError(t, err)
	assertGolden(t, "ev", out)
}

func TestEVSelectedNamesKeepOrder(t *testing.T) {
	cmd := NewEVCommand(&RootOptions{Format: "json"})
	out, err := execute(t, cmd, catalogPath, "--name", "gamble", "--name", "nested")
	require.NoError(t, err)

	var results []ValueResult
	decodeResponse(t, out, &results)
	assert.Equal(t, []ValueResult{
		{Name: "gamble", ExpectedValue: 50},
		{Name: "nested", ExpectedValue: 15},
	}, results)
}

func TestEVInvalidLottery(t *testing.T) {
	cmd := NewEVCommand(&RootOptions{Format: "json"})
	out, err := execute(t, cmd, filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidLottery, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "lottery broken")
}

func TestEUText(t *testing.T) {
	cmd := NewEUCommand(&RootOptions{Format: "text"})
	out, err := execute(t, cmd, catalogPath, "--utility", "crra", "--param", "r=0.5")
	require.NoError(t, err)
	assertGolden(t, "eu_crra", out)
}

func TestEUDefaultIsLinear(t *testing.T) {
	cmd := NewEUCommand(&RootOptions{Format: "json"})
	out, err := execute(t, cmd, catalogPath, "--name", "three")
	require.NoError(t, err)

	var result EUResult
	decodeResponse(t, out, &result)
	assert.Equal(t, "linear", result.Utility.Name)
	require.Len(t, result.Lotteries, 1)
	assert.Equal(t, 75.0, result.Lotteries[0].ExpectedUtility)
}

func TestEUVerbosePrintsUtilities(t *testing.T) {
	cmd := NewEUCommand(&RootOptions{Format: "text", Verbose: true})
	stderr := &bytes.Buffer{}
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{catalogPath, "--name", "sure", "--utility", "crra"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Lottery sure: expected utility = 11.4164\n", stdout.String())
	assert.Equal(t, "Lottery\nevent 0 prob = 1.000 outcome = 45.00, utility = 11.4164\n", stderr.String())
}

func TestEUBadUtility(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown family", []string{"--utility", "quadratic"}, "unknown utility"},
		{"unknown parameter", []string{"--utility", "crra", "--param", "k=1"}, "unknown parameter"},
		{"not a number", []string{"--utility", "crra", "--param", "r=high"}, "must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewEUCommand(&RootOptions{Format: "text"})
			out, err := execute(t, cmd, append([]string{catalogPath}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), ErrCodeInvalidUtility)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestEUUtilityDomainError(t *testing.T) {
	cmd := NewEUCommand(&RootOptions{Format: "text"})
	_, err := execute(t, cmd, catalogPath, "--name", "gamble", "--utility", "crra", "--param", "r=1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeUtilityDomain)
}
