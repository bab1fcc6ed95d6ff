package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepText(t *testing.T) {
	cmd := NewSweepCommand(&RootOptions{Format: "text"})
	out, err := execute(t, cmd, catalogPath, "--name", "three", "--from", "1", "--to", "2", "--step", "0.5")
	require.NoError(t, err)
	assertGolden(t, "sweep_linear", out)
}

func TestSweepOrdersByParamThenLottery(t *testing.T) {
	cmd := NewSweepCommand(&RootOptions{Format: "json"})
	out, err := execute(t, cmd, catalogPath,
		"--name", "sure", "--name", "gamble", "--utility", "crra",
		"--from", "0.25", "--to", "0.75", "--step", "0.25")
	require.NoError(t, err)

	var result SweepResult
	decodeResponse(t, out, &result)
	assert.Equal(t, "r", result.Param)
	require.Len(t, result.Rows, 6)

	names := make([]string, len(result.Rows))
	for i, r := range result.Rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"sure", "gamble", "sure", "gamble", "sure", "gamble"}, names)
	assert.Equal(t, 0.25, result.Rows[0].Param)
	assert.Equal(t, 0.75, result.Rows[5].Param)

	// More risk aversion lowers the utility of the gamble.
	assert.Greater(t, result.Rows[1].ExpectedUtility, result.Rows[3].ExpectedUtility)
	assert.Greater(t, result.Rows[3].ExpectedUtility, result.Rows[5].ExpectedUtility)
	for _, r := range result.Rows {
		if r.Name == "gamble" {
			assert.Equal(t, 50.0, r.ExpectedValue)
		}
	}
}

func TestSweepBadRange(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero step", []string{"--step", "0"}, "--step must be positive"},
		{"reversed", []string{"--from", "2", "--to", "1"}, "must not be below"},
		{"too many steps", []string{"--from", "0", "--to", "1", "--step", "1e-6"}, "more than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewSweepCommand(&RootOptions{Format: "text"})
			out, err := execute(t, cmd, append([]string{catalogPath}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSweepValues(t *testing.T) {
	values, err := sweepValues(0.1, 0.5, 0.1)
	require.NoError(t, err)
	require.Len(t, values, 5)
	assert.InDelta(t, 0.5, values[4], 1e-12)

	values, err = sweepValues(3, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, values)
}
