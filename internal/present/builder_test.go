package present

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lottery/internal/lottery"
)

// scriptedReader answers prompts from a fixed list of lines.
type scriptedReader struct {
	lines   []string
	prompts []string
	prompt  string
}

func (r *scriptedReader) SetPrompt(prompt string) {
	r.prompt = prompt
}

func (r *scriptedReader) Readline() (string, error) {
	r.prompts = append(r.prompts, r.prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func build(t *testing.T, lines ...string) (lottery.Lottery, *scriptedReader, string, error) {
	t.Helper()
	in := &scriptedReader{lines: lines}
	var out bytes.Buffer
	b := &Builder{In: in, Out: &out}
	l, err := b.Build()
	return l, in, out.String(), err
}

func TestBuilderBuild(t *testing.T) {
	l, in, out, err := build(t, "2", "10", "0.5", "20", "0.5")
	require.NoError(t, err)

	assert.Equal(t, lottery.New(lottery.E(0.5, lottery.P(10)), lottery.E(0.5, lottery.P(20))), l)
	assert.Equal(t, []string{
		"Enter number of events (or q quits):",
		"Enter outcome (or q quits):",
		"Enter probability (or q quits):",
		"Enter outcome (or q quits):",
		"Enter probability (or q quits):",
	}, in.prompts)
	assert.Equal(t, "   Event 1\n   Event 2\n", out)
}

func TestBuilderRepromptsOnNonNumber(t *testing.T) {
	l, in, out, err := build(t, "one", "1", "abc", "5", " 1 ")
	require.NoError(t, err)

	assert.Equal(t, lottery.New(lottery.E(1, lottery.P(5))), l)
	assert.Contains(t, out, "one is not a number\n")
	assert.Contains(t, out, "abc is not a number\n")
	assert.Equal(t, "Enter number of events (or q quits):", in.prompts[1])
	assert.Equal(t, "Enter outcome (or q quits):", in.prompts[3])
}

func TestBuilderRejectsFractionalCount(t *testing.T) {
	_, _, out, err := build(t, "2.5", "0", "1", "5", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "2.5 is not a positive whole number\n")
	assert.Contains(t, out, "0 is not a positive whole number\n")
}

func TestBuilderLoopsUntilValid(t *testing.T) {
	l, _, out, err := build(t,
		"2", "10", "0.5", "20", "0.75",
		"1", "7", "1",
	)
	require.NoError(t, err)

	assert.Equal(t, lottery.New(lottery.E(1, lottery.P(7))), l)
	assert.Contains(t, out, "Not a lottery (PROBABILITY_SUM: lottery: probabilities sum to 1.25, want 1), try again\n")
}

func TestBuilderQuit(t *testing.T) {
	for _, q := range []string{"q", "Q"} {
		_, _, _, err := build(t, "2", "10", q)
		assert.ErrorIs(t, err, ErrAborted)
	}
}

func TestBuilderReadError(t *testing.T) {
	_, _, _, err := build(t, "2", "10")
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuilderTolerance(t *testing.T) {
	in := &scriptedReader{lines: []string{"2", "1", "0.5", "2", "0.505"}}
	b := &Builder{In: in, Out: io.Discard, Tolerance: 0.01}

	l, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, l, 2)
}
