package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lottery/internal/lottery"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileCUE(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.cue", `
lottery: sure: [{prob: 1, out: 5}]
`)

	named, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "sure", named[0].Name)
}

func TestLoadFileCUEErrorHasPosition(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.cue", `lottery: bad: [{prob: 1, out: "x"}]
`)

	_, err := LoadFile(path)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Pos.IsValid())
	assert.Equal(t, 1, ce.Pos.Line())
	assert.Contains(t, err.Error(), "catalog.cue:1:")
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.yaml", `
lotteries:
  - name: coin
    events:
      - {prob: 0.5, out: 1}
      - {prob: 0.5, out: [{prob: 1, out: 2}]}
`)

	named, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, lottery.New(
		lottery.E(0.5, lottery.P(1)),
		lottery.E(0.5, lottery.Sub(lottery.E(1, lottery.P(2)))),
	), named[0].Lottery)
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.json",
		`{"lotteries": [{"name": "sure", "events": [{"prob": 1, "out": 3}]}]}`)

	named, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sure", named[0].Name)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cue", "package catalog\n\nlottery: a: [{prob: 1, out: 1}]\n")
	writeFile(t, dir, "b.cue", "package catalog\n\nlottery: b: [{prob: 1, out: 2}]\n")

	named, err := LoadFile(dir)
	require.NoError(t, err)
	require.Len(t, named, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, []string{named[0].Name, named[1].Name})
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.cue"))
	assert.ErrorContains(t, err, "failed to read catalog")

	_, err = LoadFile(writeFile(t, dir, "catalog.toml", ""))
	assert.ErrorContains(t, err, "unsupported catalog format")

	_, err = LoadFile(writeFile(t, dir, "bad.yaml", "lotteries: [{name: x, events: [{prob: 1}]}]"))
	assert.ErrorContains(t, err, "out is required")
}
