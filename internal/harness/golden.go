package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// FormatReport renders a result as stable text, one line per assertion:
//
//	scenario: coin_flip
//	[0] expected_value coin: want 15, got 15 ok
//	pass: true
func FormatReport(name string, r *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	for _, line := range r.Report {
		status := "ok"
		if !line.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&buf, "[%d] %s %s: want %s, got %s %s\n",
			line.Index, line.Type, line.Subject, line.Want, line.Got, status)
	}
	fmt.Fprintf(&buf, "pass: %t\n", r.Pass)
	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares its report against a
// golden file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario could not be set up.
// Test failure (via goldie) occurs if the report doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, FormatReport(scenarioName, result))
}
