package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lottery/internal/evaluate"
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

func ptr[T any](v T) *T {
	return &v
}

func TestRunWithGoldenTextbook(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/textbook.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Len(t, result.Report, 7)
}

func TestRunRiskAversion(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/risk_aversion.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "sure,gamble", result.Report[3].Subject)
}

func TestRunReportsFailures(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "wrong expectations",
		Lotteries: []lottery.Named{
			{Name: "coin", Lottery: lottery.New(lottery.E(0.5, lottery.P(0)), lottery.E(0.5, lottery.P(10)))},
		},
		Utility: &utility.Spec{Name: "linear"},
		Bounds:  &evaluate.Bounds{Min: 100, Max: 200},
		Assertions: []Assertion{
			{Type: AssertExpectedValue, Lottery: "coin", Value: ptr(6.0)},
			{Type: AssertCertaintyEquivalent, Lottery: "coin", Value: ptr(5.0)},
			{Type: AssertCertaintyEquivalent, Lottery: "coin", Error: "SEARCH_DIVERGENCE"},
			{Type: AssertValid, Lottery: "coin", Valid: ptr(false)},
			{Type: AssertChoice, Index: ptr(1)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	var passed []bool
	for _, line := range result.Report {
		passed = append(passed, line.Pass)
	}
	assert.Equal(t, []bool{false, false, true, false, false}, passed)
	require.Len(t, result.Errors, 4)
	assert.Equal(t, "assertions[0] expected_value coin: want 6, got 5", result.Errors[0])
	assert.Equal(t, "assertions[1] certainty_equivalent coin: want no error, got SEARCH_DIVERGENCE", result.Errors[1])
}

func TestRunSetupErrors(t *testing.T) {
	base := func() *Scenario {
		return &Scenario{
			Name:        "setup",
			Description: "setup errors",
			Lotteries: []lottery.Named{
				{Name: "a", Lottery: lottery.New(lottery.E(1, lottery.P(1)))},
			},
			Assertions: []Assertion{{Type: AssertExpectedValue, Lottery: "a", Value: ptr(1.0)}},
		}
	}

	s := base()
	s.Assertions[0].Lottery = "missing"
	_, err := Run(s)
	assert.ErrorContains(t, err, `unknown lottery "missing"`)

	s = base()
	s.Lotteries = append(s.Lotteries, s.Lotteries[0])
	_, err = Run(s)
	assert.ErrorContains(t, err, `duplicate lottery "a"`)

	s = base()
	s.Utility = &utility.Spec{Name: "quadratic"}
	_, err = Run(s)
	assert.ErrorContains(t, err, "unknown utility")
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: y\nassertion: []\n",
			msg:     "field assertion not found",
		},
		{
			name:    "missing assertions",
			content: "name: x\ndescription: y\n",
			msg:     "'Assertions' failed on the 'required' tag",
		},
		{
			name:    "missing description",
			content: "name: x\nassertions: [{type: expected_value, lottery: a, value: 1}]\n",
			msg:     "'Description' failed on the 'required' tag",
		},
		{
			name:    "unknown assertion type",
			content: "name: x\ndescription: y\nassertions: [{type: variance, lottery: a}]\n",
			msg:     "'Type' failed on the 'oneof' tag",
		},
		{
			name:    "missing value",
			content: "name: x\ndescription: y\nassertions: [{type: expected_value, lottery: a}]\n",
			msg:     "value or error is required",
		},
		{
			name:    "utility required",
			content: "name: x\ndescription: y\nassertions: [{type: expected_utility, lottery: a, value: 1}]\n",
			msg:     "needs a scenario utility",
		},
		{
			name:    "bounds required",
			content: "name: x\ndescription: y\nutility: {name: linear}\nassertions: [{type: certainty_equivalent, lottery: a, value: 1}]\n",
			msg:     "needs scenario bounds",
		},
		{
			name:    "missing catalog",
			content: "name: x\ndescription: y\ncatalogs: [nowhere.cue]\nassertions: [{type: expected_value, lottery: a, value: 1}]\n",
			msg:     "catalog file not found",
		},
		{
			name:    "unknown error code",
			content: "name: x\ndescription: y\nassertions: [{type: expected_value, lottery: a, error: BOOM}]\n",
			msg:     "'Error' failed on the 'oneof' tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenario.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestFormatReport(t *testing.T) {
	r := NewResult()
	r.Record(ReportLine{Type: AssertExpectedValue, Subject: "a", Want: "1", Got: "2"})

	assert.Equal(t, "scenario: demo\n[0] expected_value a: want 1, got 2 FAIL\npass: false\n",
		string(FormatReport("demo", r)))
}
