package harness

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/lottery/internal/compiler"
	"github.com/roach88/lottery/internal/evaluate"
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

// Harness holds the resolved inputs of one scenario.
type Harness struct {
	eval      evaluate.Evaluator
	lotteries []lottery.Named
	byName    map[string]int
	u         utility.Func
	bounds    evaluate.Bounds
	tol       float64
}

// Run executes a test scenario and returns the result.
//
// An error means the scenario could not be set up: a catalog failed to
// load, a lottery name is unknown or duplicated, or the utility spec is
// invalid. Assertion failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, a := range scenario.Assertions {
		line, err := h.check(a)
		if err != nil {
			return nil, fmt.Errorf("assertions[%d]: %w", i, err)
		}
		result.Record(line)
	}
	return result, nil
}

func newHarness(s *Scenario) (*Harness, error) {
	h := &Harness{
		eval:   evaluate.Default(),
		byName: make(map[string]int),
		tol:    s.Tolerance,
	}
	if h.tol == 0 {
		h.tol = DefaultTolerance
	}
	if s.Precision > 0 {
		h.eval.Precision = s.Precision
	}
	if s.MaxIterations > 0 {
		h.eval.MaxIterations = s.MaxIterations
	}
	if s.Bounds != nil {
		h.bounds = *s.Bounds
	}

	for _, path := range s.Catalogs {
		named, err := compiler.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := h.add(named); err != nil {
			return nil, err
		}
	}
	if err := h.add(s.Lotteries); err != nil {
		return nil, err
	}

	if s.Utility != nil {
		u, err := utility.FromSpec(*s.Utility)
		if err != nil {
			return nil, err
		}
		h.u = u
	}
	return h, nil
}

func (h *Harness) add(named []lottery.Named) error {
	for _, n := range named {
		name := lottery.NormalizeName(n.Name)
		if _, dup := h.byName[name]; dup {
			return fmt.Errorf("duplicate lottery %q", name)
		}
		h.byName[name] = len(h.lotteries)
		h.lotteries = append(h.lotteries, lottery.Named{Name: name, Lottery: n.Lottery})
	}
	return nil
}

func (h *Harness) lookup(name string) (lottery.Lottery, error) {
	i, ok := h.byName[lottery.NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("unknown lottery %q", name)
	}
	return h.lotteries[i].Lottery, nil
}

// check evaluates one assertion.
func (h *Harness) check(a Assertion) (ReportLine, error) {
	line := ReportLine{Type: a.Type, Subject: a.Lottery}

	if a.Type == AssertChoice {
		return h.checkChoice(a, line)
	}

	l, err := h.lookup(a.Lottery)
	if err != nil {
		return line, err
	}

	switch a.Type {
	case AssertValid:
		err := lottery.ValidateDeep(l, h.eval.Tolerance)
		line.Want = strconv.FormatBool(*a.Valid)
		line.Got = strconv.FormatBool(err == nil)
		line.Pass = line.Want == line.Got
		return line, nil

	case AssertReducesTo:
		line.Want = formatDistribution(a.Events)
		line.Got = formatDistribution(l)
		line.Pass = lottery.Equivalent(l, a.Events, h.tol)
		return line, nil
	}

	got, err := h.number(a.Type, l)
	h.compare(&line, a, got, err)
	return line, nil
}

func (h *Harness) number(kind string, l lottery.Lottery) (float64, error) {
	switch kind {
	case AssertExpectedValue:
		return h.eval.ExpectedValue(l)
	case AssertExpectedUtility:
		return h.eval.ExpectedUtility(l, h.u)
	case AssertCertaintyEquivalent:
		eq, err := h.eval.CertaintyEquivalent(l, h.u, h.bounds)
		return eq.CE, err
	case AssertRiskPremium:
		eq, err := h.eval.CertaintyEquivalent(l, h.u, h.bounds)
		if err != nil {
			return 0, err
		}
		return h.eval.RiskPremium(l, eq.CE)
	default:
		return 0, fmt.Errorf("unknown assertion type %q", kind)
	}
}

func (h *Harness) checkChoice(a Assertion, line ReportLine) (ReportLine, error) {
	names := a.Lotteries
	if len(names) == 0 {
		for _, n := range h.lotteries {
			names = append(names, n.Name)
		}
	}
	line.Subject = strings.Join(names, ",")

	candidates := make([]lottery.Lottery, 0, len(names))
	for _, name := range names {
		l, err := h.lookup(name)
		if err != nil {
			return line, err
		}
		candidates = append(candidates, l)
	}

	choice, err := h.eval.Choose(candidates, h.u)
	if a.Error != "" || err != nil {
		h.compareError(&line, a, err)
		return line, nil
	}

	line.Want = strconv.Itoa(*a.Index)
	line.Got = strconv.Itoa(choice.Index)
	line.Pass = choice.Index == *a.Index
	if line.Pass && a.Value != nil {
		line.Want += " " + formatFloat(*a.Value)
		line.Got += " " + formatFloat(choice.ExpectedUtility)
		line.Pass = math.Abs(choice.ExpectedUtility-*a.Value) <= h.tol
	}
	return line, nil
}

func (h *Harness) compare(line *ReportLine, a Assertion, got float64, err error) {
	if a.Error != "" || err != nil {
		h.compareError(line, a, err)
		return
	}
	line.Want = formatFloat(*a.Value)
	line.Got = formatFloat(got)
	line.Pass = math.Abs(got-*a.Value) <= h.tol
}

// compareError matches an evaluation error against the expected code.
func (h *Harness) compareError(line *ReportLine, a Assertion, err error) {
	line.Want = a.Error
	if line.Want == "" {
		line.Want = "no error"
	}
	line.Got = errorCode(err)
	line.Pass = line.Want == line.Got
}

// errorCode maps an evaluation error to its code. Utility domain errors and
// other failures are reported by message.
func errorCode(err error) string {
	if err == nil {
		return "no error"
	}
	var ee *evaluate.EvalError
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	if evaluate.IsSearchDivergence(err) {
		return string(evaluate.ErrCodeSearchDivergence)
	}
	return err.Error()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func formatDistribution(l lottery.Lottery) string {
	var parts []string
	for _, ev := range lottery.Canonical(l) {
		x := float64(ev.Out.(lottery.Payoff))
		parts = append(parts, formatFloat(ev.Prob)+":"+formatFloat(x))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
