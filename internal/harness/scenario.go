package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lottery/internal/evaluate"
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

// Scenario defines an evaluation test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name" validate:"required"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" validate:"required"`

	// Catalogs lists lottery catalog files (.cue, .yaml, .yml, .json).
	// Paths are relative to the scenario file location.
	Catalogs []string `yaml:"catalogs,omitempty"`

	// Lotteries are defined inline.
	Lotteries []lottery.Named `yaml:"lotteries,omitempty"`

	// Utility selects the utility function for utility-based assertions.
	Utility *utility.Spec `yaml:"utility,omitempty"`

	// Bounds is the certainty-equivalent search interval.
	Bounds *evaluate.Bounds `yaml:"bounds,omitempty"`

	// Precision overrides the solver precision.
	Precision float64 `yaml:"precision,omitempty" validate:"gte=0"`

	// MaxIterations overrides the solver iteration cap.
	MaxIterations int `yaml:"max_iterations,omitempty" validate:"gte=0"`

	// Tolerance bounds |got - want| for numeric assertions.
	// Defaults to DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty" validate:"gte=0"`

	// Assertions are checked in order.
	Assertions []Assertion `yaml:"assertions" validate:"required,min=1,dive"`
}

// Assertion checks one computed result.
type Assertion struct {
	// Type selects the check; see the package documentation.
	Type string `yaml:"type" validate:"required,oneof=valid reduces_to expected_value expected_utility certainty_equivalent risk_premium choice"`

	// Lottery names the lottery under test.
	Lottery string `yaml:"lottery,omitempty"`

	// Lotteries names the candidates for a choice; empty means all, in
	// scenario order.
	Lotteries []string `yaml:"lotteries,omitempty"`

	// Value is the expected number.
	Value *float64 `yaml:"value,omitempty"`

	// Valid is the expected validity (valid).
	Valid *bool `yaml:"valid,omitempty"`

	// Index is the expected choice.
	Index *int `yaml:"index,omitempty"`

	// Events is the expected reduced distribution (reduces_to).
	Events lottery.Lottery `yaml:"events,omitempty"`

	// Error is the expected evaluation error code, e.g. INVALID_LOTTERY.
	Error string `yaml:"error,omitempty" validate:"omitempty,oneof=INVALID_LOTTERY SEARCH_DIVERGENCE EMPTY_INPUT INVALID_ARGUMENT"`
}

// Assertion type constants.
const (
	AssertValid               = "valid"
	AssertReducesTo           = "reduces_to"
	AssertExpectedValue       = "expected_value"
	AssertExpectedUtility     = "expected_utility"
	AssertCertaintyEquivalent = "certainty_equivalent"
	AssertRiskPremium         = "risk_premium"
	AssertChoice              = "choice"
)

// DefaultTolerance is the numeric comparison tolerance when a scenario sets
// none.
const DefaultTolerance = 1e-6

var validate = validator.New()

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Catalog paths are resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, p := range scenario.Catalogs {
		if !filepath.IsAbs(p) {
			scenario.Catalogs[i] = filepath.Join(base, p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks required fields and per-type assertion fields.
func validateScenario(s *Scenario) error {
	if err := validate.Struct(s); err != nil {
		return err
	}

	for _, p := range s.Catalogs {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("catalog file not found: %s", p)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, s); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, s *Scenario) error {
	needsLottery := a.Type != AssertChoice
	if needsLottery && a.Lottery == "" {
		return fmt.Errorf("assertions[%d]: lottery is required for %s", index, a.Type)
	}

	switch a.Type {
	case AssertValid:
		if a.Valid == nil {
			return fmt.Errorf("assertions[%d]: valid is required for valid", index)
		}
	case AssertReducesTo:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events is required for reduces_to", index)
		}
	case AssertChoice:
		if a.Index == nil && a.Error == "" {
			return fmt.Errorf("assertions[%d]: index or error is required for choice", index)
		}
	default:
		if a.Value == nil && a.Error == "" {
			return fmt.Errorf("assertions[%d]: value or error is required for %s", index, a.Type)
		}
	}

	switch a.Type {
	case AssertExpectedUtility, AssertCertaintyEquivalent, AssertRiskPremium, AssertChoice:
		if s.Utility == nil {
			return fmt.Errorf("assertions[%d]: %s needs a scenario utility", index, a.Type)
		}
	}
	switch a.Type {
	case AssertCertaintyEquivalent, AssertRiskPremium:
		if s.Bounds == nil {
			return fmt.Errorf("assertions[%d]: %s needs scenario bounds", index, a.Type)
		}
	}
	return nil
}
