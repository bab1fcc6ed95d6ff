package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/lottery/internal/compiler"
	"github.com/roach88/lottery/internal/evaluate"
	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

// LoadError represents an error that occurred while loading a catalog.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeBadFlag     = "E002" // Invalid flag value
	ErrCodeNoLottery   = "E003" // Catalog has no lotteries
	ErrCodeLoadFailed  = "E004" // Catalog could not be parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE compile failed
	ErrCodeWriteFailed = "E007" // Output write error
	ErrCodeUnknownName = "E008" // --name selects a missing lottery
	ErrCodeAborted     = "E009" // Interactive session ended

	// Evaluation errors
	ErrCodeInvalidLottery   = "E201" // Lottery failed validation
	ErrCodeSearchDivergence = "E202" // Certainty equivalent not found
	ErrCodeEmptyInput       = "E203" // Nothing to evaluate
	ErrCodeInvalidArgument  = "E204" // Bad solver bounds or settings
	ErrCodeUtilityDomain    = "E205" // Utility undefined at a payoff
	ErrCodeInvalidUtility   = "E206" // Unknown utility family or parameter
	ErrCodeScenarioFailed   = "E301" // Harness scenario failed
)

// LoadCatalog loads the lotteries in path. When names is non-empty only the
// named lotteries are returned, in the order given.
func LoadCatalog(path string, names []string) ([]lottery.Named, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path)}
	}

	named, err := compiler.LoadFile(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	if len(named) == 0 {
		return nil, &LoadError{Code: ErrCodeNoLottery, Message: fmt.Sprintf("no lotteries found in %s", path)}
	}
	if len(names) == 0 {
		return named, nil
	}

	byName := make(map[string]lottery.Named, len(named))
	for _, n := range named {
		byName[n.Name] = n
	}
	selected := make([]lottery.Named, 0, len(names))
	for _, name := range names {
		n, ok := byName[lottery.NormalizeName(name)]
		if !ok {
			return nil, &LoadError{Code: ErrCodeUnknownName, Message: fmt.Sprintf("no lottery named %q in %s", name, path)}
		}
		selected = append(selected, n)
	}
	return selected, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeBuildFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: err.Error(),
	}
}

// MapEvalErrorToCode maps an evaluation error to a CLI error code.
func MapEvalErrorToCode(err error) string {
	var evalErr *evaluate.EvalError
	var domainErr *utility.DomainError
	switch {
	case evaluate.IsSearchDivergence(err):
		return ErrCodeSearchDivergence
	case errors.As(err, &evalErr):
		switch evalErr.Code {
		case evaluate.ErrCodeInvalidLottery:
			return ErrCodeInvalidLottery
		case evaluate.ErrCodeEmptyInput:
			return ErrCodeEmptyInput
		case evaluate.ErrCodeInvalidArgument:
			return ErrCodeInvalidArgument
		}
	case lottery.IsInvalidLottery(err):
		return ErrCodeInvalidLottery
	case errors.As(err, &domainErr):
		return ErrCodeUtilityDomain
	}
	return ErrCodeGeneric
}
