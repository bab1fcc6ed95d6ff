// Package compiler turns CUE lottery catalogs into lottery values.
//
// A catalog is a CUE struct with a top-level lottery field whose labels name
// the lotteries:
//
//	lottery: coin: [
//		{prob: 0.5, out: 100},
//		{prob: 0.5, out: [{prob: 1.0, out: 10}]},
//	]
//
// Each event is a struct with exactly the fields prob and out; out is a
// number or a list of events.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lottery/internal/lottery"
)

// MaxDepth is the deepest nesting the compiler accepts.
const MaxDepth = 64

// CompileCatalog parses every lottery under the top-level lottery field of v.
// Lotteries are returned in declaration order with NFC-normalized names.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`lottery: coin: [{prob: 1, out: 5}]`)
//	named, err := CompileCatalog(v)
func CompileCatalog(v cue.Value) ([]lottery.Named, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("lottery"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "lottery",
			Message: "no lottery field found",
			Pos:     v.Pos(),
		}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var named []lottery.Named
	for iter.Next() {
		name := iter.Label()
		l, err := compileLottery(iter.Value(), "lottery."+name, 1)
		if err != nil {
			return nil, err
		}
		named = append(named, lottery.Named{Name: lottery.NormalizeName(name), Lottery: l})
	}
	return named, nil
}

// CompileLottery parses a single CUE list of events.
// The value should be the list itself, e.g.:
//
//	l, err := CompileLottery(v.LookupPath(cue.ParsePath("lottery.coin")))
func CompileLottery(v cue.Value) (lottery.Lottery, error) {
	field := v.Path().String()
	if field == "" {
		field = "lottery"
	}
	return compileLottery(v, field, 1)
}

func compileLottery(v cue.Value, field string, depth int) (lottery.Lottery, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if depth > MaxDepth {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("lottery nested deeper than %d levels", MaxDepth),
			Pos:     v.Pos(),
		}
	}
	if v.IncompleteKind() != cue.ListKind {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("lottery must be a list of events, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	l := lottery.Lottery{}
	for i := 0; iter.Next(); i++ {
		ev, err := compileEvent(iter.Value(), fmt.Sprintf("%s[%d]", field, i), depth)
		if err != nil {
			return nil, err
		}
		l = append(l, ev)
	}
	return l, nil
}

func compileEvent(v cue.Value, field string, depth int) (lottery.Event, error) {
	if v.IncompleteKind() != cue.StructKind {
		return lottery.Event{}, &CompileError{
			Field:   field,
			Message: "event must be a struct with prob and out",
			Pos:     v.Pos(),
		}
	}

	// Reject unknown fields
	fields, err := v.Fields()
	if err != nil {
		return lottery.Event{}, formatCUEError(err)
	}
	for fields.Next() {
		switch label := fields.Label(); label {
		case "prob", "out":
		default:
			return lottery.Event{}, &CompileError{
				Field:   field + "." + label,
				Message: fmt.Sprintf("unknown event field %q", label),
				Pos:     fields.Value().Pos(),
			}
		}
	}

	probVal := v.LookupPath(cue.ParsePath("prob"))
	if !probVal.Exists() {
		return lottery.Event{}, &CompileError{
			Field:   field + ".prob",
			Message: "prob is required",
			Pos:     v.Pos(),
		}
	}
	prob, err := probVal.Float64()
	if err != nil {
		return lottery.Event{}, &CompileError{
			Field:   field + ".prob",
			Message: fmt.Sprintf("prob must be a number: %v", err),
			Pos:     probVal.Pos(),
		}
	}

	outVal := v.LookupPath(cue.ParsePath("out"))
	if !outVal.Exists() {
		return lottery.Event{}, &CompileError{
			Field:   field + ".out",
			Message: "out is required",
			Pos:     v.Pos(),
		}
	}

	switch kind := outVal.IncompleteKind(); {
	case kind == cue.ListKind:
		sub, err := compileLottery(outVal, field+".out", depth+1)
		if err != nil {
			return lottery.Event{}, err
		}
		return lottery.E(prob, lottery.SubLottery(sub)), nil
	case kind&cue.NumberKind != 0 && kind&^cue.NumberKind == 0:
		x, err := outVal.Float64()
		if err != nil {
			return lottery.Event{}, &CompileError{
				Field:   field + ".out",
				Message: fmt.Sprintf("out must be concrete: %v", err),
				Pos:     outVal.Pos(),
			}
		}
		return lottery.E(prob, lottery.P(x)), nil
	default:
		return lottery.Event{}, &CompileError{
			Field:   field + ".out",
			Message: fmt.Sprintf("out must be a number or a list of events, got %v", kind),
			Pos:     outVal.Pos(),
		}
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
