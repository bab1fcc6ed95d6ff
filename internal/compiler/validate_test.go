package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lottery/internal/lottery"
)

func TestValidateValid(t *testing.T) {
	named := []lottery.Named{
		{Name: "flat", Lottery: lottery.New(lottery.E(0.5, lottery.P(1)), lottery.E(0.5, lottery.P(2)))},
		{Name: "nested", Lottery: lottery.New(
			lottery.E(1, lottery.Sub(lottery.E(0.3, lottery.P(1)), lottery.E(0.7, lottery.P(2)))),
		)},
	}

	assert.Empty(t, Validate(named, lottery.DefaultTolerance))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	named := []lottery.Named{
		{Name: "neg", Lottery: lottery.New(lottery.E(-0.5, lottery.P(1)), lottery.E(1.5, lottery.P(2)))},
		{Name: "sum", Lottery: lottery.New(lottery.E(0.5, lottery.P(1)))},
		{Name: "empty", Lottery: lottery.New()},
		{Name: "inner", Lottery: lottery.New(
			lottery.E(1, lottery.Sub(lottery.E(0.5, lottery.P(1)), lottery.E(0.6, lottery.Sub()))),
		)},
		{Name: "hole", Lottery: lottery.New(lottery.E(1, nil))},
		{Name: "neg", Lottery: lottery.New(lottery.E(1, lottery.P(1)))},
	}

	errs := Validate(named, lottery.DefaultTolerance)

	var got []string
	for _, e := range errs {
		got = append(got, e.Code+" "+e.Field)
	}
	assert.Equal(t, []string{
		"E101 lottery.neg[0].prob",
		"E102 lottery.sum",
		"E103 lottery.empty",
		"E103 lottery.inner[0].out[1].out",
		"E102 lottery.inner[0].out",
		"E105 lottery.hole[0].out",
		"E100 lottery.neg",
	}, got)
}

func TestValidateNestingLimit(t *testing.T) {
	l := lottery.New(lottery.E(1, lottery.P(1)))
	for i := 0; i < MaxDepth; i++ {
		l = lottery.New(lottery.E(1, lottery.Sub(l...)))
	}

	errs := Validate([]lottery.Named{{Name: "deep", Lottery: l}}, lottery.DefaultTolerance)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNestingTooDeep, errs[0].Code)
}

func TestValidateTolerance(t *testing.T) {
	named := []lottery.Named{{Name: "loose", Lottery: lottery.New(lottery.E(0.999, lottery.P(1)))}}

	assert.Len(t, Validate(named, lottery.DefaultTolerance), 1)
	assert.Empty(t, Validate(named, 0.01))
}

func TestValidationErrorFormat(t *testing.T) {
	assert.Equal(t, "[E103] lottery.x: empty",
		ValidationError{Field: "lottery.x", Message: "empty", Code: "E103"}.Error())
	assert.Equal(t, "[E103] line 4: lottery.x: empty",
		ValidationError{Field: "lottery.x", Message: "empty", Code: "E103", Line: 4}.Error())
}
