package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/testutil"
	"github.com/roach88/lottery/internal/utility"
)

func TestSweepOrderAndValues(t *testing.T) {
	lotteries := []lottery.Lottery{testutil.ThreeOutcome(), testutil.OneDeep()}
	funcs := []Parameterized{
		{Param: 0, U: utility.Linear(0, 1)},
		{Param: 1, U: utility.Linear(1, 1)},
	}

	rows, err := Sweep(lotteries, funcs)
	require.NoError(t, err)

	assert.Equal(t, []SweepRow{
		{Param: 0, Index: 0, ExpectedValue: 75, ExpectedUtility: 75},
		{Param: 0, Index: 1, ExpectedValue: 15, ExpectedUtility: 15},
		{Param: 1, Index: 0, ExpectedValue: 75, ExpectedUtility: 76},
		{Param: 1, Index: 1, ExpectedValue: 15, ExpectedUtility: 16},
	}, rows)
}

func TestSweepRiskAversionLowersUtility(t *testing.T) {
	l := lottery.New(lottery.E(0.5, lottery.P(1)), lottery.E(0.5, lottery.P(100)))
	var funcs []Parameterized
	for k := 1; k <= 9; k++ {
		r := float64(k) / 10
		funcs = append(funcs, Parameterized{Param: r, U: utility.CRRA(r)})
	}

	rows, err := Sweep([]lottery.Lottery{l}, funcs)
	require.NoError(t, err)
	require.Len(t, rows, 9)

	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i].ExpectedUtility, rows[i-1].ExpectedUtility)
	}
}

func TestSweepEmpty(t *testing.T) {
	_, err := Sweep(nil, []Parameterized{{U: utility.Linear(0, 1)}})
	assert.True(t, IsEmptyInput(err))

	_, err = Sweep([]lottery.Lottery{testutil.ThreeOutcome()}, nil)
	assert.True(t, IsEmptyInput(err))
}

func TestSweepInvalidMember(t *testing.T) {
	_, err := Sweep([]lottery.Lottery{lottery.New(lottery.E(2, lottery.P(1)))},
		[]Parameterized{{U: utility.Linear(0, 1)}})

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 0, ee.Index)
}
