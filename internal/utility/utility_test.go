package utility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEval(t *testing.T, u Func, x float64) float64 {
	t.Helper()
	v, err := u(x)
	require.NoError(t, err)
	return v
}

func TestLinear(t *testing.T) {
	assert.Equal(t, 10.0, mustEval(t, Linear(0, 1), 10))
	assert.Equal(t, 23.0, mustEval(t, Linear(3, 2), 10))
}

func TestCARAAndExponential(t *testing.T) {
	assert.InDelta(t, 1-math.Exp(-0.5), mustEval(t, CARA(0.005), 100), 1e-12)
	assert.InDelta(t, 1-math.Exp(-0.5), mustEval(t, Exponential(0.005), 100), 1e-12)
	assert.Equal(t, 0.0, mustEval(t, CARA(0.005), 0))
}

func TestCRRA(t *testing.T) {
	// r = 0.5: 2*(sqrt(m) - 1)
	assert.InDelta(t, 18.0, mustEval(t, CRRA(0.5), 100), 1e-12)
	// r = 1: ln(m)
	assert.InDelta(t, math.Log(100), mustEval(t, CRRA(1), 100), 1e-12)
	// r = 2: 1 - 1/m
	assert.InDelta(t, 0.5, mustEval(t, CRRA(2), 2), 1e-12)
}

func TestCRRADomain(t *testing.T) {
	tests := []struct {
		name string
		r    float64
		x    float64
	}{
		{"log of zero", 1, 0},
		{"log of negative", 1, -1},
		{"negative payoff", 0.5, -4},
		{"zero payoff with r > 1", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CRRA(tt.r)(tt.x)
			require.Error(t, err)

			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "crra", de.Family)
			assert.Equal(t, tt.x, de.X)
		})
	}

	// Zero is fine for r < 1
	assert.InDelta(t, -2.0, mustEval(t, CRRA(0.5), 0), 1e-12)
}

func TestHARA(t *testing.T) {
	// a = 2, b = 50: r = 0.5, c = -25, u = 2*sqrt(m + 25)
	assert.InDelta(t, 2*math.Sqrt(35), mustEval(t, HARA(2, 50), 10), 1e-12)

	// a = 0 falls back to exponential with a = 1/b
	assert.InDelta(t, mustEval(t, Exponential(0.02), 10), mustEval(t, HARA(0, 50), 10), 1e-12)

	// b = 0 falls back to CARA with r = 1/a
	assert.InDelta(t, mustEval(t, CARA(0.5), 10), mustEval(t, HARA(2, 0), 10), 1e-12)

	_, err := HARA(2, 50)(-30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hara utility undefined at -30")
}

func TestConcaveFamiliesIncreasing(t *testing.T) {
	funcs := map[string]Func{
		"cara": CARA(0.005),
		"crra": CRRA(0.5),
		"hara": HARA(2, 50),
		"exp":  Exponential(0.005),
	}

	for name, u := range funcs {
		t.Run(name, func(t *testing.T) {
			prev := mustEval(t, u, 1)
			for x := 2.0; x <= 1000; x += 7 {
				cur := mustEval(t, u, x)
				assert.Greater(t, cur, prev, "u must increase at %g", x)
				prev = cur
			}
		})
	}
}
