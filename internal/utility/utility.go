// Package utility provides utility functions over payoffs: the pluggable
// collaborator that expected-utility evaluation is parameterized by.
//
// Each family constructor binds its parameters into a closure, so callers
// pass a ready Func around instead of partially applying a shared function.
package utility

import (
	"fmt"
	"math"
)

// Func maps a payoff to its utility.
// It must be pure. An error means x is outside the function's domain.
type Func func(x float64) (float64, error)

// Pure adapts a total function into a Func.
func Pure(f func(float64) float64) Func {
	return func(x float64) (float64, error) {
		return f(x), nil
	}
}

// DomainError reports a payoff outside a utility function's domain.
type DomainError struct {
	Family string
	X      float64
	Reason string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s utility undefined at %g: %s", e.Family, e.X, e.Reason)
}

// Linear returns u(m) = intercept + slope*m.
func Linear(intercept, slope float64) Func {
	return Pure(func(m float64) float64 {
		return intercept + slope*m
	})
}

// CARA returns constant absolute risk aversion utility u(m) = 1 - e^(-r*m).
func CARA(r float64) Func {
	return Pure(func(m float64) float64 {
		return 1 - math.Exp(-r*m)
	})
}

// Exponential returns u(m) = 1 - e^(-a*m).
func Exponential(a float64) Func {
	return Pure(func(m float64) float64 {
		return 1.0 - math.Exp(-a*m)
	})
}

// CRRA returns constant relative risk aversion utility:
// ln(m) when r = 1, otherwise (m^(1-r) - 1) / (1-r).
func CRRA(r float64) Func {
	return func(m float64) (float64, error) {
		if r == 1 {
			if m <= 0 {
				return 0, &DomainError{Family: "crra", X: m, Reason: "log requires a positive payoff"}
			}
			return math.Log(m), nil
		}
		if m < 0 {
			return 0, &DomainError{Family: "crra", X: m, Reason: "payoff must be non-negative"}
		}
		if m == 0 && r > 1 {
			return 0, &DomainError{Family: "crra", X: m, Reason: "zero payoff is unbounded for r > 1"}
		}
		return (math.Pow(m, 1-r) - 1) / (1 - r), nil
	}
}

// HARA returns hyperbolic absolute risk aversion utility.
// With a = 0 it is Exponential(1/b); with b = 0 it is CARA(1/a); otherwise
// u(m) = (m - c)^(1-r) / (1-r) where r = 1/a and c = -b/a.
// a and b must not both be zero.
func HARA(a, b float64) Func {
	if a == 0 {
		return Exponential(1 / b)
	}
	if b == 0 {
		return CARA(1 / a)
	}
	r := 1 / a
	c := -b / a
	return func(m float64) (float64, error) {
		base := m - c
		if base < 0 || (base == 0 && r > 1) {
			return 0, &DomainError{Family: "hara", X: m, Reason: fmt.Sprintf("payoff must exceed %g", c)}
		}
		if r == 1 {
			return math.Log(base), nil
		}
		return math.Pow(base, 1-r) / (1 - r), nil
	}
}
