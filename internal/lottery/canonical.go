package lottery

import (
	"cmp"
	"math"
	"slices"
)

// Canonical reduces l, merges events with equal payoffs and sorts the result
// by ascending payoff. Zero-probability events are dropped.
//
// Two lotteries with the same canonical form describe the same distribution
// over payoffs, whatever their nesting or event order.
func Canonical(l Lottery) Lottery {
	flat := Reduce(l)
	mass := make(map[float64]float64, len(flat))
	order := make([]float64, 0, len(flat))
	for _, ev := range flat {
		p, ok := ev.Out.(Payoff)
		if !ok {
			continue
		}
		x := float64(p)
		if _, seen := mass[x]; !seen {
			order = append(order, x)
		}
		mass[x] += ev.Prob
	}

	slices.SortFunc(order, cmp.Compare[float64])

	out := make(Lottery, 0, len(order))
	for _, x := range order {
		if mass[x] == 0 {
			continue
		}
		out = append(out, Event{Prob: mass[x], Out: Payoff(x)})
	}
	return out
}

// Equivalent reports whether a and b reduce to the same distribution.
// Payoffs must match exactly; probabilities within tol.
func Equivalent(a, b Lottery, tol float64) bool {
	ca, cb := Canonical(a), Canonical(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i].Out != cb[i].Out {
			return false
		}
		if math.Abs(ca[i].Prob-cb[i].Prob) > tol {
			return false
		}
	}
	return true
}
