package lottery

// pending is one entry of the reduction worklist: the probability mass
// accumulated along the path from the root, and the outcome reached.
type pending struct {
	prob float64
	out  Outcome
}

// Reduce flattens a compound lottery into a flat one.
//
// Each pass replaces every SubLottery event by its sub-events, multiplying
// the parent probability into each child. Passes repeat until no outcome is a
// lottery; every pass removes one level of nesting, so the loop ends after
// Depth()-1 passes.
//
// The result is freshly allocated and never aliases l. Reduce performs no
// validation: negative or unnormalized probabilities are carried through
// arithmetically. Use ValidateDeep first.
//
// Only the multiset of (probability, payoff) pairs is guaranteed. Relative
// order of expansion is preserved within each pass, but callers must not rely
// on any concrete order.
func Reduce(l Lottery) Lottery {
	work := make([]pending, len(l))
	for i, ev := range l {
		work[i] = pending{prob: ev.Prob, out: ev.Out}
	}

	for compound := true; compound; {
		compound = false
		next := make([]pending, 0, len(work))
		for _, item := range work {
			sub, ok := item.out.(SubLottery)
			if !ok {
				next = append(next, item)
				continue
			}
			for _, child := range sub {
				if _, nested := child.Out.(SubLottery); nested {
					compound = true
				}
				next = append(next, pending{prob: item.prob * child.Prob, out: child.Out})
			}
		}
		work = next
	}

	flat := make(Lottery, len(work))
	for i, item := range work {
		flat[i] = Event{Prob: item.prob, Out: item.out}
	}
	return flat
}
