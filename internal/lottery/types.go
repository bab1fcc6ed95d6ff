package lottery

// Outcome is a sealed interface representing what an Event pays out.
// Only Payoff and SubLottery implement this.
type Outcome interface {
	outcome() // Sealed - only these types implement it
}

// Payoff is a terminal, real-valued outcome.
type Payoff float64

func (Payoff) outcome() {}

// SubLottery is an outcome that is itself a lottery.
type SubLottery Lottery

func (SubLottery) outcome() {}

// Event is one (probability, outcome) pair within a Lottery.
type Event struct {
	Prob float64
	Out  Outcome
}

// Lottery is an ordered sequence of events.
// A Lottery with no SubLottery outcome is flat.
type Lottery []Event

// Named attaches a catalog name to a lottery.
type Named struct {
	Name    string  `yaml:"name" json:"name"`
	Lottery Lottery `yaml:"events" json:"events"`
}

// P creates a Payoff outcome.
func P(x float64) Payoff {
	return Payoff(x)
}

// Sub creates a SubLottery outcome from events.
func Sub(events ...Event) SubLottery {
	return SubLottery(events)
}

// E is a shorthand for constructing an Event.
// Example: New(E(0.5, P(100)), E(0.5, Sub(E(1.0, P(10)))))
func E(prob float64, out Outcome) Event {
	return Event{Prob: prob, Out: out}
}

// New creates a Lottery from events.
func New(events ...Event) Lottery {
	return Lottery(events)
}

// Clone returns a deep copy of the lottery. Nested lotteries are copied too,
// so the result shares no backing arrays with l.
func (l Lottery) Clone() Lottery {
	if l == nil {
		return nil
	}
	out := make(Lottery, len(l))
	for i, ev := range l {
		out[i] = Event{Prob: ev.Prob, Out: cloneOutcome(ev.Out)}
	}
	return out
}

func cloneOutcome(o Outcome) Outcome {
	switch out := o.(type) {
	case SubLottery:
		return SubLottery(Lottery(out).Clone())
	default:
		return o
	}
}

// IsFlat reports whether no event has a SubLottery outcome.
func (l Lottery) IsFlat() bool {
	for _, ev := range l {
		if _, ok := ev.Out.(SubLottery); ok {
			return false
		}
	}
	return true
}

// Depth returns the nesting depth: 0 for an empty lottery, 1 for a flat one.
func (l Lottery) Depth() int {
	if len(l) == 0 {
		return 0
	}
	depth := 1
	for _, ev := range l {
		if sub, ok := ev.Out.(SubLottery); ok {
			if d := Lottery(sub).Depth() + 1; d > depth {
				depth = d
			}
		}
	}
	return depth
}

// TotalProb returns the sum of the top-level probabilities.
func (l Lottery) TotalProb() float64 {
	total := 0.0
	for _, ev := range l {
		total += ev.Prob
	}
	return total
}

// Payoffs returns the payoffs of a flat lottery in event order.
// Events whose outcome is not a Payoff are skipped.
func (l Lottery) Payoffs() []float64 {
	out := make([]float64, 0, len(l))
	for _, ev := range l {
		if p, ok := ev.Out.(Payoff); ok {
			out = append(out, float64(p))
		}
	}
	return out
}
