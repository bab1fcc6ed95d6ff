// Package generate builds random lotteries for experiments and tests.
//
// # Determinism
//
// A Generator is deterministic with respect to its seed: the same seed and
// the same sequence of calls always produce the same lotteries.
//
// # Probabilities
//
// Probabilities are drawn by stick breaking. Each event but the last takes a
// uniform share of the mass still unassigned and the last event takes the
// remainder, so every generated lottery sums to 1 up to float rounding.
//
// # Payoffs
//
// Payoffs are integers drawn uniformly from [MinPay, MaxPay] and stored as
// float64.
package generate

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/lottery/internal/lottery"
)

var (
	// ErrInvalidEvents is returned when a lottery would have no events.
	ErrInvalidEvents = errors.New("number of events must be at least 1")

	// ErrInvalidPayRange is returned when the payoff range is empty.
	ErrInvalidPayRange = errors.New("min payoff must not exceed max payoff")

	// ErrInvalidCount is returned when a list would have no lotteries.
	ErrInvalidCount = errors.New("number of lotteries must be at least 1")
)

// MaxDepth caps the nesting Options.Depth may ask for.
const MaxDepth = 8

// Options controls the shape of generated lotteries.
type Options struct {
	// MinPay and MaxPay bound the integer payoffs, inclusive.
	MinPay int `yaml:"min_pay" json:"min_pay" validate:"ltefield=MaxPay"`
	MaxPay int `yaml:"max_pay" json:"max_pay"`

	// MinEvents and MaxEvents bound the number of events per lottery level.
	MinEvents int `yaml:"min_events" json:"min_events" validate:"gte=1,ltefield=MaxEvents"`
	MaxEvents int `yaml:"max_events" json:"max_events"`

	// CompoundProb is the chance that an event's payoff is replaced by a
	// sub-lottery.
	CompoundProb float64 `yaml:"compound_prob" json:"compound_prob" validate:"gte=0,lte=1"`

	// Depth is how many levels of sub-lotteries may be added below the top
	// level. Zero generates simple lotteries only.
	Depth int `yaml:"depth" json:"depth" validate:"gte=0,lte=8"`
}

// DefaultOptions returns two-event lotteries paying 0..100, with even odds
// of one level of compounding per event.
func DefaultOptions() Options {
	return Options{
		MinPay:       0,
		MaxPay:       100,
		MinEvents:    2,
		MaxEvents:    2,
		CompoundProb: 0.5,
		Depth:        1,
	}
}

var validate = validator.New()

// Validate checks the option ranges.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid generator options: %w", err)
	}
	return nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Generator draws random lotteries from a seeded source.
// A Generator is not safe for concurrent use.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// New returns a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// NewRandom returns a Generator with a fresh crypto seed.
func NewRandom() (*Generator, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

// Seed returns the seed the Generator was created with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Simple returns a flat lottery of numEvents events with integer payoffs in
// [minPay, maxPay].
func (g *Generator) Simple(minPay, maxPay, numEvents int) (lottery.Lottery, error) {
	if numEvents < 1 {
		return nil, ErrInvalidEvents
	}
	if minPay > maxPay {
		return nil, ErrInvalidPayRange
	}

	l := make(lottery.Lottery, 0, numEvents)
	upper := 1.0
	for k := 0; k < numEvents-1; k++ {
		prob := g.rng.Float64() * upper
		upper -= prob
		l = append(l, lottery.E(prob, g.payoff(minPay, maxPay)))
	}
	l = append(l, lottery.E(upper, g.payoff(minPay, maxPay)))
	return l, nil
}

// MaybeCompound returns a copy of l in which each event's outcome is, with
// probability opts.CompoundProb, replaced by a fresh lottery. Event
// probabilities are kept. Replacement lotteries are themselves compounded
// until opts.Depth levels have been added.
func (g *Generator) MaybeCompound(l lottery.Lottery, opts Options) (lottery.Lottery, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return g.compound(l, opts, opts.Depth)
}

func (g *Generator) compound(l lottery.Lottery, opts Options, depth int) (lottery.Lottery, error) {
	out := l.Clone()
	if depth < 1 {
		return out, nil
	}
	for i := range out {
		if g.rng.Float64() >= opts.CompoundProb {
			continue
		}
		sub, err := g.Simple(opts.MinPay, opts.MaxPay, g.numEvents(opts))
		if err != nil {
			return nil, err
		}
		sub, err = g.compound(sub, opts, depth-1)
		if err != nil {
			return nil, err
		}
		out[i].Out = lottery.SubLottery(sub)
	}
	return out, nil
}

// SimpleList returns count flat lotteries.
func (g *Generator) SimpleList(count int, opts Options) ([]lottery.Lottery, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	list := make([]lottery.Lottery, 0, count)
	for i := 0; i < count; i++ {
		l, err := g.Simple(opts.MinPay, opts.MaxPay, g.numEvents(opts))
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, nil
}

// CompoundList returns count lotteries, each a simple lottery passed through
// MaybeCompound.
func (g *Generator) CompoundList(count int, opts Options) ([]lottery.Lottery, error) {
	list, err := g.SimpleList(count, opts)
	if err != nil {
		return nil, err
	}
	for i, l := range list {
		if list[i], err = g.compound(l, opts, opts.Depth); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (g *Generator) payoff(minPay, maxPay int) lottery.Payoff {
	return lottery.P(float64(minPay + g.rng.Intn(maxPay-minPay+1)))
}

func (g *Generator) numEvents(opts Options) int {
	return opts.MinEvents + g.rng.Intn(opts.MaxEvents-opts.MinEvents+1)
}
