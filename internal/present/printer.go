// Package present renders lotteries as text and builds lotteries from
// interactive input. It is the only package besides the CLI that writes to
// a terminal; evaluation results reach it as plain values.
package present

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/lottery/internal/lottery"
	"github.com/roach88/lottery/internal/utility"
)

const indent = "    "

// Printer writes human-readable lottery listings.
type Printer struct {
	w   io.Writer
	p   *message.Printer
	err error
}

// NewPrinter returns a Printer writing to w with English number formatting.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, p: message.NewPrinter(language.English)}
}

// Lottery prints one line per event, descending into sub-lotteries at any
// depth:
//
//	event 0 prob = 0.500 outcome = lottery
//	    event 0 prob = 1.000 outcome = 10.00
//	event 1 prob = 0.500 outcome = 20.00
func (p *Printer) Lottery(l lottery.Lottery) error {
	p.events(l, nil, 0)
	return p.flush()
}

// LotteryWithUtility is Lottery with u evaluated at every payoff.
// A utility error stops printing and is returned.
func (p *Printer) LotteryWithUtility(l lottery.Lottery, u utility.Func) error {
	p.printf("Lottery\n")
	p.events(l, u, 0)
	return p.flush()
}

// Named prints a "Lottery <name>" header followed by the events.
func (p *Printer) Named(n lottery.Named) error {
	p.printf("Lottery %s\n", n.Name)
	p.events(n.Lottery, nil, 0)
	return p.flush()
}

// List prints a count header and every lottery under a numbered heading,
// followed by a blank line.
func (p *Printer) List(ls []lottery.Lottery) error {
	p.printf("Lottery list has %d lottery(s)\n", len(ls))
	for k, l := range ls {
		p.printf("Lottery %d\n", k)
		p.events(l, nil, 0)
	}
	p.printf("\n")
	return p.flush()
}

// Printf writes a formatted line with the Printer's number formatting.
func (p *Printer) Printf(format string, args ...any) error {
	p.printf(format, args...)
	return p.flush()
}

func (p *Printer) events(l lottery.Lottery, u utility.Func, level int) {
	prefix := strings.Repeat(indent, level)
	for k, ev := range l {
		if p.err != nil {
			return
		}
		switch out := ev.Out.(type) {
		case lottery.SubLottery:
			p.printf("%sevent %d prob = %.3f outcome = lottery\n", prefix, k, ev.Prob)
			p.events(lottery.Lottery(out), u, level+1)
		case lottery.Payoff:
			x := float64(out)
			if u == nil {
				p.printf("%sevent %d prob = %.3f outcome = %.2f\n", prefix, k, ev.Prob, x)
				continue
			}
			util, err := u(x)
			if err != nil {
				p.err = err
				return
			}
			p.printf("%sevent %d prob = %.3f outcome = %.2f, utility = %.4f\n", prefix, k, ev.Prob, x, util)
		default:
			p.printf("%sevent %d prob = %.3f outcome = none\n", prefix, k, ev.Prob)
		}
	}
}

// printf records the first write error and skips output after it.
func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = p.p.Fprintf(p.w, format, args...)
}

func (p *Printer) flush() error {
	err := p.err
	p.err = nil
	return err
}
