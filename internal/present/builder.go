package present

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/lottery/internal/lottery"
)

// ErrAborted is returned when the user quits an interactive session.
var ErrAborted = errors.New("user terminated session")

// maxEvents bounds the event count accepted at the prompt.
const maxEvents = 1000

// LineReader reads one line of input after showing a prompt.
// *readline.Instance satisfies it.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// Builder assembles a lottery from answers to prompts.
type Builder struct {
	// In supplies the answers.
	In LineReader

	// Out receives progress and correction messages.
	Out io.Writer

	// Tolerance bounds the probability sum; zero means
	// lottery.DefaultTolerance.
	Tolerance float64
}

// Build asks for an event count and then a payoff and probability per event.
// It repeats until the entries form a valid lottery. Answering q or Q to any
// prompt returns ErrAborted; read errors are returned as is.
func (b *Builder) Build() (lottery.Lottery, error) {
	tol := b.Tolerance
	if tol == 0 {
		tol = lottery.DefaultTolerance
	}

	for {
		l, err := b.readLottery()
		if err != nil {
			return nil, err
		}
		verr := lottery.Validate(l, tol)
		if verr == nil {
			return l, nil
		}
		fmt.Fprintf(b.Out, "Not a lottery (%v), try again\n", verr)
	}
}

func (b *Builder) readLottery() (lottery.Lottery, error) {
	var n int
	for {
		x, err := b.number("Enter number of events")
		if err != nil {
			return nil, err
		}
		if x >= 1 && x <= maxEvents && x == math.Trunc(x) {
			n = int(x)
			break
		}
		fmt.Fprintf(b.Out, "%v is not a positive whole number\n", x)
	}

	l := make(lottery.Lottery, 0, n)
	for k := 0; k < n; k++ {
		fmt.Fprintf(b.Out, "   Event %d\n", k+1)
		out, err := b.number("Enter outcome")
		if err != nil {
			return nil, err
		}
		prob, err := b.number("Enter probability")
		if err != nil {
			return nil, err
		}
		l = append(l, lottery.E(prob, lottery.P(out)))
	}
	return l, nil
}

// number prompts until the answer parses as a number.
func (b *Builder) number(prompt string) (float64, error) {
	b.In.SetPrompt(prompt + " (or q quits):")
	for {
		line, err := b.In.Readline()
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if line == "q" || line == "Q" {
			return 0, ErrAborted
		}
		x, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return x, nil
		}
		fmt.Fprintf(b.Out, "%s is not a number\n", line)
	}
}
