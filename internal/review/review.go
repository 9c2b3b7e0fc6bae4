// Package review asks a curator whether each event should be posted.
package review

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guilherme-santos/calendarposter/internal"
	"github.com/guilherme-santos/calendarposter/internal/humanize"
)

type Decision int

const (
	Approve Decision = iota + 1
	Reject
	Abort
)

func (d Decision) String() string {
	switch d {
	case Approve:
		return "approve"
	case Reject:
		return "reject"
	case Abort:
		return "abort"
	}
	return "unknown"
}

// ErrNoInput is returned when the input closes before a valid answer.
var ErrNoInput = errors.New("review: no more input")

// Classify maps an answer to a decision, ignoring case and surrounding
// spaces. ok is false when the answer is not recognized.
func Classify(answer string) (d Decision, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return Approve, true
	case "n", "no":
		return Reject, true
	case "a", "abort":
		return Abort, true
	}
	return 0, false
}

// Question is the prompt shown for e.
func Question(e *internal.Event) string {
	return fmt.Sprintf("Post %s @ %s? [Y/n/a] ", e.Summary, humanize.DateTime(e.StartsAt))
}

// Prompter reads answers line by line from in and writes questions to out.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Review asks about e until a valid answer is given.
func (p *Prompter) Review(ctx context.Context, e *internal.Event) (Decision, error) {
	q := Question(e)
	for {
		if err := ctx.Err(); err != nil {
			return Abort, err
		}

		fmt.Fprint(p.out, q)
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			if err := p.in.Err(); err != nil {
				return Abort, fmt.Errorf("%w: %v", ErrNoInput, err)
			}
			return Abort, ErrNoInput
		}
		if d, ok := Classify(p.in.Text()); ok {
			return d, nil
		}
	}
}
