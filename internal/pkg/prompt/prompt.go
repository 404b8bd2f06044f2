// Package prompt reads line-based operator input for the console desks.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	xerrors "clinic-billing/internal/pkg/errors"
	"clinic-billing/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// DateTimeLayout is the yyyy-MM-dd HH:mm format operators type slots in.
const DateTimeLayout = "2006-01-02 15:04"

var (
	ErrBadNumber = fmt.Errorf("%w: invalid number", xerrors.ErrInvalidInput)
	ErrBadDate   = fmt.Errorf("%w: bad date format, expected yyyy-MM-dd HH:mm", xerrors.ErrInvalidInput)
)

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	loc *time.Location
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, loc: time.Local}
}

// WithLocation sets the zone slots are interpreted in.
func (p *Prompter) WithLocation(loc *time.Location) *Prompter {
	p.loc = loc
	return p
}

// Out is the writer prompts are printed to.
func (p *Prompter) Out() io.Writer { return p.out }

// Line prints label and returns the next input line without its trailing newline.
// io.EOF is returned once input is exhausted.
func (p *Prompter) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.in.Text(), "\r"), nil
}

func (p *Prompter) Int(label string) (int64, error) {
	s, err := p.Line(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrBadNumber
	}
	return n, nil
}

// OptionalInt returns nil for a blank line.
func (p *Prompter) OptionalInt(label string) (*int64, error) {
	s, err := p.Line(label)
	if err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, ErrBadNumber
	}
	return &n, nil
}

func (p *Prompter) Amount(label string) (decimal.Decimal, error) {
	s, err := p.Line(label)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, xerrors.Invalid("%s", err.Error())
	}
	return d, nil
}

func (p *Prompter) Time(label string) (time.Time, error) {
	s, err := p.Line(label)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), p.loc)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// IsEOF reports whether err means the operator closed input.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
