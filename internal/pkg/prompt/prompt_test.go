package prompt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	xerrors "clinic-billing/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out).WithLocation(time.UTC), out
}

func TestLine_PrintsLabelAndStopsAtEOF(t *testing.T) {
	p, out := newPrompter("hello\r\n")

	s, err := p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, "Name: ", out.String())

	_, err = p.Line("Again: ")
	assert.True(t, IsEOF(err))
}

func TestInt(t *testing.T) {
	p, _ := newPrompter(" 42 \nforty\n")

	n, err := p.Int("")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = p.Int("")
	assert.ErrorIs(t, err, ErrBadNumber)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestOptionalInt(t *testing.T) {
	p, _ := newPrompter("\n7\nx\n")

	n, err := p.OptionalInt("")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = p.OptionalInt("")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, int64(7), *n)

	_, err = p.OptionalInt("")
	assert.ErrorIs(t, err, ErrBadNumber)
}

func TestAmount(t *testing.T) {
	p, _ := newPrompter("672.00\n-5\n")

	d, err := p.Amount("")
	require.NoError(t, err)
	assert.Equal(t, "672", d.String())

	_, err = p.Amount("")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestTime(t *testing.T) {
	p, _ := newPrompter("2025-03-01 09:30\n01/03/2025 9:30\n")

	got, err := p.Time("")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), got)

	_, err = p.Time("")
	assert.ErrorIs(t, err, ErrBadDate)
}
