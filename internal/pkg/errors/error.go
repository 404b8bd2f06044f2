package xerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common reusable application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict: resource already exists")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Invalid builds a rule violation that matches ErrInvalidInput.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

var kinds = []error{ErrInvalidInput, ErrNotFound, ErrConflict, ErrDuplicateEntry}

// Reason strips the leading sentinel prefixes so the operator sees only the rule that failed.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for stripped := true; stripped; {
		stripped = false
		for _, kind := range kinds {
			if rest, ok := strings.CutPrefix(msg, kind.Error()+": "); ok && rest != "" {
				msg, stripped = rest, true
			}
		}
	}
	return msg
}
