// internal/pkg/response/response.go
package response

import (
	"fmt"
	"io"

	xerrors "clinic-billing/internal/pkg/errors"
)

// Success prints a confirmation line followed by optional detail blocks.
func Success(w io.Writer, message string, data ...interface{}) {
	fmt.Fprintln(w, message)
	for _, d := range data {
		fmt.Fprintln(w, d)
	}
}

// Error prints a standardized failure line. The error kind prefix is dropped so the
// operator sees the rule that was violated.
func Error(w io.Writer, message string, err error) {
	if err == nil {
		fmt.Fprintln(w, message)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", message, xerrors.Reason(err))
}

// NotFound prints the not-found diagnostic used by both menus.
func NotFound(w io.Writer, what string) {
	fmt.Fprintf(w, "%s not found!\n", what)
}

// Table prints one line per row, or the empty marker when there are none.
func Table[T fmt.Stringer](w io.Writer, title string, rows []T, empty string) {
	if title != "" {
		fmt.Fprintln(w, title)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, r := range rows {
		fmt.Fprintln(w, r.String())
	}
}
