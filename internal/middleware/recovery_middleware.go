// internal/middleware/recovery_middleware.go
package middleware

import (
	"io"

	"clinic-billing/internal/pkg/response"

	"go.uber.org/zap"
)

// Recover runs a single menu command. A panic inside it is logged and reported to the
// operator instead of ending the session; it returns true when fn completed normally.
func Recover(logger *zap.Logger, w io.Writer, command string, fn func()) (ok bool) {
	defer func() {
		if err := recover(); err != nil {
			logger.Error("panic recovered",
				zap.Any("error", err),
				zap.String("command", command),
				zap.Stack("stack"),
			)
			response.Error(w, "internal error while running "+command, nil)
			ok = false
		}
	}()
	fn()
	return true
}
