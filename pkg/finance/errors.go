package finance

import (
	"errors"
	"fmt"
)

// ErrInvalidProjectionInput marks malformed projection input: a negative
// horizon, a negative payment, or a snapshot that violates its invariants.
// It is always wrapped with context and should be checked with errors.Is.
var ErrInvalidProjectionInput = errors.New("invalid projection input")

// InvalidInput wraps ErrInvalidProjectionInput with a formatted reason.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidProjectionInput, fmt.Sprintf(format, args...))
}
