package game

import (
	"errors"
	"fmt"
)

// ErrInputRejected is returned when a client message fails validation.
// The game state is unchanged whenever this error is returned.
var ErrInputRejected = errors.New("input rejected")

// ErrInvalidSettings is returned by New when the settings cannot produce a game.
var ErrInvalidSettings = errors.New("invalid settings")

// rejectf wraps ErrInputRejected with a reason.
func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInputRejected, fmt.Sprintf(format, args...))
}

// IsRejected reports whether err is (or wraps) ErrInputRejected.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInputRejected)
}

// InvariantError is the panic value used when the core detects a defect in
// itself, such as an out-of-range player index. It is never caused by
// client input.
type InvariantError struct {
	Message string
}

func (e InvariantError) Error() string {
	return "game invariant violated: " + e.Message
}

func invariantf(format string, args ...any) {
	panic(InvariantError{Message: fmt.Sprintf(format, args...)})
}
