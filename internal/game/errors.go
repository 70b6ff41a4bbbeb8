package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both missing records and records owned by
	// another user, so callers cannot probe for other users' runs.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps transient store failures. The engine
	// never retries; that is the caller's policy.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports malformed input. No partial writes occur once
// one is returned.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
