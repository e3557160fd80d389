// Package errors defines the error taxonomy shared by the finmath analytics
// packages. Operations wrap one of the sentinel kinds with context so callers
// can classify a failure with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a bad window, lag, step count, length
	// mismatch or an out-of-domain parameter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateInput indicates input that is well-formed but numerically
	// degenerate, e.g. a constant series where a variance is required.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrUnsupported indicates a capability that is not available in the
	// current configuration (e.g. no linear-algebra provider).
	ErrUnsupported = errors.New("capability not supported")
)

// Wrap annotates err with msg. Returns nil if err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// New, Is and As re-export the standard library helpers so callers need a
// single errors import.
func New(text string) error { return errors.New(text) }

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// Kind returns the sentinel kind carried by err, or nil when err is not one
// of the taxonomy errors.
func Kind(err error) error {
	for _, k := range []error{ErrInvalidArgument, ErrDegenerateInput, ErrUnsupported} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
