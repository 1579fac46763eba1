package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrTransientRead marks a failed store read. Callers may retry the same
	// resolution; nothing has been changed.
	ErrTransientRead = errors.New("transient read failure")
	// ErrUnknownProgramKind is returned for a Program implementation the
	// resolver does not handle.
	ErrUnknownProgramKind = errors.New("unknown program kind")
)

// ReadError wraps a store failure with the read that failed.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrTransientRead, e.Err}
}

func readError(op string, err error) error {
	return &ReadError{Op: op, Err: err}
}

// IsTransient reports whether err is a retryable read failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientRead)
}
