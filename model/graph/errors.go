package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation error")

	// ErrFail signals that a task must transition to failed.
	ErrFail = errors.New("fail")

	// ErrWait signals that a task must transition to waiting.
	ErrWait = errors.New("wait")

	// ErrSkip signals that a task must transition to skipped.
	ErrSkip = errors.New("skip")
)

// ValidationError reports a malformed edge or flow definition.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeError is the fail signal raised when an upstream task result could
// not be decoded.
type DecodeError struct {
	Task string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not deserialize result of %s: %v", e.Task, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrFail, e.Err} }

// signal carries a wait/fail/skip request raised by task code.
type signal struct {
	kind    error
	message string
}

func (s *signal) Error() string { return s.message }

func (s *signal) Unwrap() error { return s.kind }

// Failf returns an error that fails the running task with the formatted message.
func Failf(format string, args ...interface{}) error {
	return &signal{kind: ErrFail, message: fmt.Sprintf(format, args...)}
}

// Waitf returns an error that parks the running task in the waiting state.
func Waitf(format string, args ...interface{}) error {
	return &signal{kind: ErrWait, message: fmt.Sprintf(format, args...)}
}

// Skipf returns an error that marks the running task as skipped.
func Skipf(format string, args ...interface{}) error {
	return &signal{kind: ErrSkip, message: fmt.Sprintf(format, args...)}
}
