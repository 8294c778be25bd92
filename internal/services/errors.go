package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrComputation      = errors.New("route computation failed")
)

// ValidationError reports a request that is missing required input or is malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type UnknownAlgorithmError struct {
	Algorithm string
	Known     []string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm %q (known: %s)", e.Algorithm, strings.Join(e.Known, ", "))
}

func (e *UnknownAlgorithmError) Unwrap() error { return ErrUnknownAlgorithm }

// ComputationError wraps a failure raised while a strategy was running,
// including panics and context deadlines.
type ComputationError struct {
	Algorithm string
	Err       error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("route computation failed: algorithm=%s: %v", e.Algorithm, e.Err)
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// ErrComputation as well as context.DeadlineExceeded.
func (e *ComputationError) Unwrap() []error {
	return []error{ErrComputation, e.Err}
}
