// Package errs provides structured, user-friendly errors with machine-parseable codes.
package errs

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	// General
	ErrUnknown    ErrorCode = "ERR-000"
	ErrInternal   ErrorCode = "ERR-001"
	ErrConfig     ErrorCode = "ERR-002"
	ErrValidation ErrorCode = "ERR-003"

	// Self-check failures
	ErrConstruction ErrorCode = "ERR-CHECK-001"
	ErrAssertion    ErrorCode = "ERR-CHECK-002"
	ErrCancelled    ErrorCode = "ERR-CHECK-003"

	// State errors
	ErrStateRead  ErrorCode = "ERR-STATE-001"
	ErrStateWrite ErrorCode = "ERR-STATE-002"
)

// FlowError is the structured error type shared by all NexusFlow packages.
type FlowError struct {
	Code     ErrorCode // Machine-parseable error code
	Op       string    // Operation chain, e.g. "check.invocation"
	Resource string    // Optional resource identifier (case name, run ID)
	Cause    error     // Wrapped upstream error
	Advice   string    // Human-readable remediation hint
}

func (e *FlowError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.Resource, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *FlowError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing message with remediation advice.
func (e *FlowError) UserMessage() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Op)
	if e.Resource != "" {
		msg += fmt.Sprintf(" (resource: %s)", e.Resource)
	}
	if e.Advice != "" {
		msg += fmt.Sprintf("\n  → %s", e.Advice)
	}
	return msg
}

// New creates a new FlowError.
func New(code ErrorCode, op string, cause error) *FlowError {
	return &FlowError{Code: code, Op: op, Cause: cause}
}

// Newf creates a new FlowError with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *FlowError {
	return &FlowError{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithResource sets the resource identifier.
func (e *FlowError) WithResource(res string) *FlowError {
	e.Resource = res
	return e
}

// WithAdvice sets the remediation hint.
func (e *FlowError) WithAdvice(advice string) *FlowError {
	e.Advice = advice
	return e
}

// Wrap wraps err as a FlowError at a new operation boundary. Returns nil for a nil err.
func Wrap(err error, code ErrorCode, op string) error {
	if err == nil {
		return nil
	}
	return &FlowError{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is a FlowError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// AsFlow extracts the *FlowError from err, or returns nil.
func AsFlow(err error) *FlowError {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// CodeOf returns the code of the outermost FlowError in err, or ErrUnknown.
func CodeOf(err error) ErrorCode {
	if fe := AsFlow(err); fe != nil {
		return fe.Code
	}
	return ErrUnknown
}
