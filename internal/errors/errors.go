// Package errors defines the coded error type used to classify failures of a
// scaffolding run. The CLI maps any of them to exit status 1; the codes let
// tests and callers tell them apart without matching message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	ErrUnknown ErrorCode = "UNKNOWN"

	// User input.
	ErrMissingArgument ErrorCode = "MISSING_ARGUMENT"
	ErrInvalidName     ErrorCode = "INVALID_NAME"

	// Environment preconditions.
	ErrUnsafeDirectory ErrorCode = "UNSAFE_DIRECTORY"
	ErrNpmCwdMismatch  ErrorCode = "NPM_CWD_MISMATCH"

	// Pipeline.
	ErrInstallFailed    ErrorCode = "INSTALL_FAILED"
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrAborted          ErrorCode = "ABORTED"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates an Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message. Returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Wrapped: err}
}

// GetCode returns the code of the first *Error in err's chain, or ErrUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// IsCode reports whether err's chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
