// Package errors provides error types and utilities for jsonlinkcheck.
// It extends the standard errors package with additional context and wrapping capabilities.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the processing taxonomy. Per-URL and per-record
// failures (parse, validation, network, timeout) are recovered locally and
// surface only as statistics and events; I/O and worker failures are fatal.
var (
	// ErrParse indicates a single input line is not valid JSON
	ErrParse = errors.New("line is not valid JSON")

	// ErrValidation indicates a field value is not a URL-shaped string
	ErrValidation = errors.New("value is not a valid URL")

	// ErrNetwork indicates a connection-level failure while checking a URL
	ErrNetwork = errors.New("network request failed")

	// ErrTimeout indicates a URL check exceeded its time limit
	ErrTimeout = errors.New("request timed out")

	// ErrIO indicates input or output could not be read or written
	ErrIO = errors.New("i/o failure")

	// ErrWorkerFailure indicates a worker finished without producing its chunk output
	ErrWorkerFailure = errors.New("worker produced no output")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors.
// Any nil error values are discarded.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsParse reports whether the error is a line parse error
func IsParse(err error) bool {
	return Is(err, ErrParse)
}

// IsValidation reports whether the error is a URL validation error
func IsValidation(err error) bool {
	return Is(err, ErrValidation)
}

// IsNetwork reports whether the error is a network error
func IsNetwork(err error) bool {
	return Is(err, ErrNetwork)
}

// IsTimeout reports whether the error is a timeout error
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsIO reports whether the error is an input/output error
func IsIO(err error) bool {
	return Is(err, ErrIO)
}

// IsWorkerFailure reports whether the error is a missing worker output
func IsWorkerFailure(err error) bool {
	return Is(err, ErrWorkerFailure)
}
