// Package errors provides structured error types for ballotgrid.
//
// Every fatal condition in the ballot build carries a machine-readable code
// and enough context (ballot style, contest, page) to diagnose the failure
// without re-running the build.
//
// # Error Codes
//
//   - LAYOUT_IMPOSSIBLE: a single content unit cannot fit any column or page
//   - GEOMETRY_MISMATCH: grid layouts differ across variants of one ballot style
//   - PRECONDITION_FAILED: base PDF mismatch, missing grid layout, unknown
//     contest or option in a vote set
//   - UNSUPPORTED: configuration the templates cannot express
//   - INVALID_*: input validation failures
//   - NOT_FOUND / INTERNAL_ERROR: the usual suspects
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLayoutImpossible, "contest does not fit a page").
//	    With("ballot_style", style.ID).
//	    With("page", 3)
//	if errors.Is(err, errors.ErrCodeLayoutImpossible) {
//	    // surface to the operator
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidElection Code = "INVALID_ELECTION"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Ballot build failures
	ErrCodeLayoutImpossible   Code = "LAYOUT_IMPOSSIBLE"
	ErrCodeGeometryMismatch   Code = "GEOMETRY_MISMATCH"
	ErrCodePreconditionFailed Code = "PRECONDITION_FAILED"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Field is a key/value pair of diagnostic context attached to an Error.
type Field struct {
	Key   string
	Value any
}

// Error is a structured error with a code, diagnostic context and optional cause.
type Error struct {
	Code    Code    // Machine-readable error code
	Message string  // Human-readable message
	Fields  []Field // Diagnostic context (ballot style, contest, page)
	Cause   error   // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		b.WriteString(" (")
		for i, f := range e.Fields {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%v", f.Key, f.Value)
		}
		b.WriteByte(')')
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// With returns e with an additional context field. It mutates and returns
// the receiver so calls can be chained at construction time.
func (e *Error) With(key string, value any) *Error {
	e.Fields = append(e.Fields, Field{Key: key, Value: value})
	return e
}

// Field returns the value of the first context field named key.
func (e *Error) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err belongs to the build-aborting taxonomy:
// layout impossibility, geometry inconsistency, precondition violation or
// unsupported configuration.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeLayoutImpossible, ErrCodeGeometryMismatch, ErrCodePreconditionFailed, ErrCodeUnsupported:
		return true
	}
	return false
}
