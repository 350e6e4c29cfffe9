// Package errors provides structured error types for bitfield.
//
// Every failure the renderer surfaces is a configuration problem of some
// kind, so codes are organised by the part of the input that was wrong:
//   - INVALID_CONFIG: out-of-range or unknown configuration option
//   - INVALID_FIELD: malformed field or array-gap entry
//   - INVALID_LABEL_LINE / INVALID_ARROW_JUMP: malformed annotation overlay
//   - INVALID_TYPE: type key or type override table of an unsupported shape
//   - INVALID_INPUT / INVALID_FORMAT: undecodable document or unknown output format
//   - UNSUPPORTED / INTERNAL_ERROR: environment problems (missing converter, etc.)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "bits must be greater than 4, got %d", bits)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // reject the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode %s document", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidField     Code = "INVALID_FIELD"
	ErrCodeInvalidLabelLine Code = "INVALID_LABEL_LINE"
	ErrCodeInvalidArrowJump Code = "INVALID_ARROW_JUMP"
	ErrCodeInvalidType      Code = "INVALID_TYPE"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Environment errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
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

// IsConfig reports whether err is any of the configuration error codes.
// These are the errors a caller fixes by changing its input, as opposed to
// environment failures such as a missing converter binary.
func IsConfig(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeInvalidField, ErrCodeInvalidLabelLine,
		ErrCodeInvalidArrowJump, ErrCodeInvalidType, ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return true
	}
	return false
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
