// Package errors provides structured error types for techpath.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - EMPTY_*: Degenerate input that cannot be visualized
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodePlayerNotFound, "player %d not in replay", id)
//	if errors.Is(err, errors.ErrCodePlayerNotFound) {
//	    // Offer the list of available players
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open replay %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidTime   Code = "INVALID_TIME"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidReplay Code = "INVALID_REPLAY"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodePlayerNotFound Code = "PLAYER_NOT_FOUND"

	// Degenerate data errors
	ErrCodeEmptyBuildOrder Code = "EMPTY_BUILD_ORDER"

	// External parser errors
	ErrCodeParser Code = "PARSER_FAILED"

	// Output errors
	ErrCodeRender Code = "RENDER_FAILED"
	ErrCodeWrite  Code = "WRITE_FAILED"

	// Internal errors
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

// PlayerNotFoundError reports a player id missing from a replay together with
// the ids that are present.
type PlayerNotFoundError struct {
	PlayerID  int
	Available []int
}

// Error implements the error interface.
func (e *PlayerNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("player %d not found: replay has no players", e.PlayerID)
	}
	return fmt.Sprintf("player %d not found (available: %v)", e.PlayerID, e.Available)
}

// Code returns the error code for this error type.
func (e *PlayerNotFoundError) Code() Code {
	return ErrCodePlayerNotFound
}
