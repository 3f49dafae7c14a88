// Package errors provides the coded error type used across dots.
//
// Every failure that callers are expected to branch on carries an ErrorCode,
// so tests and the CLI can match on codes instead of message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Resolution errors
	ErrSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	ErrInvalidEntry      ErrorCode = "INVALID_ENTRY"

	// Reconciliation errors
	ErrConflictAbort  ErrorCode = "CONFLICT_ABORT"
	ErrUserQuit       ErrorCode = "USER_QUIT"
	ErrPartialFailure ErrorCode = "PARTIAL_FAILURE"

	// Trackfile errors
	ErrTrackfileCorrupt ErrorCode = "TRACKFILE_CORRUPT"
	ErrTrackfileLocked  ErrorCode = "TRACKFILE_LOCKED"
	ErrTrackfileWrite   ErrorCode = "TRACKFILE_WRITE"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRemove ErrorCode = "SYMLINK_REMOVE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// DotsError represents a structured error with code and details
type DotsError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotsError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotsError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a DotsError with the same code
func (e *DotsError) Is(target error) bool {
	var targetErr *DotsError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotsError with the given code and message
func New(code ErrorCode, message string) *DotsError {
	return &DotsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotsError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotsError {
	return &DotsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotsError
func Wrap(err error, code ErrorCode, message string) *DotsError {
	if err == nil {
		return nil
	}
	return &DotsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotsError {
	if err == nil {
		return nil
	}
	return &DotsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotsError) WithDetail(key string, value interface{}) *DotsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code.
// The outermost DotsError in the chain decides.
func IsErrorCode(err error, code ErrorCode) bool {
	var dotsErr *DotsError
	if errors.As(err, &dotsErr) {
		return dotsErr.Code == code
	}
	return false
}

// HasErrorCode reports whether any DotsError in the chain carries code.
func HasErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var dotsErr *DotsError
		if !errors.As(err, &dotsErr) {
			return false
		}
		if dotsErr.Code == code {
			return true
		}
		err = dotsErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotsError
func GetErrorCode(err error) ErrorCode {
	var dotsErr *DotsError
	if errors.As(err, &dotsErr) {
		return dotsErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DotsError
func GetErrorDetails(err error) map[string]interface{} {
	var dotsErr *DotsError
	if errors.As(err, &dotsErr) {
		return dotsErr.Details
	}
	return nil
}
