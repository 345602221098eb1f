package detect

import (
	"errors"
	"fmt"
)

// Error represents a caller error detected before any per-group computation.
//
// Detection errors are local and synchronous. Sparse history and empty input
// are never reported as errors.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending parameter, if any.
	Field string
}

// ErrorCode categorizes detection errors.
type ErrorCode string

const (
	// ErrCodeInvalidConfiguration indicates out-of-range detection parameters.
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	// ErrCodeInvalidGrouping indicates a grouping outside the supported whitelist.
	ErrCodeInvalidGrouping ErrorCode = "INVALID_GROUPING"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidConfiguration reports whether err is an invalid configuration error.
// Uses errors.As to handle wrapped errors.
func IsInvalidConfiguration(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeInvalidConfiguration
	}
	return false
}

// IsInvalidGrouping reports whether err is an invalid grouping error.
// Uses errors.As to handle wrapped errors.
func IsInvalidGrouping(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeInvalidGrouping
	}
	return false
}

func newConfigError(field, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidConfiguration,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
	}
}

func newGroupingError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidGrouping,
		Message: fmt.Sprintf(format, args...),
	}
}
