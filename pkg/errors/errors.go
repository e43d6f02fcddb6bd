// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes for the nutrition engine's failure taxonomy. Resolution never
// surfaces these to callers; they classify failures for logs and metrics.
const (
	CodeInvalidInput         ErrorCode = "INVALID_INPUT"
	CodeTimeout              ErrorCode = "TIMEOUT"
	CodeNoMatch              ErrorCode = "NO_MATCH"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeCacheError           ErrorCode = "CACHE_ERROR"
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewExternalServiceError creates an error for a failed provider call
func NewExternalServiceError(provider string, cause error) *AppError {
	return NewAppError(CodeExternalServiceError, fmt.Sprintf("%s lookup failed", provider), "").
		WithCause(cause).
		WithMetadata("provider", provider)
}

// NewCacheError creates an error for a failed cache operation
func NewCacheError(op string, cause error) *AppError {
	return NewAppError(CodeCacheError, fmt.Sprintf("cache %s failed", op), "").WithCause(cause)
}

// NewTimeoutError creates an error for a timed-out provider call
func NewTimeoutError(provider string) *AppError {
	return NewAppError(CodeTimeout, fmt.Sprintf("%s lookup timed out", provider), "").
		WithMetadata("provider", provider)
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 16
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") {
			break
		}
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
