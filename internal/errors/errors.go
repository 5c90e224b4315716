package errors

import (
	"fmt"
	"runtime"
)

// AppError is the service-wide error type carrying a machine-readable
// code alongside the human message
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Cause     error  `json:"-"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError annotated with the caller's location
func New(code, message string, cause error) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
		File:    file,
		Line:    line,
	}
}

// WithOperation adds operation context to the error
func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Error codes
const (
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeInternal      = "INTERNAL_ERROR"
	CodeDatabase      = "DATABASE_ERROR"
	CodeConflict      = "CONFLICT"
	CodeLookupFailure = "LOOKUP_FAILURE"
)

// Constructors for common codes

func NotFound(message string, cause error) *AppError {
	return New(CodeNotFound, message, cause)
}

func InvalidInput(message string, cause error) *AppError {
	return New(CodeInvalidInput, message, cause)
}

func Unauthorized(message string, cause error) *AppError {
	return New(CodeUnauthorized, message, cause)
}

func Forbidden(message string, cause error) *AppError {
	return New(CodeForbidden, message, cause)
}

func Internal(message string, cause error) *AppError {
	return New(CodeInternal, message, cause)
}

func Database(message string, cause error) *AppError {
	return New(CodeDatabase, message, cause)
}

func Conflict(message string, cause error) *AppError {
	return New(CodeConflict, message, cause)
}

// LookupFailure marks a collaborator lookup that callers treat as
// missing data under the fail-open policy. It is logged, never surfaced.
func LookupFailure(message string, cause error) *AppError {
	return New(CodeLookupFailure, message, cause)
}
