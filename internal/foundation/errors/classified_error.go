package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError represents a structured error with category, severity, and context.
// Values are immutable; the With* methods return modified copies.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	detail   string
	cause    error
	context  ErrorContext
}

// Error implements the standard error interface.
//
// Detail text, when present, is appended verbatim on the following lines.
func (e *ClassifiedError) Error() string {
	var s string
	if e.cause != nil {
		s = fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	} else {
		s = fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
	}
	if e.detail != "" {
		s += "\n" + e.detail
	}
	return s
}

// Unwrap implements Go 1.13+ error unwrapping.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// Category returns the error category.
func (e *ClassifiedError) Category() ErrorCategory {
	return e.category
}

// Severity returns the error severity.
func (e *ClassifiedError) Severity() ErrorSeverity {
	return e.severity
}

// Message returns the error message.
func (e *ClassifiedError) Message() string {
	return e.message
}

// Detail returns the verbatim diagnostic text attached to the error, if any.
func (e *ClassifiedError) Detail() string {
	return e.detail
}

// Context returns the error context.
func (e *ClassifiedError) Context() ErrorContext {
	return e.context
}

func (e *ClassifiedError) copy() *ClassifiedError {
	c := *e
	c.context = e.context.clone()
	return &c
}

// WithContext adds context to the error and returns a new error.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	c := e.copy()
	c.context = c.context.Set(key, value)
	return c
}

// WithDetail attaches verbatim diagnostic text and returns a new error.
func (e *ClassifiedError) WithDetail(detail string) *ClassifiedError {
	c := e.copy()
	c.detail = detail
	return c
}

// WithCause sets the underlying error and returns a new error.
func (e *ClassifiedError) WithCause(cause error) *ClassifiedError {
	c := e.copy()
	c.cause = cause
	return c
}

// Is implements error comparison for Go 1.13+ error handling.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// IsSeverity checks if the error has a specific severity.
func (e *ClassifiedError) IsSeverity(severity ErrorSeverity) bool {
	return e.severity == severity
}

// Helper functions for error detection and extraction

// AsClassified finds the first ClassifiedError in the error chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.Category()
	}
	return CategoryInternal
}
