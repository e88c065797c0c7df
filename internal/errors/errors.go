package errors

import (
	"fmt"
)

// GrimoireError is the structured error type for Grimoire.
// It provides context for error handling, logging, and HTTP presentation.
type GrimoireError struct {
	// Code is the unique error code (e.g., "ERR_502_STORE_UNAVAILABLE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Storage, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *GrimoireError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GrimoireError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with GrimoireError.
func (e *GrimoireError) Is(target error) bool {
	if t, ok := target.(*GrimoireError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *GrimoireError) WithDetail(key, value string) *GrimoireError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new GrimoireError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *GrimoireError {
	return &GrimoireError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a GrimoireError from an existing error.
// The error's message becomes the GrimoireError message.
func Wrap(code string, err error) *GrimoireError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// StorageError creates a storage-unavailability error.
func StorageError(message string, cause error) *GrimoireError {
	return New(ErrCodeStoreUnavailable, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *GrimoireError {
	return New(ErrCodeInvalidQuery, message, cause)
}

// ConflictError creates a concurrent-sync conflict condition.
func ConflictError(message string) *GrimoireError {
	return New(ErrCodeSyncInProgress, message, nil)
}

// Retryable reports whether the operation may be retried. Fatal errors
// (storage unavailability) are not; conflicts and per-file failures are.
func (e *GrimoireError) Retryable() bool {
	return e.Severity != SeverityFatal
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ge, ok := err.(*GrimoireError); ok {
		return ge.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a GrimoireError.
// Returns empty string if not a GrimoireError.
func GetCode(err error) string {
	if ge, ok := err.(*GrimoireError); ok {
		return ge.Code
	}
	return ""
}

// GetCategory extracts the category from a GrimoireError.
// Returns empty string if not a GrimoireError.
func GetCategory(err error) Category {
	if ge, ok := err.(*GrimoireError); ok {
		return ge.Category
	}
	return ""
}
