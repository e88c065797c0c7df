// Package errors provides structured error handling for Grimoire.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, extraction)
//   - 4XX: Validation errors (queries, paths)
//   - 5XX: Internal and storage errors
//   - 6XX: Conflict conditions
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and extraction I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryStorage indicates index storage errors.
	CategoryStorage Category = "STORAGE"
	// CategoryConflict indicates concurrent-operation conflicts.
	CategoryConflict Category = "CONFLICT"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound    = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFileUnreadable  = "ERR_202_FILE_UNREADABLE"
	ErrCodeExtractFailed   = "ERR_203_EXTRACT_FAILED"
	ErrCodeUnsupportedFile = "ERR_204_UNSUPPORTED_FILE"

	// Validation errors (400-499)
	ErrCodeInvalidQuery = "ERR_401_INVALID_QUERY"
	ErrCodeQueryEmpty   = "ERR_402_QUERY_EMPTY"
	ErrCodeInvalidPath  = "ERR_403_INVALID_PATH"
	ErrCodeNotFound     = "ERR_404_DOCUMENT_NOT_FOUND"

	// Internal and storage errors (500-599)
	ErrCodeInternal         = "ERR_501_INTERNAL"
	ErrCodeStoreUnavailable = "ERR_502_STORE_UNAVAILABLE"
	ErrCodeSearchFailed     = "ERR_503_SEARCH_FAILED"
	ErrCodeSyncFailed       = "ERR_504_SYNC_FAILED"

	// Conflict conditions (600-699)
	ErrCodeSyncInProgress = "ERR_601_SYNC_IN_PROGRESS"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	case '5':
		if code == ErrCodeInternal {
			return CategoryInternal
		}
		return CategoryStorage
	case '6':
		return CategoryConflict
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Storage unavailability is fatal for the current operation; conflicts and
// per-file extraction failures are warnings the caller decides how to handle.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeStoreUnavailable:
		return SeverityFatal
	case ErrCodeSyncInProgress, ErrCodeExtractFailed, ErrCodeUnsupportedFile:
		return SeverityWarning
	default:
		return SeverityError
	}
}
