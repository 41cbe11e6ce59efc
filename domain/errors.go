package domain

import "fmt"

// Error codes used across the analysis pipeline
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeFileNotFound        = "FILE_NOT_FOUND"
	ErrCodeParseError          = "PARSE_ERROR"
	ErrCodeAnalysisError       = "ANALYSIS_ERROR"
	ErrCodeConfigError         = "CONFIG_ERROR"
	ErrCodeOutputError         = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	ErrCodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
)

// DomainError represents a structured error with a stable code
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError with an arbitrary code
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewInvalidInputError creates an error for invalid request input
func NewInvalidInputError(message string, cause error) error {
	return DomainError{Code: ErrCodeInvalidInput, Message: message, Cause: cause}
}

// NewFileNotFoundError creates an error for a missing file
func NewFileNotFoundError(path string, cause error) error {
	return DomainError{Code: ErrCodeFileNotFound, Message: fmt.Sprintf("file not found: %s", path), Cause: cause}
}

// NewParseError creates an error for a file the parser rejected
func NewParseError(path string, cause error) error {
	return DomainError{Code: ErrCodeParseError, Message: fmt.Sprintf("failed to parse: %s", path), Cause: cause}
}

// NewAnalysisError creates an error for a failure inside an analyzer
func NewAnalysisError(message string, cause error) error {
	return DomainError{Code: ErrCodeAnalysisError, Message: message, Cause: cause}
}

// NewConfigError creates an error for missing or invalid configuration.
// Configuration errors are fatal: analysis must not run with guessed
// thresholds.
func NewConfigError(message string, cause error) error {
	return DomainError{Code: ErrCodeConfigError, Message: message, Cause: cause}
}

// NewOutputError creates an error for a failure while writing results
func NewOutputError(message string, cause error) error {
	return DomainError{Code: ErrCodeOutputError, Message: message, Cause: cause}
}

// NewUnsupportedFormatError creates an error for an unknown output format
func NewUnsupportedFormatError(format string) error {
	return DomainError{Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("unsupported format: %s", format)}
}

// NewUnsupportedLanguageError creates an error for a file whose extension
// maps to no registered language. Callers skip the file and count it; this
// is never a run-aborting condition.
func NewUnsupportedLanguageError(path string) error {
	return DomainError{Code: ErrCodeUnsupportedLanguage, Message: fmt.Sprintf("unsupported language: %s", path)}
}

// NewValidationError creates an error for a request that failed validation
func NewValidationError(message string) error {
	return DomainError{Code: ErrCodeInvalidInput, Message: message}
}
