// Package errors provides standardized error handling for the contextual
// scoring pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSelectionFailed         ErrorCode = "SELECTION_FAILED"
	ErrCodeProviderUnavailable     ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderTimeout         ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeQuotaExhausted          ErrorCode = "QUOTA_EXHAUSTED"
	ErrCodeCompletionFailed        ErrorCode = "COMPLETION_FAILED"
	ErrCodeScoreConflict           ErrorCode = "SCORE_CONFLICT"
	ErrCodePersistenceFailed       ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeCampaignNotFound        ErrorCode = "CAMPAIGN_NOT_FOUND"
	ErrCodeVideoNotFound           ErrorCode = "VIDEO_NOT_FOUND"
	ErrCodeKeywordGenerationFailed ErrorCode = "KEYWORD_GENERATION_FAILED"
	ErrCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
)

// PipelineError represents a structured application error.
type PipelineError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key-value pair for structured logging.
func (e *PipelineError) WithMetadata(key string, value interface{}) *PipelineError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSelectionFailedError creates a non-retryable rotation selection error.
func NewSelectionFailedError(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeSelectionFailed,
		Message:   "Keyword rotation selection failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUnavailableError creates a retryable provider error.
func NewProviderUnavailableError(provider string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeProviderUnavailable,
		Message:   fmt.Sprintf("Provider '%s' request failed", provider),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewProviderTimeoutError creates a retryable provider timeout error.
func NewProviderTimeoutError(provider string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeProviderTimeout,
		Message:   fmt.Sprintf("Provider '%s' timeout", provider),
		Details:   "request exceeded configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotaExhaustedError creates a non-retryable quota error. Retrying the
// same call in the same quota window cannot succeed.
func NewQuotaExhaustedError(provider string, needed, remaining int) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeQuotaExhausted,
		Message:   fmt.Sprintf("Provider '%s' quota exhausted", provider),
		Details:   fmt.Sprintf("needed: %d, remaining: %d", needed, remaining),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionFailedError creates a retryable completion provider error.
func NewCompletionFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeCompletionFailed,
		Message:   "Completion provider error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewScoreConflictError creates a retryable score upsert conflict error.
// The caller resolves it by re-reading the winning row and overwriting.
func NewScoreConflictError(campaignID, videoID string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeScoreConflict,
		Message:   "Concurrent score upsert detected",
		Details:   fmt.Sprintf("campaignId: %s, videoId: %s", campaignID, videoID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceFailedError creates a retryable database error.
func NewPersistenceFailedError(operation string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Database operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewCampaignNotFoundError creates a non-retryable lookup error.
func NewCampaignNotFoundError(campaignID string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeCampaignNotFound,
		Message:   "Campaign not found",
		Details:   fmt.Sprintf("campaignId: %s", campaignID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVideoNotFoundError creates a non-retryable lookup error.
func NewVideoNotFoundError(videoID string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeVideoNotFound,
		Message:   "Video not found",
		Details:   fmt.Sprintf("videoId: %s", videoID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewKeywordGenerationFailedError creates a retryable keyword generation error.
func NewKeywordGenerationFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeKeywordGenerationFailed,
		Message:   "Keyword generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// pq error code for unique constraint violations.
const pqUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

// IsRetryable reports whether err carries a retryable pipeline error.
// Unknown errors are treated as retryable.
func IsRetryable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return true
}

// CodeOf extracts the pipeline error code, or "UNKNOWN" for foreign errors.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "UNKNOWN"
}

// GetErrorCategory returns the operational category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROVIDER") || strings.Contains(codeStr, "QUOTA"):
		return "PROVIDER"
	case strings.Contains(codeStr, "COMPLETION") || strings.Contains(codeStr, "KEYWORD_GENERATION"):
		return "AI"
	case strings.Contains(codeStr, "PERSISTENCE") || strings.Contains(codeStr, "CONFLICT"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "SELECTION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
