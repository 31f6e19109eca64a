// Package errors provides the standardized error taxonomy for analysis requests.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeAnalysisFailed   ErrorCode = "ANALYSIS_FAILED"
	ErrCodeAnalysisTimeout  ErrorCode = "ANALYSIS_TIMEOUT"

	ErrCodeEmptyTranscript ErrorCode = "EMPTY_TRANSCRIPT"
	ErrCodeInvalidRequest  ErrorCode = "INVALID_REQUEST"

	ErrCodeAPINotConfigured ErrorCode = "API_NOT_CONFIGURED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Message is safe to
// show to end users; Details and Metadata are for developers only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is/As keep working.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMalformedPayloadError creates a non-retryable error for a response body that
// could not be normalized. The diagnostic goes into Details and Metadata.
func NewMalformedPayloadError(err error, diagnostic map[string]interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedPayload,
		Message:   "Received unexpected response format from API",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  diagnostic,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewAnalysisFailedError carries the upstream status line as the user message.
func NewAnalysisFailedError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisFailed,
		Message:   message,
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewAnalysisTimeoutError creates a retryable timeout error.
func NewAnalysisTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisTimeout,
		Message:   "Request timed out while waiting for analysis to complete. Please try again.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewEmptyTranscriptError creates a non-retryable input error.
func NewEmptyTranscriptError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyTranscript,
		Message:   "Transcript cannot be empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable schema validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid analysis request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAPINotConfiguredError is returned when no analysis base URL is set.
func NewAPINotConfiguredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAPINotConfigured,
		Message:   "API base URL is not configured",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps anything that does not fit the taxonomy.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error while analyzing transcript",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the status the gateway answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeEmptyTranscript, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeMalformedPayload, ErrCodeAnalysisFailed:
		return http.StatusBadGateway
	case ErrCodeAnalysisTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeAPINotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PAYLOAD"):
		return "NORMALIZATION"
	case strings.HasPrefix(codeStr, "ANALYSIS"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "TRANSCRIPT") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CONFIGURED"):
		return "CONFIGURATION"
	default:
		return "OTHER"
	}
}

// AsStandardError normalizes any error to a StandardError.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
