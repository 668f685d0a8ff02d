// Package errors provides standardized error handling for the email generation pipeline.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeRequestCancelled ErrorCode = "REQUEST_CANCELLED"

	ErrCodeProductNotFound    ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"

	ErrCodeGuidelineUnreadable ErrorCode = "GUIDELINE_UNREADABLE"

	ErrCodeLLMTimeout            ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMUnavailable        ErrorCode = "LLM_UNAVAILABLE"
	ErrCodeGenerationUnparseable ErrorCode = "GENERATION_UNPARSEABLE"

	ErrCodeTemplateMissing ErrorCode = "TEMPLATE_MISSING"
	ErrCodeTemplateInvalid ErrorCode = "TEMPLATE_INVALID"

	ErrCodeCompilerTimeout     ErrorCode = "COMPILER_TIMEOUT"
	ErrCodeCompilerUnavailable ErrorCode = "COMPILER_UNAVAILABLE"
	ErrCodeCompileFailed       ErrorCode = "COMPILE_FAILED"

	ErrCodeTokensUnavailable  ErrorCode = "TOKENS_UNAVAILABLE"
	ErrCodeHistoryUnavailable ErrorCode = "HISTORY_UNAVAILABLE"
	ErrCodeDeliveryFailed     ErrorCode = "DELIVERY_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Pipeline Error Integration
// ==========================

// PipelineError wraps a stage failure with the stage it happened in, so the
// progress stream and the result payload can report where generation broke.
type PipelineError struct {
	Stage   string    `json:"stage"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s/%s]: %s", e.Stage, e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError wraps err as a failure of the named stage. Structured
// errors contribute their human message rather than the full wrapper text.
func NewPipelineError(stage string, err error) *PipelineError {
	message := err.Error()
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		message = stdErr.Message
	}
	return &PipelineError{
		Stage:   stage,
		Code:    Classify(err),
		Message: message,
		Err:     err,
	}
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProductNotFoundError creates a non-retryable catalog lookup error.
func NewProductNotFoundError(sku string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProductNotFound,
		Message:   "Product not found in catalog",
		Details:   fmt.Sprintf("sku: %s", sku),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogUnavailableError creates a retryable catalog backend error.
func NewCatalogUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogUnavailable,
		Message:   "Catalog backend error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGuidelineUnreadableError creates a non-retryable brand guideline error.
func NewGuidelineUnreadableError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGuidelineUnreadable,
		Message:   "Brand guideline file could not be read",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM call timeout",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMUnavailableError creates a retryable LLM transport error.
func NewLLMUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMUnavailable,
		Message:   "LLM service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationUnparseableError creates a non-retryable LLM output error.
func NewGenerationUnparseableError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationUnparseable,
		Message:   "LLM output could not be parsed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateMissingError creates a non-retryable missing template error.
func NewTemplateMissingError(requestID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateMissing,
		Message:   "No template available for rendering",
		Details:   fmt.Sprintf("requestId: %s", requestID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateInvalidError creates a non-retryable template validation error.
func NewTemplateInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateInvalid,
		Message:   "Template failed structural validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompilerTimeoutError creates a retryable MJML compiler timeout error.
func NewCompilerTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCompilerTimeout,
		Message:   "MJML compiler timeout",
		Details:   "compile call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompilerUnavailableError creates a retryable MJML compiler transport error.
func NewCompilerUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompilerUnavailable,
		Message:   "MJML compiler unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompileFailedError creates a non-retryable MJML compile error.
func NewCompileFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompileFailed,
		Message:   "MJML compilation rejected the document",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTokensUnavailableError creates a retryable design token store error.
func NewTokensUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTokensUnavailable,
		Message:   "Design token store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHistoryUnavailableError creates a retryable history archive error.
func NewHistoryUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryUnavailable,
		Message:   "History archive error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryFailedError creates a retryable email delivery error.
func NewDeliveryFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryFailed,
		Message:   "Email delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError creates a non-retryable catch-all error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal pipeline error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Classification
// ==========================

// Classify maps any error to an ErrorCode. Structured errors keep their
// code; everything else falls through on context state, then INTERNAL_ERROR.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}

	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeLLMTimeout
	case errors.Is(err, context.Canceled):
		return ErrCodeRequestCancelled
	default:
		return ErrCodeInternal
	}
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeLLMUnavailable,
		ErrCodeCompilerUnavailable,
		ErrCodeTokensUnavailable,
		ErrCodeHistoryUnavailable,
		ErrCodeDeliveryFailed:
		return 3 // Retryable technical errors

	case ErrCodeLLMTimeout,
		ErrCodeCompilerTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsRetryable checks if an error is retryable after classification.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return IsRetryableErrorCode(Classify(err))
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "REQUEST"):
		return "REQUEST"
	case strings.Contains(codeStr, "PRODUCT") || strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "GUIDELINE"):
		return "GUIDELINE"
	case strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "GENERATION"):
		return "AI"
	case strings.Contains(codeStr, "TEMPLATE"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "COMPILE"):
		return "RENDER"
	case strings.Contains(codeStr, "TOKENS"):
		return "TOKENS"
	case strings.Contains(codeStr, "HISTORY"):
		return "HISTORY"
	case strings.Contains(codeStr, "DELIVERY"):
		return "DELIVERY"
	default:
		return "OTHER"
	}
}
