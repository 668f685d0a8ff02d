// internal/common/errors/handler.go
package errors

import (
	"errors"
	"time"
)

// ErrorHandler normalizes stage errors with standardized error handling
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleStageError handles any error from a pipeline stage: it normalizes the
// error, logs it with classification fields, and returns the normalized form
// for the progress stream and the result payload.
func (h *ErrorHandler) HandleStageError(requestID, stage string, err error) *StandardError {
	stdErr := h.normalizeError(err)
	h.logError(requestID, stage, stdErr)
	return stdErr
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      Classify(err),
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: IsRetryable(err),
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(requestID, stage string, stdErr *StandardError) {
	h.logger.Error("Stage failed", map[string]interface{}{
		"requestId":     requestID,
		"stage":         stage,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}
