// internal/common/errors/handler.go
package errors

import (
	"time"
)

// Logger is the minimal logging surface the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// Handler normalizes and reports pipeline errors at operation boundaries.
type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle normalizes err, logs it with its classification, and returns the
// normalized error so callers can propagate a consistent type.
func (h *Handler) Handle(operation string, err error) *PipelineError {
	pe := Normalize(err)

	fields := map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(pe.Code),
		"errorCategory": GetErrorCategory(pe.Code),
		"details":       pe.Details,
		"retryable":     pe.Retryable,
	}
	for k, v := range pe.Metadata {
		fields[k] = v
	}

	if pe.Retryable {
		h.logger.Warn(pe.Message, fields)
	} else {
		h.logger.Error(pe.Message, fields)
	}
	return pe
}

// Normalize ensures an error is a *PipelineError.
func Normalize(err error) *PipelineError {
	if pe, ok := err.(*PipelineError); ok {
		return pe
	}
	return &PipelineError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
