package rest

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
)

// ErrorHandler converts errors returned by handlers into status codes and
// envelope bodies.
type ErrorHandler struct {
	logger    *slog.Logger
	debugMode bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger}
}

// HandleError maps err to a response. Internal failures are logged and their
// cause is never sent to the client.
func (h *ErrorHandler) HandleError(ctx context.Context, err error) (int, *ErrorResponse) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err, trace.WithAttributes(attribute.String("error.code", errors.GetCode(err))))

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return h.handleDomainError(ctx, appErr)
	}

	var validationErr *ValidationError
	if stderrors.As(err, &validationErr) {
		return http.StatusBadRequest, h.handleValidationError(validationErr)
	}

	switch {
	case stderrors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, &ErrorResponse{Code: "REQUEST_CANCELED", Message: "Request was canceled"}
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, &ErrorResponse{Code: "REQUEST_TIMEOUT", Message: "Request timed out"}
	}

	h.logger.ErrorContext(ctx, "unhandled error", "error", err)
	return http.StatusInternalServerError, &ErrorResponse{Code: "INTERNAL_ERROR", Message: "An internal error occurred"}
}

func (h *ErrorHandler) handleDomainError(ctx context.Context, err *errors.AppError) (int, *ErrorResponse) {
	status := err.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	resp := &ErrorResponse{Code: err.Code, Message: err.Message, Details: err.Details}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed",
			"code", err.Code,
			"status", status,
			"error", err)
		if err.Type == errors.ErrorTypeInternal {
			resp.Details = nil
		}
	}
	return status, resp
}

func (h *ErrorHandler) handleValidationError(err *ValidationError) *ErrorResponse {
	resp := &ErrorResponse{Code: "VALIDATION_ERROR", Message: err.Message}
	if len(err.Fields) > 0 || err.Details != "" {
		resp.Details = make(map[string]interface{})
		if len(err.Fields) > 0 {
			resp.Details["fields"] = err.Fields
		}
		if err.Details != "" {
			resp.Details["reason"] = err.Details
		}
	}
	return resp
}
