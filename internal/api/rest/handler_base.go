package rest

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/telemetry"
)

// ResponseEnvelope wraps all API responses
type ResponseEnvelope struct {
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
	Meta    ResponseMeta   `json:"meta"`
}

// ResponseMeta contains response metadata
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	TraceID   string    `json:"trace_id,omitempty"`
}

// ErrorResponse is the error half of the envelope.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HandlerFunc is an endpoint that returns its payload or an error. The status
// is 200 unless the payload implements statusCoder.
type HandlerFunc func(ctx context.Context, r *http.Request) (interface{}, error)

type statusCoder interface {
	StatusCode() int
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	validator    *validator.Validate
	errorHandler *ErrorHandler
	apiVersion   string
	maxBodySize  int64
	logger       *telemetry.LoggerWithTrace
}

// NewBaseHandler creates a base handler. maxBodySize caps JSON request bodies.
func NewBaseHandler(apiVersion string, maxBodySize int64, logger *slog.Logger) *BaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBodySize <= 0 {
		maxBodySize = 1 << 20
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &BaseHandler{
		validator:    v,
		errorHandler: NewErrorHandler(logger),
		apiVersion:   apiVersion,
		maxBodySize:  maxBodySize,
		logger:       telemetry.NewLoggerWithTrace(logger.With("component", "rest")),
	}
}

// Wrap adapts a HandlerFunc to net/http, writing the envelope for both
// outcomes.
func (h *BaseHandler) Wrap(handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r.Context(), r)
		if err != nil {
			h.WriteError(w, r, err)
			return
		}

		status := http.StatusOK
		if sc, ok := res.(statusCoder); ok {
			status = sc.StatusCode()
		}
		h.WriteSuccess(w, r, status, res)
	}
}

// DecodeJSON reads a JSON body into v and validates it.
func (h *BaseHandler) DecodeJSON(r *http.Request, v interface{}) error {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		return &ValidationError{Message: "Content-Type must be application/json"}
	}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, h.maxBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return &ValidationError{
				Message: fmt.Sprintf("Request body too large (max %d bytes)", h.maxBodySize),
			}
		}
		return &ValidationError{Message: "Failed to read request body"}
	}
	if len(body) == 0 {
		return &ValidationError{Message: "Request body is required"}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &ValidationError{Message: "Invalid JSON", Details: err.Error()}
	}
	return h.Validate(v)
}

// Validate runs struct tag validation on v.
func (h *BaseHandler) Validate(v interface{}) error {
	if err := h.validator.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// WriteSuccess writes a successful envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	h.writeJSON(w, status, ResponseEnvelope{
		Success: true,
		Data:    data,
		Meta:    h.meta(r),
	})
}

// WriteError maps err to a status and writes the error envelope.
func (h *BaseHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := h.errorHandler.HandleError(r.Context(), err)
	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "1")
	}
	h.writeJSON(w, status, ResponseEnvelope{
		Success: false,
		Error:   body,
		Meta:    h.meta(r),
	})
}

func (h *BaseHandler) meta(r *http.Request) ResponseMeta {
	meta := ResponseMeta{
		RequestID: RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
		Version:   h.apiVersion,
	}
	if meta.RequestID == "" {
		meta.RequestID = uuid.New().String()
	}
	if span := trace.SpanFromContext(r.Context()); span.SpanContext().IsValid() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}
	return meta
}

// writeJSON writes JSON response with proper headers
func (h *BaseHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(context.Background(), "failed to encode response", "error", err)
	}
}

// formatValidationError converts validator errors to our format
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return &ValidationError{Message: "Validation error", Details: err.Error()}
	}

	fields := make(map[string][]string)
	for _, fe := range validationErrors {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "This field is required"
		case "max":
			msg = fmt.Sprintf("Maximum length is %s", fe.Param())
		case "min":
			msg = fmt.Sprintf("Minimum value is %s", fe.Param())
		case "printascii":
			msg = "Must contain printable ASCII only"
		case "len":
			msg = fmt.Sprintf("Must be exactly %s characters", fe.Param())
		case "numeric":
			msg = "Must be numeric"
		default:
			msg = fmt.Sprintf("Failed %s validation", fe.Tag())
		}
		fields[fe.Field()] = append(fields[fe.Field()], msg)
	}

	return &ValidationError{Message: "Validation failed", Fields: fields}
}

// ValidationError represents a request that failed decoding or validation
type ValidationError struct {
	Message string
	Details string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return e.Message
}
