package errors

import (
	"errors"
	"fmt"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeBusiness     ErrorType = "business"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeExternal     ErrorType = "external"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeUnavailable  ErrorType = "unavailable"
)

// Error codes surfaced to API clients.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidPhoneNumber = "INVALID_PHONE_NUMBER"
	CodeInvalidAreaCode    = "INVALID_AREA_CODE"
	CodeInvalidShortCode   = "INVALID_SHORT_CODE"
	CodeStateNotFound      = "STATE_NOT_FOUND"
	CodeReportUnavailable  = "REPORT_UNAVAILABLE"
	CodeReportMalformed    = "REPORT_MALFORMED"
	CodeCrossCheckFailed   = "CROSSCHECK_FAILED"
	CodeStorageDisabled    = "STORAGE_DISABLED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by code so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code != "" && e.Code == other.Code
}

// WithDetails returns a copy carrying details; sentinels stay untouched.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithCause returns a copy wrapping cause.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// Error constructors
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 400,
	}
}

func NewBusinessError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeBusiness,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 422,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       "RESOURCE_NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		Retryable:  false,
		StatusCode: 404,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
		Retryable:  false,
		StatusCode: 401,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
		Retryable:  false,
		StatusCode: 403,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Retryable:  true,
		StatusCode: 500,
	}
}

func NewUnavailableError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Code:       code,
		Message:    message,
		Retryable:  true,
		StatusCode: 503,
	}
}

func NewRateLimitError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    message,
		Retryable:  true,
		StatusCode: 429,
	}
}

// Predefined common errors
var (
	ErrInvalidInput       = NewValidationError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidPhoneNumber = NewBusinessError(CodeInvalidPhoneNumber, "No valid NANP phone number found")
	ErrInvalidAreaCode    = NewValidationError(CodeInvalidAreaCode, "Area code must be exactly three digits")
	ErrInvalidShortCode   = NewBusinessError(CodeInvalidShortCode, "Input is not a valid short code")
	ErrStateNotFound      = &AppError{Type: ErrorTypeNotFound, Code: CodeStateNotFound, Message: "state not found", StatusCode: 404}
	ErrReportUnavailable  = &AppError{Type: ErrorTypeExternal, Code: CodeReportUnavailable, Message: "Report could not be retrieved", Retryable: true, StatusCode: 502}
	ErrReportMalformed    = NewBusinessError(CodeReportMalformed, "Report could not be parsed")
	ErrCrossCheckFailed   = &AppError{Type: ErrorTypeInternal, Code: CodeCrossCheckFailed, Message: "Cross-check run failed", Retryable: true, StatusCode: 500}
	ErrStorageDisabled    = NewUnavailableError(CodeStorageDisabled, "Persistent storage is not configured")
)

// Wrap wraps an error with a message using fmt.Errorf with %w
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapWithCode wraps an error and returns an internal AppError with the given code
func WrapWithCode(err error, code, message string) *AppError {
	appErr := NewInternalError(message).WithCause(err)
	appErr.Code = code
	return appErr
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// GetStatusCode extracts HTTP status code from error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 500
}

// GetCode extracts the client facing code from error
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
