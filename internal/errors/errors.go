package errors

import (
	"net/http"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Problem converts the error into an RFC 7807 document for instance
func (e *APIError) Problem(instance string) *ProblemDetails {
	problem := NewProblemDetails(
		e.StatusCode,
		problemTypeForCode(e.ErrorCode),
		http.StatusText(e.StatusCode),
		e.Message,
		instance,
	).WithExtension("error_code", e.ErrorCode)

	if e.Details != nil {
		problem.WithExtension("details", e.Details)
	}
	return problem
}

func problemTypeForCode(code string) string {
	switch code {
	case "INVALID_REQUEST", "VALIDATION_FAILED":
		return TypeValidation
	case "MISSING_FILE":
		return TypeUnsupportedInput
	case "NOT_FOUND":
		return TypeNotFound
	case "PAYLOAD_TOO_LARGE":
		return TypePayloadTooLarge
	case "RATE_LIMIT_EXCEEDED":
		return TypeRateLimit
	default:
		return TypeInternal
	}
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrMissingFile = New(http.StatusBadRequest, "MISSING_FILE", "Multipart field \"file\" is required")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, "NOT_FOUND", "The requested resource was not found")

	// 413 Payload Too Large
	ErrPayloadTooLarge = New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "The request body exceeds the maximum allowed size")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded. Please retry after 60 seconds")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred while processing your request")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}
