package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Common error types following RFC 7807
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeTimeout         = "/errors/timeout"
	TypePayloadTooLarge = "/errors/payload-too-large"
)

// Analysis error types
const (
	TypeAnalysisLoad     = "/errors/analysis/load-failed"
	TypeAnalysisParse    = "/errors/analysis/parse-failed"
	TypeAnalysisSchema   = "/errors/analysis/schema-mismatch"
	TypeUpstream         = "/errors/analysis/upstream-unavailable"
	TypeUnsupportedInput = "/errors/analysis/unsupported-input"
)

// FormatHint is attached to every analysis failure shown to users.
const FormatHint = "업로드한 파일이 '일별 박스오피스' 데이터 형식을 따르고 있는지 확인해주세요."

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	// Get request ID for tracing
	reqID := middleware.GetReqID(r.Context())

	// Log the error with full context
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	// Convert to problem details
	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	// Add stack trace in development
	if h.includeStack {
		problem.WithExtension("stack", getStackTrace())
	}

	// Render the error response
	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	// Application errors carry the failing stage
	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	// Check for our custom API errors
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Problem(r.URL.Path)
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), strings.Contains(err.Error(), "request body too large"):
		return ErrPayloadTooLarge.Problem(r.URL.Path)

	case strings.Contains(err.Error(), "not found"):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNotFound,
			"Resource Not Found",
			err.Error(),
			r.URL.Path,
		)

	default:
		return ErrInternalServer.Problem(r.URL.Path)
	}
}

// appErrorToProblem maps an AppError type onto status and problem type
func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	status := http.StatusInternalServerError
	problemType := TypeInternal
	hint := false

	switch appErr.Type {
	case ErrTypeNetwork:
		status, problemType = http.StatusBadGateway, TypeUpstream
	case ErrTypeLoad:
		status, problemType, hint = http.StatusUnprocessableEntity, TypeAnalysisLoad, true
	case ErrTypeParsing:
		status, problemType, hint = http.StatusUnprocessableEntity, TypeAnalysisParse, true
	case ErrTypeSchema:
		status, problemType, hint = http.StatusUnprocessableEntity, TypeAnalysisSchema, true
	case ErrTypeValidation:
		status, problemType = http.StatusBadRequest, TypeUnsupportedInput
	case ErrTypeTooLarge:
		status, problemType = http.StatusRequestEntityTooLarge, TypePayloadTooLarge
	}

	detail := appErr.Message
	if appErr.Cause != nil {
		detail = appErr.Error()
	}

	problem := NewProblemDetails(
		status,
		problemType,
		http.StatusText(status),
		detail,
		r.URL.Path,
	).WithExtension("error_type", string(appErr.Type))

	if hint {
		problem.WithExtension("hint", FormatHint)
	}
	if len(appErr.Context) > 0 {
		problem.WithExtension("context", appErr.Context)
	}

	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	// Log the panic
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := ErrInternalServer.Problem(r.URL.Path).WithExtension("trace_id", reqID)

	// Add panic details in development
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := ErrNotFound.Problem(r.URL.Path).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeInternal,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
