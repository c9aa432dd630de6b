package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"landedcost/internal/allocation"
	"landedcost/internal/infrastructure"
	"landedcost/internal/ingestion"
	"landedcost/internal/services"
	api "landedcost/pkg/contracts/api/v1"
)

// stageStatus is the HTTP status of each ingestion stage failure
var stageStatus = map[ingestion.Stage]int{
	ingestion.StageFileValidation:    http.StatusBadRequest,
	ingestion.StageFileReading:       http.StatusUnprocessableEntity,
	ingestion.StageDataCleaning:      http.StatusUnprocessableEntity,
	ingestion.StageColumnDetection:   http.StatusUnprocessableEntity,
	ingestion.StageProductValidation: http.StatusUnprocessableEntity,
	ingestion.StageCritical:          http.StatusInternalServerError,
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
	now          func() time.Time
}

// NewErrorHandler creates a new error handler. includeStack adds panic
// values and stacks to failure details and is meant for development.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
		now:          time.Now,
	}
}

// HandleError converts any error to a failure envelope and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := h.ToAPIError(err)

	level := slog.LevelWarn
	if apiErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.String("stage", apiErr.Stage),
		slog.Int("status", apiErr.StatusCode),
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	Write(w, r, apiErr, h.now())
}

// ToAPIError classifies err
func (h *ErrorHandler) ToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var stageErr *ingestion.StageError
	if errors.As(err, &stageErr) {
		status, ok := stageStatus[stageErr.Stage]
		if !ok {
			status = http.StatusInternalServerError
		}
		return NewWithDetails(status, string(stageErr.Stage), stageErr.Message, stageErr.Details)
	}

	var inputErr *allocation.InputError
	if errors.As(err, &inputErr) {
		var details map[string]any
		if inputErr.Field != "" {
			details = map[string]any{"field": inputErr.Field}
		}
		return InvalidData(inputErr.Error(), details)
	}

	var valErr *services.ValidationError
	if errors.As(err, &valErr) {
		return InvalidData(valErr.Message, valErr.Details)
	}

	if errors.Is(err, services.ErrUnknownSuggestions) {
		return InvalidType(err.Error())
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return validationToAPIError(fieldErrs)
	}

	return New(http.StatusInternalServerError, api.StageServerError, "critical server error: "+err.Error())
}

func validationToAPIError(fieldErrs validator.ValidationErrors) *APIError {
	fields := make(map[string]string, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := formatFieldError(fe)
		fields[fe.Namespace()] = msg
		messages = append(messages, msg)
	}
	return InvalidData("request validation failed: "+strings.Join(messages, "; "), map[string]any{"fields": fields})
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "filename":
		return fmt.Sprintf("%s must be a plain file name", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// HandlePanic logs a recovered panic and responds with a generic 500
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered any) {
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	apiErr := New(http.StatusInternalServerError, api.StageServerError, "an unexpected error occurred")
	if h.includeStack {
		apiErr.Details = map[string]any{
			"panic": fmt.Sprintf("%v", recovered),
			"stack": string(debug.Stack()),
		}
	}
	Write(w, r, apiErr, h.now())
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, r, NewWithDetails(http.StatusNotFound, api.StageNotFound, ErrNotFound.Message,
		map[string]any{"path": r.URL.Path}), h.now())
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, r, New(http.StatusMethodNotAllowed, api.StageMethodNotAllowed,
		fmt.Sprintf("method %s is not allowed for this endpoint", r.Method)), h.now())
}

// RecoveryMiddleware provides panic recovery with proper error responses
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					handler.HandlePanic(w, r, rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
