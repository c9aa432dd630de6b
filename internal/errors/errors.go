// Package errors maps failures to the JSON failure envelope used by every
// HTTP endpoint.
package errors

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"

	api "landedcost/pkg/contracts/api/v1"
)

// APIError is a failure ready to be written as a FailureEnvelope
type APIError struct {
	StatusCode int
	Stage      string
	Message    string
	Details    map[string]any
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

// Envelope converts e to its wire form
func (e *APIError) Envelope(now time.Time) api.FailureEnvelope {
	return api.NewFailure(e.Message, e.Stage, e.Details, now)
}

// New creates a new APIError with the given parameters
func New(statusCode int, stage, message string) *APIError {
	return &APIError{StatusCode: statusCode, Stage: stage, Message: message}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, stage, message string, details map[string]any) *APIError {
	return &APIError{StatusCode: statusCode, Stage: stage, Message: message, Details: details}
}

// Predefined errors for transport faults
var (
	ErrNotFound         = New(http.StatusNotFound, api.StageNotFound, "resource not found")
	ErrMethodNotAllowed = New(http.StatusMethodNotAllowed, api.StageMethodNotAllowed, "method not allowed")
	ErrRateLimited      = New(http.StatusTooManyRequests, api.StageRateLimited, "rate limit exceeded, retry later")
	ErrTimeout          = New(http.StatusGatewayTimeout, api.StageTimeout, "the request took too long to process")
	ErrInternalServer   = New(http.StatusInternalServerError, api.StageServerError, "internal server error")
)

// InvalidJSON reports a body that could not be decoded
func InvalidJSON(err error) *APIError {
	return New(http.StatusBadRequest, api.StageJSONValidation, "invalid JSON body: "+err.Error())
}

// MissingData reports an absent or empty body
func MissingData() *APIError {
	return New(http.StatusBadRequest, api.StageJSONValidation, "no data provided")
}

// InvalidData reports content that failed validation
func InvalidData(message string, details map[string]any) *APIError {
	return NewWithDetails(http.StatusBadRequest, api.StageDataValidation, message, details)
}

// InvalidType reports an unknown enumerated path value
func InvalidType(message string) *APIError {
	return New(http.StatusBadRequest, api.StageInvalidType, message)
}

// Write renders err as a FailureEnvelope
func Write(w http.ResponseWriter, r *http.Request, err *APIError, now time.Time) {
	render.Status(r, err.StatusCode)
	render.JSON(w, r, err.Envelope(now))
}
