package api

import (
	"time"

	"landedcost/pkg/contracts/domain"
)

// Stages reported by the HTTP boundary. Ingestion stages come from the
// pipeline and share the same field.
const (
	StageJSONValidation = "json_validation"
	StageDataValidation = "data_validation"
	StageInvalidType    = "invalid_type"
	StageServerError    = "server_error"

	StageNotFound         = "not_found"
	StageMethodNotAllowed = "method_not_allowed"
	StageRateLimited      = "rate_limited"
	StageTimeout          = "timeout"
)

// SuccessEnvelope wraps every successful response
type SuccessEnvelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// FailureEnvelope wraps every failed response
type FailureEnvelope struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error"`
	Stage     string         `json:"stage"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewSuccess builds a success envelope stamped with now
func NewSuccess(message string, data any, now time.Time) SuccessEnvelope {
	return SuccessEnvelope{Success: true, Message: message, Data: data, Timestamp: now}
}

// NewFailure builds a failure envelope stamped with now
func NewFailure(message, stage string, details map[string]any, now time.Time) FailureEnvelope {
	if len(details) == 0 {
		details = nil
	}
	return FailureEnvelope{Error: message, Stage: stage, Timestamp: now, Details: details}
}

// ManualEntryData is returned by the manual entry endpoint
type ManualEntryData struct {
	Products []domain.Product      `json:"products"`
	Summary  domain.ProductSummary `json:"summary"`
	Errors   []string              `json:"errors,omitempty"`
}

// CalculationData is returned by the cost calculation endpoint
type CalculationData struct {
	Calculation domain.AllocationResult `json:"calculation"`
	Report      domain.Report           `json:"report"`
}

// SuggestionsData lists catalog entries of one type
type SuggestionsData struct {
	Suggestions []string `json:"suggestions"`
	Type        string   `json:"type"`
	Count       int      `json:"count"`
}

// SearchData is the product search result
type SearchData struct {
	Products []string `json:"products"`
	Total    int      `json:"total"`
	Query    string   `json:"query"`
	Showing  int      `json:"showing"`
}

// HealthData reports service status
type HealthData struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	DatabaseProducts int    `json:"database_products"`
	DatabaseBrands   int    `json:"database_brands"`
}
