package http

import (
	"context"

	"landedcost/internal/ingestion"
	api "landedcost/pkg/contracts/api/v1"
)

// IngestionServiceInterface parses uploaded spreadsheets
type IngestionServiceInterface interface {
	ProcessUpload(ctx context.Context, filename string, data []byte) (*ingestion.Outcome, error)
}

// AllocationServiceInterface validates manual entries and allocates costs
type AllocationServiceInterface interface {
	ManualEntry(ctx context.Context, req api.ManualEntryRequest) (*api.ManualEntryData, error)
	Calculate(ctx context.Context, req api.AllocationRequest) (*api.CalculationData, error)
}

// CatalogServiceInterface answers suggestion and search queries
type CatalogServiceInterface interface {
	Suggestions(ctx context.Context, kind string) (*api.SuggestionsData, error)
	Search(ctx context.Context, query string, limit int) *api.SearchData
}

// HealthServiceInterface reports service status
type HealthServiceInterface interface {
	Health(ctx context.Context) api.HealthData
}
