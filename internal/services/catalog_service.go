package services

import (
	"context"
	"fmt"
	"log/slog"

	"landedcost/internal/catalog"
	api "landedcost/pkg/contracts/api/v1"
)

// CatalogService answers suggestion and product search queries
type CatalogService struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogService creates a catalog service
func NewCatalogService(cat *catalog.Catalog, logger *slog.Logger) *CatalogService {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{catalog: cat, logger: logger.With(slog.String("service", "catalog"))}
}

// Suggestions returns the list for kind or ErrUnknownSuggestions
func (s *CatalogService) Suggestions(ctx context.Context, kind string) (*api.SuggestionsData, error) {
	list, ok := s.catalog.Suggestions(kind)
	if !ok {
		s.logger.DebugContext(ctx, "Unknown suggestion type", slog.String("type", kind))
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownSuggestions, kind, catalog.Types())
	}
	return &api.SuggestionsData{Suggestions: list, Type: kind, Count: len(list)}, nil
}

// Search finds catalog products containing query
func (s *CatalogService) Search(ctx context.Context, query string, limit int) *api.SearchData {
	res := s.catalog.Search(query, limit)
	return &api.SearchData{
		Products: res.Products,
		Total:    res.Total,
		Query:    query,
		Showing:  len(res.Products),
	}
}
