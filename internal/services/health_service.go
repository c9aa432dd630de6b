package services

import (
	"context"
	"log/slog"

	"landedcost/internal/catalog"
	api "landedcost/pkg/contracts/api/v1"
)

// HealthService reports service status
type HealthService struct {
	version string
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewHealthService creates a health service
func NewHealthService(version string, cat *catalog.Catalog, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version: version,
		catalog: cat,
		logger:  logger.With(slog.String("service", "health")),
	}
}

// Health returns the current status
func (s *HealthService) Health(ctx context.Context) api.HealthData {
	data := api.HealthData{Status: "healthy", Version: s.version}
	if s.catalog != nil {
		data.DatabaseProducts = len(s.catalog.Products)
		data.DatabaseBrands = len(s.catalog.Brands)
	}
	s.logger.DebugContext(ctx, "Health check", slog.String("status", data.Status))
	return data
}
