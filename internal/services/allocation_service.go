package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"landedcost/internal/allocation"
	"landedcost/internal/infrastructure"
	"landedcost/internal/ingestion"
	"landedcost/internal/numeric"
	"landedcost/internal/report"
	"landedcost/internal/validation"
	api "landedcost/pkg/contracts/api/v1"
	"landedcost/pkg/contracts/domain"
)

// AllocationService handles manual product entry and cost calculation.
type AllocationService struct {
	engine   *allocation.Engine
	currency string
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	now      func() time.Time
	logger   *slog.Logger
}

// AllocationServiceOption customizes an AllocationService.
type AllocationServiceOption func(*AllocationService)

// WithAllocationMetrics sets the metric instruments.
func WithAllocationMetrics(m *infrastructure.BusinessMetrics) AllocationServiceOption {
	return func(s *AllocationService) { s.metrics = m }
}

// WithAllocationTracer sets the tracer.
func WithAllocationTracer(t trace.Tracer) AllocationServiceOption {
	return func(s *AllocationService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) AllocationServiceOption {
	return func(s *AllocationService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAllocationService creates the service.
func NewAllocationService(engine *allocation.Engine, currency string, logger *slog.Logger, opts ...AllocationServiceOption) *AllocationService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AllocationService{
		engine:   engine,
		currency: currency,
		tracer:   noop.NewTracerProvider().Tracer("allocation"),
		now:      time.Now,
		logger:   logger.With(slog.String("service", "allocation")),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ManualEntry validates hand-typed products. Invalid entries are reported
// as "product N: msg" with N counted from 1; the request fails only when
// no entry is valid.
func (s *AllocationService) ManualEntry(ctx context.Context, req api.ManualEntryRequest) (*api.ManualEntryData, error) {
	if len(req.Products) == 0 {
		return nil, &ValidationError{Message: "product list is empty"}
	}

	products := make([]domain.Product, 0, len(req.Products))
	var errs []string
	for i, mp := range req.Products {
		p, err := mp.ToDomain(numeric.ParseStrict)
		if err != nil {
			errs = append(errs, fmt.Sprintf("product %d: %v", i+1, err))
			continue
		}

		res := validation.ValidateProduct(validation.RawRow{
			Name:     p.Name,
			Brand:    p.Brand,
			Quantity: p.Quantity,
			UnitCost: p.UnitCost,
		})
		if !res.OK() {
			errs = append(errs, fmt.Sprintf("product %d: %s", i+1, res.Message()))
			continue
		}
		products = append(products, res.Product)
	}

	if len(products) == 0 {
		return nil, &ValidationError{
			Message: "no valid products found",
			Details: map[string]any{"errors": errs, "total_errors": len(errs)},
		}
	}

	s.logger.InfoContext(ctx, "Manual entry processed",
		slog.Int("products", len(products)),
		slog.Int("rejected", len(errs)))

	return &api.ManualEntryData{
		Products: products,
		Summary:  ingestion.Summarize(products, s.currency),
		Errors:   errs,
	}, nil
}

// Calculate translates req and runs the allocation engine. Malformed
// numbers are reported as allocation input errors.
func (s *AllocationService) Calculate(ctx context.Context, req api.AllocationRequest) (data *api.CalculationData, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "allocation.calculate",
		trace.WithAttributes(attribute.Int("allocation.products", len(req.Products))))
	defer span.End()

	defer func() {
		var total float64
		if data != nil {
			total = data.Calculation.TotalCost
		}
		if err != nil {
			infrastructure.RecordError(ctx, err)
			s.logger.WarnContext(ctx, "Allocation rejected", slog.String("error", err.Error()))
		}
		s.metrics.RecordAllocation(ctx, err == nil, time.Since(start), total)
	}()

	in, err := toInput(req)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.Allocate(in)
	if err != nil {
		return nil, err
	}

	return &api.CalculationData{
		Calculation: res,
		Report:      report.Build(res, report.Source{Filename: req.Filename, ProcessedAt: s.now()}),
	}, nil
}

func toInput(req api.AllocationRequest) (allocation.Input, error) {
	var in allocation.Input

	in.Products = make([]allocation.Line, 0, len(req.Products))
	for i, p := range req.Products {
		line, err := p.ToDomain(numeric.ParseStrict)
		if err != nil {
			return in, inputError(fmt.Sprintf("products[%d]", i), err)
		}
		in.Products = append(in.Products, line)
	}

	collections := []struct {
		name  string
		items []api.CostItemRequest
		dst   *[]domain.CostItem
	}{
		{"fixedCosts", req.FixedCosts, &in.FixedCosts},
		{"variableCosts", req.VariableCosts, &in.VariableCosts},
		{"taxes", req.Taxes, &in.Taxes},
	}
	for _, c := range collections {
		items, err := api.CostItems(c.name, c.items, numeric.ParseStrict)
		if err != nil {
			return in, inputError("", err)
		}
		*c.dst = items
	}

	var err error
	if in.Freight, err = parseNumber(req.FreightValue); err != nil {
		return in, inputError("freightValue", err)
	}
	if in.InsurancePercentage, err = parseNumber(req.InsurancePercentage); err != nil {
		return in, inputError("insurancePercentage", err)
	}
	return in, nil
}

func parseNumber(n api.Number) (float64, error) {
	if !n.IsSet() {
		return 0, nil
	}
	return numeric.ParseStrict(n.Raw())
}

// inputError turns a conversion failure into an allocation input error.
// prefix is prepended to the field path reported by the contract.
func inputError(prefix string, err error) error {
	field := prefix
	msg := err.Error()

	var fe *api.FieldError
	if errors.As(err, &fe) {
		msg = fe.Err.Error()
		switch {
		case prefix == "":
			field = fe.Field
		default:
			field = prefix + "." + fe.Field
		}
	}
	return allocation.NewInputError(field, msg)
}
