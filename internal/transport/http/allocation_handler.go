package http

import (
	"log/slog"
	"net/http"
	"time"

	apierrors "landedcost/internal/errors"
	"landedcost/internal/infrastructure"
	"landedcost/internal/middleware"
	api "landedcost/pkg/contracts/api/v1"
)

// AllocationHandler handles manual entry and cost calculation
type AllocationHandler struct {
	service      AllocationServiceInterface
	validator    *middleware.RequestValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
	now          func() time.Time
}

// NewAllocationHandler creates an allocation handler
func NewAllocationHandler(service AllocationServiceInterface, validator *middleware.RequestValidator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *AllocationHandler {
	return &AllocationHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       infrastructure.WithComponent(logger, "allocation_handler"),
		now:          time.Now,
	}
}

// ManualEntry handles POST /api/manual-entry
func (h *AllocationHandler) ManualEntry(w http.ResponseWriter, r *http.Request) {
	var req api.ManualEntryRequest
	if err := h.validator.DecodeJSON(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	data, err := h.service.ManualEntry(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, h.now(), MsgProductsProcessed, data)
}

// CalculateCosts handles POST /api/calculate-costs
func (h *AllocationHandler) CalculateCosts(w http.ResponseWriter, r *http.Request) {
	var req api.AllocationRequest
	if err := h.validator.DecodeJSON(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "calculating costs",
		slog.Int("products", len(req.Products)),
		slog.Int("fixed_costs", len(req.FixedCosts)),
		slog.Int("variable_costs", len(req.VariableCosts)),
		slog.Int("taxes", len(req.Taxes)),
	)

	data, err := h.service.Calculate(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	respond(w, r, h.now(), MsgCostsCalculated, data)
}
