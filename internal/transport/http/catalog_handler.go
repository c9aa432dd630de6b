package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"landedcost/internal/catalog"
	apierrors "landedcost/internal/errors"
)

// CatalogHandler serves suggestion lists and product search
type CatalogHandler struct {
	service      CatalogServiceInterface
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(service CatalogServiceInterface, errorHandler *apierrors.ErrorHandler) *CatalogHandler {
	return &CatalogHandler{service: service, errorHandler: errorHandler, now: time.Now}
}

// Suggestions handles GET /api/suggestions/{type}
func (h *CatalogHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Suggestions(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	respond(w, r, h.now(), MsgSuccess, data)
}

// SearchProducts handles GET /api/search-products?q=&limit=
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	limit := catalog.DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.errorHandler.HandleError(w, r, apierrors.InvalidData("limit must be a positive integer",
				map[string]any{"limit": raw}))
			return
		}
		limit = min(n, catalog.MaxProductSuggestions)
	}

	respond(w, r, h.now(), MsgSuccess, h.service.Search(r.Context(), query, limit))
}
