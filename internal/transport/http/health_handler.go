package http

import (
	"net/http"
	"time"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service HealthServiceInterface
	now     func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthServiceInterface) *HealthHandler {
	return &HealthHandler{service: service, now: time.Now}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.now(), MsgHealthy, h.service.Health(r.Context()))
}
