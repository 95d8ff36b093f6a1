package handler

import (
	"net/http"

	"mindpath/internal/service"
)

// HealthHandler serves the time-boxed health probe
type HealthHandler struct {
	healthSvc *service.HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthSvc *service.HealthService) *HealthHandler {
	return &HealthHandler{healthSvc: healthSvc}
}

// Check handles GET /health. Probe timeouts degrade the payload; the
// endpoint itself always answers 200 within its bound.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.healthSvc.Check(r.Context()))
}
