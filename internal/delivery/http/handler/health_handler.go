package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"clinic-booking-core/internal/delivery/dto"
	"clinic-booking-core/pkg/response"
)

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "", dto.HealthResponse{Status: "ok"})
}

// Readiness reports 503 when any dependency is down
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = "down"
			resp.Status = "error"
			continue
		}
		resp.Checks[name] = "ok"
	}

	if resp.Status != "ok" {
		response.ServiceUnavailable(w, "Dependencies unavailable", resp)
		return
	}
	response.Success(w, http.StatusOK, "", resp)
}
