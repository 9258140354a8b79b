package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"backoffice-gateway/internal/model"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report := HealthReport{Status: "ok", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			slog.Warn("health check failed", "check", name, "error", err)
			report.Status = "degraded"
			report.Checks[name] = "unavailable"
			continue
		}
		report.Checks[name] = "ok"
	}

	if report.Status != "ok" {
		writeJSON(w, http.StatusServiceUnavailable, model.APIResponse{
			Success: false,
			Data:    report,
			Error:   &model.APIError{Code: "DEPENDENCY_UNAVAILABLE", Message: "one or more dependencies are unhealthy"},
		})
		return
	}
	writeSuccess(w, http.StatusOK, report, nil)
}
