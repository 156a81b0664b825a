package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

const (
	checkPassed    = "ok"
	statusAlive    = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
}

func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. It reports the process only.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.HealthResponse{Status: statusAlive})
}

// Readiness handles GET /health/ready. Any failing dependency turns the
// response into a 503 and is logged at warn.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := dto.HealthResponse{Status: statusReady, Checks: map[string]string{}}
	code := http.StatusOK

	for name, err := range h.registry.CheckAll(ctx) {
		if err == nil {
			resp.Checks[name] = checkPassed
			continue
		}
		resp.Checks[name] = err.Error()
		resp.Status, code = statusNotReady, http.StatusServiceUnavailable
		logging.FromContext(ctx).WarnContext(ctx, "readiness check failed",
			slog.String("check", name),
			slog.Any("error", err),
		)
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, r, code, resp)
}
