package handlers

import (
	"context"
	"dispatch-planner/internal/platform/obs"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger is anything whose reachability the health check should report.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB Pinger
}

// Health reports liveness and database reachability.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.Ping(ctx); err != nil {
			obs.L().Warn("health check: database unreachable", zap.Error(err))
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}
	}

	res := map[string]string{"status": "ok", "database": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}
