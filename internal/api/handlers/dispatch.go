package handlers

import (
	"dispatch-planner/internal/api/dto"
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/platform/obs"
	"dispatch-planner/internal/ports"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DispatchHandler exposes the read-only upstream snapshot.
type DispatchHandler struct {
	Repo ports.DispatchRepository
}

func (h *DispatchHandler) ListStops(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	date, err := time.Parse(domain.DateLayout, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date query parameter must be YYYY-MM-DD")
		return
	}

	stops, err := h.Repo.ListStops(r.Context(), date)
	if err != nil {
		obs.L().Error("list stops failed", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStopsResponse{
		Date:  date.Format(domain.DateLayout),
		Stops: make([]dto.StopResponse, 0, len(stops)),
	}
	for _, s := range stops {
		res.Stops = append(res.Stops, dto.NewStopResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *DispatchHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	vehicles, err := h.Repo.ListVehicles(r.Context())
	if err != nil {
		obs.L().Error("list vehicles failed", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListVehiclesResponse{Vehicles: vehicles})
}
