package handlers

import (
	"dispatch-planner/internal/api/dto"
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/platform/obs"
	"dispatch-planner/internal/ports"
	"dispatch-planner/internal/services"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type PlanHandler struct {
	Repo      ports.DispatchRepository
	Optimizer Optimizer
	Publisher ports.PlanPublisher
	// Now is overridable in tests.
	Now func() time.Time
}

// Plan optimizes a dispatch day from the repository snapshot and publishes the result.
// Only stops in the ready status are planned. Vehicles come from vehicle_ids when
// given, otherwise from the roster's selected vehicles.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := time.Parse(domain.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	capacity, ok := requireCapacity(w, r, req.Capacity)
	if !ok {
		return
	}

	ctx := r.Context()

	stops, err := h.Repo.ListStops(ctx, date)
	if err != nil {
		obs.L().Error("plan: list stops failed", zap.String("req_id", obs.RequestID(ctx)), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	ready := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		if s.Status == domain.StopStatusReady {
			ready = append(ready, s)
		}
	}

	roster, err := h.Repo.ListVehicles(ctx)
	if err != nil {
		obs.L().Error("plan: list vehicles failed", zap.String("req_id", obs.RequestID(ctx)), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	vehicles, err := pickVehicles(roster, req.VehicleIDs)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.Optimizer.Optimize(ctx, services.OptimizeRequest{
		Pickings:  ready,
		Vehicles:  vehicles,
		Algorithm: req.Algorithm,
		Capacity:  capacity,
	})
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	day := date.Format(domain.DateLayout)
	plan := domain.Plan{
		RunID:             res.RunID,
		Date:              day,
		Algorithm:         res.Algorithm,
		Routes:            res.Routes,
		UnassignedStopIDs: res.UnassignedStopIDs,
		CreatedAt:         now().UTC(),
	}

	if err := h.Publisher.Publish(ctx, plan); err != nil {
		obs.L().Error("plan: publish failed",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("run_id", res.RunID),
			zap.Error(err),
		)
		writeError(w, r, http.StatusBadGateway, "plan computed but could not be published")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PlanResponse{
		OptimizeResponse: newOptimizeResponse(res),
		Date:             day,
		Published:        true,
	})
}

func pickVehicles(roster []domain.Vehicle, ids []int) ([]domain.Vehicle, error) {
	if len(ids) == 0 {
		out := make([]domain.Vehicle, 0, len(roster))
		for _, v := range roster {
			if v.Selected {
				out = append(out, v)
			}
		}
		return out, nil
	}

	byID := make(map[int]domain.Vehicle, len(roster))
	for _, v := range roster {
		byID[v.ID] = v
	}

	out := make([]domain.Vehicle, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown vehicle id %d", id)
		}
		out = append(out, v)
	}
	return out, nil
}
