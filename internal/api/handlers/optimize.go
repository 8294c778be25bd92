package handlers

import (
	"dispatch-planner/internal/api/dto"
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/services"
	"net/http"
)

type OptimizeHandler struct {
	Optimizer Optimizer
}

// Optimize runs one allocation over the stops and vehicles supplied in the body.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OptimizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	capacity, ok := requireCapacity(w, r, req.Capacity)
	if !ok {
		return
	}

	pickings := make([]domain.Stop, 0, len(req.Pickings))
	for _, p := range req.Pickings {
		s, err := p.ToDomain()
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		pickings = append(pickings, s)
	}

	vehicles := make([]domain.Vehicle, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		vehicles = append(vehicles, v.ToDomain())
	}

	res, err := h.Optimizer.Optimize(r.Context(), services.OptimizeRequest{
		Pickings:  pickings,
		Vehicles:  vehicles,
		Algorithm: req.Algorithm,
		Capacity:  capacity,
	})
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newOptimizeResponse(res))
}
