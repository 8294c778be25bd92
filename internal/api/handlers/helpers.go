package handlers

import (
	"context"
	"dispatch-planner/internal/api/dto"
	"dispatch-planner/internal/platform/obs"
	"dispatch-planner/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Optimizer is the engine surface the handlers depend on.
type Optimizer interface {
	Optimize(ctx context.Context, req services.OptimizeRequest) (*services.OptimizeResult, error)
}

const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.L().Warn("encode failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
// It writes the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeOptimizeError maps the optimizer's error taxonomy to HTTP statuses.
func writeOptimizeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrUnknownAlgorithm):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		obs.L().Warn("optimization timed out",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, r, http.StatusGatewayTimeout, dto.ErrorResponse{
			Error:  "optimization timed out",
			Routes: []dto.RouteResponse{},
		})
	default:
		obs.L().Error("optimization failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, r, http.StatusInternalServerError, dto.ErrorResponse{
			Error:  err.Error(),
			Routes: []dto.RouteResponse{},
		})
	}
}

// requireCapacity rejects a request body that omits capacity.
func requireCapacity(w http.ResponseWriter, r *http.Request, capacity *float64) (float64, bool) {
	if capacity == nil {
		writeOptimizeError(w, r, &services.ValidationError{Field: "capacity", Message: "is required"})
		return 0, false
	}
	return *capacity, true
}

func newOptimizeResponse(res *services.OptimizeResult) dto.OptimizeResponse {
	return dto.OptimizeResponse{
		RunID:             res.RunID,
		Routes:            dto.NewRouteResponses(res.Routes),
		Unassigned:        res.Unassigned,
		UnassignedStopIDs: res.UnassignedStopIDs,
		DroppedRoutes:     dto.NewRouteResponses(res.Dropped),
		Algorithm:         res.Algorithm,
	}
}
