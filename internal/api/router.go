package api

import (
	"dispatch-planner/internal/api/handlers"
	"dispatch-planner/internal/platform/metrics"
	"dispatch-planner/internal/ports"
	"net/http"

	"golang.org/x/time/rate"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Repo      ports.DispatchRepository
	Optimizer handlers.Optimizer
	Publisher ports.PlanPublisher
	Metrics   *metrics.Metrics
	// Limiter applies to the API endpoints; /health and /metrics are exempt.
	Limiter *rate.Limiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{DB: d.Repo}
	optimizeHandler := &handlers.OptimizeHandler{Optimizer: d.Optimizer}
	planHandler := &handlers.PlanHandler{
		Repo:      d.Repo,
		Optimizer: d.Optimizer,
		Publisher: d.Publisher,
	}
	dispatchHandler := &handlers.DispatchHandler{Repo: d.Repo}

	limited := func(h http.HandlerFunc) http.Handler {
		return rateLimitMiddleware(d.Limiter, h)
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.Handle("/optimize", limited(optimizeHandler.Optimize))
	mux.Handle("/plans", limited(planHandler.Plan))
	mux.Handle("/stops", limited(dispatchHandler.ListStops))
	mux.Handle("/vehicles", limited(dispatchHandler.ListVehicles))
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}

	return requestIDMiddleware(loggingMiddleware(d.Metrics, routeLabel, mux))
}

var knownRoutes = map[string]bool{
	"/health":   true,
	"/optimize": true,
	"/plans":    true,
	"/stops":    true,
	"/vehicles": true,
	"/metrics":  true,
}

func routeLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}
