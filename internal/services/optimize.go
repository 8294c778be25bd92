package services

import (
	"context"
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/platform/metrics"
	"dispatch-planner/internal/platform/obs"
	"dispatch-planner/internal/zones"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OptimizeRequest struct {
	Pickings  []domain.Stop
	Vehicles  []domain.Vehicle
	Algorithm string
	Capacity  float64
}

type OptimizeResult struct {
	RunID             string
	Routes            []domain.Route
	Unassigned        int
	UnassignedStopIDs []int
	Dropped           []domain.Route
	Algorithm         string
}

// Optimizer validates requests, dispatches them to a strategy and labels the
// resulting routes with zone names.
type Optimizer struct {
	depot      domain.Coordinates
	strategies map[string]Strategy
	classifier zones.Classifier
	shared     *zones.SharedRegistry
	timeout    time.Duration
	metrics    *metrics.Metrics

	// runMu serializes runs that name routes through the shared registry.
	runMu sync.Mutex
}

type Option func(*Optimizer)

// WithStrategy registers s under s.Name(), replacing any built-in with that name.
func WithStrategy(s Strategy) Option {
	return func(o *Optimizer) { o.strategies[s.Name()] = s }
}

func WithClassifier(c zones.Classifier) Option {
	return func(o *Optimizer) { o.classifier = c }
}

// WithSharedRegistry makes zone names unique across runs as well as within one.
func WithSharedRegistry(r *zones.SharedRegistry) Option {
	return func(o *Optimizer) { o.shared = r }
}

// WithTimeout bounds each strategy run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Optimizer) { o.timeout = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Optimizer) { o.metrics = m }
}

func NewOptimizer(depot domain.Coordinates, opts ...Option) *Optimizer {
	o := &Optimizer{
		depot:      depot,
		strategies: DefaultStrategies(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.classifier == nil {
		o.classifier = zones.NewDefaultClassifier(depot, zones.DefaultPostalTable())
	}
	return o
}

// Algorithms returns the registered strategy names, sorted.
func (o *Optimizer) Algorithms() []string {
	names := make([]string, 0, len(o.strategies))
	for name := range o.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Optimize assigns the request's stops to its vehicles with the selected algorithm.
//
// On a computation failure the returned result is non-nil and carries an empty
// route list alongside the *ComputationError.
func (o *Optimizer) Optimize(ctx context.Context, req OptimizeRequest) (_ *OptimizeResult, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	start := time.Now()

	if err := validateRequest(req); err != nil {
		o.metrics.ObserveRun(o.algorithmLabel(req.Algorithm), metrics.OutcomeInvalid, 0, 0)
		return nil, err
	}

	strategy, ok := o.strategies[req.Algorithm]
	if !ok {
		o.metrics.ObserveRun("unknown", metrics.OutcomeInvalid, 0, 0)
		return nil, &UnknownAlgorithmError{Algorithm: req.Algorithm, Known: o.Algorithms()}
	}

	runID := uuid.NewString()

	var registry zones.Registry = zones.NewRunRegistry()
	if o.shared != nil {
		o.runMu.Lock()
		defer o.runMu.Unlock()
		o.shared.Reset()
		registry = o.shared
	}

	fleet := make([]domain.Vehicle, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		fleet = append(fleet, v.WithCapacityLimit(req.Capacity))
	}

	runCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	assignment, err := o.run(runCtx, strategy, req.Pickings, fleet, req.Capacity)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		o.metrics.ObserveRun(req.Algorithm, outcome, time.Since(start), 0)

		return &OptimizeResult{
			RunID:     runID,
			Routes:    []domain.Route{},
			Algorithm: req.Algorithm,
		}, &ComputationError{Algorithm: req.Algorithm, Err: err}
	}

	namer := zones.NewNamer(o.depot, o.classifier, registry)
	routes := assignment.Routes
	for i := range routes {
		routes[i].Zone = namer.Name(routes[i], i)
	}

	unassignedIDs := unassignedStopIDs(req.Pickings, routes)

	result := &OptimizeResult{
		RunID:             runID,
		Routes:            routes,
		Unassigned:        len(unassignedIDs),
		UnassignedStopIDs: unassignedIDs,
		Dropped:           assignment.Dropped,
		Algorithm:         req.Algorithm,
	}

	o.metrics.ObserveRun(req.Algorithm, metrics.OutcomeOK, time.Since(start), result.Unassigned)
	obs.L().Info("optimization complete",
		zap.String("req_id", obs.RequestID(ctx)),
		zap.String("run_id", runID),
		zap.String("algorithm", req.Algorithm),
		zap.Int("stops", len(req.Pickings)),
		zap.Int("vehicles", len(req.Vehicles)),
		zap.Int("routes", len(routes)),
		zap.Int("unassigned", result.Unassigned),
		zap.Int("dropped", len(assignment.Dropped)),
	)

	return result, nil
}

// algorithmLabel keeps arbitrary client input out of metric label values.
func (o *Optimizer) algorithmLabel(name string) string {
	if _, ok := o.strategies[name]; ok {
		return name
	}
	return "unknown"
}

// run invokes the strategy and turns a panic into an error.
func (o *Optimizer) run(
	ctx context.Context,
	s Strategy,
	stops []domain.Stop,
	fleet []domain.Vehicle,
	capacity float64,
) (a *Assignment, err error) {
	defer func() {
		if r := recover(); r != nil {
			a = nil
			err = fmt.Errorf("strategy %s: panic: %v", s.Name(), r)
		}
	}()

	a, err = s.Assign(ctx, o.depot, stops, fleet, capacity)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("strategy %s: no assignment returned", s.Name())
	}
	// A strategy that finished without noticing the deadline still missed it.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.Name(), err)
	}
	return a, nil
}

func validateRequest(req OptimizeRequest) error {
	if len(req.Pickings) == 0 {
		return &ValidationError{Field: "pickings", Message: "at least one stop is required"}
	}
	if len(req.Vehicles) == 0 {
		return &ValidationError{Field: "vehicles", Message: "at least one vehicle is required"}
	}
	if req.Algorithm == "" {
		return &ValidationError{Field: "algorithm", Message: "is required"}
	}
	if req.Capacity < 0 || math.IsNaN(req.Capacity) {
		return &ValidationError{Field: "capacity", Message: fmt.Sprintf("must be >= 0, got %v", req.Capacity)}
	}

	seen := make(map[int]struct{}, len(req.Pickings))
	for i, s := range req.Pickings {
		if s.Weight < 0 || math.IsNaN(s.Weight) {
			return &ValidationError{
				Field:   fmt.Sprintf("pickings[%d].weight", i),
				Message: fmt.Sprintf("must be >= 0, got %v", s.Weight),
			}
		}
		if _, dup := seen[s.ID]; dup {
			return &ValidationError{
				Field:   fmt.Sprintf("pickings[%d].id", i),
				Message: fmt.Sprintf("duplicate stop id %d", s.ID),
			}
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// unassignedStopIDs lists the input stops that appear in no route, in input order.
func unassignedStopIDs(stops []domain.Stop, routes []domain.Route) []int {
	assigned := make(map[int]struct{})
	for _, r := range routes {
		for _, s := range r.Stops {
			assigned[s.ID] = struct{}{}
		}
	}

	out := make([]int, 0)
	for _, s := range stops {
		if _, ok := assigned[s.ID]; !ok {
			out = append(out, s.ID)
		}
	}
	return slices.Clip(out)
}
