package services

import (
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/geo"
	"math"
	"slices"
)

// SequenceStops orders stops with a greedy nearest-neighbor walk from origin.
//
// The walk minimizes the immediate great-circle leg at each step and does not
// attempt global tour optimization. Ties resolve to the lowest original index,
// so the result is deterministic for a given input order.
func SequenceStops(origin domain.Coordinates, stops []domain.Stop) []domain.Stop {
	if len(stops) <= 1 {
		return slices.Clone(stops)
	}

	remaining := slices.Clone(stops)
	ordered := make([]domain.Stop, 0, len(stops))
	current := origin

	for len(remaining) > 0 {
		best := nearestIndex(current, remaining, nil)
		next := remaining[best]

		ordered = append(ordered, next)
		current = next.Location
		// slices.Delete keeps the relative order, which the tie rule depends on.
		remaining = slices.Delete(remaining, best, best+1)
	}

	return ordered
}

// nearestIndex returns the index of the stop closest to from among those
// accepted by fits (all stops when fits is nil), or -1 if none qualifies.
//
// The scan is left to right with a strict less-than comparison: the lowest
// index wins ties.
func nearestIndex(from domain.Coordinates, stops []domain.Stop, fits func(domain.Stop) bool) int {
	best := -1
	minDist := math.Inf(1)

	for i, s := range stops {
		if fits != nil && !fits(s) {
			continue
		}
		if d := geo.Distance(from, s.Location); d < minDist {
			minDist = d
			best = i
		}
	}
	return best
}

// closeRoute sequences the route from the depot and sets its closed-tour distance.
func closeRoute(depot domain.Coordinates, r *domain.Route) {
	r.Stops = SequenceStops(depot, r.Stops)
	r.TotalDistanceKm = geo.ClosedTour(depot, r.Locations())
}

func locations(stops []domain.Stop) []domain.Coordinates {
	out := make([]domain.Coordinates, 0, len(stops))
	for _, s := range stops {
		out = append(out, s.Location)
	}
	return out
}
