package services

import (
	"cmp"
	"context"
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/geo"
	"fmt"
	"slices"
)

type saving struct {
	i, j  int
	value float64
}

// savingsRoute is a route under construction; members are indices into the input stops.
type savingsRoute struct {
	stops    []domain.Stop
	members  []int
	weight   float64
	distance float64
}

// ClarkeWrightSavings merges single-stop round trips in descending order of
// the distance they save, subject to the run capacity.
//
// Merged routes are bound to vehicles positionally. Routes beyond the fleet
// size, or too heavy for their positional vehicle, are reported as dropped.
type ClarkeWrightSavings struct{}

func (c *ClarkeWrightSavings) Name() string { return AlgorithmClarkeWright }

func (c *ClarkeWrightSavings) Assign(
	ctx context.Context,
	depot domain.Coordinates,
	stops []domain.Stop,
	vehicles []domain.Vehicle,
	capacity float64,
) (*Assignment, error) {
	n := len(stops)

	depotDist := make([]float64, n)
	routes := make([]*savingsRoute, n)
	owner := make([]int, n)
	for i, s := range stops {
		depotDist[i] = geo.Distance(depot, s.Location)
		routes[i] = &savingsRoute{
			stops:    []domain.Stop{s},
			members:  []int{i},
			weight:   s.Weight,
			distance: 2 * depotDist[i],
		}
		owner[i] = i
	}

	savings := make([]saving, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			value := depotDist[i] + depotDist[j] - geo.Distance(stops[i].Location, stops[j].Location)
			savings = append(savings, saving{i: i, j: j, value: value})
		}
	}

	// Descending by saving; stable so ties keep (i, j) enumeration order.
	slices.SortStableFunc(savings, func(a, b saving) int {
		return cmp.Compare(b.value, a.value)
	})

	for k, sv := range savings {
		if k%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("clarke-wright: merge pass: %w", err)
			}
		}

		ri, rj := owner[sv.i], owner[sv.j]
		if ri == rj {
			continue
		}

		a, b := routes[ri], routes[rj]
		if a.weight+b.weight > capacity {
			continue
		}

		merged := append(slices.Clone(a.stops), b.stops...)
		a.stops = SequenceStops(depot, merged)
		a.members = append(a.members, b.members...)
		a.weight += b.weight
		a.distance = geo.ClosedTour(depot, locations(a.stops))

		for _, m := range b.members {
			owner[m] = ri
		}
		routes[rj] = nil
	}

	out := &Assignment{Routes: make([]domain.Route, 0, len(vehicles))}
	slot := 0
	for _, r := range routes {
		if r == nil {
			continue
		}
		// A lone stop heavier than the capacity never becomes a route.
		if r.weight > capacity {
			continue
		}

		route := domain.Route{
			Stops:           r.stops,
			TotalWeight:     r.weight,
			TotalDistanceKm: r.distance,
		}

		if slot >= len(vehicles) {
			out.Dropped = append(out.Dropped, route)
			continue
		}

		route.Vehicle = vehicles[slot]
		slot++
		if r.weight > route.Vehicle.Capacity {
			out.Dropped = append(out.Dropped, route)
			continue
		}
		out.Routes = append(out.Routes, route)
	}

	return out, nil
}
