package services

import (
	"context"
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/geo"
	"fmt"
	"slices"
)

// NearestNeighborConstruction builds each vehicle's route by repeatedly
// driving to the nearest unassigned stop that still fits.
//
// Like the route sequencer it minimizes the immediate leg only; the
// construction order is the visiting order.
type NearestNeighborConstruction struct{}

func (n *NearestNeighborConstruction) Name() string { return AlgorithmNearest }

func (n *NearestNeighborConstruction) Assign(
	ctx context.Context,
	depot domain.Coordinates,
	stops []domain.Stop,
	vehicles []domain.Vehicle,
	_ float64,
) (*Assignment, error) {
	unassigned := slices.Clone(stops)
	routes := make([]domain.Route, 0, len(vehicles))

	for _, v := range vehicles {
		if len(unassigned) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("nearest neighbor: vehicle %d: %w", v.ID, err)
		}

		route := domain.NewRoute(v)
		current := depot

		for {
			// Select next stop by minimum leg among those fitting the residual capacity.
			best := nearestIndex(current, unassigned, route.Fits)
			if best < 0 {
				break
			}

			next := unassigned[best]
			if err := route.Add(next); err != nil {
				return nil, fmt.Errorf("nearest neighbor: %w", err)
			}
			current = next.Location
			unassigned = slices.Delete(unassigned, best, best+1)
		}

		route.TotalDistanceKm = geo.ClosedTour(depot, route.Locations())
		routes = append(routes, *route)
	}

	return &Assignment{Routes: routes}, nil
}
