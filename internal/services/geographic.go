package services

import (
	"cmp"
	"context"
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/geo"
	"fmt"
	"slices"
)

// ConsumptionOrder decides in which order the centroid-sorted candidates are
// offered to the current vehicle. sorted is ascending by distance to the
// centroid of the unassigned stops.
type ConsumptionOrder func(sorted []domain.Stop) []domain.Stop

// FarthestFirst walks the sorted candidates from the tail: stops farthest from
// the centroid are tried first. This is the production behavior.
func FarthestFirst(sorted []domain.Stop) []domain.Stop {
	out := slices.Clone(sorted)
	slices.Reverse(out)
	return out
}

// NearestFirst offers candidates closest to the centroid first.
func NearestFirst(sorted []domain.Stop) []domain.Stop {
	return slices.Clone(sorted)
}

// GeographicClustering fills vehicles one at a time around the centroid of
// the stops still unassigned.
type GeographicClustering struct {
	// Order defaults to FarthestFirst when nil.
	Order ConsumptionOrder
}

func (g *GeographicClustering) Name() string { return AlgorithmGeographic }

func (g *GeographicClustering) Assign(
	ctx context.Context,
	depot domain.Coordinates,
	stops []domain.Stop,
	vehicles []domain.Vehicle,
	_ float64,
) (*Assignment, error) {
	order := g.Order
	if order == nil {
		order = FarthestFirst
	}

	unassigned := slices.Clone(stops)
	routes := make([]domain.Route, 0, len(vehicles))

	for _, v := range vehicles {
		if len(unassigned) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("geographic clustering: vehicle %d: %w", v.ID, err)
		}

		centroid := geo.Centroid(locations(unassigned))
		dist := make(map[int]float64, len(unassigned))
		for _, s := range unassigned {
			dist[s.ID] = geo.Distance(centroid, s.Location)
		}

		// Stable sort keeps the input order among equidistant stops.
		sorted := slices.Clone(unassigned)
		slices.SortStableFunc(sorted, func(a, b domain.Stop) int {
			return cmp.Compare(dist[a.ID], dist[b.ID])
		})

		route := domain.NewRoute(v)
		taken := make(map[int]struct{})
		for _, s := range order(sorted) {
			if err := route.Add(s); err != nil {
				continue
			}
			taken[s.ID] = struct{}{}
		}

		unassigned = slices.DeleteFunc(unassigned, func(s domain.Stop) bool {
			_, ok := taken[s.ID]
			return ok
		})

		closeRoute(depot, route)
		routes = append(routes, *route)
	}

	return &Assignment{Routes: routes}, nil
}
