package services

import (
	"context"
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/geo"
	"math"
	"slices"
	"testing"
)

func vehicles(n int, capacity float64) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Vehicle{ID: i, Name: "Van", Capacity: capacity})
	}
	return out
}

// gridStops spreads stops over a few kilometers around the depot with uneven weights.
func gridStops() []domain.Stop {
	depot := domain.DefaultDepot
	var stops []domain.Stop
	id := 1
	for r := -2; r <= 1; r++ {
		for c := -1; c <= 1; c++ {
			w := float64(5 + (id*7)%26)
			stops = append(stops, stopAt(id, depot.Lat+float64(r)*0.015, depot.Lon+float64(c)*0.02, w))
			id++
		}
	}
	return stops
}

func allStrategies() []Strategy {
	return []Strategy{
		&GeographicClustering{},
		&GeographicClustering{Order: NearestFirst},
		&ClarkeWrightSavings{},
		&NearestNeighborConstruction{},
	}
}

func assertRouteInvariants(t *testing.T, depot domain.Coordinates, a *Assignment) {
	t.Helper()

	seen := map[int]bool{}
	for _, r := range append(append([]domain.Route{}, a.Routes...), a.Dropped...) {
		var weight float64
		for _, s := range r.Stops {
			if seen[s.ID] {
				t.Fatalf("stop %d appears in more than one route", s.ID)
			}
			seen[s.ID] = true
			weight += s.Weight
		}
		if math.Abs(weight-r.TotalWeight) > 1e-9 {
			t.Fatalf("route total weight = %v, want %v", r.TotalWeight, weight)
		}
		want := geo.ClosedTour(depot, r.Locations())
		if math.Abs(r.TotalDistanceKm-want) > 1e-9 {
			t.Fatalf("route distance = %v, want %v", r.TotalDistanceKm, want)
		}
	}
	for _, r := range a.Routes {
		if r.TotalWeight > r.Vehicle.Capacity {
			t.Fatalf("vehicle %d overloaded: %v > %v", r.Vehicle.ID, r.TotalWeight, r.Vehicle.Capacity)
		}
	}
}

func countStops(routes []domain.Route) int {
	n := 0
	for _, r := range routes {
		n += len(r.Stops)
	}
	return n
}

func TestStrategiesRespectInvariants(t *testing.T) {
	depot := domain.DefaultDepot
	stops := gridStops()

	for _, s := range allStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			a, err := s.Assign(context.Background(), depot, stops, vehicles(3, 50), 50)
			if err != nil {
				t.Fatalf("Assign: %v", err)
			}
			assertRouteInvariants(t, depot, a)

			if got := len(a.Routes); got > 3 {
				t.Fatalf("routes = %d, want <= 3", got)
			}
			if countStops(a.Routes) == 0 {
				t.Fatalf("no stops assigned")
			}
		})
	}
}

func TestGeographicScenarioA(t *testing.T) {
	depot := domain.DefaultDepot
	stops := []domain.Stop{
		stopAt(1, depot.Lat+0.001, depot.Lon, 40),
		stopAt(2, depot.Lat, depot.Lon+0.002, 40),
		stopAt(3, depot.Lat-0.003, depot.Lon, 40),
	}

	a, err := (&GeographicClustering{}).Assign(context.Background(), depot, stops, vehicles(1, 100), 100)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if len(a.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(a.Routes))
	}
	r := a.Routes[0]
	if len(r.Stops) != 2 {
		t.Fatalf("stops = %d, want 2", len(r.Stops))
	}
	if r.TotalWeight != 80 {
		t.Fatalf("weight = %v, want 80", r.TotalWeight)
	}
}

func TestGeographicConsumptionOrder(t *testing.T) {
	depot := domain.DefaultDepot
	// Two stops hug the centroid, one sits far out. With room for only one
	// stop, FarthestFirst takes the outlier and NearestFirst a central one.
	stops := []domain.Stop{
		stopAt(1, depot.Lat+0.010, depot.Lon, 10),
		stopAt(2, depot.Lat+0.011, depot.Lon, 10),
		stopAt(3, depot.Lat+0.080, depot.Lon, 10),
	}

	cases := []struct {
		name  string
		order ConsumptionOrder
		want  int
	}{
		{name: "farthest", order: FarthestFirst, want: 3},
		{name: "nearest", order: NearestFirst, want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := &GeographicClustering{Order: tc.order}
			a, err := g.Assign(context.Background(), depot, stops, vehicles(1, 10), 10)
			if err != nil {
				t.Fatalf("Assign: %v", err)
			}
			got := a.Routes[0].StopIDs()
			if len(got) != 1 || got[0] != tc.want {
				t.Fatalf("stops = %v, want [%d]", got, tc.want)
			}
		})
	}
}

func pairStops() []domain.Stop {
	// Two tight pairs, one north and one south of the depot.
	return []domain.Stop{
		stopAt(1, 47.500, 8.540, 10),
		stopAt(2, 47.250, 8.540, 10),
		stopAt(3, 47.505, 8.548, 10),
		stopAt(4, 47.255, 8.532, 10),
	}
}

func TestClarkeWrightScenarioB(t *testing.T) {
	depot := domain.DefaultDepot

	a, err := (&ClarkeWrightSavings{}).Assign(context.Background(), depot, pairStops(), vehicles(2, 20), 20)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	assertRouteInvariants(t, depot, a)

	if len(a.Routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(a.Routes))
	}
	if len(a.Dropped) != 0 {
		t.Fatalf("dropped = %d, want 0", len(a.Dropped))
	}

	pairs := map[int]int{1: 3, 3: 1, 2: 4, 4: 2}
	for _, r := range a.Routes {
		got := r.StopIDs()
		if len(got) != 2 {
			t.Fatalf("route stops = %v, want 2 stops", got)
		}
		if pairs[got[0]] != got[1] {
			t.Fatalf("route %v mixes pairs", got)
		}
	}
	if a.Routes[0].Vehicle.ID != 1 || a.Routes[1].Vehicle.ID != 2 {
		t.Fatalf("vehicles = %d,%d, want 1,2", a.Routes[0].Vehicle.ID, a.Routes[1].Vehicle.ID)
	}
}

func TestClarkeWrightExcessRoutesAreDropped(t *testing.T) {
	depot := domain.DefaultDepot
	stops := pairStops()

	a, err := (&ClarkeWrightSavings{}).Assign(context.Background(), depot, stops, vehicles(1, 20), 20)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	assertRouteInvariants(t, depot, a)

	if len(a.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(a.Routes))
	}
	if len(a.Dropped) != 1 {
		t.Fatalf("dropped = %d, want 1", len(a.Dropped))
	}
	if got := countStops(a.Routes) + countStops(a.Dropped); got != len(stops) {
		t.Fatalf("routed + dropped stops = %d, want %d", got, len(stops))
	}
}

func TestClarkeWrightDropsRouteTooHeavyForVehicle(t *testing.T) {
	depot := domain.DefaultDepot
	fleet := []domain.Vehicle{
		{ID: 1, Capacity: 10},
		{ID: 2, Capacity: 20},
	}

	a, err := (&ClarkeWrightSavings{}).Assign(context.Background(), depot, pairStops(), fleet, 20)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if len(a.Routes) != 1 || a.Routes[0].Vehicle.ID != 2 {
		t.Fatalf("routes = %+v, want one route on vehicle 2", a.Routes)
	}
	if len(a.Dropped) != 1 {
		t.Fatalf("dropped = %d, want 1", len(a.Dropped))
	}
	if a.Dropped[0].Vehicle.ID != 1 {
		t.Fatalf("dropped route vehicle = %d, want 1", a.Dropped[0].Vehicle.ID)
	}
}

func TestNearestNeighborConstruction(t *testing.T) {
	depot := domain.DefaultDepot
	stops := []domain.Stop{
		stopAt(1, depot.Lat, depot.Lon+0.03, 10),
		stopAt(2, depot.Lat, depot.Lon+0.01, 25),
		stopAt(3, depot.Lat, depot.Lon+0.02, 10),
		stopAt(4, depot.Lat, depot.Lon+0.04, 10),
	}

	a, err := (&NearestNeighborConstruction{}).Assign(context.Background(), depot, stops, vehicles(2, 30), 30)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	assertRouteInvariants(t, depot, a)

	if len(a.Routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(a.Routes))
	}
	// Stop 2 fills the first vehicle past the point where 3 could follow.
	if got, want := a.Routes[0].StopIDs(), []int{2}; !equalInts(got, want) {
		t.Fatalf("vehicle 1 stops = %v, want %v", got, want)
	}
	if got, want := a.Routes[1].StopIDs(), []int{3, 1, 4}; !equalInts(got, want) {
		t.Fatalf("vehicle 2 stops = %v, want %v", got, want)
	}
}

func TestScenarioDZeroCapacity(t *testing.T) {
	depot := domain.DefaultDepot
	stops := gridStops()
	fleet := vehicles(3, 0)

	for _, s := range allStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			a, err := s.Assign(context.Background(), depot, stops, fleet, 0)
			if err != nil {
				t.Fatalf("Assign: %v", err)
			}
			for _, r := range a.Routes {
				if len(r.Stops) != 0 {
					t.Fatalf("vehicle %d got %d stops, want 0", r.Vehicle.ID, len(r.Stops))
				}
				if r.TotalDistanceKm != 0 {
					t.Fatalf("empty route distance = %v, want 0", r.TotalDistanceKm)
				}
			}
			if len(a.Dropped) != 0 {
				t.Fatalf("dropped = %d, want 0", len(a.Dropped))
			}
			// Clarke-Wright binds vehicles to merged routes, not the other way
			// round. At capacity 0 every singleton is already over the limit and
			// never becomes a route, so no vehicle gets an empty one.
			if s.Name() == AlgorithmClarkeWright {
				if len(a.Routes) != 0 {
					t.Fatalf("routes = %d, want 0", len(a.Routes))
				}
				return
			}
			if len(a.Routes) != len(fleet) {
				t.Fatalf("routes = %d, want one per vehicle", len(a.Routes))
			}
		})
	}
}

func sortedIDs(r domain.Route) []int {
	out := r.StopIDs()
	slices.Sort(out)
	return out
}

func TestClarkeWrightEqualSavingsKeepInputOrder(t *testing.T) {
	depot := domain.Coordinates{Lat: 47, Lon: 0}
	// L and R mirror each other around M, so (M,L) and (M,R) save exactly the
	// same distance. Capacity leaves room for only one of the two merges.
	m := stopAt(1, 47.05, 0, 10)
	l := stopAt(2, 47.05, -0.01, 10)
	r := stopAt(3, 47.05, 0.01, 10)

	cases := []struct {
		name     string
		stops    []domain.Stop
		merged   []int
		leftover int
	}{
		{name: "left listed first", stops: []domain.Stop{m, l, r}, merged: []int{1, 2}, leftover: 3},
		{name: "right listed first", stops: []domain.Stop{m, r, l}, merged: []int{1, 3}, leftover: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := (&ClarkeWrightSavings{}).Assign(context.Background(), depot, tc.stops, vehicles(2, 20), 20)
			if err != nil {
				t.Fatalf("Assign: %v", err)
			}
			assertRouteInvariants(t, depot, a)

			if len(a.Routes) != 2 {
				t.Fatalf("routes = %d, want 2", len(a.Routes))
			}
			if got := sortedIDs(a.Routes[0]); !equalInts(got, tc.merged) {
				t.Fatalf("merged route = %v, want %v", got, tc.merged)
			}
			if got := a.Routes[1].StopIDs(); !equalInts(got, []int{tc.leftover}) {
				t.Fatalf("leftover route = %v, want [%d]", got, tc.leftover)
			}
			if a.Routes[0].Vehicle.ID != 1 || a.Routes[1].Vehicle.ID != 2 {
				t.Fatalf("vehicles = %d,%d, want 1,2", a.Routes[0].Vehicle.ID, a.Routes[1].Vehicle.ID)
			}
		})
	}
}

func TestNearestNeighborConstructionTieKeepsInputOrder(t *testing.T) {
	depot := domain.Coordinates{Lat: 47, Lon: 0}
	east := stopAt(1, 47, 0.01, 10)
	west := stopAt(2, 47, -0.01, 10)

	cases := []struct {
		name  string
		stops []domain.Stop
		want  int
	}{
		{name: "east first", stops: []domain.Stop{east, west}, want: 1},
		{name: "west first", stops: []domain.Stop{west, east}, want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := (&NearestNeighborConstruction{}).Assign(context.Background(), depot, tc.stops, vehicles(1, 10), 10)
			if err != nil {
				t.Fatalf("Assign: %v", err)
			}
			if got := a.Routes[0].StopIDs(); !equalInts(got, []int{tc.want}) {
				t.Fatalf("stops = %v, want [%d]", got, tc.want)
			}
		})
	}
}

func TestGeographicEquidistantTieKeepsInputOrder(t *testing.T) {
	depot := domain.DefaultDepot
	// The centroid of the pair is (47, 0); both stops sit exactly as far from it.
	left := stopAt(1, 47, -0.01, 10)
	right := stopAt(2, 47, 0.01, 10)

	cases := []struct {
		name  string
		stops []domain.Stop
		order ConsumptionOrder
		want  int
	}{
		{name: "left first nearest", stops: []domain.Stop{left, right}, order: NearestFirst, want: 1},
		{name: "left first farthest", stops: []domain.Stop{left, right}, order: FarthestFirst, want: 2},
		{name: "right first nearest", stops: []domain.Stop{right, left}, order: NearestFirst, want: 2},
		{name: "right first farthest", stops: []domain.Stop{right, left}, order: FarthestFirst, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := &GeographicClustering{Order: tc.order}
			a, err := g.Assign(context.Background(), depot, tc.stops, vehicles(1, 10), 10)
			if err != nil {
				t.Fatalf("Assign: %v", err)
			}
			if got := a.Routes[0].StopIDs(); !equalInts(got, []int{tc.want}) {
				t.Fatalf("stops = %v, want [%d]", got, tc.want)
			}
		})
	}
}

func TestStrategiesHonorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range allStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			_, err := s.Assign(ctx, domain.DefaultDepot, gridStops(), vehicles(2, 50), 50)
			if err == nil {
				t.Fatalf("expected error on cancelled context")
			}
		})
	}
}
