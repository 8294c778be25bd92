package domain

import "fmt"

// Represents the planned delivery route for a single vehicle.
// A Route is the output of an allocation strategy: the ordered sequence of
// stops starting and ending at the depot, along with aggregate weight and
// great-circle distance. It is immutable once an optimization run completes.
type Route struct {
	Vehicle         Vehicle `json:"vehicle"`
	Stops           []Stop  `json:"stops"`
	TotalWeight     float64 `json:"total_weight"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	Zone            string  `json:"zone"`
}

// NewRoute creates an empty route bound to the vehicle.
func NewRoute(v Vehicle) *Route {
	return &Route{Vehicle: v, Stops: []Stop{}}
}

// Fits reports whether the stop can be added without exceeding capacity.
func (r *Route) Fits(s Stop) bool {
	return r.TotalWeight+s.Weight <= r.Vehicle.Capacity
}

// Add a single stop to the route.
func (r *Route) Add(s Stop) error {
	if !r.Fits(s) {
		return fmt.Errorf(
			"add stop: vehicle %d cannot carry stop %d (load=%.2f weight=%.2f capacity=%.2f)",
			r.Vehicle.ID, s.ID, r.TotalWeight, s.Weight, r.Vehicle.Capacity,
		)
	}
	r.Stops = append(r.Stops, s)
	r.TotalWeight += s.Weight
	return nil
}

// Remaining capacity left on the vehicle.
func (r *Route) Remaining() float64 {
	return r.Vehicle.Capacity - r.TotalWeight
}

// StopIDs returns the ids of the stops in visiting order.
func (r *Route) StopIDs() []int {
	ids := make([]int, 0, len(r.Stops))
	for _, s := range r.Stops {
		ids = append(ids, s.ID)
	}
	return ids
}

// Locations returns the stop coordinates in visiting order.
func (r *Route) Locations() []Coordinates {
	out := make([]Coordinates, 0, len(r.Stops))
	for _, s := range r.Stops {
		out = append(out, s.Location)
	}
	return out
}
