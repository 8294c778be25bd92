package dto

import (
	"dispatch-planner/internal/domain"
	"fmt"
	"time"
)

type StopRequest struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	CustomerID    int     `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	Address       string  `json:"address"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Weight        float64 `json:"weight"`
	ScheduledDate string  `json:"scheduled_date,omitempty"`
	Status        string  `json:"status,omitempty"`
}

type VehicleRequest struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Plate      string  `json:"plate"`
	DriverID   int     `json:"driver_id"`
	DriverName string  `json:"driver_name"`
	Capacity   float64 `json:"capacity"`
	Selected   bool    `json:"selected"`
}

type OptimizeRequest struct {
	Pickings  []StopRequest    `json:"pickings"`
	Vehicles  []VehicleRequest `json:"vehicles"`
	Algorithm string           `json:"algorithm"`
	// Capacity is required; a pointer tells "absent" apart from an explicit 0.
	Capacity *float64 `json:"capacity"`
}

// ToDomain converts the wire stop. scheduled_date is optional; when present it must be YYYY-MM-DD.
func (s StopRequest) ToDomain() (domain.Stop, error) {
	st := domain.Stop{
		ID:           s.ID,
		Name:         s.Name,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		Address:      s.Address,
		Location:     domain.Coordinates{Lat: s.Lat, Lon: s.Lon},
		Weight:       s.Weight,
		Status:       s.Status,
	}
	if s.ScheduledDate != "" {
		d, err := time.Parse(domain.DateLayout, s.ScheduledDate)
		if err != nil {
			return domain.Stop{}, fmt.Errorf("stop id=%d: scheduled_date must be YYYY-MM-DD", s.ID)
		}
		st.ScheduledDate = d
	}
	return st, nil
}

func (v VehicleRequest) ToDomain() domain.Vehicle {
	return domain.Vehicle{
		ID:         v.ID,
		Name:       v.Name,
		Plate:      v.Plate,
		DriverID:   v.DriverID,
		DriverName: v.DriverName,
		Capacity:   v.Capacity,
		Selected:   v.Selected,
	}
}

type RouteStopResponse struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	CustomerName string  `json:"customer_name"`
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Weight       float64 `json:"weight"`
}

type RouteResponse struct {
	VehicleID       int                 `json:"vehicle_id"`
	VehicleName     string              `json:"vehicle_name"`
	DriverName      string              `json:"driver_name"`
	Capacity        float64             `json:"capacity"`
	Zone            string              `json:"zone"`
	TotalWeight     float64             `json:"total_weight"`
	TotalDistanceKm float64             `json:"total_distance_km"`
	Stops           []RouteStopResponse `json:"stops"`
}

type OptimizeResponse struct {
	RunID             string          `json:"run_id"`
	Routes            []RouteResponse `json:"routes"`
	Unassigned        int             `json:"unassigned"`
	UnassignedStopIDs []int           `json:"unassigned_stop_ids"`
	DroppedRoutes     []RouteResponse `json:"dropped_routes"`
	Algorithm         string          `json:"algorithm"`
}

func NewRouteResponse(r domain.Route) RouteResponse {
	stops := make([]RouteStopResponse, 0, len(r.Stops))
	for _, s := range r.Stops {
		stops = append(stops, RouteStopResponse{
			ID:           s.ID,
			Name:         s.Name,
			CustomerName: s.CustomerName,
			Address:      s.Address,
			Lat:          s.Location.Lat,
			Lon:          s.Location.Lon,
			Weight:       s.Weight,
		})
	}
	return RouteResponse{
		VehicleID:       r.Vehicle.ID,
		VehicleName:     r.Vehicle.Name,
		DriverName:      r.Vehicle.DriverName,
		Capacity:        r.Vehicle.Capacity,
		Zone:            r.Zone,
		TotalWeight:     r.TotalWeight,
		TotalDistanceKm: r.TotalDistanceKm,
		Stops:           stops,
	}
}

func NewRouteResponses(routes []domain.Route) []RouteResponse {
	out := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, NewRouteResponse(r))
	}
	return out
}

// ErrorResponse is the body of failed computations; routes is always an empty list.
type ErrorResponse struct {
	Error  string          `json:"error"`
	Routes []RouteResponse `json:"routes"`
}
