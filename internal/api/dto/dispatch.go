package dto

import "dispatch-planner/internal/domain"

type StopResponse struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	CustomerID    int     `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	Address       string  `json:"address"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Weight        float64 `json:"weight"`
	ScheduledDate string  `json:"scheduled_date"`
	Status        string  `json:"status"`
}

type ListStopsResponse struct {
	Date  string         `json:"date"`
	Stops []StopResponse `json:"stops"`
}

type ListVehiclesResponse struct {
	Vehicles []domain.Vehicle `json:"vehicles"`
}

func NewStopResponse(s domain.Stop) StopResponse {
	return StopResponse{
		ID:            s.ID,
		Name:          s.Name,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		Address:       s.Address,
		Lat:           s.Location.Lat,
		Lon:           s.Location.Lon,
		Weight:        s.Weight,
		ScheduledDate: s.ScheduledDate.Format(domain.DateLayout),
		Status:        s.Status,
	}
}
