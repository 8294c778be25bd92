package domain

// Delivery vehicle with a weight capacity.
type Vehicle struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Plate      string  `json:"plate"`
	DriverID   int     `json:"driver_id"`
	DriverName string  `json:"driver_name"`
	Capacity   float64 `json:"capacity"`
	Selected   bool    `json:"selected"`
}

// WithCapacityLimit returns a copy of the vehicle whose capacity is capped by limit.
// Vehicles that do not declare a positive capacity take the limit as-is.
func (v Vehicle) WithCapacityLimit(limit float64) Vehicle {
	if v.Capacity <= 0 || v.Capacity > limit {
		v.Capacity = limit
	}
	return v
}
