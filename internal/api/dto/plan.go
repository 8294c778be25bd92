package dto

type PlanRequest struct {
	Date       string   `json:"date"`
	Algorithm  string   `json:"algorithm"`
	Capacity   *float64 `json:"capacity"`
	VehicleIDs []int    `json:"vehicle_ids"`
}

type PlanResponse struct {
	OptimizeResponse
	Date      string `json:"date"`
	Published bool   `json:"published"`
}
