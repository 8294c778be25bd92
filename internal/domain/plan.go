package domain

import "time"

// DateLayout is the wire and storage format for a dispatch day.
const DateLayout = "2006-01-02"

// Plan is the published outcome of one optimization run for a dispatch day.
// Downstream consumers receive it as JSON; it is never stored by this service.
type Plan struct {
	RunID             string    `json:"run_id"`
	Date              string    `json:"date"`
	Algorithm         string    `json:"algorithm"`
	Routes            []Route   `json:"routes"`
	UnassignedStopIDs []int     `json:"unassigned_stop_ids"`
	CreatedAt         time.Time `json:"created_at"`
}
