package domain

import "time"

// Represents a single delivery (picking) to fulfil.
// Stops are snapshots resolved by the upstream ERP; the planner never
// mutates them, it only decides which vehicle visits them and in what order.
type Stop struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	CustomerID    int         `json:"customer_id"`
	CustomerName  string      `json:"customer_name"`
	Address       string      `json:"address"`
	Location      Coordinates `json:"location"`
	Weight        float64     `json:"weight"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	Status        string      `json:"status"`
}

// Stop statuses as reported by the ERP.
const (
	StopStatusDraft     = "draft"
	StopStatusReady     = "assigned"
	StopStatusDone      = "done"
	StopStatusCancelled = "cancel"
)
