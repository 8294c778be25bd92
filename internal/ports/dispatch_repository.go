package ports

import (
	"context"
	"dispatch-planner/internal/domain"
	"time"
)

// Port: a boundary for reading the upstream dispatch snapshot.
type DispatchRepository interface {
	// Return every stop scheduled on the given day, ordered by id.
	ListStops(ctx context.Context, date time.Time) ([]domain.Stop, error)
	// Return the fleet roster, ordered by id.
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	Ping(ctx context.Context) error
}
