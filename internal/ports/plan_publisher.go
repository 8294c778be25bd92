package ports

import (
	"context"
	"dispatch-planner/internal/domain"
)

// Contract for handing a finished plan to downstream consumers.
type PlanPublisher interface {
	Publish(ctx context.Context, plan domain.Plan) error
}
