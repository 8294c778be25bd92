package services

import (
	"context"
	"dispatch-planner/internal/domain"
)

// Names of the allocation strategies accepted by the optimizer.
const (
	AlgorithmGeographic   = "geographic"
	AlgorithmClarkeWright = "clarke-wright"
	AlgorithmNearest      = "nearest"
)

// Strategy assigns stops to vehicles and produces one route per used vehicle.
//
// Vehicles arrive with their effective capacity already applied. Strategies
// must not mutate the input slices and must honor ctx cancellation in their
// outer loops.
type Strategy interface {
	Name() string
	Assign(
		ctx context.Context,
		depot domain.Coordinates,
		stops []domain.Stop,
		vehicles []domain.Vehicle,
		capacity float64,
	) (*Assignment, error)
}

// Assignment is the raw output of a strategy, before zone naming.
type Assignment struct {
	Routes []domain.Route
	// Dropped holds routes that were built but could not be bound to a vehicle.
	// Their stops count as unassigned.
	Dropped []domain.Route
}

// DefaultStrategies returns the three built-in strategies keyed by name.
func DefaultStrategies() map[string]Strategy {
	strategies := []Strategy{
		&GeographicClustering{Order: FarthestFirst},
		&ClarkeWrightSavings{},
		&NearestNeighborConstruction{},
	}

	out := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		out[s.Name()] = s
	}
	return out
}
