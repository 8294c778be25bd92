// Package zones attaches human-readable geographic labels to computed routes.
package zones

import (
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/geo"
	"fmt"
	"strings"
)

// Namer assigns a unique zone label to each route of a run.
type Namer struct {
	depot      domain.Coordinates
	classifier Classifier
	registry   Registry
}

// NewNamer creates a namer. A nil registry gets a fresh run-scoped one.
func NewNamer(depot domain.Coordinates, classifier Classifier, registry Registry) *Namer {
	if registry == nil {
		registry = NewRunRegistry()
	}
	return &Namer{depot: depot, classifier: classifier, registry: registry}
}

// Name returns the label for the route at index within the run and reserves it.
//
// The base label is the most frequent stop candidate (first seen wins ties),
// or "Zona N" when no stop yields one. Collisions get the direction of the
// route centroid from the depot, then an increasing counter.
func (n *Namer) Name(route domain.Route, index int) string {
	base := n.baseLabel(route, index)
	if n.registry.Reserve(base) {
		return base
	}

	label := base
	dir := Direction(n.depot, n.centroid(route))
	if !strings.HasSuffix(base, " "+dir) {
		label = base + " " + dir
		if n.registry.Reserve(label) {
			return label
		}
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s %d", label, i)
		if n.registry.Reserve(candidate) {
			return candidate
		}
	}
}

func (n *Namer) baseLabel(route domain.Route, index int) string {
	counts := make(map[string]int)
	order := make([]string, 0, len(route.Stops))

	for _, s := range route.Stops {
		label, ok := n.classifier.Classify(s)
		if !ok {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	if len(order) == 0 {
		// index is 0-based; the fallback label is 1-based, so route 0 is "Zona 1".
		return fmt.Sprintf("Zona %d", index+1)
	}

	best := order[0]
	for _, label := range order[1:] {
		// Strict comparison keeps the first-seen label on ties.
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}

// centroid of the located stops; the depot when none are located.
func (n *Namer) centroid(route domain.Route) domain.Coordinates {
	points := make([]domain.Coordinates, 0, len(route.Stops))
	for _, s := range route.Stops {
		if !s.Location.IsZero() {
			points = append(points, s.Location)
		}
	}
	if len(points) == 0 {
		return n.depot
	}
	return geo.Centroid(points)
}
