// Package geo provides the great-circle metric used for every routing decision.
//
// Distances are spherical approximations, not road-network distances.
package geo

import (
	"dispatch-planner/internal/domain"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Distance returns the haversine distance between a and b in kilometers.
func Distance(a, b domain.Coordinates) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// ClosedTour returns the length of depot -> points[0] -> ... -> points[n-1] -> depot.
// An empty tour has zero length.
func ClosedTour(depot domain.Coordinates, points []domain.Coordinates) float64 {
	if len(points) == 0 {
		return 0
	}

	total := 0.0
	current := depot
	for _, p := range points {
		total += Distance(current, p)
		current = p
	}
	return total + Distance(current, depot)
}

// Centroid returns the arithmetic mean of the points' latitude and longitude.
// The zero value is returned for an empty slice.
func Centroid(points []domain.Coordinates) domain.Coordinates {
	if len(points) == 0 {
		return domain.Coordinates{}
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return domain.Coordinates{Lat: lat / n, Lon: lon / n}
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
