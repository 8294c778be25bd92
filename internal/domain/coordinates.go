package domain

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DefaultDepot is the warehouse every route starts from and returns to.
var DefaultDepot = Coordinates{Lat: 47.3769, Lon: 8.5417}

// IsZero reports whether both components are unset.
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lon == 0 }
