package zones

import (
	"dispatch-planner/internal/domain"
	"dispatch-planner/internal/geo"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Classifier derives a geographic label candidate for a single stop.
// Implementations may be heuristic (DefaultClassifier) or backed by a
// reverse-geocoding service; the namer only depends on this contract.
type Classifier interface {
	Classify(s domain.Stop) (label string, ok bool)
}

// Bounds of the finer-grained Zurich classification, relative to the depot.
const (
	zurichLatSpan   = 0.06
	zurichLonSpan   = 0.09
	centroRadiusKm  = 1.5
	lakeMinLatShift = -0.008
	lakeMaxLonShift = 0.05
)

var (
	postalCodeRe  = regexp.MustCompile(`\b(\d{4})\b`)
	postalTokenRe = regexp.MustCompile(`^(?i:ch-)?\d{4}$`)

	countryTokens = map[string]struct{}{
		"svizzera":    {},
		"schweiz":     {},
		"suisse":      {},
		"switzerland": {},
		"ch":          {},
	}
)

// DefaultClassifier labels a stop by, in order: the city in the trailing
// address segment, the postal code range table, and the position relative
// to the depot.
type DefaultClassifier struct {
	Depot  domain.Coordinates
	Postal PostalTable
}

func NewDefaultClassifier(depot domain.Coordinates, table PostalTable) *DefaultClassifier {
	return &DefaultClassifier{Depot: depot, Postal: table}
}

func (c *DefaultClassifier) Classify(s domain.Stop) (string, bool) {
	if city, ok := cityFromAddress(s.Address); ok {
		return city, true
	}

	if code, ok := postalCode(s.Address); ok {
		if zone, ok := c.Postal.Lookup(code); ok {
			return zone, true
		}
	}

	if s.Location.IsZero() {
		return "", false
	}
	return quadrant(c.Depot, s.Location), true
}

// cityFromAddress extracts the city from "street, [zip] city[, country]".
// Addresses without a comma carry no city segment.
func cityFromAddress(address string) (string, bool) {
	segments := strings.Split(address, ",")
	if len(segments) < 2 {
		return "", false
	}

	for i := len(segments) - 1; i >= 1; i-- {
		fields := strings.Fields(segments[i])
		words := make([]string, 0, len(fields))
		for _, f := range fields {
			if postalTokenRe.MatchString(f) {
				continue
			}
			words = append(words, f)
		}

		city := strings.Join(words, " ")
		if _, isCountry := countryTokens[strings.ToLower(city)]; isCountry {
			continue
		}
		if !hasLetter(city) {
			return "", false
		}
		return city, true
	}
	return "", false
}

// postalCode returns the last 4-digit group found in the address.
func postalCode(address string) (int, bool) {
	matches := postalCodeRe.FindAllString(address, -1)
	if len(matches) == 0 {
		return 0, false
	}

	code, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil || code < 1000 {
		return 0, false
	}
	return code, true
}

func quadrant(depot, p domain.Coordinates) string {
	dLat := p.Lat - depot.Lat
	dLon := p.Lon - depot.Lon

	if math.Abs(dLat) <= zurichLatSpan && math.Abs(dLon) <= zurichLonSpan {
		switch {
		case geo.Distance(depot, p) <= centroRadiusKm:
			return "Zurigo Centro"
		case dLat < lakeMinLatShift && dLon > 0 && dLon <= lakeMaxLonShift:
			return "Zurigo Lago"
		}
		return "Zurigo " + Direction(depot, p)
	}

	ns := "Nord"
	if dLat < 0 {
		ns = "Sud"
	}
	ew := "Est"
	if dLon < 0 {
		ew = "Ovest"
	}
	return "Zona " + ns + "-" + ew
}

// Direction returns the dominant compass direction of p as seen from origin.
// Longitude offsets are scaled by cos(latitude) so both axes are comparable.
func Direction(origin, p domain.Coordinates) string {
	dLat := p.Lat - origin.Lat
	dLon := (p.Lon - origin.Lon) * math.Cos(origin.Lat*math.Pi/180)

	switch {
	case dLat == 0 && dLon == 0:
		return "Centro"
	case math.Abs(dLat) >= math.Abs(dLon):
		if dLat > 0 {
			return "Nord"
		}
		return "Sud"
	case dLon > 0:
		return "Est"
	default:
		return "Ovest"
	}
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
