package zones

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PostalRange maps an inclusive range of Swiss postal codes to a zone label.
type PostalRange struct {
	From int    `yaml:"from"`
	To   int    `yaml:"to"`
	Zone string `yaml:"zone"`
}

// PostalTable is an ordered list of postal ranges; the first matching range wins.
type PostalTable struct {
	Ranges []PostalRange `yaml:"ranges"`
}

// DefaultPostalTable returns the built-in approximation of the Swiss postal areas served.
func DefaultPostalTable() PostalTable {
	return PostalTable{Ranges: []PostalRange{
		{From: 8000, To: 8099, Zone: "Zurigo"},
		{From: 8400, To: 8499, Zone: "Winterthur"},
		{From: 4000, To: 4999, Zone: "Basilea"},
		{From: 3000, To: 3099, Zone: "Berna"},
		{From: 1200, To: 1299, Zone: "Ginevra"},
		{From: 1000, To: 1099, Zone: "Losanna"},
		{From: 6000, To: 6099, Zone: "Lucerna"},
		{From: 6900, To: 6999, Zone: "Lugano"},
		{From: 6500, To: 6599, Zone: "Bellinzona"},
		{From: 6600, To: 6699, Zone: "Locarno"},
		{From: 9000, To: 9099, Zone: "San Gallo"},
		{From: 2500, To: 2599, Zone: "Bienne"},
		{From: 7000, To: 7099, Zone: "Coira"},
	}}
}

// LoadPostalTable reads a YAML postal table from path.
func LoadPostalTable(path string) (PostalTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PostalTable{}, fmt.Errorf("load postal table: read %q: %w", path, err)
	}

	var t PostalTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return PostalTable{}, fmt.Errorf("load postal table: parse yaml: %w", err)
	}

	if err := t.Validate(); err != nil {
		return PostalTable{}, fmt.Errorf("load postal table %q: %w", path, err)
	}
	return t, nil
}

// Validate checks that every range is well-formed.
func (t PostalTable) Validate() error {
	if len(t.Ranges) == 0 {
		return errors.New("postal table has no ranges")
	}
	for i, r := range t.Ranges {
		if strings.TrimSpace(r.Zone) == "" {
			return fmt.Errorf("range #%d: zone must be non-empty", i+1)
		}
		if r.From < 1000 || r.To > 9999 || r.From > r.To {
			return fmt.Errorf("range #%d (%s): invalid bounds %d-%d", i+1, r.Zone, r.From, r.To)
		}
	}
	return nil
}

// Lookup returns the zone for a postal code.
func (t PostalTable) Lookup(code int) (string, bool) {
	for _, r := range t.Ranges {
		if code >= r.From && code <= r.To {
			return r.Zone, true
		}
	}
	return "", false
}
