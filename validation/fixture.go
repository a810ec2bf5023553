// Package validation checks the if97 engine against tabulated reference
// states and summarizes the relative error per region.
package validation

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/alexshd/if97"
)

//go:embed testdata/reference.yaml
var defaultFixture []byte

// FixtureVersion is the only fixture schema this package reads.
const FixtureVersion = 1

// ErrFixture is returned for malformed reference tables.
var ErrFixture = errors.New("validation: invalid fixture")

// Saturation query kinds.
const (
	QueryPressure    = "pressure"
	QueryTemperature = "temperature"
)

// Expected-value keys for single-phase cases.
var singlePhaseKeys = map[string]bool{
	"enthalpy": true, "entropy": true, "internal_energy": true, "density": true,
}

// Expected-value keys for saturation cases.
var saturationKeys = map[string]bool{
	"pressure": true, "temperature": true, "heat_of_vaporization": true,
	"liquid_enthalpy": true, "vapor_enthalpy": true,
	"liquid_entropy": true, "vapor_entropy": true,
	"liquid_internal_energy": true, "vapor_internal_energy": true,
	"liquid_density": true, "vapor_density": true,
}

// Case is one reference state.
type Case struct {
	Name        string             `yaml:"name" json:"name"`
	Pressure    float64            `yaml:"pressure_pa,omitempty" json:"pressure_pa,omitempty"`
	Temperature float64            `yaml:"temperature_k,omitempty" json:"temperature_k,omitempty"`
	Query       string             `yaml:"query,omitempty" json:"query,omitempty"`
	Source      string             `yaml:"source,omitempty" json:"source,omitempty"`
	Expected    map[string]float64 `yaml:"expected" json:"expected"`
}

// SourceOf returns where c's reference values come from, falling back to
// the table-wide source.
func (t *Table) SourceOf(c Case) string {
	if c.Source != "" {
		return c.Source
	}
	return t.Source
}

// Table is a versioned set of reference cases keyed by region name.
type Table struct {
	Version int               `yaml:"version"`
	Source  string            `yaml:"source"`
	Regions map[string][]Case `yaml:"regions"`
}

// Load decodes and validates a fixture. Unknown fields are rejected.
func Load(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFixture, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads a fixture from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded reference table.
func Default() (*Table, error) {
	return Load(bytes.NewReader(defaultFixture))
}

// Validate checks the schema version, region names and case shapes.
func (t *Table) Validate() error {
	if t.Version != FixtureVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrFixture, t.Version, FixtureVersion)
	}
	if len(t.Regions) == 0 {
		return fmt.Errorf("%w: no regions", ErrFixture)
	}

	for name, cases := range t.Regions {
		r, err := if97.ParseRegion(name)
		if err != nil || !(r.SinglePhase() || r == if97.SaturationLine) {
			return fmt.Errorf("%w: unknown region %q", ErrFixture, name)
		}
		for i, c := range cases {
			if err := c.validate(r); err != nil {
				return fmt.Errorf("%w: %s[%d] %q: %v", ErrFixture, name, i, c.Name, err)
			}
		}
	}
	return nil
}

func (c Case) validate(r if97.Region) error {
	if c.Name == "" {
		return errors.New("missing name")
	}
	if len(c.Expected) == 0 {
		return errors.New("no expected values")
	}

	keys := singlePhaseKeys
	if r == if97.SaturationLine {
		keys = saturationKeys
		switch c.Query {
		case QueryPressure:
			if c.Pressure <= 0 {
				return errors.New("pressure query without pressure_pa")
			}
		case QueryTemperature:
			if c.Temperature <= 0 {
				return errors.New("temperature query without temperature_k")
			}
		default:
			return fmt.Errorf("query must be %q or %q, got %q", QueryPressure, QueryTemperature, c.Query)
		}
	} else {
		if c.Query != "" {
			return errors.New("query is only valid for saturation cases")
		}
		if c.Pressure <= 0 || c.Temperature <= 0 {
			return errors.New("pressure_pa and temperature_k are required")
		}
		if _, err := if97.NewPTPoint(c.Pressure, c.Temperature); err != nil {
			return err
		}
	}

	for k, v := range c.Expected {
		if !keys[k] {
			return fmt.Errorf("unknown expected key %q", k)
		}
		if v == 0 {
			return fmt.Errorf("expected %s is zero; relative error is undefined", k)
		}
	}
	return nil
}

// Cases returns the cases for region r.
func (t *Table) Cases(r if97.Region) []Case {
	return t.Regions[r.String()]
}

// RegionsPresent lists the table's regions in declaration order.
func (t *Table) RegionsPresent() []if97.Region {
	var out []if97.Region
	for _, r := range if97.Regions {
		if len(t.Regions[r.String()]) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// Points returns the (P, T) inputs of every single-phase case. Validate
// has already checked each pair through if97.NewPTPoint.
func (t *Table) Points() []if97.PTPoint {
	var pts []if97.PTPoint
	for _, r := range t.RegionsPresent() {
		if !r.SinglePhase() {
			continue
		}
		for _, c := range t.Cases(r) {
			pts = append(pts, if97.PTPoint{Pressure: c.Pressure, Temperature: c.Temperature})
		}
	}
	return pts
}

// sortedKeys returns the expected keys in a stable order.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
