package if97

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownUnit is returned for unit tags the converter does not know or
// that belong to a different dimension than requested.
var ErrUnknownUnit = errors.New("if97: unknown unit")

// Unit is a unit tag attached to a magnitude.
type Unit string

const (
	Pascal     Unit = "Pa"
	Kilopascal Unit = "kPa"
	Megapascal Unit = "MPa"
	Bar        Unit = "bar"
	Atmosphere Unit = "atm"
	PSI        Unit = "psi"

	Kelvin     Unit = "K"
	Celsius    Unit = "degC"
	Fahrenheit Unit = "degF"
	Rankine    Unit = "degR"

	KilojoulePerKilogram Unit = "kJ/kg"
	JoulePerKilogram     Unit = "J/kg"

	KilojoulePerKilogramKelvin Unit = "kJ/(kg·K)"
	JoulePerKilogramKelvin     Unit = "J/(kg·K)"

	KilogramPerCubicMetre  Unit = "kg/m³"
	GramPerCubicCentimetre Unit = "g/cm³"
)

// Dimension is the physical dimension a Quantity is expected to carry.
type Dimension int

const (
	DimPressure Dimension = iota + 1
	DimTemperature
	DimSpecificEnergy
	DimSpecificEntropy
	DimDensity
)

func (d Dimension) String() string {
	switch d {
	case DimPressure:
		return "pressure"
	case DimTemperature:
		return "temperature"
	case DimSpecificEnergy:
		return "specific energy"
	case DimSpecificEntropy:
		return "specific entropy"
	case DimDensity:
		return "density"
	default:
		return "unknown"
	}
}

// Canonical returns the unit the engine computes in for d.
func (d Dimension) Canonical() Unit {
	switch d {
	case DimPressure:
		return Pascal
	case DimTemperature:
		return Kelvin
	case DimSpecificEnergy:
		return KilojoulePerKilogram
	case DimSpecificEntropy:
		return KilojoulePerKilogramKelvin
	case DimDensity:
		return KilogramPerCubicMetre
	default:
		return ""
	}
}

// Quantity is an immutable magnitude with its unit tag.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Q is shorthand for Quantity{Value: v, Unit: u}.
func Q(v float64, u Unit) Quantity { return Quantity{Value: v, Unit: u} }

func (q Quantity) String() string {
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + string(q.Unit)
}

// Converter normalizes caller-supplied quantities to the engine's canonical
// units and back. The engine receives one through Config, so callers can
// swap in a full dimensional-analysis layer.
type Converter interface {
	ToCanonical(q Quantity, dim Dimension) (float64, error)
	FromCanonical(v float64, dim Dimension, to Unit) (Quantity, error)
}

// linearUnit maps a unit onto its canonical unit: canonical = v·scale + offset.
type linearUnit struct {
	dim    Dimension
	scale  float64
	offset float64
}

var standardTable = map[Unit]linearUnit{
	Pascal:     {DimPressure, 1, 0},
	Kilopascal: {DimPressure, 1e3, 0},
	Megapascal: {DimPressure, 1e6, 0},
	Bar:        {DimPressure, 1e5, 0},
	Atmosphere: {DimPressure, 101325, 0},
	PSI:        {DimPressure, 6894.757293168361, 0},

	Kelvin:     {DimTemperature, 1, 0},
	Celsius:    {DimTemperature, 1, 273.15},
	Fahrenheit: {DimTemperature, 5.0 / 9.0, 273.15 - 32*5.0/9.0},
	Rankine:    {DimTemperature, 5.0 / 9.0, 0},

	KilojoulePerKilogram: {DimSpecificEnergy, 1, 0},
	JoulePerKilogram:     {DimSpecificEnergy, 1e-3, 0},

	KilojoulePerKilogramKelvin: {DimSpecificEntropy, 1, 0},
	JoulePerKilogramKelvin:     {DimSpecificEntropy, 1e-3, 0},

	KilogramPerCubicMetre:  {DimDensity, 1, 0},
	GramPerCubicCentimetre: {DimDensity, 1e3, 0},
}

// StandardUnits converts the fixed set of linear units declared in this
// package.
type StandardUnits struct{}

func (StandardUnits) lookup(u Unit, dim Dimension) (linearUnit, error) {
	lu, ok := standardTable[u]
	if !ok {
		return linearUnit{}, fmt.Errorf("%w %q", ErrUnknownUnit, u)
	}
	if lu.dim != dim {
		return linearUnit{}, fmt.Errorf("%w %q for %s (it measures %s)", ErrUnknownUnit, u, dim, lu.dim)
	}
	return lu, nil
}

// ToCanonical implements Converter.
func (s StandardUnits) ToCanonical(q Quantity, dim Dimension) (float64, error) {
	lu, err := s.lookup(q.Unit, dim)
	if err != nil {
		return 0, err
	}
	return q.Value*lu.scale + lu.offset, nil
}

// FromCanonical implements Converter.
func (s StandardUnits) FromCanonical(v float64, dim Dimension, to Unit) (Quantity, error) {
	lu, err := s.lookup(to, dim)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: (v - lu.offset) / lu.scale, Unit: to}, nil
}

var unitAliases = map[string]Unit{
	"pa": Pascal, "kpa": Kilopascal, "mpa": Megapascal, "bar": Bar, "atm": Atmosphere, "psi": PSI,
	"k": Kelvin, "c": Celsius, "°c": Celsius, "degc": Celsius,
	"f": Fahrenheit, "°f": Fahrenheit, "degf": Fahrenheit,
	"r": Rankine, "°r": Rankine, "degr": Rankine,
	"kj/kg": KilojoulePerKilogram, "j/kg": JoulePerKilogram,
	"kg/m3": KilogramPerCubicMetre, "kg/m³": KilogramPerCubicMetre,
	"g/cm3": GramPerCubicCentimetre, "g/cm³": GramPerCubicCentimetre,
}

// ParseUnit resolves a unit tag or one of its common spellings
// ("MPa", "mpa", "C", "°C", "degC").
func ParseUnit(s string) (Unit, error) {
	if u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return u, nil
	}
	if _, ok := standardTable[Unit(s)]; ok {
		return Unit(s), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownUnit, s)
}

// ParseQuantity parses strings such as "10MPa", "500 K", "226.85C" or
// "1e5". A bare number takes the unit def.
func ParseQuantity(s string, def Unit) (Quantity, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && strings.IndexByte("0123456789.+-eE", s[end]) >= 0 {
		end++
	}
	// A trailing 'e'/'E' with no exponent digits belongs to no number; back off.
	for end > 0 && (s[end-1] == 'e' || s[end-1] == 'E') {
		end--
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("if97: bad quantity %q: %w", s, err)
	}

	tag := strings.TrimSpace(s[end:])
	if tag == "" {
		return Quantity{Value: v, Unit: def}, nil
	}
	u, err := ParseUnit(tag)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: u}, nil
}
