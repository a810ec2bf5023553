package if97

import (
	"fmt"
	"strings"
)

// DefaultSaturationTolerance is the absolute pressure band (Pa) around
// Psat(T) inside which a (P, T) point is treated as lying on the
// saturation line.
const DefaultSaturationTolerance = 1.0

// Config controls an Engine. Zero fields take the DefaultConfig value.
type Config struct {
	// SaturationTolerance is the absolute band (Pa) around Psat(T)
	// classified as SaturationLine.
	SaturationTolerance float64

	// SaturationMethod selects the closed-form or the iterative solve.
	SaturationMethod SaturationMethod

	// SaturationResidual is the relative round-trip residual above which an
	// explicit saturation result is refined iteratively.
	SaturationResidual float64

	RootTolerance   float64 // Root finder tolerance, relative to the bracket magnitude
	MaxIterations   int     // Root finder iteration cap
	MaxBracketSteps int     // Bracket scan/expansion step cap

	Sink  Sink      // Diagnostics hook (default: NopSink)
	Units Converter // Unit normalization (default: StandardUnits)
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		SaturationTolerance: DefaultSaturationTolerance,
		SaturationMethod:    MethodExplicit,
		SaturationResidual:  1e-9,
		RootTolerance:       1e-12,
		MaxIterations:       100,
		MaxBracketSteps:     500,
		Sink:                NopSink{},
		Units:               StandardUnits{},
	}
}

// Engine evaluates IF97 properties. It holds no mutable state after New
// and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New returns an Engine configured by cfg.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.SaturationTolerance <= 0 {
		cfg.SaturationTolerance = def.SaturationTolerance
	}
	if cfg.SaturationResidual <= 0 {
		cfg.SaturationResidual = def.SaturationResidual
	}
	if cfg.RootTolerance <= 0 {
		cfg.RootTolerance = def.RootTolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.MaxBracketSteps <= 0 {
		cfg.MaxBracketSteps = def.MaxBracketSteps
	}
	if cfg.Sink == nil {
		cfg.Sink = def.Sink
	}
	if cfg.Units == nil {
		cfg.Units = def.Units
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) emit(ev Event) { e.cfg.Sink.OnEvent(ev) }

// Property names one of the single-phase outputs.
type Property int

const (
	Enthalpy Property = iota + 1
	Entropy
	InternalEnergy
	Density
)

// AllProperties lists every Property in output order.
var AllProperties = []Property{Enthalpy, Entropy, InternalEnergy, Density}

func (k Property) String() string {
	switch k {
	case Enthalpy:
		return "enthalpy"
	case Entropy:
		return "entropy"
	case InternalEnergy:
		return "internal_energy"
	case Density:
		return "density"
	default:
		return fmt.Sprintf("property(%d)", int(k))
	}
}

// Dimension returns the physical dimension of k.
func (k Property) Dimension() Dimension {
	switch k {
	case Enthalpy, InternalEnergy:
		return DimSpecificEnergy
	case Entropy:
		return DimSpecificEntropy
	case Density:
		return DimDensity
	default:
		return 0
	}
}

// ParseProperty accepts the full names and the usual symbols h, s, u, rho.
func ParseProperty(s string) (Property, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "enthalpy":
		return Enthalpy, nil
	case "s", "entropy":
		return Entropy, nil
	case "u", "internal_energy", "internal-energy", "energy":
		return InternalEnergy, nil
	case "rho", "d", "density":
		return Density, nil
	default:
		return 0, fmt.Errorf("if97: unknown property %q", s)
	}
}

// Properties is the full single-phase result at one point, in canonical
// units: kJ/kg, kJ/(kg·K) and kg/m³.
type Properties struct {
	Point          PTPoint
	Region         Region
	Enthalpy       Quantity
	Entropy        Quantity
	InternalEnergy Quantity
	Density        Quantity
}

// Get returns the named property.
func (p Properties) Get(k Property) Quantity {
	switch k {
	case Enthalpy:
		return p.Enthalpy
	case Entropy:
		return p.Entropy
	case InternalEnergy:
		return p.InternalEnergy
	case Density:
		return p.Density
	default:
		return Quantity{}
	}
}

// state is an evaluator's raw output in canonical units.
type state struct {
	p, t float64 // Pa, K
	rho  float64 // kg/m³
	h, s float64 // kJ/kg, kJ/(kg·K)
	u    float64 // kJ/kg
}

func (st state) properties(r Region) Properties {
	return Properties{
		Point:          PTPoint{Pressure: st.p, Temperature: st.t},
		Region:         r,
		Enthalpy:       Q(st.h, KilojoulePerKilogram),
		Entropy:        Q(st.s, KilojoulePerKilogramKelvin),
		InternalEnergy: Q(st.u, KilojoulePerKilogram),
		Density:        Q(st.rho, KilogramPerCubicMetre),
	}
}

// normalize converts caller quantities to Pa and K.
func (e *Engine) normalize(p, t Quantity) (float64, float64, error) {
	pv, err := e.cfg.Units.ToCanonical(p, DimPressure)
	if err != nil {
		return 0, 0, err
	}
	tv, err := e.cfg.Units.ToCanonical(t, DimTemperature)
	if err != nil {
		return 0, 0, err
	}
	return pv, tv, nil
}

// Classify assigns a region to (p, t) using the engine's saturation
// tolerance. The error, when present, explains why the point has no
// single-phase correlation.
func (e *Engine) Classify(p, t Quantity) (Region, error) {
	pv, tv, err := e.normalize(p, t)
	if err != nil {
		return OutOfRange, err
	}
	return e.ClassifySI(pv, tv)
}

// ClassifySI is Classify for values already in Pa and K.
func (e *Engine) ClassifySI(p, t float64) (Region, error) {
	r, err := e.classify(p, t)
	e.emit(Event{Type: EventRegionAssigned, Region: r, Pressure: p, Temperature: t, Err: err})
	return r, err
}

func (e *Engine) classify(p, t float64) (Region, error) {
	if err := CheckDomain(p, t); err != nil {
		return OutOfRange, err
	}
	if err := e.guardCritical(p, t); err != nil {
		return CriticalSingularity, err
	}
	return phaseRegion(p, t, e.cfg.SaturationTolerance)
}

// Properties evaluates every single-phase property at (p, t).
func (e *Engine) Properties(p, t Quantity) (Properties, error) {
	pv, tv, err := e.normalize(p, t)
	if err != nil {
		return Properties{}, err
	}
	return e.PropertiesSI(pv, tv)
}

// PropertiesSI is Properties for values already in Pa and K.
func (e *Engine) PropertiesSI(p, t float64) (Properties, error) {
	r, err := e.ClassifySI(p, t)
	if err != nil {
		return Properties{Region: r}, err
	}
	st, err := e.evaluate(p, t, r)
	if err != nil {
		return Properties{Region: r}, err
	}
	return st.properties(r), nil
}

// evaluate dispatches to the region's correlation.
func (e *Engine) evaluate(p, t float64, r Region) (state, error) {
	switch r {
	case CompressedLiquid:
		return region1(p, t), nil
	case SuperheatedVapor:
		return region2(p, t), nil
	case DenseSupercritical:
		rho, err := e.region3Density(p, t, liquidLike(p, t))
		if err != nil {
			return state{}, err
		}
		st := region3(rho, t)
		st.p = p
		return st, nil
	case SaturationLine, OutOfRange, CriticalSingularity:
		return state{}, &PreconditionError{
			Op:     "evaluate",
			Detail: "no single-phase correlation for region " + r.String(),
		}
	default:
		return state{}, &PreconditionError{Op: "evaluate", Detail: "unknown region " + r.String()}
	}
}

// Property evaluates one property at (p, t), converted to unit. An empty
// unit returns the canonical unit.
func (e *Engine) Property(k Property, p, t Quantity, unit Unit) (Quantity, error) {
	props, err := e.Properties(p, t)
	if err != nil {
		return Quantity{}, err
	}
	q := props.Get(k)
	if q.Unit == "" {
		return Quantity{}, fmt.Errorf("if97: unknown property %v", k)
	}
	if unit == "" || unit == q.Unit {
		return q, nil
	}
	return e.cfg.Units.FromCanonical(q.Value, k.Dimension(), unit)
}

// Enthalpy returns h(p, t) in kJ/kg.
func (e *Engine) Enthalpy(p, t Quantity) (Quantity, error) {
	return e.Property(Enthalpy, p, t, "")
}

// Entropy returns s(p, t) in kJ/(kg·K).
func (e *Engine) Entropy(p, t Quantity) (Quantity, error) {
	return e.Property(Entropy, p, t, "")
}

// InternalEnergy returns u(p, t) in kJ/kg.
func (e *Engine) InternalEnergy(p, t Quantity) (Quantity, error) {
	return e.Property(InternalEnergy, p, t, "")
}

// Density returns ρ(p, t) in kg/m³.
func (e *Engine) Density(p, t Quantity) (Quantity, error) {
	return e.Property(Density, p, t, "")
}
