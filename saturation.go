package if97

import (
	"fmt"
	"math"
)

// Region 4: the saturation line, from the implicit quadratic
// β²ϑ² + n₁β²ϑ + n₂β² + n₃βϑ² + n₄βϑ + n₅β + n₆ϑ² + n₇ϑ + n₈ = 0
// with β = (Psat/1 MPa)^¼ and ϑ = T/1 K + n₉/(T/1 K − n₁₀). Both explicit
// forms below are exact inverses of each other.
var region4 = [11]float64{
	0, // 1-based, to match the published numbering
	0.11670521452767e4, -0.72421316703206e6, -0.17073846940092e2,
	0.12020824702470e5, -0.32325550322333e7, 0.14915108613530e2,
	-0.48232657361591e4, 0.40511340542057e6, -0.23855557567849,
	0.65017534844798e3,
}

// saturationPressure returns Psat(t) in Pa without range checks.
func saturationPressure(t float64) float64 {
	n := &region4
	theta := t + n[9]/(t-n[10])
	a := Horner([]float64{1, n[1], n[2]}, theta)
	b := Horner([]float64{n[3], n[4], n[5]}, theta)
	c := Horner([]float64{n[6], n[7], n[8]}, theta)
	x := 2 * c / (-b + math.Sqrt(b*b-4*a*c))
	return Powi(x, 4) * 1e6
}

// saturationTemperature returns Tsat(p) in K without range checks. The
// fractional power and the square roots fail loudly outside the curve.
func saturationTemperature(p float64) (float64, error) {
	n := &region4
	beta, err := SafePow(p/1e6, 0.25)
	if err != nil {
		return 0, err
	}
	e := Horner([]float64{1, n[3], n[6]}, beta)
	f := Horner([]float64{n[1], n[4], n[7]}, beta)
	g := Horner([]float64{n[2], n[5], n[8]}, beta)

	disc, err := SafeSqrt(f*f - 4*e*g)
	if err != nil {
		return 0, err
	}
	d := 2 * g / (-f - disc)

	root, err := SafeSqrt((n[10]+d)*(n[10]+d) - 4*(n[9]+n[10]*d))
	if err != nil {
		return 0, err
	}
	return (n[10] + d - root) / 2, nil
}

// SaturationPressure returns Psat(t) in Pa for t between the triple and the
// critical temperature.
func SaturationPressure(t float64) (float64, error) {
	if !isFinite(t) || t < TripleTemperature || t > CriticalTemperature {
		return 0, &InputRangeError{
			Parameter: "temperature", Value: t,
			Min: TripleTemperature, Max: CriticalTemperature, Unit: string(Kelvin),
		}
	}
	return saturationPressure(t), nil
}

// SaturationTemperature returns Tsat(p) in K for p between the triple and
// the critical pressure. The result always lies in [TripleTemperature,
// CriticalTemperature], so it can be fed back to SaturationPressure.
func SaturationTemperature(p float64) (float64, error) {
	if !isFinite(p) || p < TriplePressure || p > CriticalPressure {
		return 0, &InputRangeError{
			Parameter: "pressure", Value: p,
			Min: TriplePressure, Max: CriticalPressure, Unit: string(Pascal),
		}
	}
	t, err := saturationTemperature(p)
	if err != nil {
		return 0, err
	}
	return clampSaturationTemperature(t), nil
}

// clampSaturationTemperature pulls a solved Tsat back onto the curve's
// temperature range. The explicit inverse lands a few ULPs below the triple
// temperature at the triple pressure.
func clampSaturationTemperature(t float64) float64 {
	return Clamp(t, TripleTemperature, CriticalTemperature)
}

// SaturationMethod selects how the engine solves the saturation line.
type SaturationMethod int

const (
	// MethodExplicit uses the closed-form equations and refines only when
	// the round-trip residual exceeds Config.SaturationResidual.
	MethodExplicit SaturationMethod = iota
	// MethodIterative always refines the explicit estimate with FindRoot.
	MethodIterative
)

func (m SaturationMethod) String() string {
	switch m {
	case MethodExplicit:
		return "explicit"
	case MethodIterative:
		return "iterative"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseSaturationMethod is the inverse of SaturationMethod.String.
func ParseSaturationMethod(s string) (SaturationMethod, error) {
	switch s {
	case "explicit", "":
		return MethodExplicit, nil
	case "iterative":
		return MethodIterative, nil
	default:
		return 0, fmt.Errorf("if97: unknown saturation method %q", s)
	}
}

// Phase holds the properties of one coexisting phase.
type Phase struct {
	Region         Region // correlation the phase was evaluated with
	Enthalpy       Quantity
	Entropy        Quantity
	InternalEnergy Quantity
	Density        Quantity
}

// Get returns the named property of the phase.
func (ph Phase) Get(k Property) Quantity {
	switch k {
	case Enthalpy:
		return ph.Enthalpy
	case Entropy:
		return ph.Entropy
	case InternalEnergy:
		return ph.InternalEnergy
	case Density:
		return ph.Density
	default:
		return Quantity{}
	}
}

func phaseOf(st state, r Region) Phase {
	p := st.properties(r)
	return Phase{
		Region:         r,
		Enthalpy:       p.Enthalpy,
		Entropy:        p.Entropy,
		InternalEnergy: p.InternalEnergy,
		Density:        p.Density,
	}
}

// SaturationState is a point on the coexistence curve with both phases.
type SaturationState struct {
	Pressure           Quantity // Pa
	Temperature        Quantity // K
	Liquid             Phase
	Vapor              Phase
	HeatOfVaporization Quantity // h_vapor − h_liquid, kJ/kg
	Method             SaturationMethod
	Iterations         int // refinement iterations, 0 when the explicit form sufficed
}

// SaturationQuery names exactly one of pressure or temperature.
type SaturationQuery struct {
	Pressure    *Quantity
	Temperature *Quantity
}

// AtPressure builds a pressure-keyed query.
func AtPressure(p Quantity) SaturationQuery { return SaturationQuery{Pressure: &p} }

// AtTemperature builds a temperature-keyed query.
func AtTemperature(t Quantity) SaturationQuery { return SaturationQuery{Temperature: &t} }

// Saturation dispatches q to SaturationAtPressure or SaturationAtTemperature.
func (e *Engine) Saturation(q SaturationQuery) (SaturationState, error) {
	switch {
	case q.Pressure != nil && q.Temperature != nil:
		return SaturationState{}, &PreconditionError{
			Op: "saturation", Detail: "query sets both pressure and temperature; set exactly one",
		}
	case q.Pressure != nil:
		return e.SaturationAtPressure(*q.Pressure)
	case q.Temperature != nil:
		return e.SaturationAtTemperature(*q.Temperature)
	default:
		return SaturationState{}, &PreconditionError{
			Op: "saturation", Detail: "query sets neither pressure nor temperature",
		}
	}
}

// SaturationAtPressure solves Tsat(p) and evaluates both phases.
func (e *Engine) SaturationAtPressure(p Quantity) (SaturationState, error) {
	pv, err := e.cfg.Units.ToCanonical(p, DimPressure)
	if err != nil {
		return SaturationState{}, err
	}
	if !isFinite(pv) || pv < TriplePressure || pv > CriticalPressure {
		return SaturationState{}, &InputRangeError{
			Parameter: "pressure", Value: pv,
			Min: TriplePressure, Max: CriticalPressure, Unit: string(Pascal),
		}
	}

	tv, err := saturationTemperature(pv)
	if err != nil {
		return SaturationState{}, err
	}
	tv = clampSaturationTemperature(tv)
	if err := e.guardCritical(pv, tv); err != nil {
		return SaturationState{}, err
	}

	residual := func(t float64) float64 { return saturationPressure(t) - pv }
	var iters int
	if e.needsRefinement(residual(tv), pv) {
		root, err := e.refine(residual, tv, 0.01,
			Bracket{Lo: MinTemperature, Hi: CriticalTemperature},
			pv, tv, solverSaturationTemperature)
		if err != nil {
			return SaturationState{}, err
		}
		tv, iters = clampSaturationTemperature(root.X), root.Iterations
	}
	return e.saturationState(pv, tv, iters)
}

// SaturationAtTemperature solves Psat(t) and evaluates both phases.
func (e *Engine) SaturationAtTemperature(t Quantity) (SaturationState, error) {
	tv, err := e.cfg.Units.ToCanonical(t, DimTemperature)
	if err != nil {
		return SaturationState{}, err
	}
	pv, err := SaturationPressure(tv)
	if err != nil {
		return SaturationState{}, err
	}
	if err := e.guardCritical(pv, tv); err != nil {
		return SaturationState{}, err
	}

	residual := func(p float64) float64 {
		ts, err := saturationTemperature(p)
		if err != nil {
			return math.NaN()
		}
		return ts - tv
	}
	var iters int
	if e.needsRefinement(residual(pv), tv) {
		root, err := e.refine(residual, pv, pv*1e-4,
			Bracket{Lo: saturationPressure(MinTemperature), Hi: CriticalPressure},
			pv, tv, solverSaturationPressure)
		if err != nil {
			return SaturationState{}, err
		}
		pv, iters = root.X, root.Iterations
	}
	return e.saturationState(pv, tv, iters)
}

// needsRefinement reports whether the explicit estimate must be polished.
func (e *Engine) needsRefinement(residual, scale float64) bool {
	if e.cfg.SaturationMethod == MethodIterative {
		return true
	}
	return !isFinite(residual) || math.Abs(residual) > e.cfg.SaturationResidual*scale
}

// refine brackets the root of f around seed and solves it with FindRoot.
func (e *Engine) refine(f func(float64) float64, seed, halfWidth float64, limits Bracket, p, t float64, solver string) (Root, error) {
	fail := func(err error) (Root, error) {
		e.emit(Event{
			Type: EventConvergenceFailed, Region: SaturationLine,
			Pressure: p, Temperature: t, Solver: solver, Err: err,
		})
		return Root{}, err
	}

	b, err := ExpandBracket(f, Bracket{Lo: seed - halfWidth, Hi: seed + halfWidth}, limits, e.cfg.MaxBracketSteps)
	if err != nil {
		return fail(err)
	}
	root, err := FindRoot(f, b, e.cfg.RootTolerance*math.Abs(seed), e.cfg.MaxIterations)
	if err != nil {
		return fail(err)
	}
	e.emit(Event{
		Type: EventConvergence, Region: SaturationLine,
		Pressure: p, Temperature: t, Solver: solver,
		Iterations: root.Iterations, Residual: root.Residual,
	})
	return root, nil
}

// saturationState evaluates both phases at (p, t) on the saturation line.
// Up to 623.15 K the liquid comes from region 1 and the vapour from
// region 2; above it both are region 3 density branches.
func (e *Engine) saturationState(p, t float64, iters int) (SaturationState, error) {
	var (
		liquid, vapor state
		lr, vr        Region
	)
	if t <= BoundaryTemperature13 {
		liquid, lr = region1(p, t), CompressedLiquid
		vapor, vr = region2(p, t), SuperheatedVapor
	} else {
		rl, err := e.region3Density(p, t, true)
		if err != nil {
			return SaturationState{}, err
		}
		rv, err := e.region3Density(p, t, false)
		if err != nil {
			return SaturationState{}, err
		}
		liquid, lr = region3(rl, t), DenseSupercritical
		vapor, vr = region3(rv, t), DenseSupercritical
		liquid.p, vapor.p = p, p
	}

	if err := checkPhaseOrdering(liquid, vapor, p, t); err != nil {
		e.emit(Event{Type: EventSaturation, Region: SaturationLine, Pressure: p, Temperature: t, Err: err})
		return SaturationState{}, err
	}

	e.emit(Event{
		Type: EventSaturation, Region: SaturationLine,
		Pressure: p, Temperature: t, Iterations: iters,
	})
	return SaturationState{
		Pressure:           Q(p, Pascal),
		Temperature:        Q(t, Kelvin),
		Liquid:             phaseOf(liquid, lr),
		Vapor:              phaseOf(vapor, vr),
		HeatOfVaporization: Q(vapor.h-liquid.h, KilojoulePerKilogram),
		Method:             e.cfg.SaturationMethod,
		Iterations:         iters,
	}, nil
}

// checkPhaseOrdering enforces h, s, u of the vapour at or above the
// liquid's, and the liquid at least as dense as the vapour.
func checkPhaseOrdering(liquid, vapor state, p, t float64) error {
	var bad string
	switch {
	case vapor.h < liquid.h:
		bad = "enthalpy"
	case vapor.s < liquid.s:
		bad = "entropy"
	case vapor.u < liquid.u:
		bad = "internal energy"
	case vapor.rho > liquid.rho:
		bad = "density"
	default:
		return nil
	}
	return &NumericalInstabilityError{
		Reason:     fmt.Sprintf("saturation phases at (P=%g Pa, T=%g K) violate %s ordering", p, t, bad),
		Distance:   CriticalDistance(p, t),
		Suggestion: "move the point further from the critical region",
	}
}
