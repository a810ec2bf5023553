package if97

import (
	"fmt"
	"math"
)

// Region is the outcome of classifying a (P, T) point. The first three
// values name a single-phase correlation; the rest are the conditions under
// which no correlation may run.
type Region int

const (
	CompressedLiquid    Region = iota + 1 // IF97 region 1
	SuperheatedVapor                      // IF97 region 2
	DenseSupercritical                    // IF97 region 3
	SaturationLine                        // IF97 region 4, two-phase
	OutOfRange                            // outside the domain bounds
	CriticalSingularity                   // inside the critical exclusion zone
)

// Regions lists every Region value in declaration order.
var Regions = []Region{
	CompressedLiquid, SuperheatedVapor, DenseSupercritical,
	SaturationLine, OutOfRange, CriticalSingularity,
}

func (r Region) String() string {
	switch r {
	case CompressedLiquid:
		return "compressed_liquid"
	case SuperheatedVapor:
		return "superheated_vapor"
	case DenseSupercritical:
		return "dense_supercritical"
	case SaturationLine:
		return "saturation"
	case OutOfRange:
		return "out_of_range"
	case CriticalSingularity:
		return "critical_singularity"
	default:
		return fmt.Sprintf("region(%d)", int(r))
	}
}

// Number returns the IF97 region number, or 0 for the non-physical outcomes.
func (r Region) Number() int {
	switch r {
	case CompressedLiquid:
		return 1
	case SuperheatedVapor:
		return 2
	case DenseSupercritical:
		return 3
	case SaturationLine:
		return 4
	case OutOfRange, CriticalSingularity:
		return 0
	default:
		return 0
	}
}

// SinglePhase reports whether r has a property evaluator.
func (r Region) SinglePhase() bool {
	switch r {
	case CompressedLiquid, SuperheatedVapor, DenseSupercritical:
		return true
	case SaturationLine, OutOfRange, CriticalSingularity:
		return false
	default:
		return false
	}
}

// ParseRegion is the inverse of Region.String.
func ParseRegion(s string) (Region, error) {
	for _, r := range Regions {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("if97: unknown region %q", s)
}

// PTPoint is a validated pressure/temperature pair in Pa and K.
type PTPoint struct {
	Pressure    float64
	Temperature float64
}

// NewPTPoint validates p and t against the domain bounds.
func NewPTPoint(p, t float64) (PTPoint, error) {
	if err := CheckDomain(p, t); err != nil {
		return PTPoint{}, err
	}
	return PTPoint{Pressure: p, Temperature: t}, nil
}

// MaxPressure is the region-appropriate pressure ceiling at temperature t.
func MaxPressure(t float64) float64 {
	if t <= BoundaryTemperature13 {
		return MaxPressureLowT
	}
	return MaxPressureHighT
}

// CheckDomain verifies finiteness and the absolute domain bounds.
// Temperature is checked before pressure because the pressure ceiling
// depends on it.
func CheckDomain(p, t float64) error {
	if !isFinite(t) || t < MinTemperature || t > MaxTemperature {
		return &InputRangeError{
			Parameter: "temperature", Value: t,
			Min: MinTemperature, Max: MaxTemperature, Unit: string(Kelvin),
		}
	}
	pmax := MaxPressure(t)
	if !isFinite(p) || p < MinPressure || p > pmax {
		return &InputRangeError{
			Parameter: "pressure", Value: p,
			Min: MinPressure, Max: pmax, Unit: string(Pascal),
		}
	}
	return nil
}

var b23 = [5]float64{
	0.34805185628969e3, -0.11671859879975e1, 0.10192970039326e-2,
	0.57254459862746e3, 0.13918839778870e2,
}

// BoundaryPressure23 returns the region 2/3 boundary pressure (Pa) at t.
func BoundaryPressure23(t float64) float64 {
	return Horner([]float64{b23[2], b23[1], b23[0]}, t) * 1e6
}

// BoundaryTemperature23 returns the region 2/3 boundary temperature (K) at p.
func BoundaryTemperature23(p float64) float64 {
	pi := p / 1e6
	return b23[3] + math.Sqrt(math.Max(pi-b23[4], 0)/b23[2])
}

// Classify assigns (p, t) in Pa and K to a region using the default
// saturation-line tolerance. See Engine.Classify for the unit-aware form.
//
// Checks run in order: domain bounds, critical exclusion, saturation line,
// then the region 1/2 and 2/3 boundaries. A non-nil error always comes with
// OutOfRange, CriticalSingularity or SaturationLine.
func Classify(p, t float64) (Region, error) {
	return classify(p, t, DefaultSaturationTolerance)
}

func classify(p, t, satTol float64) (Region, error) {
	if err := CheckDomain(p, t); err != nil {
		return OutOfRange, err
	}
	if err := CheckCritical(p, t); err != nil {
		return CriticalSingularity, err
	}
	return phaseRegion(p, t, satTol)
}

// phaseRegion places a point already known to be inside the domain and
// outside the critical exclusion zone.
func phaseRegion(p, t, satTol float64) (Region, error) {
	if t < CriticalTemperature {
		ps := saturationPressure(t)
		if math.Abs(p-ps) <= satTol {
			return SaturationLine, &InvalidStateError{
				Pressure: p, Temperature: t,
				SaturationPressure: ps, Tolerance: satTol,
			}
		}
		if t <= BoundaryTemperature13 {
			if p > ps {
				return CompressedLiquid, nil
			}
			return SuperheatedVapor, nil
		}
	}

	if p <= BoundaryPressure23(t) {
		return SuperheatedVapor, nil
	}
	return DenseSupercritical, nil
}

// liquidLike reports whether a region 3 point lies on the liquid side of
// the coexistence curve, which selects the density branch.
func liquidLike(p, t float64) bool {
	return t < CriticalTemperature && p > saturationPressure(t)
}
