package if97

// Reference constants of the IAPWS-IF97 formulation.
const (
	// GasConstant is the specific gas constant of water, kJ/(kg·K).
	GasConstant = 0.461526

	// CriticalPressure and CriticalTemperature locate the terminus of the
	// coexistence curve.
	CriticalPressure    = 22.064e6 // Pa
	CriticalTemperature = 647.096  // K
	CriticalDensity     = 322.0    // kg/m³

	// TriplePressure and TripleTemperature locate the low end of the
	// coexistence curve.
	TriplePressure    = 611.657 // Pa
	TripleTemperature = 273.16  // K
)

// Domain bounds of the engine.
const (
	MinTemperature = 273.15 // K
	MaxTemperature = 863.15 // K
	MinPressure    = TriplePressure

	// MaxPressureLowT applies up to BoundaryTemperature13; above it the
	// ceiling drops to MaxPressureHighT.
	MaxPressureLowT  = 863.91e6 // Pa
	MaxPressureHighT = 100e6    // Pa

	// BoundaryTemperature13 separates region 1 from region 3 (and is the
	// lowest temperature of the region 2/3 boundary).
	BoundaryTemperature13 = 623.15 // K
)

// CriticalExclusion is the normalized distance from the critical point
// below which every property call is rejected.
const CriticalExclusion = 0.05
