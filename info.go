package if97

// AccuracyClaim returns the declared agreement (percent relative error)
// between the engine and reference data for region r, or 0 for regions
// without a correlation.
func AccuracyClaim(r Region) float64 {
	switch r {
	case CompressedLiquid:
		return 0.03
	case SuperheatedVapor:
		return 0.06
	case DenseSupercritical:
		return 0.2
	case SaturationLine:
		return 0.1
	case OutOfRange, CriticalSingularity:
		return 0
	default:
		return 0
	}
}

// RegionInfo describes the validity envelope of one region.
type RegionInfo struct {
	Region         Region
	Description    string
	TemperatureMin float64 // K
	TemperatureMax float64 // K
	PressureMin    float64 // Pa
	PressureMax    float64 // Pa
	Accuracy       float64 // percent, see AccuracyClaim
	Bounds         string  // the boundary the envelope is cut by
}

// Info lists the envelope of each physical region. The critical exclusion
// zone is cut out of all of them.
func (e *Engine) Info() []RegionInfo {
	return []RegionInfo{
		{
			Region:         CompressedLiquid,
			Description:    "compressed liquid, Gibbs free energy γ(π, τ)",
			TemperatureMin: MinTemperature,
			TemperatureMax: BoundaryTemperature13,
			PressureMin:    MinPressure,
			PressureMax:    MaxPressureLowT,
			Accuracy:       AccuracyClaim(CompressedLiquid),
			Bounds:         "P > Psat(T)",
		},
		{
			Region:         SuperheatedVapor,
			Description:    "superheated vapour, Gibbs free energy γ⁰(π, τ) + γʳ(π, τ)",
			TemperatureMin: MinTemperature,
			TemperatureMax: MaxTemperature,
			PressureMin:    MinPressure,
			PressureMax:    MaxPressureHighT,
			Accuracy:       AccuracyClaim(SuperheatedVapor),
			Bounds:         "P < Psat(T) up to 623.15 K, P ≤ P_B23(T) above",
		},
		{
			Region:         DenseSupercritical,
			Description:    "dense and supercritical fluid, Helmholtz free energy φ(δ, τ)",
			TemperatureMin: BoundaryTemperature13,
			TemperatureMax: BoundaryTemperature23(MaxPressureHighT),
			PressureMin:    BoundaryPressure23(BoundaryTemperature13),
			PressureMax:    MaxPressureHighT,
			Accuracy:       AccuracyClaim(DenseSupercritical),
			Bounds:         "T > 623.15 K and P > P_B23(T)",
		},
		{
			Region:         SaturationLine,
			Description:    "liquid/vapour coexistence curve",
			TemperatureMin: TripleTemperature,
			TemperatureMax: CriticalTemperature,
			PressureMin:    TriplePressure,
			PressureMax:    CriticalPressure,
			Accuracy:       AccuracyClaim(SaturationLine),
			Bounds:         "|P − Psat(T)| ≤ tolerance",
		},
	}
}
