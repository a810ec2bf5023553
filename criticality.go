package if97

import (
	"fmt"
	"math"
)

// CriticalDistance returns the normalized distance of (p, t) from the
// critical point:
//
//	d = max(|p − Pc| / Pc, |t − Tc| / Tc)
//
// A point is near the critical point only when it is close in both
// dimensions, which is exactly when the larger of the two ratios is small.
func CriticalDistance(p, t float64) float64 {
	dp := math.Abs(p-CriticalPressure) / CriticalPressure
	dt := math.Abs(t-CriticalTemperature) / CriticalTemperature
	return math.Max(dp, dt)
}

// CriticalHeadroom returns how far (p, t) sits outside the exclusion zone.
// Negative values mean the point is rejected.
func CriticalHeadroom(p, t float64) float64 {
	return CriticalDistance(p, t) - CriticalExclusion
}

// CheckCritical rejects points closer than CriticalExclusion to the
// critical point. The boundary is exclusive: a distance of exactly 0.05 is
// accepted. The check runs before any correlation is evaluated, since
// every region's polynomial is ill-conditioned on the approach to the
// terminus of the coexistence curve.
func CheckCritical(p, t float64) error {
	if CriticalHeadroom(p, t) >= 0 {
		return nil
	}
	d := CriticalDistance(p, t)
	return &NumericalInstabilityError{
		Reason: fmt.Sprintf(
			"point (P=%g Pa, T=%g K) is within %.0f%% of the critical point (%g Pa, %g K)",
			p, t, CriticalExclusion*100, CriticalPressure, CriticalTemperature),
		Distance:   d,
		Suggestion: "move at least 5% away from the critical point in pressure or temperature",
	}
}

// guardCritical runs CheckCritical and reports the outcome to the sink.
func (e *Engine) guardCritical(p, t float64) error {
	err := CheckCritical(p, t)
	e.emit(Event{
		Type:        EventSingularityCheck,
		Pressure:    p,
		Temperature: t,
		Distance:    CriticalDistance(p, t),
		Rejected:    err != nil,
	})
	return err
}
