package if97

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// TestCriticalDistance verifies the normalized max-norm distance.
func TestCriticalDistance(t *testing.T) {
	if d := CriticalDistance(CriticalPressure, CriticalTemperature); d != 0 {
		t.Errorf("distance at the critical point: got %g, expected 0", d)
	}

	// Pressure dominates.
	d := CriticalDistance(CriticalPressure*1.2, CriticalTemperature*1.01)
	if math.Abs(d-0.2) > 1e-12 {
		t.Errorf("pressure-dominated distance: got %.6f, expected 0.2", d)
	}

	// Temperature dominates.
	d = CriticalDistance(CriticalPressure*0.99, CriticalTemperature*0.9)
	if math.Abs(d-0.1) > 1e-12 {
		t.Errorf("temperature-dominated distance: got %.6f, expected 0.1", d)
	}

	t.Logf("✓ d = max(|ΔP|/Pc, |ΔT|/Tc)")
}

// TestCheckCritical_ExactCriticalPoint verifies the singular point itself
// is rejected.
func TestCheckCritical_ExactCriticalPoint(t *testing.T) {
	err := CheckCritical(CriticalPressure, CriticalTemperature)
	if !errors.Is(err, ErrNumericalInstability) {
		t.Fatalf("expected ErrNumericalInstability, got %v", err)
	}

	var ne *NumericalInstabilityError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NumericalInstabilityError, got %T", err)
	}
	if ne.Distance != 0 {
		t.Errorf("distance: got %g, expected 0", ne.Distance)
	}
	if !strings.Contains(err.Error(), "Action:") {
		t.Errorf("error message should suggest an action:\n%s", err)
	}

	t.Logf("✓ Critical point rejected:\n%s", err)
}

// TestCheckCritical_Zone walks across the exclusion boundary.
func TestCheckCritical_Zone(t *testing.T) {
	tests := []struct {
		name     string
		p, t     float64
		rejected bool
	}{
		{"1% above in both", CriticalPressure * 1.01, CriticalTemperature * 1.01, true},
		{"4.9% off in pressure", CriticalPressure * 1.049, CriticalTemperature, true},
		{"4.9% off in temperature", CriticalPressure, CriticalTemperature * 0.951, true},
		{"exactly 5% off is accepted", CriticalPressure + CriticalExclusion*CriticalPressure, CriticalTemperature, false},
		{"10% off in pressure", CriticalPressure * 1.1, CriticalTemperature, false},
		{"10% off in temperature", CriticalPressure, CriticalTemperature * 0.9, false},
		{"far away", 0.1e6, 400, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCritical(tt.p, tt.t)
			if tt.rejected && err == nil {
				t.Errorf("(%g Pa, %g K) should be rejected, d = %.4f", tt.p, tt.t, CriticalDistance(tt.p, tt.t))
			}
			if !tt.rejected && err != nil {
				t.Errorf("(%g Pa, %g K) should be accepted: %v", tt.p, tt.t, err)
			}
			if h := CriticalHeadroom(tt.p, tt.t); (h < 0) != tt.rejected {
				t.Errorf("headroom %.4f disagrees with rejection=%v", h, tt.rejected)
			}
		})
	}
}

// TestClassify_CriticalBeforeRegions verifies the guard wins over every
// other classification rule.
func TestClassify_CriticalBeforeRegions(t *testing.T) {
	points := [][2]float64{
		{CriticalPressure, CriticalTemperature},
		{22.293e6, 650},                // region 3 verification state, inside the zone
		{saturationPressure(645), 645}, // on the saturation line and in the zone
		{CriticalPressure * 0.97, 630},
	}

	for _, pt := range points {
		r, err := Classify(pt[0], pt[1])
		if r != CriticalSingularity {
			t.Errorf("(%g Pa, %g K): got %v, expected %v", pt[0], pt[1], r, CriticalSingularity)
		}
		if !errors.Is(err, ErrNumericalInstability) {
			t.Errorf("(%g Pa, %g K): expected ErrNumericalInstability, got %v", pt[0], pt[1], err)
		}
	}

	t.Logf("✓ %d near-critical points rejected before region assignment", len(points))
}

// TestGuardCritical_EmitsEvent verifies the sink sees every check.
func TestGuardCritical_EmitsEvent(t *testing.T) {
	var rec recordingSink
	e := New(Config{Sink: &rec})

	_ = e.guardCritical(CriticalPressure, CriticalTemperature)
	_ = e.guardCritical(1e6, 400)

	events := rec.ofType(EventSingularityCheck)
	if len(events) != 2 {
		t.Fatalf("expected 2 singularity events, got %d", len(events))
	}
	if !events[0].Rejected || events[1].Rejected {
		t.Errorf("rejection flags: got %v, %v; expected true, false", events[0].Rejected, events[1].Rejected)
	}
}
