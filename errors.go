package if97

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors. Typed errors below match them through errors.Is, so
// callers can branch on the category without caring about the details.
var (
	// ErrInputRange: an input lies outside the formulation's domain.
	ErrInputRange = errors.New("if97: input out of range")

	// ErrInvalidState: the point sits on the liquid/vapour coexistence line.
	ErrInvalidState = errors.New("if97: invalid state")

	// ErrNumericalInstability: the point is inside the critical exclusion
	// zone, or an iterative solve did not converge.
	ErrNumericalInstability = errors.New("if97: numerical instability")

	// ErrPrecondition: an internal guard in the numeric utilities or the
	// root finder was violated.
	ErrPrecondition = errors.New("if97: precondition violated")
)

// InputRangeError names the offending parameter, its value and the valid bounds.
type InputRangeError struct {
	Parameter string  // "pressure" or "temperature"
	Value     float64 // Offending value in SI units
	Min       float64 // Lowest accepted value
	Max       float64 // Highest accepted value
	Unit      string  // SI unit of Value, Min and Max
}

func (e *InputRangeError) Error() string {
	return fmt.Sprintf("if97: %s %g %s out of range [%g, %g] %s",
		e.Parameter, e.Value, e.Unit, e.Min, e.Max, e.Unit)
}

func (e *InputRangeError) Is(target error) bool { return target == ErrInputRange }

// InvalidStateError reports a point that lies on the saturation line, where
// the single-phase correlations are undefined.
type InvalidStateError struct {
	Pressure           float64 // Pa
	Temperature        float64 // K
	SaturationPressure float64 // Pa, Psat(Temperature)
	Tolerance          float64 // Pa
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf(
		"if97: point (P=%g Pa, T=%g K) lies on the saturation line\n"+
			"  Psat(T): %g Pa (|ΔP| = %g Pa ≤ %g Pa)\n"+
			"  Action: use the saturation API for two-phase states",
		e.Pressure, e.Temperature, e.SaturationPressure,
		math.Abs(e.Pressure-e.SaturationPressure), e.Tolerance)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// NumericalInstabilityError covers both the critical-point exclusion and
// failed iterative solves. Distance is set for the former, Iterations and
// Residual for the latter.
type NumericalInstabilityError struct {
	Reason     string
	Distance   float64 // normalized distance from the critical point
	Iterations int
	Residual   float64
	Suggestion string
}

func (e *NumericalInstabilityError) Error() string {
	msg := "if97: " + e.Reason
	if e.Iterations > 0 {
		msg += fmt.Sprintf("\n  Iterations: %d\n  Residual: %g", e.Iterations, e.Residual)
	} else {
		msg += fmt.Sprintf("\n  Distance from critical point: %.4f (limit: %.2f)", e.Distance, CriticalExclusion)
	}
	if e.Suggestion != "" {
		msg += "\n  Action: " + e.Suggestion
	}
	return msg
}

func (e *NumericalInstabilityError) Is(target error) bool {
	return target == ErrNumericalInstability
}

// PreconditionError reports a violated guard inside the numeric layer.
// FLo and FHi are set when a root bracket fails the sign-change check.
type PreconditionError struct {
	Op     string
	Detail string
	FLo    float64
	FHi    float64
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("if97: %s: %s", e.Op, e.Detail)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// IsDomainError reports whether err belongs to the declared domain taxonomy
// (range, state or instability). Precondition errors are not domain errors.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrInputRange) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrNumericalInstability)
}
