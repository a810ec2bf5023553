// Package if97 computes thermodynamic properties of water and steam with the
// IAPWS Industrial Formulation 1997 (IF97).
//
// # Overview
//
// Given a pressure and a temperature, the engine decides which IF97 region
// the point belongs to and evaluates that region's free-energy correlation
// for specific enthalpy, entropy, internal energy and density. Saturation
// states are computed separately, from either the pressure or the
// temperature.
//
// # Architecture
//
// The package components:
//
//   - engine.go      - Engine, Config and the property API
//   - numeric.go     - Horner evaluation, sparse 2-D polynomials, safe pow/sqrt
//   - rootfind.go    - Brent's method plus bracket scanning and expansion
//   - region.go      - Domain bounds and region classification
//   - region1.go     - Compressed liquid (Gibbs)
//   - region2.go     - Superheated vapour (Gibbs, ideal + residual)
//   - region3.go     - Dense/supercritical fluid (Helmholtz, density solve)
//   - saturation.go  - Region 4 saturation line and two-phase states
//   - criticality.go - Critical-point exclusion zone
//   - diagnostics.go - Event sinks for region, guard and solver outcomes
//   - units.go       - Unit-tagged quantities and conversion
//   - errors.go      - Sentinel and typed domain errors
//   - info.go        - Region envelopes and declared accuracy
//
// The validation/ package checks the engine against reference tables and
// metrics/ exports diagnostics to Prometheus.
//
// # Quick Start
//
//	eng := if97.New(if97.DefaultConfig())
//
//	props, err := eng.Properties(if97.Q(10, if97.Megapascal), if97.Q(500, if97.Kelvin))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: h = %s\n", props.Region, props.Enthalpy)
//
//	sat, err := eng.SaturationAtPressure(if97.Q(0.1, if97.Megapascal))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Tsat = %s, h_fg = %s\n", sat.Temperature, sat.HeatOfVaporization)
//
// # Regions
//
// Classification runs in a fixed order:
//
//  1. Domain: 273.15 K ≤ T ≤ 863.15 K and 611.657 Pa ≤ P ≤ 863.91 MPa
//     (100 MPa above 623.15 K). Failure yields OutOfRange.
//  2. Critical exclusion: points within 5% of (22.064 MPa, 647.096 K) yield
//     CriticalSingularity.
//  3. Saturation line: below Tc, |P − Psat(T)| ≤ Config.SaturationTolerance
//     yields SaturationLine.
//  4. Up to 623.15 K, P > Psat(T) is CompressedLiquid and the rest is
//     SuperheatedVapor; above it the B23 boundary separates SuperheatedVapor
//     from DenseSupercritical.
//
// # The Critical Point
//
// Every correlation loses conditioning on the approach to the critical
// point, so the engine refuses to answer there:
//
//	d = max(|P − Pc| / Pc, |T − Tc| / Tc)
//
// Points with d < 0.05 are rejected with *NumericalInstabilityError. The
// error carries the distance and a suggested action.
//
// # Errors
//
// Domain failures match ErrInputRange, ErrInvalidState or
// ErrNumericalInstability through errors.Is, and the typed errors carry
// the details through errors.As. ErrPrecondition marks a misuse of the
// numeric layer rather than a bad input.
//
// # Concurrency
//
// An Engine holds no mutable state after New. All methods are safe for
// concurrent use and repeated calls return bit-identical results.
package if97
