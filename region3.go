package if97

import (
	"fmt"
	"math"
)

// Region 3: dense and supercritical fluid, expressed by the dimensionless
// Helmholtz free energy φ(δ, τ) = n₁ ln δ + Σ nᵢ δ^Iᵢ τ^Jᵢ with
// δ = ρ/ρc and τ = Tc/T. The correlation is native in (ρ, T); a (P, T)
// request is resolved by solving p(ρ, T) = P for ρ.
const region3N1 = 0.10658070028513e1

var region3Terms = []Term{
	{0, 0, -0.15732845290239e2}, {0, 1, 0.20944396974307e2}, {0, 2, -0.76867707878716e1},
	{0, 7, 0.26185947787954e1}, {0, 10, -0.28080781148620e1}, {0, 12, 0.12053369696517e1},
	{0, 23, -0.84566812812502e-2}, {1, 2, -0.12654315477714e1}, {1, 6, -0.11524407806681e1},
	{1, 15, 0.88521043984318}, {1, 17, -0.64207765181607}, {2, 0, 0.38493460186671},
	{2, 2, -0.85214708824206}, {2, 6, 0.48972281541877e1}, {2, 7, -0.30502617256965e1},
	{2, 22, 0.39420536879154e-1}, {2, 26, 0.12558408424308}, {3, 0, -0.27999329698710},
	{3, 2, 0.13899799569460e1}, {3, 4, -0.20189915023570e1}, {3, 16, -0.82147637173963e-2},
	{3, 26, -0.47596035734923}, {4, 0, 0.43984074473500e-1}, {4, 2, -0.44476435428739},
	{4, 4, 0.90572070719733}, {4, 26, 0.70522450087967}, {5, 1, 0.10770512626332},
	{5, 3, -0.32913623258954}, {5, 26, -0.50871062041158}, {6, 0, -0.22175400873096e-1},
	{6, 2, 0.94260751665092e-1}, {6, 26, 0.16436278447961}, {7, 2, -0.13503372241348e-1},
	{8, 26, -0.14834345352472e-1}, {9, 2, 0.57922953628084e-3}, {9, 26, 0.32308904703711e-2},
	{10, 0, 0.80964802996215e-4}, {10, 1, -0.16557679795037e-3}, {11, 26, -0.44923899061815e-4},
}

var (
	region3Phi      = NewPoly2D(region3Terms)
	region3PhiDelta = region3Phi.DX()
	region3PhiTau   = region3Phi.DY()
)

// Density scan limits for the (P, T) → ρ solve. Above 800 kg/m³ the
// correlation's pressure stops rising monotonically, while every region 3
// state lies well below it.
const (
	region3MaxDensity = 800.0
	region3ScanStep   = 1.02
)

// region3Pressure returns p(ρ, T) in Pa.
func region3Pressure(rho, t float64) float64 {
	delta := Reduced(rho, CriticalDensity)
	tau := Inverse(CriticalTemperature, t)
	phiDelta := region3N1/delta + region3PhiDelta.Eval(delta, tau)
	return rho * GasConstant * t * delta * phiDelta * 1e3
}

// region3 evaluates the dense/supercritical correlation at ρ (kg/m³), t (K).
func region3(rho, t float64) state {
	delta := Reduced(rho, CriticalDensity)
	tau := Inverse(CriticalTemperature, t)

	phi := region3N1*math.Log(delta) + region3Phi.Eval(delta, tau)
	phiDelta := region3N1/delta + region3PhiDelta.Eval(delta, tau)
	phiTau := region3PhiTau.Eval(delta, tau)

	rt := GasConstant * t
	return state{
		p:   rho * rt * delta * phiDelta * 1e3,
		t:   t,
		rho: rho,
		h:   rt * (tau*phiTau + delta*phiDelta),
		s:   GasConstant * (tau*phiTau - phi),
		u:   rt * tau * phiTau,
	}
}

// region3Density solves p(ρ, t) = p on the requested branch.
//
// Below the critical temperature the isotherm has a van der Waals loop, so
// the residual has up to three roots. The liquid branch is the largest
// root: scan down from region3MaxDensity. The vapour branch (and the
// single supercritical root) is the smallest: scan up from half the
// ideal-gas density, where the residual is always negative. The first
// sign change is then refined with FindRoot.
func (e *Engine) region3Density(p, t float64, liquid bool) (float64, error) {
	residual := func(rho float64) float64 { return region3Pressure(rho, t) - p }

	var (
		bracket Bracket
		err     error
	)
	ideal := p / (GasConstant * 1e3 * t)
	if liquid {
		bracket, err = ScanBracket(residual, region3MaxDensity, 1/region3ScanStep, ideal/2, e.cfg.MaxBracketSteps)
	} else {
		bracket, err = ScanBracket(residual, ideal/2, region3ScanStep, region3MaxDensity, e.cfg.MaxBracketSteps)
	}
	if err != nil {
		e.emit(Event{
			Type: EventConvergenceFailed, Region: DenseSupercritical,
			Pressure: p, Temperature: t, Solver: solverRegion3Density, Err: err,
		})
		return 0, err
	}

	root, err := FindRoot(residual, bracket, e.cfg.RootTolerance*bracket.Hi, e.cfg.MaxIterations)
	if err != nil {
		e.emit(Event{
			Type: EventConvergenceFailed, Region: DenseSupercritical,
			Pressure: p, Temperature: t, Solver: solverRegion3Density, Err: err,
		})
		return 0, err
	}

	e.emit(Event{
		Type: EventConvergence, Region: DenseSupercritical,
		Pressure: p, Temperature: t, Solver: solverRegion3Density,
		Iterations: root.Iterations, Residual: root.Residual,
	})
	if root.X <= 0 || !isFinite(root.X) {
		return 0, &NumericalInstabilityError{
			Reason:     fmt.Sprintf("region 3 density solve produced non-physical density %g kg/m³", root.X),
			Iterations: root.Iterations,
			Residual:   root.Residual,
			Suggestion: "move the point away from the critical region",
		}
	}
	return root.X, nil
}
