package if97

import (
	"fmt"
	"math"
)

// Bracket is a closed interval expected to contain a sign change of f.
type Bracket struct {
	Lo float64
	Hi float64
}

// Root is the outcome of a converged solve.
type Root struct {
	X          float64 // Abscissa of the root
	Residual   float64 // f(X)
	Iterations int     // Function evaluations after the two bracket endpoints
}

// FindRoot locates a zero of f inside b with Brent's method: inverse
// quadratic interpolation and secant steps, falling back to bisection
// whenever an interpolated step would leave the bracket or shrink it too
// slowly. Convergence is guaranteed for a valid bracket.
//
// Preconditions (reported as *PreconditionError):
//   - tol > 0 and maxIter > 0
//   - finite endpoints
//   - f(b.Lo) and f(b.Hi) of opposite sign (or one of them exactly zero)
//
// The solve stops when the bracket half-width falls below
// 2·ε·|x| + tol/2. Exceeding maxIter returns *NumericalInstabilityError with
// the iteration count and the last residual.
func FindRoot(f func(float64) float64, b Bracket, tol float64, maxIter int) (Root, error) {
	if tol <= 0 || maxIter <= 0 {
		return Root{}, &PreconditionError{
			Op:     "find root",
			Detail: fmt.Sprintf("tolerance %g and max iterations %d must be positive", tol, maxIter),
		}
	}
	if !isFinite(b.Lo) || !isFinite(b.Hi) {
		return Root{}, &PreconditionError{
			Op:     "find root",
			Detail: fmt.Sprintf("non-finite bracket [%g, %g]", b.Lo, b.Hi),
		}
	}

	a, c := b.Lo, b.Hi
	fa, fc := f(a), f(c)
	if fa == 0 {
		return Root{X: a}, nil
	}
	if fc == 0 {
		return Root{X: c}, nil
	}
	if !isFinite(fa) || !isFinite(fc) || math.Signbit(fa) == math.Signbit(fc) {
		return Root{}, &PreconditionError{
			Op: "find root",
			Detail: fmt.Sprintf("bracket [%g, %g] does not enclose a sign change: f(lo)=%g, f(hi)=%g",
				b.Lo, b.Hi, fa, fc),
			FLo: fa,
			FHi: fc,
		}
	}

	// Working names follow Brent (1973): b is the best estimate, a the
	// previous one, c the contrapoint so that the root stays in [b, c].
	bb, fb := c, fc
	c, fc = a, fa
	d := bb - a
	e := d

	for iter := 1; iter <= maxIter; iter++ {
		if math.Signbit(fb) == math.Signbit(fc) {
			c, fc = a, fa
			d = bb - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, bb, c = bb, c, bb
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*epsilon*math.Abs(bb) + 0.5*tol
		xm := 0.5 * (c - bb)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return Root{X: bb, Residual: fb, Iterations: iter - 1}, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			var p, q float64
			s := fb / fa
			if a == c {
				// Secant.
				p = 2 * xm * s
				q = 1 - s
			} else {
				// Inverse quadratic interpolation.
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (bb-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			} else {
				p = -p
			}
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = bb, fb
		if math.Abs(d) > tol1 {
			bb += d
		} else {
			bb += math.Copysign(tol1, xm)
		}
		fb = f(bb)
	}

	return Root{}, &NumericalInstabilityError{
		Reason:     fmt.Sprintf("root finder did not converge within %d iterations", maxIter),
		Iterations: maxIter,
		Residual:   fb,
		Suggestion: "widen the tolerance or move the point away from the critical region",
	}
}

const epsilon = 2.220446049250313e-16

// ExpandBracket grows seed geometrically around its midpoint until f
// changes sign across it. The bracket never leaves [limits.Lo, limits.Hi];
// once both ends are pinned to the limits without a sign change the search
// fails. Each step doubles the width.
func ExpandBracket(f func(float64) float64, seed, limits Bracket, maxSteps int) (Bracket, error) {
	lo := Clamp(seed.Lo, limits.Lo, limits.Hi)
	hi := Clamp(seed.Hi, limits.Lo, limits.Hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	flo, fhi := f(lo), f(hi)

	for step := 0; ; step++ {
		if !isFinite(flo) || !isFinite(fhi) {
			return Bracket{}, &PreconditionError{
				Op:     "expand bracket",
				Detail: fmt.Sprintf("non-finite residual on [%g, %g]: f(lo)=%g, f(hi)=%g", lo, hi, flo, fhi),
				FLo:    flo,
				FHi:    fhi,
			}
		}
		if flo == 0 || fhi == 0 || math.Signbit(flo) != math.Signbit(fhi) {
			return Bracket{Lo: lo, Hi: hi}, nil
		}
		pinned := lo <= limits.Lo && hi >= limits.Hi
		if step >= maxSteps || pinned {
			return Bracket{}, &NumericalInstabilityError{
				Reason:     fmt.Sprintf("no sign change found while expanding bracket to [%g, %g]", lo, hi),
				Iterations: step + 1,
				Residual:   math.Min(math.Abs(flo), math.Abs(fhi)),
				Suggestion: "check that the target lies inside the correlation's range",
			}
		}

		width := hi - lo
		if width == 0 {
			width = math.Max(math.Abs(lo)*1e-6, 1e-12)
		}
		if lo > limits.Lo {
			lo = math.Max(lo-width/2, limits.Lo)
			flo = f(lo)
		}
		if hi < limits.Hi {
			hi = math.Min(hi+width/2, limits.Hi)
			fhi = f(hi)
		}
	}
}

// ScanBracket walks from start towards limit in multiplicative steps of
// factor and returns the first interval across which f changes sign.
// factor > 1 scans upward, factor < 1 scans downward. Scanning stops with
// *NumericalInstabilityError after maxSteps or when limit is passed.
func ScanBracket(f func(float64) float64, start, factor, limit float64, maxSteps int) (Bracket, error) {
	if factor <= 0 || factor == 1 || start <= 0 {
		return Bracket{}, &PreconditionError{
			Op:     "scan bracket",
			Detail: fmt.Sprintf("start %g and factor %g must be positive, factor ≠ 1", start, factor),
		}
	}

	x := start
	fx := f(x)
	for step := 1; step <= maxSteps; step++ {
		next := x * factor
		if (factor > 1 && next > limit) || (factor < 1 && next < limit) {
			next = limit
		}
		fn := f(next)
		if fx == 0 || fn == 0 || math.Signbit(fx) != math.Signbit(fn) {
			if next < x {
				return Bracket{Lo: next, Hi: x}, nil
			}
			return Bracket{Lo: x, Hi: next}, nil
		}
		if next == limit {
			break
		}
		x, fx = next, fn
	}

	return Bracket{}, &NumericalInstabilityError{
		Reason:     fmt.Sprintf("no sign change found scanning from %g towards %g", start, limit),
		Iterations: maxSteps,
		Residual:   fx,
		Suggestion: "check that the target lies inside the correlation's range",
	}
}
