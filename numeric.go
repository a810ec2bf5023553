package if97

import (
	"fmt"
	"math"
	"sort"
)

// Horner evaluates a dense polynomial with coefficients ordered from the
// highest degree down to the constant term.
//
//	Horner([]float64{a, b, c}, x) = a·x² + b·x + c
func Horner(coeffs []float64, x float64) float64 {
	var acc float64
	for _, c := range coeffs {
		acc = acc*x + c
	}
	return acc
}

// Term is one n·x^I·y^J product of a two-dimensional correlation.
type Term struct {
	I int
	J int
	N float64
}

// Poly2D is a sparse polynomial Σ nᵢ·x^Iᵢ·y^Jᵢ with integer (possibly
// negative) exponents, the shape every IF97 free-energy correlation takes.
//
// Evaluation is a two-level Horner scheme: terms sharing the same I are
// folded in y first, then the rows are folded in x. Exponent gaps are
// bridged with Powi, so the cost is one multiply chain per row instead of
// one pow call per term.
type Poly2D struct {
	terms []Term
	rows  []polyRow // sorted by exponent I, descending
}

type polyRow struct {
	i     int
	exps  []int // J exponents, descending
	coefs []float64
}

// NewPoly2D builds a Poly2D from its terms. Terms with equal exponents are
// combined and zero coefficients dropped. The input slice is not retained.
func NewPoly2D(terms []Term) Poly2D {
	merged := make(map[[2]int]float64, len(terms))
	for _, t := range terms {
		merged[[2]int{t.I, t.J}] += t.N
	}

	kept := make([]Term, 0, len(merged))
	for k, n := range merged {
		if n == 0 {
			continue
		}
		kept = append(kept, Term{I: k[0], J: k[1], N: n})
	}
	sort.Slice(kept, func(a, b int) bool {
		if kept[a].I != kept[b].I {
			return kept[a].I > kept[b].I
		}
		return kept[a].J > kept[b].J
	})

	var rows []polyRow
	for _, t := range kept {
		if len(rows) == 0 || rows[len(rows)-1].i != t.I {
			rows = append(rows, polyRow{i: t.I})
		}
		r := &rows[len(rows)-1]
		r.exps = append(r.exps, t.J)
		r.coefs = append(r.coefs, t.N)
	}

	return Poly2D{terms: kept, rows: rows}
}

// Len returns the number of non-zero terms.
func (p Poly2D) Len() int { return len(p.terms) }

// Eval returns the polynomial value at (x, y).
func (p Poly2D) Eval(x, y float64) float64 {
	if len(p.rows) == 0 {
		return 0
	}

	var acc float64
	for k, r := range p.rows {
		inner := sparseHorner(r.exps, r.coefs, y)
		if k == 0 {
			acc = inner
			continue
		}
		acc = acc*Powi(x, p.rows[k-1].i-r.i) + inner
	}
	return acc * Powi(x, p.rows[len(p.rows)-1].i)
}

// DX returns ∂/∂x of the polynomial.
func (p Poly2D) DX() Poly2D {
	d := make([]Term, 0, len(p.terms))
	for _, t := range p.terms {
		if t.I == 0 {
			continue
		}
		d = append(d, Term{I: t.I - 1, J: t.J, N: t.N * float64(t.I)})
	}
	return NewPoly2D(d)
}

// DY returns ∂/∂y of the polynomial.
func (p Poly2D) DY() Poly2D {
	d := make([]Term, 0, len(p.terms))
	for _, t := range p.terms {
		if t.J == 0 {
			continue
		}
		d = append(d, Term{I: t.I, J: t.J - 1, N: t.N * float64(t.J)})
	}
	return NewPoly2D(d)
}

// sparseHorner evaluates Σ cₖ·x^eₖ for exponents sorted in descending order.
func sparseHorner(exps []int, coefs []float64, x float64) float64 {
	acc := coefs[0]
	for k := 1; k < len(exps); k++ {
		acc = acc*Powi(x, exps[k-1]-exps[k]) + coefs[k]
	}
	return acc * Powi(x, exps[len(exps)-1])
}

// Powi raises x to an integer power by repeated squaring.
// Powi(x, 0) is 1 for every x, including 0; Powi(0, n<0) is +Inf.
func Powi(x float64, n int) float64 {
	if n < 0 {
		return 1 / Powi(x, -n)
	}
	result := 1.0
	for n > 0 {
		if n&1 == 1 {
			result *= x
		}
		x *= x
		n >>= 1
	}
	return result
}

// SafePow is math.Pow restricted to the real-valued, finite cases.
// Negative bases with non-integer exponents and zero raised to a negative
// power are reported as precondition errors instead of NaN or Inf.
func SafePow(x, y float64) (float64, error) {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return 0, &PreconditionError{Op: "pow", Detail: "NaN operand"}
	case x < 0 && y != math.Trunc(y):
		return 0, &PreconditionError{Op: "pow", Detail: fmt.Sprintf("negative base %g with fractional exponent %g", x, y)}
	case x == 0 && y < 0:
		return 0, &PreconditionError{Op: "pow", Detail: fmt.Sprintf("zero base with negative exponent %g", y)}
	}
	return math.Pow(x, y), nil
}

// SafeSqrt returns √x, or a precondition error for negative x.
func SafeSqrt(x float64) (float64, error) {
	if x < 0 || math.IsNaN(x) {
		return 0, &PreconditionError{Op: "sqrt", Detail: fmt.Sprintf("negative operand %g", x)}
	}
	return math.Sqrt(x), nil
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Reduced returns value/ref, the dimensionless form used for π and δ.
func Reduced(value, ref float64) float64 { return value / ref }

// Inverse returns ref/value, the dimensionless form used for τ.
func Inverse(ref, value float64) float64 { return ref / value }

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
