package if97

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHorner(t *testing.T) {
	tests := []struct {
		name   string
		coeffs []float64
		x      float64
		want   float64
	}{
		{"empty", nil, 3, 0},
		{"constant", []float64{7}, 3, 7},
		{"quadratic", []float64{2, -3, 1}, 4, 2*16 - 3*4 + 1},
		{"cubic at zero", []float64{5, 4, 3, 2}, 0, 2},
		{"negative x", []float64{1, 0, 0}, -2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Horner(tt.coeffs, tt.x))
		})
	}
}

func TestPowi(t *testing.T) {
	tests := []struct {
		x    float64
		n    int
		want float64
	}{
		{2, 0, 1},
		{0, 0, 1},
		{2, 10, 1024},
		{-3, 3, -27},
		{2, -2, 0.25},
		{1.5, 7, math.Pow(1.5, 7)},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Powi(tt.x, tt.n), 1e-12*math.Abs(tt.want), "Powi(%g, %d)", tt.x, tt.n)
	}
	assert.True(t, math.IsInf(Powi(0, -1), 1), "Powi(0, -1) should be +Inf")
}

// naive evaluates the same sum with one math.Pow per term.
func naive(terms []Term, x, y float64) float64 {
	var sum float64
	for _, t := range terms {
		sum += t.N * math.Pow(x, float64(t.I)) * math.Pow(y, float64(t.J))
	}
	return sum
}

func TestPoly2D_MatchesNaiveSum(t *testing.T) {
	terms := []Term{
		{0, -2, 0.5}, {0, 3, -1.25}, {1, 0, 2}, {1, 1, 3}, {3, -1, -0.75},
		{5, 2, 0.125}, {-1, 2, 0.3},
	}
	p := NewPoly2D(terms)
	require.Equal(t, len(terms), p.Len())

	for _, pt := range [][2]float64{{0.7, 1.3}, {1.1, 0.9}, {2.5, 0.4}, {0.3, 2.2}} {
		want := naive(terms, pt[0], pt[1])
		got := p.Eval(pt[0], pt[1])
		assert.InDelta(t, want, got, 1e-12*math.Max(1, math.Abs(want)), "at %v", pt)
	}

	t.Logf("✓ Sparse Horner agrees with naive summation on %d terms", p.Len())
}

func TestPoly2D_MergesAndDropsZeros(t *testing.T) {
	p := NewPoly2D([]Term{{1, 1, 2}, {1, 1, -2}, {0, 0, 3}, {0, 0, 1}})
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 4.0, p.Eval(10, 10))

	empty := NewPoly2D(nil)
	assert.Equal(t, 0.0, empty.Eval(1, 1))
}

func TestPoly2D_Derivatives(t *testing.T) {
	p := NewPoly2D([]Term{{0, -2, 0.5}, {1, 1, 3}, {3, -1, -0.75}, {5, 2, 0.125}})
	dx, dy := p.DX(), p.DY()

	x, y := 1.3, 0.8
	const h = 1e-6
	fdx := (p.Eval(x+h, y) - p.Eval(x-h, y)) / (2 * h)
	fdy := (p.Eval(x, y+h) - p.Eval(x, y-h)) / (2 * h)

	assert.InEpsilon(t, fdx, dx.Eval(x, y), 1e-6)
	assert.InEpsilon(t, fdy, dy.Eval(x, y), 1e-6)
}

func TestSafePow(t *testing.T) {
	v, err := SafePow(16, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 2, v, 1e-15)

	v, err = SafePow(-2, 3)
	require.NoError(t, err)
	assert.Equal(t, -8.0, v)

	for _, c := range [][2]float64{{-2, 0.5}, {0, -1}, {math.NaN(), 2}} {
		_, err := SafePow(c[0], c[1])
		assert.ErrorIs(t, err, ErrPrecondition, "SafePow(%g, %g)", c[0], c[1])
	}
}

func TestSafeSqrt(t *testing.T) {
	v, err := SafeSqrt(9)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, err = SafeSqrt(-1e-300)
	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "sqrt", pe.Op)
}

func TestClampAndReduction(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0, 1, 2))
	assert.Equal(t, 2.0, Clamp(3, 1, 2))
	assert.Equal(t, 1.5, Clamp(1.5, 1, 2))

	assert.InDelta(t, 3e6/region1PStar, Reduced(3e6, region1PStar), 0)
	assert.InDelta(t, region1TStar/300, Inverse(region1TStar, 300), 0)
}
