package if97

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot_Sqrt2(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }

	root, err := FindRoot(f, Bracket{Lo: 0, Hi: 2}, 1e-14, 100)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, root.X, 1e-12)
	assert.Less(t, root.Iterations, 20, "Brent should converge superlinearly")

	t.Logf("✓ √2 = %.15f after %d iterations", root.X, root.Iterations)
}

func TestFindRoot_Cases(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
		b    Bracket
		want float64
	}{
		{"cubic", func(x float64) float64 { return x*x*x - x - 2 }, Bracket{1, 2}, 1.5213797068045676},
		{"cosine", math.Cos, Bracket{0, 3}, math.Pi / 2},
		{"reversed bracket", func(x float64) float64 { return x - 0.25 }, Bracket{1, -1}, 0.25},
		{"root at endpoint", func(x float64) float64 { return x - 1 }, Bracket{1, 5}, 1},
		{"steep exponential", func(x float64) float64 { return math.Exp(10*x) - 1e4 }, Bracket{0, 2}, math.Log(1e4) / 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := FindRoot(tt.f, tt.b, 1e-13, 100)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, root.X, 1e-10)
		})
	}
}

func TestFindRoot_SameSignBracket(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }

	_, err := FindRoot(f, Bracket{Lo: -1, Hi: 2}, 1e-12, 100)
	require.ErrorIs(t, err, ErrPrecondition)

	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2.0, pe.FLo)
	assert.Equal(t, 5.0, pe.FHi)
	assert.Contains(t, err.Error(), "f(lo)=2")
	assert.Contains(t, err.Error(), "f(hi)=5")
	assert.False(t, IsDomainError(err))
}

func TestFindRoot_InvalidSettings(t *testing.T) {
	f := func(x float64) float64 { return x }

	_, err := FindRoot(f, Bracket{-1, 1}, 0, 100)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = FindRoot(f, Bracket{-1, 1}, 1e-12, 0)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = FindRoot(f, Bracket{math.Inf(-1), 1}, 1e-12, 10)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestFindRoot_IterationCap(t *testing.T) {
	f := func(x float64) float64 { return math.Cbrt(x - 0.3) }

	_, err := FindRoot(f, Bracket{-1e6, 1e6}, 1e-300, 3)
	require.ErrorIs(t, err, ErrNumericalInstability)

	var ne *NumericalInstabilityError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, 3, ne.Iterations)
	assert.Contains(t, err.Error(), "Iterations: 3")
}

func TestExpandBracket(t *testing.T) {
	f := func(x float64) float64 { return x - 10 }

	b, err := ExpandBracket(f, Bracket{Lo: 0, Hi: 1}, Bracket{Lo: -100, Hi: 100}, 50)
	require.NoError(t, err)
	assert.LessOrEqual(t, b.Lo, 10.0)
	assert.GreaterOrEqual(t, b.Hi, 10.0)

	_, err = ExpandBracket(f, Bracket{Lo: 0, Hi: 1}, Bracket{Lo: -5, Hi: 5}, 50)
	assert.ErrorIs(t, err, ErrNumericalInstability, "limits exclude the root")

	_, err = ExpandBracket(func(float64) float64 { return math.NaN() }, Bracket{0, 1}, Bracket{-5, 5}, 50)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestScanBracket(t *testing.T) {
	f := func(x float64) float64 { return x - 37 }

	up, err := ScanBracket(f, 1, 1.5, 1000, 100)
	require.NoError(t, err)
	assert.True(t, up.Lo <= 37 && 37 <= up.Hi, "upward scan %v", up)

	down, err := ScanBracket(f, 1000, 0.5, 1, 100)
	require.NoError(t, err)
	assert.True(t, down.Lo <= 37 && 37 <= down.Hi, "downward scan %v", down)

	_, err = ScanBracket(f, 1, 1.5, 10, 100)
	assert.ErrorIs(t, err, ErrNumericalInstability)

	_, err = ScanBracket(f, 1, 1, 10, 100)
	assert.ErrorIs(t, err, ErrPrecondition)
}
