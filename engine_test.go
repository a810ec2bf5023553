package if97

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relErrPercent is the accuracy measure used throughout: |c − r| / |r| · 100.
func relErrPercent(computed, reference float64) float64 {
	return math.Abs(computed-reference) / math.Abs(reference) * 100
}

func TestEngine_CompressedLiquidScenario(t *testing.T) {
	e := New(DefaultConfig())

	props, err := e.Properties(Q(10, Megapascal), Q(500, Kelvin))
	require.NoError(t, err)
	assert.Equal(t, CompressedLiquid, props.Region)

	ref := map[Property]float64{
		Enthalpy:       977.213910,
		Entropy:        2.56699345,
		InternalEnergy: 965.281214,
		Density:        838.033574,
	}
	for k, want := range ref {
		got := props.Get(k).Value
		assert.Less(t, relErrPercent(got, want), AccuracyClaim(CompressedLiquid), "%s: %g vs %g", k, got, want)
	}

	t.Logf("✓ 10 MPa, 500 K: h = %s, s = %s", props.Enthalpy, props.Entropy)
}

func TestEngine_SuperheatedVaporScenario(t *testing.T) {
	e := New(DefaultConfig())

	props, err := e.Properties(Q(0.1, Megapascal), Q(400, Kelvin))
	require.NoError(t, err)
	assert.Equal(t, SuperheatedVapor, props.Region)

	ref := map[Property]float64{
		Enthalpy:       2730.39785,
		Entropy:        7.50240089,
		InternalEnergy: 2547.77729,
		Density:        0.547583483,
	}
	for k, want := range ref {
		got := props.Get(k).Value
		assert.Less(t, relErrPercent(got, want), AccuracyClaim(SuperheatedVapor), "%s: %g vs %g", k, got, want)
	}
}

func TestEngine_DenseSupercriticalScenario(t *testing.T) {
	e := New(DefaultConfig())

	props, err := e.PropertiesSI(0.255837018e8, 650)
	require.NoError(t, err)
	assert.Equal(t, DenseSupercritical, props.Region)
	assert.InEpsilon(t, 500, props.Density.Value, 1e-7)
	assert.InEpsilon(t, 0.186343019e4, props.Enthalpy.Value, 1e-7)
	assert.InEpsilon(t, 0.405427273e1, props.Entropy.Value, 1e-7)
	assert.InEpsilon(t, 0.181226279e4, props.InternalEnergy.Value, 1e-7)
	assert.Equal(t, 0.255837018e8, props.Point.Pressure)
}

func TestEngine_UnitConversion(t *testing.T) {
	e := New(DefaultConfig())

	si, err := e.PropertiesSI(10e6, 500)
	require.NoError(t, err)

	mixed, err := e.Properties(Q(100, Bar), Q(226.85, Celsius))
	require.NoError(t, err)
	assert.InEpsilon(t, si.Enthalpy.Value, mixed.Enthalpy.Value, 1e-12)

	hJ, err := e.Property(Enthalpy, Q(10, Megapascal), Q(500, Kelvin), JoulePerKilogram)
	require.NoError(t, err)
	assert.Equal(t, JoulePerKilogram, hJ.Unit)
	assert.InEpsilon(t, si.Enthalpy.Value*1e3, hJ.Value, 1e-12)

	rho, err := e.Property(Density, Q(10, Megapascal), Q(500, Kelvin), GramPerCubicCentimetre)
	require.NoError(t, err)
	assert.InEpsilon(t, si.Density.Value/1e3, rho.Value, 1e-12)

	_, err = e.Property(Density, Q(10, Megapascal), Q(500, Kelvin), Kelvin)
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = e.Properties(Q(10, Kelvin), Q(500, Kelvin))
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestEngine_ScalarAccessors(t *testing.T) {
	e := New(DefaultConfig())
	p, temp := Q(1, Megapascal), Q(500, Kelvin)

	props, err := e.Properties(p, temp)
	require.NoError(t, err)

	accessors := map[Property]func(Quantity, Quantity) (Quantity, error){
		Enthalpy:       e.Enthalpy,
		Entropy:        e.Entropy,
		InternalEnergy: e.InternalEnergy,
		Density:        e.Density,
	}
	for k, fn := range accessors {
		q, err := fn(p, temp)
		require.NoError(t, err, "%s", k)
		assert.Equal(t, props.Get(k), q, "%s", k)
	}
}

func TestEngine_DomainErrorsPropagate(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.PropertiesSI(saturationPressure(450), 450)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = e.PropertiesSI(1e6, 1000)
	assert.ErrorIs(t, err, ErrInputRange)

	_, err = e.PropertiesSI(CriticalPressure, CriticalTemperature)
	assert.ErrorIs(t, err, ErrNumericalInstability)

	props, err := e.PropertiesSI(math.NaN(), 400)
	assert.ErrorIs(t, err, ErrInputRange)
	assert.Equal(t, OutOfRange, props.Region)
}

func TestEngine_SaturationToleranceConfigurable(t *testing.T) {
	p := saturationPressure(450) + 50

	r, err := New(DefaultConfig()).ClassifySI(p, 450)
	require.NoError(t, err)
	assert.Equal(t, CompressedLiquid, r)

	cfg := DefaultConfig()
	cfg.SaturationTolerance = 100
	r, err = New(cfg).ClassifySI(p, 450)
	assert.Equal(t, SaturationLine, r)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEngine_Classify(t *testing.T) {
	e := New(DefaultConfig())

	r, err := e.Classify(Q(50, Megapascal), Q(700, Kelvin))
	require.NoError(t, err)
	assert.Equal(t, DenseSupercritical, r)

	r, err = e.Classify(Q(1, Megapascal), Q(1, Megapascal))
	assert.Equal(t, OutOfRange, r)
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestNew_FillsDefaults(t *testing.T) {
	e := New(Config{})
	cfg := e.Config()
	def := DefaultConfig()

	assert.Equal(t, def.SaturationTolerance, cfg.SaturationTolerance)
	assert.Equal(t, def.RootTolerance, cfg.RootTolerance)
	assert.Equal(t, def.MaxIterations, cfg.MaxIterations)
	assert.Equal(t, def.MaxBracketSteps, cfg.MaxBracketSteps)
	assert.NotNil(t, cfg.Sink)
	assert.NotNil(t, cfg.Units)
}

func TestParseProperty(t *testing.T) {
	tests := map[string]Property{
		"h": Enthalpy, "Enthalpy": Enthalpy,
		"s": Entropy, "u": InternalEnergy, "internal_energy": InternalEnergy,
		"rho": Density, "density": Density,
	}
	for in, want := range tests {
		got, err := ParseProperty(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseProperty("cp")
	assert.Error(t, err)
}

var determinismPoints = [][2]float64{
	{3e6, 300}, {10e6, 500}, {80e6, 350}, {0.1e6, 400}, {3.5e3, 700},
	{20e6, 800}, {50e6, 700}, {0.255837018e8, 650}, {90e6, 860},
}

func evaluateAll(t *testing.T, e *Engine) []Properties {
	t.Helper()
	out := make([]Properties, len(determinismPoints))
	for i, pt := range determinismPoints {
		props, err := e.PropertiesSI(pt[0], pt[1])
		require.NoError(t, err, "(%g Pa, %g K)", pt[0], pt[1])
		out[i] = props
	}
	return out
}

func bitsEqual(a, b Properties) bool {
	for _, k := range AllProperties {
		if math.Float64bits(a.Get(k).Value) != math.Float64bits(b.Get(k).Value) {
			return false
		}
	}
	return a.Region == b.Region
}

// TestEngine_RepeatedEvaluationIsBitIdentical verifies there is no hidden
// state between calls.
func TestEngine_RepeatedEvaluationIsBitIdentical(t *testing.T) {
	e := New(DefaultConfig())
	first := evaluateAll(t, e)

	for round := 0; round < 5; round++ {
		again := evaluateAll(t, e)
		for i := range first {
			assert.True(t, bitsEqual(first[i], again[i]), "round %d point %v", round, determinismPoints[i])
		}
	}
}

// TestEngine_ConcurrentEvaluationIsBitIdentical shares one Engine across
// goroutines, the same way the load runner does.
func TestEngine_ConcurrentEvaluationIsBitIdentical(t *testing.T) {
	e := New(DefaultConfig())
	want := evaluateAll(t, e)

	const workers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		mismatches int
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := 0; round < 20; round++ {
				for i, pt := range determinismPoints {
					got, err := e.PropertiesSI(pt[0], pt[1])
					if err != nil || !bitsEqual(want[i], got) {
						mu.Lock()
						mismatches++
						mu.Unlock()
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, mismatches)
	t.Logf("✓ %d workers × %d points: bit-identical", workers, len(determinismPoints))
}

func TestEngine_Info(t *testing.T) {
	info := New(DefaultConfig()).Info()
	require.Len(t, info, 4)

	for _, ri := range info {
		assert.True(t, ri.Region.SinglePhase() || ri.Region == SaturationLine)
		assert.Less(t, ri.TemperatureMin, ri.TemperatureMax, ri.Region.String())
		assert.Less(t, ri.PressureMin, ri.PressureMax, ri.Region.String())
		assert.Positive(t, ri.Accuracy)
	}
	assert.Equal(t, 0.0, AccuracyClaim(OutOfRange))
}
