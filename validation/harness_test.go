package validation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/if97"
)

// countingRecorder tallies harness callbacks.
type countingRecorder struct {
	mu      sync.Mutex
	checks  map[if97.Region]int
	regions map[if97.Region]bool
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{checks: map[if97.Region]int{}, regions: map[if97.Region]bool{}}
}

func (c *countingRecorder) ObserveCheck(r if97.Region, _ string, _ float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[r]++
}

func (c *countingRecorder) ObserveRegion(r if97.Region, passed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions[r] = passed
}

func TestHarness_DefaultFixturePasses(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	rec := newCountingRecorder()
	h := NewHarness(if97.New(if97.DefaultConfig()), Options{Recorder: rec})

	rep, err := h.Run(context.Background(), tbl)
	require.NoError(t, err)
	require.NotEmpty(t, rep.RunID)

	AssertReport(t, rep)
	PrintSummary(t, rep)

	for _, r := range tbl.RegionsPresent() {
		rr, ok := rep.Region(r)
		require.True(t, ok, r.String())
		assert.Equal(t, if97.AccuracyClaim(r), rr.Tolerance)
		assert.Len(t, rr.Cases, len(tbl.Cases(r)))
		assert.Equal(t, rr.Summary.Count, rec.checks[r])
		assert.True(t, rec.regions[r])
	}
}

func TestHarness_CaseResultsCarrySource(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	rep, err := NewHarness(if97.New(if97.DefaultConfig()), Options{}).Run(context.Background(), tbl)
	require.NoError(t, err)

	for _, r := range tbl.RegionsPresent() {
		rr, _ := rep.Region(r)
		for i, c := range tbl.Cases(r) {
			assert.Equal(t, c.Source, rr.Cases[i].Source, "%s/%s", r, c.Name)
		}
	}
}

// The worked examples from the engine's documentation, checked against the
// embedded reference rows.
func TestScenarios_AgainstReference(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)
	eng := if97.New(if97.DefaultConfig())

	find := func(r if97.Region, name string) Case {
		t.Helper()
		for _, c := range tbl.Cases(r) {
			if c.Name == name {
				return c
			}
		}
		t.Fatalf("no %s case named %q", r, name)
		return Case{}
	}

	tests := []struct {
		region if97.Region
		name   string
		tol    float64
	}{
		{if97.CompressedLiquid, "10MPa-500K", 0.03},
		{if97.SuperheatedVapor, "0.1MPa-400K", 0.06},
	}
	for _, tt := range tests {
		c := find(tt.region, tt.name)
		h, err := eng.Enthalpy(if97.Q(c.Pressure, if97.Pascal), if97.Q(c.Temperature, if97.Kelvin))
		require.NoError(t, err, c.Name)
		AssertWithin(t, c.Name+" enthalpy", h.Value, c.Expected["enthalpy"], tt.tol)
	}

	ts, err := if97.SaturationTemperature(if97.TriplePressure)
	require.NoError(t, err)
	AssertWithin(t, "Tsat(611.657 Pa)", ts, if97.TripleTemperature, 0.1/if97.TripleTemperature*100)
}

func TestHarness_ToleranceExceeded(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	tol := DefaultTolerances()
	tol[if97.SuperheatedVapor] = 1e-15

	rep, err := NewHarness(if97.New(if97.DefaultConfig()), Options{Tolerances: tol}).
		Run(context.Background(), tbl)
	require.NoError(t, err)

	assert.False(t, rep.Passed)
	rr, _ := rep.Region(if97.SuperheatedVapor)
	assert.False(t, rr.Passed)
	assert.Positive(t, rr.Failed)
	assert.Zero(t, rr.Errored)

	other, _ := rep.Region(if97.CompressedLiquid)
	assert.True(t, other.Passed)

	t.Logf("✓ %d of %d vapour cases flagged at a 1e-15%% tolerance", rr.Failed, len(rr.Cases))
}

func TestHarness_EngineErrorsFailTheRegion(t *testing.T) {
	tbl := &Table{
		Version: FixtureVersion,
		Regions: map[string][]Case{
			"dense_supercritical": {
				{Name: "near-critical", Pressure: 22.1e6, Temperature: 648, Expected: map[string]float64{"density": 322}},
				{Name: "table33", Pressure: 25.5837018e6, Temperature: 650, Expected: map[string]float64{"density": 500}},
			},
			"compressed_liquid": {
				// Region 2 state filed under region 1.
				{Name: "misfiled", Pressure: 3500, Temperature: 300, Expected: map[string]float64{"enthalpy": 2549.91145}},
			},
		},
	}

	rep, err := NewHarness(if97.New(if97.DefaultConfig()), Options{}).Run(context.Background(), tbl)
	require.NoError(t, err)
	assert.False(t, rep.Passed)

	dense, _ := rep.Region(if97.DenseSupercritical)
	assert.Equal(t, 1, dense.Errored)
	assert.False(t, dense.Passed)
	assert.Contains(t, dense.Cases[0].Error, "critical")
	assert.True(t, dense.Cases[1].Passed())

	liquid, _ := rep.Region(if97.CompressedLiquid)
	assert.Equal(t, 1, liquid.Errored)
	assert.Contains(t, liquid.Cases[0].Error, "superheated_vapor")
}

func TestHarness_MissingTolerance(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	tol := Tolerances{if97.CompressedLiquid: 0.03}
	_, err = NewHarness(if97.New(if97.DefaultConfig()), Options{Tolerances: tol}).Run(context.Background(), tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tolerance")
}

func TestHarness_CancelledContext(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewHarness(if97.New(if97.DefaultConfig()), Options{}).Run(ctx, tbl)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSaturationValue_Keys(t *testing.T) {
	sat, err := if97.New(if97.DefaultConfig()).SaturationAtTemperature(if97.Q(400, if97.Kelvin))
	require.NoError(t, err)

	v, err := saturationValue(sat, "vapor_internal_energy")
	require.NoError(t, err)
	assert.Equal(t, sat.Vapor.InternalEnergy.Value, v)

	v, err = saturationValue(sat, "heat_of_vaporization")
	require.NoError(t, err)
	assert.Equal(t, sat.HeatOfVaporization.Value, v)

	_, err = saturationValue(sat, "steam_enthalpy")
	assert.Error(t, err)
	_, err = saturationValue(sat, "quality")
	assert.Error(t, err)
}
