package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/if97"
	"github.com/alexshd/if97/validation"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_EngineEvents(t *testing.T) {
	m := New()
	cfg := if97.DefaultConfig()
	cfg.Sink = m
	eng := if97.New(cfg)

	_, err := eng.PropertiesSI(10e6, 500)
	require.NoError(t, err)
	_, err = eng.PropertiesSI(50e6, 700)
	require.NoError(t, err)
	_, err = eng.PropertiesSI(22.1e6, 648)
	require.Error(t, err)
	_, err = eng.SaturationAtTemperature(if97.Q(400, if97.Kelvin))
	require.NoError(t, err)

	out := scrape(t, m)
	assert.Contains(t, out, `if97_region_assignments_total{region="compressed_liquid"} 1`)
	assert.Contains(t, out, `if97_region_assignments_total{region="dense_supercritical"} 1`)
	assert.Contains(t, out, `if97_region_assignments_total{region="critical_singularity"} 1`)
	assert.Contains(t, out, "if97_singularity_rejections_total 1")
	assert.Contains(t, out, `if97_solver_iterations_count{solver="region3_density"} 1`)
	assert.Contains(t, out, `if97_saturation_evaluations_total{outcome="ok"} 1`)

	t.Logf("✓ Engine events exported")
}

func TestMetrics_ValidationRecorder(t *testing.T) {
	tbl, err := validation.Default()
	require.NoError(t, err)

	m := New()
	rep, err := validation.NewHarness(if97.New(if97.DefaultConfig()), validation.Options{Recorder: m}).
		Run(context.Background(), tbl)
	require.NoError(t, err)
	require.True(t, rep.Passed)

	path := filepath.Join(t.TempDir(), "if97.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	for _, r := range tbl.RegionsPresent() {
		assert.Contains(t, out, `if97_validation_region_passed{region="`+r.String()+`"} 1`)
	}
	assert.Contains(t, out, `if97_validation_relative_error_percent_count{property="density",region="dense_supercritical"}`)
}

func TestMetrics_NilIsInert(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.OnEvent(if97.Event{Type: if97.EventRegionAssigned})
		m.ObserveCheck(if97.CompressedLiquid, "enthalpy", 1e-6)
		m.ObserveRegion(if97.CompressedLiquid, true)
	})
	assert.Error(t, m.WriteToTextfile(filepath.Join(t.TempDir(), "x.prom")))
}
