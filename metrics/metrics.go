// Package metrics exposes engine diagnostics and validation outcomes as
// Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexshd/if97"
)

// Metrics implements if97.Sink and validation.Recorder.
type Metrics struct {
	reg *prometheus.Registry

	// Region assignments by outcome region
	RegionAssignments *prometheus.CounterVec

	// Points refused by the critical-point guard
	SingularityRejections prometheus.Counter

	// Iterations per converged solve, by solver
	SolverIterations *prometheus.HistogramVec

	// Failed solves by solver
	SolverFailures *prometheus.CounterVec

	// Saturation evaluations by outcome ("ok" or "error")
	SaturationEvaluations *prometheus.CounterVec

	// Validation relative error in percent, by region and property
	ValidationError *prometheus.HistogramVec

	// 1 when the region passed its last validation run, 0 otherwise
	ValidationPassed *prometheus.GaugeVec
}

// New registers every metric on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,

		RegionAssignments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "if97_region_assignments_total",
			Help: "Total classified points by region",
		}, []string{"region"}),

		SingularityRejections: f.NewCounter(prometheus.CounterOpts{
			Name: "if97_singularity_rejections_total",
			Help: "Total points rejected inside the critical exclusion zone",
		}),

		SolverIterations: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "if97_solver_iterations",
			Help:    "Iterations taken by converged root solves",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}, []string{"solver"}),

		SolverFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "if97_solver_failures_total",
			Help: "Total root solves that did not converge",
		}, []string{"solver"}),

		SaturationEvaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "if97_saturation_evaluations_total",
			Help: "Total saturation evaluations by outcome",
		}, []string{"outcome"}),

		ValidationError: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "if97_validation_relative_error_percent",
			Help:    "Relative error against reference values, in percent",
			Buckets: prometheus.ExponentialBuckets(1e-9, 10, 10),
		}, []string{"region", "property"}),

		ValidationPassed: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "if97_validation_region_passed",
			Help: "Whether the region passed its most recent validation run",
		}, []string{"region"}),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// WriteToTextfile writes the current values to path for the node exporter
// textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return errors.New("metrics: nil collector")
	}
	return prometheus.WriteToTextfile(path, m.reg)
}

// OnEvent records one engine event.
func (m *Metrics) OnEvent(ev if97.Event) {
	if m == nil {
		return
	}
	switch ev.Type {
	case if97.EventRegionAssigned:
		m.RegionAssignments.WithLabelValues(ev.Region.String()).Inc()
	case if97.EventSingularityCheck:
		if ev.Rejected {
			m.SingularityRejections.Inc()
		}
	case if97.EventConvergence:
		m.SolverIterations.WithLabelValues(ev.Solver).Observe(float64(ev.Iterations))
	case if97.EventConvergenceFailed:
		m.SolverFailures.WithLabelValues(ev.Solver).Inc()
	case if97.EventSaturation:
		outcome := "ok"
		if ev.Err != nil {
			outcome = "error"
		}
		m.SaturationEvaluations.WithLabelValues(outcome).Inc()
	}
}

// ObserveCheck records one validation comparison.
func (m *Metrics) ObserveCheck(region if97.Region, property string, relErrPercent float64) {
	if m != nil {
		m.ValidationError.WithLabelValues(region.String(), property).Observe(relErrPercent)
	}
}

// ObserveRegion records a region's validation verdict.
func (m *Metrics) ObserveRegion(region if97.Region, passed bool) {
	if m == nil {
		return
	}
	v := 0.0
	if passed {
		v = 1
	}
	m.ValidationPassed.WithLabelValues(region.String()).Set(v)
}
