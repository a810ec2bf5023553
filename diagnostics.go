package if97

import (
	"context"
	"log/slog"
)

// EventType identifies a diagnostic event raised by the engine.
type EventType string

const (
	EventRegionAssigned    EventType = "if97.region.assigned"
	EventSingularityCheck  EventType = "if97.singularity.check"
	EventConvergence       EventType = "if97.solver.converged"
	EventConvergenceFailed EventType = "if97.solver.failed"
	EventSaturation        EventType = "if97.saturation.solved"
)

// Solver names carried by convergence events.
const (
	solverRegion3Density        = "region3_density"
	solverSaturationPressure    = "saturation_pressure"
	solverSaturationTemperature = "saturation_temperature"
)

// Event is a single diagnostic record. Only the fields relevant to Type are
// set; the rest stay at their zero values.
type Event struct {
	Type        EventType
	Region      Region
	Pressure    float64 // Pa
	Temperature float64 // K

	// Singularity check.
	Distance float64
	Rejected bool

	// Solver outcome.
	Solver     string
	Iterations int
	Residual   float64

	Err error
}

// Level maps the event onto a log severity. Rejections and failures are
// warnings; everything else is debug chatter.
func (ev Event) Level() slog.Level {
	switch {
	case ev.Type == EventConvergenceFailed:
		return slog.LevelWarn
	case ev.Rejected, ev.Err != nil:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// Sink receives diagnostic events. Implementations must be safe for
// concurrent use since one Engine serves many goroutines.
type Sink interface {
	OnEvent(ev Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}

// LoggerSink writes events to a slog.Logger. The event type is the message;
// the populated fields become attributes.
type LoggerSink struct {
	logger *slog.Logger
}

// NewLoggerSink returns a sink that logs to logger, or to slog.Default()
// when logger is nil.
func NewLoggerSink(logger *slog.Logger) *LoggerSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggerSink{logger: logger}
}

func (s *LoggerSink) OnEvent(ev Event) {
	lvl := ev.Level()
	if !s.logger.Enabled(context.Background(), lvl) {
		return
	}

	attrs := make([]slog.Attr, 0, 8)
	if ev.Region != 0 {
		attrs = append(attrs, slog.String("region", ev.Region.String()))
	}
	attrs = append(attrs,
		slog.Float64("pressure_pa", ev.Pressure),
		slog.Float64("temperature_k", ev.Temperature),
	)
	if ev.Type == EventSingularityCheck {
		attrs = append(attrs,
			slog.Float64("distance", ev.Distance),
			slog.Float64("headroom", CriticalHeadroom(ev.Pressure, ev.Temperature)),
			slog.Bool("rejected", ev.Rejected),
		)
	}
	if ev.Solver != "" {
		attrs = append(attrs,
			slog.String("solver", ev.Solver),
			slog.Int("iterations", ev.Iterations),
			slog.Float64("residual", ev.Residual),
		)
	}
	if ev.Err != nil {
		attrs = append(attrs, slog.String("error", ev.Err.Error()))
	}

	s.logger.LogAttrs(context.Background(), lvl, string(ev.Type), attrs...)
}

// MultiSink fans events out to several sinks in order.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink drops nil entries from sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &MultiSink{sinks: kept}
}

func (m *MultiSink) OnEvent(ev Event) {
	for _, s := range m.sinks {
		s.OnEvent(ev)
	}
}
