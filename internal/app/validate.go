package app

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alexshd/if97"
	"github.com/alexshd/if97/metrics"
	"github.com/alexshd/if97/validation"
)

// loadFixture reads path, falling back to IF97_FIXTURE and then to the
// embedded table.
func (e *env) loadFixture(path string) (*validation.Table, error) {
	if path == "" {
		path = e.cfg.Fixture
	}
	if path == "" {
		return validation.Default()
	}
	e.logger.Debug("loading fixture", slog.String("path", path))
	return validation.LoadFile(path)
}

func runValidate(e *env, args []string) error {
	fs := e.newFlagSet("validate", "[--fixture FILE] [--format text|json] [--metrics-file FILE]")
	var (
		ef          engineFlags
		fixture     = fs.String("fixture", "", "reference table (default: IF97_FIXTURE or the embedded table)")
		format      = fs.String("format", "text", "text or json")
		metricsFile = fs.String("metrics-file", "", "write Prometheus textfile metrics to FILE")
	)
	ef.register(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}

	tbl, err := e.loadFixture(*fixture)
	if err != nil {
		return usagef("validate: %v", err)
	}

	opts := validation.Options{Logger: e.logger}
	var sinks []if97.Sink
	var m *metrics.Metrics
	if *metricsFile != "" {
		m = metrics.New()
		opts.Recorder = m
		sinks = append(sinks, m)
	}
	eng, err := ef.engine(e.logger, sinks...)
	if err != nil {
		return err
	}

	rep, err := validation.NewHarness(eng, opts).Run(e.ctx, tbl)
	if err != nil {
		return err
	}

	if *format == "json" {
		err = validation.WriteJSON(e.out, rep)
	} else {
		err = validation.WriteText(e.out, rep)
	}
	if err != nil {
		return err
	}

	if m != nil {
		if err := m.WriteToTextfile(*metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if !rep.Passed {
		return errValidationFailed
	}
	return nil
}

// parseLevels reads a comma list of positive worker counts.
func parseLevels(s string) ([]int, error) {
	var levels []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, usagef("--levels: %q is not a positive integer", part)
		}
		levels = append(levels, n)
	}
	return levels, nil
}

func runBench(e *env, args []string) error {
	fs := e.newFlagSet("bench", "[--duration D] [--levels 1,2,4,8] [--fixture FILE] [--format text|json]")
	def := validation.DefaultLoadConfig()
	var (
		ef       engineFlags
		duration = fs.Duration("duration", def.Duration, "measurement time per concurrency level")
		warmup   = fs.Duration("warmup", def.Warmup, "warmup time per concurrency level")
		levels   = fs.String("levels", "1,2,4,8", "comma-separated worker counts")
		procs    = fs.Int("procs", 0, "GOMAXPROCS during the run (0 keeps the runtime default)")
		fixture  = fs.String("fixture", "", "reference table supplying the load points")
		format   = fs.String("format", "text", "text or json")
	)
	ef.register(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	if *duration <= 0 {
		return usagef("--duration must be positive")
	}
	lv, err := parseLevels(*levels)
	if err != nil {
		return err
	}

	tbl, err := e.loadFixture(*fixture)
	if err != nil {
		return usagef("bench: %v", err)
	}
	points := tbl.Points()
	if len(points) == 0 {
		return usagef("bench: fixture has no single-phase cases")
	}

	// Per-evaluation logging would dominate the measurement.
	eng, err := ef.engine(slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}

	cfg := validation.LoadConfig{Duration: *duration, Warmup: *warmup, Levels: lv, MaxProcs: *procs}
	e.logger.Info("load run starting",
		slog.Int("points", len(points)), slog.Any("levels", lv), slog.Duration("duration", *duration))
	results, err := validation.RunLoad(e.ctx, eng, points, cfg)
	if err != nil {
		return err
	}

	var mismatches int64
	for _, r := range results {
		mismatches += r.Mismatches
	}

	if *format == "json" {
		type levelJSON struct {
			validation.LoadResult
			Latency validation.LatencyStats `json:"latency"`
		}
		out := make([]levelJSON, 0, len(results))
		for _, r := range results {
			out = append(out, levelJSON{LoadResult: r, Latency: validation.CalculateStatistics(r)})
		}
		err = writeJSON(e, out)
	} else {
		err = writeBenchText(e, results)
	}
	if err != nil {
		return err
	}

	if mismatches > 0 {
		e.logger.Error("evaluations diverged from the serial baseline", slog.Int64("mismatches", mismatches))
		return errValidationFailed
	}
	return nil
}

func writeBenchText(e *env, results []validation.LoadResult) error {
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "workers\tops\tops/s\tp50\tp95\tp99\terrors\tmismatches\t")
	for _, r := range results {
		s := validation.CalculateStatistics(r)
		fmt.Fprintf(tw, "%d\t%d\t%.0f\t%v\t%v\t%v\t%d\t%d\t\n",
			r.N, r.Operations, r.Throughput,
			s.P50, s.P95, s.P99, r.Errors, r.Mismatches)
	}
	return tw.Flush()
}
