package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alexshd/if97"
)

// Tolerances maps each region to its maximum accepted relative error, in
// percent.
type Tolerances map[if97.Region]float64

// DefaultTolerances returns the engine's declared accuracy per region.
func DefaultTolerances() Tolerances {
	tol := make(Tolerances)
	for _, r := range if97.Regions {
		if claim := if97.AccuracyClaim(r); claim > 0 {
			tol[r] = claim
		}
	}
	return tol
}

// Recorder receives harness outcomes as they are produced. It must be
// safe for concurrent use; regions are evaluated in parallel.
type Recorder interface {
	ObserveCheck(region if97.Region, property string, relErrPercent float64)
	ObserveRegion(region if97.Region, passed bool)
}

// Options configures a Harness. Zero values take defaults.
type Options struct {
	Tolerances Tolerances
	Recorder   Recorder
	Logger     *slog.Logger
}

// Harness evaluates reference tables against an engine.
type Harness struct {
	eng    *if97.Engine
	tol    Tolerances
	rec    Recorder
	logger *slog.Logger
}

// NewHarness returns a harness for eng.
func NewHarness(eng *if97.Engine, opts Options) *Harness {
	if opts.Tolerances == nil {
		opts.Tolerances = DefaultTolerances()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Harness{eng: eng, tol: opts.Tolerances, rec: opts.Recorder, logger: opts.Logger}
}

// Check is one computed-vs-reference comparison.
type Check struct {
	Property  string  `json:"property"`
	Computed  float64 `json:"computed"`
	Reference float64 `json:"reference"`
	RelErr    float64 `json:"rel_err_percent"`
	Within    bool    `json:"within_tolerance"`
}

// CaseResult is the outcome of one reference case. Error is set when the
// engine refused the case; such a case has no checks and fails its region.
type CaseResult struct {
	Name   string  `json:"name"`
	Source string  `json:"source,omitempty"`
	Checks []Check `json:"checks,omitempty"`
	MaxErr float64 `json:"max_rel_err_percent"`
	Error  string  `json:"error,omitempty"`
}

// Passed reports whether the case evaluated and every check is within
// tolerance.
func (c CaseResult) Passed() bool {
	if c.Error != "" {
		return false
	}
	for _, ch := range c.Checks {
		if !ch.Within {
			return false
		}
	}
	return true
}

// RegionReport aggregates one region's cases.
type RegionReport struct {
	Region    if97.Region  `json:"-"`
	Name      string       `json:"region"`
	Tolerance float64      `json:"tolerance_percent"`
	Cases     []CaseResult `json:"cases"`
	Summary   Summary      `json:"summary"`
	Failed    int          `json:"failed"`
	Errored   int          `json:"errored"`
	Passed    bool         `json:"passed"`
}

// Report is the outcome of a harness run.
type Report struct {
	RunID     string         `json:"run_id"`
	Source    string         `json:"source,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration_ns"`
	Regions   []RegionReport `json:"regions"`
	Passed    bool           `json:"passed"`
}

// Region returns the report for r, if the run covered it.
func (r *Report) Region(region if97.Region) (RegionReport, bool) {
	for _, rr := range r.Regions {
		if rr.Region == region {
			return rr, true
		}
	}
	return RegionReport{}, false
}

// Run evaluates every region of t concurrently. Case-level engine errors
// are recorded in the report; Run itself fails only when ctx is done or a
// region has no tolerance.
func (h *Harness) Run(ctx context.Context, t *Table) (*Report, error) {
	start := time.Now()
	regions := t.RegionsPresent()
	for _, r := range regions {
		if _, ok := h.tol[r]; !ok {
			return nil, fmt.Errorf("validation: no tolerance for region %s", r)
		}
	}

	reports := make([]RegionReport, len(regions))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range regions {
		g.Go(func() error {
			rr, err := h.runRegion(ctx, t, r)
			if err != nil {
				return err
			}
			reports[i] = rr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{
		RunID:     uuid.NewString(),
		Source:    t.Source,
		StartedAt: start,
		Duration:  time.Since(start),
		Regions:   reports,
		Passed:    len(reports) > 0,
	}
	for _, rr := range reports {
		rep.Passed = rep.Passed && rr.Passed
	}

	h.logger.Info("validation finished",
		slog.String("run_id", rep.RunID),
		slog.Int("regions", len(reports)),
		slog.Bool("passed", rep.Passed),
		slog.Duration("duration", rep.Duration),
	)
	return rep, nil
}

func (h *Harness) runRegion(ctx context.Context, t *Table, r if97.Region) (RegionReport, error) {
	rr := RegionReport{Region: r, Name: r.String(), Tolerance: h.tol[r]}
	var errs []float64

	for _, c := range t.Cases(r) {
		if err := ctx.Err(); err != nil {
			return RegionReport{}, err
		}

		res := h.runCase(r, c)
		res.Source = t.SourceOf(c)
		for _, ch := range res.Checks {
			errs = append(errs, ch.RelErr)
		}
		switch {
		case res.Error != "":
			rr.Errored++
			h.logger.Warn("reference case errored",
				slog.String("region", r.String()), slog.String("case", c.Name), slog.String("source", res.Source),
				slog.String("error", res.Error))
		case !res.Passed():
			rr.Failed++
			h.logger.Warn("reference case outside tolerance",
				slog.String("region", r.String()), slog.String("case", c.Name), slog.String("source", res.Source),
				slog.Float64("max_rel_err_percent", res.MaxErr), slog.Float64("tolerance_percent", rr.Tolerance))
		default:
			h.logger.Debug("reference case passed",
				slog.String("region", r.String()), slog.String("case", c.Name),
				slog.Float64("max_rel_err_percent", res.MaxErr))
		}
		rr.Cases = append(rr.Cases, res)
	}

	rr.Summary = Summarize(errs)
	rr.Passed = rr.Errored == 0 && rr.Summary.Max <= rr.Tolerance
	if h.rec != nil {
		h.rec.ObserveRegion(r, rr.Passed)
	}
	return rr, nil
}

// runCase evaluates one case and compares every expected value.
func (h *Harness) runCase(r if97.Region, c Case) CaseResult {
	res := CaseResult{Name: c.Name}

	lookup, err := h.evaluate(r, c)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	tol := h.tol[r]
	for _, key := range sortedKeys(c.Expected) {
		ref := c.Expected[key]
		got, err := lookup(key)
		if err != nil {
			res.Error = err.Error()
			res.Checks = nil
			return res
		}
		e := relErrPercent(got, ref)
		res.Checks = append(res.Checks, Check{
			Property: key, Computed: got, Reference: ref, RelErr: e, Within: e <= tol,
		})
		res.MaxErr = max(res.MaxErr, e)
		if h.rec != nil {
			h.rec.ObserveCheck(r, key, e)
		}
	}
	return res
}

// evaluate runs the engine for c and returns a lookup over the outputs.
func (h *Harness) evaluate(r if97.Region, c Case) (func(string) (float64, error), error) {
	if r == if97.SaturationLine {
		var (
			sat if97.SaturationState
			err error
		)
		if c.Query == QueryPressure {
			sat, err = h.eng.SaturationAtPressure(if97.Q(c.Pressure, if97.Pascal))
		} else {
			sat, err = h.eng.SaturationAtTemperature(if97.Q(c.Temperature, if97.Kelvin))
		}
		if err != nil {
			return nil, err
		}
		return func(key string) (float64, error) { return saturationValue(sat, key) }, nil
	}

	props, err := h.eng.PropertiesSI(c.Pressure, c.Temperature)
	if err != nil {
		return nil, err
	}
	if props.Region != r {
		return nil, fmt.Errorf("classified as %s, listed under %s", props.Region, r)
	}
	return func(key string) (float64, error) {
		k, err := if97.ParseProperty(key)
		if err != nil {
			return 0, err
		}
		return props.Get(k).Value, nil
	}, nil
}

func saturationValue(sat if97.SaturationState, key string) (float64, error) {
	switch key {
	case "pressure":
		return sat.Pressure.Value, nil
	case "temperature":
		return sat.Temperature.Value, nil
	case "heat_of_vaporization":
		return sat.HeatOfVaporization.Value, nil
	}

	phase, prop, ok := strings.Cut(key, "_")
	if !ok {
		return 0, fmt.Errorf("unknown saturation key %q", key)
	}
	k, err := if97.ParseProperty(prop)
	if err != nil {
		return 0, err
	}
	switch phase {
	case "liquid":
		return sat.Liquid.Get(k).Value, nil
	case "vapor":
		return sat.Vapor.Get(k).Value, nil
	default:
		return 0, fmt.Errorf("unknown saturation phase %q", phase)
	}
}
