package validation

import (
	"fmt"
	"testing"

	"github.com/alexshd/if97"
)

// AssertWithin verifies computed agrees with reference to tolPercent.
func AssertWithin(t testing.TB, label string, computed, reference, tolPercent float64) {
	t.Helper()

	e := relErrPercent(computed, reference)
	if e > tolPercent {
		t.Errorf("%s outside tolerance: computed %.9g, reference %.9g\n"+
			"  Relative error: %.4f%% (max: %.4f%%)",
			label, computed, reference, e, tolPercent)
		return
	}
	t.Logf("✓ %s: %.2e%% (tolerance %.2f%%)", label, e, tolPercent)
}

// AssertRegion verifies one region of a report passed, listing every
// failing check otherwise.
func AssertRegion(t testing.TB, r *Report, region if97.Region) {
	t.Helper()

	rr, ok := r.Region(region)
	if !ok {
		t.Errorf("report %s has no results for %s", r.RunID, region)
		return
	}

	var failures []string
	for _, c := range rr.Cases {
		if c.Error != "" {
			failures = append(failures, fmt.Sprintf("  %s: %s", c.Name, c.Error))
			continue
		}
		for _, ch := range c.Checks {
			if !ch.Within {
				failures = append(failures, fmt.Sprintf(
					"  %s %s: %.9g vs %.9g (%.4f%%)",
					c.Name, ch.Property, ch.Computed, ch.Reference, ch.RelErr))
			}
		}
	}

	if !rr.Passed {
		t.Errorf("%s failed (tolerance %.2f%%):\n%v", region, rr.Tolerance, failures)
		return
	}
	t.Logf("✓ %s: %d cases, max error %.2e%% (tolerance %.2f%%)",
		region, len(rr.Cases), rr.Summary.Max, rr.Tolerance)
}

// AssertReport runs AssertRegion for every region in r as subtests.
func AssertReport(t *testing.T, r *Report) {
	t.Helper()

	for _, rr := range r.Regions {
		t.Run(rr.Name, func(t *testing.T) {
			AssertRegion(t, r, rr.Region)
		})
	}
	if !r.Passed {
		t.Errorf("validation run %s failed", r.RunID)
	}
}

// AssertDeterministic verifies a load run saw only bit-identical results.
func AssertDeterministic(t testing.TB, results []LoadResult) {
	t.Helper()

	for _, res := range results {
		if res.Mismatches > 0 {
			t.Errorf("N=%d: %d evaluations differed from the serial baseline", res.N, res.Mismatches)
		}
	}
	t.Logf("✓ Deterministic across %d concurrency levels", len(results))
}

// PrintSummary logs the per-region error distributions.
func PrintSummary(t testing.TB, r *Report) {
	t.Helper()

	t.Logf("\n=== Validation %s ===", r.RunID)
	t.Logf("  region                 n    max %%      mean %%     p95 %%      tail")
	t.Logf("  ---------------------  ---  ---------  ---------  ---------  ------")
	for _, rr := range r.Regions {
		s := rr.Summary
		t.Logf("  %-21s  %3d  %9.2e  %9.2e  %9.2e  %6.1f",
			rr.Name, s.Count, s.Max, s.Mean, s.P95, s.TailRatio())
	}
}
