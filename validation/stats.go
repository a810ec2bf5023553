package validation

import (
	"math"
	"sort"
)

// Summary describes a distribution of relative errors (percent).
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Stddev float64 `json:"stddev"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Summarize computes the summary of errs. The input is not modified.
func Summarize(errs []float64) Summary {
	if len(errs) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(errs))
	copy(sorted, errs)
	sort.Float64s(sorted)

	var sum float64
	for _, e := range sorted {
		sum += e
	}
	mean := sum / float64(len(sorted))

	var variance float64
	for _, e := range sorted {
		diff := e - mean
		variance += diff * diff
	}

	return Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		Stddev: math.Sqrt(variance / float64(len(sorted))),
		Median: median(sorted),
		P95:    sorted[len(sorted)*95/100],
		P99:    sorted[len(sorted)*99/100],
	}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// TailRatio returns P99/Median. A ratio near 1 means the errors are
// uniformly small; a large ratio means a few cases dominate.
func (s Summary) TailRatio() float64 {
	if s.Median == 0 {
		if s.P99 == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return s.P99 / s.Median
}

// relErrPercent is |computed − reference| / |reference| · 100.
func relErrPercent(computed, reference float64) float64 {
	return math.Abs(computed-reference) / math.Abs(reference) * 100
}
