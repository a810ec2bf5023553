package validation

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexshd/if97"
)

// LoadConfig controls a concurrent load run against a shared Engine.
type LoadConfig struct {
	Duration time.Duration // How long to run at each concurrency level
	Warmup   time.Duration // Warmup period before measurement
	Levels   []int         // Concurrency levels (default: [1,2,4,8])
	MaxProcs int           // GOMAXPROCS limit (0 = runtime default)
}

// DefaultLoadConfig returns short defaults suited to a CLI run.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		Duration: 1 * time.Second,
		Warmup:   200 * time.Millisecond,
		Levels:   []int{1, 2, 4, 8},
	}
}

// LoadResult holds the measurements of one concurrency level.
type LoadResult struct {
	N          int             `json:"workers"`
	Duration   time.Duration   `json:"duration_ns"`
	Operations int64           `json:"operations"`
	Throughput float64         `json:"ops_per_sec"`
	Latencies  []time.Duration `json:"-"`
	Errors     int64           `json:"errors"`

	// Mismatches counts evaluations that were not bit-identical to the
	// serial baseline, or that failed where the baseline succeeded (or the
	// other way round).
	Mismatches int64 `json:"mismatches"`
}

// LatencyStats contains percentile latency data.
type LatencyStats struct {
	Mean   time.Duration `json:"mean_ns"`
	Stddev time.Duration `json:"stddev_ns"`
	P50    time.Duration `json:"p50_ns"`
	P95    time.Duration `json:"p95_ns"`
	P99    time.Duration `json:"p99_ns"`
}

// baseline is the serial reference result for one point.
type baseline struct {
	bits [4]uint64
	err  bool
}

func fingerprint(p if97.Properties) [4]uint64 {
	var b [4]uint64
	for i, k := range if97.AllProperties {
		b[i] = math.Float64bits(p.Get(k).Value)
	}
	return b
}

// RunLoad evaluates points with N concurrent workers sharing eng, for every
// level in cfg, and compares each evaluation against a serial baseline.
func RunLoad(ctx context.Context, eng *if97.Engine, points []if97.PTPoint, cfg LoadConfig) ([]LoadResult, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("validation: load run needs at least one point")
	}
	if cfg.MaxProcs > 0 {
		old := runtime.GOMAXPROCS(cfg.MaxProcs)
		defer runtime.GOMAXPROCS(old)
	}

	base := make([]baseline, len(points))
	for i, pt := range points {
		props, err := eng.PropertiesSI(pt.Pressure, pt.Temperature)
		base[i] = baseline{bits: fingerprint(props), err: err != nil}
	}

	results := make([]LoadResult, 0, len(cfg.Levels))
	for _, n := range cfg.Levels {
		if n <= 0 {
			return nil, fmt.Errorf("validation: invalid concurrency level %d", n)
		}
		if cfg.Warmup > 0 {
			warmCtx, cancel := context.WithTimeout(ctx, cfg.Warmup)
			_ = runPhase(warmCtx, eng, points, base, n)
			cancel()
		}

		measureCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
		res := runPhase(measureCtx, eng, points, base, n)
		cancel()
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("failed at N=%d: %w", n, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// runPhase runs n workers until ctx is done. Worker w starts at point w so
// that the workers interleave over the point set.
func runPhase(ctx context.Context, eng *if97.Engine, points []if97.PTPoint, base []baseline, n int) LoadResult {
	var (
		wg         sync.WaitGroup
		operations int64
		errs       int64
		mismatches int64
		latencies  = make([][]time.Duration, n)
	)

	start := time.Now()
	for w := 0; w < n; w++ {
		wg.Add(1)
		latencies[w] = make([]time.Duration, 0, 1024)

		go func() {
			defer wg.Done()
			for i := w % len(points); ; i = (i + 1) % len(points) {
				select {
				case <-ctx.Done():
					return
				default:
				}

				pt := points[i]
				opStart := time.Now()
				props, err := eng.PropertiesSI(pt.Pressure, pt.Temperature)
				lat := time.Since(opStart)

				if err != nil {
					atomic.AddInt64(&errs, 1)
				} else {
					atomic.AddInt64(&operations, 1)
					latencies[w] = append(latencies[w], lat)
				}
				if (err != nil) != base[i].err || (err == nil && fingerprint(props) != base[i].bits) {
					atomic.AddInt64(&mismatches, 1)
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	all := make([]time.Duration, 0, operations)
	for _, l := range latencies {
		all = append(all, l...)
	}

	return LoadResult{
		N:          n,
		Duration:   elapsed,
		Operations: operations,
		Throughput: float64(operations) / elapsed.Seconds(),
		Latencies:  all,
		Errors:     errs,
		Mismatches: mismatches,
	}
}

// CalculateStatistics computes percentile latencies.
func CalculateStatistics(result LoadResult) LatencyStats {
	if len(result.Latencies) == 0 {
		return LatencyStats{}
	}

	sorted := make([]time.Duration, len(result.Latencies))
	copy(sorted, result.Latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, lat := range sorted {
		sum += lat
	}
	mean := sum / time.Duration(len(sorted))

	var variance float64
	for _, lat := range sorted {
		diff := float64(lat - mean)
		variance += diff * diff
	}

	return LatencyStats{
		Mean:   mean,
		Stddev: time.Duration(math.Sqrt(variance / float64(len(sorted)))),
		P50:    sorted[len(sorted)*50/100],
		P95:    sorted[len(sorted)*95/100],
		P99:    sorted[len(sorted)*99/100],
	}
}
