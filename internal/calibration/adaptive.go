// This file implements adaptive threshold generation based on hardware characteristics.

package calibration

import (
	"runtime"
	"slices"

	"github.com/agbru/parbench/internal/workload"
)

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Column Threshold Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateColumnThresholds returns the leaf thresholds worth benchmarking for
// a grid of cols columns, in ascending order.
//
// The candidates are:
// - powers of four below cols (fine-grained leaves, many forks)
// - the default threshold
// - one leaf per core, the coarsest split that still keeps every core busy
// - cols itself, a single leaf (sequential)
//
// On a single core only the sequential threshold is returned.
func GenerateColumnThresholds(cols int) []int {
	if cols <= 1 {
		return []int{1}
	}
	numCPU := runtime.NumCPU()
	if numCPU == 1 {
		return []int{cols}
	}

	candidates := []int{workload.DefaultColumnThreshold, ceilDiv(cols, numCPU), cols}
	for t := 1; t < cols; t *= 4 {
		candidates = append(candidates, t)
	}

	thresholds := candidates[:0]
	for _, t := range candidates {
		if t >= 1 && t <= cols {
			thresholds = append(thresholds, t)
		}
	}
	slices.Sort(thresholds)
	return slices.Compact(thresholds)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// findBestThreshold returns the threshold of the fastest successful result,
// or 0 if none succeeded. Ties go to the larger threshold, which forks less.
func findBestThreshold(results []calibrationResult) int {
	best := 0
	var bestDuration int64 = -1
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		d := res.Duration.Nanoseconds()
		if bestDuration < 0 || d < bestDuration || (d == bestDuration && res.Threshold > best) {
			best, bestDuration = res.Threshold, d
		}
	}
	return best
}
