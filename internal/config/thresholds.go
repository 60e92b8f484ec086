package config

import (
	"runtime"

	"github.com/agbru/parbench/internal/workload"
)

// Threshold resolution chain (highest priority first):
//   1. CLI flag --threshold
//   2. Environment variable PARBENCH_THRESHOLD
//   3. Cached calibration profile (~/.parbench_calibration.json)
//   4. workload.DefaultColumnThreshold (this file)

// ApplyDefaults resolves every "zero means automatic" field: the pool size,
// the dealing partition count and the column threshold. Values set by the
// user are preserved.
func ApplyDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Partitions == 0 {
		cfg.Partitions = cfg.Workers
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = workload.DefaultColumnThreshold
	}
	return cfg
}

// EstimateLeafCount returns how many leaves the recursive executor produces
// for cols columns at the given threshold: midpoint splitting stops at the
// first range no wider than threshold. It walks the split tree level by
// level; the ranges of one level span at most two adjacent widths.
func EstimateLeafCount(cols, threshold int) int {
	if cols <= threshold || threshold < 1 {
		return 1
	}
	leaves := 0
	level := map[int]int{cols: 1}
	for len(level) > 0 {
		next := make(map[int]int, 2)
		for width, n := range level {
			if width <= threshold {
				leaves += n
				continue
			}
			half := width / 2
			next[half] += n
			next[width-half] += n
		}
		level = next
	}
	return leaves
}
