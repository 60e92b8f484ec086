// Package calibration benchmarks candidate leaf thresholds for the column-sum
// workload and caches the fastest one in a per-host profile.
package calibration

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/parbench/internal/config"
	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/orchestration"
	"github.com/agbru/parbench/internal/parallel"
	"github.com/agbru/parbench/internal/workload"
)

const (
	// calibrationRepeats is the number of timed runs per threshold; the
	// fastest is kept.
	calibrationRepeats = 3
	// calibrationSeed makes successive calibrations measure the same grid
	// when no --seed is given.
	calibrationSeed = 42
)

type calibrationResult struct {
	Threshold int
	Leaves    int
	Duration  time.Duration
	Err       error
}

// RunCalibration benchmarks every threshold from GenerateColumnThresholds on a
// grid shaped by cfg with the work-stealing executor, prints a summary and
// saves the fastest threshold to the calibration profile.
//
// Parameters:
//   - ctx: Cancels the calibration. A zerolog logger attached with
//     Logger.WithContext receives debug events.
//   - cfg: Grid shape, seed, worker count and profile path.
//   - out: The writer for the summary.
//   - progress: Shown while each threshold is measured.
//   - colors: The palette for error messages.
//
// Returns:
//   - int: The exit code.
func RunCalibration(ctx context.Context, cfg config.AppConfig, out io.Writer, progress orchestration.ProgressReporter, colors apperrors.ColorProvider) int {
	logger := zerolog.Ctx(ctx)
	if progress == nil {
		progress = orchestration.NullProgressReporter{}
	}
	cfg = config.ApplyDefaults(cfg)
	seed := cfg.Seed
	if seed == 0 {
		seed = calibrationSeed
	}

	grid, err := workload.GenerateGrid(cfg.Rows, cfg.Cols, cfg.Min, cfg.Max, seed)
	if err != nil {
		return apperrors.HandleExecutionError(err, 0, out, colors)
	}
	want := workload.SerialColumnSums(grid)
	thresholds := GenerateColumnThresholds(cfg.Cols)

	fmt.Fprintf(out, "--- Calibration ---\nBenchmarking %d thresholds on a %dx%d grid with %d workers.\n",
		len(thresholds), cfg.Rows, cfg.Cols, cfg.Workers)

	start := time.Now()
	results := make([]calibrationResult, 0, len(thresholds))
	for _, t := range thresholds {
		progress.Start(fmt.Sprintf("threshold %d", t), out)
		res := measureThreshold(ctx, grid, t, cfg.Workers, want)
		progress.Stop()
		if apperrors.IsContextError(res.Err) {
			return apperrors.HandleExecutionError(res.Err, time.Since(start), out, colors)
		}
		logger.Debug().Int("threshold", t).Int("leaves", res.Leaves).Dur("duration", res.Duration).Err(res.Err).Msg("threshold measured")
		results = append(results, res)
	}

	best := findBestThreshold(results)
	printCalibrationResults(out, results, cfg.Cols, best)
	if best == 0 {
		fmt.Fprintf(out, "%sCalibration failed: no threshold completed.%s\n", colors.Red(), colors.Reset())
		return apperrors.ExitErrorGeneric
	}

	profile := NewProfile()
	profile.OptimalColumnThreshold = best
	profile.CalibrationRows = cfg.Rows
	profile.CalibrationCols = cfg.Cols
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()

	path := cfg.CalibrationProfile
	if path == "" {
		path = GetDefaultProfilePath()
	}
	if err := profile.SaveProfile(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("calibration profile not saved")
		fmt.Fprintf(out, "%sWarning: %v%s\n", colors.Yellow(), err, colors.Reset())
		path = ""
	}
	printCalibrationOutput(out, best, path)
	return apperrors.ExitSuccess
}

// measureThreshold times calibrationRepeats runs of the recursive executor and
// keeps the fastest. A run whose sums differ from want is an error.
func measureThreshold(ctx context.Context, grid workload.Grid, threshold, workers int, want []int64) calibrationResult {
	res := calibrationResult{Threshold: threshold, Leaves: config.EstimateLeafCount(grid.Cols(), threshold)}
	wl, err := workload.NewColumnSum(grid, threshold)
	if err != nil {
		res.Err = err
		return res
	}
	ex := parallel.NewRecursiveExecutor[workload.ColumnRange, []int64](parallel.Options{Workers: workers})

	for i := 0; i < calibrationRepeats; i++ {
		start := time.Now()
		got, err := ex.Run(ctx, wl, wl.Root())
		elapsed := time.Since(start)
		if err != nil {
			res.Err = err
			return res
		}
		if !slices.Equal(got, want) {
			res.Err = fmt.Errorf("threshold %d: column sums differ from the sequential reference", threshold)
			return res
		}
		if i == 0 || elapsed < res.Duration {
			res.Duration = elapsed
		}
	}
	return res
}

// LoadCachedCalibration applies the threshold of a valid, fresh profile at
// path (the default path if empty) to cfg. A threshold already set on the
// command line or through the environment wins, in which case the profile
// is not read.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if cfg.Threshold != 0 {
		return cfg, false
	}
	if path == "" {
		path = GetDefaultProfilePath()
	}
	profile, err := loadProfile(path)
	if err != nil || !profile.IsValid() || profile.IsStale(MaxProfileAge) || profile.OptimalColumnThreshold < 1 {
		return cfg, false
	}
	cfg.Threshold = profile.OptimalColumnThreshold
	return cfg, true
}
