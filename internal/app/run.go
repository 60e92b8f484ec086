package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/agbru/parbench/internal/cli"
	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/format"
	"github.com/agbru/parbench/internal/logging"
	"github.com/agbru/parbench/internal/metrics"
	"github.com/agbru/parbench/internal/orchestration"
	"github.com/agbru/parbench/internal/parallel"
	"github.com/agbru/parbench/internal/sysmon"
	"github.com/agbru/parbench/internal/ui"
	"github.com/agbru/parbench/internal/workload"
)

// benchmark describes one workload run by runComparison.
type benchmark[U, R any] struct {
	description string
	label       string
	wl          workload.Workload[U, R]
	root        U
	summarize   func(R) string
	// reference computes the aggregate sequentially for --verify.
	reference func() R
}

// runColumnSum generates the grid and compares both executors on its
// column sums.
func (a *Application) runColumnSum(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	a.Log.Info("generating grid", logging.Uint64("seed", seed), logging.Int("rows", cfg.Rows), logging.Int("cols", cfg.Cols))

	grid, err := workload.GenerateGrid(cfg.Rows, cfg.Cols, cfg.Min, cfg.Max, seed)
	if err != nil {
		return apperrors.HandleExecutionError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	wl, err := workload.NewColumnSum(grid, cfg.Threshold)
	if err != nil {
		return apperrors.HandleExecutionError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, sysmon.Describe(), out)
		if cfg.ShowMatrix {
			cli.PrintMatrix(grid, cli.MatrixDisplayLimit, out)
		}
	}

	limit := cli.SumsDisplayLimit
	if cfg.Verbose {
		limit = 0
	}
	return runComparison(ctx, a, out, benchmark[workload.ColumnRange, []int64]{
		description: fmt.Sprintf("column sums of a %dx%d grid, seed %d, threshold %d", cfg.Rows, cfg.Cols, seed, cfg.Threshold),
		label:       "Column sums",
		wl:          wl,
		root:        wl.Root(),
		summarize:   func(sums []int64) string { return format.FormatColumnSums(sums, limit) },
		reference:   func() []int64 { return workload.SerialColumnSums(grid) },
	})
}

// runFileCount compares both executors on the number of large files under
// the configured directory.
func (a *Application) runFileCount(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	wl, err := workload.NewFileCount(cfg.MinSize)
	if err != nil {
		return apperrors.HandleExecutionError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	wl.SetLogger(a.Logger)
	root, err := wl.Root(cfg.Dir)
	if err != nil {
		return apperrors.HandleExecutionError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, sysmon.Describe(), out)
	}

	code := runComparison(ctx, a, out, benchmark[workload.FileUnit, int64]{
		description: fmt.Sprintf("files larger than %d bytes under %s", cfg.MinSize, cfg.Dir),
		label:       fmt.Sprintf("Files larger than %d bytes", cfg.MinSize),
		wl:          wl,
		root:        root,
		summarize:   func(n int64) string { return strconv.FormatInt(n, 10) },
		reference:   func() int64 { return workload.SerialFileCount(cfg.Dir, cfg.MinSize) },
	})
	if skipped := wl.Skipped(); skipped > 0 && !cfg.Quiet {
		fmt.Fprintf(out, "%sUnreadable entries skipped: %d (across both runs).%s\n", ui.ColorYellow(), skipped, ui.ColorReset())
	}
	return code
}

// runComparison runs both executors on b, presents the outcome, and writes
// the optional verification, report and metrics files.
func runComparison[U, R any](ctx context.Context, a *Application, out io.Writer, b benchmark[U, R]) int {
	cfg := a.Config

	var collector *metrics.RunCollector
	opts := parallel.Options{Workers: cfg.Workers, Partitions: cfg.Partitions, Logger: a.Logger}
	if cfg.MetricsFile != "" {
		c, err := metrics.NewRunCollector(metrics.Options{})
		if err != nil {
			a.Log.Error("metrics disabled", err)
		} else {
			collector = c
			opts.Observer = c
		}
	}

	progressOut := out
	if cfg.Quiet {
		progressOut = io.Discard
	}
	comparison := orchestration.Compare[U, R](ctx, b.wl, b.root,
		parallel.NewRecursiveExecutor[U, R](opts),
		parallel.NewQueueExecutor[U, R](opts),
		orchestration.CompareOptions{Progress: a.progressReporter(), Out: progressOut, Logger: a.Logger, Tracer: a.tracer})
	results := comparison.Results(b.summarize)

	var code int
	if cfg.Quiet {
		cli.DisplayQuietResults(out, results)
		code = quietExitCode(comparison)
	} else {
		code = orchestration.AnalyzeComparison(comparison, b.summarize, cli.CLIResultPresenter{ResultLabel: b.label}, out)
	}

	if cfg.Verify && code == apperrors.ExitSuccess {
		code = verify(comparison, b, cfg.Quiet, out)
	}

	if err := cli.WriteResultsToFile(cfg.OutputFile, b.description, results); err != nil {
		a.Log.Error("results not saved", err, logging.String("path", cfg.OutputFile))
		fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
		code = max(code, apperrors.ExitErrorGeneric)
	} else if cfg.OutputFile != "" && !cfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Results saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}

	if collector != nil {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			a.Log.Error("metrics not written", err, logging.String("path", cfg.MetricsFile))
			fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
			code = max(code, apperrors.ExitErrorGeneric)
		}
	}
	return code
}

// quietExitCode applies the same failure policy as AnalyzeComparison
// without printing anything.
func quietExitCode[R any](c orchestration.Comparison[R]) int {
	if c.StealErr != nil {
		return apperrors.ExitCodeFor(c.StealErr)
	}
	if c.DealErr != nil {
		return apperrors.ExitCodeFor(c.DealErr)
	}
	if !c.Consistent() {
		return apperrors.ExitErrorMismatch
	}
	return apperrors.ExitSuccess
}

// verify checks both aggregates against the sequential reference.
func verify[U, R any](c orchestration.Comparison[R], b benchmark[U, R], quiet bool, out io.Writer) int {
	start := time.Now()
	want := b.reference()
	elapsed := time.Since(start)

	checks := []cli.VerificationResult{
		{Name: c.StealName, Match: b.wl.Equal(c.StealResult, want)},
		{Name: c.DealName, Match: b.wl.Equal(c.DealResult, want)},
	}
	if !quiet {
		cli.DisplayVerification(out, "the sequential reference", elapsed, checks)
	}
	for _, check := range checks {
		if !check.Match {
			return apperrors.ExitErrorMismatch
		}
	}
	return apperrors.ExitSuccess
}

// progressReporter returns the spinner, or a silent reporter in quiet mode.
func (a *Application) progressReporter() orchestration.ProgressReporter {
	if a.Config.Quiet {
		return orchestration.NullProgressReporter{}
	}
	return cli.NewSpinnerProgressReporter()
}
