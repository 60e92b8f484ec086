package orchestration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/parallel"
	"github.com/agbru/parbench/internal/workload"
)

const tracerName = "github.com/agbru/parbench/internal/orchestration"

// CompareOptions configures Compare. The zero value runs silently with the
// global OpenTelemetry tracer.
type CompareOptions struct {
	Progress ProgressReporter
	Out      io.Writer
	Logger   zerolog.Logger
	Tracer   trace.Tracer
}

func (o CompareOptions) withDefaults() CompareOptions {
	if o.Progress == nil {
		o.Progress = NullProgressReporter{}
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}
	return o
}

// Comparison holds both runs of one workload.
type Comparison[R any] struct {
	StealName    string
	StealResult  R
	StealElapsed time.Duration
	StealErr     error

	DealName    string
	DealResult  R
	DealElapsed time.Duration
	DealErr     error

	equal func(a, b R) bool
}

// Consistent reports whether both runs succeeded with identical aggregates.
func (c Comparison[R]) Consistent() bool {
	if c.StealErr != nil || c.DealErr != nil {
		return false
	}
	return c.equal(c.StealResult, c.DealResult)
}

// Results returns the work-stealing run followed by the work-dealing run,
// with successful aggregates rendered by summarize.
func (c Comparison[R]) Results(summarize func(R) string) []StrategyResult {
	results := []StrategyResult{
		{Name: c.StealName, Duration: c.StealElapsed, Err: c.StealErr},
		{Name: c.DealName, Duration: c.DealElapsed, Err: c.DealErr},
	}
	if c.StealErr == nil {
		results[0].Summary = summarize(c.StealResult)
	}
	if c.DealErr == nil {
		results[1].Summary = summarize(c.DealResult)
	}
	return results
}

// Compare runs stealer then dealer on the same root, one after the other.
// Only the Run call of each executor is timed. A failure of the first run
// does not prevent the second.
//
// The progress display is started before and stopped after each timed
// window, so whatever it draws meanwhile is included in the timing. Use
// NullProgressReporter for uncontended measurements.
func Compare[U, R any](ctx context.Context, wl workload.Workload[U, R], root U, stealer, dealer parallel.Executor[U, R], opts CompareOptions) Comparison[R] {
	opts = opts.withDefaults()
	c := Comparison[R]{
		StealName: stealer.Name(),
		DealName:  dealer.Name(),
		equal:     wl.Equal,
	}
	c.StealResult, c.StealElapsed, c.StealErr = runStrategy(ctx, stealer, wl, root, opts)
	c.DealResult, c.DealElapsed, c.DealErr = runStrategy(ctx, dealer, wl, root, opts)
	return c
}

func runStrategy[U, R any](ctx context.Context, ex parallel.Executor[U, R], wl workload.Workload[U, R], root U, opts CompareOptions) (R, time.Duration, error) {
	ctx, span := opts.Tracer.Start(ctx, "parbench.run", trace.WithAttributes(
		attribute.String("parbench.strategy", string(ex.Strategy())),
		attribute.String("parbench.executor", ex.Name()),
	))
	defer span.End()

	opts.Progress.Start(ex.Name(), opts.Out)
	start := time.Now()
	res, err := ex.Run(ctx, wl, root)
	elapsed := time.Since(start)
	opts.Progress.Stop()

	span.SetAttributes(attribute.Int64("parbench.elapsed_ns", elapsed.Nanoseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		opts.Logger.Error().Err(err).Str("strategy", ex.Name()).Dur("elapsed", elapsed).Msg("strategy failed")
		return res, elapsed, err
	}
	opts.Logger.Info().Str("strategy", ex.Name()).Dur("elapsed", elapsed).Msg("strategy completed")
	return res, elapsed, nil
}

// AnalyzeComparison presents a comparison and returns the exit code for it.
//
// The run is a failure if either strategy failed, a mismatch if both
// succeeded with different aggregates, and a success otherwise; only then is
// the agreed aggregate presented.
//
// Parameters:
//   - c: The comparison produced by Compare.
//   - summarize: Renders an aggregate for display.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparison[R any](c Comparison[R], summarize func(R) string, presenter ResultPresenter, out io.Writer) int {
	results := c.Results(summarize)
	presenter.PresentComparisonTable(results, out)

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(out, "\nGlobal Status: Failure. %s did not complete.\n", res.Name)
			return presenter.HandleError(res.Err, res.Duration, out)
		}
	}

	if !c.Consistent() {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The two strategies produced different results.\n")
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. Both strategies produced identical results.\n")
	presenter.PresentResult(results[0], out)
	return apperrors.ExitSuccess
}

// Speedup returns how many times faster b ran compared to a. It returns 0
// when either duration is not positive.
func Speedup(a, b time.Duration) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return float64(a) / float64(b)
}
