package orchestration

import (
	"context"
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/parallel"
	"github.com/agbru/parbench/internal/workload"
)

// stubPresenter records what AnalyzeComparison presents.
type stubPresenter struct {
	table    []StrategyResult
	result   *StrategyResult
	handled  error
	exitCode int
}

func (p *stubPresenter) PresentComparisonTable(results []StrategyResult, _ io.Writer) {
	p.table = results
}

func (p *stubPresenter) PresentResult(result StrategyResult, _ io.Writer) { p.result = &result }

func (p *stubPresenter) HandleError(err error, _ time.Duration, _ io.Writer) int {
	p.handled = err
	return p.exitCode
}

// fakeExecutor returns a fixed result after an optional delay.
type fakeExecutor struct {
	name   string
	result int64
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeExecutor) Name() string                { return f.name }
func (f *fakeExecutor) Strategy() parallel.Strategy { return parallel.Strategy(f.name) }

func (f *fakeExecutor) Run(ctx context.Context, _ workload.Workload[workload.FileUnit, int64], _ workload.FileUnit) (int64, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.result, f.err
}

func countSummary(n int64) string { return "count=" + strconv.FormatInt(n, 10) }

func mustFileCount(t *testing.T) *workload.FileCountWorkload {
	t.Helper()
	wl, err := workload.NewFileCount(0)
	if err != nil {
		t.Fatal(err)
	}
	return wl
}

func TestCompare_RunsBothStrategiesInOrder(t *testing.T) {
	t.Parallel()
	var order []string
	progress := progressFunc{
		start: func(label string) { order = append(order, "start:"+label) },
		stop:  func() { order = append(order, "stop") },
	}
	steal := &fakeExecutor{name: "steal", result: 3, delay: 5 * time.Millisecond}
	deal := &fakeExecutor{name: "deal", result: 3}

	c := Compare[workload.FileUnit, int64](context.Background(), mustFileCount(t), workload.FileUnit{}, steal, deal, CompareOptions{Progress: progress})

	if steal.calls != 1 || deal.calls != 1 {
		t.Fatalf("expected one call each, got %d and %d", steal.calls, deal.calls)
	}
	wantOrder := []string{"start:steal", "stop", "start:deal", "stop"}
	if !slices.Equal(order, wantOrder) {
		t.Errorf("progress calls: got %v, want %v", order, wantOrder)
	}
	if c.StealElapsed < 5*time.Millisecond {
		t.Errorf("steal elapsed %s does not cover the run", c.StealElapsed)
	}
	if !c.Consistent() {
		t.Error("equal results reported inconsistent")
	}
}

func TestCompare_FirstFailureDoesNotSkipSecond(t *testing.T) {
	t.Parallel()
	steal := &fakeExecutor{name: "steal", err: errors.New("boom")}
	deal := &fakeExecutor{name: "deal", result: 1}

	c := Compare[workload.FileUnit, int64](context.Background(), mustFileCount(t), workload.FileUnit{}, steal, deal, CompareOptions{})
	if deal.calls != 1 {
		t.Fatal("second strategy was not run")
	}
	if c.StealErr == nil || c.DealErr != nil {
		t.Errorf("unexpected errors: steal=%v deal=%v", c.StealErr, c.DealErr)
	}
	if c.Consistent() {
		t.Error("a failed run cannot be consistent")
	}
}

func TestCompare_RecordsOneSpanPerStrategy(t *testing.T) {
	t.Parallel()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	steal := &fakeExecutor{name: "steal", result: 4}
	deal := &fakeExecutor{name: "deal", err: errors.New("queue broke")}
	Compare[workload.FileUnit, int64](context.Background(), mustFileCount(t), workload.FileUnit{}, steal, deal,
		CompareOptions{Tracer: provider.Tracer("test")})

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	for i, want := range []string{"steal", "deal"} {
		span := spans[i]
		if span.Name() != "parbench.run" {
			t.Errorf("span %d: name %q", i, span.Name())
		}
		attrs := attribute.NewSet(span.Attributes()...)
		if v, ok := attrs.Value("parbench.strategy"); !ok || v.AsString() != want {
			t.Errorf("span %d: parbench.strategy = %q, want %q", i, v.AsString(), want)
		}
		if _, ok := attrs.Value("parbench.elapsed_ns"); !ok {
			t.Errorf("span %d: missing parbench.elapsed_ns", i)
		}
	}
	if got := spans[0].Status().Code; got == codes.Error {
		t.Errorf("successful run recorded status %v", got)
	}
	if got := spans[1].Status(); got.Code != codes.Error || got.Description != "queue broke" {
		t.Errorf("failed run recorded status %+v", got)
	}
	if len(spans[1].Events()) == 0 {
		t.Error("failed run recorded no error event")
	}
}

func TestCompare_RealExecutors(t *testing.T) {
	t.Parallel()
	g, err := workload.GenerateGrid(5, 123, -50, 50, 11)
	if err != nil {
		t.Fatal(err)
	}
	wl, err := workload.NewColumnSum(g, 10)
	if err != nil {
		t.Fatal(err)
	}
	opts := parallel.Options{Workers: 4}
	c := Compare[workload.ColumnRange, []int64](context.Background(), wl, wl.Root(),
		parallel.NewRecursiveExecutor[workload.ColumnRange, []int64](opts),
		parallel.NewQueueExecutor[workload.ColumnRange, []int64](opts),
		CompareOptions{})

	if c.StealErr != nil || c.DealErr != nil {
		t.Fatalf("unexpected errors: %v, %v", c.StealErr, c.DealErr)
	}
	if !c.Consistent() {
		t.Fatalf("results differ: %v vs %v", c.StealResult, c.DealResult)
	}
	if !slices.Equal(c.StealResult, workload.SerialColumnSums(g)) {
		t.Errorf("got %v, want %v", c.StealResult, workload.SerialColumnSums(g))
	}
}

// TestAnalyzeComparison verifies success, mismatch and failure handling.
func TestAnalyzeComparison(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		comparison     Comparison[int64]
		expectedStatus int
		expectResult   bool
		expectHandled  bool
	}{
		{
			name:           "Both succeed",
			comparison:     Comparison[int64]{StealName: "A", StealResult: 5, DealName: "B", DealResult: 5},
			expectedStatus: apperrors.ExitSuccess,
			expectResult:   true,
		},
		{
			name:           "Mismatch",
			comparison:     Comparison[int64]{StealName: "A", StealResult: 5, DealName: "B", DealResult: 6},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name:           "Deal fails",
			comparison:     Comparison[int64]{StealName: "A", StealResult: 5, DealName: "B", DealErr: errors.New("fail")},
			expectedStatus: apperrors.ExitErrorGeneric,
			expectHandled:  true,
		},
		{
			name: "Both fail",
			comparison: Comparison[int64]{
				StealName: "A", StealErr: errors.New("fail"),
				DealName: "B", DealErr: errors.New("fail"),
			},
			expectedStatus: apperrors.ExitErrorGeneric,
			expectHandled:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.comparison.equal = func(a, b int64) bool { return a == b }
			p := &stubPresenter{exitCode: apperrors.ExitErrorGeneric}
			var out strings.Builder

			status := AnalyzeComparison(tt.comparison, countSummary, p, &out)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
			if len(p.table) != 2 || p.table[0].Name != "A" || p.table[1].Name != "B" {
				t.Errorf("table not presented in strategy order: %+v", p.table)
			}
			if (p.result != nil) != tt.expectResult {
				t.Errorf("result presented = %v, want %v", p.result != nil, tt.expectResult)
			}
			if (p.handled != nil) != tt.expectHandled {
				t.Errorf("error handled = %v, want %v", p.handled, tt.expectHandled)
			}
			if !strings.Contains(out.String(), "Global Status") {
				t.Errorf("missing status line in %q", out.String())
			}
		})
	}
}

func TestComparisonResults_SummariesOnlyForSuccess(t *testing.T) {
	t.Parallel()
	c := Comparison[int64]{StealName: "A", StealResult: 2, DealName: "B", DealErr: errors.New("x")}
	results := c.Results(countSummary)
	if results[0].Summary != "count=2" {
		t.Errorf("got summary %q", results[0].Summary)
	}
	if results[1].Summary != "" || results[1].Err == nil {
		t.Errorf("failed run must carry its error and no summary: %+v", results[1])
	}
}

func TestSpeedup(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b time.Duration
		want float64
	}{
		{2 * time.Second, time.Second, 2},
		{time.Second, 4 * time.Second, 0.25},
		{0, time.Second, 0},
		{time.Second, 0, 0},
	}
	for _, tt := range tests {
		if got := Speedup(tt.a, tt.b); got != tt.want {
			t.Errorf("Speedup(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

type progressFunc struct {
	start func(label string)
	stop  func()
}

func (p progressFunc) Start(label string, _ io.Writer) { p.start(label) }
func (p progressFunc) Stop()                           { p.stop() }
