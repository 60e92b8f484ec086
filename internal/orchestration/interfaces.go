//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package orchestration

import (
	"io"
	"time"
)

// StrategyResult is the outcome of one executor run, as shown to the user.
// It is the shared domain type between orchestration and presentation.
type StrategyResult struct {
	// Name is the executor's display name.
	Name string
	// Duration covers the Run call only.
	Duration time.Duration
	// Summary is the rendered aggregate. It is empty if Err is set.
	Summary string
	// Err is the run failure, if any.
	Err error
}

// ProgressReporter shows activity while a strategy runs. Start and Stop are
// called once per strategy, in that order, from the orchestrating goroutine.
type ProgressReporter interface {
	// Start begins displaying progress for the named strategy.
	Start(label string, out io.Writer)
	// Stop ends the display started by Start.
	Stop()
}

// NullProgressReporter displays nothing. Useful for quiet mode or testing.
type NullProgressReporter struct{}

// Start does nothing.
func (NullProgressReporter) Start(string, io.Writer) {}

// Stop does nothing.
func (NullProgressReporter) Stop() {}

// ResultPresenter defines the interface for presenting comparison results.
// This interface decouples the orchestration layer from presentation
// concerns, allowing different output formats without modifying the
// orchestration logic.
type ResultPresenter interface {
	// PresentComparisonTable displays the per-strategy summary table.
	PresentComparisonTable(results []StrategyResult, out io.Writer)

	// PresentResult displays the agreed aggregate.
	PresentResult(result StrategyResult, out io.Writer)

	// HandleError reports a failed run and returns the exit code for it.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
