package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/briandowns/spinner"

	"github.com/agbru/parbench/internal/orchestration"
)

// SpinnerProgressReporter shows a spinner naming the running strategy. The
// suffix is set once per run: apart from the spinner animation nothing is
// redrawn while an executor is being timed.
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	spinner Spinner
}

var _ orchestration.ProgressReporter = (*SpinnerProgressReporter)(nil)

// NewSpinnerProgressReporter returns an idle reporter.
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return &SpinnerProgressReporter{}
}

// Start shows the spinner for label on out until Stop is called.
func (r *SpinnerProgressReporter) Start(label string, out io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner != nil {
		return
	}
	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(label))
	s.Start()
	r.spinner = s
}

// Stop halts the spinner. Calling Stop without Start is a no-op.
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner == nil {
		return
	}
	r.spinner.Stop()
	r.spinner = nil
}

func progressSuffix(label string) string {
	return fmt.Sprintf(" Running %s...", label)
}
