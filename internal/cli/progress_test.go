package cli

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/parbench/internal/cli/mocks"
)

// Tests replacing newSpinner must not run in parallel.

func TestSpinnerProgressReporter_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockSpinner(ctrl)

	orig := newSpinner
	defer func() { newSpinner = orig }()
	newSpinner = func(...spinner.Option) Spinner { return mock }

	gomock.InOrder(
		mock.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) {
			if !strings.Contains(s, "Running Work-Stealing") {
				t.Errorf("unexpected suffix %q", s)
			}
		}),
		mock.EXPECT().Start(),
		mock.EXPECT().Stop(),
	)

	r := NewSpinnerProgressReporter()
	r.Start("Work-Stealing", io.Discard)
	// The suffix is not refreshed while the run is timed.
	time.Sleep(2 * ProgressRefreshRate)
	r.Stop()
	// A second Stop is ignored.
	r.Stop()
}

func TestSpinnerProgressReporter_StopWithoutStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockSpinner(ctrl)

	orig := newSpinner
	defer func() { newSpinner = orig }()
	newSpinner = func(...spinner.Option) Spinner { return mock }

	// No expectations: the spinner must not be touched.
	NewSpinnerProgressReporter().Stop()
}

func TestProgressSuffix(t *testing.T) {
	t.Parallel()
	got := progressSuffix("Work-Dealing")
	if got != " Running Work-Dealing..." {
		t.Errorf("got %q", got)
	}
}
