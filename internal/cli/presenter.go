package cli

import (
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/format"
	"github.com/agbru/parbench/internal/orchestration"
	"github.com/agbru/parbench/internal/ui"
)

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output for comparison results in the
// command-line interface.
type CLIResultPresenter struct {
	// ResultLabel prefixes the agreed aggregate, e.g. "Column sums".
	ResultLabel string
}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable displays strategy names, durations and status in a
// formatted tabular layout, followed by the relative speed when both runs
// succeeded. Uses manual padding to correctly handle ANSI color codes.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.StrategyResult, out io.Writer) {
	fmt.Fprintf(out, "\n%s\n", ui.HeadingStyle().Render("--- Comparison Summary ---"))

	maxNameLen := 8     // "Strategy" header length
	maxDurationLen := 8 // "Duration" header length
	for _, res := range results {
		maxNameLen = max(maxNameLen, len(res.Name))
		maxDurationLen = max(maxDurationLen, len([]rune(durationLabel(res.Duration))))
	}

	fmt.Fprintf(out, "%sStrategy%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-8),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		}
		duration := durationLabel(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len([]rune(duration))),
			status)
	}

	if len(results) == 2 && results[0].Err == nil && results[1].Err == nil {
		if s := orchestration.Speedup(results[1].Duration, results[0].Duration); s > 0 {
			fmt.Fprintf(out, "%s\n", ui.SubtleStyle().Render(fmt.Sprintf("%s ran %.2fx the speed of %s.", results[0].Name, s, results[1].Name)))
		}
	}
}

func durationLabel(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatMillis(d)
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the aggregate both strategies agreed on.
func (p CLIResultPresenter) PresentResult(result orchestration.StrategyResult, out io.Writer) {
	label := p.ResultLabel
	if label == "" {
		label = "Result"
	}
	fmt.Fprintf(out, "\n%s: %s%s%s\n", label, ui.ColorGreen(), result.Summary, ui.ColorReset())
}

// HandleError handles run errors and returns an appropriate exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleExecutionError(err, duration, out, CLIColorProvider{})
}
