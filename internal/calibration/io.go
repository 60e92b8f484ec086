package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/parbench/internal/format"
	"github.com/agbru/parbench/internal/ui"
)

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []calibrationResult, cols, bestThreshold int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sThreshold%s    │ %sLeaves%s   │ %sExecution Time%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 10), strings.Repeat("─", 25))
	for _, res := range results {
		thresholdLabel := fmt.Sprintf("%d cols", res.Threshold)
		if res.Threshold >= cols {
			thresholdLabel = "Sequential"
		}
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			durationStr = format.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				durationStr = "< 1µs"
			}
		}
		highlight := ""
		if res.Threshold == bestThreshold && res.Err == nil {
			highlight = " " + ui.StatusStyle(true).Render("(Optimal)")
		}
		fmt.Fprintf(tw, "  %s%-12s%s │ %-8d │ %s%s%s%s\n", ui.ColorCyan(), thresholdLabel, ui.ColorReset(),
			res.Leaves, ui.ColorYellow(), durationStr, ui.ColorReset(), highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints the retained threshold and where it was saved.
func printCalibrationOutput(out io.Writer, threshold int, profilePath string) {
	fmt.Fprintf(out, "\n%sCalibration%s: optimal leaf threshold=%s%s%d%s columns\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorBold(), ui.ColorYellow(), threshold, ui.ColorReset())
	if profilePath != "" {
		fmt.Fprintf(out, "Profile saved to %s%s%s\n", ui.ColorGrey(), profilePath, ui.ColorReset())
	}
}
