package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/parbench/internal/config"
	"github.com/agbru/parbench/internal/format"
	"github.com/agbru/parbench/internal/sysmon"
	"github.com/agbru/parbench/internal/ui"
	"github.com/agbru/parbench/internal/workload"
)

// PrintExecutionConfig displays the run configuration and host description.
//
// Parameters:
//   - cfg: The resolved application configuration.
//   - host: The host description from sysmon.Describe.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, host sysmon.Host, out io.Writer) {
	fmt.Fprintf(out, "%s\n", ui.HeadingStyle().Render("--- Execution Configuration ---"))
	switch cfg.Workload {
	case config.WorkloadFiles:
		fmt.Fprintf(out, "Counting files larger than %s%d%s bytes under %s%s%s.\n",
			ui.ColorMagenta(), cfg.MinSize, ui.ColorReset(), ui.ColorMagenta(), cfg.Dir, ui.ColorReset())
	default:
		fmt.Fprintf(out, "Summing columns of a %s%dx%d%s grid (values %d..%d), leaf threshold %s%d%s columns.\n",
			ui.ColorMagenta(), cfg.Rows, cfg.Cols, ui.ColorReset(), cfg.Min, cfg.Max,
			ui.ColorCyan(), cfg.Threshold, ui.ColorReset())
		fmt.Fprintf(out, "Work-dealing partitions: %s%d%s.\n", ui.ColorCyan(), cfg.Partitions, ui.ColorReset())
	}
	fmt.Fprintf(out, "Workers: %s%d%s, timeout %s%s%s.\n",
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())

	cores := fmt.Sprintf("%d logical", runtime.NumCPU())
	if host.PhysicalCores > 0 {
		cores = fmt.Sprintf("%d logical / %d physical", max(host.LogicalCores, runtime.NumCPU()), host.PhysicalCores)
	}
	fmt.Fprintf(out, "Environment: %s%s%s cores, Go %s%s%s", ui.ColorCyan(), cores, ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if host.MemTotal > 0 {
		fmt.Fprintf(out, ", %s RAM (%.0f%% used)", format.FormatBytes(host.MemTotal), host.MemPercent)
	}
	fmt.Fprintln(out, ".")
	if host.CPUModel != "" {
		fmt.Fprintf(out, "CPU: %s (load %.2f).\n", strings.TrimSpace(host.CPUModel), host.Load1)
	}
	fmt.Fprintf(out, "\n%s\n", ui.HeadingStyle().Render("--- Starting Execution ---"))
}

// PrintMatrix prints the top-left corner of g, at most limit rows and
// columns, with ellipses marking what was cut.
func PrintMatrix(g workload.Grid, limit int, out io.Writer) {
	fmt.Fprintf(out, "%s\n", ui.HeadingStyle().Render(fmt.Sprintf("--- Grid (%dx%d) ---", g.Rows(), g.Cols())))
	rows, cols := min(g.Rows(), limit), min(g.Cols(), limit)
	for i := 0; i < rows; i++ {
		var b strings.Builder
		for j := 0; j < cols; j++ {
			fmt.Fprintf(&b, "%6d", g.At(i, j))
		}
		if cols < g.Cols() {
			b.WriteString("   ...")
		}
		fmt.Fprintln(out, b.String())
	}
	if rows < g.Rows() {
		fmt.Fprintf(out, "%6s\n", "...")
	}
	fmt.Fprintln(out)
}
