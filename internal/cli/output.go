// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* and Print* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
//   - Write* functions write data to files on the filesystem.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/parbench/internal/format"
	"github.com/agbru/parbench/internal/orchestration"
	"github.com/agbru/parbench/internal/ui"
)

// FormatQuietResult formats one strategy result for quiet mode: name,
// elapsed milliseconds and summary (or error), tab-separated.
func FormatQuietResult(res orchestration.StrategyResult) string {
	value := res.Summary
	if res.Err != nil {
		value = "error: " + res.Err.Error()
	}
	return fmt.Sprintf("%s\t%.3f\t%s", res.Name, float64(res.Duration.Nanoseconds())/1e6, value)
}

// DisplayQuietResults prints one line per strategy.
func DisplayQuietResults(out io.Writer, results []orchestration.StrategyResult) {
	for _, res := range results {
		fmt.Fprintln(out, FormatQuietResult(res))
	}
}

// VerificationResult compares one strategy's aggregate with a sequential
// reference.
type VerificationResult struct {
	Name  string
	Match bool
}

// DisplayVerification prints the outcome of --verify.
func DisplayVerification(out io.Writer, reference string, elapsed time.Duration, checks []VerificationResult) {
	fmt.Fprintf(out, "\n%s\n", ui.HeadingStyle().Render("--- Verification ---"))
	fmt.Fprintf(out, "Sequential reference computed in %s.\n", format.FormatMillis(elapsed))
	for _, c := range checks {
		if c.Match {
			fmt.Fprintf(out, "  %s✓ %s matches%s\n", ui.ColorGreen(), c.Name, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "  %s✗ %s differs from %s%s\n", ui.ColorRed(), c.Name, reference, ui.ColorReset())
		}
	}
}

// WriteResultsToFile writes a comparison report to path, creating parent
// directories as needed.
func WriteResultsToFile(path, description string, results []orchestration.StrategyResult) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# parbench comparison\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Workload: %s\n\n", description)
	for _, res := range results {
		fmt.Fprintln(file, FormatQuietResult(res))
	}
	return file.Close()
}
