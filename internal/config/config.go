// Package config defines the command-line configuration of parbench: flag
// parsing, environment overrides, defaults and validation.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/parbench/internal/errors"
)

// EnvPrefix prefixes every environment variable read by ParseConfig.
const EnvPrefix = "PARBENCH_"

// Workload kinds accepted by --workload.
const (
	WorkloadGrid  = "grid"
	WorkloadFiles = "files"
)

// CompletionShells lists the shells accepted by --completion.
var CompletionShells = []string{"bash", "zsh", "fish"}

// Default values for flags.
const (
	DefaultRows     = 100
	DefaultCols     = 1000
	DefaultMinValue = 0
	DefaultMaxValue = 100
	DefaultMinSize  = 1024
	DefaultTimeout  = 5 * time.Minute
	DefaultLogLevel = "warn"
)

// AppConfig aggregates every parameter of a run.
type AppConfig struct {
	// Workload selects the benchmark: WorkloadGrid or WorkloadFiles.
	Workload string

	Rows, Cols int
	Min, Max   int
	// Seed drives grid generation. Zero picks a time-based seed.
	Seed uint64
	// Threshold is the widest column range computed as a leaf. Zero means
	// "not set": a cached calibration profile or the default applies.
	Threshold int

	// Dir is the root of the file-count workload.
	Dir string
	// MinSize counts files strictly larger than this many bytes.
	MinSize int64

	// Workers is the pool size of both executors. Zero means GOMAXPROCS.
	Workers int
	// Partitions is the number of up-front column ranges dealt by the queue
	// executor. Zero means Workers.
	Partitions int

	Timeout    time.Duration
	Quiet      bool
	Verbose    bool
	ShowMatrix bool
	Verify     bool

	Calibrate          bool
	CalibrationProfile string

	// OutputFile receives a tab-separated report of the comparison.
	OutputFile  string
	MetricsFile string
	// TraceFile receives one OpenTelemetry span per executor run, as JSON.
	TraceFile   string
	NoColor     bool
	LogLevel    string
	LogJSON     bool
	ShowVersion bool
	// Completion names a shell to print a completion script for.
	Completion string
}

// ParseConfig parses command-line arguments, applies PARBENCH_* environment
// overrides for flags not given explicitly, and validates the result.
//
// Parameters:
//   - programName: The name of the program (used in usage output).
//   - args: The command-line arguments, without the program name.
//   - errorWriter: The writer for flag parsing errors and usage.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for -h, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errorWriter, "Compares work-stealing and work-dealing executors on a grid column sum\nor a directory file count.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	cfg := AppConfig{}
	fs.StringVar(&cfg.Workload, "workload", WorkloadGrid, "Benchmark to run: 'grid' (column sums) or 'files' (file count).")
	fs.IntVar(&cfg.Rows, "rows", DefaultRows, "Number of grid rows.")
	fs.IntVar(&cfg.Cols, "cols", DefaultCols, "Number of grid columns.")
	fs.IntVar(&cfg.Min, "min", DefaultMinValue, "Smallest generated grid value.")
	fs.IntVar(&cfg.Max, "max", DefaultMaxValue, "Largest generated grid value.")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Seed for grid generation (0 = time-based).")
	fs.IntVar(&cfg.Threshold, "threshold", 0, "Widest column range computed without splitting (0 = profile or default).")
	fs.StringVar(&cfg.Dir, "dir", ".", "Root directory for the 'files' workload.")
	fs.Int64Var(&cfg.MinSize, "min-size", DefaultMinSize, "Count files strictly larger than this many bytes.")
	fs.IntVar(&cfg.Workers, "workers", 0, "Worker pool size for both strategies (0 = GOMAXPROCS).")
	fs.IntVar(&cfg.Partitions, "partitions", 0, "Up-front column ranges for work-dealing (0 = workers).")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum time for the whole comparison.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print one line per strategy, for scripting.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print every column sum instead of a truncated list.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&cfg.ShowMatrix, "show-matrix", false, "Print the generated grid before running.")
	fs.BoolVar(&cfg.Verify, "verify", false, "Check both results against a sequential computation.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Benchmark candidate thresholds and save the fastest.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.parbench_calibration.json).")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write a tab-separated comparison report to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for -output.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics for the runs to this file.")
	fs.StringVar(&cfg.TraceFile, "trace", "", "Write an OpenTelemetry span per executor run to this file as JSON.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error.")
	fs.BoolVar(&cfg.LogJSON, "log-json", false, "Emit logs as JSON lines instead of console text.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh or fish and exit.")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version information and exit.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		err := apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintf(errorWriter, "Error: %v\n", err)
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)
	cfg.Workload = strings.ToLower(cfg.Workload)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errorWriter, "Error: %v\n", err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	switch c.Workload {
	case WorkloadGrid, WorkloadFiles:
	default:
		return apperrors.NewConfigError("unknown workload %q (want %q or %q)", c.Workload, WorkloadGrid, WorkloadFiles)
	}
	if c.Rows < 0 || c.Cols < 0 {
		return apperrors.NewConfigError("grid dimensions must be non-negative, got %dx%d", c.Rows, c.Cols)
	}
	if c.Min > c.Max {
		return apperrors.NewConfigError("--min (%d) must not exceed --max (%d)", c.Min, c.Max)
	}
	if c.Threshold < 0 {
		return apperrors.NewConfigError("--threshold must be positive, got %d", c.Threshold)
	}
	if c.MinSize < 0 {
		return apperrors.NewConfigError("--min-size must be non-negative, got %d", c.MinSize)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("--workers must be positive, got %d", c.Workers)
	}
	if c.Partitions < 0 {
		return apperrors.NewConfigError("--partitions must be positive, got %d", c.Partitions)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.Workload == WorkloadFiles && c.Dir == "" {
		return apperrors.NewConfigError("--dir is required for the %q workload", WorkloadFiles)
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q for --completion (want one of %s)", c.Completion, strings.Join(CompletionShells, ", "))
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	return nil
}
