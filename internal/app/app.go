// Package app wires configuration, workloads, executors and presentation
// into the parbench command.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/parbench/internal/calibration"
	"github.com/agbru/parbench/internal/cli"
	"github.com/agbru/parbench/internal/config"
	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/logging"
	"github.com/agbru/parbench/internal/ui"
)

// Application represents the parbench application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Log is the application logger; Logger is the same sink handed to the
	// executors and workloads.
	Log    logging.Logger
	Logger zerolog.Logger
	// ProfileLoaded is set when the leaf threshold came from a cached
	// calibration profile.
	ProfileLoaded bool

	// tracer is set by startTracing when --trace is given.
	tracer trace.Tracer
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer) (*Application, error) {
	app := &Application{ErrWriter: errWriter}

	programName := "parbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	if !cfg.Calibrate {
		if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
			cfg = cfgWithProfile
			app.ProfileLoaded = true
		}
	}

	app.Config = config.ApplyDefaults(cfg)
	logger := logging.NewConsoleLogger(errWriter, cfg.LogLevel)
	if cfg.LogJSON {
		logger = logging.NewLogger(errWriter, "parbench", cfg.LogLevel)
	}
	app.Log = logger
	app.Logger = logger.Zerolog()
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	ctx = a.Logger.WithContext(ctx)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	stopTracing, err := a.startTracing()
	if err != nil {
		return apperrors.HandleExecutionError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	defer stopTracing()

	a.Log.Info("configuration resolved",
		logging.String("workload", a.Config.Workload),
		logging.Int("workers", a.Config.Workers),
		logging.Int("partitions", a.Config.Partitions),
		logging.Int("threshold", a.Config.Threshold),
		logging.Field{Key: "profile", Value: a.ProfileLoaded},
		logging.Duration("timeout", a.Config.Timeout))

	switch a.Config.Workload {
	case config.WorkloadFiles:
		return a.runFileCount(ctx, out)
	default:
		return a.runColumnSum(ctx, out)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		a.Log.Error("completion failed", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	return calibration.RunCalibration(ctx, a.Config, out, a.progressReporter(), cli.CLIColorProvider{})
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
