package app

import (
	"context"
	"errors"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/logging"
)

const tracerName = "github.com/agbru/parbench"

// startTracing exports the spans of this run to Config.TraceFile as JSON
// lines. The returned function flushes the exporter and closes the file; it
// is a no-op when tracing is off.
func (a *Application) startTracing() (func(), error) {
	path := a.Config.TraceFile
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.NewConfigError("cannot create trace file %q: %v", path, err)
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		_ = f.Close()
		return nil, apperrors.WrapError(err, "creating trace exporter")
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	a.tracer = provider.Tracer(tracerName)

	return func() {
		if err := errors.Join(provider.Shutdown(context.Background()), f.Close()); err != nil {
			a.Log.Error("trace file not flushed", err, logging.String("path", path))
		}
	}, nil
}
