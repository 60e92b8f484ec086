package parallel

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/parbench/internal/workload"
)

// Strategy identifies a scheduling discipline in logs and metrics.
type Strategy string

const (
	// StrategyWorkStealing is the recursive fork/join executor.
	StrategyWorkStealing Strategy = "work-stealing"
	// StrategyWorkDealing is the shared-queue executor.
	StrategyWorkDealing Strategy = "work-dealing"
)

// Executor runs a workload from its root unit to a single aggregate.
type Executor[U, R any] interface {
	Name() string
	Strategy() Strategy
	Run(ctx context.Context, wl workload.Workload[U, R], root U) (R, error)
}

// RunStats describes one completed run.
type RunStats struct {
	Strategy Strategy
	Workers  int
	// Leaves is the number of ComputeLeaf calls.
	Leaves int64
	// Expanded is the number of Split calls.
	Expanded int64
	// Forks counts tasks handed to the pool (work-stealing only).
	Forks int64
	// Steals counts tasks taken from another worker's deque (work-stealing only).
	Steals   int64
	Duration time.Duration
}

// RunObserver is notified after every successful run.
type RunObserver interface {
	RunCompleted(stats RunStats)
}

// Options configures an executor.
type Options struct {
	// Workers is the pool size. Zero or less means runtime.GOMAXPROCS(0).
	Workers int
	// Partitions is the number of up-front units used by the queue executor
	// for workloads implementing workload.Partitioner. Zero or less means
	// Workers.
	Partitions int
	// Logger receives run-level debug events. The zero value discards them.
	Logger zerolog.Logger
	// Observer, if set, receives RunStats after each successful run.
	Observer RunObserver
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Partitions <= 0 {
		o.Partitions = o.Workers
	}
	return o
}

func (o Options) report(stats RunStats) {
	o.Logger.Debug().
		Str("strategy", string(stats.Strategy)).
		Int("workers", stats.Workers).
		Int64("leaves", stats.Leaves).
		Int64("expanded", stats.Expanded).
		Int64("forks", stats.Forks).
		Int64("steals", stats.Steals).
		Dur("duration", stats.Duration).
		Msg("run completed")
	if o.Observer != nil {
		o.Observer.RunCompleted(stats)
	}
}
