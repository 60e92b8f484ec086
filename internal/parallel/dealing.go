package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/workload"
)

// QueueExecutor evaluates a workload by dealing units from a shared FIFO
// queue to a fixed pool of workers.
type QueueExecutor[U, R any] struct {
	opts Options
}

// NewQueueExecutor returns a work-dealing executor.
func NewQueueExecutor[U, R any](opts Options) *QueueExecutor[U, R] {
	return &QueueExecutor[U, R]{opts: opts.withDefaults()}
}

// Name returns the human-readable strategy label.
func (e *QueueExecutor[U, R]) Name() string { return "Work-Dealing (shared queue)" }

// Strategy returns StrategyWorkDealing.
func (e *QueueExecutor[U, R]) Strategy() Strategy { return StrategyWorkDealing }

// Workers returns the pool size.
func (e *QueueExecutor[U, R]) Workers() int { return e.opts.Workers }

// Partitions returns the up-front partition count used for partitionable
// workloads.
func (e *QueueExecutor[U, R]) Partitions() int { return e.opts.Partitions }

// Run evaluates root and returns the aggregate once every queued unit has
// been handled.
//
// Workloads implementing workload.Partitioner are cut into Partitions units
// that are computed directly. Otherwise root is queued and composite units
// are expanded back into the queue. Results are collected by the workload's
// own accumulator when it implements workload.Accumulable, and by merging
// under a lock otherwise; the latter requires a commutative Merge.
func (e *QueueExecutor[U, R]) Run(ctx context.Context, wl workload.Workload[U, R], root U) (R, error) {
	var zero R
	if wl == nil {
		return zero, apperrors.ExecutionError{Strategy: e.Name(), Cause: errors.New("nil workload")}
	}
	if err := ctx.Err(); err != nil {
		return zero, apperrors.ExecutionError{Strategy: e.Name(), Cause: err}
	}

	start := time.Now()
	q := newUnitQueue(e.seed(wl, root))
	acc := newAccumulator(wl, root)

	var leaves, expanded atomic.Int64
	stop := context.AfterFunc(ctx, q.abort)
	var g errgroup.Group
	for id := range e.opts.Workers {
		g.Go(func() error { return e.work(id, q, wl, acc, &leaves, &expanded) })
	}
	err := g.Wait()
	stop()

	if err != nil {
		return zero, apperrors.ExecutionError{Strategy: e.Name(), Cause: err}
	}
	if q.wasAborted() {
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		return zero, apperrors.ExecutionError{Strategy: e.Name(), Cause: cause}
	}

	e.opts.report(RunStats{
		Strategy: StrategyWorkDealing,
		Workers:  e.opts.Workers,
		Leaves:   leaves.Load(),
		Expanded: expanded.Load(),
		Duration: time.Since(start),
	})
	return acc.Result(), nil
}

func (e *QueueExecutor[U, R]) seed(wl workload.Workload[U, R], root U) []queued[U] {
	if p, ok := wl.(workload.Partitioner[U]); ok {
		parts := p.Partition(root, e.opts.Partitions)
		seed := make([]queued[U], len(parts))
		for i, u := range parts {
			seed[i] = queued[U]{unit: u, direct: true}
		}
		e.opts.Logger.Debug().Int("partitions", len(seed)).Msg("queue seeded with partitions")
		return seed
	}
	return []queued[U]{{unit: root}}
}

func (e *QueueExecutor[U, R]) work(id int, q *unitQueue[U], wl workload.Workload[U, R], acc workload.Accumulator[U, R], leaves, expanded *atomic.Int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: task panicked: %v", id, r)
			q.abort()
		}
	}()
	for {
		it, ok := q.pop()
		if !ok {
			return nil
		}
		if it.direct || wl.IsLeaf(it.unit) {
			acc.Add(it.unit, wl.ComputeLeaf(it.unit))
			leaves.Add(1)
		} else {
			children := wl.Split(it.unit)
			next := make([]queued[U], len(children))
			for i, c := range children {
				next[i] = queued[U]{unit: c}
			}
			q.push(next...)
			expanded.Add(1)
		}
		q.done()
	}
}

func newAccumulator[U, R any](wl workload.Workload[U, R], root U) workload.Accumulator[U, R] {
	if a, ok := wl.(workload.Accumulable[U, R]); ok {
		return a.NewAccumulator(root)
	}
	return &lockedAccumulator[U, R]{wl: wl, acc: wl.Empty()}
}

// lockedAccumulator merges partials in arrival order under a mutex.
type lockedAccumulator[U, R any] struct {
	mu  sync.Mutex
	wl  workload.Workload[U, R]
	acc R
}

func (a *lockedAccumulator[U, R]) Add(_ U, partial R) {
	a.mu.Lock()
	a.acc = a.wl.Merge(a.acc, partial)
	a.mu.Unlock()
}

func (a *lockedAccumulator[U, R]) Result() R {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acc
}
