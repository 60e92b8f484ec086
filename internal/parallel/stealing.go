package parallel

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/parbench/internal/errors"
	"github.com/agbru/parbench/internal/workload"
)

// RecursiveExecutor evaluates a workload by recursive fork/join on a
// work-stealing pool. A new pool is started for every Run.
type RecursiveExecutor[U, R any] struct {
	opts Options
}

// NewRecursiveExecutor returns a work-stealing executor.
func NewRecursiveExecutor[U, R any](opts Options) *RecursiveExecutor[U, R] {
	return &RecursiveExecutor[U, R]{opts: opts.withDefaults()}
}

// Name returns the human-readable strategy label.
func (e *RecursiveExecutor[U, R]) Name() string { return "Work-Stealing (recursive split)" }

// Strategy returns StrategyWorkStealing.
func (e *RecursiveExecutor[U, R]) Strategy() Strategy { return StrategyWorkStealing }

// Workers returns the pool size.
func (e *RecursiveExecutor[U, R]) Workers() int { return e.opts.Workers }

// Run evaluates root and returns the merged result. Child results are merged
// in split order starting from wl.Empty(), so the aggregate is identical to a
// sequential evaluation whatever the interleaving.
func (e *RecursiveExecutor[U, R]) Run(ctx context.Context, wl workload.Workload[U, R], root U) (R, error) {
	var zero R
	if wl == nil {
		return zero, apperrors.ExecutionError{Strategy: e.Name(), Cause: errors.New("nil workload")}
	}
	if err := ctx.Err(); err != nil {
		return zero, apperrors.ExecutionError{Strategy: e.Name(), Cause: err}
	}

	start := time.Now()
	p := newStealPool[R](e.opts.Workers)
	rootTask := newTask(func(w *worker[R]) R { return e.solve(w, wl, root) })
	p.workers[0].deque.pushBottom(rootTask)

	var g errgroup.Group
	for _, w := range p.workers {
		g.Go(func() error {
			w.loop()
			return nil
		})
	}
	stop := context.AfterFunc(ctx, func() { p.abort(nil) })

	select {
	case <-rootTask.done:
	case <-p.quit:
	}
	stop()
	p.shutdown()
	_ = g.Wait()

	if err := p.errs.Err(); err != nil {
		return zero, apperrors.ExecutionError{Strategy: e.Name(), Cause: err}
	}
	if p.aborted.Load() {
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		return zero, apperrors.ExecutionError{Strategy: e.Name(), Cause: cause}
	}

	e.opts.report(RunStats{
		Strategy: StrategyWorkStealing,
		Workers:  len(p.workers),
		Leaves:   p.leaves.Load(),
		Expanded: p.expanded.Load(),
		Forks:    p.forks.Load(),
		Steals:   p.steals.Load(),
		Duration: time.Since(start),
	})
	return rootTask.result, nil
}

// solve evaluates u on worker w. Leaf children are computed inline, every
// composite child but the last is forked, and the last composite child runs
// on the current worker.
func (e *RecursiveExecutor[U, R]) solve(w *worker[R], wl workload.Workload[U, R], u U) R {
	p := w.pool
	if wl.IsLeaf(u) {
		p.leaves.Add(1)
		return wl.ComputeLeaf(u)
	}
	p.expanded.Add(1)
	children := wl.Split(u)

	inline := -1
	for i := len(children) - 1; i >= 0; i-- {
		if !wl.IsLeaf(children[i]) {
			inline = i
			break
		}
	}

	forked := make([]*task[R], len(children))
	for i, c := range children {
		if i == inline || wl.IsLeaf(c) {
			continue
		}
		forked[i] = w.fork(func(w *worker[R]) R { return e.solve(w, wl, c) })
	}

	results := make([]R, len(children))
	for i, c := range children {
		if forked[i] == nil {
			results[i] = e.solve(w, wl, c)
		}
	}

	acc := wl.Empty()
	for i := range children {
		if t := forked[i]; t != nil {
			r, ok := w.join(t)
			if !ok {
				// Pool aborted; the run is discarded.
				return acc
			}
			results[i] = r
		}
		acc = wl.Merge(acc, results[i])
	}
	return acc
}

type stealPool[R any] struct {
	workers []*worker[R]
	// wake carries at most one token per worker; a token tells an idle
	// worker that a deque may have gained a task.
	wake chan struct{}
	quit chan struct{}
	once sync.Once

	errs    ErrorCollector
	aborted atomic.Bool

	leaves   atomic.Int64
	expanded atomic.Int64
	forks    atomic.Int64
	steals   atomic.Int64
}

func newStealPool[R any](n int) *stealPool[R] {
	p := &stealPool[R]{
		wake: make(chan struct{}, n),
		quit: make(chan struct{}),
	}
	p.workers = make([]*worker[R], n)
	for i := range p.workers {
		p.workers[i] = &worker[R]{
			id:   i,
			pool: p,
			rng:  rand.New(rand.NewPCG(uint64(i)+1, uint64(n))),
		}
	}
	return p
}

// abort stops the pool early. A non-nil err is reported as the run's cause.
func (p *stealPool[R]) abort(err error) {
	p.errs.SetError(err)
	p.aborted.Store(true)
	p.shutdown()
}

func (p *stealPool[R]) shutdown() {
	p.once.Do(func() { close(p.quit) })
}

func (p *stealPool[R]) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

type worker[R any] struct {
	id    int
	pool  *stealPool[R]
	deque deque[R]
	rng   *rand.Rand
}

func (w *worker[R]) loop() {
	for {
		if t := w.next(); t != nil {
			w.run(t)
			continue
		}
		select {
		case <-w.pool.quit:
			return
		case <-w.pool.wake:
		}
	}
}

// next returns the newest local task, or a task stolen from a random peer.
func (w *worker[R]) next() *task[R] {
	select {
	case <-w.pool.quit:
		return nil
	default:
	}
	if t := w.deque.popBottom(); t != nil {
		return t
	}
	return w.steal()
}

func (w *worker[R]) steal() *task[R] {
	n := len(w.pool.workers)
	if n < 2 {
		return nil
	}
	start := w.rng.IntN(n)
	for i := range n {
		victim := w.pool.workers[(start+i)%n]
		if victim == w {
			continue
		}
		if t := victim.deque.popTop(); t != nil {
			w.pool.steals.Add(1)
			return t
		}
	}
	return nil
}

func (w *worker[R]) run(t *task[R]) {
	defer func() {
		if r := recover(); r != nil {
			w.pool.abort(fmt.Errorf("worker %d: task panicked: %v", w.id, r))
		}
	}()
	t.result = t.fn(w)
	close(t.done)
}

func (w *worker[R]) fork(fn func(*worker[R]) R) *task[R] {
	t := newTask(fn)
	w.deque.pushBottom(t)
	w.pool.forks.Add(1)
	w.pool.signal()
	return t
}

// join waits for t, running other pending tasks meanwhile. It reports false
// if the pool was aborted before t completed.
func (w *worker[R]) join(t *task[R]) (R, bool) {
	var zero R
	for {
		select {
		case <-t.done:
			return t.result, true
		case <-w.pool.quit:
			return zero, false
		default:
		}
		if next := w.next(); next != nil {
			w.run(next)
			continue
		}
		select {
		case <-t.done:
			return t.result, true
		case <-w.pool.quit:
			return zero, false
		case <-w.pool.wake:
		}
	}
}
