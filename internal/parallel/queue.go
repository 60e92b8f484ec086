package parallel

import "sync"

// queued is a unit waiting in the shared queue. Direct units are computed
// with ComputeLeaf without consulting IsLeaf.
type queued[U any] struct {
	unit   U
	direct bool
}

// unitQueue is an unbounded FIFO shared by all dealing workers. It tracks
// units that are queued or being handled; once that count drops to zero the
// queue closes and every blocked pop returns.
type unitQueue[U any] struct {
	mu          sync.Mutex
	cond        *sync.Cond
	items       []queued[U]
	outstanding int
	closed      bool
	aborted     bool
}

func newUnitQueue[U any](seed []queued[U]) *unitQueue[U] {
	q := &unitQueue[U]{
		items:       seed,
		outstanding: len(seed),
		closed:      len(seed) == 0,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *unitQueue[U]) push(items ...queued[U]) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.outstanding += len(items)
	q.mu.Unlock()
	if len(items) == 1 {
		q.cond.Signal()
	} else {
		q.cond.Broadcast()
	}
}

// pop blocks until a unit is available. It returns false once the queue is
// drained or aborted.
func (q *unitQueue[U]) pop() (queued[U], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.aborted || len(q.items) == 0 {
		return queued[U]{}, false
	}
	it := q.items[0]
	q.items[0] = queued[U]{}
	q.items = q.items[1:]
	return it, true
}

// done marks one popped unit as fully handled, including pushing any
// children it produced.
func (q *unitQueue[U]) done() {
	q.mu.Lock()
	q.outstanding--
	finished := q.outstanding == 0
	if finished {
		q.closed = true
	}
	q.mu.Unlock()
	if finished {
		q.cond.Broadcast()
	}
}

func (q *unitQueue[U]) abort() {
	q.mu.Lock()
	q.closed = true
	q.aborted = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *unitQueue[U]) wasAborted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aborted
}
