package parallel

import "sync"

// task is a forked unit of recursive work. done is closed once result is set.
type task[R any] struct {
	fn     func(*worker[R]) R
	result R
	done   chan struct{}
}

func newTask[R any](fn func(*worker[R]) R) *task[R] {
	return &task[R]{fn: fn, done: make(chan struct{})}
}

// deque is a mutex-guarded double-ended queue. The owning worker pushes and
// pops at the bottom; thieves take from the top, where the oldest and
// usually largest tasks sit.
type deque[R any] struct {
	mu    sync.Mutex
	tasks []*task[R]
}

func (d *deque[R]) pushBottom(t *task[R]) {
	d.mu.Lock()
	d.tasks = append(d.tasks, t)
	d.mu.Unlock()
}

func (d *deque[R]) popBottom() *task[R] {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.tasks)
	if n == 0 {
		return nil
	}
	t := d.tasks[n-1]
	d.tasks[n-1] = nil
	d.tasks = d.tasks[:n-1]
	return t
}

func (d *deque[R]) popTop() *task[R] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.tasks) == 0 {
		return nil
	}
	t := d.tasks[0]
	d.tasks[0] = nil
	d.tasks = d.tasks[1:]
	return t
}
