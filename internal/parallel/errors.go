package parallel

import "sync"

// ErrorCollector keeps the first non-nil error reported by concurrent workers.
type ErrorCollector struct {
	mu  sync.Mutex
	err error
}

// SetError records err if no error was recorded yet. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
