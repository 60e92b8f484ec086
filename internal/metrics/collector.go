package metrics

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/parbench/internal/parallel"
)

// Options controls collector configuration.
type Options struct {
	Namespace       string
	DurationBuckets []float64
}

// RunCollector records parallel.RunStats as Prometheus metrics. A nil
// *RunCollector ignores every call.
type RunCollector struct {
	gatherer prom.Gatherer

	runDuration *prom.HistogramVec
	runsTotal   *prom.CounterVec
	leavesTotal *prom.CounterVec
	splitsTotal *prom.CounterVec
	forksTotal  *prom.CounterVec
	stealsTotal *prom.CounterVec
	workers     *prom.GaugeVec
	heapAlloc   *prom.GaugeVec
	allocated   *prom.CounterVec
	gcCycles    *prom.CounterVec

	last MemorySnapshot
}

var _ parallel.RunObserver = (*RunCollector)(nil)

// NewRunCollector creates a collector registered on its own registry.
func NewRunCollector(opts Options) (*RunCollector, error) {
	return NewRunCollectorWith(prom.NewRegistry(), opts)
}

// NewRunCollectorWith creates a collector registered on reg. Collectors that
// are already registered are reused. WriteTextfile works only if reg is also a
// prom.Gatherer.
func NewRunCollectorWith(reg prom.Registerer, opts Options) (*RunCollector, error) {
	ns := opts.Namespace
	if ns == "" {
		ns = "parbench"
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.ExponentialBuckets(0.0001, 4, 10)
	}
	labels := []string{"strategy"}

	c := &RunCollector{
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: ns, Name: "run_duration_seconds",
			Help: "Executor run duration in seconds.", Buckets: buckets,
		}, labels),
		runsTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns, Name: "runs_total", Help: "Completed executor runs.",
		}, labels),
		leavesTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns, Name: "leaves_total", Help: "Leaf units computed.",
		}, labels),
		splitsTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns, Name: "splits_total", Help: "Composite units split.",
		}, labels),
		forksTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns, Name: "forks_total", Help: "Tasks forked onto a worker deque.",
		}, labels),
		stealsTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns, Name: "steals_total", Help: "Tasks stolen from another worker.",
		}, labels),
		workers: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: ns, Name: "workers", Help: "Pool size of the last run.",
		}, labels),
		heapAlloc: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: ns, Name: "heap_alloc_bytes", Help: "Heap in use after the last run.",
		}, labels),
		allocated: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns, Name: "allocated_bytes_total", Help: "Bytes allocated while runs were reported.",
		}, labels),
		gcCycles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns, Name: "gc_cycles_total", Help: "GC cycles completed while runs were reported.",
		}, labels),
		last: ReadMemory(),
	}

	var err error
	if c.runDuration, err = registerCollector(reg, c.runDuration); err != nil {
		return nil, err
	}
	for _, vec := range []**prom.CounterVec{&c.runsTotal, &c.leavesTotal, &c.splitsTotal, &c.forksTotal, &c.stealsTotal, &c.allocated, &c.gcCycles} {
		if *vec, err = registerCollector(reg, *vec); err != nil {
			return nil, err
		}
	}
	for _, vec := range []**prom.GaugeVec{&c.workers, &c.heapAlloc} {
		if *vec, err = registerCollector(reg, *vec); err != nil {
			return nil, err
		}
	}
	if g, ok := reg.(prom.Gatherer); ok {
		c.gatherer = g
	}
	return c, nil
}

// RunCompleted records one run. Runs are reported sequentially by the
// harness, so memory deltas are attributed to the run just finished.
func (c *RunCollector) RunCompleted(s parallel.RunStats) {
	if c == nil {
		return
	}
	label := string(s.Strategy)
	if label == "" {
		label = "unknown"
	}
	c.runDuration.WithLabelValues(label).Observe(s.Duration.Seconds())
	c.runsTotal.WithLabelValues(label).Inc()
	c.leavesTotal.WithLabelValues(label).Add(float64(s.Leaves))
	c.splitsTotal.WithLabelValues(label).Add(float64(s.Expanded))
	c.forksTotal.WithLabelValues(label).Add(float64(s.Forks))
	c.stealsTotal.WithLabelValues(label).Add(float64(s.Steals))
	c.workers.WithLabelValues(label).Set(float64(s.Workers))

	now := ReadMemory()
	bytes, cycles := now.Since(c.last)
	c.last = now
	c.heapAlloc.WithLabelValues(label).Set(float64(now.HeapAlloc))
	c.allocated.WithLabelValues(label).Add(float64(bytes))
	c.gcCycles.WithLabelValues(label).Add(float64(cycles))
}

// WriteTextfile writes every gathered metric to path in the Prometheus text
// exposition format.
func (c *RunCollector) WriteTextfile(path string) error {
	if c == nil || c.gatherer == nil {
		return errors.New("metrics: no gatherer to write from")
	}
	if err := prom.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("metrics: writing %s: %w", path, err)
	}
	return nil
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
