package parallel

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/agbru/parbench/internal/workload"
)

// executorsFor returns both executors configured with the given pool size.
func executorsFor[U, R any](workers int) []Executor[U, R] {
	opts := Options{Workers: workers}
	return []Executor[U, R]{
		NewRecursiveExecutor[U, R](opts),
		NewQueueExecutor[U, R](opts),
	}
}

func columnSum(t *testing.T, rows [][]int, threshold int) *workload.ColumnSumWorkload {
	t.Helper()
	g, err := workload.GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	w, err := workload.NewColumnSum(g, threshold)
	if err != nil {
		t.Fatalf("NewColumnSum: %v", err)
	}
	return w
}

func writeSized(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fileCount(t *testing.T, dir string, minSize int64) (*workload.FileCountWorkload, workload.FileUnit) {
	t.Helper()
	w, err := workload.NewFileCount(minSize)
	if err != nil {
		t.Fatalf("NewFileCount: %v", err)
	}
	root, err := w.Root(dir)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	return w, root
}

// rangeSum adds the integers of [from, to). It implements neither
// Partitioner nor Accumulable, so it exercises the generic paths.
type rangeSum struct {
	leafSize int
}

type span struct{ from, to int }

func (w rangeSum) IsLeaf(s span) bool { return s.to-s.from <= w.leafSize }

func (w rangeSum) Split(s span) []span {
	if w.IsLeaf(s) {
		return nil
	}
	if s.to-s.from < 3 {
		mid := s.from + (s.to-s.from)/2
		return []span{{s.from, mid}, {mid, s.to}}
	}
	third := (s.to - s.from) / 3
	a, b := s.from+third, s.from+2*third
	return []span{{s.from, a}, {a, b}, {b, s.to}}
}

func (w rangeSum) ComputeLeaf(s span) int64 {
	var n int64
	for i := s.from; i < s.to; i++ {
		n += int64(i)
	}
	return n
}

func (rangeSum) Merge(a, b int64) int64 { return a + b }
func (rangeSum) Empty() int64           { return 0 }
func (rangeSum) Equal(a, b int64) bool  { return a == b }

// recordingColumns wraps a ColumnSumWorkload and records every range
// passed to ComputeLeaf.
type recordingColumns struct {
	*workload.ColumnSumWorkload
	mu     sync.Mutex
	leaves []workload.ColumnRange
}

func (w *recordingColumns) ComputeLeaf(r workload.ColumnRange) []int64 {
	w.mu.Lock()
	w.leaves = append(w.leaves, r)
	w.mu.Unlock()
	return w.ColumnSumWorkload.ComputeLeaf(r)
}

// panicking panics when computing the leaf starting at column at.
type panicking struct {
	*workload.ColumnSumWorkload
	at int
}

func (w panicking) ComputeLeaf(r workload.ColumnRange) []int64 {
	if r.From == w.at {
		panic("leaf exploded")
	}
	return w.ColumnSumWorkload.ComputeLeaf(r)
}

// blocking parks every leaf until ctx is done.
type blocking struct {
	rangeSum
	ctx     context.Context
	started chan struct{}
	once    sync.Once
}

func (w *blocking) ComputeLeaf(s span) int64 {
	w.once.Do(func() { close(w.started) })
	<-w.ctx.Done()
	return 0
}

// brokenEntries adds a child that vanished before it could be stat'ed to
// every directory listing.
type brokenEntries struct {
	*workload.FileCountWorkload
}

func (w brokenEntries) Split(u workload.FileUnit) []workload.FileUnit {
	children := w.FileCountWorkload.Split(u)
	return append(children, workload.FileUnit{Path: filepath.Join(u.Path, "vanished.bin")})
}

// unlistableDir adds a sub-directory that no longer exists to the root
// listing, so listing it fails.
type unlistableDir struct {
	*workload.FileCountWorkload
	root string
}

func (w unlistableDir) Split(u workload.FileUnit) []workload.FileUnit {
	children := w.FileCountWorkload.Split(u)
	if u.Path != w.root {
		return children
	}
	return append(children, workload.FileUnit{Path: filepath.Join(u.Path, "removed"), Dir: true})
}

type statsRecorder struct {
	mu    sync.Mutex
	stats []RunStats
}

func (r *statsRecorder) RunCompleted(s RunStats) {
	r.mu.Lock()
	r.stats = append(r.stats, s)
	r.mu.Unlock()
}
