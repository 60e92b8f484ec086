package workload

import (
	"fmt"
	"slices"

	apperrors "github.com/agbru/parbench/internal/errors"
)

// DefaultColumnThreshold is the widest column range computed serially.
const DefaultColumnThreshold = 10

// ColumnRange is the half-open column interval [From, To).
type ColumnRange struct {
	From, To int
}

// Len returns the number of columns in the range.
func (r ColumnRange) Len() int { return r.To - r.From }

func (r ColumnRange) String() string { return fmt.Sprintf("[%d,%d)", r.From, r.To) }

// ColumnSumWorkload sums every column of a Grid.
type ColumnSumWorkload struct {
	grid      Grid
	threshold int
}

var (
	_ Workload[ColumnRange, []int64]    = (*ColumnSumWorkload)(nil)
	_ Partitioner[ColumnRange]          = (*ColumnSumWorkload)(nil)
	_ Accumulable[ColumnRange, []int64] = (*ColumnSumWorkload)(nil)
)

// NewColumnSum creates a column-sum workload. Ranges of at most threshold
// columns are computed directly.
func NewColumnSum(grid Grid, threshold int) (*ColumnSumWorkload, error) {
	if threshold < 1 {
		return nil, apperrors.NewConfigError("threshold must be at least 1, got %d", threshold)
	}
	return &ColumnSumWorkload{grid: grid, threshold: threshold}, nil
}

// Root returns the range covering every column.
func (w *ColumnSumWorkload) Root() ColumnRange { return ColumnRange{From: 0, To: w.grid.Cols()} }

// Threshold returns the leaf width.
func (w *ColumnSumWorkload) Threshold() int { return w.threshold }

// Grid returns the input grid.
func (w *ColumnSumWorkload) Grid() Grid { return w.grid }

// IsLeaf reports whether r is narrow enough to be summed directly.
func (w *ColumnSumWorkload) IsLeaf(r ColumnRange) bool { return r.Len() <= w.threshold }

// Split cuts r at its midpoint.
func (w *ColumnSumWorkload) Split(r ColumnRange) []ColumnRange {
	if w.IsLeaf(r) {
		return nil
	}
	mid := r.From + r.Len()/2
	return []ColumnRange{{From: r.From, To: mid}, {From: mid, To: r.To}}
}

// ComputeLeaf sums the columns of r over every row.
func (w *ColumnSumWorkload) ComputeLeaf(r ColumnRange) []int64 {
	sums := make([]int64, r.Len())
	for i := 0; i < w.grid.Rows(); i++ {
		row := w.grid.Row(i)[r.From:r.To]
		for j, v := range row {
			sums[j] += int64(v)
		}
	}
	return sums
}

// Merge concatenates a then b.
func (w *ColumnSumWorkload) Merge(a, b []int64) []int64 {
	out := make([]int64, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Empty returns an empty, non-nil slice.
func (w *ColumnSumWorkload) Empty() []int64 { return []int64{} }

// Equal compares two column-sum sequences element-wise.
func (w *ColumnSumWorkload) Equal(a, b []int64) bool { return slices.Equal(a, b) }

// Partition cuts root into at most parts contiguous ranges of
// ceil(len/parts) columns. An empty root yields no ranges.
func (w *ColumnSumWorkload) Partition(root ColumnRange, parts int) []ColumnRange {
	n := root.Len()
	if n <= 0 {
		return nil
	}
	parts = max(1, min(parts, n))
	size := (n + parts - 1) / parts
	ranges := make([]ColumnRange, 0, parts)
	for from := root.From; from < root.To; from += size {
		ranges = append(ranges, ColumnRange{From: from, To: min(root.To, from+size)})
	}
	return ranges
}

// NewAccumulator returns an accumulator that writes each partial result into
// its own column slots.
func (w *ColumnSumWorkload) NewAccumulator(root ColumnRange) Accumulator[ColumnRange, []int64] {
	return &columnAccumulator{base: root.From, sums: make([]int64, root.Len())}
}

// columnAccumulator needs no lock: ranges added during one run never overlap.
type columnAccumulator struct {
	base int
	sums []int64
}

func (a *columnAccumulator) Add(r ColumnRange, partial []int64) {
	copy(a.sums[r.From-a.base:r.To-a.base], partial)
}

func (a *columnAccumulator) Result() []int64 { return a.sums }
