package workload

import (
	"math"
	"math/rand/v2"

	apperrors "github.com/agbru/parbench/internal/errors"
)

// Grid is an immutable rectangular matrix of integers stored row-major.
type Grid struct {
	rows, cols int
	data       []int
}

// NewGrid wraps row-major data of the given dimensions.
func NewGrid(rows, cols int, data []int) (Grid, error) {
	if rows < 0 || cols < 0 {
		return Grid{}, apperrors.NewConfigError("grid dimensions must be non-negative, got %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return Grid{}, apperrors.NewConfigError("grid data has %d values, want %d", len(data), rows*cols)
	}
	return Grid{rows: rows, cols: cols, data: data}, nil
}

// GridFromRows builds a Grid from a slice of rows. All rows must have the
// same length.
func GridFromRows(rows [][]int) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, nil
	}
	cols := len(rows[0])
	data := make([]int, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return Grid{}, apperrors.NewConfigError("grid is not rectangular: row %d has %d columns, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return Grid{rows: len(rows), cols: cols, data: data}, nil
}

// GenerateGrid fills a rows x cols grid with pseudo-random values in
// [min, max]. The same seed always produces the same grid.
func GenerateGrid(rows, cols, min, max int, seed uint64) (Grid, error) {
	if rows < 0 || cols < 0 {
		return Grid{}, apperrors.NewConfigError("grid dimensions must be non-negative, got %dx%d", rows, cols)
	}
	if min > max {
		return Grid{}, apperrors.NewConfigError("min value %d is greater than max value %d", min, max)
	}
	if uint64(max-min) >= math.MaxInt64 {
		return Grid{}, apperrors.NewConfigError("value range [%d, %d] is too wide", min, max)
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	span := int64(max-min) + 1
	data := make([]int, rows*cols)
	for i := range data {
		data[i] = min + int(r.Int64N(span))
	}
	return Grid{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// At returns the value at row i, column j.
func (g Grid) At(i, j int) int { return g.data[i*g.cols+j] }

// Row returns row i. The returned slice must not be modified.
func (g Grid) Row(i int) []int { return g.data[i*g.cols : (i+1)*g.cols] }

// SerialColumnSums is the reference single-goroutine column sum.
func SerialColumnSums(g Grid) []int64 {
	sums := make([]int64, g.cols)
	for j := 0; j < g.cols; j++ {
		var s int64
		for i := 0; i < g.rows; i++ {
			s += int64(g.At(i, j))
		}
		sums[j] = s
	}
	return sums
}
