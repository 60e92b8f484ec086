package parallel

import (
	"context"
	"path/filepath"
	"slices"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/parbench/internal/workload"
)

// TestColumnSum_MatchesSerial_PropertyBased checks that both executors return
// the sequential column sums for arbitrary grids, thresholds and pool sizes.
func TestColumnSum_MatchesSerial_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("executors agree with a sequential sum", prop.ForAll(
		func(rows, cols, threshold, workers int, seed uint64) bool {
			g, err := workload.GenerateGrid(rows, cols, -1000, 1000, seed)
			if err != nil {
				t.Logf("GenerateGrid: %v", err)
				return false
			}
			wl, err := workload.NewColumnSum(g, threshold)
			if err != nil {
				t.Logf("NewColumnSum: %v", err)
				return false
			}
			want := workload.SerialColumnSums(g)
			for _, ex := range executorsFor[workload.ColumnRange, []int64](workers) {
				got, err := ex.Run(context.Background(), wl, wl.Root())
				if err != nil || !slices.Equal(got, want) {
					t.Logf("%s rows=%d cols=%d T=%d P=%d: got %v (%v), want %v",
						ex.Name(), rows, cols, threshold, workers, got, err, want)
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 6),
		gen.IntRange(0, 120),
		gen.IntRange(1, 16),
		gen.IntRange(1, 6),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// TestFileCount_MatchesSerial_PropertyBased builds random trees and checks
// both executors against a sequential walk.
func TestFileCount_MatchesSerial_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("executors agree with a sequential walk", prop.ForAll(
		func(sizes []int, fanout, workers int) bool {
			dir := t.TempDir()
			for i, size := range sizes {
				// Spread files over nested directories: d0/d1/... by index.
				path := dir
				for level := i; level > 0; level /= fanout {
					path = filepath.Join(path, "d"+strconv.Itoa(level%fanout))
				}
				writeSized(t, filepath.Join(path, "f"+strconv.Itoa(i)), size)
			}
			want := workload.SerialFileCount(dir, 100)
			wl, root := fileCount(t, dir, 100)
			for _, ex := range executorsFor[workload.FileUnit, int64](workers) {
				got, err := ex.Run(context.Background(), wl, root)
				if err != nil || got != want {
					t.Logf("%s: got %d (%v), want %d", ex.Name(), got, err, want)
					return false
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(0, 300)),
		gen.IntRange(2, 4),
		gen.IntRange(1, 4),
	))

	properties.TestingRun(t)
}
