// Package workload defines the partitionable reductions that the executors in
// internal/parallel run: how an input is split into work units, how a leaf unit
// is computed, and how partial results merge. It contains no concurrency logic
// of its own beyond the thread-safe accumulators used by the work-queue
// executor.
//
// Two workloads are provided:
//
//   - ColumnSumWorkload: per-column sums of a 2-D integer grid. Units are
//     half-open column ranges; merging concatenates in column order.
//   - FileCountWorkload: the number of files larger than a byte threshold in a
//     directory tree. Units are paths; merging adds counts.
package workload
