// Package parallel runs a workload.Workload with one of two scheduling
// disciplines and returns the merged aggregate.
//
// RecursiveExecutor splits units recursively on a fixed pool of workers. Each
// worker owns a deque: forked sub-tasks go to the bottom of the owner's deque,
// the owner pops from the bottom, and idle workers steal from the top of a
// random peer. A worker waiting on a forked task keeps running pending tasks
// until the awaited one completes.
//
// QueueExecutor seeds a shared FIFO queue (with up-front partitions when the
// workload supports it) and drains it with a fixed pool. Composite units are
// expanded back into the queue. Workers stop only once no unit is queued or
// in flight.
//
// Both executors fail a run as a whole: a panic in workload code or a
// cancelled context yields an apperrors.ExecutionError and no result.
package parallel
