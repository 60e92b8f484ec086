package workload

// Workload describes a reduction over work units of type U producing partial
// results of type R.
//
// Merge must be associative and Empty must be its neutral element. Executors
// merge sibling results in the order Split returned them, so an
// order-sensitive Merge (such as concatenation) still yields a deterministic
// aggregate.
type Workload[U, R any] interface {
	// IsLeaf reports whether unit is computed directly rather than split.
	IsLeaf(unit U) bool
	// Split returns the immediate children of a composite unit, in order.
	// It returns nil for leaves and may return an empty slice for a
	// composite unit with nothing beneath it.
	Split(unit U) []U
	// ComputeLeaf computes the partial result of a leaf unit. Transient
	// failures are absorbed by the implementation and yield Empty().
	ComputeLeaf(unit U) R
	// Merge combines two partial results covering adjacent domains.
	Merge(a, b R) R
	// Empty returns the neutral partial result.
	Empty() R
	// Equal reports whether two aggregate results are identical.
	Equal(a, b R) bool
}

// Partitioner is implemented by workloads whose root can be cut up front into
// a fixed number of contiguous units. The work-queue executor computes those
// units directly instead of expanding the root through Split.
type Partitioner[U any] interface {
	Partition(root U, parts int) []U
}

// Accumulator collects leaf results from concurrent workers.
// Add is safe for concurrent use; Result is called once all Adds returned.
type Accumulator[U, R any] interface {
	Add(unit U, partial R)
	Result() R
}

// Accumulable is implemented by workloads that provide an accumulator able to
// place each partial result independently of arrival order.
type Accumulable[U, R any] interface {
	NewAccumulator(root U) Accumulator[U, R]
}
