package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc   uint64 // bytes in use by the process
	TotalAlloc  uint64 // cumulative bytes allocated
	Sys         uint64 // total bytes obtained from OS
	NumGC       uint32 // number of completed GC cycles
	HeapObjects uint64 // number of allocated heap objects
}

// ReadMemory reads current runtime memory statistics.
func ReadMemory() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		TotalAlloc:  m.TotalAlloc,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		HeapObjects: m.HeapObjects,
	}
}

// Since returns the bytes allocated and GC cycles completed between prev
// and s.
func (s MemorySnapshot) Since(prev MemorySnapshot) (allocated uint64, gcCycles uint32) {
	if s.TotalAlloc > prev.TotalAlloc {
		allocated = s.TotalAlloc - prev.TotalAlloc
	}
	if s.NumGC > prev.NumGC {
		gcCycles = s.NumGC - prev.NumGC
	}
	return allocated, gcCycles
}
