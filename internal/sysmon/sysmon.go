// Package sysmon describes the host a benchmark runs on: core counts, CPU
// model, memory and current load.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Host describes the machine. Fields that could not be read are zero.
type Host struct {
	CPUModel      string
	LogicalCores  int
	PhysicalCores int
	MemTotal      uint64 // bytes
	Load1         float64
	Stats
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Describe reads the host description. It never fails; unreadable values
// stay zero.
func Describe() Host {
	h := Host{Stats: Sample()}
	if n, err := cpu.Counts(true); err == nil {
		h.LogicalCores = n
	}
	if n, err := cpu.Counts(false); err == nil {
		h.PhysicalCores = n
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		h.MemTotal = vmem.Total
	}
	if avg, err := load.Avg(); err == nil && avg != nil {
		h.Load1 = avg.Load1
	}
	return h
}
