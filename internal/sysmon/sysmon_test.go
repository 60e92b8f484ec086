package sysmon

import "testing"

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestSample_MemPercentNonZero(t *testing.T) {
	s := Sample()
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}

func TestDescribe(t *testing.T) {
	h := Describe()
	if h.LogicalCores < 0 || h.PhysicalCores < 0 {
		t.Errorf("negative core counts: %+v", h)
	}
	if h.LogicalCores > 0 && h.PhysicalCores > h.LogicalCores {
		t.Errorf("more physical than logical cores: %+v", h)
	}
	if h.MemPercent < 0 || h.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", h.MemPercent)
	}
}
