package format

import (
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatMillis(t *testing.T) {
	t.Parallel()
	if got := FormatMillis(1234567 * time.Nanosecond); got != "1.235 ms" {
		t.Errorf("FormatMillis = %q", got)
	}
}

func TestFormatColumnSums(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		sums  []int64
		limit int
		want  string
	}{
		{"empty", []int64{}, 10, "[]"},
		{"short", []int64{5, 7, 9}, 10, "[5 7 9]"},
		{"no limit", []int64{1, 2, 3, 4, 5}, 0, "[1 2 3 4 5]"},
		{"truncated", []int64{1, 2, 3, 4, 5, 6, 7}, 4, "[1 2 ... 6 7] (7 columns)"},
		{"negative values", []int64{-1, 0, 1}, 3, "[-1 0 1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatColumnSums(tt.sums, tt.limit); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{3 * 1024 * 1024 / 2, "1.5 MiB"},
		{8 << 30, "8.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
