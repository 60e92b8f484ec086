package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/parbench/internal/config"
	"github.com/agbru/parbench/internal/orchestration"
	"github.com/agbru/parbench/internal/sysmon"
	"github.com/agbru/parbench/internal/workload"
)

var sampleResults = []orchestration.StrategyResult{
	{Name: "Work-Stealing", Duration: 1500 * time.Microsecond, Summary: "3"},
	{Name: "Work-Dealing", Duration: 2 * time.Millisecond, Err: errors.New("canceled")},
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	if got := FormatQuietResult(sampleResults[0]); got != "Work-Stealing\t1.500\t3" {
		t.Errorf("got %q", got)
	}
	if got := FormatQuietResult(sampleResults[1]); got != "Work-Dealing\t2.000\terror: canceled" {
		t.Errorf("got %q", got)
	}
}

func TestDisplayQuietResults(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayQuietResults(&buf, sampleResults)
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 2 {
		t.Errorf("expected one line per strategy, got %q", buf.String())
	}
}

func TestWriteResultsToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "report.tsv")
	if err := WriteResultsToFile(path, "files under /tmp", sampleResults); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "# Workload: files under /tmp") || !strings.Contains(text, "Work-Stealing\t1.500\t3") {
		t.Errorf("unexpected report:\n%s", text)
	}
	if err := WriteResultsToFile("", "x", sampleResults); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestDisplayVerification(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	DisplayVerification(&buf, "sequential sums", time.Millisecond, []VerificationResult{
		{Name: "A", Match: true},
		{Name: "B", Match: false},
	})
	out := buf.String()
	if !strings.Contains(out, "✓ A matches") || !strings.Contains(out, "✗ B differs from sequential sums") {
		t.Errorf("unexpected verification output:\n%s", out)
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	cfg := config.ApplyDefaults(config.AppConfig{Workload: config.WorkloadGrid, Rows: 2, Cols: 3, Max: 9, Timeout: time.Minute})
	PrintExecutionConfig(cfg, sysmon.Host{CPUModel: "Test CPU", PhysicalCores: 2, LogicalCores: 4, MemTotal: 1 << 30}, &buf)
	out := buf.String()
	for _, want := range []string{"2x3 grid", "leaf threshold 10", "1.0 GiB RAM", "CPU: Test CPU"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	cfg.Workload, cfg.Dir, cfg.MinSize = config.WorkloadFiles, "/data", 1000
	PrintExecutionConfig(cfg, sysmon.Host{}, &buf)
	if !strings.Contains(buf.String(), "larger than 1000 bytes under /data") {
		t.Errorf("file workload not described:\n%s", buf.String())
	}
}

func TestPrintMatrix(t *testing.T) {
	noColor(t)
	g, err := workload.GridFromRows([][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	PrintMatrix(g, 2, &buf)
	out := buf.String()
	if !strings.Contains(out, "     1     2   ...") || !strings.Contains(out, "   ...\n") {
		t.Errorf("unexpected matrix output:\n%q", out)
	}
	if strings.Contains(out, "9") {
		t.Errorf("cut cells were printed:\n%s", out)
	}
}
