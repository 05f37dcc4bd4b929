package meter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

func TestMetricCounts(t *testing.T) {
	m := NewMeter()

	m.IncrementCount(types.MetricRepetitionStartedCount)
	m.IncrementCount(types.MetricRepetitionStartedCount)
	m.DecrementCount(types.MetricRepetitionStartedCount)
	if got := m.GetMetricCount(types.MetricRepetitionStartedCount); got != 1 {
		t.Fatalf("expected count 1, got %d", got)
	}

	m.AddCount(types.MetricSamplesWrittenCount, 2500100)
	if got := m.GetMetricCount(types.MetricSamplesWrittenCount); got != 2500100 {
		t.Fatalf("expected samples 2500100, got %d", got)
	}

	m.DecrementCount(types.MetricFaultCount)
	if got := m.GetMetricCount(types.MetricFaultCount); got != 0 {
		t.Fatalf("expected decrement to floor at 0, got %d", got)
	}

	m.AddCount("custom", 3)
	if m.Snapshot()["custom"] != 3 {
		t.Fatalf("expected custom counter registered on first use")
	}

	m.ResetMetrics()
	if got := m.GetMetricCount(types.MetricSamplesWrittenCount); got != 0 {
		t.Fatalf("expected reset to 0, got %d", got)
	}
}

func TestPercentagesTrackPeak(t *testing.T) {
	m := NewMeter()
	m.SetMetricPercentage(types.MetricCurrentCpuPercentage, 50)
	m.SetMetricPercentage(types.MetricCurrentCpuPercentage, 25)
	if got := m.GetMetricPercentage(types.MetricCurrentCpuPercentage); got != 25 {
		t.Fatalf("expected current 25, got %v", got)
	}
	if got := m.GetMetricPeakPercentage(types.MetricCurrentCpuPercentage); got != 50 {
		t.Fatalf("expected peak 50, got %v", got)
	}
}

func TestSampleHostLoad(t *testing.T) {
	m := NewMeter(WithHostProbes(
		func() (float64, error) { return 42, nil },
		func() (float64, error) { return 61.5, nil },
	))
	if err := m.SampleHostLoad(); err != nil {
		t.Fatalf("SampleHostLoad: %v", err)
	}
	if m.GetMetricPercentage(types.MetricCurrentCpuPercentage) != 42 || m.GetMetricPercentage(types.MetricCurrentRamPercentage) != 61.5 {
		t.Fatalf("unexpected host load values")
	}

	boom := errors.New("no /proc")
	m = NewMeter(WithHostProbes(func() (float64, error) { return 0, boom }, nil))
	if err := m.SampleHostLoad(); !errors.Is(err, boom) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

func TestTimers(t *testing.T) {
	m := NewMeter()
	if d := m.StopTimer(types.MetricRepetitionTimer); d != 0 {
		t.Fatalf("expected 0 for unstarted timer, got %v", d)
	}
	m.StartTimer(types.MetricRepetitionTimer)
	time.Sleep(2 * time.Millisecond)
	if d := m.StopTimer(types.MetricRepetitionTimer); d < 2*time.Millisecond {
		t.Fatalf("expected elapsed >= 2ms, got %v", d)
	}
}

func TestPrintSummary(t *testing.T) {
	m := NewMeter()
	now := time.Now()
	m.SetMetricTimestamp(types.MetricSessionStartTime, now.UnixNano())
	m.SetMetricTimestamp(types.MetricSessionEndTime, now.Add(1500*time.Millisecond).UnixNano())
	m.IncrementCount(types.MetricStopCount)

	var buf bytes.Buffer
	m.PrintSummary(&buf)
	out := buf.String()
	for _, want := range []string{"Elapsed Time: 1.5s", "Stops: 1", "Repetitions Started: 0", "CPU:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in summary:\n%s", want, out)
		}
	}
}
