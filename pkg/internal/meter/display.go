package meter

import (
	"fmt"
	"io"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// PrintSummary writes an end-of-session report.
func (m *Meter) PrintSummary(w io.Writer) {
	start := m.GetMetricTimestamp(types.MetricSessionStartTime)
	end := m.GetMetricTimestamp(types.MetricSessionEndTime)
	if start != 0 {
		startTime := time.Unix(0, start)
		elapsed := time.Duration(0)
		if end >= start {
			elapsed = time.Duration(end - start)
		}
		fmt.Fprintf(w, "Start Time: %v, Elapsed Time: %s\n", startTime.Format("01-02-2006 15:04:05"), elapsed.Round(time.Millisecond))
	}
	for _, name := range counterNames {
		if name == types.MetricSessionRunningCount {
			continue
		}
		fmt.Fprintf(w, "%s: %d\n", m.GetMetricDisplayName(name), m.GetMetricCount(name))
	}
	fmt.Fprintf(w, "%s: %.2f%%, Peak: %.2f%%, %s: %.2f%%, Peak: %.2f%%\n",
		m.GetMetricDisplayName(types.MetricCurrentCpuPercentage),
		m.GetMetricPercentage(types.MetricCurrentCpuPercentage),
		m.GetMetricPeakPercentage(types.MetricCurrentCpuPercentage),
		m.GetMetricDisplayName(types.MetricCurrentRamPercentage),
		m.GetMetricPercentage(types.MetricCurrentRamPercentage),
		m.GetMetricPeakPercentage(types.MetricCurrentRamPercentage),
	)
}
