package meter

import (
	"fmt"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// hostCPUPercent returns CPU use since the previous call. The zero interval keeps the call
// non-blocking, which matters when it runs on the streaming worker.
func hostCPUPercent() (float64, error) {
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, fmt.Errorf("cpu: no samples")
	}
	return pcts[0], nil
}

func hostMemPercent() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

// SampleHostLoad records current CPU and RAM use. Feeding the DAQ is latency sensitive, so
// a loaded host is worth a warning in the session log.
func (m *Meter) SampleHostLoad() error {
	cpuPct, err := m.cpuPercent()
	if err != nil {
		return fmt.Errorf("sample cpu: %w", err)
	}
	memPct, err := m.memPercent()
	if err != nil {
		return fmt.Errorf("sample memory: %w", err)
	}
	m.SetMetricPercentage(types.MetricCurrentCpuPercentage, cpuPct)
	m.SetMetricPercentage(types.MetricCurrentRamPercentage, memPct)
	if cpuPct >= 90 {
		m.NotifyLoggers(types.WarnLevel, "SampleHostLoad: host CPU saturated",
			"component", m.componentMetadata,
			"event", "SampleHostLoad",
			"cpu_percent", cpuPct,
			"ram_percent", memPct,
		)
	}
	return nil
}
