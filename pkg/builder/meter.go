package builder

import (
	"github.com/hummel-lab/tistim/pkg/internal/meter"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// Metric names fed by a sensor connected to a meter.
const (
	MetricRepetitionStartedCount   = types.MetricRepetitionStartedCount
	MetricRepetitionCompletedCount = types.MetricRepetitionCompletedCount
	MetricTriggerCount             = types.MetricTriggerCount
	MetricUpdateAppliedCount       = types.MetricUpdateAppliedCount
	MetricUpdateRejectedCount      = types.MetricUpdateRejectedCount
	MetricStopCount                = types.MetricStopCount
	MetricSamplesWrittenCount      = types.MetricSamplesWrittenCount
	MetricStateChangeCount         = types.MetricStateChangeCount
	MetricFaultCount               = types.MetricFaultCount
	MetricSessionRunningCount      = types.MetricSessionRunningCount
	MetricSessionStartTime         = types.MetricSessionStartTime
	MetricSessionEndTime           = types.MetricSessionEndTime
	MetricLastUpdateTime           = types.MetricLastUpdateTime
	MetricCurrentCpuPercentage     = types.MetricCurrentCpuPercentage
	MetricCurrentRamPercentage     = types.MetricCurrentRamPercentage
	MetricRepetitionTimer          = types.MetricRepetitionTimer
)

// NewMeter creates a session meter. Host load is probed through gopsutil unless replaced.
func NewMeter(options ...types.Option[*meter.Meter]) *meter.Meter {
	return meter.NewMeter(options...)
}

// MeterWithLogger adds loggers to the meter.
func MeterWithLogger(l ...types.Logger) types.Option[*meter.Meter] {
	return meter.WithLogger(l...)
}

// MeterWithHostProbes replaces the CPU and memory probes.
func MeterWithHostProbes(cpu, mem func() (float64, error)) types.Option[*meter.Meter] {
	return meter.WithHostProbes(cpu, mem)
}
