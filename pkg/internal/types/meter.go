package types

import (
	"io"
	"time"
)

const (
	MetricRepetitionStartedCount   = "repetition_started_count"
	MetricRepetitionCompletedCount = "repetition_completed_count"
	MetricTriggerCount             = "trigger_count"
	MetricUpdateAppliedCount       = "update_applied_count"
	MetricUpdateRejectedCount      = "update_rejected_count"
	MetricStopCount                = "stop_count"
	MetricSamplesWrittenCount      = "samples_written_count"
	MetricStateChangeCount         = "state_change_count"
	MetricFaultCount               = "fault_count"
	MetricSessionRunningCount      = "session_running_count"

	MetricSessionStartTime = "session_start_time"
	MetricSessionEndTime   = "session_end_time"
	MetricLastUpdateTime   = "last_update_time"

	MetricCurrentCpuPercentage = "current_cpu_percentage"
	MetricCurrentRamPercentage = "current_ram_percentage"

	MetricRepetitionTimer = "repetition_timer"
)

// Meter accumulates counters, timestamps and host load for a stimulation session.
type Meter interface {
	IncrementCount(metric string)
	DecrementCount(metric string)
	AddCount(metric string, n uint64)
	GetMetricCount(metric string) uint64
	SetMetricTimestamp(metric string, unixNano int64)
	GetMetricTimestamp(metric string) int64
	SetMetricPercentage(metric string, pct float64)
	GetMetricPercentage(metric string) float64
	GetMetricPeakPercentage(metric string) float64
	GetMetricDisplayName(metric string) string
	StartTimer(metric string)
	StopTimer(metric string) time.Duration
	SampleHostLoad() error
	Snapshot() map[string]uint64
	ResetMetrics()
	PrintSummary(w io.Writer)

	ConnectLogger(...Logger)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
}
