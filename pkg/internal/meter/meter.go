package meter

import (
	"sync"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

// Meter is the in-process implementation of types.Meter.
type Meter struct {
	componentMetadata types.ComponentMetadata
	mutex             sync.Mutex
	counts            map[string]*uint64
	timestamps        map[string]int64
	percentages       map[string]float64
	peaks             map[string]float64
	startTimes        map[string]time.Time
	cpuPercent        func() (float64, error)
	memPercent        func() (float64, error)
	loggers           []types.Logger
	loggersLock       sync.Mutex
}

// NewMeter returns a meter with every session counter registered at zero.
func NewMeter(options ...types.Option[*Meter]) *Meter {
	m := &Meter{
		componentMetadata: types.ComponentMetadata{
			Type: "METER",
			ID:   utils.GenerateUniqueHash(),
		},
		counts:      make(map[string]*uint64),
		timestamps:  make(map[string]int64),
		percentages: make(map[string]float64),
		peaks:       make(map[string]float64),
		startTimes:  make(map[string]time.Time),
		cpuPercent:  hostCPUPercent,
		memPercent:  hostMemPercent,
	}
	m.initializeMetrics()
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Meter) initializeMetrics() {
	for _, name := range counterNames {
		var v uint64
		m.counts[name] = &v
	}
}

var counterNames = []string{
	types.MetricRepetitionStartedCount,
	types.MetricRepetitionCompletedCount,
	types.MetricTriggerCount,
	types.MetricUpdateAppliedCount,
	types.MetricUpdateRejectedCount,
	types.MetricStopCount,
	types.MetricSamplesWrittenCount,
	types.MetricStateChangeCount,
	types.MetricFaultCount,
	types.MetricSessionRunningCount,
}

var displayNames = map[string]string{
	types.MetricRepetitionStartedCount:   "Repetitions Started",
	types.MetricRepetitionCompletedCount: "Repetitions Completed",
	types.MetricTriggerCount:             "Triggers",
	types.MetricUpdateAppliedCount:       "Updates Applied",
	types.MetricUpdateRejectedCount:      "Updates Rejected",
	types.MetricStopCount:                "Stops",
	types.MetricSamplesWrittenCount:      "Samples Written",
	types.MetricStateChangeCount:         "State Changes",
	types.MetricFaultCount:               "Faults",
	types.MetricSessionRunningCount:      "Sessions Running",
	types.MetricCurrentCpuPercentage:     "CPU",
	types.MetricCurrentRamPercentage:     "RAM",
}

// WithLogger registers loggers for the meter.
func WithLogger(l ...types.Logger) types.Option[*Meter] {
	return func(m *Meter) {
		m.ConnectLogger(l...)
	}
}

// WithHostProbes replaces the CPU and memory probes.
func WithHostProbes(cpu, mem func() (float64, error)) types.Option[*Meter] {
	return func(m *Meter) {
		if cpu != nil {
			m.cpuPercent = cpu
		}
		if mem != nil {
			m.memPercent = mem
		}
	}
}
