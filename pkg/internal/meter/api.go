package meter

import (
	"sync/atomic"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

func (m *Meter) IncrementCount(metricName string) {
	m.AddCount(metricName, 1)
}

// AddCount adds n to a counter, registering it on first use.
func (m *Meter) AddCount(metricName string, n uint64) {
	m.mutex.Lock()
	counter, exists := m.counts[metricName]
	if !exists {
		var v uint64
		counter = &v
		m.counts[metricName] = counter
	}
	m.mutex.Unlock()
	atomic.AddUint64(counter, n)
}

func (m *Meter) DecrementCount(metricName string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if counter, exists := m.counts[metricName]; exists {
		currentValue := atomic.LoadUint64(counter)
		if currentValue > 0 {
			atomic.StoreUint64(counter, currentValue-1)
		}
	}
}

func (m *Meter) GetMetricCount(metricName string) uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if counter, exists := m.counts[metricName]; exists {
		return atomic.LoadUint64(counter)
	}
	return 0
}

func (m *Meter) SetMetricTimestamp(metricName string, unixNano int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.timestamps[metricName] = unixNano
}

func (m *Meter) GetMetricTimestamp(metricName string) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.timestamps[metricName]
}

// SetMetricPercentage records a percentage and raises its peak if exceeded.
func (m *Meter) SetMetricPercentage(metricName string, pct float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.percentages[metricName] = pct
	if pct > m.peaks[metricName] {
		m.peaks[metricName] = pct
	}
}

func (m *Meter) GetMetricPercentage(metricName string) float64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.percentages[metricName]
}

func (m *Meter) GetMetricPeakPercentage(metricName string) float64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.peaks[metricName]
}

// GetMetricDisplayName returns the operator label for a metric, or the metric name.
func (m *Meter) GetMetricDisplayName(metricName string) string {
	if name, ok := displayNames[metricName]; ok {
		return name
	}
	return metricName
}

func (m *Meter) StartTimer(metricName string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.startTimes[metricName] = time.Now()
}

func (m *Meter) StopTimer(metricName string) time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	startTime, exists := m.startTimes[metricName]
	if !exists {
		return 0
	}
	delete(m.startTimes, metricName)
	return time.Since(startTime)
}

// Snapshot copies every counter.
func (m *Meter) Snapshot() map[string]uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make(map[string]uint64, len(m.counts))
	for name, counter := range m.counts {
		out[name] = atomic.LoadUint64(counter)
	}
	return out
}

// ResetMetrics zeroes counters, timestamps and percentages.
func (m *Meter) ResetMetrics() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, counter := range m.counts {
		atomic.StoreUint64(counter, 0)
	}
	m.timestamps = make(map[string]int64)
	m.percentages = make(map[string]float64)
	m.peaks = make(map[string]float64)
	m.startTimes = make(map[string]time.Time)
}

// GetComponentMetadata returns the metadata.
func (m *Meter) GetComponentMetadata() types.ComponentMetadata {
	return m.componentMetadata
}

// SetComponentMetadata sets the component metadata.
func (m *Meter) SetComponentMetadata(name string, id string) {
	m.componentMetadata.Name = name
	m.componentMetadata.ID = id
}

func (m *Meter) ConnectLogger(l ...types.Logger) {
	m.loggersLock.Lock()
	defer m.loggersLock.Unlock()
	for _, logger := range l {
		if logger != nil {
			m.loggers = append(m.loggers, logger)
		}
	}
}

func (m *Meter) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	m.loggersLock.Lock()
	loggers := append([]types.Logger(nil), m.loggers...)
	m.loggersLock.Unlock()
	for _, logger := range loggers {
		if logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		default:
			logger.Error(msg, keysAndValues...)
		}
	}
}
