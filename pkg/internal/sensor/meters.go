package sensor

import (
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

func (s *Sensor) snapshotMeters() []types.Meter {
	s.metersLock.Lock()
	meters := append([]types.Meter(nil), s.meters...)
	s.metersLock.Unlock()
	return meters
}

func (s *Sensor) incrementMeterCounters(metric string) {
	for _, m := range s.snapshotMeters() {
		m.IncrementCount(metric)
	}
}

func (s *Sensor) addMeterCounters(metric string, n uint64) {
	for _, m := range s.snapshotMeters() {
		m.AddCount(metric, n)
	}
}

func (s *Sensor) decrementMeterCounters(metric string) {
	for _, m := range s.snapshotMeters() {
		m.DecrementCount(metric)
	}
}

func (s *Sensor) setMetricTimestampValue(metric string, ts int64) {
	for _, m := range s.snapshotMeters() {
		m.SetMetricTimestamp(metric, ts)
	}
}

// decorateCallbacks appends the hooks that feed connected meters. They run after any user
// callbacks registered for the same event.
func (s *Sensor) decorateCallbacks(options ...types.Option[types.Sensor]) []types.Option[types.Sensor] {
	return append(options,
		WithOnStartFunc(func(c types.ComponentMetadata) {
			s.incrementMeterCounters(types.MetricSessionRunningCount)
			s.setMetricTimestampValue(types.MetricSessionStartTime, time.Now().UnixNano())
		}),
		WithOnStateChangeFunc(func(c types.ComponentMetadata, from, to types.State) {
			s.incrementMeterCounters(types.MetricStateChangeCount)
		}),
		WithOnRepetitionStartFunc(func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
			s.incrementMeterCounters(types.MetricRepetitionStartedCount)
			for _, m := range s.snapshotMeters() {
				m.StartTimer(types.MetricRepetitionTimer)
				if err := m.SampleHostLoad(); err != nil {
					s.NotifyLoggers(types.DebugLevel, "SampleHostLoad failed",
						"component", s.GetComponentMetadata(),
						"event", "SampleHostLoad",
						"result", "FAILURE",
						"error", err,
					)
				}
			}
		}),
		WithOnTriggeredFunc(func(c types.ComponentMetadata, rep int) {
			s.incrementMeterCounters(types.MetricTriggerCount)
		}),
		WithOnUpdateFunc(func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
			s.incrementMeterCounters(types.MetricUpdateAppliedCount)
			s.setMetricTimestampValue(types.MetricLastUpdateTime, time.Now().UnixNano())
		}),
		WithOnUpdateRejectedFunc(func(c types.ComponentMetadata, rep int, err error) {
			s.incrementMeterCounters(types.MetricUpdateRejectedCount)
		}),
		WithOnStopFunc(func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
			s.incrementMeterCounters(types.MetricStopCount)
		}),
		WithOnSamplesWrittenFunc(func(c types.ComponentMetadata, samples int) {
			if samples > 0 {
				s.addMeterCounters(types.MetricSamplesWrittenCount, uint64(samples))
			}
		}),
		WithOnRepetitionCompleteFunc(func(c types.ComponentMetadata, rep int) {
			s.incrementMeterCounters(types.MetricRepetitionCompletedCount)
			for _, m := range s.snapshotMeters() {
				m.StopTimer(types.MetricRepetitionTimer)
			}
		}),
		WithOnCompleteFunc(func(c types.ComponentMetadata, reps int) {
			s.decrementMeterCounters(types.MetricSessionRunningCount)
			s.setMetricTimestampValue(types.MetricSessionEndTime, time.Now().UnixNano())
		}),
		WithOnErrorFunc(func(c types.ComponentMetadata, err error) {
			s.incrementMeterCounters(types.MetricFaultCount)
		}),
	)
}
