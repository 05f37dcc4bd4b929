package controller

import (
	"sync/atomic"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

func (c *Controller) GetComponentMetadata() types.ComponentMetadata {
	c.metadataLock.Lock()
	defer c.metadataLock.Unlock()
	return c.componentMetadata
}

func (c *Controller) SetComponentMetadata(name string, id string) {
	c.metadataLock.Lock()
	c.componentMetadata.Name = name
	c.componentMetadata.ID = id
	c.metadataLock.Unlock()
}

func (c *Controller) ConnectLogger(loggers ...types.Logger) {
	c.loggersLock.Lock()
	defer c.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			c.loggers = append(c.loggers, l)
		}
	}
}

func (c *Controller) ConnectSensor(sensors ...types.Sensor) {
	c.sensorLock.Lock()
	defer c.sensorLock.Unlock()
	for _, s := range sensors {
		if s != nil {
			c.sensors = append(c.sensors, s)
		}
	}
}

func (c *Controller) snapshotSensors() []types.Sensor {
	c.sensorLock.Lock()
	defer c.sensorLock.Unlock()
	return append([]types.Sensor(nil), c.sensors...)
}

func (c *Controller) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	c.loggersLock.Lock()
	loggers := append([]types.Logger(nil), c.loggers...)
	c.loggersLock.Unlock()

	for _, logger := range loggers {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}

// transition moves to state `to` and fires OnStateChange when the state actually changes.
func (c *Controller) transition(to types.State) {
	from := types.State(atomic.SwapInt32(&c.state, int32(to)))
	if from == to {
		return
	}
	meta := c.GetComponentMetadata()
	c.NotifyLoggers(types.InfoLevel, "State change",
		"component", meta,
		"event", "StateChange",
		"result", "SUCCESS",
		"from", from,
		"state", to,
	)
	for _, s := range c.snapshotSensors() {
		s.InvokeOnStateChange(meta, from, to)
	}
}

// report applies a worker event to controller state, then fans it out to sensors, loggers and
// the event channel.
func (c *Controller) report(ev types.SessionEvent) {
	meta := c.GetComponentMetadata()
	sensors := c.snapshotSensors()

	switch ev.Type {
	case types.EventRepetitionStart:
		atomic.StoreInt32(&c.repetition, int32(ev.Repetition))
		c.NotifyLoggers(types.InfoLevel, "Repetition started",
			"component", meta,
			"event", "RepetitionStart",
			"result", "SUCCESS",
			"repetition", ev.Repetition,
			"protocol", ev.Kind,
			"samples", ev.Samples,
		)
		for _, s := range sensors {
			s.InvokeOnRepetitionStart(meta, ev.Repetition, ev.Kind, ev.Params)
			s.InvokeOnSamplesWritten(meta, ev.Samples)
		}

	case types.EventTriggered:
		c.NotifyLoggers(types.InfoLevel, "Triggered",
			"component", meta,
			"event", "Triggered",
			"result", "SUCCESS",
			"repetition", ev.Repetition,
		)
		for _, s := range sensors {
			s.InvokeOnTriggered(meta, ev.Repetition)
		}

	case types.EventUpdate:
		c.mu.Lock()
		c.params = ev.Params
		c.mu.Unlock()
		c.NotifyLoggers(types.InfoLevel, "Update applied",
			"component", meta,
			"event", "Update",
			"result", "SUCCESS",
			"repetition", ev.Repetition,
			"samples", ev.Samples,
		)
		for _, s := range sensors {
			s.InvokeOnUpdate(meta, ev.Repetition, ev.Kind, ev.Params)
			s.InvokeOnSamplesWritten(meta, ev.Samples)
		}

	case types.EventUpdateRejected:
		c.NotifyLoggers(types.WarnLevel, "Update rejected",
			"component", meta,
			"event", "Update",
			"result", "FAILURE",
			"repetition", ev.Repetition,
			"error", ev.Err,
		)
		for _, s := range sensors {
			s.InvokeOnUpdateRejected(meta, ev.Repetition, ev.Err)
		}

	case types.EventUpdateDiscarded:
		c.NotifyLoggers(types.InfoLevel, "Update discarded",
			"component", meta,
			"event", "Update",
			"result", "DISCARDED",
			"repetition", ev.Repetition,
		)

	case types.EventStop:
		c.NotifyLoggers(types.InfoLevel, "Stop",
			"component", meta,
			"event", "Stop",
			"result", "SUCCESS",
			"repetition", ev.Repetition,
			"samples", ev.Samples,
		)
		for _, s := range sensors {
			s.InvokeOnStop(meta, ev.Repetition, ev.Kind, ev.Params)
			if ev.Samples > 0 {
				s.InvokeOnSamplesWritten(meta, ev.Samples)
			}
		}

	case types.EventRepetitionComplete:
		c.NotifyLoggers(types.InfoLevel, "Repetition complete",
			"component", meta,
			"event", "RepetitionComplete",
			"result", "SUCCESS",
			"repetition", ev.Repetition,
		)
		for _, s := range sensors {
			s.InvokeOnRepetitionComplete(meta, ev.Repetition)
		}
	}

	c.publish(ev)
}

// publish stamps ev and offers it to the event channel without blocking.
func (c *Controller) publish(ev types.SessionEvent) {
	c.mu.Lock()
	ev.RunID = c.runID
	if ev.Kind == types.KindNone {
		ev.Kind = c.kind
	}
	c.mu.Unlock()
	ev.Time = time.Now()
	ev.State = c.State()

	select {
	case c.events <- ev:
	default:
		c.NotifyLoggers(types.DebugLevel, "Event dropped",
			"component", c.GetComponentMetadata(),
			"event", string(ev.Type),
			"result", "FAILURE",
		)
	}
}

func (c *Controller) notifyStart() {
	meta := c.GetComponentMetadata()
	c.NotifyLoggers(types.InfoLevel, "Run",
		"component", meta,
		"event", "Start",
		"result", "SUCCESS",
		"run_id", c.RunID(),
		"protocol", c.Kind(),
	)
	for _, s := range c.snapshotSensors() {
		s.InvokeOnStart(meta)
	}
}

// finish returns the controller to Idle after the worker exits. err is the fatal error that
// ended the run, if any.
func (c *Controller) finish(err error) {
	meta := c.GetComponentMetadata()
	reps := c.Repetition()

	c.mu.Lock()
	c.runErr = err
	c.mu.Unlock()

	c.transition(types.StateIdle)
	atomic.StoreInt32(&c.running, 0)

	if err != nil {
		c.NotifyLoggers(types.ErrorLevel, "Run failed",
			"component", meta,
			"event", "Fault",
			"result", "FAILURE",
			"repetition", reps,
			"error", err,
		)
		for _, s := range c.snapshotSensors() {
			s.InvokeOnError(meta, err)
		}
		c.publish(types.SessionEvent{Type: types.EventFault, Repetition: reps, Err: err})
	}

	c.NotifyLoggers(types.InfoLevel, "Run complete",
		"component", meta,
		"event", "Complete",
		"result", "SUCCESS",
		"repetitions", reps,
	)
	for _, s := range c.snapshotSensors() {
		s.InvokeOnComplete(meta, reps)
	}
	c.publish(types.SessionEvent{Type: types.EventComplete, Repetition: reps})
}
