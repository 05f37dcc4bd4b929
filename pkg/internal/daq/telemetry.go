package daq

import "github.com/hummel-lab/tistim/pkg/internal/types"

// ConnectLogger registers loggers for the device.
func (d *Device) ConnectLogger(loggers ...types.Logger) {
	d.loggersLock.Lock()
	defer d.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			d.loggers = append(d.loggers, l)
		}
	}
}

// NotifyLoggers emits a log event to all configured loggers.
func (d *Device) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	d.loggersLock.Lock()
	loggers := append([]types.Logger(nil), d.loggers...)
	d.loggersLock.Unlock()

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
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		default:
			logger.Error(msg, keysAndValues...)
		}
	}
}

// GetComponentMetadata returns the device metadata.
func (d *Device) GetComponentMetadata() types.ComponentMetadata {
	return d.componentMetadata
}

func (d *Device) notify(event, result string, kv ...interface{}) {
	fields := append([]interface{}{
		"component", d.componentMetadata,
		"event", event,
		"result", result,
	}, kv...)
	d.NotifyLoggers(types.DebugLevel, "daq: "+event, fields...)
}
