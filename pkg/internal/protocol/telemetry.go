package protocol

import "github.com/hummel-lab/tistim/pkg/internal/types"

// ConnectLogger registers loggers for the synthesizer.
func (s *Synthesizer) ConnectLogger(loggers ...types.Logger) {
	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			s.loggers = append(s.loggers, l)
		}
	}
}

// NotifyLoggers emits a log event to all configured loggers.
func (s *Synthesizer) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	s.loggersLock.Lock()
	loggers := append([]types.Logger(nil), s.loggers...)
	s.loggersLock.Unlock()

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
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}

// GetComponentMetadata returns the synthesizer metadata.
func (s *Synthesizer) GetComponentMetadata() types.ComponentMetadata {
	return s.componentMetadata
}

// SetComponentMetadata sets the synthesizer name and id.
func (s *Synthesizer) SetComponentMetadata(name string, id string) {
	s.componentMetadata.Name = name
	s.componentMetadata.ID = id
}
