package eventbus

import "github.com/hummel-lab/tistim/pkg/internal/types"

func (p *Publisher) ConnectLogger(loggers ...types.Logger) {
	p.loggersLock.Lock()
	defer p.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			p.loggers = append(p.loggers, l)
		}
	}
}

func (p *Publisher) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	p.loggersLock.Lock()
	loggers := append([]types.Logger(nil), p.loggers...)
	p.loggersLock.Unlock()
	for _, l := range loggers {
		if l.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			l.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			l.Info(msg, keysAndValues...)
		case types.WarnLevel:
			l.Warn(msg, keysAndValues...)
		default:
			l.Error(msg, keysAndValues...)
		}
	}
}
