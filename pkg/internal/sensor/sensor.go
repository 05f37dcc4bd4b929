package sensor

import (
	"sync"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

// Sensor provides callback hooks for stream controller telemetry.
type Sensor struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	OnStart              []func(types.ComponentMetadata)
	OnStateChange        []func(types.ComponentMetadata, types.State, types.State)
	OnRepetitionStart    []func(types.ComponentMetadata, int, types.Kind, types.Parameters)
	OnTriggered          []func(types.ComponentMetadata, int)
	OnUpdate             []func(types.ComponentMetadata, int, types.Kind, types.Parameters)
	OnUpdateRejected     []func(types.ComponentMetadata, int, error)
	OnStop               []func(types.ComponentMetadata, int, types.Kind, types.Parameters)
	OnSamplesWritten     []func(types.ComponentMetadata, int)
	OnRepetitionComplete []func(types.ComponentMetadata, int)
	OnComplete           []func(types.ComponentMetadata, int)
	OnError              []func(types.ComponentMetadata, error)

	callbackLock sync.Mutex
	loggers      []types.Logger
	loggersLock  sync.Mutex
	meters       []types.Meter
	metersLock   sync.Mutex
}

// NewSensor constructs a Sensor with optional configuration. Connected meters are fed from
// the same hooks.
func NewSensor(options ...types.Option[types.Sensor]) types.Sensor {
	s := &Sensor{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "SENSOR",
		},
	}

	for _, opt := range s.decorateCallbacks(options...) {
		if opt == nil {
			continue
		}
		opt(s)
	}

	return s
}

// snapshotCallbacks copies a hook list under mu so callbacks may register further hooks
// without deadlocking.
func snapshotCallbacks[T any](mu *sync.Mutex, callbacks *[]T) []T {
	mu.Lock()
	defer mu.Unlock()
	return append([]T(nil), *callbacks...)
}

// GetComponentMetadata returns the sensor metadata.
func (s *Sensor) GetComponentMetadata() types.ComponentMetadata {
	s.metadataLock.Lock()
	defer s.metadataLock.Unlock()
	return s.componentMetadata
}

// SetComponentMetadata updates sensor metadata values.
func (s *Sensor) SetComponentMetadata(name string, id string) {
	s.metadataLock.Lock()
	s.componentMetadata = types.ComponentMetadata{Name: name, ID: id, Type: s.componentMetadata.Type}
	s.metadataLock.Unlock()
}

func (s *Sensor) ConnectLogger(logger ...types.Logger) {
	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()
	for _, l := range logger {
		if l != nil {
			s.loggers = append(s.loggers, l)
		}
	}
}

func (s *Sensor) ConnectMeter(meter ...types.Meter) {
	s.metersLock.Lock()
	defer s.metersLock.Unlock()
	for _, m := range meter {
		if m != nil {
			s.meters = append(s.meters, m)
		}
	}
}

// GetMeters returns a copy of configured meters.
func (s *Sensor) GetMeters() []types.Meter {
	return s.snapshotMeters()
}

// NotifyLoggers sends a structured log message to all attached loggers.
func (s *Sensor) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
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
