package builder

import (
	"github.com/hummel-lab/tistim/pkg/internal/sensor"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// NewSensor creates a sensor carrying the session callback hooks.
func NewSensor(options ...types.Option[types.Sensor]) types.Sensor {
	return sensor.NewSensor(options...)
}

// SensorWithLogger adds a logger to the Sensor.
func SensorWithLogger(logger ...types.Logger) types.Option[types.Sensor] {
	return sensor.WithLogger(logger...)
}

// SensorWithMeter feeds the session counters of each meter from the sensor hooks.
func SensorWithMeter(meter ...types.Meter) types.Option[types.Sensor] {
	return sensor.WithMeter(meter...)
}

// SensorWithOnStartFunc registers a callback for the OnStart event.
func SensorWithOnStartFunc(callback ...func(c ComponentMetadata)) types.Option[types.Sensor] {
	return sensor.WithOnStartFunc(callback...)
}

// SensorWithOnStateChangeFunc registers a callback for the OnStateChange event.
func SensorWithOnStateChangeFunc(callback ...func(c ComponentMetadata, from, to State)) types.Option[types.Sensor] {
	return sensor.WithOnStateChangeFunc(callback...)
}

// SensorWithOnRepetitionStartFunc registers a callback for the OnRepetitionStart event.
func SensorWithOnRepetitionStartFunc(callback ...func(c ComponentMetadata, rep int, kind Kind, params Parameters)) types.Option[types.Sensor] {
	return sensor.WithOnRepetitionStartFunc(callback...)
}

// SensorWithOnTriggeredFunc registers a callback for the OnTriggered event.
func SensorWithOnTriggeredFunc(callback ...func(c ComponentMetadata, rep int)) types.Option[types.Sensor] {
	return sensor.WithOnTriggeredFunc(callback...)
}

// SensorWithOnUpdateFunc registers a callback for the OnUpdate event.
func SensorWithOnUpdateFunc(callback ...func(c ComponentMetadata, rep int, kind Kind, params Parameters)) types.Option[types.Sensor] {
	return sensor.WithOnUpdateFunc(callback...)
}

// SensorWithOnUpdateRejectedFunc registers a callback for the OnUpdateRejected event.
func SensorWithOnUpdateRejectedFunc(callback ...func(c ComponentMetadata, rep int, err error)) types.Option[types.Sensor] {
	return sensor.WithOnUpdateRejectedFunc(callback...)
}

// SensorWithOnStopFunc registers a callback for the OnStop event.
func SensorWithOnStopFunc(callback ...func(c ComponentMetadata, rep int, kind Kind, params Parameters)) types.Option[types.Sensor] {
	return sensor.WithOnStopFunc(callback...)
}

// SensorWithOnSamplesWrittenFunc registers a callback for the OnSamplesWritten event.
func SensorWithOnSamplesWrittenFunc(callback ...func(c ComponentMetadata, samples int)) types.Option[types.Sensor] {
	return sensor.WithOnSamplesWrittenFunc(callback...)
}

// SensorWithOnRepetitionCompleteFunc registers a callback for the OnRepetitionComplete event.
func SensorWithOnRepetitionCompleteFunc(callback ...func(c ComponentMetadata, rep int)) types.Option[types.Sensor] {
	return sensor.WithOnRepetitionCompleteFunc(callback...)
}

// SensorWithOnCompleteFunc registers a callback for the OnComplete event.
func SensorWithOnCompleteFunc(callback ...func(c ComponentMetadata, reps int)) types.Option[types.Sensor] {
	return sensor.WithOnCompleteFunc(callback...)
}

// SensorWithOnErrorFunc registers a callback for the OnError event.
func SensorWithOnErrorFunc(callback ...func(c ComponentMetadata, err error)) types.Option[types.Sensor] {
	return sensor.WithOnErrorFunc(callback...)
}
