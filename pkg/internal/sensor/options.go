package sensor

import "github.com/hummel-lab/tistim/pkg/internal/types"

// WithLogger adds loggers to a Sensor.
func WithLogger(logger ...types.Logger) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.ConnectLogger(logger...)
	}
}

// WithMeter adds meters fed by the sensor's hooks.
func WithMeter(meter ...types.Meter) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.ConnectMeter(meter...)
	}
}

func WithOnStartFunc(callback ...func(c types.ComponentMetadata)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnStart(callback...)
	}
}

func WithOnStateChangeFunc(callback ...func(c types.ComponentMetadata, from, to types.State)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnStateChange(callback...)
	}
}

func WithOnRepetitionStartFunc(callback ...func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnRepetitionStart(callback...)
	}
}

func WithOnTriggeredFunc(callback ...func(c types.ComponentMetadata, rep int)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnTriggered(callback...)
	}
}

func WithOnUpdateFunc(callback ...func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnUpdate(callback...)
	}
}

func WithOnUpdateRejectedFunc(callback ...func(c types.ComponentMetadata, rep int, err error)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnUpdateRejected(callback...)
	}
}

func WithOnStopFunc(callback ...func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnStop(callback...)
	}
}

func WithOnSamplesWrittenFunc(callback ...func(c types.ComponentMetadata, samples int)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnSamplesWritten(callback...)
	}
}

func WithOnRepetitionCompleteFunc(callback ...func(c types.ComponentMetadata, rep int)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnRepetitionComplete(callback...)
	}
}

func WithOnCompleteFunc(callback ...func(c types.ComponentMetadata, reps int)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnComplete(callback...)
	}
}

func WithOnErrorFunc(callback ...func(c types.ComponentMetadata, err error)) types.Option[types.Sensor] {
	return func(m types.Sensor) {
		m.RegisterOnError(callback...)
	}
}
