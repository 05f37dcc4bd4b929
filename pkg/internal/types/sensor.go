package types

// Sensor carries callback hooks fired by the stream controller. Collaborators such as the
// session log, the event bus and the meter attach here instead of reaching into
// controller state.
type Sensor interface {
	RegisterOnStart(...func(ComponentMetadata))
	RegisterOnStateChange(...func(c ComponentMetadata, from State, to State))
	RegisterOnRepetitionStart(...func(c ComponentMetadata, rep int, kind Kind, params Parameters))
	RegisterOnTriggered(...func(c ComponentMetadata, rep int))
	RegisterOnUpdate(...func(c ComponentMetadata, rep int, kind Kind, params Parameters))
	RegisterOnUpdateRejected(...func(c ComponentMetadata, rep int, err error))
	RegisterOnStop(...func(c ComponentMetadata, rep int, kind Kind, params Parameters))
	RegisterOnSamplesWritten(...func(c ComponentMetadata, samples int))
	RegisterOnRepetitionComplete(...func(c ComponentMetadata, rep int))
	RegisterOnComplete(...func(c ComponentMetadata, reps int))
	RegisterOnError(...func(c ComponentMetadata, err error))

	InvokeOnStart(c ComponentMetadata)
	InvokeOnStateChange(c ComponentMetadata, from State, to State)
	InvokeOnRepetitionStart(c ComponentMetadata, rep int, kind Kind, params Parameters)
	InvokeOnTriggered(c ComponentMetadata, rep int)
	InvokeOnUpdate(c ComponentMetadata, rep int, kind Kind, params Parameters)
	InvokeOnUpdateRejected(c ComponentMetadata, rep int, err error)
	InvokeOnStop(c ComponentMetadata, rep int, kind Kind, params Parameters)
	InvokeOnSamplesWritten(c ComponentMetadata, samples int)
	InvokeOnRepetitionComplete(c ComponentMetadata, rep int)
	InvokeOnComplete(c ComponentMetadata, reps int)
	InvokeOnError(c ComponentMetadata, err error)

	ConnectLogger(...Logger)
	ConnectMeter(...Meter)
	GetMeters() []Meter
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
}
