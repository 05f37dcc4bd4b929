package sensor

import "github.com/hummel-lab/tistim/pkg/internal/types"

func (s *Sensor) RegisterOnStart(callback ...func(types.ComponentMetadata)) {
	s.callbackLock.Lock()
	s.OnStart = append(s.OnStart, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnStart(c types.ComponentMetadata) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnStart) {
		if cb != nil {
			cb(c)
		}
	}
}

func (s *Sensor) RegisterOnStateChange(callback ...func(types.ComponentMetadata, types.State, types.State)) {
	s.callbackLock.Lock()
	s.OnStateChange = append(s.OnStateChange, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnStateChange(c types.ComponentMetadata, from types.State, to types.State) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnStateChange) {
		if cb != nil {
			cb(c, from, to)
		}
	}
}

func (s *Sensor) RegisterOnRepetitionStart(callback ...func(types.ComponentMetadata, int, types.Kind, types.Parameters)) {
	s.callbackLock.Lock()
	s.OnRepetitionStart = append(s.OnRepetitionStart, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnRepetitionStart(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnRepetitionStart) {
		if cb != nil {
			cb(c, rep, kind, params)
		}
	}
}

func (s *Sensor) RegisterOnTriggered(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnTriggered = append(s.OnTriggered, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnTriggered(c types.ComponentMetadata, rep int) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnTriggered) {
		if cb != nil {
			cb(c, rep)
		}
	}
}

func (s *Sensor) RegisterOnUpdate(callback ...func(types.ComponentMetadata, int, types.Kind, types.Parameters)) {
	s.callbackLock.Lock()
	s.OnUpdate = append(s.OnUpdate, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnUpdate(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnUpdate) {
		if cb != nil {
			cb(c, rep, kind, params)
		}
	}
}

func (s *Sensor) RegisterOnUpdateRejected(callback ...func(types.ComponentMetadata, int, error)) {
	s.callbackLock.Lock()
	s.OnUpdateRejected = append(s.OnUpdateRejected, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnUpdateRejected(c types.ComponentMetadata, rep int, err error) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnUpdateRejected) {
		if cb != nil {
			cb(c, rep, err)
		}
	}
}

func (s *Sensor) RegisterOnStop(callback ...func(types.ComponentMetadata, int, types.Kind, types.Parameters)) {
	s.callbackLock.Lock()
	s.OnStop = append(s.OnStop, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnStop(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnStop) {
		if cb != nil {
			cb(c, rep, kind, params)
		}
	}
}

func (s *Sensor) RegisterOnSamplesWritten(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnSamplesWritten = append(s.OnSamplesWritten, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnSamplesWritten(c types.ComponentMetadata, samples int) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnSamplesWritten) {
		if cb != nil {
			cb(c, samples)
		}
	}
}

func (s *Sensor) RegisterOnRepetitionComplete(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnRepetitionComplete = append(s.OnRepetitionComplete, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnRepetitionComplete(c types.ComponentMetadata, rep int) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnRepetitionComplete) {
		if cb != nil {
			cb(c, rep)
		}
	}
}

func (s *Sensor) RegisterOnComplete(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnComplete = append(s.OnComplete, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnComplete(c types.ComponentMetadata, reps int) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnComplete) {
		if cb != nil {
			cb(c, reps)
		}
	}
}

func (s *Sensor) RegisterOnError(callback ...func(types.ComponentMetadata, error)) {
	s.callbackLock.Lock()
	s.OnError = append(s.OnError, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnError(c types.ComponentMetadata, err error) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, &s.OnError) {
		if cb != nil {
			cb(c, err)
		}
	}
}
