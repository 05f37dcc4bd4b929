package eventbus

import (
	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

// Attach publishes every hook fired on s.
func (p *Publisher) Attach(s types.Sensor) {
	base := func(c types.ComponentMetadata, event string) Record {
		rec := Record{Component: c.Type, Event: event}
		if p.runID != nil {
			rec.RunID = p.runID()
		}
		return rec
	}
	withParams := func(rec Record, rep int, kind types.Kind, params types.Parameters) Record {
		rec.Repetition = rep
		rec.Protocol = kind.String()
		rec.Params = &params
		rec.ParamsHash = utils.GenerateSha256Hash(params)
		return rec
	}

	s.RegisterOnStart(func(c types.ComponentMetadata) {
		p.Publish(base(c, "start"))
	})
	s.RegisterOnStateChange(func(c types.ComponentMetadata, from, to types.State) {
		rec := base(c, "state_change")
		rec.State = to.String()
		p.Publish(rec)
	})
	s.RegisterOnRepetitionStart(func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
		p.Publish(withParams(base(c, string(types.EventRepetitionStart)), rep, kind, params))
	})
	s.RegisterOnTriggered(func(c types.ComponentMetadata, rep int) {
		rec := base(c, string(types.EventTriggered))
		rec.Repetition = rep
		p.Publish(rec)
	})
	s.RegisterOnUpdate(func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
		p.Publish(withParams(base(c, string(types.EventUpdate)), rep, kind, params))
	})
	s.RegisterOnUpdateRejected(func(c types.ComponentMetadata, rep int, err error) {
		rec := base(c, string(types.EventUpdateRejected))
		rec.Repetition = rep
		if err != nil {
			rec.Error = err.Error()
		}
		p.Publish(rec)
	})
	s.RegisterOnStop(func(c types.ComponentMetadata, rep int, kind types.Kind, params types.Parameters) {
		p.Publish(withParams(base(c, string(types.EventStop)), rep, kind, params))
	})
	s.RegisterOnRepetitionComplete(func(c types.ComponentMetadata, rep int) {
		rec := base(c, string(types.EventRepetitionComplete))
		rec.Repetition = rep
		p.Publish(rec)
	})
	s.RegisterOnComplete(func(c types.ComponentMetadata, reps int) {
		rec := base(c, string(types.EventComplete))
		rec.Repetition = reps
		p.Publish(rec)
	})
	s.RegisterOnError(func(c types.ComponentMetadata, err error) {
		rec := base(c, string(types.EventFault))
		if err != nil {
			rec.Error = err.Error()
		}
		p.Publish(rec)
	})
}
