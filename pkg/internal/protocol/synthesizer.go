// Package protocol composes waveform segments into the complete buffers for each
// stimulation protocol.
package protocol

import (
	"fmt"
	"sync"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
	"github.com/hummel-lab/tistim/pkg/internal/waveform"
)

// DefaultCycleEpsilon is subtracted from total/(stim+break) before flooring the iTBS train
// count. A total that is an exact multiple of the train period therefore yields one fewer
// extra train, which keeps the layout inside total because the first train is always emitted.
const DefaultCycleEpsilon = 0.001

// Synthesizer builds protocol buffers at a fixed sample rate.
type Synthesizer struct {
	rate              float64
	epsilon           float64
	padSamples        int
	componentMetadata types.ComponentMetadata
	loggers           []types.Logger
	loggersLock       sync.Mutex
}

// NewSynthesizer returns a synthesizer at types.DefaultSampleRate.
func NewSynthesizer(options ...types.Option[*Synthesizer]) *Synthesizer {
	s := &Synthesizer{
		rate:       types.DefaultSampleRate,
		epsilon:    DefaultCycleEpsilon,
		padSamples: types.TailPadSamples,
		componentMetadata: types.ComponentMetadata{
			Type: "SYNTHESIZER",
			ID:   utils.GenerateUniqueHash(),
		},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// SampleRate returns the output rate in Hz.
func (s *Synthesizer) SampleRate() float64 { return s.rate }

// CycleEpsilon returns the iTBS train-count tie-break.
func (s *Synthesizer) CycleEpsilon() float64 { return s.epsilon }

// Synthesize builds the buffer and time axis for kind. With rampup the buffer opens with a
// linear ramp to full amplitude; without it the first sample is already at full amplitude.
// Every buffer ends with the ramp-down and a zero pad.
func (s *Synthesizer) Synthesize(kind types.Kind, params types.Parameters, rampup bool) (types.TimeAxis, types.Buffer, error) {
	axis, buf, err := s.synthesize(kind, params, rampup)
	if err != nil {
		s.NotifyLoggers(types.WarnLevel, "Synthesize: rejected parameters",
			"component", s.componentMetadata,
			"event", "Synthesize",
			"result", "FAILURE",
			"protocol", kind,
			"rampup", rampup,
			"error", err,
		)
		return types.TimeAxis{}, types.Buffer{}, err
	}
	s.NotifyLoggers(types.DebugLevel, "Synthesize: built buffer",
		"component", s.componentMetadata,
		"event", "Synthesize",
		"result", "SUCCESS",
		"protocol", kind,
		"rampup", rampup,
		"samples", buf.Len(),
		"seconds", buf.Duration(),
	)
	return axis, buf, nil
}

func (s *Synthesizer) synthesize(kind types.Kind, params types.Parameters, rampup bool) (types.TimeAxis, types.Buffer, error) {
	if err := params.Validate(); err != nil {
		return types.TimeAxis{}, types.Buffer{}, fmt.Errorf("%w: %w", types.ErrDomain, err)
	}
	build, ok := builders[kind]
	if !ok {
		return types.TimeAxis{}, types.Buffer{}, fmt.Errorf("%w: no waveform for protocol %s", types.ErrDomain, kind)
	}

	osc := waveform.NewOscillator(s.rate)
	a1, a2 := params.A1(), params.A2()
	out := types.Buffer{Rate: s.rate}
	onset := 0.0

	if rampup {
		up, err := osc.Ramp(types.RampUp, params.CarrierFreq, params.RampUpTime, a1, a2)
		if err != nil {
			return types.TimeAxis{}, types.Buffer{}, fmt.Errorf("ramp-up: %w", err)
		}
		out = out.Append(up)
		onset = float64(up.Len()) / s.rate
	}

	mainN := waveform.SampleCount(s.rate, params.TotalTime)
	if mainN == 0 {
		return types.TimeAxis{}, types.Buffer{}, fmt.Errorf("%w: total_time %vs is shorter than one sample", types.ErrDomain, params.TotalTime)
	}
	main, err := build(s, osc, params, mainN)
	if err != nil {
		return types.TimeAxis{}, types.Buffer{}, fmt.Errorf("%s: %w", kind, err)
	}
	out = out.Append(main)

	down, err := osc.Ramp(types.RampDown, params.CarrierFreq, params.RampDownTime, a1, a2)
	if err != nil {
		return types.TimeAxis{}, types.Buffer{}, fmt.Errorf("ramp-down: %w", err)
	}
	out = out.Append(down)

	axis := types.NewTimeAxis(s.rate, out.Len(), onset)
	out = out.Append(types.NewBuffer(s.rate, s.padSamples))
	axis = axis.Extend(s.padSamples)

	if err := out.Validate(); err != nil {
		return types.TimeAxis{}, types.Buffer{}, err
	}
	return axis, out, nil
}

// RampDown builds the stop buffer: a carrier ramp from the amplitudes in params to zero,
// identical to waveform.Ramp in the down direction.
func (s *Synthesizer) RampDown(params types.Parameters) (types.TimeAxis, types.Buffer, error) {
	if err := params.Validate(); err != nil {
		return types.TimeAxis{}, types.Buffer{}, fmt.Errorf("%w: %w", types.ErrDomain, err)
	}
	buf, err := waveform.Ramp(types.RampDown, params.CarrierFreq, params.RampDownTime, params.A1(), params.A2(), s.rate)
	if err != nil {
		s.NotifyLoggers(types.WarnLevel, "RampDown: rejected parameters",
			"component", s.componentMetadata,
			"event", "RampDown",
			"result", "FAILURE",
			"error", err,
		)
		return types.TimeAxis{}, types.Buffer{}, err
	}
	return types.NewTimeAxis(s.rate, buf.Len(), 0), buf, nil
}
