package protocol

import "github.com/hummel-lab/tistim/pkg/internal/types"

// WithSampleRate sets the output rate in Hz.
func WithSampleRate(rate float64) types.Option[*Synthesizer] {
	return func(s *Synthesizer) {
		if rate > 0 {
			s.rate = rate
		}
	}
}

// WithCycleEpsilon sets the iTBS train-count tie-break. Zero counts a train that fits total
// exactly, which overruns total because the first train is emitted unconditionally.
func WithCycleEpsilon(eps float64) types.Option[*Synthesizer] {
	return func(s *Synthesizer) {
		if eps >= 0 {
			s.epsilon = eps
		}
	}
}

// WithTailPad overrides the zero pad appended to every protocol buffer.
func WithTailPad(samples int) types.Option[*Synthesizer] {
	return func(s *Synthesizer) {
		if samples >= 0 {
			s.padSamples = samples
		}
	}
}

// WithLogger registers loggers for the synthesizer.
func WithLogger(l ...types.Logger) types.Option[*Synthesizer] {
	return func(s *Synthesizer) {
		s.ConnectLogger(l...)
	}
}

// WithComponentMetadata sets the synthesizer's name and id.
func WithComponentMetadata(name string, id string) types.Option[*Synthesizer] {
	return func(s *Synthesizer) {
		s.SetComponentMetadata(name, id)
	}
}
