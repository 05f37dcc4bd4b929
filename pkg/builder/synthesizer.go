package builder

import (
	"github.com/hummel-lab/tistim/pkg/internal/protocol"
	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/waveform"
)

// WaveStats summarises a two-channel buffer.
type WaveStats = waveform.Stats

// NewSynthesizer creates the protocol synthesizer for iTBS, cTBS, TBS control and TI.
func NewSynthesizer(options ...types.Option[*protocol.Synthesizer]) *protocol.Synthesizer {
	return protocol.NewSynthesizer(options...)
}

// SynthesizerWithSampleRate sets the output sample rate in Hz.
func SynthesizerWithSampleRate(rate float64) types.Option[*protocol.Synthesizer] {
	return protocol.WithSampleRate(rate)
}

// SynthesizerWithCycleEpsilon sets the tolerance used when a stim/break cycle almost fits
// the remaining total time.
func SynthesizerWithCycleEpsilon(eps float64) types.Option[*protocol.Synthesizer] {
	return protocol.WithCycleEpsilon(eps)
}

// SynthesizerWithTailPad sets the number of trailing zero samples.
func SynthesizerWithTailPad(samples int) types.Option[*protocol.Synthesizer] {
	return protocol.WithTailPad(samples)
}

// SynthesizerWithLogger adds loggers to the synthesizer.
func SynthesizerWithLogger(l ...types.Logger) types.Option[*protocol.Synthesizer] {
	return protocol.WithLogger(l...)
}

// AnalyzeWave returns peak, RMS and slew statistics of buf.
func AnalyzeWave(buf Buffer) WaveStats {
	return waveform.Analyze(buf)
}

// DominantFrequency returns the strongest spectral component of x between lo and hi Hz.
func DominantFrequency(x []float64, rate, lo, hi float64) float64 {
	return waveform.DominantFrequency(x, rate, lo, hi)
}

// BeatFrequency returns the envelope frequency of the summed channels between lo and hi Hz.
func BeatFrequency(buf Buffer, lo, hi float64) float64 {
	return waveform.BeatFrequency(buf, lo, hi)
}
