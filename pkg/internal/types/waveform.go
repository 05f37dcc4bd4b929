package types

import "fmt"

// DefaultSampleRate is the analog-output sample rate in Hz.
const DefaultSampleRate = 100_000.0

// TailPadSamples is the number of zero samples appended to every protocol buffer so the
// device settles at 0 before it stops.
const TailPadSamples = 100

// Direction selects the envelope slope of a ramp segment.
type Direction string

const (
	RampUp   Direction = "up"
	RampDown Direction = "down"
)

// Buffer holds the two output channels at a fixed sample rate.
// Both channels always have the same length.
type Buffer struct {
	Rate float64
	Ch1  []float64
	Ch2  []float64
}

// NewBuffer allocates a zeroed two-channel buffer of n samples.
func NewBuffer(rate float64, n int) Buffer {
	return Buffer{
		Rate: rate,
		Ch1:  make([]float64, n),
		Ch2:  make([]float64, n),
	}
}

// Len returns the per-channel sample count.
func (b Buffer) Len() int {
	return len(b.Ch1)
}

// Duration returns the playback time of the buffer in seconds.
func (b Buffer) Duration() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(b.Len()) / b.Rate
}

// Append concatenates other onto b. Rates must match.
func (b Buffer) Append(other Buffer) Buffer {
	b.Ch1 = append(b.Ch1, other.Ch1...)
	b.Ch2 = append(b.Ch2, other.Ch2...)
	return b
}

// Validate checks the channel-length invariant and sample finiteness.
func (b Buffer) Validate() error {
	if len(b.Ch1) != len(b.Ch2) {
		return fmt.Errorf("%w: channel lengths differ (%d != %d)", ErrDomain, len(b.Ch1), len(b.Ch2))
	}
	if len(b.Ch1) == 0 {
		return fmt.Errorf("%w: empty buffer", ErrDomain)
	}
	for i := range b.Ch1 {
		if !finite(b.Ch1[i]) || !finite(b.Ch2[i]) {
			return fmt.Errorf("%w: non-finite sample at %d", ErrDomain, i)
		}
	}
	return nil
}

// Interleaved returns the samples in device order: ch1[0], ch2[0], ch1[1], ...
func (b Buffer) Interleaved() []float64 {
	out := make([]float64, 0, 2*b.Len())
	for i := range b.Ch1 {
		out = append(out, b.Ch1[i], b.Ch2[i])
	}
	return out
}

// TimeAxis holds one timestamp per buffer sample, spaced 1/Rate apart.
// t=0 is the first emitted sample. MainOnset is the time at which the main
// (modulated) signal begins: the ramp-up length when a ramp-up prefix is present,
// 0 otherwise.
type TimeAxis struct {
	Rate      float64
	MainOnset float64
	Samples   []float64
}

// NewTimeAxis builds an axis of n samples starting at t=0.
func NewTimeAxis(rate float64, n int, mainOnset float64) TimeAxis {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i) / rate
	}
	return TimeAxis{Rate: rate, MainOnset: mainOnset, Samples: samples}
}

// Len returns the number of timestamps.
func (t TimeAxis) Len() int {
	return len(t.Samples)
}

// Span returns the time covered by the axis: last minus first timestamp plus one sample period.
func (t TimeAxis) Span() float64 {
	if len(t.Samples) == 0 {
		return 0
	}
	return t.Samples[len(t.Samples)-1] - t.Samples[0] + 1/t.Rate
}

// Extend appends n timestamps continuing the 1/Rate spacing.
func (t TimeAxis) Extend(n int) TimeAxis {
	start := len(t.Samples)
	for i := 0; i < n; i++ {
		t.Samples = append(t.Samples, float64(start+i)/t.Rate)
	}
	return t
}

func finite(v float64) bool {
	return v-v == 0
}

// Synthesizer builds protocol buffers. The controller depends on this surface only.
type Synthesizer interface {
	// Synthesize builds the full buffer for kind. rampup=false omits the ramp-up prefix and is
	// used for update-in-place.
	Synthesize(kind Kind, params Parameters, rampup bool) (TimeAxis, Buffer, error)
	// RampDown builds the stop buffer: a carrier ramp from the current amplitudes to zero.
	RampDown(params Parameters) (TimeAxis, Buffer, error)
	SampleRate() float64
}
