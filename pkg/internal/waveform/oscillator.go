// Package waveform renders the two-channel current segments that stimulation protocols are
// built from. All segments are produced by an Oscillator that carries each channel's carrier
// phase across calls, so concatenated segments never jump in phase.
package waveform

import (
	"fmt"
	"math"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// sampleTolerance absorbs float representation error in rate*seconds so that, for example,
// 100000*0.03 yields 3000 samples and not 2999.
const sampleTolerance = 1e-6

// SampleCount returns floor(rate*seconds).
func SampleCount(rate, seconds float64) int {
	n := math.Floor(rate*seconds + sampleTolerance)
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// Oscillator is a pair of phase accumulators at a fixed sample rate. Channel 2 is always
// rendered with an extra phase of π relative to its accumulator.
type Oscillator struct {
	rate   float64
	phase1 float64
	phase2 float64
}

// NewOscillator returns an oscillator at phase 0 on both channels.
func NewOscillator(rate float64) *Oscillator {
	return &Oscillator{rate: rate}
}

// Rate returns the sample rate in Hz.
func (o *Oscillator) Rate() float64 { return o.rate }

// Phases returns the accumulated phase of each channel, in [0, 2π).
func (o *Oscillator) Phases() (float64, float64) { return o.phase1, o.phase2 }

// Tone renders n samples at constant amplitude with channel 1 at f1 and channel 2 at f2.
func (o *Oscillator) Tone(n int, f1, f2, a1, a2 float64) types.Buffer {
	return o.render(n, f1, f2, func(int) (float64, float64) { return a1, a2 })
}

// Ramp renders a carrier-only segment whose envelope moves linearly between 0 and the
// target amplitudes. Up ramps follow A*i/N and reach A on the sample after the segment;
// down ramps follow A*(N-1-i)/N and end at exactly 0.
func (o *Oscillator) Ramp(dir types.Direction, carrierF, duration, a1, a2 float64) (types.Buffer, error) {
	if err := o.checkRate(); err != nil {
		return types.Buffer{}, err
	}
	if dir != types.RampUp && dir != types.RampDown {
		return types.Buffer{}, fmt.Errorf("%w: ramp direction must be %q or %q, got %q",
			types.ErrInvalidArgument, types.RampUp, types.RampDown, dir)
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return types.Buffer{}, fmt.Errorf("%w: ramp duration must be > 0, got %v", types.ErrInvalidArgument, duration)
	}
	n := SampleCount(o.rate, duration)
	if n == 0 {
		return types.Buffer{}, fmt.Errorf("%w: ramp of %vs is shorter than one sample", types.ErrInvalidArgument, duration)
	}

	N := float64(n)
	env := func(i int) (float64, float64) {
		k := float64(i) / N
		if dir == types.RampDown {
			k = float64(n-1-i) / N
		}
		return a1 * k, a2 * k
	}
	return o.render(n, carrierF, carrierF, env), nil
}

// Burst renders theta-burst modulation over duration seconds. One unit is a pulse of
// 3/pulseF seconds with channel 2 shifted up by pulseF, followed by a gap of
// 1/burstF - 3/pulseF seconds with both channels at highF. The unit is repeated
// floor(duration*burstF) times.
func (o *Oscillator) Burst(highF, pulseF, burstF, duration, a1, a2 float64) (types.Buffer, error) {
	if err := o.checkRate(); err != nil {
		return types.Buffer{}, err
	}
	for _, f := range []float64{highF, pulseF, burstF, duration} {
		if !(f > 0) || math.IsInf(f, 0) {
			return types.Buffer{}, fmt.Errorf("%w: burst frequencies and duration must be > 0 (high=%v pulse=%v burst=%v duration=%v)",
				types.ErrDomain, highF, pulseF, burstF, duration)
		}
	}

	pulseT := 3 / pulseF
	cycleT := 1 / burstF
	if pulseT >= cycleT {
		return types.Buffer{}, fmt.Errorf("%w: pulse of %vs does not fit in a burst cycle of %vs", types.ErrDomain, pulseT, cycleT)
	}
	tiles := int(math.Floor(duration*burstF + sampleTolerance))
	if tiles < 1 {
		return types.Buffer{}, fmt.Errorf("%w: %vs holds no complete burst cycle at %v Hz", types.ErrDomain, duration, burstF)
	}
	pulseN := SampleCount(o.rate, pulseT)
	gapN := SampleCount(o.rate, cycleT-pulseT)
	if pulseN == 0 || gapN == 0 {
		return types.Buffer{}, fmt.Errorf("%w: burst segment shorter than one sample (pulse=%d gap=%d)", types.ErrDomain, pulseN, gapN)
	}

	out := types.Buffer{
		Rate: o.rate,
		Ch1:  make([]float64, 0, tiles*(pulseN+gapN)),
		Ch2:  make([]float64, 0, tiles*(pulseN+gapN)),
	}
	for i := 0; i < tiles; i++ {
		out = out.Append(o.Tone(pulseN, highF, highF+pulseF, a1, a2))
		out = out.Append(o.Tone(gapN, highF, highF, a1, a2))
	}
	return out, nil
}

func (o *Oscillator) checkRate() error {
	if !(o.rate > 0) || math.IsInf(o.rate, 0) {
		return fmt.Errorf("%w: sample rate must be > 0, got %v", types.ErrInvalidArgument, o.rate)
	}
	return nil
}

func (o *Oscillator) render(n int, f1, f2 float64, env func(i int) (float64, float64)) types.Buffer {
	buf := types.NewBuffer(o.rate, n)
	step1 := 2 * math.Pi * f1 / o.rate
	step2 := 2 * math.Pi * f2 / o.rate
	for i := 0; i < n; i++ {
		e1, e2 := env(i)
		buf.Ch1[i] = e1 * math.Cos(o.phase1)
		buf.Ch2[i] = e2 * math.Cos(o.phase2+math.Pi)
		o.phase1 = wrapPhase(o.phase1 + step1)
		o.phase2 = wrapPhase(o.phase2 + step2)
	}
	return buf
}

func wrapPhase(p float64) float64 {
	if p >= 2*math.Pi {
		p = math.Mod(p, 2*math.Pi)
	}
	return p
}
