package protocol

import (
	"fmt"
	"math"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/waveform"
)

// mainBuilder renders exactly n samples of main signal, continuing osc's phase.
type mainBuilder func(s *Synthesizer, osc *waveform.Oscillator, p types.Parameters, n int) (types.Buffer, error)

var builders = map[types.Kind]mainBuilder{
	types.KindITBS:    buildITBS,
	types.KindCTBS:    buildCTBS,
	types.KindControl: buildControl,
	types.KindTI:      buildTI,
}

// Trains returns the number of iTBS stimulation trains for the given parameters:
// the first train plus floor(total/(stim+break) - epsilon) more.
func (s *Synthesizer) Trains(p types.Parameters) int {
	extra := math.Floor(p.TotalTime/(p.StimTime+p.BreakTime) - s.epsilon)
	if extra < 0 {
		extra = 0
	}
	return 1 + int(extra)
}

// buildITBS alternates bursts of stim_time with carrier-only breaks of break_time. The gap
// after the last train is sized to land the main signal on exactly n samples.
func buildITBS(s *Synthesizer, osc *waveform.Oscillator, p types.Parameters, n int) (types.Buffer, error) {
	a1, a2 := p.A1(), p.A2()
	breakN := waveform.SampleCount(s.rate, p.BreakTime)
	if breakN == 0 {
		return types.Buffer{}, fmt.Errorf("%w: train_break_time %vs is shorter than one sample", types.ErrDomain, p.BreakTime)
	}

	trains := s.Trains(p)
	out := types.Buffer{Rate: s.rate}
	for i := 0; i < trains; i++ {
		burst, err := osc.Burst(p.CarrierFreq, p.PulseFreq, p.BurstFreq, p.StimTime, a1, a2)
		if err != nil {
			return types.Buffer{}, err
		}
		out = out.Append(burst)
		if i < trains-1 {
			out = out.Append(osc.Tone(breakN, p.CarrierFreq, p.CarrierFreq, a1, a2))
		}
	}

	fill := n - out.Len()
	if fill < 0 {
		return types.Buffer{}, fmt.Errorf("%w: %d trains of %vs+%vs overrun total_time %vs by %d samples",
			types.ErrDomain, trains, p.StimTime, p.BreakTime, p.TotalTime, -fill)
	}
	return out.Append(osc.Tone(fill, p.CarrierFreq, p.CarrierFreq, a1, a2)), nil
}

// buildCTBS tiles bursts over total_time. A fraction of a burst cycle left at the end is
// carrier only.
func buildCTBS(s *Synthesizer, osc *waveform.Oscillator, p types.Parameters, n int) (types.Buffer, error) {
	a1, a2 := p.A1(), p.A2()
	burst, err := osc.Burst(p.CarrierFreq, p.PulseFreq, p.BurstFreq, p.TotalTime, a1, a2)
	if err != nil {
		return types.Buffer{}, err
	}
	fill := n - burst.Len()
	if fill < 0 {
		return types.Buffer{}, fmt.Errorf("%w: burst train overruns total_time by %d samples", types.ErrDomain, -fill)
	}
	return burst.Append(osc.Tone(fill, p.CarrierFreq, p.CarrierFreq, a1, a2)), nil
}

func buildControl(s *Synthesizer, osc *waveform.Oscillator, p types.Parameters, n int) (types.Buffer, error) {
	return osc.Tone(n, p.CarrierFreq, p.CarrierFreq, p.A1(), p.A2()), nil
}

// buildTI runs channel 2 at carrier+pulse_freq for the whole span, so the summed field beats
// at pulse_freq.
func buildTI(s *Synthesizer, osc *waveform.Oscillator, p types.Parameters, n int) (types.Buffer, error) {
	return osc.Tone(n, p.CarrierFreq, p.CarrierFreq+p.PulseFreq, p.A1(), p.A2()), nil
}
