package waveform_test

import (
	"errors"
	"math"
	"testing"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/waveform"
)

const rate = types.DefaultSampleRate

func TestSampleCount_ToleratesRepresentationError(t *testing.T) {
	cases := []struct {
		seconds float64
		want    int
	}{
		{0.03, 3000},
		{0.17, 17000},
		{1.0 / 5.0, 20000},
		{1.0/5.0 - 3.0/100.0, 17000},
		{0, 0},
		{-1, 0},
	}
	for _, tc := range cases {
		if got := waveform.SampleCount(rate, tc.seconds); got != tc.want {
			t.Fatalf("SampleCount(%v) = %d, want %d", tc.seconds, got, tc.want)
		}
	}
}

func TestRampUp_EnvelopeEndpoints(t *testing.T) {
	// A zero carrier exposes the envelope directly.
	buf, err := waveform.Ramp(types.RampUp, 0, 0.01, 2, 3, rate)
	if err != nil {
		t.Fatalf("Ramp error: %v", err)
	}
	n := buf.Len()
	if n != 1000 {
		t.Fatalf("expected 1000 samples, got %d", n)
	}
	if buf.Ch1[0] != 0 || buf.Ch2[0] != 0 {
		t.Fatalf("expected envelope to start at 0, got %v %v", buf.Ch1[0], buf.Ch2[0])
	}
	last1 := buf.Ch1[n-1]
	last2 := -buf.Ch2[n-1]
	if math.Abs(2-last1) > 2.0/float64(n)+1e-12 {
		t.Fatalf("ch1 envelope ended at %v, not within one step of 2", last1)
	}
	if math.Abs(3-last2) > 3.0/float64(n)+1e-12 {
		t.Fatalf("ch2 envelope ended at %v, not within one step of 3", last2)
	}
}

func TestRampDown_IsExactReverseOfUp(t *testing.T) {
	up, err := waveform.Ramp(types.RampUp, 2000, 0.05, 2, 2, rate)
	if err != nil {
		t.Fatalf("Ramp(up) error: %v", err)
	}
	down, err := waveform.Ramp(types.RampDown, 2000, 0.05, 2, 2, rate)
	if err != nil {
		t.Fatalf("Ramp(down) error: %v", err)
	}
	if up.Len() != down.Len() {
		t.Fatalf("length mismatch %d != %d", up.Len(), down.Len())
	}
	n := up.Len()
	for i := 0; i < n; i++ {
		if down.Ch1[i] != up.Ch1[n-1-i] || down.Ch2[i] != up.Ch2[n-1-i] {
			t.Fatalf("sample %d is not the reverse of the up ramp", i)
		}
	}
	if down.Ch1[n-1] != 0 {
		t.Fatalf("expected down ramp to end at 0, got %v", down.Ch1[n-1])
	}
}

func TestRamp_InvalidArguments(t *testing.T) {
	if _, err := waveform.Ramp(types.Direction("sideways"), 2000, 1, 1, 1, rate); !errors.Is(err, types.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for bad direction, got %v", err)
	}
	_, err := waveform.Ramp(types.RampUp, 2000, 0, 1, 1, rate)
	if !errors.Is(err, types.ErrInvalidArgument) || !errors.Is(err, types.ErrDomain) {
		t.Fatalf("expected ErrInvalidArgument wrapping ErrDomain for zero duration, got %v", err)
	}
	if _, err := waveform.Ramp(types.RampUp, 2000, -1, 1, 1, rate); !errors.Is(err, types.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative duration, got %v", err)
	}
	if _, err := waveform.Ramp(types.RampUp, 2000, 1, 1, 1, 0); !errors.Is(err, types.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero rate, got %v", err)
	}
}

func TestBurstUnit_Length(t *testing.T) {
	buf, err := waveform.BurstUnit(2000, 100, 5, 2, 2, 2, rate)
	if err != nil {
		t.Fatalf("BurstUnit error: %v", err)
	}
	if buf.Len() != 10*(3000+17000) {
		t.Fatalf("expected 200000 samples, got %d", buf.Len())
	}
	if err := buf.Validate(); err != nil {
		t.Fatalf("invalid buffer: %v", err)
	}
}

func TestBurstUnit_PulseMustFitCycle(t *testing.T) {
	if _, err := waveform.BurstUnit(2000, 10, 5, 2, 1, 1, rate); !errors.Is(err, types.ErrDomain) {
		t.Fatalf("expected ErrDomain when pulse exceeds burst cycle, got %v", err)
	}
	if _, err := waveform.BurstUnit(2000, 15, 5, 2, 1, 1, rate); !errors.Is(err, types.ErrDomain) {
		t.Fatalf("expected ErrDomain when pulse equals burst cycle, got %v", err)
	}
	if _, err := waveform.BurstUnit(2000, 100, 5, 0.1, 1, 1, rate); !errors.Is(err, types.ErrDomain) {
		t.Fatalf("expected ErrDomain when duration holds no cycle, got %v", err)
	}
}

func TestBurstUnit_Continuity(t *testing.T) {
	buf, err := waveform.BurstUnit(2000, 100, 5, 1, 1, 3, rate)
	if err != nil {
		t.Fatalf("BurstUnit error: %v", err)
	}
	bound := waveform.SlewBound(2100, 3, rate)
	st := waveform.Analyze(buf)
	if st.MaxStep1 > bound || st.MaxStep2 > bound {
		t.Fatalf("step %v/%v exceeds slew bound %v", st.MaxStep1, st.MaxStep2, bound)
	}
}

func TestOscillator_PhaseCarriesAcrossSegments(t *testing.T) {
	split := waveform.NewOscillator(rate)
	a := split.Tone(1234, 2000, 2100, 1, 1)
	b := split.Tone(766, 2000, 2100, 1, 1)
	joined := a.Append(b)

	whole := waveform.NewOscillator(rate).Tone(2000, 2000, 2100, 1, 1)
	for i := 0; i < whole.Len(); i++ {
		if math.Abs(whole.Ch1[i]-joined.Ch1[i]) > 1e-9 || math.Abs(whole.Ch2[i]-joined.Ch2[i]) > 1e-9 {
			t.Fatalf("sample %d differs between split and whole rendering", i)
		}
	}
}

func TestOscillator_ChannelTwoIsAntiphase(t *testing.T) {
	buf := waveform.NewOscillator(rate).Tone(10, 2000, 2000, 1, 1)
	for i := 0; i < buf.Len(); i++ {
		if math.Abs(buf.Ch1[i]+buf.Ch2[i]) > 1e-12 {
			t.Fatalf("expected ch2 = -ch1 at equal frequency, sample %d: %v %v", i, buf.Ch1[i], buf.Ch2[i])
		}
	}
}

func TestAnalyze_Tone(t *testing.T) {
	buf := waveform.NewOscillator(rate).Tone(100000, 1000, 1000, 2, 1)
	st := waveform.Analyze(buf)
	if math.Abs(st.Peak1-2) > 1e-9 || math.Abs(st.Peak2-1) > 1e-9 {
		t.Fatalf("unexpected peaks %v %v", st.Peak1, st.Peak2)
	}
	if math.Abs(st.RMS1-2/math.Sqrt2) > 1e-6 {
		t.Fatalf("unexpected rms %v", st.RMS1)
	}
	if st.MaxStep1 > waveform.SlewBound(1000, 2, rate) {
		t.Fatalf("step %v exceeds bound", st.MaxStep1)
	}
	if st.Duration != 1 {
		t.Fatalf("unexpected duration %v", st.Duration)
	}
}

func TestDominantFrequency(t *testing.T) {
	const r = 10000.0
	buf := waveform.NewOscillator(r).Tone(10000, 1000, 1250, 1, 1)
	if got := waveform.DominantFrequency(buf.Ch1, r, 10, r/2); math.Abs(got-1000) > 1 {
		t.Fatalf("expected 1000 Hz, got %v", got)
	}
	if got := waveform.DominantFrequency(buf.Ch2, r, 10, r/2); math.Abs(got-1250) > 1 {
		t.Fatalf("expected 1250 Hz, got %v", got)
	}
	if got := waveform.DominantFrequency(nil, r, 10, 100); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
}

func TestBeatFrequency(t *testing.T) {
	const r = 20000.0
	buf := waveform.NewOscillator(r).Tone(20000, 2000, 2100, 1, 1)
	if got := waveform.BeatFrequency(buf, 10, 500); math.Abs(got-100) > 1 {
		t.Fatalf("expected a 100 Hz beat, got %v", got)
	}
}
