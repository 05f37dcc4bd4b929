package waveform

import "github.com/hummel-lab/tistim/pkg/internal/types"

// BurstUnit returns theta-burst modulation starting at carrier phase 0.
// See Oscillator.Burst for the unit layout.
func BurstUnit(highF, pulseF, burstF, duration, a1, a2, rate float64) (types.Buffer, error) {
	return NewOscillator(rate).Burst(highF, pulseF, burstF, duration, a1, a2)
}
