package waveform

import (
	"fmt"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// Ramp returns a standalone ramp starting at carrier phase 0. A down ramp is the exact
// sample-by-sample reverse of the up ramp built from the same arguments.
func Ramp(dir types.Direction, carrierF, duration, a1Max, a2Max, rate float64) (types.Buffer, error) {
	if dir != types.RampUp && dir != types.RampDown {
		return types.Buffer{}, fmt.Errorf("%w: ramp direction must be %q or %q, got %q",
			types.ErrInvalidArgument, types.RampUp, types.RampDown, dir)
	}
	up, err := NewOscillator(rate).Ramp(types.RampUp, carrierF, duration, a1Max, a2Max)
	if err != nil {
		return types.Buffer{}, err
	}
	if dir == types.RampDown {
		return Reverse(up), nil
	}
	return up, nil
}

// Reverse returns a copy of buf with the sample order reversed on both channels.
func Reverse(buf types.Buffer) types.Buffer {
	n := buf.Len()
	out := types.NewBuffer(buf.Rate, n)
	for i := 0; i < n; i++ {
		out.Ch1[i] = buf.Ch1[n-1-i]
		out.Ch2[i] = buf.Ch2[n-1-i]
	}
	return out
}
