package waveform

import (
	"math"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
)

// Stats summarises a buffer for operator display and continuity checks.
type Stats struct {
	Samples  int
	Duration float64
	Peak1    float64
	Peak2    float64
	RMS1     float64
	RMS2     float64
	MaxStep1 float64
	MaxStep2 float64
}

// Analyze computes peak, RMS and largest sample-to-sample step for each channel.
func Analyze(buf types.Buffer) Stats {
	return Stats{
		Samples:  buf.Len(),
		Duration: buf.Duration(),
		Peak1:    peak(buf.Ch1),
		Peak2:    peak(buf.Ch2),
		RMS1:     rms(buf.Ch1),
		RMS2:     rms(buf.Ch2),
		MaxStep1: MaxStep(buf.Ch1),
		MaxStep2: MaxStep(buf.Ch2),
	}
}

// SlewBound is the largest step a cosine of amplitude aMax at fMax can make between two
// consecutive samples at rate.
func SlewBound(fMax, aMax, rate float64) float64 {
	return 2 * math.Pi * fMax * aMax / rate
}

// MaxStep returns the largest absolute difference between consecutive samples.
func MaxStep(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	diff := make([]float64, len(x)-1)
	floats.SubTo(diff, x[1:], x[:len(x)-1])
	return math.Max(floats.Max(diff), -floats.Min(diff))
}

func peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Max(floats.Max(x), -floats.Min(x))
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}
