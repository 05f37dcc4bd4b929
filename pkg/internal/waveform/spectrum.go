package waveform

import (
	"math/cmplx"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Spectrum returns the single-sided amplitude spectrum of x and the bin width in Hz.
func Spectrum(x []float64, rate float64) ([]float64, float64) {
	n := len(x)
	if n == 0 || rate <= 0 {
		return nil, 0
	}
	coeffs := fft.FFTReal(x)
	mags := make([]float64, n/2+1)
	for i := range mags {
		mags[i] = 2 * cmplx.Abs(coeffs[i]) / float64(n)
	}
	mags[0] /= 2
	return mags, rate / float64(n)
}

// DominantFrequency returns the centre of the strongest spectral bin of x within [lo, hi] Hz.
// It returns 0 when the band holds no bins.
func DominantFrequency(x []float64, rate, lo, hi float64) float64 {
	mags, df := Spectrum(x, rate)
	if df == 0 {
		return 0
	}
	first := int(lo / df)
	if first < 1 {
		first = 1
	}
	last := int(hi/df) + 1
	if last > len(mags) {
		last = len(mags)
	}
	if first >= last {
		return 0
	}
	return float64(first+floats.MaxIdx(mags[first:last])) * df
}

// BeatFrequency estimates the interference envelope frequency of the summed channels, the
// quantity that reaches the target tissue. The sum is rectified and its mean removed before
// the search so that the envelope, not the carrier, dominates the band [lo, hi].
func BeatFrequency(buf types.Buffer, lo, hi float64) float64 {
	n := buf.Len()
	if n == 0 {
		return 0
	}
	sum := make([]float64, n)
	floats.AddTo(sum, buf.Ch1, buf.Ch2)
	for i, v := range sum {
		if v < 0 {
			sum[i] = -v
		}
	}
	floats.AddConst(-floats.Sum(sum)/float64(n), sum)
	return DominantFrequency(sum, buf.Rate, lo, hi)
}
