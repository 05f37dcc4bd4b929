package main

import (
	"fmt"
	"os"

	"github.com/hummel-lab/tistim/pkg/builder"
)

func main() {
	synth := builder.NewSynthesizer()

	params := builder.DefaultParameters()
	params.TotalTime = 10
	axis, buf, err := synth.Synthesize(builder.KindTI, params, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "synthesize: %v\n", err)
		os.Exit(1)
	}

	st := builder.AnalyzeWave(buf)
	fmt.Printf("TI: %d samples, %.2f s, peak %.2f/%.2f V, beat %.1f Hz\n",
		st.Samples, st.Duration, st.Peak1, st.Peak2, builder.BeatFrequency(buf, 1, params.CarrierFreq/2))

	frame := builder.WaveFrame{Kind: builder.KindTI, MainOnset: axis.MainOnset, Buffer: buf}
	for _, c := range []builder.Compression{
		builder.CompressNone,
		builder.CompressDeflate,
		builder.CompressSnappy,
		builder.CompressZstd,
		builder.CompressBrotli,
		builder.CompressLZ4,
	} {
		data, err := builder.MarshalWaveFrame(frame, c)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", c, err)
			continue
		}
		back, err := builder.UnmarshalWaveFrame(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s decode: %v\n", c, err)
			continue
		}
		fmt.Printf("%-8s %10d bytes, %d samples back\n", c, len(data), back.Buffer.Len())
	}
}
