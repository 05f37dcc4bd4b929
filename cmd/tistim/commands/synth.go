package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hummel-lab/tistim/pkg/builder"
)

func newSynthCmd(opts *options) *cobra.Command {
	var (
		set         map[string]string
		noRamp      bool
		stop        bool
		out         string
		compression string
	)

	cmd := &cobra.Command{
		Use:   "synth [protocol]",
		Short: "Synthesize a protocol and print its analysis",
		Long: `Synthesize a protocol buffer with the configured parameters and print its length,
amplitudes and dominant frequencies. The protocol defaults to session.protocol.

With --out the buffer is written as a TIWF frame, compressed with --compression.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			name := cfg.Session.Protocol
			if len(args) == 1 {
				name = args[0]
			}
			kind, err := builder.ParseKind(name)
			if err != nil {
				return err
			}
			params, err := applySet(set, cfg.Protocol)
			if err != nil {
				return err
			}
			codec, err := builder.ParseCompression(compression)
			if err != nil {
				return fmt.Errorf("%w: %w", builder.ErrConfig, err)
			}

			synth := builder.NewSynthesizer(builder.SynthesizerWithSampleRate(cfg.Device.SampleRate))
			var (
				axis builder.TimeAxis
				buf  builder.Buffer
			)
			if stop {
				axis, buf, err = synth.RampDown(params)
			} else {
				axis, buf, err = synth.Synthesize(kind, params, !noRamp)
			}
			if err != nil {
				return err
			}

			printAnalysis(cmd, kind, params, axis, buf, opts.verbose)

			if out == "" {
				return nil
			}
			data, err := builder.MarshalWaveFrame(builder.WaveFrame{Kind: kind, MainOnset: axis.MainOnset, Buffer: buf}, codec)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %s)\n", out, len(data), codec)
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&set, "set", nil, "override parameters, e.g. --set total_time=40,ampl_sum=3")
	cmd.Flags().BoolVar(&noRamp, "no-ramp", false, "omit the ramp-up prefix, as an in-place update does")
	cmd.Flags().BoolVar(&stop, "stop", false, "synthesize the ramp-down stop buffer instead")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the buffer to this file")
	cmd.Flags().StringVar(&compression, "compression", "zstd", "frame compression: none, deflate, snappy, zstd, brotli, lz4")
	return cmd
}

func printAnalysis(cmd *cobra.Command, kind builder.Kind, p builder.Parameters, axis builder.TimeAxis, buf builder.Buffer, verbose bool) {
	w := cmd.OutOrStdout()
	st := builder.AnalyzeWave(buf)
	nyquist := buf.Rate / 2

	fmt.Fprintf(w, "protocol:   %s\n", kind)
	fmt.Fprintf(w, "samples:    %d (%.3f s at %.0f Hz)\n", st.Samples, st.Duration, buf.Rate)
	fmt.Fprintf(w, "main onset: %.3f s\n", axis.MainOnset)
	fmt.Fprintf(w, "amplitude:  ch1 %.3f V  ch2 %.3f V\n", p.A1(), p.A2())
	fmt.Fprintf(w, "peak:       ch1 %.3f V  ch2 %.3f V\n", st.Peak1, st.Peak2)
	fmt.Fprintf(w, "carrier:    %.1f Hz\n", builder.DominantFrequency(buf.Ch1, buf.Rate, 1, nyquist))
	if kind == builder.KindTI {
		fmt.Fprintf(w, "beat:       %.1f Hz\n", builder.BeatFrequency(buf, 1, p.CarrierFreq/2))
	}
	if verbose {
		fmt.Fprintf(w, "rms:        ch1 %.4f  ch2 %.4f\n", st.RMS1, st.RMS2)
		fmt.Fprintf(w, "max step:   ch1 %.5f  ch2 %.5f\n", st.MaxStep1, st.MaxStep2)
	}
}
