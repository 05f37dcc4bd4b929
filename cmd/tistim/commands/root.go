// Package commands implements the tistim cobra command tree.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/hummel-lab/tistim/pkg/builder"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "tistim",
		Short: "Transcranial stimulation controller",
		Long: `tistim - synthesize and stream theta-burst and temporal-interference stimulation.

Protocols:
  iTBS         intermittent theta burst, stim/break trains
  cTBS         continuous theta burst
  TBS_control  theta burst at the carrier frequency
  TI           two-channel temporal interference

Configuration is read from --config (YAML) and TISTIM_* environment variables.

Examples:
  # Inspect a protocol and export it as a compressed frame
  tistim synth iTBS --set total_time=40 --out itbs.tiwf --compression zstd

  # Stream a session; type "update ampl_sum=3", "trigger" or "stop" on stdin
  tistim run --subject S01 --session ses1 --protocol TI`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newSynthCmd(opts),
		newRunCmd(opts),
		newLookupCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) loadConfig() (builder.Config, error) {
	return builder.LoadConfig(o.configPath)
}

// applySet resolves --set key=value pairs over p.
func applySet(set map[string]string, p builder.Parameters) (builder.Parameters, error) {
	if len(set) == 0 {
		return p, nil
	}
	return builder.ParseParameters(set, p)
}
