package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hummel-lab/tistim/cmd/tistim/internal/build"
)

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, build.String())
			if opts.verbose {
				fmt.Fprintf(out, "  go:     %s\n", runtime.Version())
			}
		},
	}
}
