// Package main is the entry point for the tistim command line.
//
// Usage:
//
//	tistim [flags] <command> [args]
//
// Commands:
//
//	synth    - Synthesize a protocol, print its analysis and optionally export it
//	run      - Stream a session to the simulated device
//	lookup   - Resolve a blinded protocol assignment
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/hummel-lab/tistim/cmd/tistim/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
