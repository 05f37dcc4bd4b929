package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hummel-lab/tistim/pkg/builder"
)

func newLookupCmd(opts *options) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "lookup [subject session]",
		Short: "Resolve a blinded protocol assignment",
		Long: `Resolve the protocol assigned to a subject and session in the assignment table.
Without arguments the subject and session ids in the table are listed.

The table defaults to session.assignment_file.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or <subject> <session>, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := table
			if path == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Session.AssignmentFile
			}
			if path == "" {
				return fmt.Errorf("%w: no assignment table; pass --table or set session.assignment_file", builder.ErrConfig)
			}
			t, err := builder.LoadAssignments(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintf(out, "subjects: %s\n", strings.Join(t.Subjects(), ", "))
				fmt.Fprintf(out, "sessions: %s\n", strings.Join(t.Sessions(), ", "))
				return nil
			}
			kind, err := t.Lookup(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, kind)
			return nil
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "assignment table (YAML)")
	return cmd
}
