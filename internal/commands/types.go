// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dacolabs/schemagen/internal/session"
	"github.com/dacolabs/schemagen/internal/typemodel/gosource"
)

func newTypesCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "types [packages...]",
		Short: "List the types schemas can be generated for",
		Long: `List the exported named types of the given packages. Without arguments the
packages of schemagen.yaml are used.`,
		Example: `  # Types of the configured packages
  schemagen types

  # Types of one package
  schemagen types ./internal/model`,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			patterns := args
			if len(patterns) == 0 {
				patterns = sess.Config.Packages
			}
			res, err := gosource.Load(cmd.Context(), patterns, gosource.Options{
				Dir:    sess.Dir,
				Logger: newLogger(cmd.ErrOrStderr(), verbose),
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range res.Types {
				decl, _ := res.Universe.Lookup(name)
				if _, err := fmt.Fprintf(out, "%s\t%s\n", name, decl.Kind); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log skipped types")
	return cmd
}
