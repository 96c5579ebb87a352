// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dacolabs/schemagen/internal/session"
)

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schemagen",
		Short: "Generate JSON Schema documents from Go types",
		Long: `schemagen derives JSON Schema documents from the named types of Go packages.

Generation is configured by schemagen.yaml in the working directory, or by the
file given with --config. Without either, the defaults are used.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP(session.ConfigFlag, "c", "", "Path to schemagen.yaml")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newTypesCmd(),
		newOptionsCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// interactive reports whether the command reads from a terminal.
func interactive(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
