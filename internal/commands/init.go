// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dacolabs/schemagen/internal/config"
	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/prompts"
	"github.com/dacolabs/schemagen/internal/session"
)

type initOptions struct {
	dialect        string
	preset         string
	modules        []string
	output         string
	packages       []string
	nonInteractive bool
}

func newInitCmd() *cobra.Command {
	defaults := config.Default()
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new schemagen project",
		Long:  `Initialize a new schemagen project with a schemagen.yaml configuration file.`,
		Example: `  # Interactive mode
  schemagen init

  # Non-interactive
  schemagen init --dialect draft-07 --module jsontag,validate --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dialect, "dialect", defaults.Dialect, "Schema dialect")
	cmd.Flags().StringVar(&opts.preset, "preset", defaults.Preset, "Option preset")
	cmd.Flags().StringSliceVarP(&opts.modules, "module", "m", defaults.Modules, "Metadata modules")
	cmd.Flags().StringVarP(&opts.output, "output", "o", defaults.Output, "Output path pattern")
	cmd.Flags().StringSliceVarP(&opts.packages, "package", "p", defaults.Packages, "Package patterns to load")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	path, err := cmd.Flags().GetString(session.ConfigFlag)
	if err != nil || path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, session.ConfigFileName)
	}

	// Check that the project isn't already initialized
	if _, err := os.Stat(path); err == nil {
		return errors.New("schemagen.yaml already exists; project already initialized")
	}

	if !opts.nonInteractive && interactive(cmd) {
		choices := prompts.InitChoices{
			Dialect: opts.dialect,
			Preset:  opts.preset,
			Modules: opts.modules,
			Output:  opts.output,
		}
		if err := prompts.RunInitForm(&choices, dialectNames(), presetNames(), moduleChoices()); err != nil {
			return err
		}
		opts.dialect, opts.preset, opts.modules, opts.output =
			choices.Dialect, choices.Preset, choices.Modules, choices.Output
	}

	cfg := config.Default()
	cfg.Dialect = opts.dialect
	cfg.Preset = opts.preset
	cfg.Modules = opts.modules
	cfg.Output = opts.output
	cfg.Packages = opts.packages

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Dialect", Value: cfg.Dialect},
		{Label: "Preset", Value: cfg.Preset},
		{Label: "Output", Value: cfg.Output},
	}, "Initialization completed")
	return nil
}

func dialectNames() []string {
	names := make([]string, len(keyword.Dialects))
	for i, d := range keyword.Dialects {
		names[i] = d.String()
	}
	return names
}

func presetNames() []string {
	names := make([]string, len(generator.Presets))
	for i, p := range generator.Presets {
		names[i] = p.Name()
	}
	return names
}

func moduleChoices() []prompts.Choice {
	var choices []prompts.Choice
	for _, m := range config.Modules() {
		choices = append(choices, prompts.Choice{Value: m.Name, Description: m.Description})
	}
	return choices
}
