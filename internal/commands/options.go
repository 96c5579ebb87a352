// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dacolabs/schemagen/internal/config"
	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/keyword"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List generator options, presets, modules and dialects",
		Long: `List the generator options with the presets enabling them, the metadata
modules usable in schemagen.yaml and the supported dialects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), renderOptions())
			return err
		},
	}
}

func renderOptions() string {
	heading := lipgloss.NewStyle().Bold(true).MarginTop(1)
	newTable := func(headers ...string) *table.Table {
		return table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#bababa"))).
			Headers(headers...)
	}

	headers := []string{"OPTION"}
	for _, p := range generator.Presets {
		headers = append(headers, p.Name())
	}
	headers = append(headers, "DESCRIPTION")
	options := newTable(headers...)
	for _, o := range generator.Options() {
		row := []string{o.String()}
		for _, p := range generator.Presets {
			mark := ""
			if p.EnabledByDefault(o) {
				mark = "✓"
			}
			row = append(row, mark)
		}
		options.Row(append(row, o.Description())...)
	}

	modules := newTable("MODULE", "DESCRIPTION")
	for _, m := range config.Modules() {
		modules.Row(m.Name, m.Description)
	}

	dialects := newTable("DIALECT", "$schema")
	for _, d := range keyword.Dialects {
		dialects.Row(d.String(), d.Identifier())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		heading.Render("Options"), options.Render(),
		heading.Render("Modules"), modules.Render(),
		heading.Render("Dialects"), dialects.Render(),
	) + "\n"
}
