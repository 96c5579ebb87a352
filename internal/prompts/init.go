// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"github.com/charmbracelet/huh"
)

// InitChoices holds the values collected by RunInitForm. Fields that are set
// on entry are used as defaults.
type InitChoices struct {
	Dialect string
	Preset  string
	Modules []string
	Output  string
}

// Choice is a selectable value with a short description.
type Choice struct {
	Value       string
	Description string
}

// RunInitForm runs the interactive form for the init command.
func RunInitForm(c *InitChoices, dialects, presets []string, modules []Choice) error {
	moduleOptions := make([]huh.Option[string], len(modules))
	for i, m := range modules {
		moduleOptions[i] = huh.NewOption(m.Value+"  "+m.Description, m.Value)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Schema dialect").
				Options(huh.NewOptions(dialects...)...).
				Value(&c.Dialect),
			huh.NewSelect[string]().
				Title("Option preset").
				Options(huh.NewOptions(presets...)...).
				Value(&c.Preset),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Metadata modules").
				Description("Applied in the selected order after the preset").
				Options(moduleOptions...).
				Value(&c.Modules),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Output pattern").
				Description("{name} is the type name, {package} the last element of its package path").
				Placeholder("schemas/{name}.schema.json").
				Validate(requiredValidator("output pattern")).
				Value(&c.Output),
		),
	).WithTheme(Theme()).Run()
}
