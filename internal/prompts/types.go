// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// SelectTypes asks for the root types to generate schemas for.
func SelectTypes(available []string) ([]string, error) {
	if len(available) == 0 {
		return nil, errors.New("no types available")
	}
	var selected []string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Types").
				Description("Each selected type is written to its own schema file").
				Options(huh.NewOptions(available...)...).
				Filterable(true).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return errors.New("select at least one type")
					}
					return nil
				}).
				Value(&selected),
		),
	).WithTheme(Theme()).Run()
	return selected, err
}
