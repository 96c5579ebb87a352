// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package config

import (
	"log/slog"
	"slices"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/modules/invopop"
	"github.com/dacolabs/schemagen/internal/modules/jsontag"
	"github.com/dacolabs/schemagen/internal/modules/rules"
	"github.com/dacolabs/schemagen/internal/modules/schematag"
	"github.com/dacolabs/schemagen/internal/modules/validate"
)

// ModuleInfo describes a named module.
type ModuleInfo struct {
	Name        string
	Description string
	factory     func() generator.Module
}

var modules = []ModuleInfo{
	{
		Name:        "jsontag",
		Description: "property names, exclusions and optionality from json tags",
		factory:     func() generator.Module { return jsontag.New() },
	},
	{
		Name:        "jsontag-required",
		Description: "like jsontag, fields without omitempty or omitzero are required",
		factory:     func() generator.Module { return jsontag.New(jsontag.RequiredByDefault) },
	},
	{
		Name:        "schematag",
		Description: "keywords from jsonschema tags, descriptions from doc comments",
		factory:     func() generator.Module { return schematag.New() },
	},
	{
		Name:        "validate",
		Description: "bounds, formats and enums from validate tags",
		factory:     func() generator.Module { return validate.New(validate.NotNullableIsRequired) },
	},
	{
		Name:        "validate-patterns",
		Description: "like validate, character class rules also become patterns",
		factory: func() generator.Module {
			return validate.New(validate.NotNullableIsRequired, validate.IncludePatterns)
		},
	},
	{
		Name:        "binding",
		Description: "like validate, reading binding tags",
		factory: func() generator.Module {
			return validate.New(validate.NotNullableIsRequired).WithTagKey("binding")
		},
	},
	{
		Name:        "invopop",
		Description: "schemas of types implementing JSONSchema() from invopop/jsonschema",
		factory:     func() generator.Module { return invopop.New() },
	},
}

// Modules lists the named modules.
func Modules() []ModuleInfo { return slices.Clone(modules) }

// HasModule reports whether name is a known module.
func HasModule(name string) bool {
	return slices.ContainsFunc(modules, func(m ModuleInfo) bool { return m.Name == name })
}

// GetModule returns a new instance of the named module.
func GetModule(name string) (generator.Module, error) {
	i := slices.IndexFunc(modules, func(m ModuleInfo) bool { return m.Name == name })
	if i < 0 {
		return nil, &ConfigurationError{Field: "module", Value: name, Reason: "unknown module"}
	}
	return modules[i].factory(), nil
}

// Builder returns the generator configuration described by c. Rules are
// registered before the named modules, which follow in configured order.
func (c *Config) Builder(logger *slog.Logger) (*generator.ConfigBuilder, error) {
	dialect, err := keyword.ParseDialect(c.Dialect)
	if err != nil {
		return nil, &ConfigurationError{Field: "dialect", Value: c.Dialect, Reason: "unknown dialect"}
	}
	preset, err := generator.ParsePreset(c.Preset)
	if err != nil {
		return nil, &ConfigurationError{Field: "preset", Value: c.Preset, Reason: "unknown preset"}
	}
	b := generator.NewConfigBuilder(dialect, preset)

	with, err := parseOptions(c.Options.With)
	if err != nil {
		return nil, err
	}
	without, err := parseOptions(c.Options.Without)
	if err != nil {
		return nil, err
	}
	b.With(with...).Without(without...)

	if !c.Rules.IsEmpty() {
		m, err := rules.New(c.Rules, logger)
		if err != nil {
			return nil, &ConfigurationError{Field: "rules", Reason: err.Error()}
		}
		b.WithModule(m)
	}
	for _, name := range c.Modules {
		m, err := GetModule(name)
		if err != nil {
			return nil, err
		}
		b.WithModule(m)
	}
	return b, nil
}

func parseOptions(names []string) ([]generator.Option, error) {
	opts := make([]generator.Option, 0, len(names))
	for _, name := range names {
		o, err := generator.ParseOption(name)
		if err != nil {
			return nil, &ConfigurationError{Field: "option", Value: name, Reason: "unknown option"}
		}
		opts = append(opts, o)
	}
	return opts, nil
}
