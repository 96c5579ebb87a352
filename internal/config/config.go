// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles schemagen project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/modules/rules"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// DefaultOutput is the output pattern used when none is configured.
const DefaultOutput = "schemas/{name}.schema.json"

// Options lists option names to switch on or off relative to the preset.
type Options struct {
	With    []string `yaml:"with,omitempty"`
	Without []string `yaml:"without,omitempty"`
}

// Config represents the schemagen.yaml project configuration file.
type Config struct {
	Version int      `yaml:"version"`
	Dialect string   `yaml:"dialect,omitempty"`
	Preset  string   `yaml:"preset,omitempty"`
	Options Options  `yaml:"options,omitempty"`
	Modules []string `yaml:"modules,omitempty"`
	// Packages are go/packages patterns the types are looked up in.
	Packages []string `yaml:"packages,omitempty"`
	// Types are "importpath.Name" or "importpath.*" patterns.
	Types  []string    `yaml:"types,omitempty"`
	Output string      `yaml:"output"`
	Rules  rules.Rules `yaml:"rules,omitempty"`
}

// Default returns the configuration used without a schemagen.yaml.
func Default() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Dialect:  keyword.Draft2020_12.String(),
		Preset:   generator.PlainJSON.Name(),
		Modules:  []string{"jsontag"},
		Packages: []string{"./..."},
		Output:   DefaultOutput,
	}
}

// ConfigurationError reports an invalid configuration value. It is raised
// before any package loading or generation.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
// Every problem is reported as a *ConfigurationError.
func (c *Config) Validate() error {
	var errs []error
	if c.Version != CurrentConfigVersion {
		errs = append(errs, &ConfigurationError{Field: "version", Value: fmt.Sprint(c.Version), Reason: "unsupported config version"})
	}
	if _, err := keyword.ParseDialect(c.Dialect); err != nil {
		errs = append(errs, &ConfigurationError{Field: "dialect", Value: c.Dialect, Reason: "unknown dialect"})
	}
	if _, err := generator.ParsePreset(c.Preset); err != nil {
		errs = append(errs, &ConfigurationError{Field: "preset", Value: c.Preset, Reason: "unknown preset"})
	}
	for _, name := range slices.Concat(c.Options.With, c.Options.Without) {
		if _, err := generator.ParseOption(name); err != nil {
			errs = append(errs, &ConfigurationError{Field: "option", Value: name, Reason: "unknown option"})
		}
	}
	for _, name := range c.Modules {
		if !HasModule(name) {
			errs = append(errs, &ConfigurationError{Field: "module", Value: name, Reason: "unknown module"})
		}
	}
	if err := validateOutput(c.Output); err != nil {
		errs = append(errs, err)
	}
	if _, err := rules.New(c.Rules, nil); err != nil {
		errs = append(errs, &ConfigurationError{Field: "rules", Reason: err.Error()})
	}
	return errors.Join(errs...)
}

func validateOutput(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return &ConfigurationError{Field: "output", Reason: "output pattern is empty"}
	}
	switch filepath.Ext(pattern) {
	case ".json", ".yaml", ".yml":
		return nil
	}
	return &ConfigurationError{Field: "output", Value: pattern, Reason: "output must end in .json, .yaml or .yml"}
}

// OutputPath expands the output pattern for a declaration. {name} is the
// simple name and {package} the last element of the import path.
func (c *Config) OutputPath(pkg, name string) string {
	pattern := c.Output
	if pattern == "" {
		pattern = DefaultOutput
	}
	return strings.NewReplacer(
		"{name}", name,
		"{package}", pkg[strings.LastIndexByte(pkg, '/')+1:],
	).Replace(pattern)
}
