// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/modules/rules"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

func TestConfig_LoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "schemagen.yaml")

	cfg := Config{
		Version:  1,
		Dialect:  "draft-07",
		Preset:   "full-documentation",
		Options:  Options{With: []string{"strict-type-info"}},
		Modules:  []string{"jsontag", "schematag"},
		Packages: []string{"./model/..."},
		Types:    []string{"example.com/app/model.*"},
		Output:   "schemas/{package}/{name}.yaml",
		Rules:    rules.Rules{Ignore: []string{`member.Name == "ID"`}},
	}

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	loaded, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, &cfg, loaded)
}

func TestConfig_Validate(t *testing.T) {
	valid := func(edit func(c *Config)) Config {
		c := *Default()
		edit(&c)
		return c
	}
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{name: "default config", cfg: *Default()},
		{name: "empty dialect and preset", cfg: valid(func(c *Config) { c.Dialect, c.Preset = "", "" })},
		{name: "unsupported version", cfg: valid(func(c *Config) { c.Version = 99 }), wantField: "version"},
		{name: "unknown dialect", cfg: valid(func(c *Config) { c.Dialect = "draft-04" }), wantField: "dialect"},
		{name: "unknown preset", cfg: valid(func(c *Config) { c.Preset = "full-object" }), wantField: "preset"},
		{name: "unknown option", cfg: valid(func(c *Config) { c.Options.Without = []string{"nope"} }), wantField: "option"},
		{name: "unknown module", cfg: valid(func(c *Config) { c.Modules = []string{"protobuf"} }), wantField: "module"},
		{name: "empty output", cfg: valid(func(c *Config) { c.Output = " " }), wantField: "output"},
		{name: "output extension", cfg: valid(func(c *Config) { c.Output = "{name}.txt" }), wantField: "output"},
		{name: "broken rule", cfg: valid(func(c *Config) { c.Rules.Required = []string{"member.Name =="} }), wantField: "rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestConfig_OutputPath(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: "", want: "schemas/User.schema.json"},
		{pattern: "out/{package}/{name}.yaml", want: "out/model/User.yaml"},
		{pattern: "single.json", want: "single.json"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			c := Config{Output: tt.pattern}
			assert.Equal(t, tt.want, c.OutputPath("example.com/app/model", "User"))
		})
	}
}

func TestGetModule(t *testing.T) {
	for _, info := range Modules() {
		m, err := GetModule(info.Name)
		require.NoError(t, err, info.Name)
		assert.NotNil(t, m)
	}

	_, err := GetModule("protobuf")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, `invalid module "protobuf": unknown module`, err.Error())
}

func TestConfig_Builder(t *testing.T) {
	str := typemodel.Named("string")
	u := typemodel.NewUniverse()
	require.NoError(t, u.Add(&typemodel.Decl{
		Name: "example.com/app/model.User",
		Kind: typemodel.KindStruct,
		Fields: []*typemodel.Field{
			{Name: "Name", Type: str, Tag: `json:"name"`, Exported: true},
			{Name: "Email", Type: str, Tag: `json:"email" validate:"email"`, Exported: true},
			{Name: "Secret", Type: str, Exported: true},
		},
	}))

	cfg := Default()
	cfg.Modules = []string{"jsontag-required", "validate"}
	cfg.Options.Without = []string{"schema-version-indicator"}
	cfg.Rules.Ignore = []string{`member.Name == "Secret"`}

	b, err := cfg.Builder(nil)
	require.NoError(t, err)
	doc, err := generator.New(b.Build(), u).GenerateNamed("example.com/app/model.User")
	require.NoError(t, err)
	data, err := doc.MarshalJSON()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type":"object",
		"properties":{
			"name":{"type":"string"},
			"email":{"type":"string","format":"email"}
		},
		"required":["name","email"]
	}`, string(data))
}

func TestConfig_BuilderErrors(t *testing.T) {
	cfg := Default()
	cfg.Options.With = []string{"unknown-option"}
	_, err := cfg.Builder(nil)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "option", cfgErr.Field)
}
