// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacolabs/schemagen/internal/keyword"
)

func TestOptions_NamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, o := range Options() {
		name := o.String()
		require.NotEmpty(t, name)
		assert.NotEmpty(t, o.Description(), name)
		assert.False(t, seen[name], "duplicate option name %s", name)
		seen[name] = true

		parsed, err := ParseOption(name)
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}
}

func TestParseOption(t *testing.T) {
	tests := []struct {
		input   string
		want    Option
		wantErr bool
	}{
		{input: "flattened-enums", want: FlattenedEnums},
		{input: "flattened_enums", want: FlattenedEnums},
		{input: " INLINE-ALL-SCHEMAS ", want: InlineAllSchemas},
		{input: "no-such-option", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOption(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "", want: "plain-json"},
		{input: "plain-json", want: "plain-json"},
		{input: "full-documentation", want: "full-documentation"},
		{input: "go-object", want: "go-object"},
		{input: "full-object", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePreset(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestConfigBuilder_Overrides(t *testing.T) {
	b := NewConfigBuilder(keyword.Draft2020_12, NewPreset("test", SimplifiedEnums, DefinitionsForAllObjects)).
		With(FlattenedEnums, InlineAllSchemas)
	cfg := b.Build()

	assert.True(t, cfg.Enabled(FlattenedEnums))
	assert.False(t, cfg.Enabled(SimplifiedEnums))
	assert.True(t, cfg.Enabled(InlineAllSchemas))
	assert.False(t, cfg.Enabled(DefinitionsForAllObjects))
	assert.False(t, cfg.Enabled(DefinitionForMainSchema))

	// the builder keeps reporting what was asked for
	assert.True(t, b.IsEnabled(SimplifiedEnums))
}

func TestConfigBuilder_WithAndWithout(t *testing.T) {
	b := NewConfigBuilder(keyword.Draft2020_12, PlainJSON).Without(SchemaVersionIndicator)
	assert.False(t, b.IsEnabled(SchemaVersionIndicator))

	b.With(SchemaVersionIndicator)
	assert.True(t, b.IsEnabled(SchemaVersionIndicator))

	b.Without(StrictTypeInfo)
	assert.False(t, b.IsEnabled(StrictTypeInfo))
	assert.True(t, b.IsEnabled(AdditionalFixedTypes))
}

func TestConfigBuilder_BuildIsRepeatable(t *testing.T) {
	m := &resettingModule{}
	b := testConfig(MapValuesAsAdditionalProperties).WithModule(m)

	first := b.Build()
	second := b.Build()

	assert.Len(t, second.types.customDefinitions, len(first.types.customDefinitions))
	assert.Len(t, second.modules, len(first.modules))
	assert.Empty(t, b.types.customDefinitions)
}

func TestConfigBuilder_ModuleOrder(t *testing.T) {
	m := &resettingModule{}
	cfg := testConfig().WithModule(m).Build()

	require.NotEmpty(t, cfg.types.customDefinitions)
	assert.Same(t, m, cfg.types.customDefinitions[0])
	assert.Same(t, m, cfg.modules[0])
}

func TestConfig_Defaults(t *testing.T) {
	cfg := testConfig().Build()

	assert.Equal(t, keyword.Draft2020_12, cfg.Dialect())
	assert.Equal(t, "$defs", cfg.Keyword(keyword.Definitions))
	assert.NotNil(t, cfg.NamingStrategy())
	assert.NotNil(t, cfg.types.sorter)
}
