// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_DialectSpecificNames(t *testing.T) {
	tests := []struct {
		keyword Keyword
		dialect Dialect
		want    string
	}{
		{Definitions, Draft7, "definitions"},
		{Definitions, Draft2019_09, "$defs"},
		{PrefixItems, Draft6, "items"},
		{PrefixItems, Draft2020_12, "prefixItems"},
		{DependentSchemas, Draft7, "dependencies"},
		{DependentRequired, Draft7, "dependencies"},
		{DependentRequired, Draft2020_12, "dependentRequired"},
		{AdditionalProperties, Draft6, "additionalProperties"},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.dialect.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.keyword.For(tt.dialect))
		})
	}
}

func TestReverseTagMap_FirstDeclaredWins(t *testing.T) {
	m := ReverseTagMap(Draft7, func(k Keyword) bool { return k.Supports(ContentNamedSchemas) })
	assert.Equal(t, DependentSchemas, m["dependencies"])
	assert.Equal(t, Properties, m["properties"])
	assert.NotContains(t, m, "items")

	all := ReverseTagMap(Draft7, nil)
	assert.Equal(t, Items, all["items"])
	assert.Equal(t, DependentSchemas, all["dependencies"])
}

func TestImpliedTypes(t *testing.T) {
	assert.Equal(t, []SchemaType{TypeObject}, Properties.ImpliedTypes())
	assert.Equal(t, []SchemaType{TypeInteger, TypeNumber}, Minimum.ImpliedTypes())
	assert.Empty(t, AllOf.ImpliedTypes())
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{"draft-07", Draft7, false},
		{"7", Draft7, false},
		{"draft-2019-09", Draft2019_09, false},
		{"2020-12", Draft2020_12, false},
		{"", Draft2020_12, false},
		{"draft-04", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefinitionsPrefix(t *testing.T) {
	assert.Equal(t, "#/definitions/", Draft7.DefinitionsPrefix())
	assert.Equal(t, "#/$defs/", Draft2020_12.DefinitionsPrefix())
}
