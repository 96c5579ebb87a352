// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacolabs/schemagen/internal/typemodel"
)

func TestURICompatibleName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Item", want: "Item"},
		{input: "Page[Item]", want: "Page(Item)"},
		{input: "[]Item", want: "*Item"},
		{input: "Pair[A,B]", want: "Pair(A,B)"},
		{input: "map[string]Item", want: "map(string)Item"},
		{input: "Item-nullable", want: "Item-nullable"},
		{input: "a b/c#d", want: "abcd"},
		{input: "$Local", want: "$Local"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, URICompatibleName(tt.input))
		})
	}
}

func TestPlainName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Item", want: "Item"},
		{input: "Page[Item]", want: "Page_Item_"},
		{input: "[]Item", want: "...Item"},
		{input: "Pair[A,B]", want: "Pair_A.B_"},
		{input: "$Local", want: "-Local"},
		{input: "a b*c", want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainName(tt.input))
		})
	}
}

func TestGenerate_DefinitionKeys(t *testing.T) {
	u := testUniverse(t)
	page := typemodel.Named("example.com/m.Page", typemodel.Named(itemName))
	u.MustAdd(
		&typemodel.Decl{
			Name:   "example.com/m.Page",
			Kind:   typemodel.KindStruct,
			Params: []typemodel.TypeParam{{Name: "T"}},
			Fields: []*typemodel.Field{field("Items", typemodel.SliceOf(typemodel.Param("T")))},
		},
		strct("example.com/m.Pages", field("Left", page), field("Right", page)),
	)
	tests := []struct {
		name    string
		builder *ConfigBuilder
		want    string
	}{
		{name: "uri compatible", builder: testConfig(), want: "Page(Item)"},
		{name: "plain", builder: testConfig(PlainDefinitionKeys), want: "Page_Item_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.builder.Build(), u).GenerateNamed("example.com/m.Pages")
			require.NoError(t, err)
			assertJSON(t, `{
				"$defs":{"`+tt.want+`":{"type":"object","properties":{"Items":{"type":"array","items":`+itemSchema+`}}}},
				"type":"object",
				"properties":{
					"Left":{"$ref":"#/$defs/`+tt.want+`"},
					"Right":{"$ref":"#/$defs/`+tt.want+`"}
				}
			}`, got)
		})
	}
}

func TestDefaultNamingStrategy(t *testing.T) {
	s := DefaultNamingStrategy()
	keys := make([]DefinitionKey, 3)
	assert.Equal(t, []string{"Item-1", "Item-2", "Item-3"}, s.AdjustDuplicateNames(keys, "Item", nil))
	assert.Equal(t, "Item-nullable", s.AdjustNullableName(DefinitionKey{}, "Item", nil))
}
