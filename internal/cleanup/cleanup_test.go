// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package cleanup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
)

func assertJSON(t *testing.T, want string, got *jsonnode.Node) {
	t.Helper()
	data, err := got.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, want, string(data))
}

func TestReduceAllOf(t *testing.T) {
	tests := []struct {
		name    string
		dialect keyword.Dialect
		input   string
		want    string
	}{
		{
			name:    "compatible parts",
			dialect: keyword.Draft2020_12,
			input:   `{"allOf":[{"type":"object","properties":{"a":{"type":"string"}}},{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"string"}}}]}`,
			want:    `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"string"}}}`,
		},
		{
			name:    "conflicting property",
			dialect: keyword.Draft2020_12,
			input:   `{"allOf":[{"properties":{"a":{"type":"string"}}},{"properties":{"a":{"type":"integer"}}}]}`,
			want:    `{"allOf":[{"properties":{"a":{"type":"string"}}},{"properties":{"a":{"type":"integer"}}}]}`,
		},
		{
			name:    "union of required and narrowest bounds",
			dialect: keyword.Draft2020_12,
			input:   `{"title":"T","allOf":[{"required":["a"],"minLength":1,"maxLength":10},{"required":["a","b"],"minLength":3,"maxLength":5}]}`,
			want:    `{"title":"T","required":["a","b"],"minLength":3,"maxLength":5}`,
		},
		{
			name:    "type overlap",
			dialect: keyword.Draft2020_12,
			input:   `{"allOf":[{"type":["string","null"]},{"type":["null","integer","string"]}]}`,
			want:    `{"type":["string","null"]}`,
		},
		{
			name:    "disjoint types",
			dialect: keyword.Draft2020_12,
			input:   `{"allOf":[{"type":"string"},{"type":"integer"}]}`,
			want:    `{"allOf":[{"type":"string"},{"type":"integer"}]}`,
		},
		{
			name:    "false part",
			dialect: keyword.Draft2020_12,
			input:   `{"allOf":[{"type":"string"},false]}`,
			want:    `{"allOf":[{"type":"string"},false]}`,
		},
		{
			name:    "conditional",
			dialect: keyword.Draft2020_12,
			input:   `{"allOf":[{"if":{"type":"string"}},{"type":"string"}]}`,
			want:    `{"allOf":[{"if":{"type":"string"}},{"type":"string"}]}`,
		},
		{
			name:    "ref with siblings in draft-07",
			dialect: keyword.Draft7,
			input:   `{"allOf":[{"$ref":"#/definitions/A"},{"title":"x"}]}`,
			want:    `{"allOf":[{"$ref":"#/definitions/A"},{"title":"x"}]}`,
		},
		{
			name:    "ref with siblings in 2020-12",
			dialect: keyword.Draft2020_12,
			input:   `{"allOf":[{"$ref":"#/$defs/A"},{"title":"x"}]}`,
			want:    `{"$ref":"#/$defs/A","title":"x"}`,
		},
		{
			name:    "nested allOf inside items",
			dialect: keyword.Draft2020_12,
			input:   `{"type":"array","items":{"allOf":[{"type":"string"},{"format":"email"}]}}`,
			want:    `{"type":"array","items":{"type":"string","format":"email"}}`,
		},
		{
			name:    "duplicate unknown keyword",
			dialect: keyword.Draft2020_12,
			input:   `{"allOf":[{"x-custom":1},{"x-custom":1}]}`,
			want:    `{"allOf":[{"x-custom":1},{"x-custom":1}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := jsonnode.MustParse(tt.input)
			New(tt.dialect).ReduceAllOf([]*jsonnode.Node{node})
			assertJSON(t, tt.want, node)
		})
	}
}

func TestReduceAnyOf(t *testing.T) {
	node := jsonnode.MustParse(`{"anyOf":[{"type":"null"},{"anyOf":[{"type":"string"},{"anyOf":[{"type":"integer"},{"type":"boolean"}]}]},{"title":"x","anyOf":[{"type":"number"}]}]}`)
	New(keyword.Draft2020_12).ReduceAnyOf([]*jsonnode.Node{node})
	assertJSON(t, `{"anyOf":[{"type":"null"},{"type":"string"},{"type":"integer"},{"type":"boolean"},{"title":"x","anyOf":[{"type":"number"}]}]}`, node)
}

func TestSetStrictTypeInfo(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		considerNull bool
		wrapNull     bool
		want         string
	}{
		{
			name:         "object implied with null",
			input:        `{"properties":{"test":{}}}`,
			considerNull: true,
			want:         `{"properties":{"test":{}},"type":["object","null"]}`,
		},
		{
			name:         "explicit type untouched",
			input:        `{"type":"object","properties":{"test":{}}}`,
			considerNull: true,
			want:         `{"type":"object","properties":{"test":{}}}`,
		},
		{
			name:  "several implied types",
			input: `{"minLength":1,"minimum":0}`,
			want:  `{"minLength":1,"minimum":0,"type":["string","integer","number"]}`,
		},
		{
			name:  "nothing implied",
			input: `{"title":"x"}`,
			want:  `{"title":"x"}`,
		},
		{
			name:         "null wrapped in anyOf",
			input:        `{"items":{}}`,
			considerNull: true,
			wrapNull:     true,
			want:         `{"anyOf":[{"type":"null"},{"items":{},"type":"array"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := jsonnode.MustParse(tt.input)
			New(keyword.Draft2020_12, WithNullAsAnyOf(tt.wrapNull)).SetStrictTypeInfo([]*jsonnode.Node{node}, tt.considerNull)
			assertJSON(t, tt.want, node)
		})
	}
}

func TestPassesAreIdempotent(t *testing.T) {
	input := `{"allOf":[{"properties":{"a":{"minLength":1}}},{"required":["a"]}],"$defs":{"B":{"items":{"allOf":[{"maximum":3},{"maximum":2}]}}}}`
	c := New(keyword.Draft2020_12)

	once := jsonnode.MustParse(input)
	c.ReduceAllOf([]*jsonnode.Node{once})
	c.SetStrictTypeInfo([]*jsonnode.Node{once}, true)

	twice := once.Copy()
	c.ReduceAllOf([]*jsonnode.Node{twice})
	c.SetStrictTypeInfo([]*jsonnode.Node{twice}, true)

	assert.True(t, once.Equal(twice))
	assertJSON(t, `{"properties":{"a":{"minLength":1,"type":["string","null"]}},"required":["a"],"type":["object","null"],"$defs":{"B":{"items":{"maximum":2,"type":["integer","number","null"]},"type":["array","null"]}}}`, once)
}

func TestReduceRedundantMemberAttributes(t *testing.T) {
	defs := jsonnode.MustParse(`{"Item":{"type":"object","title":"Item","description":"shared"}}`)
	root := jsonnode.MustParse(`{"properties":{"item":{"$ref":"#/$defs/Item","title":"Item","description":"own"},"other":{"title":"Item"}}}`)

	New(keyword.Draft2020_12).ReduceRedundantMemberAttributes([]*jsonnode.Node{root}, defs, "#/$defs/")
	assertJSON(t, `{"properties":{"item":{"$ref":"#/$defs/Item","description":"own"},"other":{"title":"Item"}}}`, root)
}

func TestMakeNullable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		alwaysOf bool
		want     string
	}{
		{"single type", `{"type":"string"}`, false, `{"type":["string","null"]}`},
		{"type array", `{"type":["string","integer"]}`, false, `{"type":["string","integer","null"]}`},
		{"already nullable", `{"type":["string","null"]}`, false, `{"type":["string","null"]}`},
		{"null type", `{"type":"null"}`, false, `{"type":"null"}`},
		{"no type", `{"title":"x"}`, false, `{"title":"x"}`},
		{"reference", `{"$ref":"#/$defs/A"}`, false, `{"anyOf":[{"type":"null"},{"$ref":"#/$defs/A"}]}`},
		{"enum", `{"type":"string","enum":["a"]}`, false, `{"anyOf":[{"type":"null"},{"type":"string","enum":["a"]}]}`},
		{"always anyOf", `{"type":"string"}`, true, `{"anyOf":[{"type":"null"},{"type":"string"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := jsonnode.MustParse(tt.input)
			MakeNullable(node, tt.alwaysOf)
			assertJSON(t, tt.want, node)
		})
	}
}
