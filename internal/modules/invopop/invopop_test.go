// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package invopop

import (
	"reflect"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

type color string

func (color) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Enum: []any{"red", "green"}}
}

type secret struct{}

func (*secret) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", WriteOnly: true}
}

type tree struct{}

func (tree) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Version: jsonschema.Version,
		ID:      "https://example.com/tree",
		Ref:     "#/$defs/leaf",
		Definitions: jsonschema.Definitions{
			"leaf": {Type: "array", Items: &jsonschema.Schema{Ref: "#/$defs/label"}},
			"label": {Type: "string"},
		},
	}
}

type loop struct{}

func (loop) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Ref:         "#/$defs/node",
		Definitions: jsonschema.Definitions{"node": {Type: "array", Items: &jsonschema.Schema{Ref: "#/$defs/node"}}},
	}
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

const (
	colorName  = "example.com/m.Color"
	secretName = "example.com/m.Secret"
	pointName  = "example.com/m.Point"
	holderName = "example.com/m.Holder"
	treeName   = "example.com/m.Tree"
	loopName   = "example.com/m.Loop"
)

func universe(t *testing.T) *typemodel.Universe {
	t.Helper()
	u := typemodel.NewUniverse()
	require.NoError(t, u.Add(
		&typemodel.Decl{Name: colorName, Kind: typemodel.KindBasic, Underlying: "string", Runtime: reflect.TypeFor[color]()},
		&typemodel.Decl{Name: secretName, Kind: typemodel.KindStruct, Runtime: reflect.TypeFor[secret]()},
		&typemodel.Decl{Name: treeName, Kind: typemodel.KindStruct, Runtime: reflect.TypeFor[tree]()},
		&typemodel.Decl{Name: loopName, Kind: typemodel.KindStruct, Runtime: reflect.TypeFor[loop]()},
		&typemodel.Decl{
			Name:    pointName,
			Kind:    typemodel.KindStruct,
			Runtime: reflect.TypeFor[point](),
			Fields: []*typemodel.Field{
				{Name: "X", Type: typemodel.Named("int"), Exported: true},
				{Name: "Y", Type: typemodel.Named("int"), Exported: true},
			},
		},
		&typemodel.Decl{
			Name: holderName,
			Kind: typemodel.KindStruct,
			Fields: []*typemodel.Field{
				{Name: "Color", Type: typemodel.Named(colorName), Exported: true},
				{Name: "Secret", Type: typemodel.Named(secretName), Exported: true},
				{Name: "Where", Type: typemodel.Named(pointName), Exported: true},
			},
		},
	))
	return u
}

func generate(t *testing.T, m *Module, name string) string {
	t.Helper()
	return generateFor(t, keyword.Draft2020_12, m, name)
}

func generateFor(t *testing.T, dialect keyword.Dialect, m *Module, name string) string {
	t.Helper()
	cfg := generator.NewConfigBuilder(dialect, generator.NewPreset("test", generator.PublicNonStaticFields)).
		WithModule(m).
		Build()
	doc, err := generator.New(cfg, universe(t)).GenerateNamed(name)
	require.NoError(t, err)
	data, err := doc.MarshalJSON()
	require.NoError(t, err)
	return string(data)
}

func TestModule(t *testing.T) {
	t.Run("JSONSchema methods", func(t *testing.T) {
		assert.JSONEq(t, `{
			"type":"object",
			"properties":{
				"Color":{"type":"string","enum":["red","green"]},
				"Secret":{"type":"string","writeOnly":true},
				"Where":{"type":"object","properties":{"X":{"type":"integer"},"Y":{"type":"integer"}}}
			}
		}`, generate(t, New(), holderName))
	})

	t.Run("reflected types", func(t *testing.T) {
		assert.JSONEq(t, `{
			"type":"object",
			"properties":{"x":{"type":"integer"},"y":{"type":"integer"}},
			"additionalProperties":false,
			"required":["x","y"]
		}`, generate(t, New().Reflect(reflect.TypeFor[point]()), pointName))
	})

	t.Run("main type", func(t *testing.T) {
		assert.JSONEq(t, `{"type":"string","enum":["red","green"]}`, generate(t, New(), colorName))
	})
}

func TestModule_EmbeddedDefinitions(t *testing.T) {
	for _, dialect := range []keyword.Dialect{keyword.Draft7, keyword.Draft2020_12} {
		t.Run(dialect.String(), func(t *testing.T) {
			assert.JSONEq(t,
				`{"type":"array","items":{"type":"string"}}`,
				generateFor(t, dialect, New(), treeName))
		})
	}
}

func TestModule_RecursiveEmbeddedDefinition(t *testing.T) {
	cfg := generator.NewConfigBuilder(keyword.Draft2020_12, generator.NewPreset("test", generator.PublicNonStaticFields)).
		WithModule(New()).
		Build()
	_, err := generator.New(cfg, universe(t)).GenerateNamed(loopName)
	require.ErrorContains(t, err, `recursive definition "node" cannot be embedded`)
}

func TestToNode(t *testing.T) {
	tests := []struct {
		name   string
		schema *jsonschema.Schema
		want   string
	}{
		{
			name: "document keywords dropped",
			schema: &jsonschema.Schema{
				Version: jsonschema.Version,
				ID:      "https://example.com/node",
				Type:    "string",
			},
			want: `{"type":"string"}`,
		},
		{
			name: "ref replaced by its definition",
			schema: &jsonschema.Schema{
				ID:          "https://example.com/node",
				Ref:         "#/$defs/leaf",
				Definitions: jsonschema.Definitions{"leaf": {Type: "string"}},
			},
			want: `{"type":"string"}`,
		},
		{
			name: "ref with siblings",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: properties("name", &jsonschema.Schema{
					Ref:         "#/$defs/leaf",
					Description: "the name",
				}),
				Definitions: jsonschema.Definitions{"leaf": {Type: "string"}},
			},
			want: `{"type":"object","properties":{"name":{"description":"the name","allOf":[{"type":"string"}]}}}`,
		},
		{
			name: "enum values untouched",
			schema: &jsonschema.Schema{
				Ref:         "#/$defs/leaf",
				Enum:        []any{map[string]any{"$ref": "#/$defs/leaf"}},
				Definitions: jsonschema.Definitions{"leaf": {Type: "object"}},
			},
			want: `{"enum":[{"$ref":"#/$defs/leaf"}],"allOf":[{"type":"object"}]}`,
		},
		{
			name:   "foreign refs kept",
			schema: &jsonschema.Schema{Ref: "https://example.com/other.json"},
			want:   `{"$ref":"https://example.com/other.json"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := toNode(tt.schema)
			require.NoError(t, err)
			data, err := node.MarshalJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func properties(name string, schema *jsonschema.Schema) *orderedmap.OrderedMap[string, *jsonschema.Schema] {
	props := orderedmap.New[string, *jsonschema.Schema]()
	props.Set(name, schema)
	return props
}
