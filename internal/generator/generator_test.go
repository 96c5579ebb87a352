// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

const (
	itemName   = "example.com/m.Item"
	shapeName  = "example.com/m.Shape"
	colorName  = "example.com/m.Color"
	circleName = "example.com/m.Circle"
	squareName = "example.com/m.Square"
)

func field(name string, ref typemodel.TypeRef) *typemodel.Field {
	return &typemodel.Field{Name: name, Type: ref, Exported: true}
}

func strct(name string, fields ...*typemodel.Field) *typemodel.Decl {
	return &typemodel.Decl{Name: name, Kind: typemodel.KindStruct, Fields: fields}
}

func testUniverse(t *testing.T) *typemodel.Universe {
	t.Helper()
	item := typemodel.Named(itemName)
	str := typemodel.Named("string")
	u := typemodel.NewUniverse()
	require.NoError(t, u.Add(
		strct(itemName, field("Name", str)),
		strct("example.com/m.Order", field("First", item), field("Second", item), field("Note", str)),
		strct("example.com/m.Wrapper", field("Only", item)),
		strct("example.com/m.Holder", field("Only", typemodel.PointerTo(item))),
		strct("example.com/m.Mixed", field("A", item), field("B", typemodel.PointerTo(item))),
		strct("example.com/m.Node",
			field("Value", str),
			field("Next", typemodel.PointerTo(typemodel.Named("example.com/m.Node"))),
			field("Children", typemodel.SliceOf(typemodel.Named("example.com/m.Node"))),
		),
		&typemodel.Decl{Name: "example.com/m.Labels", Kind: typemodel.KindMap, Key: typemodel.Ptr(str), Value: typemodel.Ptr(item)},
		&typemodel.Decl{Name: "example.com/m.Bag", Kind: typemodel.KindMap, Key: typemodel.Ptr(str), Value: typemodel.Ptr(typemodel.Named(typemodel.Any))},
		&typemodel.Decl{Name: shapeName, Kind: typemodel.KindInterface},
		strct(circleName, field("Radius", typemodel.Named("float64"))),
		strct(squareName, field("Side", typemodel.Named("float64"))),
		strct("example.com/m.Drawing", field("Main", typemodel.Named(shapeName))),
		&typemodel.Decl{Name: colorName, Kind: typemodel.KindBasic, Underlying: "string", Constants: []typemodel.Constant{
			{Name: "Red", Value: "red"},
			{Name: "Green", Value: "green"},
		}},
		strct("example.com/m.Palette", field("Primary", typemodel.Named(colorName)), field("Secondary", typemodel.Named(colorName))),
		&typemodel.Decl{Name: "example.com/m.Mode", Kind: typemodel.KindBasic, Underlying: "string", Constants: []typemodel.Constant{
			{Name: "Only", Value: "only"},
		}},
		strct("example.com/m.Settings", field("Mode", typemodel.Named("example.com/m.Mode"))),
		strct("example.com/m.Release",
			&typemodel.Field{Name: "Version", Type: str, Exported: true, Static: true, Final: true, Value: "v1", HasValue: true},
			field("Name", str),
		),
		strct("example.com/a.Item", field("Name", str)),
		strct("example.com/b.Item", field("Code", typemodel.Named("int"))),
		strct("example.com/m.Both",
			field("A1", typemodel.Named("example.com/a.Item")),
			field("A2", typemodel.Named("example.com/a.Item")),
			field("B1", typemodel.Named("example.com/b.Item")),
			field("B2", typemodel.Named("example.com/b.Item")),
		),
		&typemodel.Decl{
			Name: "example.com/m.Report",
			Kind: typemodel.KindStruct,
			Fields: []*typemodel.Field{
				field("Zed", str),
				field("Alpha", str),
			},
			Methods: []*typemodel.Method{
				{Name: "Compute", Result: typemodel.Ptr(str), Exported: true},
			},
		},
	))
	return u
}

// testConfig starts from instance fields only, so that each case enables
// exactly what it exercises.
func testConfig(opts ...Option) *ConfigBuilder {
	return NewConfigBuilder(keyword.Draft2020_12, NewPreset("test", PublicNonStaticFields)).With(opts...)
}

func generate(t *testing.T, b *ConfigBuilder, names ...string) (*jsonnode.Node, error) {
	t.Helper()
	return New(b.Build(), testUniverse(t)).GenerateNamed(names...)
}

func assertJSON(t *testing.T, want string, got *jsonnode.Node) {
	t.Helper()
	data, err := got.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, want, string(data))
}

const itemSchema = `{"type":"object","properties":{"Name":{"type":"string"}}}`

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		builder *ConfigBuilder
		types   []string
		want    string
	}{
		{
			name:    "shared definition",
			builder: testConfig(),
			types:   []string{"example.com/m.Order"},
			want: `{
				"$defs":{"Item":` + itemSchema + `},
				"type":"object",
				"properties":{
					"First":{"$ref":"#/$defs/Item"},
					"Note":{"type":"string"},
					"Second":{"$ref":"#/$defs/Item"}
				}
			}`,
		},
		{
			name:    "single reference is inlined",
			builder: testConfig(),
			types:   []string{"example.com/m.Wrapper"},
			want:    `{"type":"object","properties":{"Only":` + itemSchema + `}}`,
		},
		{
			name:    "definitions for all objects",
			builder: testConfig(DefinitionsForAllObjects),
			types:   []string{"example.com/m.Wrapper"},
			want:    `{"$defs":{"Item":` + itemSchema + `},"type":"object","properties":{"Only":{"$ref":"#/$defs/Item"}}}`,
		},
		{
			name:    "definition for main schema",
			builder: testConfig(DefinitionForMainSchema),
			types:   []string{"example.com/m.Order"},
			want: `{
				"$ref":"#/$defs/Order",
				"$defs":{
					"Item":` + itemSchema + `,
					"Order":{
						"type":"object",
						"properties":{
							"First":{"$ref":"#/$defs/Item"},
							"Note":{"type":"string"},
							"Second":{"$ref":"#/$defs/Item"}
						}
					}
				}
			}`,
		},
		{
			name:    "extra roots are always defined",
			builder: testConfig(),
			types:   []string{"example.com/m.Wrapper", itemName},
			want:    `{"$defs":{"Item":` + itemSchema + `},"type":"object","properties":{"Only":{"$ref":"#/$defs/Item"}}}`,
		},
		{
			name:    "recursion references the main schema",
			builder: testConfig(),
			types:   []string{"example.com/m.Node"},
			want: `{
				"type":"object",
				"properties":{
					"Children":{"type":"array","items":{"$ref":"#"}},
					"Next":{"$ref":"#"},
					"Value":{"type":"string"}
				}
			}`,
		},
		{
			name:    "legacy dialect",
			builder: NewConfigBuilder(keyword.Draft7, NewPreset("test", PublicNonStaticFields)),
			types:   []string{"example.com/m.Order"},
			want: `{
				"definitions":{"Item":` + itemSchema + `},
				"type":"object",
				"properties":{
					"First":{"$ref":"#/definitions/Item"},
					"Note":{"type":"string"},
					"Second":{"$ref":"#/definitions/Item"}
				}
			}`,
		},
		{
			name:    "schema version indicator",
			builder: testConfig(SchemaVersionIndicator),
			types:   []string{"example.com/m.Wrapper"},
			want:    `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"object","properties":{"Only":` + itemSchema + `}}`,
		},
		{
			name:    "nullable references share a nullable definition",
			builder: testConfig(NullableFieldsByDefault),
			types:   []string{"example.com/m.Order"},
			want: `{
				"$defs":{"Item-nullable":{"type":["object","null"],"properties":{"Name":{"type":"string"}}}},
				"type":"object",
				"properties":{
					"First":{"$ref":"#/$defs/Item-nullable"},
					"Note":{"type":"string"},
					"Second":{"$ref":"#/$defs/Item-nullable"}
				}
			}`,
		},
		{
			name:    "single nullable reference is inlined",
			builder: testConfig(FlattenedPointers),
			types:   []string{"example.com/m.Holder"},
			want:    `{"type":"object","properties":{"Only":{"type":["object","null"],"properties":{"Name":{"type":"string"}}}}}`,
		},
		{
			name:    "nullable reference next to a plain one",
			builder: testConfig(FlattenedPointers),
			types:   []string{"example.com/m.Mixed"},
			want: `{
				"$defs":{"Item":` + itemSchema + `},
				"type":"object",
				"properties":{
					"A":{"$ref":"#/$defs/Item"},
					"B":{"anyOf":[{"type":"null"},{"$ref":"#/$defs/Item"}]}
				}
			}`,
		},
		{
			name:    "forbidden additional properties",
			builder: testConfig(ForbiddenAdditionalPropertiesByDefault),
			types:   []string{"example.com/m.Wrapper"},
			want: `{
				"type":"object",
				"properties":{"Only":{"type":"object","properties":{"Name":{"type":"string"}},"additionalProperties":false}},
				"additionalProperties":false
			}`,
		},
		{
			name:    "map values as additional properties",
			builder: testConfig(MapValuesAsAdditionalProperties),
			types:   []string{"example.com/m.Labels"},
			want:    `{"type":"object","additionalProperties":` + itemSchema + `}`,
		},
		{
			name:    "map of any leaves additional properties open",
			builder: testConfig(MapValuesAsAdditionalProperties),
			types:   []string{"example.com/m.Bag"},
			want:    `{"type":"object"}`,
		},
		{
			name:    "flattened enums",
			builder: testConfig(FlattenedEnums),
			types:   []string{"example.com/m.Palette"},
			want: `{
				"$defs":{"Color":{"type":"string","enum":["Red","Green"]}},
				"type":"object",
				"properties":{"Primary":{"$ref":"#/$defs/Color"},"Secondary":{"$ref":"#/$defs/Color"}}
			}`,
		},
		{
			name:    "enums from constant values",
			builder: testConfig(FlattenedEnumsFromConstantValues),
			types:   []string{"example.com/m.Palette"},
			want: `{
				"$defs":{"Color":{"type":"string","enum":["red","green"]}},
				"type":"object",
				"properties":{"Primary":{"$ref":"#/$defs/Color"},"Secondary":{"$ref":"#/$defs/Color"}}
			}`,
		},
		{
			name:    "single enum value as const",
			builder: testConfig(FlattenedEnumsFromConstantValues),
			types:   []string{"example.com/m.Settings"},
			want:    `{"type":"object","properties":{"Mode":{"type":"string","const":"only"}}}`,
		},
		{
			name:    "single enum value with enum keyword",
			builder: testConfig(FlattenedEnumsFromConstantValues, EnumKeywordForSingleValues),
			types:   []string{"example.com/m.Settings"},
			want:    `{"type":"object","properties":{"Mode":{"type":"string","enum":["only"]}}}`,
		},
		{
			name:    "constant field values",
			builder: testConfig(PublicStaticFields, ValuesFromConstantFields),
			types:   []string{"example.com/m.Release"},
			want:    `{"type":"object","properties":{"Name":{"type":"string"},"Version":{"type":"string","const":"v1"}}}`,
		},
		{
			name:    "duplicate names",
			builder: testConfig(),
			types:   []string{"example.com/m.Both"},
			want: `{
				"$defs":{
					"Item-1":{"type":"object","properties":{"Name":{"type":"string"}}},
					"Item-2":{"type":"object","properties":{"Code":{"type":"integer"}}}
				},
				"type":"object",
				"properties":{
					"A1":{"$ref":"#/$defs/Item-1"},
					"A2":{"$ref":"#/$defs/Item-1"},
					"B1":{"$ref":"#/$defs/Item-2"},
					"B2":{"$ref":"#/$defs/Item-2"}
				}
			}`,
		},
		{
			name:    "number formats",
			builder: testConfig(ExtraOpenAPIFormatValues),
			types:   []string{circleName},
			want:    `{"type":"object","properties":{"Radius":{"type":"number","format":"double"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generate(t, tt.builder, tt.types...)
			require.NoError(t, err)
			assertJSON(t, tt.want, got)
		})
	}
}

func TestGenerate_NoRoots(t *testing.T) {
	_, err := New(testConfig().Build(), testUniverse(t)).Generate()
	require.Error(t, err)
}

func TestGenerate_UnknownType(t *testing.T) {
	_, err := generate(t, testConfig(), "example.com/m.Missing")
	require.Error(t, err)
}

func TestGenerate_Deterministic(t *testing.T) {
	gen := New(testConfig(NullableFieldsByDefault).Build(), testUniverse(t))
	first, err := gen.GenerateNamed("example.com/m.Both")
	require.NoError(t, err)
	second, err := gen.GenerateNamed("example.com/m.Both")
	require.NoError(t, err)

	a, err := first.MarshalJSON()
	require.NoError(t, err)
	b, err := second.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerate_InlineAllSchemas(t *testing.T) {
	t.Run("plain types", func(t *testing.T) {
		got, err := generate(t, testConfig(InlineAllSchemas), "example.com/m.Order")
		require.NoError(t, err)
		assertJSON(t, `{
			"type":"object",
			"properties":{"First":`+itemSchema+`,"Note":{"type":"string"},"Second":`+itemSchema+`}
		}`, got)
	})

	t.Run("recursive type", func(t *testing.T) {
		_, err := generate(t, testConfig(InlineAllSchemas), "example.com/m.Node")
		var circular *CircularDefinitionError
		require.ErrorAs(t, err, &circular)
		assert.Contains(t, circular.Chain, "Node")
	})
}

func TestGenerate_Subtypes(t *testing.T) {
	subtypes := func(names ...string) Module {
		return ModuleFunc(func(b *ConfigBuilder) {
			b.ForTypesInGeneral().WithSubtypeResolver(func(t *typemodel.ResolvedType, ctx *GenerationContext) ([]*typemodel.ResolvedType, bool) {
				if !t.Is(shapeName) {
					return nil, false
				}
				var resolved []*typemodel.ResolvedType
				for _, name := range names {
					rt, err := ctx.TypeContext().ResolveName(name)
					if err != nil {
						return nil, false
					}
					resolved = append(resolved, rt)
				}
				return resolved, true
			})
		})
	}
	circle := `{"type":"object","properties":{"Radius":{"type":"number"}}}`
	square := `{"type":"object","properties":{"Side":{"type":"number"}}}`

	tests := []struct {
		name     string
		subtypes []string
		opts     []Option
		root     string
		want     string
	}{
		{
			name:     "member",
			subtypes: []string{circleName, squareName},
			root:     "example.com/m.Drawing",
			want:     `{"type":"object","properties":{"Main":{"anyOf":[` + circle + `,` + square + `]}}}`,
		},
		{
			name:     "main type",
			subtypes: []string{circleName, squareName},
			root:     shapeName,
			want:     `{"anyOf":[` + circle + `,` + square + `]}`,
		},
		{
			name: "no subtypes",
			root: shapeName,
			want: `{"type":"object"}`,
		},
		{
			name: "no subtypes on member",
			root: "example.com/m.Drawing",
			want: `{"type":"object","properties":{"Main":{"type":"object"}}}`,
		},
		{
			name:     "single subtype",
			subtypes: []string{circleName},
			root:     shapeName,
			want:     `{"allOf":[` + circle + `]}`,
		},
		{
			name:     "single subtype merged",
			subtypes: []string{circleName},
			opts:     []Option{AllOfCleanupAtTheEnd},
			root:     shapeName,
			want:     circle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generate(t, testConfig(tt.opts...).WithModule(subtypes(tt.subtypes...)), tt.root)
			require.NoError(t, err)
			assertJSON(t, tt.want, got)
		})
	}
}

func TestGenerate_CustomDefinitions(t *testing.T) {
	t.Run("always referenced", func(t *testing.T) {
		provider := DefinitionProviderFunc(func(t *typemodel.ResolvedType, _ *GenerationContext) (*CustomDefinition, error) {
			if !t.Is(itemName) {
				return nil, nil
			}
			return &CustomDefinition{Value: jsonnode.MustParse(`{"type":"object","title":"custom item"}`), Type: DefinitionAlwaysRef}, nil
		})
		b := testConfig().WithModule(ModuleFunc(func(b *ConfigBuilder) {
			b.ForTypesInGeneral().WithCustomDefinitionProvider(provider)
		}))
		got, err := generate(t, b, "example.com/m.Wrapper")
		require.NoError(t, err)
		assertJSON(t, `{
			"$defs":{"Item":{"type":"object","title":"custom item"}},
			"type":"object",
			"properties":{"Only":{"$ref":"#/$defs/Item"}}
		}`, got)
	})

	t.Run("wrapping the standard definition", func(t *testing.T) {
		var provider CustomDefinitionProvider
		provider = DefinitionProviderFunc(func(t *typemodel.ResolvedType, ctx *GenerationContext) (*CustomDefinition, error) {
			if !t.Is(itemName) {
				return nil, nil
			}
			def, err := ctx.CreateStandardDefinition(t, provider)
			if err != nil {
				return nil, err
			}
			def.Set("description", jsonnode.String("an item"))
			return NewCustomDefinition(def), nil
		})
		b := testConfig().WithModule(ModuleFunc(func(b *ConfigBuilder) {
			b.ForTypesInGeneral().WithCustomDefinitionProvider(provider)
		}))
		got, err := generate(t, b, "example.com/m.Wrapper")
		require.NoError(t, err)
		assertJSON(t, `{
			"type":"object",
			"properties":{"Only":{"type":"object","properties":{"Name":{"type":"string"}},"description":"an item"}}
		}`, got)
	})

	t.Run("provider asking for its own type", func(t *testing.T) {
		provider := DefinitionProviderFunc(func(t *typemodel.ResolvedType, ctx *GenerationContext) (*CustomDefinition, error) {
			if !t.Is(itemName) {
				return nil, nil
			}
			def, err := ctx.CreateDefinition(t)
			if err != nil {
				return nil, err
			}
			return NewCustomDefinition(def), nil
		})
		b := testConfig().WithModule(ModuleFunc(func(b *ConfigBuilder) {
			b.ForTypesInGeneral().WithCustomDefinitionProvider(provider)
		}))
		_, err := generate(t, b, "example.com/m.Wrapper")
		var circular *CircularDefinitionError
		require.ErrorAs(t, err, &circular)
		assert.Contains(t, circular.Chain, "Item")
	})

	t.Run("member definition", func(t *testing.T) {
		provider := PropertyDefinitionProviderFunc(func(m *typemodel.MemberScope, _ *GenerationContext) (*CustomDefinition, error) {
			if m.Name() != "Note" {
				return nil, nil
			}
			return NewCustomDefinition(jsonnode.MustParse(`{"type":"string","maxLength":80}`)), nil
		})
		b := testConfig().WithModule(ModuleFunc(func(b *ConfigBuilder) {
			b.ForFields().WithCustomDefinitionProvider(provider)
		}))
		got, err := generate(t, b, "example.com/m.Order")
		require.NoError(t, err)
		assertJSON(t, `{"type":"string","maxLength":80}`, got.Get("properties").Get("Note"))
	})
}

func TestGenerate_MemberAttributes(t *testing.T) {
	describe := func(b *ConfigBuilder) {
		b.ForFields().
			WithDescriptionResolver(func(m *typemodel.MemberScope) (string, bool) {
				switch m.Name() {
				case "Name":
					return "the name", true
				case "Only":
					return "the only item", true
				}
				return "", false
			}).
			WithStringMinLengthResolver(func(m *typemodel.MemberScope) (int, bool) {
				return 1, m.Name() == "Name"
			})
	}

	t.Run("kept next to the type", func(t *testing.T) {
		got, err := generate(t, testConfig().WithModule(ModuleFunc(describe)), "example.com/m.Wrapper")
		require.NoError(t, err)
		assertJSON(t, `{
			"type":"object",
			"properties":{"Only":{"allOf":[
				{"type":"object","properties":{"Name":{"type":"string","description":"the name","minLength":1}}},
				{"description":"the only item"}
			]}}
		}`, got)
	})

	t.Run("merged by the allOf clean-up", func(t *testing.T) {
		got, err := generate(t, testConfig(AllOfCleanupAtTheEnd).WithModule(ModuleFunc(describe)), "example.com/m.Wrapper")
		require.NoError(t, err)
		assertJSON(t, `{
			"type":"object",
			"properties":{"Only":{
				"type":"object",
				"properties":{"Name":{"type":"string","description":"the name","minLength":1}},
				"description":"the only item"
			}}
		}`, got)
	})
}

func TestGenerate_PropertyOrder(t *testing.T) {
	tests := []struct {
		name   string
		sorter PropertySorter
		want   []string
	}{
		{name: "default", want: []string{"Alpha", "Zed", "Compute()"}},
		{name: "declaration order", sorter: DeclarationOrder, want: []string{"Zed", "Alpha", "Compute()"}},
		{name: "by name", sorter: SortPropertiesByName, want: []string{"Alpha", "Compute()", "Zed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testConfig(NonStaticNonVoidNonGetterMethods)
			if tt.sorter != nil {
				b.ForTypesInGeneral().WithPropertySorter(tt.sorter)
			}
			got, err := generate(t, b, "example.com/m.Report")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Get("properties").Keys())
		})
	}
}

func TestGenerate_PathError(t *testing.T) {
	boom := errors.New("boom")
	provider := PropertyDefinitionProviderFunc(func(m *typemodel.MemberScope, _ *GenerationContext) (*CustomDefinition, error) {
		if m.Name() == "Name" && m.DeclaringType().Is(itemName) {
			return nil, boom
		}
		return nil, nil
	})
	b := testConfig().WithModule(ModuleFunc(func(b *ConfigBuilder) {
		b.ForFields().WithCustomDefinitionProvider(provider)
	}))

	_, err := generate(t, b, "example.com/m.Order")
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "Item.Name", pathErr.Path)
	assert.ErrorIs(t, err, boom)
}

type resettingModule struct {
	resets int
	fail   bool
}

func (m *resettingModule) Apply(b *ConfigBuilder) {
	b.ForTypesInGeneral().WithCustomDefinitionProvider(m)
}

func (m *resettingModule) ProvideCustomDefinition(t *typemodel.ResolvedType, _ *GenerationContext) (*CustomDefinition, error) {
	if m.fail {
		return nil, errors.New("failing provider")
	}
	return nil, nil
}

func (m *resettingModule) Reset() { m.resets++ }

func TestGenerate_Reset(t *testing.T) {
	t.Run("once per run", func(t *testing.T) {
		m := &resettingModule{}
		gen := New(testConfig().WithModule(m).Build(), testUniverse(t))
		_, err := gen.GenerateNamed("example.com/m.Order")
		require.NoError(t, err)
		_, err = gen.GenerateNamed("example.com/m.Order")
		require.NoError(t, err)
		assert.Equal(t, 2, m.resets)
	})

	t.Run("after a failed run", func(t *testing.T) {
		m := &resettingModule{fail: true}
		gen := New(testConfig().WithModule(m).Build(), testUniverse(t))
		_, err := gen.GenerateNamed("example.com/m.Order")
		require.Error(t, err)
		assert.Equal(t, 1, m.resets)
	})
}

type noDuplicates struct{ defaultNaming }

func (noDuplicates) AdjustDuplicateNames([]DefinitionKey, string, *GenerationContext) []string { return nil }

type constantNaming struct{ defaultNaming }

func (constantNaming) NameForKey(DefinitionKey, *GenerationContext) string { return "Same" }

func (constantNaming) AdjustDuplicateNames(keys []DefinitionKey, name string, _ *GenerationContext) []string {
	out := make([]string, len(keys))
	for i := range out {
		out[i] = name
	}
	return out
}

func TestGenerate_NamingErrors(t *testing.T) {
	tests := []struct {
		name     string
		strategy DefinitionNamingStrategy
	}{
		{name: "dropped definitions", strategy: noDuplicates{}},
		{name: "duplicate names", strategy: constantNaming{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testConfig()
			b.ForTypesInGeneral().WithDefinitionNamingStrategy(tt.strategy)
			_, err := generate(t, b, "example.com/m.Both")
			var naming *NamingError
			require.ErrorAs(t, err, &naming)
		})
	}
}

func TestMultiTypeBuilder(t *testing.T) {
	gen := New(testConfig().Build(), testUniverse(t))
	order, err := gen.TypeContext().ResolveName("example.com/m.Order")
	require.NoError(t, err)
	wrapper, err := gen.TypeContext().ResolveName("example.com/m.Wrapper")
	require.NoError(t, err)

	multi := gen.ForMultipleTypes()
	orderRef, err := multi.Reference(order)
	require.NoError(t, err)
	wrapperRef, err := multi.Reference(wrapper)
	require.NoError(t, err)
	defs, err := multi.Definitions("components/schemas")
	require.NoError(t, err)

	assertJSON(t, `{"Item":`+itemSchema+`}`, defs)
	assertJSON(t, `{
		"type":"object",
		"properties":{
			"First":{"$ref":"#/components/schemas/Item"},
			"Note":{"type":"string"},
			"Second":{"$ref":"#/components/schemas/Item"}
		}
	}`, orderRef)
	assertJSON(t, `{"type":"object","properties":{"Only":{"$ref":"#/components/schemas/Item"}}}`, wrapperRef)
}
