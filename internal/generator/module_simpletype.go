// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

type fixedSchema struct {
	// empty schemas accept any value
	empty  bool
	typ    keyword.SchemaType
	format string
}

// SimpleTypeModule gives declarations a fixed schema holding only their
// type, e.g. {"type":"string"}. Named types built on a basic type share the
// schema of their underlying type unless they enumerate constants.
type SimpleTypeModule struct {
	fixed map[string]fixedSchema
	// byteStrings describes []byte as a base64 string
	byteStrings bool
}

// SimpleTypeModuleForBasicTypes covers the Go basic types and the top type.
func SimpleTypeModuleForBasicTypes() Module {
	m := &SimpleTypeModule{fixed: make(map[string]fixedSchema)}
	m.WithEmptySchema(typemodel.Any)
	m.WithStringType("string", "")
	m.WithBooleanType("bool")
	for _, name := range []string{"int8", "int16", "int32", "uint8", "uint16"} {
		m.WithIntegerType(name, "int32")
	}
	for _, name := range []string{"int", "int64", "uint", "uint32", "uint64", "uintptr"} {
		m.WithIntegerType(name, "int64")
	}
	m.WithNumberType("float32", "float")
	m.WithNumberType("float64", "double")
	return m
}

// SimpleTypeModuleWithAdditionalTypes also covers common standard library
// types with a well-known JSON encoding.
func SimpleTypeModuleWithAdditionalTypes() Module {
	m := SimpleTypeModuleForBasicTypes().(*SimpleTypeModule)
	m.WithStringType("time.Time", "date-time")
	m.WithIntegerType("time.Duration", "int64")
	m.WithStringType("net/url.URL", "uri")
	m.WithStringType("net/netip.Addr", "")
	m.WithStringType("github.com/google/uuid.UUID", "uuid")
	m.WithIntegerType("math/big.Int", "")
	m.WithNumberType("math/big.Float", "")
	m.WithNumberType("math/big.Rat", "")
	m.WithNumberType("encoding/json.Number", "")
	m.WithEmptySchema("encoding/json.RawMessage")
	m.byteStrings = true
	return m
}

func (m *SimpleTypeModule) WithEmptySchema(name string) *SimpleTypeModule {
	m.fixed[name] = fixedSchema{empty: true}
	return m
}

func (m *SimpleTypeModule) WithStringType(name, format string) *SimpleTypeModule {
	m.fixed[name] = fixedSchema{typ: keyword.TypeString, format: format}
	return m
}

func (m *SimpleTypeModule) WithBooleanType(name string) *SimpleTypeModule {
	m.fixed[name] = fixedSchema{typ: keyword.TypeBoolean}
	return m
}

func (m *SimpleTypeModule) WithIntegerType(name, format string) *SimpleTypeModule {
	m.fixed[name] = fixedSchema{typ: keyword.TypeInteger, format: format}
	return m
}

func (m *SimpleTypeModule) WithNumberType(name, format string) *SimpleTypeModule {
	m.fixed[name] = fixedSchema{typ: keyword.TypeNumber, format: format}
	return m
}

func (m *SimpleTypeModule) lookup(t *typemodel.ResolvedType) (fixedSchema, bool) {
	if t.IsSlice() {
		if m.byteStrings && t.Elem().Is("uint8") {
			return fixedSchema{typ: keyword.TypeString, format: "byte"}, true
		}
		return fixedSchema{}, false
	}
	d := t.Decl()
	if d == nil || len(t.Args()) > 0 {
		return fixedSchema{}, false
	}
	if f, ok := m.fixed[d.Name]; ok {
		return f, true
	}
	if d.Kind == typemodel.KindBasic && !d.IsEnum() && d.Underlying != d.Name {
		f, ok := m.fixed[d.Underlying]
		return f, ok
	}
	return fixedSchema{}, false
}

func (m *SimpleTypeModule) Apply(b *ConfigBuilder) {
	nonNullable := func(member *typemodel.MemberScope) (bool, bool) {
		d := member.Type().Decl()
		if d != nil && d.Kind == typemodel.KindBasic && !member.IsPointer() {
			return false, true
		}
		return false, false
	}
	b.ForFields().WithNullableResolver(nonNullable)
	b.ForMethods().WithNullableResolver(nonNullable)
	b.ForTypesInGeneral().
		WithCustomDefinitionProvider(m).
		WithAdditionalPropertiesResolver(func(s *typemodel.TypeScope) (AdditionalProperties, bool) {
			// the empty schema leaves additionalProperties out
			f, ok := m.lookup(s.Type())
			return AdditionalProperties{}, ok && f.empty
		}).
		WithPatternPropertiesResolver(func(s *typemodel.TypeScope) ([]PatternProperty, bool) {
			f, ok := m.lookup(s.Type())
			return nil, ok && f.empty
		})
}

// ProvideCustomDefinition returns the fixed schema as an inline definition.
func (m *SimpleTypeModule) ProvideCustomDefinition(t *typemodel.ResolvedType, ctx *GenerationContext) (*CustomDefinition, error) {
	f, ok := m.lookup(t)
	if !ok {
		return nil, nil
	}
	node := jsonnode.NewObject()
	if !f.empty {
		node.Set(ctx.Keyword(keyword.Type), jsonnode.String(f.typ.String()))
	}
	if f.format != "" && ctx.Config().Enabled(ExtraOpenAPIFormatValues) {
		node.Set(ctx.Keyword(keyword.Format), jsonnode.String(f.format))
	}
	return NewInlineDefinition(node), nil
}

// basicSchemaType maps a Go basic type name to its JSON type.
func basicSchemaType(name string) (keyword.SchemaType, bool) {
	switch name {
	case "bool":
		return keyword.TypeBoolean, true
	case "string":
		return keyword.TypeString, true
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr":
		return keyword.TypeInteger, true
	case "float32", "float64":
		return keyword.TypeNumber, true
	}
	return 0, false
}
