// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"slices"

	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

type enumMode int

const (
	enumAsObjects enumMode = iota
	enumAsNames
	enumAsValues
)

// EnumModule describes declarations that enumerate constants.
type EnumModule struct {
	mode enumMode
}

// EnumModuleAsValues keeps enums as objects. Their String method is the only
// method kept and lists the constant names.
func EnumModuleAsValues() Module { return EnumModule{mode: enumAsObjects} }

// EnumModuleAsNames describes enums as strings holding the constant names.
func EnumModuleAsNames() Module { return EnumModule{mode: enumAsNames} }

// EnumModuleAsConstantValues describes enums by their constant values, typed
// after the underlying basic type.
func EnumModuleAsConstantValues() Module { return EnumModule{mode: enumAsValues} }

func (m EnumModule) Apply(b *ConfigBuilder) {
	if m.mode != enumAsObjects {
		b.ForTypesInGeneral().WithCustomDefinitionProvider(&enumDefinitionProvider{mode: m.mode})
		return
	}
	onEnum := func(method *typemodel.MemberScope) bool {
		d := method.DeclaringType().Decl()
		return d != nil && d.IsEnum()
	}
	b.ForMethods().
		WithIgnoreCheck(func(method *typemodel.MemberScope) bool {
			return onEnum(method) && method.Name() != "String"
		}).
		WithNullableResolver(func(method *typemodel.MemberScope) (bool, bool) {
			return false, onEnum(method)
		}).
		WithEnumResolver(func(method *typemodel.MemberScope) ([]any, bool) {
			if !onEnum(method) {
				return nil, false
			}
			return constantNames(method.DeclaringType().Decl()), true
		})
}

type enumDefinitionProvider struct {
	mode enumMode
}

func (p *enumDefinitionProvider) ProvideCustomDefinition(t *typemodel.ResolvedType, ctx *GenerationContext) (*CustomDefinition, error) {
	d := t.Decl()
	if d == nil || !d.IsEnum() {
		return nil, nil
	}
	node := jsonnode.NewObject()
	typeTag := ctx.Keyword(keyword.Type)
	if p.mode == enumAsNames {
		node.Set(typeTag, jsonnode.String(keyword.TypeString.String()))
		ctx.setEnum(node, constantNames(d))
		return NewCustomDefinition(node), nil
	}
	if st, ok := basicSchemaType(d.Underlying); ok {
		node.Set(typeTag, jsonnode.String(st.String()))
	}
	values := make([]any, 0, len(d.Constants))
	for _, c := range d.Constants {
		values = append(values, c.Value)
	}
	ctx.setEnum(node, distinct(values))
	return NewCustomDefinition(node), nil
}

func constantNames(d *typemodel.Decl) []any {
	names := make([]any, 0, len(d.Constants))
	for _, c := range d.Constants {
		names = append(names, c.Name)
	}
	return distinct(names)
}

func distinct(values []any) []any {
	var out []any
	for _, v := range values {
		if !slices.ContainsFunc(out, func(o any) bool { return isScalar(o) && isScalar(v) && o == v }) {
			out = append(out, v)
		}
	}
	return out
}
