// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// AdditionalPropertiesModule registers additionalProperties resolvers.
type AdditionalPropertiesModule struct {
	types  func(*typemodel.TypeScope) (AdditionalProperties, bool)
	member func(*typemodel.MemberScope) (AdditionalProperties, bool)
}

// AdditionalPropertiesModuleForMapValues describes map values through
// additionalProperties. Maps of the top type leave the keyword out.
func AdditionalPropertiesModuleForMapValues() Module {
	return &AdditionalPropertiesModule{
		types: func(s *typemodel.TypeScope) (AdditionalProperties, bool) {
			ctx := s.Context()
			if !ctx.IsMap(s.Type()) {
				return AdditionalProperties{}, false
			}
			_, value, err := ctx.MapTypes(s.Type())
			if err != nil || value == nil {
				return AdditionalProperties{Type: ctx.Top()}, true
			}
			return AdditionalProperties{Type: value}, true
		},
		member: func(m *typemodel.MemberScope) (AdditionalProperties, bool) {
			ctx := m.Context()
			if !ctx.IsMap(m.Type()) {
				return AdditionalProperties{}, false
			}
			_, value, err := ctx.MapTypes(m.Type())
			if err != nil || value == nil || value.IsTop() {
				return AdditionalProperties{}, false
			}
			return AdditionalProperties{Member: m.AsItem(value)}, true
		},
	}
}

// AdditionalPropertiesModuleForbidden forbids undeclared properties on all
// types but containers.
func AdditionalPropertiesModuleForbidden() Module {
	return &AdditionalPropertiesModule{
		types: func(s *typemodel.TypeScope) (AdditionalProperties, bool) {
			if s.IsContainer() {
				return AdditionalProperties{}, false
			}
			return AdditionalProperties{Forbidden: true}, true
		},
	}
}

func (m *AdditionalPropertiesModule) Apply(b *ConfigBuilder) {
	if m.types != nil {
		b.ForTypesInGeneral().WithAdditionalPropertiesResolver(m.types)
	}
	if m.member != nil {
		b.ForFields().WithAdditionalPropertiesResolver(m.member)
		b.ForMethods().WithAdditionalPropertiesResolver(m.member)
	}
}

// InlineSchemaModule inlines every schema. Recursive types cannot be
// inlined and fail with a CircularDefinitionError.
type InlineSchemaModule struct{}

func (m InlineSchemaModule) Apply(b *ConfigBuilder) {
	b.ForTypesInGeneral().WithCustomDefinitionProvider(m)
}

func (m InlineSchemaModule) ProvideCustomDefinition(t *typemodel.ResolvedType, ctx *GenerationContext) (*CustomDefinition, error) {
	if ctx.TypeContext().IsContainer(t) {
		// containers are inlined anyway, their items go through this provider
		return nil, nil
	}
	definition, err := ctx.CreateStandardDefinition(t, m)
	if err != nil {
		return nil, err
	}
	return NewInlineDefinition(definition), nil
}
