// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// DefinitionType controls where a custom definition is placed.
type DefinitionType int

const (
	// DefinitionStandard custom definitions are shared like generated ones.
	DefinitionStandard DefinitionType = iota
	// DefinitionInline custom definitions are copied into every reference site.
	DefinitionInline
	// DefinitionAlwaysRef custom definitions always get a named definition,
	// even when referenced only once.
	DefinitionAlwaysRef
)

// AttributeInclusion controls whether collected attributes are merged into
// a custom definition.
type AttributeInclusion int

const (
	IncludeAttributes AttributeInclusion = iota
	ExcludeAttributes
)

// CustomDefinition replaces the generated schema of a type or member.
type CustomDefinition struct {
	Value      *jsonnode.Node
	Type       DefinitionType
	Attributes AttributeInclusion
}

// NewCustomDefinition returns a standard custom definition including
// attributes.
func NewCustomDefinition(value *jsonnode.Node) *CustomDefinition {
	return &CustomDefinition{Value: value}
}

// NewInlineDefinition returns an inline custom definition including
// attributes.
func NewInlineDefinition(value *jsonnode.Node) *CustomDefinition {
	return &CustomDefinition{Value: value, Type: DefinitionInline}
}

// IsInline reports whether the definition is copied into each reference site.
func (d *CustomDefinition) IsInline() bool { return d.Type == DefinitionInline }

// IncludesAttributes reports whether collected attributes are merged in.
func (d *CustomDefinition) IncludesAttributes() bool { return d.Attributes == IncludeAttributes }

// CustomDefinitionProvider replaces the schema of whole types. A provider
// returns nil when it has no opinion.
//
// Providers are compared by identity when recursing into the standard
// definition of a type, so implementations must be comparable, typically
// pointers.
type CustomDefinitionProvider interface {
	ProvideCustomDefinition(t *typemodel.ResolvedType, ctx *GenerationContext) (*CustomDefinition, error)
}

// CustomPropertyDefinitionProvider replaces the schema of single members.
// Member definitions are always inline. The same comparability rule as for
// CustomDefinitionProvider applies.
type CustomPropertyDefinitionProvider interface {
	ProvidePropertyDefinition(m *typemodel.MemberScope, ctx *GenerationContext) (*CustomDefinition, error)
}

type typeProviderFunc struct {
	fn func(*typemodel.ResolvedType, *GenerationContext) (*CustomDefinition, error)
}

func (p *typeProviderFunc) ProvideCustomDefinition(t *typemodel.ResolvedType, ctx *GenerationContext) (*CustomDefinition, error) {
	return p.fn(t, ctx)
}

// DefinitionProviderFunc wraps fn in a comparable CustomDefinitionProvider.
func DefinitionProviderFunc(fn func(*typemodel.ResolvedType, *GenerationContext) (*CustomDefinition, error)) CustomDefinitionProvider {
	return &typeProviderFunc{fn: fn}
}

type memberProviderFunc struct {
	fn func(*typemodel.MemberScope, *GenerationContext) (*CustomDefinition, error)
}

func (p *memberProviderFunc) ProvidePropertyDefinition(m *typemodel.MemberScope, ctx *GenerationContext) (*CustomDefinition, error) {
	return p.fn(m, ctx)
}

// PropertyDefinitionProviderFunc wraps fn in a comparable
// CustomPropertyDefinitionProvider.
func PropertyDefinitionProviderFunc(fn func(*typemodel.MemberScope, *GenerationContext) (*CustomDefinition, error)) CustomPropertyDefinitionProvider {
	return &memberProviderFunc{fn: fn}
}

// Resetter is implemented by stateful providers and resolvers that keep
// per-run state. Reset is called after every generation run, including
// failed ones.
type Resetter interface {
	Reset()
}

// DefinitionKey identifies a definition: a type, and optionally the custom
// definition provider that was skipped while building it.
type DefinitionKey struct {
	Type    *typemodel.ResolvedType
	Ignored CustomDefinitionProvider
}

func (k DefinitionKey) String() string {
	if k.Ignored == nil {
		return k.Type.FullDescription()
	}
	return k.Type.FullDescription() + " (standard)"
}

// AdditionalProperties is the resolved "additionalProperties" constraint.
// The zero value means "unconstrained" and omits the keyword.
type AdditionalProperties struct {
	// Forbidden writes the literal false.
	Forbidden bool
	// Type writes a reference to the type's schema. The top type is
	// unconstrained.
	Type *typemodel.ResolvedType
	// Member writes the schema of the member scope, e.g. a map value view.
	Member *typemodel.MemberScope
}

// PatternProperty maps a property name pattern to the type of matching values.
type PatternProperty struct {
	Pattern string
	Type    *typemodel.ResolvedType
}

// SubtypeResolver returns the types that may appear in place of t. Returning
// ok with an empty slice means t has no subtypes.
type SubtypeResolver func(t *typemodel.ResolvedType, ctx *GenerationContext) ([]*typemodel.ResolvedType, bool)

// TypeAttributeOverride adjusts the final schema of a type.
type TypeAttributeOverride func(node *jsonnode.Node, scope *typemodel.TypeScope, ctx *GenerationContext)

// InstanceAttributeOverride adjusts the collected attributes of a member.
type InstanceAttributeOverride func(node *jsonnode.Node, member *typemodel.MemberScope, ctx *GenerationContext)

// PropertySorter orders the properties of an object schema.
type PropertySorter func(a, b *typemodel.MemberScope) int
