// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"slices"

	"github.com/dacolabs/schemagen/internal/typemodel"
)

// FieldExclusionModule ignores the fields matching the predicate.
type FieldExclusionModule func(*typemodel.MemberScope) bool

func (m FieldExclusionModule) Apply(b *ConfigBuilder) { b.ForFields().WithIgnoreCheck(m) }

// MethodExclusionModule ignores the methods matching the predicate.
type MethodExclusionModule func(*typemodel.MemberScope) bool

func (m MethodExclusionModule) Apply(b *ConfigBuilder) { b.ForMethods().WithIgnoreCheck(m) }

func isPublicNonStaticField(f *typemodel.MemberScope) bool {
	return f.IsExported() && !f.IsStatic()
}

func isHiddenFieldWithGetter(f *typemodel.MemberScope) bool {
	return !f.IsExported() && !f.IsStatic() && f.MatchingAccessorOrField() != nil
}

func isHiddenFieldWithoutGetter(f *typemodel.MemberScope) bool {
	return !f.IsExported() && !f.IsStatic() && f.MatchingAccessorOrField() == nil
}

func isTransientField(f *typemodel.MemberScope) bool { return f.IsTransient() }

func isVoidMethod(m *typemodel.MemberScope) bool { return m.IsVoid() }

func isGetterMethod(m *typemodel.MemberScope) bool { return m.IsGetter() }

func isOtherMethod(m *typemodel.MemberScope) bool {
	return !m.IsStatic() && !m.IsVoid() && !m.IsGetter()
}

// ConstantValueModule describes static final fields holding a constant by
// that single value. A nil constant makes the field nullable.
type ConstantValueModule struct{}

func (ConstantValueModule) Apply(b *ConfigBuilder) {
	fields := b.ForFields()
	fields.WithEnumResolver(func(f *typemodel.MemberScope) ([]any, bool) {
		v, ok := constantValue(f)
		return []any{v}, ok
	})
	fields.WithNullableResolver(func(f *typemodel.MemberScope) (bool, bool) {
		v, ok := constantValue(f)
		return v == nil, ok
	})
}

func constantValue(f *typemodel.MemberScope) (any, bool) {
	field := f.Field()
	if field == nil || !field.Static || !field.Final || !field.HasValue || f.IsContainerItem() {
		return nil, false
	}
	return field.Value, true
}

// DefaultOptionalWrappers are the generic wrappers flattened by the
// FlattenedOptionals option.
var DefaultOptionalWrappers = []string{"database/sql.Null"}

// FlattenedWrapperModule replaces generic wrapper types by their first type
// argument and marks members declared with them as nullable.
type FlattenedWrapperModule struct {
	wrappers []string
}

// NewFlattenedWrapperModule flattens the named generic declarations.
func NewFlattenedWrapperModule(names ...string) Module {
	return &FlattenedWrapperModule{wrappers: slices.Clone(names)}
}

func (m *FlattenedWrapperModule) wrapper(t *typemodel.ResolvedType) (string, bool) {
	if t == nil || t.Decl() == nil || len(t.Args()) == 0 {
		return "", false
	}
	name := t.Decl().Name
	return name, slices.Contains(m.wrappers, name)
}

// declaresWrapper looks at the declared type, which is not affected by the
// type override this module registers.
func (m *FlattenedWrapperModule) declaresWrapper(member *typemodel.MemberScope) bool {
	declared := member.DeclaredType()
	if member.IsContainerItem() && member.Context().IsContainer(declared) {
		declared, _ = member.Context().ContainerItemType(declared)
	}
	_, ok := m.wrapper(declared)
	return ok
}

func (m *FlattenedWrapperModule) Apply(b *ConfigBuilder) {
	unwrap := func(member *typemodel.MemberScope) ([]*typemodel.ResolvedType, bool) {
		name, ok := m.wrapper(member.Type())
		if !ok {
			return nil, false
		}
		return []*typemodel.ResolvedType{member.TypeParameterFor(name, 0)}, true
	}
	nullable := func(member *typemodel.MemberScope) (bool, bool) {
		return true, m.declaresWrapper(member)
	}
	for _, part := range []*MemberPart{b.ForFields(), b.ForMethods()} {
		part.WithTargetTypeOverridesResolver(unwrap)
		part.WithNullableResolver(nullable)
	}
}

// FlattenedPointerModule makes members declared through a pointer nullable.
// Items of a slice of pointers are nullable as well, which takes effect
// with NullableArrayItemsAllowed.
type FlattenedPointerModule struct{}

func (FlattenedPointerModule) Apply(b *ConfigBuilder) {
	nullable := func(member *typemodel.MemberScope) (bool, bool) {
		if member.IsContainerItem() {
			return true, itemIsPointer(member)
		}
		return true, member.IsPointer()
	}
	b.ForFields().WithNullableResolver(nullable)
	b.ForMethods().WithNullableResolver(nullable)
}

func itemIsPointer(member *typemodel.MemberScope) bool {
	var ref *typemodel.TypeRef
	switch {
	case member.Field() != nil:
		ref = &member.Field().Type
	case member.Method() != nil:
		ref = member.Method().Result
	}
	return ref != nil && ref.Kind == typemodel.RefSlice && ref.Elem.Pointer
}

// SingleValueAsArrayModule lets container members also accept a single item.
type SingleValueAsArrayModule struct{}

func (SingleValueAsArrayModule) Apply(b *ConfigBuilder) {
	both := func(member *typemodel.MemberScope) ([]*typemodel.ResolvedType, bool) {
		if !member.IsContainer() || member.IsContainerItem() {
			return nil, false
		}
		return []*typemodel.ResolvedType{member.ContainerItemType(), member.Type()}, true
	}
	b.ForFields().WithTargetTypeOverridesResolver(both)
	b.ForMethods().WithTargetTypeOverridesResolver(both)
}
