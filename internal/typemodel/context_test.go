// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typemodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUniverse(t *testing.T) *Universe {
	t.Helper()
	u := NewUniverse()
	require.NoError(t, u.Add(
		&Decl{Name: "example.com/m.Item", Kind: KindStruct, Fields: []*Field{
			{Name: "ID", Type: Named("string"), Exported: true},
		}},
		&Decl{
			Name:   "example.com/m.Page",
			Kind:   KindStruct,
			Params: []TypeParam{{Name: "T"}},
			Fields: []*Field{
				{Name: "Items", Type: SliceOf(Param("T")), Exported: true},
				{Name: "Total", Type: Named("int"), Exported: true},
			},
		},
		&Decl{
			Name:   "example.com/m.Bounded",
			Kind:   KindStruct,
			Params: []TypeParam{{Name: "N", Bound: Ptr(Named("float64"))}},
			Fields: []*Field{{Name: "Value", Type: Param("N"), Exported: true}},
		},
		&Decl{
			Name:       "example.com/m.Base",
			Kind:       KindStruct,
			Params:     []TypeParam{{Name: "K"}},
			Fields:     []*Field{{Name: "Key", Type: Param("K"), Exported: true}, {Name: "Name", Type: Named("string"), Exported: true}},
			Supertypes: nil,
		},
		&Decl{
			Name:       "example.com/m.Derived",
			Kind:       KindStruct,
			Supertypes: []TypeRef{Named("example.com/m.Base", Named("int64"))},
			Fields:     []*Field{{Name: "Name", Type: Named("string"), Exported: true}},
			Methods: []*Method{
				{Name: "GetName", Result: Ptr(Named("string")), Exported: true},
				{Name: "IsReady", Result: Ptr(Named("bool")), Exported: true},
				{Name: "Compute", Params: []TypeRef{Named("int")}, Result: Ptr(Named("string")), Exported: true},
				{Name: "Reset", Exported: true},
			},
		},
		&Decl{
			Name:    "example.com/m.Items",
			Kind:    KindCollection,
			Element: Ptr(Named("example.com/m.Item")),
		},
		&Decl{
			Name:  "example.com/m.Labels",
			Kind:  KindMap,
			Key:   Ptr(Named("string")),
			Value: Ptr(Named("string")),
		},
	))
	return u
}

func TestResolve_Interning(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	ref := Named("example.com/m.Page", Named("example.com/m.Item"))

	a, err := ctx.Resolve(ref, nil)
	require.NoError(t, err)
	b, err := ctx.Resolve(ref, nil)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, "example.com/m.Page[example.com/m.Item]", a.ID())
	assert.Equal(t, "Page[Item]", a.SimpleDescription())
}

func TestResolve_SubstitutesTypeParameters(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	page, err := ctx.Resolve(Named("example.com/m.Page", Named("example.com/m.Item")), nil)
	require.NoError(t, err)

	fields, err := ctx.Fields(page)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "[]Item", fields[0].Type().SimpleDescription())
	assert.True(t, fields[0].IsContainer())
	assert.Equal(t, "Item", fields[0].ContainerItemType().SimpleDescription())
}

func TestResolve_UnboundTypeVariable(t *testing.T) {
	ctx := NewContext(testUniverse(t))

	_, err := ctx.Resolve(Named("example.com/m.Page"), nil)
	var unresolved *UnresolvedTypeVariableError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "T", unresolved.Variable)

	_, err = ctx.Resolve(Param("X"), nil)
	require.True(t, errors.As(err, &unresolved))
}

func TestResolve_RawTypeUsesBound(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	raw, err := ctx.Resolve(Named("example.com/m.Bounded"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Bounded[float64]", raw.SimpleDescription())
}

func TestResolve_Wildcards(t *testing.T) {
	ctx := NewContext(testUniverse(t))

	unbounded, err := ctx.Resolve(Wildcard(nil), nil)
	require.NoError(t, err)
	assert.True(t, unbounded.IsTop())

	bounded, err := ctx.Resolve(SliceOf(Wildcard(Ptr(Named("example.com/m.Item")))), nil)
	require.NoError(t, err)
	assert.Equal(t, "[]Item", bounded.SimpleDescription())
}

func TestResolve_UnknownType(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	_, err := ctx.Resolve(Named("example.com/m.Missing"), nil)
	var unknown *UnknownTypeError
	require.True(t, errors.As(err, &unknown))
}

func TestContainerClassification(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	tests := []struct {
		name      string
		ref       TypeRef
		container bool
		isMap     bool
	}{
		{"slice", SliceOf(Named("string")), true, false},
		{"named collection", Named("example.com/m.Items"), true, false},
		{"map literal", MapOf(Named("string"), Named("int")), false, true},
		{"named map", Named("example.com/m.Labels"), false, true},
		{"struct", Named("example.com/m.Item"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := ctx.Resolve(tt.ref, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.container, ctx.IsContainer(rt))
			assert.Equal(t, tt.isMap, ctx.IsMap(rt))
		})
	}

	items, err := ctx.ResolveName("example.com/m.Items")
	require.NoError(t, err)
	elem, err := ctx.ContainerItemType(items)
	require.NoError(t, err)
	assert.Equal(t, "example.com/m.Item", elem.ID())
}

func TestHierarchyAndTypeParameterFor(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	derived, err := ctx.ResolveName("example.com/m.Derived")
	require.NoError(t, err)

	hierarchy, err := ctx.Hierarchy(derived)
	require.NoError(t, err)
	require.Len(t, hierarchy, 2)
	assert.Equal(t, "Base[int64]", hierarchy[1].SimpleDescription())

	assert.Equal(t, "int64", ctx.TypeParameterFor(derived, "example.com/m.Base", 0).ID())
	assert.Nil(t, ctx.TypeParameterFor(derived, "example.com/m.Page", 0))
	assert.True(t, ctx.IsAssignableTo(derived, hierarchy[1]))
}

func TestMembers_OwnFirstThenSupertypes(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	derived, err := ctx.ResolveName("example.com/m.Derived")
	require.NoError(t, err)

	fields, err := ctx.Fields(derived)
	require.NoError(t, err)
	var names []string
	for _, f := range fields {
		names = append(names, f.Path())
	}
	assert.Equal(t, []string{"Derived.Name", "Base[int64].Key", "Base[int64].Name"}, names)
	assert.Equal(t, "int64", fields[1].Type().ID())
}

func TestMatchingAccessorOrField(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	derived, err := ctx.ResolveName("example.com/m.Derived")
	require.NoError(t, err)

	fields, err := ctx.Fields(derived)
	require.NoError(t, err)
	methods, err := ctx.Methods(derived)
	require.NoError(t, err)

	getter := fields[0].MatchingAccessorOrField()
	require.NotNil(t, getter)
	assert.Equal(t, "GetName", getter.DeclaredName())

	assert.True(t, methods[0].IsGetter())
	assert.Equal(t, "Name", methods[0].MatchingAccessorOrField().DeclaredName())
	assert.False(t, methods[1].IsGetter(), "IsReady has no matching field")
	assert.False(t, methods[2].IsGetter())
	assert.True(t, methods[3].IsVoid())
}

func TestPropertyName(t *testing.T) {
	for _, derive := range []bool{false, true} {
		ctx := NewContext(testUniverse(t), WithDerivedFields(derive))
		derived, err := ctx.ResolveName("example.com/m.Derived")
		require.NoError(t, err)
		methods, err := ctx.Methods(derived)
		require.NoError(t, err)

		var names []string
		for _, m := range methods {
			names = append(names, m.PropertyName())
		}
		if derive {
			assert.Equal(t, []string{"name", "ready", "Compute(int)", "Reset()"}, names)
		} else {
			assert.Equal(t, []string{"GetName()", "IsReady()", "Compute(int)", "Reset()"}, names)
		}
	}
}

func TestMemberScope_ContainerItem(t *testing.T) {
	ctx := NewContext(testUniverse(t))
	page, err := ctx.Resolve(Named("example.com/m.Page", Named("example.com/m.Item")), nil)
	require.NoError(t, err)
	fields, err := ctx.Fields(page)
	require.NoError(t, err)

	item := fields[0].AsContainerItem()
	assert.True(t, item.IsContainerItem())
	assert.Equal(t, "example.com/m.Item", item.Type().ID())
	assert.False(t, item.Equal(fields[0]))
	assert.True(t, item.Equal(fields[0].AsContainerItem()))

	plain := fields[1].AsContainerItem()
	assert.False(t, plain.IsContainerItem())
}
