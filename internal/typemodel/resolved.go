// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typemodel

import "strings"

// ResolvedType is the canonical identity of a concrete type. Values are
// interned per Context: two resolved types are identical iff their pointers
// are equal.
type ResolvedType struct {
	id    string
	decl  *Decl
	args  []*ResolvedType
	elem  *ResolvedType
	key   *ResolvedType
	value *ResolvedType
}

// ID returns the canonical identifier.
func (t *ResolvedType) ID() string { return t.id }

// Decl returns the declaration of a named type, nil for slices and maps.
func (t *ResolvedType) Decl() *Decl { return t.decl }

// Args returns the bound type arguments.
func (t *ResolvedType) Args() []*ResolvedType { return t.args }

// Name returns the declaration name, or "" for slice and map literals.
func (t *ResolvedType) Name() string {
	if t.decl == nil {
		return ""
	}
	return t.decl.Name
}

// Is reports whether t is a named type declared as name, regardless of arguments.
func (t *ResolvedType) Is(name string) bool { return t.decl != nil && t.decl.Name == name }

// IsSlice reports whether t is a slice literal.
func (t *ResolvedType) IsSlice() bool { return t.elem != nil }

// IsMapLiteral reports whether t is a map literal.
func (t *ResolvedType) IsMapLiteral() bool { return t.key != nil }

// Elem returns the element type of a slice literal.
func (t *ResolvedType) Elem() *ResolvedType { return t.elem }

// IsTop reports whether t is the top type.
func (t *ResolvedType) IsTop() bool { return t.decl != nil && t.decl.Kind == KindTop }

// IsVoid reports whether t is the void type.
func (t *ResolvedType) IsVoid() bool { return t.decl != nil && t.decl.Kind == KindVoid }

// Kind returns the declaration kind. Slices are collections and map
// literals are maps.
func (t *ResolvedType) Kind() Kind {
	switch {
	case t.elem != nil:
		return KindCollection
	case t.key != nil:
		return KindMap
	default:
		return t.decl.Kind
	}
}

// IsEnum reports whether t is a declaration with enumerated constants.
func (t *ResolvedType) IsEnum() bool { return t.decl != nil && t.decl.IsEnum() }

// SimpleDescription renders t with unqualified names, e.g. "Page[Item]".
func (t *ResolvedType) SimpleDescription() string {
	return t.describe(func(d *Decl) string { return d.simpleName() })
}

// FullDescription renders t with qualified names.
func (t *ResolvedType) FullDescription() string {
	return t.describe(func(d *Decl) string { return d.Name })
}

func (t *ResolvedType) String() string { return t.FullDescription() }

func (t *ResolvedType) describe(name func(*Decl) string) string {
	var sb strings.Builder
	t.writeDescription(&sb, name)
	return sb.String()
}

func (t *ResolvedType) writeDescription(sb *strings.Builder, name func(*Decl) string) {
	switch {
	case t.elem != nil:
		sb.WriteString("[]")
		t.elem.writeDescription(sb, name)
	case t.key != nil:
		sb.WriteString("map[")
		t.key.writeDescription(sb, name)
		sb.WriteByte(']')
		t.value.writeDescription(sb, name)
	default:
		base := name(t.decl)
		sb.WriteString(base)
		if len(t.args) > 0 && !strings.Contains(base, "[") {
			sb.WriteByte('[')
			for i, a := range t.args {
				if i > 0 {
					sb.WriteByte(',')
				}
				a.writeDescription(sb, name)
			}
			sb.WriteByte(']')
		}
	}
}

func namedID(d *Decl, args []*ResolvedType) string {
	if len(args) == 0 {
		return d.Name
	}
	ids := make([]string, len(args))
	for i, a := range args {
		ids[i] = a.id
	}
	return d.Name + "[" + strings.Join(ids, ",") + "]"
}
