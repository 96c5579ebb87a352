// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package typemodel is an arena-style description of a program's data types.
//
// Declarations are registered once in a Universe, either by hand or through
// one of the builders in the subpackages. A Context resolves type references
// against the universe into canonical, interned ResolvedType values and
// exposes the structural facts the schema generator needs: supertypes,
// container element types, map key and value types, and member scopes.
package typemodel

import (
	"reflect"
	"strings"
)

// Kind classifies a declaration.
type Kind int

const (
	// KindBasic is a scalar such as string, bool or a numeric type, or a
	// named type whose underlying type is one.
	KindBasic Kind = iota
	// KindStruct is a type with fields and methods.
	KindStruct
	// KindInterface is an abstract type without fields.
	KindInterface
	// KindCollection is an ordered collection with a single element type.
	KindCollection
	// KindMap is a key-value mapping.
	KindMap
	// KindTop is the type every other type is assignable to.
	KindTop
	// KindVoid is the result type of a method without results.
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindCollection:
		return "collection"
	case KindMap:
		return "map"
	case KindTop:
		return "top"
	case KindVoid:
		return "void"
	default:
		return "unknown"
	}
}

// TypeParam is a generic type parameter of a declaration.
type TypeParam struct {
	Name  string
	Bound *TypeRef
}

// Constant is a named value of a declaration, as declared for enumerations.
type Constant struct {
	Name  string
	Value any
	Doc   string
}

// Decl is a single type declaration.
type Decl struct {
	// Name is the fully qualified name and must be unique within a universe.
	Name string
	// Simple is the unqualified display name. Defaults to the last segment of Name.
	Simple string
	Kind   Kind
	// Underlying names the basic type a KindBasic declaration is built on.
	Underlying string
	Params     []TypeParam
	Supertypes []TypeRef
	// Element is the element type of a KindCollection declaration.
	Element *TypeRef
	// Key and Value describe a KindMap declaration.
	Key, Value *TypeRef
	Fields     []*Field
	Methods    []*Method
	Constants  []Constant
	Doc        string
	// Runtime is the reflect.Type the declaration was built from, if any.
	Runtime reflect.Type
}

// IsEnum reports whether the declaration enumerates constant values.
func (d *Decl) IsEnum() bool { return len(d.Constants) > 0 }

// Package returns the import path part of the qualified name.
func (d *Decl) Package() string {
	base := d.Name
	if i := strings.IndexByte(base, '['); i >= 0 {
		base = base[:i]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return ""
}

func (d *Decl) simpleName() string {
	if d.Simple != "" {
		return d.Simple
	}
	name := d.Name
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Field is a data member of a declaration.
type Field struct {
	Name      string
	Type      TypeRef
	Tag       reflect.StructTag
	Doc       string
	Exported  bool
	Static    bool
	Final     bool
	Transient bool
	// Value holds the constant value of a static final field.
	Value    any
	HasValue bool
}

// Method is a behavioural member of a declaration.
type Method struct {
	Name   string
	Params []TypeRef
	// Result is nil for methods without a result.
	Result   *TypeRef
	Tag      reflect.StructTag
	Doc      string
	Exported bool
	Static   bool
}

// RefKind distinguishes the forms of a TypeRef.
type RefKind int

const (
	RefNamed RefKind = iota
	RefParam
	RefWildcard
	RefSlice
	RefMap
)

// TypeRef is an unresolved reference to a type, as written in a declaration.
type TypeRef struct {
	Kind RefKind
	// Name is the declaration name for RefNamed and the parameter name for RefParam.
	Name string
	Args []TypeRef
	// Elem is the element of a RefSlice or the upper bound of a RefWildcard.
	Elem       *TypeRef
	Key, Value *TypeRef
	// Pointer marks a reference declared through a pointer. It does not take
	// part in type identity.
	Pointer bool
}

// Named references a declaration, optionally with type arguments.
func Named(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: RefNamed, Name: name, Args: args}
}

// Param references a type parameter of the enclosing declaration.
func Param(name string) TypeRef {
	return TypeRef{Kind: RefParam, Name: name}
}

// Wildcard references an unknown type with an optional upper bound.
func Wildcard(upper *TypeRef) TypeRef {
	return TypeRef{Kind: RefWildcard, Elem: upper}
}

// SliceOf references a slice of elem.
func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefSlice, Elem: &elem}
}

// MapOf references a map from key to value.
func MapOf(key, value TypeRef) TypeRef {
	return TypeRef{Kind: RefMap, Key: &key, Value: &value}
}

// PointerTo marks ref as declared through a pointer.
func PointerTo(ref TypeRef) TypeRef {
	ref.Pointer = true
	return ref
}

// Ptr returns a pointer to ref, for use in optional declaration slots.
func Ptr(ref TypeRef) *TypeRef { return &ref }

func (r TypeRef) String() string {
	var sb strings.Builder
	if r.Pointer {
		sb.WriteByte('*')
	}
	switch r.Kind {
	case RefNamed:
		sb.WriteString(r.Name)
		if len(r.Args) > 0 {
			sb.WriteByte('[')
			for i, a := range r.Args {
				if i > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(a.String())
			}
			sb.WriteByte(']')
		}
	case RefParam:
		sb.WriteString(r.Name)
	case RefWildcard:
		sb.WriteByte('?')
		if r.Elem != nil {
			sb.WriteString(" extends ")
			sb.WriteString(r.Elem.String())
		}
	case RefSlice:
		sb.WriteString("[]")
		sb.WriteString(r.Elem.String())
	case RefMap:
		sb.WriteString("map[")
		sb.WriteString(r.Key.String())
		sb.WriteByte(']')
		sb.WriteString(r.Value.String())
	}
	return sb.String()
}
