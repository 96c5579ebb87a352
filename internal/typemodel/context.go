// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typemodel

import (
	"fmt"
	"slices"
)

// Context resolves type references against a universe and interns the
// results. A Context is not safe for concurrent use.
type Context struct {
	universe     *Universe
	interned     map[string]*ResolvedType
	supertypes   map[*ResolvedType][]*ResolvedType
	members      map[*ResolvedType]*memberSet
	deriveFields bool
}

type memberSet struct {
	fields, staticFields   []*MemberScope
	methods, staticMethods []*MemberScope
}

// Option configures a Context.
type Option func(*Context)

// WithDerivedFields makes argument-free methods use field-like property
// names: "GetName" becomes "name" and other methods get a "()" suffix.
func WithDerivedFields(on bool) Option {
	return func(c *Context) { c.deriveFields = on }
}

// NewContext creates a resolution context over u.
func NewContext(u *Universe, opts ...Option) *Context {
	c := &Context{
		universe:   u,
		interned:   make(map[string]*ResolvedType),
		supertypes: make(map[*ResolvedType][]*ResolvedType),
		members:    make(map[*ResolvedType]*memberSet),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Universe returns the declarations the context resolves against.
func (c *Context) Universe() *Universe { return c.universe }

// Top returns the top type.
func (c *Context) Top() *ResolvedType {
	t, _ := c.ResolveName(Any)
	return t
}

// VoidType returns the result type of methods without results.
func (c *Context) VoidType() *ResolvedType {
	t, _ := c.ResolveName(Void)
	return t
}

// ResolveName resolves the declaration name with the given type arguments.
func (c *Context) ResolveName(name string, args ...*ResolvedType) (*ResolvedType, error) {
	d, ok := c.universe.Lookup(name)
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	if len(args) == 0 && len(d.Params) > 0 {
		return c.resolveRaw(d, nil)
	}
	if len(args) != len(d.Params) {
		return nil, fmt.Errorf("type %s expects %d type arguments, got %d", name, len(d.Params), len(args))
	}
	return c.intern(&ResolvedType{decl: d, args: args}), nil
}

// Slice returns the slice type of elem.
func (c *Context) Slice(elem *ResolvedType) *ResolvedType {
	return c.intern(&ResolvedType{elem: elem})
}

// Map returns the map type from key to value.
func (c *Context) Map(key, value *ResolvedType) *ResolvedType {
	return c.intern(&ResolvedType{key: key, value: value})
}

func (c *Context) intern(t *ResolvedType) *ResolvedType {
	switch {
	case t.elem != nil:
		t.id = "[]" + t.elem.id
	case t.key != nil:
		t.id = "map[" + t.key.id + "]" + t.value.id
	default:
		t.id = namedID(t.decl, t.args)
	}
	if existing, ok := c.interned[t.id]; ok {
		return existing
	}
	c.interned[t.id] = t
	return t
}

// Resolve turns ref into a resolved type. Type parameters are bound by
// scope, the resolved type whose declaration encloses the reference.
func (c *Context) Resolve(ref TypeRef, scope *ResolvedType) (*ResolvedType, error) {
	return c.resolve(ref, scope, nil)
}

func (c *Context) resolve(ref TypeRef, scope *ResolvedType, rawParams []string) (*ResolvedType, error) {
	switch ref.Kind {
	case RefNamed:
		d, ok := c.universe.Lookup(ref.Name)
		if !ok {
			return nil, &UnknownTypeError{Name: ref.Name}
		}
		if len(ref.Args) == 0 {
			if len(d.Params) > 0 {
				return c.resolveRaw(d, rawParams)
			}
			return c.intern(&ResolvedType{decl: d}), nil
		}
		if len(ref.Args) != len(d.Params) {
			return nil, fmt.Errorf("type %s expects %d type arguments, got %d", d.Name, len(d.Params), len(ref.Args))
		}
		args := make([]*ResolvedType, len(ref.Args))
		for i, a := range ref.Args {
			resolved, err := c.resolve(a, scope, rawParams)
			if err != nil {
				return nil, err
			}
			args[i] = resolved
		}
		return c.intern(&ResolvedType{decl: d, args: args}), nil
	case RefParam:
		if slices.Contains(rawParams, ref.Name) {
			// self-referencing bound, e.g. T extends Comparable[T]
			return c.Top(), nil
		}
		return c.resolveParam(ref.Name, scope)
	case RefWildcard:
		if ref.Elem == nil {
			return c.Top(), nil
		}
		return c.resolve(*ref.Elem, scope, rawParams)
	case RefSlice:
		elem, err := c.resolve(*ref.Elem, scope, rawParams)
		if err != nil {
			return nil, err
		}
		return c.Slice(elem), nil
	case RefMap:
		key, err := c.resolve(*ref.Key, scope, rawParams)
		if err != nil {
			return nil, err
		}
		value, err := c.resolve(*ref.Value, scope, rawParams)
		if err != nil {
			return nil, err
		}
		return c.Map(key, value), nil
	}
	return nil, fmt.Errorf("unsupported type reference kind %d", ref.Kind)
}

func (c *Context) resolveParam(name string, scope *ResolvedType) (*ResolvedType, error) {
	if scope != nil && scope.decl != nil {
		for i, p := range scope.decl.Params {
			if p.Name != name {
				continue
			}
			if i < len(scope.args) {
				return scope.args[i], nil
			}
			if p.Bound != nil {
				return c.resolve(*p.Bound, nil, []string{name})
			}
			break
		}
	}
	context := ""
	if scope != nil {
		context = scope.FullDescription()
	}
	return nil, &UnresolvedTypeVariableError{Variable: name, Context: context}
}

// resolveRaw binds every type parameter of d to its declared bound.
func (c *Context) resolveRaw(d *Decl, rawParams []string) (*ResolvedType, error) {
	names := make([]string, 0, len(rawParams)+len(d.Params))
	names = append(names, rawParams...)
	for _, p := range d.Params {
		names = append(names, p.Name)
	}
	args := make([]*ResolvedType, len(d.Params))
	for i, p := range d.Params {
		if p.Bound == nil {
			return nil, &UnresolvedTypeVariableError{Variable: p.Name, Context: d.Name}
		}
		bound, err := c.resolve(*p.Bound, nil, names)
		if err != nil {
			return nil, err
		}
		args[i] = bound
	}
	return c.intern(&ResolvedType{decl: d, args: args}), nil
}

// Supertypes returns the direct supertypes of t.
func (c *Context) Supertypes(t *ResolvedType) ([]*ResolvedType, error) {
	if cached, ok := c.supertypes[t]; ok {
		return cached, nil
	}
	if t.decl == nil {
		return nil, nil
	}
	out := make([]*ResolvedType, 0, len(t.decl.Supertypes))
	for _, ref := range t.decl.Supertypes {
		s, err := c.Resolve(ref, t)
		if err != nil {
			return nil, fmt.Errorf("supertype of %s: %w", t.FullDescription(), err)
		}
		out = append(out, s)
	}
	c.supertypes[t] = out
	return out, nil
}

// Hierarchy returns t followed by all of its transitive supertypes in
// breadth-first order, without duplicates.
func (c *Context) Hierarchy(t *ResolvedType) ([]*ResolvedType, error) {
	seen := map[*ResolvedType]bool{t: true}
	out := []*ResolvedType{t}
	for i := 0; i < len(out); i++ {
		supers, err := c.Supertypes(out[i])
		if err != nil {
			return nil, err
		}
		for _, s := range supers {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out, nil
}

// IsContainer reports whether t is an array-like collection, either directly
// or through one of its supertypes. Maps are not containers.
func (c *Context) IsContainer(t *ResolvedType) bool {
	item, err := c.ContainerItemType(t)
	return err == nil && item != nil
}

// ContainerItemType returns the element type of a container, nil otherwise.
func (c *Context) ContainerItemType(t *ResolvedType) (*ResolvedType, error) {
	hierarchy, err := c.Hierarchy(t)
	if err != nil {
		return nil, err
	}
	for _, h := range hierarchy {
		if h.elem != nil {
			return h.elem, nil
		}
		if h.decl != nil && h.decl.Kind == KindCollection && h.decl.Element != nil {
			return c.Resolve(*h.decl.Element, h)
		}
	}
	return nil, nil
}

// IsMap reports whether t is a key-value mapping.
func (c *Context) IsMap(t *ResolvedType) bool {
	k, _, err := c.MapTypes(t)
	return err == nil && k != nil
}

// MapTypes returns the key and value types of a map, nils otherwise.
func (c *Context) MapTypes(t *ResolvedType) (*ResolvedType, *ResolvedType, error) {
	hierarchy, err := c.Hierarchy(t)
	if err != nil {
		return nil, nil, err
	}
	for _, h := range hierarchy {
		if h.key != nil {
			return h.key, h.value, nil
		}
		if h.decl != nil && h.decl.Kind == KindMap && h.decl.Key != nil && h.decl.Value != nil {
			k, err := c.Resolve(*h.decl.Key, h)
			if err != nil {
				return nil, nil, err
			}
			v, err := c.Resolve(*h.decl.Value, h)
			if err != nil {
				return nil, nil, err
			}
			return k, v, nil
		}
	}
	return nil, nil, nil
}

// TypeParameterFor returns the index-th type argument that t binds for the
// declaration named declName, looking through supertypes. It returns nil if
// declName is not part of the hierarchy and the top type when the argument
// is not bound.
func (c *Context) TypeParameterFor(t *ResolvedType, declName string, index int) *ResolvedType {
	hierarchy, err := c.Hierarchy(t)
	if err != nil {
		return nil
	}
	for _, h := range hierarchy {
		if !h.Is(declName) {
			continue
		}
		if index < len(h.args) {
			return h.args[index]
		}
		return c.Top()
	}
	return nil
}

// IsAssignableTo reports whether t is target or has it as a supertype.
func (c *Context) IsAssignableTo(t, target *ResolvedType) bool {
	hierarchy, err := c.Hierarchy(t)
	if err != nil {
		return false
	}
	return slices.Contains(hierarchy, target)
}
