// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package cleanup simplifies generated schemas after all definitions are in
// place. Every pass works in place, never fails, and leaves node shapes it
// does not recognize untouched.
package cleanup

import (
	"slices"

	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
)

// Cleaner runs clean-up passes for one dialect.
type Cleaner struct {
	dialect        keyword.Dialect
	alwaysWrapNull bool
	mergers        map[keyword.Keyword]mergeFunc
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithNullAsAnyOf makes nullable schemas always use an anyOf wrapper with a
// null branch instead of extending the "type" keyword.
func WithNullAsAnyOf(on bool) Option {
	return func(c *Cleaner) { c.alwaysWrapNull = on }
}

// New creates a Cleaner for the dialect.
func New(d keyword.Dialect, opts ...Option) *Cleaner {
	c := &Cleaner{dialect: d}
	for _, opt := range opts {
		opt(c)
	}
	c.mergers = c.prepareMergers()
	return c
}

func (c *Cleaner) kw(k keyword.Keyword) string { return k.For(c.dialect) }

// ReduceAllOf merges allOf parts into their parent wherever the parts do not
// conflict with each other or the parent.
func (c *Cleaner) ReduceAllOf(schemas []*jsonnode.Node) {
	allOf := c.kw(keyword.AllOf)
	reverse := keyword.ReverseTagMap(c.dialect, nil)
	c.finalise(schemas, func(n *jsonnode.Node) { c.mergeAllOfParts(n, allOf, reverse) })
}

// ReduceAnyOf lifts the entries of nested anyOf wrappers into their parent
// anyOf.
func (c *Cleaner) ReduceAnyOf(schemas []*jsonnode.Node) {
	anyOf := c.kw(keyword.AnyOf)
	c.finalise(schemas, func(n *jsonnode.Node) { reduceAnyOfWrappers(n, anyOf) })
}

// ReduceRedundantMemberAttributes drops member attributes that repeat the
// same value on the referenced definition. defs holds the named definitions
// and prefix is prepended to their names to form a $ref value.
func (c *Cleaner) ReduceRedundantMemberAttributes(schemas []*jsonnode.Node, defs *jsonnode.Node, prefix string) {
	definitions := make(map[string]*jsonnode.Node)
	for name, def := range defs.Fields() {
		definitions[prefix+name] = def
	}
	properties := c.kw(keyword.Properties)
	ref := c.kw(keyword.Ref)
	c.finalise(schemas, func(n *jsonnode.Node) {
		members := n.Get(properties)
		if !members.IsObject() {
			return
		}
		for _, member := range members.Fields() {
			target := member.Get(ref)
			if target == nil || !member.IsObject() {
				continue
			}
			if def, ok := definitions[target.Text()]; ok {
				c.reduceRedundantAttributes(member, def)
			}
		}
	})
}

func (c *Cleaner) reduceRedundantAttributes(member, def *jsonnode.Node) {
	skipped := map[string]bool{}
	conditionals := []string{c.kw(keyword.If), c.kw(keyword.Then), c.kw(keyword.Else)}
	for _, k := range conditionals {
		if !member.Get(k).Equal(def.Get(k)) || member.Has(k) != def.Has(k) {
			for _, s := range conditionals {
				skipped[s] = true
			}
			break
		}
	}
	for _, k := range member.Keys() {
		if skipped[k] || !def.Has(k) {
			continue
		}
		if member.Get(k).Equal(def.Get(k)) {
			member.Remove(k)
		}
	}
}

// SetStrictTypeInfo adds a "type" keyword to every schema that lacks one but
// carries keywords implying particular types. With considerNull, null is
// accepted as well.
func (c *Cleaner) SetStrictTypeInfo(schemas []*jsonnode.Node, considerNull bool) {
	typeTag := c.kw(keyword.Type)
	reverse := keyword.ReverseTagMap(c.dialect, func(k keyword.Keyword) bool { return len(k.ImpliedTypes()) > 0 })
	c.finalise(schemas, func(n *jsonnode.Node) {
		implied := impliedTypes(n, typeTag, reverse)
		if len(implied) == 0 {
			return
		}
		if considerNull && !c.alwaysWrapNull {
			implied = append(implied, keyword.TypeNull.String())
		}
		if len(implied) == 1 {
			n.Set(typeTag, jsonnode.String(implied[0]))
		} else {
			n.Set(typeTag, jsonnode.Strings(implied...))
		}
		if considerNull && c.alwaysWrapNull {
			c.MakeNullable(n)
		}
	})
}

func impliedTypes(n *jsonnode.Node, typeTag string, reverse map[string]keyword.Keyword) []string {
	if n.Has(typeTag) {
		return nil
	}
	var types []keyword.SchemaType
	for tag, k := range reverse {
		if !n.Has(tag) {
			continue
		}
		for _, t := range k.ImpliedTypes() {
			if !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
	}
	slices.Sort(types)
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

// MakeNullable allows null in addition to what n already accepts. Schemas
// built from references, compositions or fixed values are wrapped in an
// anyOf with a null branch; simple typed schemas get "null" added to their
// "type". A schema without "type" already accepts null and is left alone.
func (c *Cleaner) MakeNullable(n *jsonnode.Node) *jsonnode.Node {
	return MakeNullable(n, c.alwaysWrapNull)
}

// MakeNullable is Cleaner.MakeNullable for callers without a Cleaner.
func MakeNullable(n *jsonnode.Node, alwaysAnyOf bool) *jsonnode.Node {
	null := keyword.TypeNull.String()
	typeTag := keyword.Type.String()
	wrap := alwaysAnyOf && n.Has(typeTag) && !typeContains(n.Get(typeTag), null)
	for _, k := range []keyword.Keyword{keyword.Ref, keyword.AllOf, keyword.AnyOf, keyword.OneOf, keyword.Const, keyword.Enum} {
		if n.Has(k.String()) {
			wrap = true
			break
		}
	}
	if wrap {
		nullSchema := jsonnode.NewObject().Set(typeTag, jsonnode.String(null))
		inner := jsonnode.NewObject().SetAll(n)
		n.RemoveAll()
		n.Set(keyword.AnyOf.String(), jsonnode.NewArray(nullSchema, inner))
		return n
	}
	current := n.Get(typeTag)
	switch {
	case current.IsArray():
		if !typeContains(current, null) {
			types := append(slices.Clone(current.Items()), jsonnode.String(null))
			n.Set(typeTag, jsonnode.NewArray(types...))
		}
	case current.IsString() && current.Text() != null:
		n.Set(typeTag, jsonnode.NewArray(jsonnode.String(current.Text()), jsonnode.String(null)))
	}
	return n
}

func typeContains(t *jsonnode.Node, name string) bool {
	if t.IsString() {
		return t.Text() == name
	}
	return t.ContainsItem(jsonnode.String(name))
}

func (c *Cleaner) tagsSupporting(content keyword.Content) []string {
	reverse := keyword.ReverseTagMap(c.dialect, func(k keyword.Keyword) bool { return k.Supports(content) })
	tags := make([]string, 0, len(reverse))
	for tag := range reverse {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// finalise applies fn to every object schema reachable from schemas,
// breadth-first. Subschemas are collected after fn ran on their parent.
func (c *Cleaner) finalise(schemas []*jsonnode.Node, fn func(*jsonnode.Node)) {
	withSchema := c.tagsSupporting(keyword.ContentSchema)
	withArray := c.tagsSupporting(keyword.ContentSchemaArray)
	withNamed := c.tagsSupporting(keyword.ContentNamedSchemas)

	next := slices.Clone(schemas)
	for len(next) > 0 {
		current := next
		next = nil
		add := func(n *jsonnode.Node) {
			if n.IsObject() {
				next = append(next, n)
			}
		}
		for _, n := range current {
			if !n.IsObject() {
				continue
			}
			fn(n)
			for _, tag := range withSchema {
				add(n.Get(tag))
			}
			for _, tag := range withArray {
				for _, item := range n.Get(tag).Items() {
					add(item)
				}
			}
			for _, tag := range withNamed {
				if named := n.Get(tag); named.IsObject() {
					for _, v := range named.Fields() {
						add(v)
					}
				}
			}
		}
	}
}

func reduceAnyOfWrappers(n *jsonnode.Node, anyOfTag string) {
	anyOf := n.Get(anyOfTag)
	if !n.IsObject() || !anyOf.IsArray() {
		return
	}
	for _, part := range anyOf.Items() {
		reduceAnyOfWrappers(part, anyOfTag)
	}
	items := anyOf.Items()
	out := make([]*jsonnode.Node, 0, len(items))
	for _, entry := range items {
		nested := entry.Get(anyOfTag)
		if entry.IsObject() && entry.Len() == 1 && nested.IsArray() {
			out = append(out, nested.Items()...)
			continue
		}
		out = append(out, entry)
	}
	anyOf.SetItems(out)
}
