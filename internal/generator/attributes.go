// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"

	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// collectMemberAttributes returns the attributes that describe a member
// rather than its type. Overrides registered for the member's part run last.
func (c *GenerationContext) collectMemberAttributes(m *typemodel.MemberScope) (*jsonnode.Node, error) {
	part := c.config.memberConfig(m)
	item := m.IsContainerItem()
	node := jsonnode.NewObject()
	if err := collectDescriptive(c, node, part.attrs, m, item); err != nil {
		return nil, err
	}
	if c.config.isReadOnly(m) {
		node.Set(c.Keyword(keyword.ReadOnly), jsonnode.Bool(true))
	}
	if c.config.isWriteOnly(m) {
		node.Set(c.Keyword(keyword.WriteOnly), jsonnode.Bool(true))
	}
	if err := collectConstraints(c, node, part.attrs, m, item, nil); err != nil {
		return nil, err
	}
	for _, override := range part.overrides {
		override(node, m, c)
	}
	return node, nil
}

// collectTypeAttributes returns the attributes of a type. Constraints are
// limited to those meaningful for the allowed schema types; no allowed types
// means no limit.
func (c *GenerationContext) collectTypeAttributes(scope *typemodel.TypeScope, allowed []string) (*jsonnode.Node, error) {
	a := c.config.types.attrs
	node := jsonnode.NewObject()
	if id, ok := c.config.types.id.resolve(scope, false); ok {
		node.Set(c.Keyword(keyword.ID), jsonnode.String(id))
	}
	if anchor, ok := c.config.types.anchor.resolve(scope, false); ok {
		node.Set(c.Keyword(keyword.Anchor), jsonnode.String(anchor))
	}
	if err := collectDescriptive(c, node, a, scope, false); err != nil {
		return nil, err
	}
	if err := collectConstraints(c, node, a, scope, false, allowed); err != nil {
		return nil, err
	}
	return node, nil
}

func collectDescriptive[S any](c *GenerationContext, node *jsonnode.Node, a *attributes[S], s S, item bool) error {
	if title, ok := a.title.resolve(s, item); ok {
		node.Set(c.Keyword(keyword.Title), jsonnode.String(title))
	}
	if description, ok := a.description.resolve(s, item); ok {
		node.Set(c.Keyword(keyword.Description), jsonnode.String(description))
	}
	if value, ok := a.defaultValue.resolve(s, item); ok {
		def, err := jsonnode.FromValue(value)
		if err != nil {
			return fmt.Errorf("default value: %w", err)
		}
		node.Set(c.Keyword(keyword.Default), def)
	}
	if values, ok := a.enum.resolve(s, item); ok {
		c.setEnum(node, values)
	}
	return nil
}

func collectConstraints[S any](c *GenerationContext, node *jsonnode.Node, a *attributes[S], s S, item bool, allowed []string) error {
	allows := func(types ...keyword.SchemaType) bool {
		if len(allowed) == 0 {
			return true
		}
		for _, t := range types {
			if slices.Contains(allowed, t.String()) {
				return true
			}
		}
		return false
	}
	if allows(keyword.TypeObject) {
		if ap, ok := a.additionalProperties.resolve(s, item); ok {
			if err := c.setAdditionalProperties(node, ap); err != nil {
				return err
			}
		}
		if patterns, ok := a.patternProperties.resolve(s, item); ok {
			if err := c.setPatternProperties(node, patterns); err != nil {
				return err
			}
		}
	}
	if allows(keyword.TypeString) {
		setInt(c, node, keyword.MinLength, a.minLength, s, item)
		setInt(c, node, keyword.MaxLength, a.maxLength, s, item)
		if format, ok := a.format.resolve(s, item); ok {
			node.Set(c.Keyword(keyword.Format), jsonnode.String(format))
		}
		if pattern, ok := a.pattern.resolve(s, item); ok {
			node.Set(c.Keyword(keyword.Pattern), jsonnode.String(pattern))
		}
	}
	if allows(keyword.TypeInteger, keyword.TypeNumber) {
		setNumber(c, node, keyword.Minimum, a.minimum, s, item)
		setNumber(c, node, keyword.ExclusiveMinimum, a.exclusiveMinimum, s, item)
		setNumber(c, node, keyword.Maximum, a.maximum, s, item)
		setNumber(c, node, keyword.ExclusiveMaximum, a.exclusiveMaximum, s, item)
		setNumber(c, node, keyword.MultipleOf, a.multipleOf, s, item)
	}
	if allows(keyword.TypeArray) {
		setInt(c, node, keyword.MinItems, a.minItems, s, item)
		setInt(c, node, keyword.MaxItems, a.maxItems, s, item)
		if unique, ok := a.uniqueItems.resolve(s, item); ok {
			node.Set(c.Keyword(keyword.UniqueItems), jsonnode.Bool(unique))
		}
	}
	return nil
}

func setInt[S any](c *GenerationContext, node *jsonnode.Node, k keyword.Keyword, ch chain[S, int], s S, item bool) {
	if v, ok := ch.resolve(s, item); ok {
		node.Set(c.Keyword(k), jsonnode.Int(int64(v)))
	}
}

func setNumber[S any](c *GenerationContext, node *jsonnode.Node, k keyword.Keyword, ch chain[S, json.Number], s S, item bool) {
	if v, ok := ch.resolve(s, item); ok && v != "" {
		node.Set(c.Keyword(k), jsonnode.Number(v))
	}
}

// setEnum writes the allowed values. Values that are not scalars are
// dropped. A single value is written as const unless configured otherwise.
func (c *GenerationContext) setEnum(node *jsonnode.Node, values []any) {
	var kept []*jsonnode.Node
	for _, v := range values {
		if !isScalar(v) {
			continue
		}
		n, err := jsonnode.FromValue(v)
		if err != nil {
			continue
		}
		kept = append(kept, n)
	}
	switch {
	case len(kept) == 1 && !c.config.Enabled(EnumKeywordForSingleValues):
		node.Set(c.Keyword(keyword.Const), kept[0])
	case len(kept) > 0:
		node.Set(c.Keyword(keyword.Enum), jsonnode.NewArray(kept...))
	}
}

func isScalar(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(json.Number); ok {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// setAdditionalProperties maps the three-way constraint: forbidden writes
// false, a type or member writes its schema, the zero value and the top
// type write nothing.
func (c *GenerationContext) setAdditionalProperties(node *jsonnode.Node, ap AdditionalProperties) error {
	tag := c.Keyword(keyword.AdditionalProperties)
	switch {
	case ap.Forbidden:
		node.Set(tag, jsonnode.Bool(false))
	case ap.Member != nil:
		schema, err := c.CreateStandardMemberDefinitionReference(ap.Member, nil)
		if err != nil {
			return err
		}
		node.Set(tag, schema)
	case ap.Type != nil && !ap.Type.IsTop():
		schema, err := c.CreateDefinitionReference(ap.Type)
		if err != nil {
			return err
		}
		node.Set(tag, schema)
	}
	return nil
}

func (c *GenerationContext) setPatternProperties(node *jsonnode.Node, patterns []PatternProperty) error {
	if len(patterns) == 0 {
		return nil
	}
	out := jsonnode.NewObject()
	for _, p := range patterns {
		schema, err := c.CreateDefinitionReference(p.Type)
		if err != nil {
			return err
		}
		out.Set(p.Pattern, schema)
	}
	node.Set(c.Keyword(keyword.PatternProperties), out)
	return nil
}

// allowedTypes returns the schema types declared on a definition.
func allowedTypes(definition *jsonnode.Node, typeTag string) []string {
	declared := definition.Get(typeTag)
	if declared.IsString() {
		return []string{declared.Text()}
	}
	var out []string
	for _, t := range declared.Items() {
		out = append(out, t.Text())
	}
	return out
}

// mergeMissing copies the attributes that target does not have yet.
func mergeMissing(target, attrs *jsonnode.Node) {
	for k, v := range attrs.Fields() {
		if !target.Has(k) {
			target.Set(k, v)
		}
	}
}
