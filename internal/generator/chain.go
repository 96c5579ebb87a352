// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"encoding/json"
	"slices"
)

// ScopeMode controls for which member scopes a registration is consulted.
type ScopeMode int

const (
	// AllScopes registrations apply to members and to their container
	// items. Item scopes see the metadata of the member they belong to.
	AllScopes ScopeMode = iota
	// MemberOnly registrations opt out of the container item fallback.
	MemberOnly
	// ContainerItemsOnly registrations apply to container items only and
	// take precedence over AllScopes registrations.
	ContainerItemsOnly
)

type entry[S, T any] struct {
	fn   func(S) (T, bool)
	mode ScopeMode
}

// chain is an ordered list of resolvers for one attribute. The first
// resolver reporting ok wins.
type chain[S, T any] struct {
	entries []entry[S, T]
}

func (c *chain[S, T]) add(fn func(S) (T, bool), mode ScopeMode) {
	c.entries = append(c.entries, entry[S, T]{fn: fn, mode: mode})
}

// addCheck registers a boolean check. Checks only report ok when they hold,
// so resolving a chain of checks OR-combines them.
func (c *chain[S, T]) addCheck(check func(S) bool, mode ScopeMode, value T) {
	c.add(func(s S) (T, bool) {
		if check(s) {
			return value, true
		}
		var zero T
		return zero, false
	}, mode)
}

func (c chain[S, T]) resolve(s S, item bool) (T, bool) {
	if item {
		for _, e := range c.entries {
			if e.mode != ContainerItemsOnly {
				continue
			}
			if v, ok := e.fn(s); ok {
				return v, true
			}
		}
	}
	for _, e := range c.entries {
		if e.mode == ContainerItemsOnly || (item && e.mode == MemberOnly) {
			continue
		}
		if v, ok := e.fn(s); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (c chain[S, T]) clone() chain[S, T] {
	return chain[S, T]{entries: slices.Clone(c.entries)}
}

// attributes holds the resolver chains shared by the type and member parts.
type attributes[S any] struct {
	title, description   chain[S, string]
	defaultValue         chain[S, any]
	enum                 chain[S, []any]
	additionalProperties chain[S, AdditionalProperties]
	patternProperties    chain[S, []PatternProperty]
	minLength, maxLength chain[S, int]
	format, pattern      chain[S, string]
	minimum, maximum     chain[S, json.Number]
	exclusiveMinimum     chain[S, json.Number]
	exclusiveMaximum     chain[S, json.Number]
	multipleOf           chain[S, json.Number]
	minItems, maxItems   chain[S, int]
	uniqueItems          chain[S, bool]
}

func (a *attributes[S]) clone() *attributes[S] {
	return &attributes[S]{
		title:                a.title.clone(),
		description:          a.description.clone(),
		defaultValue:         a.defaultValue.clone(),
		enum:                 a.enum.clone(),
		additionalProperties: a.additionalProperties.clone(),
		patternProperties:    a.patternProperties.clone(),
		minLength:            a.minLength.clone(),
		maxLength:            a.maxLength.clone(),
		format:               a.format.clone(),
		pattern:              a.pattern.clone(),
		minimum:              a.minimum.clone(),
		maximum:              a.maximum.clone(),
		exclusiveMinimum:     a.exclusiveMinimum.clone(),
		exclusiveMaximum:     a.exclusiveMaximum.clone(),
		multipleOf:           a.multipleOf.clone(),
		minItems:             a.minItems.clone(),
		maxItems:             a.maxItems.clone(),
		uniqueItems:          a.uniqueItems.clone(),
	}
}

// AttributePart registers attribute resolvers for scopes of type S.
type AttributePart[S any] struct {
	attrs *attributes[S]
	mode  ScopeMode
}

func (p *AttributePart[S]) WithTitleResolver(fn func(S) (string, bool)) *AttributePart[S] {
	p.attrs.title.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithDescriptionResolver(fn func(S) (string, bool)) *AttributePart[S] {
	p.attrs.description.add(fn, p.mode)
	return p
}

// WithDefaultResolver registers a resolver for the "default" value. Values
// are converted to JSON the way encoding/json would.
func (p *AttributePart[S]) WithDefaultResolver(fn func(S) (any, bool)) *AttributePart[S] {
	p.attrs.defaultValue.add(fn, p.mode)
	return p
}

// WithEnumResolver registers a resolver for the allowed values. A single
// value is written as "const" unless EnumKeywordForSingleValues is enabled.
func (p *AttributePart[S]) WithEnumResolver(fn func(S) ([]any, bool)) *AttributePart[S] {
	p.attrs.enum.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithAdditionalPropertiesResolver(fn func(S) (AdditionalProperties, bool)) *AttributePart[S] {
	p.attrs.additionalProperties.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithPatternPropertiesResolver(fn func(S) ([]PatternProperty, bool)) *AttributePart[S] {
	p.attrs.patternProperties.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithStringMinLengthResolver(fn func(S) (int, bool)) *AttributePart[S] {
	p.attrs.minLength.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithStringMaxLengthResolver(fn func(S) (int, bool)) *AttributePart[S] {
	p.attrs.maxLength.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithStringFormatResolver(fn func(S) (string, bool)) *AttributePart[S] {
	p.attrs.format.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithStringPatternResolver(fn func(S) (string, bool)) *AttributePart[S] {
	p.attrs.pattern.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithNumberInclusiveMinimumResolver(fn func(S) (json.Number, bool)) *AttributePart[S] {
	p.attrs.minimum.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithNumberExclusiveMinimumResolver(fn func(S) (json.Number, bool)) *AttributePart[S] {
	p.attrs.exclusiveMinimum.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithNumberInclusiveMaximumResolver(fn func(S) (json.Number, bool)) *AttributePart[S] {
	p.attrs.maximum.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithNumberExclusiveMaximumResolver(fn func(S) (json.Number, bool)) *AttributePart[S] {
	p.attrs.exclusiveMaximum.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithNumberMultipleOfResolver(fn func(S) (json.Number, bool)) *AttributePart[S] {
	p.attrs.multipleOf.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithArrayMinItemsResolver(fn func(S) (int, bool)) *AttributePart[S] {
	p.attrs.minItems.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithArrayMaxItemsResolver(fn func(S) (int, bool)) *AttributePart[S] {
	p.attrs.maxItems.add(fn, p.mode)
	return p
}

func (p *AttributePart[S]) WithArrayUniqueItemsResolver(fn func(S) (bool, bool)) *AttributePart[S] {
	p.attrs.uniqueItems.add(fn, p.mode)
	return p
}
