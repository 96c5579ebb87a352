// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package validate derives schema constraints from `validate:"..."` struct
// tags as used by go-playground/validator.
//
// Rules before "dive" describe the member itself, rules after it describe
// the items of a slice member:
//
//	Emails []string `validate:"required,min=1,dive,email"`
package validate

import (
	"encoding/json"
	"strings"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/modules/tags"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// Option adjusts the module.
type Option int

const (
	// NotNullableIsRequired lists members with the required rule as
	// required properties.
	NotNullableIsRequired Option = iota
	// IncludePatterns maps regexp-like rules onto the pattern keyword.
	IncludePatterns
)

// Module maps validation rules onto schema keywords.
type Module struct {
	tagKey  string
	options map[Option]bool
}

// New returns the module reading the "validate" tag.
func New(opts ...Option) *Module {
	m := &Module{tagKey: "validate", options: make(map[Option]bool)}
	for _, o := range opts {
		m.options[o] = true
	}
	return m
}

// WithTagKey reads rules from another tag key, e.g. "binding".
func (m *Module) WithTagKey(key string) *Module {
	m.tagKey = key
	return m
}

var formats = map[string]string{
	"email":    "email",
	"url":      "uri",
	"uri":      "uri",
	"http_url": "uri",
	"uuid":     "uuid",
	"uuid4":    "uuid",
	"ip":       "ip",
	"ipv4":     "ipv4",
	"ip4_addr": "ipv4",
	"ipv6":     "ipv6",
	"ip6_addr": "ipv6",
	"hostname": "hostname",
	"fqdn":     "hostname",
	"datetime": "date-time",
}

var patterns = map[string]string{
	"alpha":       "^[a-zA-Z]+$",
	"alphanum":    "^[a-zA-Z0-9]+$",
	"numeric":     "^[-+]?[0-9]+(?:\\.[0-9]+)?$",
	"number":      "^[0-9]+$",
	"lowercase":   "^[^A-Z]*$",
	"uppercase":   "^[^a-z]*$",
	"hexadecimal": "^(0[xX])?[0-9a-fA-F]+$",
}

// rules returns the rules that apply to m.
func (m *Module) rules(member *typemodel.MemberScope) tags.List {
	raw, ok := member.Tag(m.tagKey)
	if !ok {
		return nil
	}
	before, after := tags.Parse(raw).Split("dive")
	if member.IsContainerItem() {
		return after
	}
	return before
}

type target int

const (
	targetNone target = iota
	targetString
	targetNumber
	targetArray
	targetMap
)

func targetOf(member *typemodel.MemberScope) target {
	switch {
	case !member.IsContainerItem() && member.IsContainer():
		return targetArray
	case member.Context().IsMap(member.Type()):
		return targetMap
	}
	switch tags.KindOf(member.Type()) {
	case tags.KindString:
		return targetString
	case tags.KindInteger, tags.KindNumber:
		return targetNumber
	}
	return targetNone
}

func (m *Module) Apply(b *generator.ConfigBuilder) {
	m.applyToMembers(b.ForFields())
	m.applyToMembers(b.ForMethods())
}

func (m *Module) applyToMembers(part *generator.MemberPart) {
	memberOnly := part.MemberOnly()
	memberOnly.WithNullableResolver(func(member *typemodel.MemberScope) (bool, bool) {
		if m.rules(member).Has("required") {
			return false, true
		}
		return false, false
	})
	if m.options[NotNullableIsRequired] {
		memberOnly.WithRequiredCheck(func(member *typemodel.MemberScope) bool {
			return m.rules(member).Has("required")
		})
	}

	part.WithArrayMinItemsResolver(m.lowerBound(targetArray))
	part.WithArrayMaxItemsResolver(m.upperBound(targetArray))
	part.WithArrayUniqueItemsResolver(func(member *typemodel.MemberScope) (bool, bool) {
		if targetOf(member) != targetArray || !m.rules(member).Has("unique") {
			return false, false
		}
		return true, true
	})
	part.WithStringMinLengthResolver(m.lowerBound(targetString))
	part.WithStringMaxLengthResolver(m.upperBound(targetString))
	part.WithStringFormatResolver(func(member *typemodel.MemberScope) (string, bool) {
		if targetOf(member) != targetString {
			return "", false
		}
		for _, r := range m.rules(member) {
			if f, ok := formats[r.Key]; ok {
				return f, true
			}
		}
		return "", false
	})
	if m.options[IncludePatterns] {
		part.WithStringPatternResolver(func(member *typemodel.MemberScope) (string, bool) {
			if targetOf(member) != targetString {
				return "", false
			}
			for _, r := range m.rules(member) {
				if p, ok := patterns[r.Key]; ok {
					return p, true
				}
			}
			return "", false
		})
	}
	part.WithNumberInclusiveMinimumResolver(m.number("min", "gte"))
	part.WithNumberExclusiveMinimumResolver(m.number("gt"))
	part.WithNumberInclusiveMaximumResolver(m.number("max", "lte"))
	part.WithNumberExclusiveMaximumResolver(m.number("lt"))
	part.WithEnumResolver(func(member *typemodel.MemberScope) ([]any, bool) {
		rules := m.rules(member)
		if v, ok := rules.Lookup("eq"); ok {
			return []any{tags.TypedValue(member.Type(), v)}, true
		}
		raw, ok := rules.Lookup("oneof")
		if !ok {
			return nil, false
		}
		var values []any
		for _, v := range strings.Fields(raw) {
			values = append(values, tags.TypedValue(member.Type(), strings.Trim(v, "'")))
		}
		return values, len(values) > 0
	})
	part.WithInstanceAttributeOverride(m.mapEntries)
}

// lowerBound resolves the inclusive lower bound on lengths or item counts.
// gt=N yields N+1.
func (m *Module) lowerBound(want target) func(*typemodel.MemberScope) (int, bool) {
	return func(member *typemodel.MemberScope) (int, bool) {
		if targetOf(member) != want {
			return 0, false
		}
		return bound(m.rules(member), 1, "min", "gte", "len", "gt")
	}
}

func (m *Module) upperBound(want target) func(*typemodel.MemberScope) (int, bool) {
	return func(member *typemodel.MemberScope) (int, bool) {
		if targetOf(member) != want {
			return 0, false
		}
		return bound(m.rules(member), -1, "max", "lte", "len", "lt")
	}
}

// bound returns the first of the inclusive keys present, or the exclusive
// key shifted by step.
func bound(rules tags.List, step int, inclusive, alias, exact, exclusive string) (int, bool) {
	for _, key := range []string{inclusive, alias, exact} {
		if raw, ok := rules.Lookup(key); ok {
			return tags.Int(raw)
		}
	}
	if raw, ok := rules.Lookup(exclusive); ok {
		if n, ok := tags.Int(raw); ok && n+step >= 0 {
			return n + step, true
		}
	}
	return 0, false
}

func (m *Module) number(keys ...string) func(*typemodel.MemberScope) (json.Number, bool) {
	return func(member *typemodel.MemberScope) (json.Number, bool) {
		if targetOf(member) != targetNumber {
			return "", false
		}
		rules := m.rules(member)
		for _, key := range keys {
			if raw, ok := rules.Lookup(key); ok {
				return tags.Number(raw)
			}
		}
		return "", false
	}
}

// mapEntries writes entry counts of map members, keeping the stricter of
// an existing value and the rule.
func (m *Module) mapEntries(node *jsonnode.Node, member *typemodel.MemberScope, ctx *generator.GenerationContext) {
	if targetOf(member) != targetMap {
		return
	}
	rules := m.rules(member)
	if n, ok := bound(rules, 1, "min", "gte", "len", "gt"); ok && n > 0 {
		setCount(node, ctx.Keyword(keyword.MinProperties), n, func(existing, n int) bool { return n > existing })
	}
	if n, ok := bound(rules, -1, "max", "lte", "len", "lt"); ok {
		setCount(node, ctx.Keyword(keyword.MaxProperties), n, func(existing, n int) bool { return n < existing })
	}
}

func setCount(node *jsonnode.Node, tag string, n int, stricter func(existing, n int) bool) {
	if current, ok := node.Get(tag).NumberValue(); ok {
		if existing, err := current.Int64(); err == nil && !stricter(int(existing), n) {
			return
		}
	}
	node.Set(tag, jsonnode.Int(int64(n)))
}
