// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"

	"github.com/dacolabs/schemagen/internal/typemodel"
)

// DefinitionNamingStrategy names the entries of the definitions section.
type DefinitionNamingStrategy interface {
	// NameForKey returns the preferred name of a definition.
	NameForKey(key DefinitionKey, ctx *GenerationContext) string
	// AdjustDuplicateNames returns distinct names for definitions that share
	// a preferred name, in the order of keys.
	AdjustDuplicateNames(keys []DefinitionKey, name string, ctx *GenerationContext) []string
	// AdjustNullableName returns the name of the nullable variant of a
	// definition.
	AdjustNullableName(key DefinitionKey, name string, ctx *GenerationContext) string
}

type defaultNaming struct{}

func (defaultNaming) NameForKey(key DefinitionKey, _ *GenerationContext) string {
	return key.Type.SimpleDescription()
}

func (defaultNaming) AdjustDuplicateNames(keys []DefinitionKey, name string, _ *GenerationContext) []string {
	out := make([]string, len(keys))
	for i := range keys {
		out[i] = name + "-" + strconv.Itoa(i+1)
	}
	return out
}

func (defaultNaming) AdjustNullableName(_ DefinitionKey, name string, _ *GenerationContext) string {
	return name + "-nullable"
}

// DefaultNamingStrategy names definitions after the simple description of
// their type, e.g. "Page[Item]".
func DefaultNamingStrategy() DefinitionNamingStrategy { return defaultNaming{} }

// NamingFunc names definitions with fn and keeps the default handling of
// duplicates and nullable variants.
type NamingFunc func(key DefinitionKey, ctx *GenerationContext) string

func (f NamingFunc) NameForKey(key DefinitionKey, ctx *GenerationContext) string { return f(key, ctx) }

func (f NamingFunc) AdjustDuplicateNames(keys []DefinitionKey, name string, ctx *GenerationContext) []string {
	return defaultNaming{}.AdjustDuplicateNames(keys, name, ctx)
}

func (f NamingFunc) AdjustNullableName(key DefinitionKey, name string, ctx *GenerationContext) string {
	return defaultNaming{}.AdjustNullableName(key, name, ctx)
}

// cleanNaming applies a cleanup to every name produced by the wrapped
// strategy.
type cleanNaming struct {
	strategy DefinitionNamingStrategy
	clean    func(string) string
}

func (n cleanNaming) NameForKey(key DefinitionKey, ctx *GenerationContext) string {
	return n.clean(n.strategy.NameForKey(key, ctx))
}

func (n cleanNaming) AdjustDuplicateNames(keys []DefinitionKey, name string, ctx *GenerationContext) []string {
	names := n.strategy.AdjustDuplicateNames(keys, name, ctx)
	for i, s := range names {
		names[i] = n.clean(s)
	}
	return names
}

func (n cleanNaming) AdjustNullableName(key DefinitionKey, name string, ctx *GenerationContext) string {
	return n.clean(n.strategy.AdjustNullableName(key, name, ctx))
}

func (n cleanNaming) Reset() {
	if r, ok := n.strategy.(Resetter); ok {
		r.Reset()
	}
}

var (
	uriUnsafe   = regexp.MustCompile(`[^A-Za-z0-9.\-_$*(),]`)
	plainUnsafe = regexp.MustCompile(`[^A-Za-z0-9.\-_]`)
)

// URICompatibleName makes a name usable as a JSON pointer segment in a URI
// without escaping.
func URICompatibleName(name string) string {
	name = strings.ReplaceAll(name, "[]", "*")
	name = strings.NewReplacer("[", "(", "]", ")").Replace(name)
	return uriUnsafe.ReplaceAllString(name, "")
}

// PlainName restricts a name to letters, digits, dots, dashes and
// underscores.
func PlainName(name string) string {
	name = strings.ReplaceAll(name, "$", "-")
	name = strings.ReplaceAll(name, "[]", "...")
	name = strings.NewReplacer("[", "_", "]", "_", ",", ".").Replace(name)
	return plainUnsafe.ReplaceAllString(name, "")
}

func (c *Config) cleanNamingStrategy() DefinitionNamingStrategy {
	clean := URICompatibleName
	if c.Enabled(PlainDefinitionKeys) {
		clean = PlainName
	}
	return cleanNaming{strategy: c.types.naming, clean: clean}
}

// SortFieldsBeforeMethods orders fields and names derived from getters
// before method properties.
func SortFieldsBeforeMethods(a, b *typemodel.MemberScope) int {
	return compareBool(isMethodProperty(a), isMethodProperty(b))
}

// SortPropertiesByName orders properties alphabetically.
func SortPropertiesByName(a, b *typemodel.MemberScope) int {
	return cmp.Compare(a.PropertyName(), b.PropertyName())
}

// DefaultPropertyOrder lists fields first, each group alphabetically.
func DefaultPropertyOrder(a, b *typemodel.MemberScope) int {
	if c := SortFieldsBeforeMethods(a, b); c != 0 {
		return c
	}
	return SortPropertiesByName(a, b)
}

// DeclarationOrder keeps properties in the order they were collected.
func DeclarationOrder(_, _ *typemodel.MemberScope) int { return 0 }

func isMethodProperty(m *typemodel.MemberScope) bool {
	return strings.HasSuffix(m.PropertyName(), ")")
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
