// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jsontag describes fields the way encoding/json serializes them.
package jsontag

import (
	"slices"
	"strings"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/modules/tags"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// Option adjusts the module.
type Option int

const (
	// RequiredByDefault marks fields without omitempty or omitzero as required.
	RequiredByDefault Option = iota
	// KeepUnexported keeps unexported fields, which encoding/json skips.
	KeepUnexported
)

// Module applies `json:"..."` tags: names, exclusions, optionality and the
// string option. Properties keep the declaration order encoding/json writes
// them in.
type Module struct {
	options []Option
}

// New returns the module with the given options.
func New(opts ...Option) *Module {
	return &Module{options: slices.Clone(opts)}
}

func (m *Module) has(o Option) bool { return slices.Contains(m.options, o) }

type jsonTag struct {
	name    string
	options []string
	present bool
	// comma is set when the tag carries an option list, even an empty one
	comma bool
}

func lookup(member *typemodel.MemberScope) jsonTag {
	raw, ok := member.Tag("json")
	if !ok {
		return jsonTag{}
	}
	name, opts, comma := strings.Cut(raw, ",")
	var options []string
	if opts != "" {
		options = strings.Split(opts, ",")
	}
	return jsonTag{name: name, options: options, present: true, comma: comma}
}

// skipped reports a bare "-" tag. With a comma, "-" is the property name.
func (t jsonTag) skipped() bool { return t.present && t.name == "-" && !t.comma }

func (t jsonTag) optional() bool {
	return slices.Contains(t.options, "omitempty") || slices.Contains(t.options, "omitzero")
}

func (m *Module) Apply(b *generator.ConfigBuilder) {
	b.ForTypesInGeneral().WithPropertySorter(generator.DeclarationOrder)
	fields := b.ForFields()
	fields.WithIgnoreCheck(func(f *typemodel.MemberScope) bool {
		if f.IsContainerItem() {
			return false
		}
		return lookup(f).skipped() || !f.IsExported() && !m.has(KeepUnexported)
	})
	fields.WithPropertyNameOverrideResolver(func(f *typemodel.MemberScope) (string, bool) {
		tag := lookup(f)
		if tag.name == "" || tag.skipped() {
			return "", false
		}
		return tag.name, true
	})
	if m.has(RequiredByDefault) {
		fields.WithRequiredCheck(func(f *typemodel.MemberScope) bool {
			return !f.IsStatic() && !lookup(f).optional()
		})
	}
	fields.MemberOnly().WithTargetTypeOverridesResolver(stringEncoded)
}

// stringEncoded handles the ",string" option, which encodes scalars inside
// a JSON string.
func stringEncoded(f *typemodel.MemberScope) ([]*typemodel.ResolvedType, bool) {
	if !slices.Contains(lookup(f).options, "string") {
		return nil, false
	}
	switch tags.KindOf(f.Type()) {
	case tags.KindInteger, tags.KindNumber, tags.KindBoolean:
	default:
		return nil, false
	}
	str, err := f.Context().ResolveName("string")
	if err != nil {
		return nil, false
	}
	return []*typemodel.ResolvedType{str}, true
}
