// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package schematag reads schema attributes from `jsonschema:"..."` struct
// tags and from doc comments.
//
// Keys follow the invopop/jsonschema conventions:
//
//	Name  string   `jsonschema:"title=Name,minLength=1,required"`
//	Kind  string   `jsonschema:"enum=a,enum=b,default=a"`
//	Tags  []string `jsonschema:"minItems=1,uniqueItems,pattern=^[a-z]+$"`
//	Value any      `jsonschema:"oneof_type=string;integer"`
//
// String, numeric and enum constraints on a container member describe its
// items; array constraints describe the member itself.
package schematag

import (
	"encoding/json"
	"strings"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/modules/tags"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// TagKey is the struct tag key the module reads.
const TagKey = "jsonschema"

// Module applies `jsonschema` tags to fields and methods.
type Module struct {
	// Docs uses doc comments as descriptions when no tag provides one.
	Docs bool
}

// New returns the module with doc comments enabled.
func New() *Module { return &Module{Docs: true} }

var schemaTypes = map[string]string{
	"string":  "string",
	"integer": "int64",
	"number":  "float64",
	"boolean": "bool",
	"object":  "any",
}

func parse(m *typemodel.MemberScope) tags.List {
	raw, ok := m.Tag(TagKey)
	if !ok {
		return nil
	}
	return tags.Parse(raw)
}

// itemScoped reports whether value constraints apply to m: to the items of
// a container member, to the member otherwise.
func itemScoped(m *typemodel.MemberScope) bool {
	return m.IsContainerItem() || !m.IsContainer()
}

// arrayScoped reports whether array constraints apply to m.
func arrayScoped(m *typemodel.MemberScope) bool {
	return !m.IsContainerItem() && m.IsContainer()
}

func (mod *Module) Apply(b *generator.ConfigBuilder) {
	for _, part := range []*generator.MemberPart{b.ForFields(), b.ForMethods()} {
		mod.applyToMembers(part)
	}
	if mod.Docs {
		b.ForTypesInGeneral().WithDescriptionResolver(func(s *typemodel.TypeScope) (string, bool) {
			d := s.Type().Decl()
			if d == nil || d.Doc == "" {
				return "", false
			}
			return normalizeDoc(d.Doc), true
		})
	}
}

func (mod *Module) applyToMembers(part *generator.MemberPart) {
	memberOnly := part.MemberOnly()
	memberOnly.WithTitleResolver(func(m *typemodel.MemberScope) (string, bool) {
		return parse(m).Lookup("title")
	})
	memberOnly.WithDescriptionResolver(func(m *typemodel.MemberScope) (string, bool) {
		if v, ok := parse(m).Lookup("description"); ok {
			return v, true
		}
		if mod.Docs && m.Doc() != "" {
			return normalizeDoc(m.Doc()), true
		}
		return "", false
	})
	memberOnly.WithDefaultResolver(func(m *typemodel.MemberScope) (any, bool) {
		raw, ok := parse(m).Lookup("default")
		if !ok {
			return nil, false
		}
		return tags.TypedValue(m.Type(), raw), true
	})
	memberOnly.WithRequiredCheck(func(m *typemodel.MemberScope) bool { return parse(m).Flag("required") })
	memberOnly.WithNullableResolver(func(m *typemodel.MemberScope) (bool, bool) {
		l := parse(m)
		if !l.Has("nullable") {
			return false, false
		}
		return l.Flag("nullable"), true
	})
	memberOnly.WithReadOnlyCheck(func(m *typemodel.MemberScope) bool { return parse(m).Flag("readOnly") })
	memberOnly.WithWriteOnlyCheck(func(m *typemodel.MemberScope) bool { return parse(m).Flag("writeOnly") })
	memberOnly.WithTargetTypeOverridesResolver(oneOfTypes)

	part.WithEnumResolver(func(m *typemodel.MemberScope) ([]any, bool) {
		if !itemScoped(m) {
			return nil, false
		}
		l := parse(m)
		if c, ok := l.Lookup("const"); ok {
			return []any{tags.TypedValue(m.Type(), c)}, true
		}
		raw := l.All("enum")
		if len(raw) == 0 {
			return nil, false
		}
		values := make([]any, len(raw))
		for i, v := range raw {
			values[i] = tags.TypedValue(m.Type(), v)
		}
		return values, true
	})
	part.WithStringFormatResolver(itemString("format"))
	part.WithStringPatternResolver(itemString("pattern"))
	part.WithStringMinLengthResolver(itemInt("minLength"))
	part.WithStringMaxLengthResolver(itemInt("maxLength"))
	part.WithNumberInclusiveMinimumResolver(itemNumber("minimum"))
	part.WithNumberExclusiveMinimumResolver(itemNumber("exclusiveMinimum"))
	part.WithNumberInclusiveMaximumResolver(itemNumber("maximum"))
	part.WithNumberExclusiveMaximumResolver(itemNumber("exclusiveMaximum"))
	part.WithNumberMultipleOfResolver(itemNumber("multipleOf"))
	part.WithArrayMinItemsResolver(arrayInt("minItems"))
	part.WithArrayMaxItemsResolver(arrayInt("maxItems"))
	part.WithArrayUniqueItemsResolver(func(m *typemodel.MemberScope) (bool, bool) {
		l := parse(m)
		if !arrayScoped(m) || !l.Has("uniqueItems") {
			return false, false
		}
		return l.Flag("uniqueItems"), true
	})
}

func itemString(key string) func(*typemodel.MemberScope) (string, bool) {
	return func(m *typemodel.MemberScope) (string, bool) {
		if !itemScoped(m) {
			return "", false
		}
		return parse(m).Lookup(key)
	}
}

func itemInt(key string) func(*typemodel.MemberScope) (int, bool) {
	return func(m *typemodel.MemberScope) (int, bool) {
		if !itemScoped(m) {
			return 0, false
		}
		raw, ok := parse(m).Lookup(key)
		if !ok {
			return 0, false
		}
		return tags.Int(raw)
	}
}

func itemNumber(key string) func(*typemodel.MemberScope) (json.Number, bool) {
	return func(m *typemodel.MemberScope) (json.Number, bool) {
		if !itemScoped(m) {
			return "", false
		}
		raw, ok := parse(m).Lookup(key)
		if !ok {
			return "", false
		}
		return tags.Number(raw)
	}
}

func arrayInt(key string) func(*typemodel.MemberScope) (int, bool) {
	return func(m *typemodel.MemberScope) (int, bool) {
		if !arrayScoped(m) {
			return 0, false
		}
		raw, ok := parse(m).Lookup(key)
		if !ok {
			return 0, false
		}
		return tags.Int(raw)
	}
}

// oneOfTypes turns "oneof_type=string;integer" into target type overrides.
func oneOfTypes(m *typemodel.MemberScope) ([]*typemodel.ResolvedType, bool) {
	raw, ok := parse(m).Lookup("oneof_type")
	if !ok {
		return nil, false
	}
	var out []*typemodel.ResolvedType
	for _, name := range strings.Split(raw, ";") {
		goName, ok := schemaTypes[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		t, err := m.Context().ResolveName(goName)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, len(out) > 0
}

// normalizeDoc joins the lines of a doc comment into one paragraph per
// blank-line separated block.
func normalizeDoc(doc string) string {
	var paragraphs []string
	for _, block := range strings.Split(strings.TrimSpace(doc), "\n\n") {
		paragraphs = append(paragraphs, strings.Join(strings.Fields(block), " "))
	}
	return strings.Join(paragraphs, "\n\n")
}
