// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package keyword describes the JSON Schema keywords emitted by the generator
// and how they are spelled in each supported dialect.
package keyword

import (
	"fmt"
	"strings"
)

// Dialect is a supported JSON Schema draft.
type Dialect int

const (
	Draft6 Dialect = iota
	Draft7
	Draft2019_09
	Draft2020_12
)

// Dialects lists every supported dialect in release order.
var Dialects = []Dialect{Draft6, Draft7, Draft2019_09, Draft2020_12}

var dialectNames = map[Dialect]string{
	Draft6:       "draft-06",
	Draft7:       "draft-07",
	Draft2019_09: "draft-2019-09",
	Draft2020_12: "draft-2020-12",
}

var dialectIDs = map[Dialect]string{
	Draft6:       "http://json-schema.org/draft-06/schema#",
	Draft7:       "http://json-schema.org/draft-07/schema#",
	Draft2019_09: "https://json-schema.org/draft/2019-09/schema",
	Draft2020_12: "https://json-schema.org/draft/2020-12/schema",
}

func (d Dialect) String() string { return dialectNames[d] }

// Identifier returns the value used for the $schema keyword.
func (d Dialect) Identifier() string { return dialectIDs[d] }

// Legacy reports whether the dialect predates 2019-09.
func (d Dialect) Legacy() bool { return d == Draft6 || d == Draft7 }

// DefinitionsPrefix returns the $ref prefix pointing into the definitions section.
func (d Dialect) DefinitionsPrefix() string {
	return "#/" + Definitions.For(d) + "/"
}

// ParseDialect resolves a dialect by name. Both "draft-07" and "7" style
// names are accepted.
func ParseDialect(name string) (Dialect, error) {
	normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "draft-")
	switch normalized {
	case "06", "6":
		return Draft6, nil
	case "07", "7":
		return Draft7, nil
	case "2019-09":
		return Draft2019_09, nil
	case "2020-12", "":
		return Draft2020_12, nil
	}
	return 0, fmt.Errorf("unknown dialect: %s", name)
}

// SchemaType is a value of the "type" keyword.
type SchemaType int

// Declaration order is significant: implied types are emitted in this order.
const (
	TypeNull SchemaType = iota
	TypeArray
	TypeObject
	TypeBoolean
	TypeString
	TypeInteger
	TypeNumber
)

// SchemaTypes lists every schema type in canonical order.
var SchemaTypes = []SchemaType{TypeNull, TypeArray, TypeObject, TypeBoolean, TypeString, TypeInteger, TypeNumber}

var schemaTypeNames = []string{"null", "array", "object", "boolean", "string", "integer", "number"}

func (t SchemaType) String() string { return schemaTypeNames[t] }

// ParseSchemaType resolves a "type" keyword value.
func ParseSchemaType(value string) (SchemaType, bool) {
	for i, name := range schemaTypeNames {
		if name == value {
			return SchemaType(i), true
		}
	}
	return 0, false
}

// Content describes what may appear under a keyword.
type Content int

const (
	ContentSchema Content = iota + 1
	ContentSchemaArray
	ContentNamedSchemas
	ContentValue
)

// Keyword is a schema keyword that the generator knows about.
type Keyword int

const (
	Schema Keyword = iota
	ID
	Anchor
	Definitions
	Ref
	Type
	Properties
	UnevaluatedProperties
	Items
	PrefixItems
	UnevaluatedItems
	Required
	DependentSchemas
	DependentRequired
	AdditionalProperties
	PatternProperties
	MinProperties
	MaxProperties
	AllOf
	AnyOf
	OneOf
	Not
	Title
	Description
	Const
	Enum
	Default
	ReadOnly
	WriteOnly
	MinLength
	MaxLength
	Format
	Pattern
	Minimum
	ExclusiveMinimum
	Maximum
	ExclusiveMaximum
	MultipleOf
	MinItems
	MaxItems
	UniqueItems
	If
	Then
	Else
)

type definition struct {
	name     func(Dialect) string
	implied  []SchemaType
	contents []Content
}

func fixed(name string) func(Dialect) string {
	return func(Dialect) string { return name }
}

func legacyOr(legacy, current string) func(Dialect) string {
	return func(d Dialect) string {
		if d.Legacy() {
			return legacy
		}
		return current
	}
}

var (
	objectOnly  = []SchemaType{TypeObject}
	arrayOnly   = []SchemaType{TypeArray}
	stringOnly  = []SchemaType{TypeString}
	numericOnly = []SchemaType{TypeInteger, TypeNumber}
	value       = []Content{ContentValue}
	schema      = []Content{ContentSchema}
	schemaArray = []Content{ContentSchemaArray}
	named       = []Content{ContentNamedSchemas}
)

var table = []definition{
	Schema:                {fixed("$schema"), nil, value},
	ID:                    {fixed("$id"), nil, value},
	Anchor:                {fixed("$anchor"), nil, value},
	Definitions:           {legacyOr("definitions", "$defs"), nil, named},
	Ref:                   {fixed("$ref"), nil, value},
	Type:                  {fixed("type"), nil, value},
	Properties:            {fixed("properties"), objectOnly, named},
	UnevaluatedProperties: {fixed("unevaluatedProperties"), objectOnly, schema},
	Items:                 {fixed("items"), arrayOnly, []Content{ContentSchema, ContentSchemaArray}},
	PrefixItems:           {legacyOr("items", "prefixItems"), arrayOnly, schemaArray},
	UnevaluatedItems:      {fixed("unevaluatedItems"), arrayOnly, schema},
	Required:              {fixed("required"), objectOnly, value},
	DependentSchemas:      {legacyOr("dependencies", "dependentSchemas"), objectOnly, named},
	DependentRequired:     {legacyOr("dependencies", "dependentRequired"), objectOnly, value},
	AdditionalProperties:  {fixed("additionalProperties"), objectOnly, schema},
	PatternProperties:     {fixed("patternProperties"), objectOnly, named},
	MinProperties:         {fixed("minProperties"), objectOnly, value},
	MaxProperties:         {fixed("maxProperties"), objectOnly, value},
	AllOf:                 {fixed("allOf"), nil, schemaArray},
	AnyOf:                 {fixed("anyOf"), nil, schemaArray},
	OneOf:                 {fixed("oneOf"), nil, schemaArray},
	Not:                   {fixed("not"), nil, schema},
	Title:                 {fixed("title"), nil, value},
	Description:           {fixed("description"), nil, value},
	Const:                 {fixed("const"), nil, value},
	Enum:                  {fixed("enum"), nil, value},
	Default:               {fixed("default"), nil, value},
	ReadOnly:              {fixed("readOnly"), nil, value},
	WriteOnly:             {fixed("writeOnly"), nil, value},
	MinLength:             {fixed("minLength"), stringOnly, value},
	MaxLength:             {fixed("maxLength"), stringOnly, value},
	Format:                {fixed("format"), stringOnly, value},
	Pattern:               {fixed("pattern"), stringOnly, value},
	Minimum:               {fixed("minimum"), numericOnly, value},
	ExclusiveMinimum:      {fixed("exclusiveMinimum"), numericOnly, value},
	Maximum:               {fixed("maximum"), numericOnly, value},
	ExclusiveMaximum:      {fixed("exclusiveMaximum"), numericOnly, value},
	MultipleOf:            {fixed("multipleOf"), numericOnly, value},
	MinItems:              {fixed("minItems"), arrayOnly, value},
	MaxItems:              {fixed("maxItems"), arrayOnly, value},
	UniqueItems:           {fixed("uniqueItems"), arrayOnly, value},
	If:                    {fixed("if"), nil, schema},
	Then:                  {fixed("then"), nil, schema},
	Else:                  {fixed("else"), nil, schema},
}

// All returns every keyword in declaration order.
func All() []Keyword {
	out := make([]Keyword, len(table))
	for i := range table {
		out[i] = Keyword(i)
	}
	return out
}

// For returns the keyword's spelling in the given dialect.
func (k Keyword) For(d Dialect) string { return table[k].name(d) }

func (k Keyword) String() string { return k.For(Draft2020_12) }

// ImpliedTypes returns the schema types implied by the keyword's presence.
func (k Keyword) ImpliedTypes() []SchemaType { return table[k].implied }

// Supports reports whether the keyword can hold the given kind of content.
func (k Keyword) Supports(c Content) bool {
	for _, candidate := range table[k].contents {
		if candidate == c {
			return true
		}
	}
	return false
}

// ReverseTagMap maps each keyword spelling in the dialect to its keyword,
// limited to keywords accepted by filter. When two keywords share a spelling
// the one declared first wins.
func ReverseTagMap(d Dialect, filter func(Keyword) bool) map[string]Keyword {
	out := make(map[string]Keyword)
	for i := range table {
		k := Keyword(i)
		if filter != nil && !filter(k) {
			continue
		}
		name := k.For(d)
		if _, exists := out[name]; !exists {
			out[name] = k
		}
	}
	return out
}
