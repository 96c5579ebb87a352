// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"iter"
	"maps"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

// RefResolver resolves $ref strings to schemas.
// Return nil if the ref cannot be resolved.
type RefResolver func(ref string) *jsonschema.Schema

// Traverse returns an iterator over all schemas in the tree.
// It handles cycles by tracking visited schemas.
// If resolver is provided, it follows $ref links to their targets.
// Named subschemas are visited in key order.
func Traverse(schema *jsonschema.Schema, resolver RefResolver) iter.Seq[*jsonschema.Schema] {
	return func(yield func(*jsonschema.Schema) bool) {
		visited := make(map[*jsonschema.Schema]struct{})
		traverseWithVisited(schema, resolver, yield, visited)
	}
}

func traverseWithVisited(schema *jsonschema.Schema, resolver RefResolver, yield func(*jsonschema.Schema) bool, visited map[*jsonschema.Schema]struct{}) bool {
	if schema == nil {
		return true
	}
	if _, ok := visited[schema]; ok {
		return true
	}
	visited[schema] = struct{}{}

	if !yield(schema) {
		return false
	}

	// Follow $ref if resolver is provided
	if schema.Ref != "" && resolver != nil {
		if resolved := resolver(schema.Ref); resolved != nil {
			if !traverseWithVisited(resolved, resolver, yield, visited) {
				return false
			}
		}
	}

	visit := func(children ...*jsonschema.Schema) bool {
		for _, s := range children {
			if !traverseWithVisited(s, resolver, yield, visited) {
				return false
			}
		}
		return true
	}
	named := func(m map[string]*jsonschema.Schema) bool {
		for _, key := range slices.Sorted(maps.Keys(m)) {
			if !traverseWithVisited(m[key], resolver, yield, visited) {
				return false
			}
		}
		return true
	}

	return named(schema.Properties) &&
		named(schema.PatternProperties) &&
		visit(schema.AdditionalProperties, schema.PropertyNames, schema.UnevaluatedProperties) &&
		visit(schema.Items) &&
		visit(schema.PrefixItems...) &&
		visit(schema.Contains, schema.UnevaluatedItems) &&
		visit(schema.AllOf...) &&
		visit(schema.AnyOf...) &&
		visit(schema.OneOf...) &&
		visit(schema.Not, schema.If, schema.Then, schema.Else) &&
		named(schema.DependentSchemas) &&
		visit(schema.ContentSchema) &&
		named(schema.Defs) &&
		named(schema.Definitions)
}
