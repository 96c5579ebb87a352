// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package invopop bridges types described with github.com/invopop/jsonschema.
//
// Declarations that carry their runtime type are described by the type's own
// JSONSchema method, when it has one, or by an invopop reflector for the
// types registered with Reflect.
package invopop

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/jschema"
	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

type customSchema interface {
	JSONSchema() *jsonschema.Schema
}

var customSchemaType = reflect.TypeFor[customSchema]()

// Module provides custom definitions from invopop schemas.
type Module struct {
	reflector *jsonschema.Reflector
	reflected []reflect.Type
}

// New returns the module. Schemas produced by the reflector are expanded in
// place rather than referencing definitions of their own.
func New() *Module {
	return &Module{reflector: &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
		FieldNameTag:   "json",
	}}
}

// WithReflector replaces the reflector used for registered types.
func (m *Module) WithReflector(r *jsonschema.Reflector) *Module {
	m.reflector = r
	return m
}

// Reflect describes the given types through the reflector instead of the
// generator's own traversal.
func (m *Module) Reflect(types ...reflect.Type) *Module {
	m.reflected = append(m.reflected, types...)
	return m
}

func (m *Module) Apply(b *generator.ConfigBuilder) {
	b.ForTypesInGeneral().WithCustomDefinitionProvider(m)
}

func (m *Module) ProvideCustomDefinition(t *typemodel.ResolvedType, ctx *generator.GenerationContext) (*generator.CustomDefinition, error) {
	d := t.Decl()
	if d == nil || d.Runtime == nil || len(t.Args()) > 0 {
		return nil, nil
	}
	schema := m.schemaFor(d.Runtime)
	if schema == nil {
		return nil, nil
	}
	node, err := toNode(schema)
	if err != nil {
		return nil, fmt.Errorf("converting schema of %s: %w", d.Name, err)
	}
	return generator.NewCustomDefinition(node), nil
}

func (m *Module) schemaFor(rt reflect.Type) *jsonschema.Schema {
	if rt.Kind() != reflect.Interface {
		if rt.Implements(customSchemaType) {
			return reflect.New(rt).Elem().Interface().(customSchema).JSONSchema()
		}
		if reflect.PointerTo(rt).Implements(customSchemaType) {
			return reflect.New(rt).Interface().(customSchema).JSONSchema()
		}
	}
	if slices.Contains(m.reflected, rt) {
		return m.reflector.ReflectFromType(rt)
	}
	return nil
}

// toNode converts schema, dropping the document-level keywords. Refs into
// the schema's own definitions are replaced by the definitions they point
// at: once embedded, a nested definitions section is not reachable through
// a root-relative pointer.
func toNode(schema *jsonschema.Schema) (*jsonnode.Node, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	node, err := jsonnode.Parse(data)
	if err != nil {
		return nil, err
	}
	if !node.IsObject() {
		return node, nil
	}
	node.Remove("$schema")
	node.Remove("$id")
	defs := jsonnode.NewObject()
	for _, tag := range []string{"definitions", "$defs"} {
		if d := node.Remove(tag); d.IsObject() {
			defs.SetAll(d)
		}
	}
	if defs.Len() == 0 {
		return node, nil
	}
	return inline(node, defs, nil)
}

// literals hold instance values, not subschemas.
var literals = []string{"const", "default", "enum", "examples"}

// inline substitutes every ref to an entry of defs. chain holds the
// definitions being expanded.
func inline(node, defs *jsonnode.Node, chain []string) (*jsonnode.Node, error) {
	if node.IsArray() {
		items := make([]*jsonnode.Node, len(node.Items()))
		for i, item := range node.Items() {
			inlined, err := inline(item, defs, chain)
			if err != nil {
				return nil, err
			}
			items[i] = inlined
		}
		return node.SetItems(items), nil
	}
	if !node.IsObject() {
		return node, nil
	}

	var target *jsonnode.Node
	if name := jschema.DefName(node.Get("$ref").Text()); name != "" && defs.Has(name) {
		if slices.Contains(chain, name) {
			return nil, fmt.Errorf("recursive definition %q cannot be embedded", name)
		}
		var err error
		if target, err = inline(defs.Get(name).Copy(), defs, append(chain, name)); err != nil {
			return nil, err
		}
		node.Remove("$ref")
	}
	for _, key := range node.Keys() {
		if slices.Contains(literals, key) {
			continue
		}
		inlined, err := inline(node.Get(key), defs, chain)
		if err != nil {
			return nil, err
		}
		node.Set(key, inlined)
	}

	switch {
	case target == nil:
		return node, nil
	case node.Len() == 0:
		return target, nil
	}
	allOf := jsonnode.NewArray(target)
	if existing := node.Get("allOf"); existing.IsArray() {
		allOf.Append(existing.Items()...)
	}
	return node.Set("allOf", allOf), nil
}
