// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dacolabs/schemagen/internal/cleanup"
	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// schemaBuilder turns the definitions collected by a generation context
// into a single document.
type schemaBuilder struct {
	config *Config
	ctx    *GenerationContext
	naming DefinitionNamingStrategy
	// pinned definitions always get an entry in the definitions section
	pinned map[DefinitionKey]bool
	// schemaNodes are the roots the clean-up passes walk
	schemaNodes []*jsonnode.Node
}

func newSchemaBuilder(ctx *GenerationContext) *schemaBuilder {
	return &schemaBuilder{
		config: ctx.config,
		ctx:    ctx,
		naming: ctx.config.cleanNamingStrategy(),
		pinned: make(map[DefinitionKey]bool),
	}
}

// build generates the document for main. Extra types are placed in the
// definitions section next to it.
func (b *schemaBuilder) build(main *typemodel.ResolvedType, extra ...*typemodel.ResolvedType) (*jsonnode.Node, error) {
	mainKey, err := b.ctx.parseType(main)
	if err != nil {
		return nil, err
	}
	for _, t := range extra {
		key, err := b.ctx.parseType(t)
		if err != nil {
			return nil, err
		}
		if key != mainKey {
			b.pinned[key] = true
		}
	}

	result := jsonnode.NewObject()
	if b.config.Enabled(SchemaVersionIndicator) {
		result.Set(b.config.Keyword(keyword.Schema), jsonnode.String(b.config.Dialect().Identifier()))
	}
	defForMain := b.config.Enabled(DefinitionForMainSchema)
	if defForMain {
		b.ctx.addReference(main, result, nil, false)
	}
	defsTag := b.config.Keyword(keyword.Definitions)
	prefix := "#/" + defsTag + "/"
	defs, err := b.buildDefinitions(prefix, mainKey)
	if err != nil {
		return nil, err
	}
	if defs.Len() > 0 {
		result.Set(defsTag, defs)
	}
	if !defForMain {
		result.SetAll(b.ctx.definition(mainKey))
		b.schemaNodes = append(b.schemaNodes, result)
	}
	b.cleanup(defs, prefix)
	return result, nil
}

func (b *schemaBuilder) cleanup(defs *jsonnode.Node, prefix string) {
	cleaner := cleanup.New(b.config.Dialect(), cleanup.WithNullAsAnyOf(b.config.Enabled(NullableAlwaysAsAnyOf)))
	if b.config.Enabled(AllOfCleanupAtTheEnd) {
		cleaner.ReduceAllOf(b.schemaNodes)
	}
	cleaner.ReduceAnyOf(b.schemaNodes)
	if b.config.Enabled(DuplicateMemberAttributeCleanupAtTheEnd) {
		cleaner.ReduceRedundantMemberAttributes(b.schemaNodes, defs, prefix)
	}
	if b.config.Enabled(StrictTypeInfo) {
		cleaner.SetStrictTypeInfo(b.schemaNodes, true)
		// null support may have introduced new anyOf wrappers
		cleaner.ReduceAnyOf(b.schemaNodes)
	}
}

func (b *schemaBuilder) buildDefinitions(prefix string, mainKey DefinitionKey) (*jsonnode.Node, error) {
	defs := jsonnode.NewObject()
	names, err := b.referenceKeys(mainKey, false)
	if err != nil {
		return nil, err
	}
	for pair := names.Oldest(); pair != nil; pair = pair.Next() {
		key, name := pair.Key, pair.Value
		refKey := b.updateReferences(key, name, mainKey, prefix, defs)
		if len(b.ctx.nullableReferences[key]) > 0 {
			b.updateNullableReferences(key, name, refKey, prefix, defs)
		}
	}
	for _, def := range defs.Fields() {
		b.schemaNodes = append(b.schemaNodes, def)
	}
	return defs, nil
}

func (b *schemaBuilder) updateReferences(key DefinitionKey, name string, mainKey DefinitionKey, prefix string, defs *jsonnode.Node) string {
	refs := b.ctx.references[key]
	definition := b.ctx.definition(key)
	if !b.shouldProduce(key, mainKey, true) {
		for _, ref := range refs {
			mergeMissing(ref, definition)
		}
		return ""
	}
	var refKey string
	if key == mainKey && !b.config.Enabled(DefinitionForMainSchema) {
		refKey = "#"
	} else {
		defs.Set(name, definition)
		refKey = prefix + name
	}
	refTag := b.config.Keyword(keyword.Ref)
	for _, ref := range refs {
		ref.Set(refTag, jsonnode.String(refKey))
	}
	return refKey
}

func (b *schemaBuilder) updateNullableReferences(key DefinitionKey, name, refKey, prefix string, defs *jsonnode.Node) {
	refs := b.ctx.nullableReferences[key]
	var definition *jsonnode.Node
	if refKey == "" {
		definition = b.ctx.definition(key)
	} else {
		definition = jsonnode.NewObject().Set(b.config.Keyword(keyword.Ref), jsonnode.String(refKey))
	}
	b.ctx.MakeNullable(definition)
	if !b.shouldCreateNullableDefinition(key, len(refs)) {
		for _, ref := range refs {
			mergeMissing(ref, definition)
		}
		return
	}
	nullableName := b.naming.AdjustNullableName(key, name, b.ctx)
	defs.Set(nullableName, definition)
	refTag := b.config.Keyword(keyword.Ref)
	for _, ref := range refs {
		ref.Set(refTag, jsonnode.String(prefix+nullableName))
	}
}

func (b *schemaBuilder) neverInline(key DefinitionKey) bool {
	return b.ctx.alwaysRef[key] || b.pinned[key]
}

func (b *schemaBuilder) shouldCreateNullableDefinition(key DefinitionKey, nullableRefs int) bool {
	switch {
	case b.config.Enabled(InlineNullableSchemas):
		return false
	case b.neverInline(key):
		return true
	case b.config.Enabled(InlineAllSchemas):
		return false
	}
	return b.config.Enabled(DefinitionsForAllObjects) || nullableRefs > 1
}

// shouldProduce reports whether key gets a named definition instead of
// being inlined at its reference sites. With directOnly, definitions that
// are only referenced as nullable are inlined into the nullable variant.
func (b *schemaBuilder) shouldProduce(key, mainKey DefinitionKey, directOnly bool) bool {
	if b.neverInline(key) {
		return true
	}
	if b.config.Enabled(InlineAllSchemas) {
		return false
	}
	if b.config.Enabled(DefinitionsForAllObjects) || key == mainKey {
		return true
	}
	refs := len(b.ctx.references[key])
	if directOnly && refs == 0 {
		return false
	}
	return refs > 1 || refs+len(b.ctx.nullableReferences[key]) > 1
}

// referenceKeys names every stored definition. Definitions that are inlined
// get an empty name. Groups of definitions sharing a name are ordered by
// name, keys within a group by the order they were stored in.
func (b *schemaBuilder) referenceKeys(mainKey DefinitionKey, directOnly bool) (*orderedmap.OrderedMap[DefinitionKey, string], error) {
	groups := make(map[string][]DefinitionKey)
	for pair := b.ctx.definitions.Oldest(); pair != nil; pair = pair.Next() {
		name := b.naming.NameForKey(pair.Key, b.ctx)
		groups[name] = append(groups[name], pair.Key)
	}
	groupNames := make([]string, 0, len(groups))
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	slices.Sort(groupNames)

	keys := orderedmap.New[DefinitionKey, string]()
	for _, name := range groupNames {
		var produced []DefinitionKey
		for _, key := range groups[name] {
			keys.Set(key, "")
			if b.shouldProduce(key, mainKey, directOnly) {
				produced = append(produced, key)
			}
		}
		if b.distinct(mainKey, produced) {
			for _, key := range produced {
				keys.Set(key, name)
			}
			continue
		}
		adjusted := b.naming.AdjustDuplicateNames(produced, name, b.ctx)
		if len(adjusted) != len(produced) {
			return nil, &NamingError{Names: []string{name}, Reason: "duplicate name adjustment changed the number of definitions"}
		}
		for i, key := range produced {
			keys.Set(key, adjusted[i])
		}
	}

	// the main schema only takes a name when it is placed in the definitions
	defForMain := b.config.Enabled(DefinitionForMainSchema)
	counts := make(map[string]int)
	var duplicates []string
	for pair := keys.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == "" || pair.Key == mainKey && !defForMain {
			continue
		}
		counts[pair.Value]++
		if counts[pair.Value] == 2 {
			duplicates = append(duplicates, pair.Value)
		}
	}
	if len(duplicates) > 0 {
		return nil, &NamingError{Names: duplicates, Reason: "duplicate definition names"}
	}
	return keys, nil
}

// distinct reports whether the produced keys of a group can share its name:
// a single key, or the main schema next to one other key when the main
// schema is not placed in the definitions.
func (b *schemaBuilder) distinct(mainKey DefinitionKey, produced []DefinitionKey) bool {
	return len(produced) == 1 ||
		len(produced) == 2 && !b.config.Enabled(DefinitionForMainSchema) && slices.Contains(produced, mainKey)
}
