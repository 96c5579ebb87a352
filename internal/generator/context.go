// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dacolabs/schemagen/internal/cleanup"
	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// maxDepth bounds nested traversals. Only inlined recursive types get close.
const maxDepth = 256

// lookup is a custom definition lookup in progress.
type lookup struct {
	key     DefinitionKey
	member  *typemodel.MemberScope
	ignored CustomPropertyDefinitionProvider
	// defs is the number of stored definitions when the lookup started;
	// path is the index into the traversal path it started at.
	defs int
	path int
}

func (l lookup) matches(other lookup) bool {
	if l.member != nil || other.member != nil {
		return l.member != nil && l.member.Equal(other.member) && l.ignored == other.ignored
	}
	return l.key == other.key
}

// GenerationContext holds the state of one generation run: the definitions
// built so far and the nodes that reference them. It is handed to custom
// definition providers so they can build schemas for other types.
type GenerationContext struct {
	config             *Config
	types              *typemodel.Context
	logger             *slog.Logger
	definitions        *orderedmap.OrderedMap[DefinitionKey, *jsonnode.Node]
	references         map[DefinitionKey][]*jsonnode.Node
	nullableReferences map[DefinitionKey][]*jsonnode.Node
	alwaysRef          map[DefinitionKey]bool
	lookups            []lookup
	path               []string
}

func newGenerationContext(cfg *Config, types *typemodel.Context, logger *slog.Logger) *GenerationContext {
	return &GenerationContext{
		config:             cfg,
		types:              types,
		logger:             logger,
		definitions:        orderedmap.New[DefinitionKey, *jsonnode.Node](),
		references:         make(map[DefinitionKey][]*jsonnode.Node),
		nullableReferences: make(map[DefinitionKey][]*jsonnode.Node),
		alwaysRef:          make(map[DefinitionKey]bool),
	}
}

// Config returns the configuration of the run.
func (c *GenerationContext) Config() *Config { return c.config }

// TypeContext returns the type resolution context of the run.
func (c *GenerationContext) TypeContext() *typemodel.Context { return c.types }

// Keyword returns the spelling of k in the configured dialect.
func (c *GenerationContext) Keyword(k keyword.Keyword) string { return c.config.Keyword(k) }

// CreateDefinition returns the inline schema of t, consulting all custom
// definition providers.
func (c *GenerationContext) CreateDefinition(t *typemodel.ResolvedType) (*jsonnode.Node, error) {
	return c.CreateStandardDefinition(t, nil)
}

// CreateDefinitionReference returns a node that ends up as a reference to
// the shared definition of t, or as its inlined copy.
func (c *GenerationContext) CreateDefinitionReference(t *typemodel.ResolvedType) (*jsonnode.Node, error) {
	return c.CreateStandardDefinitionReference(t, nil)
}

// CreateStandardDefinition returns the inline schema of t, skipping all
// custom definition providers up to and including ignored.
func (c *GenerationContext) CreateStandardDefinition(t *typemodel.ResolvedType, ignored CustomDefinitionProvider) (*jsonnode.Node, error) {
	node := jsonnode.NewObject()
	if err := c.traverse(c.types.NewTypeScope(t), nil, node, false, true, ignored); err != nil {
		return nil, err
	}
	return node, nil
}

// CreateStandardDefinitionReference is like CreateDefinitionReference but
// skips all custom definition providers up to and including ignored.
func (c *GenerationContext) CreateStandardDefinitionReference(t *typemodel.ResolvedType, ignored CustomDefinitionProvider) (*jsonnode.Node, error) {
	node := jsonnode.NewObject()
	if err := c.traverse(c.types.NewTypeScope(t), nil, node, false, false, ignored); err != nil {
		return nil, err
	}
	return node, nil
}

// CreateStandardMemberDefinition returns the inline schema of a member,
// skipping the member providers up to and including ignored.
func (c *GenerationContext) CreateStandardMemberDefinition(m *typemodel.MemberScope, ignored CustomPropertyDefinitionProvider) (*jsonnode.Node, error) {
	return c.createMemberSchema(m, false, true, ignored)
}

// CreateStandardMemberDefinitionReference returns the schema of a member
// with its type referenced rather than inlined.
func (c *GenerationContext) CreateStandardMemberDefinitionReference(m *typemodel.MemberScope, ignored CustomPropertyDefinitionProvider) (*jsonnode.Node, error) {
	return c.createMemberSchema(m, false, false, ignored)
}

// MakeNullable makes node accept null as well.
func (c *GenerationContext) MakeNullable(node *jsonnode.Node) *jsonnode.Node {
	return cleanup.MakeNullable(node, c.config.Enabled(NullableAlwaysAsAnyOf))
}

func (c *GenerationContext) parseType(t *typemodel.ResolvedType) (DefinitionKey, error) {
	if err := c.traverse(c.types.NewTypeScope(t), nil, nil, false, false, nil); err != nil {
		return DefinitionKey{}, err
	}
	return DefinitionKey{Type: t}, nil
}

func (c *GenerationContext) putDefinition(t *typemodel.ResolvedType, node *jsonnode.Node, ignored CustomDefinitionProvider) {
	c.definitions.Set(DefinitionKey{Type: t, Ignored: ignored}, node)
}

func (c *GenerationContext) containsDefinition(t *typemodel.ResolvedType, ignored CustomDefinitionProvider) bool {
	_, ok := c.definitions.Get(DefinitionKey{Type: t, Ignored: ignored})
	return ok
}

func (c *GenerationContext) definition(key DefinitionKey) *jsonnode.Node {
	node, _ := c.definitions.Get(key)
	return node
}

func (c *GenerationContext) addReference(t *typemodel.ResolvedType, node *jsonnode.Node, ignored CustomDefinitionProvider, nullable bool) {
	key := DefinitionKey{Type: t, Ignored: ignored}
	if nullable {
		c.nullableReferences[key] = append(c.nullableReferences[key], node)
		return
	}
	c.references[key] = append(c.references[key], node)
}

// traverse fills target with the schema of the scope's type. A nil target
// only stores the definition, as done for the main type. The member is set
// when the type is that of a member, so that container items can be
// described with the member's metadata.
func (c *GenerationContext) traverse(scope *typemodel.TypeScope, member *typemodel.MemberScope, target *jsonnode.Node,
	nullable, forceInline bool, ignored CustomDefinitionProvider) error {
	t := scope.Type()
	if !forceInline && c.containsDefinition(t, ignored) {
		if target != nil {
			c.logger.Debug("adding reference to existing definition", "type", t)
			c.addReference(t, target, ignored, nullable)
		}
		return nil
	}
	if len(c.path) >= maxDepth {
		return &CircularDefinitionError{Chain: c.chainFrom(t.SimpleDescription())}
	}
	c.path = append(c.path, t.SimpleDescription())
	defer func() { c.path = c.path[:len(c.path)-1] }()

	custom, err := c.typeCustomDefinition(t, ignored)
	if err != nil {
		return err
	}
	var definition *jsonnode.Node
	var includeAttributes bool
	if custom != nil && (custom.IsInline() || forceInline) {
		includeAttributes = custom.IncludesAttributes()
		if target == nil {
			c.logger.Debug("storing inline custom definition of main type", "type", t)
			definition = custom.Value.Copy()
			c.putDefinition(t, definition, ignored)
		} else {
			c.logger.Debug("applying inline custom definition", "type", t)
			target.SetAll(custom.Value.Copy())
			definition = target
		}
		if nullable {
			c.MakeNullable(definition)
		}
	} else {
		container := scope.IsContainer()
		if forceInline || container && target != nil && custom == nil {
			definition = target
		} else {
			definition = jsonnode.NewObject()
			c.putDefinition(t, definition, ignored)
			if target != nil {
				c.addReference(t, target, ignored, nullable)
			}
		}
		switch {
		case custom != nil:
			c.logger.Debug("applying custom definition", "type", t)
			definition.SetAll(custom.Value.Copy())
			includeAttributes = custom.IncludesAttributes()
			if custom.Type == DefinitionAlwaysRef {
				c.alwaysRef[DefinitionKey{Type: t, Ignored: ignored}] = true
			}
		case container:
			c.logger.Debug("generating array definition", "type", t)
			if err := c.generateArrayDefinition(scope, member, definition, nullable); err != nil {
				return err
			}
			includeAttributes = true
		default:
			c.logger.Debug("generating definition", "type", t)
			withSubtypes, err := c.addSubtypeReferences(t, definition)
			if err != nil {
				return err
			}
			includeAttributes = !withSubtypes
		}
	}
	if includeAttributes {
		attrs, err := c.collectTypeAttributes(scope, allowedTypes(definition, c.Keyword(keyword.Type)))
		if err != nil {
			return err
		}
		mergeMissing(definition, attrs)
	}
	for _, override := range c.config.types.overrides {
		override(definition, scope, c)
	}
	return nil
}

// chainFrom returns the traversal path starting at the first occurrence of
// name, followed by name.
func (c *GenerationContext) chainFrom(name string) []string {
	start := slices.Index(c.path, name)
	if start < 0 {
		start = 0
	}
	return append(slices.Clone(c.path[start:]), name)
}

// enter registers a custom definition lookup. Running into the same lookup
// again without any definition stored in between is a cycle.
func (c *GenerationContext) enter(l lookup) error {
	for _, prev := range c.lookups {
		if prev.matches(l) && prev.defs == l.defs {
			chain := slices.Clone(c.path[prev.path:])
			if l.member != nil {
				chain = append(chain, l.member.Path())
			}
			return &CircularDefinitionError{Chain: chain}
		}
	}
	c.lookups = append(c.lookups, l)
	return nil
}

func (c *GenerationContext) leave() { c.lookups = c.lookups[:len(c.lookups)-1] }

func (c *GenerationContext) typeCustomDefinition(t *typemodel.ResolvedType, ignored CustomDefinitionProvider) (*CustomDefinition, error) {
	providers := c.config.types.customDefinitions
	start := 0
	if ignored != nil {
		start = slices.Index(providers, ignored) + 1
	}
	if start >= len(providers) {
		return nil, nil
	}
	l := lookup{key: DefinitionKey{Type: t, Ignored: ignored}, defs: c.definitions.Len(), path: max(len(c.path)-1, 0)}
	if err := c.enter(l); err != nil {
		return nil, err
	}
	defer c.leave()
	for _, p := range providers[start:] {
		def, err := p.ProvideCustomDefinition(t, c)
		if err != nil {
			return nil, err
		}
		if def != nil {
			return def, nil
		}
	}
	return nil, nil
}

// memberCustomDefinition consults the member providers first. Member
// definitions are always inline. Without one, the type providers decide.
func (c *GenerationContext) memberCustomDefinition(m *typemodel.MemberScope, ignored CustomPropertyDefinitionProvider) (*CustomDefinition, error) {
	providers := c.config.memberConfig(m).customDefinitions
	start := 0
	if ignored != nil {
		if i := slices.Index(providers, ignored); i >= 0 {
			start = i + 1
		} else {
			start = len(providers)
		}
	}
	if start < len(providers) {
		def, err := c.provideMemberDefinition(m, ignored, providers[start:])
		if err != nil || def != nil {
			return def, err
		}
	}
	return c.typeCustomDefinition(m.Type(), nil)
}

func (c *GenerationContext) provideMemberDefinition(m *typemodel.MemberScope, ignored CustomPropertyDefinitionProvider,
	providers []CustomPropertyDefinitionProvider) (*CustomDefinition, error) {
	l := lookup{member: m, ignored: ignored, defs: c.definitions.Len(), path: len(c.path)}
	if err := c.enter(l); err != nil {
		return nil, err
	}
	defer c.leave()
	for _, p := range providers {
		def, err := p.ProvidePropertyDefinition(m, c)
		if err != nil {
			return nil, err
		}
		if def != nil {
			inline := *def
			inline.Type = DefinitionInline
			return &inline, nil
		}
	}
	return nil, nil
}

func (c *GenerationContext) resolveSubtypes(t *typemodel.ResolvedType) []*typemodel.ResolvedType {
	for _, r := range c.config.types.subtypes {
		if subtypes, ok := r(t, c); ok {
			return subtypes
		}
	}
	return nil
}

// addSubtypeReferences describes t through its subtypes, in an allOf for a
// single one and an anyOf otherwise. Without subtypes t is described as an
// object and false is returned.
func (c *GenerationContext) addSubtypeReferences(t *typemodel.ResolvedType, definition *jsonnode.Node) (bool, error) {
	subtypes := c.resolveSubtypes(t)
	if len(subtypes) == 0 {
		return false, c.generateObjectDefinition(t, definition)
	}
	tag := keyword.AnyOf
	if len(subtypes) == 1 {
		tag = keyword.AllOf
	}
	parts := jsonnode.NewArray()
	definition.Set(c.Keyword(tag), parts)
	for _, subtype := range subtypes {
		part := jsonnode.NewObject()
		parts.Append(part)
		if err := c.traverse(c.types.NewTypeScope(subtype), nil, part, false, false, nil); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (c *GenerationContext) generateArrayDefinition(scope *typemodel.TypeScope, member *typemodel.MemberScope, definition *jsonnode.Node, nullable bool) error {
	typeTag := c.Keyword(keyword.Type)
	if nullable {
		definition.Set(typeTag, jsonnode.Strings(keyword.TypeArray.String(), keyword.TypeNull.String()))
	} else {
		definition.Set(typeTag, jsonnode.String(keyword.TypeArray.String()))
	}
	if member != nil && !member.IsContainerItem() {
		items, err := c.populateMember(member.AsContainerItem())
		if err != nil {
			return err
		}
		definition.Set(c.Keyword(keyword.Items), items)
		return nil
	}
	items := jsonnode.NewObject()
	definition.Set(c.Keyword(keyword.Items), items)
	return c.traverse(c.types.NewTypeScope(scope.ContainerItemType()), nil, items, false, false, nil)
}

func (c *GenerationContext) generateObjectDefinition(t *typemodel.ResolvedType, definition *jsonnode.Node) error {
	definition.Set(c.Keyword(keyword.Type), jsonnode.String(keyword.TypeObject.String()))

	properties, required, err := c.collectObjectProperties(t)
	if err != nil {
		return err
	}
	if len(properties) == 0 {
		return nil
	}
	slices.SortStableFunc(properties, c.config.sortProperties)
	propertiesNode := jsonnode.NewObject()
	requiredNode := jsonnode.NewArray()
	for _, p := range properties {
		schema, err := c.populateMember(p)
		if err != nil {
			return withPath(p.Path(), err)
		}
		name := p.PropertyName()
		propertiesNode.Set(name, schema)
		if required[name] {
			requiredNode.Append(jsonnode.String(name))
		}
	}
	definition.Set(c.Keyword(keyword.Properties), propertiesNode)
	if requiredNode.Len() > 0 {
		definition.Set(c.Keyword(keyword.Required), requiredNode)
	}
	return nil
}

// collectObjectProperties returns the members of t that make up its
// properties, in declaration order, and the names of the required ones.
func (c *GenerationContext) collectObjectProperties(t *typemodel.ResolvedType) ([]*typemodel.MemberScope, map[string]bool, error) {
	c.logger.Debug("collecting fields and methods", "type", t)
	fields, err := c.types.Fields(t)
	if err != nil {
		return nil, nil, fmt.Errorf("collecting fields of %s: %w", t.SimpleDescription(), err)
	}
	methods, err := c.types.Methods(t)
	if err != nil {
		return nil, nil, fmt.Errorf("collecting methods of %s: %w", t.SimpleDescription(), err)
	}

	var properties []*typemodel.MemberScope
	names := make(map[string]bool)
	required := make(map[string]bool)
	collect := func(members []*typemodel.MemberScope) {
		for _, m := range members {
			if c.config.shouldIgnore(m) {
				continue
			}
			c.collectMember(m, &properties, names, required)
		}
	}
	collect(fields)
	collect(methods)

	includePublic := c.config.Enabled(PublicStaticFields)
	includeHidden := c.config.Enabled(NonPublicStaticFields)
	if includePublic || includeHidden {
		statics, err := c.types.StaticFields(t)
		if err != nil {
			return nil, nil, err
		}
		collect(slices.DeleteFunc(slices.Clone(statics), func(m *typemodel.MemberScope) bool {
			return m.IsExported() && !includePublic || !m.IsExported() && !includeHidden
		}))
	}
	if c.config.Enabled(StaticMethods) {
		statics, err := c.types.StaticMethods(t)
		if err != nil {
			return nil, nil, err
		}
		collect(statics)
	}
	return properties, required, nil
}

func (c *GenerationContext) collectMember(m *typemodel.MemberScope, properties *[]*typemodel.MemberScope, names, required map[string]bool) {
	named := m
	if !m.IsContainerItem() {
		if override, ok := c.config.propertyNameOverride(m); ok {
			named = m.WithOverriddenName(override)
		}
		name := named.PropertyName()
		if c.config.isRequired(m) {
			required[name] = true
		}
		if names[name] {
			c.logger.Debug("ignoring overridden member", "member", named.Path())
			return
		}
	}
	names[named.PropertyName()] = true
	*properties = append(*properties, named)
}

// populateMember returns the schema of a property, fanning out into an
// anyOf when the member type is overridden by or resolves to several types.
func (c *GenerationContext) populateMember(m *typemodel.MemberScope) (*jsonnode.Node, error) {
	overrides, ok := c.config.targetTypeOverrides(m)
	if !ok && !m.IsVoid() {
		overrides = c.resolveSubtypes(m.Type())
	}
	options := []*typemodel.MemberScope{m}
	if len(overrides) > 0 {
		options = make([]*typemodel.MemberScope, len(overrides))
		for i, t := range overrides {
			options[i] = m.WithOverriddenType(t)
		}
	}
	// nullability is decided on the declared member, not the overrides
	nullable := m.IsVoid() ||
		(!m.IsContainerItem() || c.config.Enabled(NullableArrayItemsAllowed)) && c.config.isNullable(m)
	if len(options) == 1 {
		return c.createMemberSchema(options[0], nullable, false, nil)
	}
	anyOf := jsonnode.NewArray()
	if nullable {
		anyOf.Append(jsonnode.NewObject().Set(c.Keyword(keyword.Type), jsonnode.String(keyword.TypeNull.String())))
	}
	for _, option := range options {
		schema, err := c.createMemberSchema(option, false, false, nil)
		if err != nil {
			return nil, err
		}
		anyOf.Append(schema)
	}
	return jsonnode.NewObject().Set(c.Keyword(keyword.AnyOf), anyOf), nil
}

func (c *GenerationContext) createMemberSchema(m *typemodel.MemberScope, nullable, forceInline bool, ignored CustomPropertyDefinitionProvider) (*jsonnode.Node, error) {
	if m.IsVoid() {
		return jsonnode.Bool(false), nil
	}
	attrs, err := c.collectMemberAttributes(m)
	if err != nil {
		return nil, withPath(m.Path(), err)
	}
	node := jsonnode.NewObject()
	if err := c.populateMemberSchema(m, node, nullable, forceInline, attrs, ignored); err != nil {
		return nil, err
	}
	return node, nil
}

func (c *GenerationContext) populateMemberSchema(m *typemodel.MemberScope, target *jsonnode.Node, nullable, forceInline bool,
	attrs *jsonnode.Node, ignored CustomPropertyDefinitionProvider) error {
	custom, err := c.memberCustomDefinition(m, ignored)
	if err != nil {
		return withPath(m.Path(), err)
	}
	if custom != nil && custom.IsInline() {
		target.SetAll(custom.Value.Copy())
		if custom.IncludesAttributes() {
			mergeMissing(target, attrs)
			typeAttrs, err := c.collectTypeAttributes(m.TypeScope(), allowedTypes(target, c.Keyword(keyword.Type)))
			if err != nil {
				return withPath(m.Path(), err)
			}
			mergeMissing(target, typeAttrs)
		}
		if nullable {
			c.MakeNullable(target)
		}
		return nil
	}

	var container *jsonnode.Node
	switch {
	case custom != nil && !custom.IncludesAttributes() || attrs.Len() == 0:
		container = target
	case custom == nil && m.IsContainer():
		container = target
		mergeMissing(target, attrs)
	default:
		// member attributes sit next to the reference, not inside the
		// shared definition
		container = jsonnode.NewObject()
		target.Set(c.Keyword(keyword.AllOf), jsonnode.NewArray(container, attrs))
	}
	return c.traverse(m.TypeScope(), m, container, nullable, forceInline, nil)
}

func isComparable(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Comparable()
}
