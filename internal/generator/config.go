// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"slices"

	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// Module registers resolvers and providers on a ConfigBuilder.
type Module interface {
	Apply(b *ConfigBuilder)
}

// ModuleFunc adapts a function to the Module interface.
type ModuleFunc func(b *ConfigBuilder)

func (f ModuleFunc) Apply(b *ConfigBuilder) { f(b) }

type typeConfig struct {
	attrs             *attributes[*typemodel.TypeScope]
	id, anchor        chain[*typemodel.TypeScope, string]
	customDefinitions []CustomDefinitionProvider
	subtypes          []SubtypeResolver
	overrides         []TypeAttributeOverride
	sorter            PropertySorter
	naming            DefinitionNamingStrategy
}

func newTypeConfig() *typeConfig {
	return &typeConfig{attrs: &attributes[*typemodel.TypeScope]{}}
}

func (c *typeConfig) clone() *typeConfig {
	return &typeConfig{
		attrs:             c.attrs.clone(),
		id:                c.id.clone(),
		anchor:            c.anchor.clone(),
		customDefinitions: slices.Clone(c.customDefinitions),
		subtypes:          slices.Clone(c.subtypes),
		overrides:         slices.Clone(c.overrides),
		sorter:            c.sorter,
		naming:            c.naming,
	}
}

type memberConfig struct {
	attrs                *attributes[*typemodel.MemberScope]
	ignore, required     chain[*typemodel.MemberScope, bool]
	nullable             chain[*typemodel.MemberScope, bool]
	readOnly, writeOnly  chain[*typemodel.MemberScope, bool]
	targetTypeOverrides  chain[*typemodel.MemberScope, []*typemodel.ResolvedType]
	propertyNameOverride chain[*typemodel.MemberScope, string]
	customDefinitions    []CustomPropertyDefinitionProvider
	overrides            []InstanceAttributeOverride
}

func newMemberConfig() *memberConfig {
	return &memberConfig{attrs: &attributes[*typemodel.MemberScope]{}}
}

func (c *memberConfig) clone() *memberConfig {
	return &memberConfig{
		attrs:                c.attrs.clone(),
		ignore:               c.ignore.clone(),
		required:             c.required.clone(),
		nullable:             c.nullable.clone(),
		readOnly:             c.readOnly.clone(),
		writeOnly:            c.writeOnly.clone(),
		targetTypeOverrides:  c.targetTypeOverrides.clone(),
		propertyNameOverride: c.propertyNameOverride.clone(),
		customDefinitions:    slices.Clone(c.customDefinitions),
		overrides:            slices.Clone(c.overrides),
	}
}

// ConfigBuilder collects options, modules and registrations. Build freezes
// them into a Config.
type ConfigBuilder struct {
	dialect keyword.Dialect
	preset  Preset
	with    []Option
	without []Option
	modules []Module
	types   *typeConfig
	fields  *memberConfig
	methods *memberConfig
}

// NewConfigBuilder starts a configuration for the dialect with the preset's
// options enabled.
func NewConfigBuilder(d keyword.Dialect, p Preset) *ConfigBuilder {
	return &ConfigBuilder{
		dialect: d,
		preset:  p,
		types:   newTypeConfig(),
		fields:  newMemberConfig(),
		methods: newMemberConfig(),
	}
}

// Dialect returns the target dialect.
func (b *ConfigBuilder) Dialect() keyword.Dialect { return b.dialect }

// With enables options.
func (b *ConfigBuilder) With(opts ...Option) *ConfigBuilder {
	for _, o := range opts {
		b.without = slices.DeleteFunc(b.without, func(x Option) bool { return x == o })
		if !slices.Contains(b.with, o) {
			b.with = append(b.with, o)
		}
	}
	return b
}

// Without disables options, including those enabled by the preset.
func (b *ConfigBuilder) Without(opts ...Option) *ConfigBuilder {
	for _, o := range opts {
		b.with = slices.DeleteFunc(b.with, func(x Option) bool { return x == o })
		if !slices.Contains(b.without, o) {
			b.without = append(b.without, o)
		}
	}
	return b
}

// IsEnabled reports whether o is switched on, ignoring overrides between
// options.
func (b *ConfigBuilder) IsEnabled(o Option) bool {
	if slices.Contains(b.with, o) {
		return true
	}
	return !slices.Contains(b.without, o) && b.preset.EnabledByDefault(o)
}

// WithModule adds a module. Modules are applied in the order they were
// added, before the modules installed by options.
func (b *ConfigBuilder) WithModule(m Module) *ConfigBuilder {
	b.modules = append(b.modules, m)
	return b
}

// ForTypesInGeneral returns the part for type-level registrations.
func (b *ConfigBuilder) ForTypesInGeneral() *TypePart {
	return &TypePart{AttributePart: AttributePart[*typemodel.TypeScope]{attrs: b.types.attrs}, cfg: b.types}
}

// ForFields returns the part for field registrations.
func (b *ConfigBuilder) ForFields() *MemberPart {
	return &MemberPart{AttributePart: AttributePart[*typemodel.MemberScope]{attrs: b.fields.attrs}, cfg: b.fields}
}

// ForMethods returns the part for method registrations.
func (b *ConfigBuilder) ForMethods() *MemberPart {
	return &MemberPart{AttributePart: AttributePart[*typemodel.MemberScope]{attrs: b.methods.attrs}, cfg: b.methods}
}

// Build applies all modules and returns the frozen configuration. The
// builder itself is left unchanged and may be built again.
func (b *ConfigBuilder) Build() *Config {
	enabled := make(map[Option]bool)
	for _, o := range Options() {
		enabled[o] = b.IsEnabled(o)
	}
	for _, o := range Options() {
		if !b.IsEnabled(o) {
			continue
		}
		for _, other := range optionTable[o].overrides {
			enabled[other] = false
		}
	}

	work := &ConfigBuilder{
		dialect: b.dialect,
		preset:  b.preset,
		with:    slices.Clone(b.with),
		without: slices.Clone(b.without),
		types:   b.types.clone(),
		fields:  b.fields.clone(),
		methods: b.methods.clone(),
	}
	modules := slices.Clone(b.modules)
	for _, o := range Options() {
		if m := o.module(enabled[o]); m != nil {
			modules = append(modules, m)
		}
	}
	for _, m := range modules {
		m.Apply(work)
	}

	cfg := &Config{
		dialect: b.dialect,
		options: enabled,
		types:   work.types,
		fields:  work.fields,
		methods: work.methods,
		modules: modules,
	}
	if cfg.types.sorter == nil {
		cfg.types.sorter = DefaultPropertyOrder
	}
	if cfg.types.naming == nil {
		cfg.types.naming = DefaultNamingStrategy()
	}
	return cfg
}

// TypePart holds registrations that apply to types in general.
type TypePart struct {
	AttributePart[*typemodel.TypeScope]
	cfg *typeConfig
}

// WithCustomDefinitionProvider adds a provider. Providers are consulted in
// registration order and the first non-nil definition wins.
func (p *TypePart) WithCustomDefinitionProvider(provider CustomDefinitionProvider) *TypePart {
	p.cfg.customDefinitions = append(p.cfg.customDefinitions, provider)
	return p
}

func (p *TypePart) WithSubtypeResolver(r SubtypeResolver) *TypePart {
	p.cfg.subtypes = append(p.cfg.subtypes, r)
	return p
}

// WithTypeAttributeOverride adds an override applied to every type schema
// after all attributes were collected.
func (p *TypePart) WithTypeAttributeOverride(o TypeAttributeOverride) *TypePart {
	p.cfg.overrides = append(p.cfg.overrides, o)
	return p
}

func (p *TypePart) WithIDResolver(fn func(*typemodel.TypeScope) (string, bool)) *TypePart {
	p.cfg.id.add(fn, AllScopes)
	return p
}

func (p *TypePart) WithAnchorResolver(fn func(*typemodel.TypeScope) (string, bool)) *TypePart {
	p.cfg.anchor.add(fn, AllScopes)
	return p
}

// WithPropertySorter replaces the property order. The last registration wins.
func (p *TypePart) WithPropertySorter(s PropertySorter) *TypePart {
	p.cfg.sorter = s
	return p
}

// WithDefinitionNamingStrategy replaces the naming of definitions. The last
// registration wins.
func (p *TypePart) WithDefinitionNamingStrategy(s DefinitionNamingStrategy) *TypePart {
	p.cfg.naming = s
	return p
}

// MemberPart holds registrations for fields or for methods.
type MemberPart struct {
	AttributePart[*typemodel.MemberScope]
	cfg *memberConfig
}

func (p *MemberPart) view(mode ScopeMode) *MemberPart {
	return &MemberPart{AttributePart: AttributePart[*typemodel.MemberScope]{attrs: p.cfg.attrs, mode: mode}, cfg: p.cfg}
}

// ContainerItemsOnly returns a view whose registrations only apply to
// container item scopes, ahead of registrations for all scopes.
func (p *MemberPart) ContainerItemsOnly() *MemberPart { return p.view(ContainerItemsOnly) }

// MemberOnly returns a view whose registrations do not apply to container
// item scopes.
func (p *MemberPart) MemberOnly() *MemberPart { return p.view(MemberOnly) }

// WithIgnoreCheck excludes members for which any check holds.
func (p *MemberPart) WithIgnoreCheck(check func(*typemodel.MemberScope) bool) *MemberPart {
	p.cfg.ignore.addCheck(check, p.mode, true)
	return p
}

// WithRequiredResolver adds a first-wins resolver for required-ness.
func (p *MemberPart) WithRequiredResolver(fn func(*typemodel.MemberScope) (bool, bool)) *MemberPart {
	p.cfg.required.add(fn, p.mode)
	return p
}

// WithRequiredCheck marks members as required when check holds.
func (p *MemberPart) WithRequiredCheck(check func(*typemodel.MemberScope) bool) *MemberPart {
	p.cfg.required.addCheck(check, p.mode, true)
	return p
}

// WithNullableResolver adds a first-wins resolver for nullability.
func (p *MemberPart) WithNullableResolver(fn func(*typemodel.MemberScope) (bool, bool)) *MemberPart {
	p.cfg.nullable.add(fn, p.mode)
	return p
}

func (p *MemberPart) WithReadOnlyCheck(check func(*typemodel.MemberScope) bool) *MemberPart {
	p.cfg.readOnly.addCheck(check, p.mode, true)
	return p
}

func (p *MemberPart) WithWriteOnlyCheck(check func(*typemodel.MemberScope) bool) *MemberPart {
	p.cfg.writeOnly.addCheck(check, p.mode, true)
	return p
}

// WithTargetTypeOverridesResolver replaces the member type. Several types
// produce an anyOf over all of them.
func (p *MemberPart) WithTargetTypeOverridesResolver(fn func(*typemodel.MemberScope) ([]*typemodel.ResolvedType, bool)) *MemberPart {
	p.cfg.targetTypeOverrides.add(fn, p.mode)
	return p
}

func (p *MemberPart) WithPropertyNameOverrideResolver(fn func(*typemodel.MemberScope) (string, bool)) *MemberPart {
	p.cfg.propertyNameOverride.add(fn, p.mode)
	return p
}

func (p *MemberPart) WithCustomDefinitionProvider(provider CustomPropertyDefinitionProvider) *MemberPart {
	p.cfg.customDefinitions = append(p.cfg.customDefinitions, provider)
	return p
}

// WithInstanceAttributeOverride adds an override applied to the collected
// attributes of every member.
func (p *MemberPart) WithInstanceAttributeOverride(o InstanceAttributeOverride) *MemberPart {
	p.cfg.overrides = append(p.cfg.overrides, o)
	return p
}

// Config is the frozen generator configuration. It is safe to share between
// generators that run sequentially.
type Config struct {
	dialect keyword.Dialect
	options map[Option]bool
	types   *typeConfig
	fields  *memberConfig
	methods *memberConfig
	modules []Module
}

// Dialect returns the target dialect.
func (c *Config) Dialect() keyword.Dialect { return c.dialect }

// Enabled reports whether o is in effect, after overrides between options.
func (c *Config) Enabled(o Option) bool { return c.options[o] }

// Keyword returns the spelling of k in the target dialect.
func (c *Config) Keyword(k keyword.Keyword) string { return k.For(c.dialect) }

// NamingStrategy returns the definition naming strategy.
func (c *Config) NamingStrategy() DefinitionNamingStrategy { return c.types.naming }

func (c *Config) memberConfig(m *typemodel.MemberScope) *memberConfig {
	if m.IsMethod() {
		return c.methods
	}
	return c.fields
}

func (c *Config) shouldIgnore(m *typemodel.MemberScope) bool {
	ignore, _ := c.memberConfig(m).ignore.resolve(m, m.IsContainerItem())
	return ignore
}

func (c *Config) isRequired(m *typemodel.MemberScope) bool {
	required, _ := c.memberConfig(m).required.resolve(m, m.IsContainerItem())
	return required
}

func (c *Config) isNullable(m *typemodel.MemberScope) bool {
	if nullable, ok := c.memberConfig(m).nullable.resolve(m, m.IsContainerItem()); ok {
		return nullable
	}
	if m.IsContainerItem() {
		return false
	}
	if m.IsMethod() {
		return c.Enabled(NullableMethodReturnValuesByDefault)
	}
	return c.Enabled(NullableFieldsByDefault)
}

func (c *Config) isReadOnly(m *typemodel.MemberScope) bool {
	v, _ := c.memberConfig(m).readOnly.resolve(m, m.IsContainerItem())
	return v
}

func (c *Config) isWriteOnly(m *typemodel.MemberScope) bool {
	v, _ := c.memberConfig(m).writeOnly.resolve(m, m.IsContainerItem())
	return v
}

func (c *Config) targetTypeOverrides(m *typemodel.MemberScope) ([]*typemodel.ResolvedType, bool) {
	return c.memberConfig(m).targetTypeOverrides.resolve(m, m.IsContainerItem())
}

func (c *Config) propertyNameOverride(m *typemodel.MemberScope) (string, bool) {
	return c.memberConfig(m).propertyNameOverride.resolve(m, m.IsContainerItem())
}

func (c *Config) sortProperties(a, b *typemodel.MemberScope) int { return c.types.sorter(a, b) }

// resetters returns every registered module, provider and strategy that
// keeps per-run state.
func (c *Config) resetters() []Resetter {
	var out []Resetter
	seen := make(map[any]bool)
	add := func(v any) {
		r, ok := v.(Resetter)
		if !ok || !isComparable(v) || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, r)
	}
	for _, m := range c.modules {
		add(m)
	}
	for _, p := range c.types.customDefinitions {
		add(p)
	}
	for _, p := range c.fields.customDefinitions {
		add(p)
	}
	for _, p := range c.methods.customDefinitions {
		add(p)
	}
	add(c.types.naming)
	return out
}
