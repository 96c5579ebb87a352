// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"fmt"
	"slices"
	"strings"
)

// Option is a named switch that either toggles generator behavior directly
// or installs a standard module.
type Option int

const (
	SchemaVersionIndicator Option = iota
	AdditionalFixedTypes
	SimplifiedEnums
	FlattenedEnums
	FlattenedEnumsFromConstantValues
	FlattenedOptionals
	FlattenedPointers
	ValuesFromConstantFields
	PublicStaticFields
	PublicNonStaticFields
	NonPublicStaticFields
	NonPublicNonStaticFieldsWithGetters
	NonPublicNonStaticFieldsWithoutGetters
	TransientFields
	StaticMethods
	VoidMethods
	GetterMethods
	NonStaticNonVoidNonGetterMethods
	NullableFieldsByDefault
	NullableMethodReturnValuesByDefault
	NullableArrayItemsAllowed
	FieldsDerivedFromArgumentFreeMethods
	MapValuesAsAdditionalProperties
	EnumKeywordForSingleValues
	ForbiddenAdditionalPropertiesByDefault
	DefinitionsForAllObjects
	DefinitionForMainSchema
	InlineAllSchemas
	PlainDefinitionKeys
	ExtraOpenAPIFormatValues
	AllOfCleanupAtTheEnd
	StrictTypeInfo
	NullableAlwaysAsAnyOf
	InlineNullableSchemas
	DuplicateMemberAttributeCleanupAtTheEnd
	AcceptSingleValueAsArray
)

type optionInfo struct {
	name        string
	description string
	enabled     func() Module
	disabled    func() Module
	overrides   []Option
}

var optionTable = []optionInfo{
	SchemaVersionIndicator: {name: "schema-version-indicator", description: "emit the $schema keyword"},
	AdditionalFixedTypes: {
		name:        "additional-fixed-types",
		description: "fixed schemas for time, url, big numbers and raw JSON besides the basic types",
		enabled:     SimpleTypeModuleWithAdditionalTypes,
		disabled:    SimpleTypeModuleForBasicTypes,
	},
	SimplifiedEnums: {name: "simplified-enums", description: "enums as objects holding their constant values", enabled: EnumModuleAsValues},
	FlattenedEnums: {
		name:        "flattened-enums",
		description: "enums as strings from their constant names",
		enabled:     EnumModuleAsNames,
		overrides:   []Option{SimplifiedEnums},
	},
	FlattenedEnumsFromConstantValues: {
		name:        "flattened-enums-from-constant-values",
		description: "enums as their constant values",
		enabled:     EnumModuleAsConstantValues,
		overrides:   []Option{FlattenedEnums, SimplifiedEnums},
	},
	FlattenedOptionals: {
		name:        "flattened-optionals",
		description: "optional wrappers collapse to their wrapped type",
		enabled:     func() Module { return NewFlattenedWrapperModule(DefaultOptionalWrappers...) },
	},
	FlattenedPointers:        {name: "flattened-pointers", description: "pointer members are nullable", enabled: func() Module { return FlattenedPointerModule{} }},
	ValuesFromConstantFields: {name: "values-from-constant-fields", description: "constant fields become single-value enums", enabled: func() Module { return ConstantValueModule{} }},
	PublicStaticFields:       {name: "public-static-fields", description: "include exported static fields"},
	PublicNonStaticFields: {
		name:        "public-non-static-fields",
		description: "include exported instance fields",
		disabled:    func() Module { return FieldExclusionModule(isPublicNonStaticField) },
	},
	NonPublicStaticFields: {name: "non-public-static-fields", description: "include unexported static fields"},
	NonPublicNonStaticFieldsWithGetters: {
		name:        "non-public-non-static-fields-with-getters",
		description: "include unexported instance fields that have a getter",
		disabled:    func() Module { return FieldExclusionModule(isHiddenFieldWithGetter) },
	},
	NonPublicNonStaticFieldsWithoutGetters: {
		name:        "non-public-non-static-fields-without-getters",
		description: "include unexported instance fields without getter",
		disabled:    func() Module { return FieldExclusionModule(isHiddenFieldWithoutGetter) },
	},
	TransientFields: {
		name:        "transient-fields",
		description: "include fields excluded from serialization",
		disabled:    func() Module { return FieldExclusionModule(isTransientField) },
	},
	StaticMethods: {name: "static-methods", description: "include static methods"},
	VoidMethods: {
		name:        "void-methods",
		description: "include methods without result",
		disabled:    func() Module { return MethodExclusionModule(isVoidMethod) },
	},
	GetterMethods: {
		name:        "getter-methods",
		description: "include getters of fields",
		disabled:    func() Module { return MethodExclusionModule(isGetterMethod) },
	},
	NonStaticNonVoidNonGetterMethods: {
		name:        "non-static-non-void-non-getter-methods",
		description: "include other instance methods with a result",
		disabled:    func() Module { return MethodExclusionModule(isOtherMethod) },
	},
	NullableFieldsByDefault:              {name: "nullable-fields-by-default", description: "fields are nullable unless stated otherwise"},
	NullableMethodReturnValuesByDefault:  {name: "nullable-method-return-values-by-default", description: "method results are nullable unless stated otherwise"},
	NullableArrayItemsAllowed:            {name: "nullable-array-items-allowed", description: "container items may be nullable"},
	FieldsDerivedFromArgumentFreeMethods: {name: "fields-derived-from-argument-free-methods", description: "getters appear under their field name"},
	MapValuesAsAdditionalProperties: {
		name:        "map-values-as-additional-properties",
		description: "map value types become additionalProperties",
		enabled:     AdditionalPropertiesModuleForMapValues,
	},
	EnumKeywordForSingleValues: {name: "enum-keyword-for-single-values", description: "use enum instead of const for a single allowed value"},
	ForbiddenAdditionalPropertiesByDefault: {
		name:        "forbidden-additional-properties-by-default",
		description: "objects do not allow undeclared properties",
		enabled:     AdditionalPropertiesModuleForbidden,
	},
	DefinitionsForAllObjects: {name: "definitions-for-all-objects", description: "every object type gets a named definition"},
	DefinitionForMainSchema:  {name: "definition-for-main-schema", description: "the main type is also placed in the definitions"},
	InlineAllSchemas: {
		name:        "inline-all-schemas",
		description: "never use named definitions",
		enabled:     func() Module { return InlineSchemaModule{} },
		overrides:   []Option{DefinitionsForAllObjects, DefinitionForMainSchema},
	},
	PlainDefinitionKeys:                     {name: "plain-definition-keys", description: "definition names only use letters, digits, dots, dashes and underscores"},
	ExtraOpenAPIFormatValues:                {name: "extra-openapi-format-values", description: "add OpenAPI format values for numbers"},
	AllOfCleanupAtTheEnd:                    {name: "allof-cleanup-at-the-end", description: "merge allOf parts after generation"},
	StrictTypeInfo:                          {name: "strict-type-info", description: "add the implied type keyword wherever it is missing"},
	NullableAlwaysAsAnyOf:                   {name: "nullable-always-as-anyof", description: "express nullability as anyOf with a null schema"},
	InlineNullableSchemas:                   {name: "inline-nullable-schemas", description: "never create nullable definitions"},
	DuplicateMemberAttributeCleanupAtTheEnd: {name: "duplicate-member-attribute-cleanup-at-the-end", description: "drop member attributes repeated by the referenced definition"},
	AcceptSingleValueAsArray: {
		name:        "accept-single-value-as-array",
		description: "container members also accept a single item",
		enabled:     func() Module { return SingleValueAsArrayModule{} },
	},
}

// Options returns every option in declaration order.
func Options() []Option {
	out := make([]Option, len(optionTable))
	for i := range optionTable {
		out[i] = Option(i)
	}
	return out
}

func (o Option) String() string { return optionTable[o].name }

// Description returns a one-line summary of the option's effect.
func (o Option) Description() string { return optionTable[o].description }

// Overrides reports whether enabling o disables other.
func (o Option) Overrides(other Option) bool {
	return slices.Contains(optionTable[o].overrides, other)
}

func (o Option) module(enabled bool) Module {
	factory := optionTable[o].disabled
	if enabled {
		factory = optionTable[o].enabled
	}
	if factory == nil {
		return nil
	}
	return factory()
}

// ParseOption resolves an option by its kebab-case name.
func ParseOption(name string) (Option, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	for i, info := range optionTable {
		if info.name == normalized {
			return Option(i), nil
		}
	}
	return 0, fmt.Errorf("unknown option: %s", name)
}

// Preset is a set of options enabled by default.
type Preset struct {
	name    string
	enabled []Option
}

var (
	// FullDocumentation includes every member and documents nullability.
	FullDocumentation = Preset{name: "full-documentation", enabled: []Option{
		ValuesFromConstantFields,
		PublicStaticFields,
		PublicNonStaticFields,
		NonPublicStaticFields,
		NonPublicNonStaticFieldsWithGetters,
		NonPublicNonStaticFieldsWithoutGetters,
		TransientFields,
		StaticMethods,
		VoidMethods,
		GetterMethods,
		NonStaticNonVoidNonGetterMethods,
		SimplifiedEnums,
		DefinitionsForAllObjects,
		NullableFieldsByDefault,
		NullableMethodReturnValuesByDefault,
		AllOfCleanupAtTheEnd,
	}}
	// PlainJSON describes the serialized form of instance fields.
	PlainJSON = Preset{name: "plain-json", enabled: []Option{
		SchemaVersionIndicator,
		AdditionalFixedTypes,
		FlattenedEnums,
		FlattenedOptionals,
		FlattenedPointers,
		ValuesFromConstantFields,
		PublicNonStaticFields,
		NonPublicNonStaticFieldsWithGetters,
		NonPublicNonStaticFieldsWithoutGetters,
		MapValuesAsAdditionalProperties,
		AllOfCleanupAtTheEnd,
	}}
	// GoObject describes exported fields and methods as seen from Go code.
	GoObject = Preset{name: "go-object", enabled: []Option{
		ValuesFromConstantFields,
		PublicStaticFields,
		PublicNonStaticFields,
		StaticMethods,
		VoidMethods,
		GetterMethods,
		NonStaticNonVoidNonGetterMethods,
		SimplifiedEnums,
		AllOfCleanupAtTheEnd,
	}}
)

// Presets lists the built-in presets.
var Presets = []Preset{FullDocumentation, PlainJSON, GoObject}

// NewPreset creates a preset enabling the given options.
func NewPreset(name string, enabled ...Option) Preset {
	return Preset{name: name, enabled: slices.Clone(enabled)}
}

// Name returns the preset name.
func (p Preset) Name() string { return p.name }

// EnabledByDefault reports whether the preset enables o.
func (p Preset) EnabledByDefault(o Option) bool { return slices.Contains(p.enabled, o) }

// ParsePreset resolves a built-in preset by name. An empty name yields PlainJSON.
func ParsePreset(name string) (Preset, error) {
	if name == "" {
		return PlainJSON, nil
	}
	for _, p := range Presets {
		if p.name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset: %s", name)
}
