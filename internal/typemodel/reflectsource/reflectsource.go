// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package reflectsource registers declarations for runtime types.
//
// Named types are declared as "importpath.Name". Embedded structs without a
// JSON name become supertypes of the embedding struct, so their fields are
// promoted the way encoding/json promotes them.
package reflectsource

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/dacolabs/schemagen/internal/typemodel"
)

// Builder adds declarations for runtime types to a universe.
type Builder struct {
	universe *typemodel.Universe
	declared map[reflect.Type]string
	enums    map[reflect.Type][]typemodel.Constant
	// unexported also declares unexported struct fields
	unexported bool
	methods    bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithUnexportedFields declares unexported struct fields too.
func WithUnexportedFields() Option { return func(b *Builder) { b.unexported = true } }

// WithMethods declares exported methods. Types reachable through method
// signatures are declared as well.
func WithMethods() Option { return func(b *Builder) { b.methods = true } }

// New returns a builder adding to u.
func New(u *typemodel.Universe, opts ...Option) *Builder {
	b := &Builder{
		universe: u,
		declared: make(map[reflect.Type]string),
		enums:    make(map[reflect.Type][]typemodel.Constant),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Enum records the values of an enumerated named type. All values must be
// of the same type. The constant names are the formatted values.
func (b *Builder) Enum(values ...any) error {
	if len(values) == 0 {
		return nil
	}
	t := reflect.TypeOf(values[0])
	if t == nil || t.Name() == "" {
		return fmt.Errorf("enum values must be of a named type, got %T", values[0])
	}
	if _, ok := b.declared[t]; ok {
		return fmt.Errorf("enum %s: type already declared", t)
	}
	for _, v := range values {
		if reflect.TypeOf(v) != t {
			return fmt.Errorf("enum %s: value %v is of type %T", t, v, v)
		}
		value, ok := basicValue(reflect.ValueOf(v))
		if !ok {
			return fmt.Errorf("enum %s: kind %s cannot be enumerated", t, t.Kind())
		}
		b.enums[t] = append(b.enums[t], typemodel.Constant{Name: fmt.Sprint(v), Value: value})
	}
	return nil
}

// basicValue converts v to the predeclared type of its kind.
func basicValue(v reflect.Value) (any, bool) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return v.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return nil, false
}

// Add declares the given types and everything they reference. It returns
// the declaration names of the given types.
func (b *Builder) Add(types ...reflect.Type) ([]string, error) {
	names := make([]string, 0, len(types))
	for _, t := range types {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		ref, err := b.Ref(t)
		if err != nil {
			return nil, err
		}
		if ref.Kind != typemodel.RefNamed {
			return nil, fmt.Errorf("type %s is not a named type", t)
		}
		names = append(names, ref.Name)
	}
	return names, nil
}

// Name returns the declaration name of a named type.
func Name(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

var qualified = regexp.MustCompile(`[\w./-]+\.(\w+)`)

// simpleName strips package paths inside generic instantiation names.
func simpleName(t reflect.Type) string {
	return qualified.ReplaceAllString(t.Name(), "$1")
}

var (
	jsonMarshaler = reflect.TypeFor[json.Marshaler]()
	errorType     = reflect.TypeFor[error]()
)

// Ref returns a reference to t, declaring named types on first use.
func (b *Builder) Ref(t reflect.Type) (typemodel.TypeRef, error) {
	switch t.Kind() {
	case reflect.Pointer:
		elem, err := b.Ref(t.Elem())
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		return typemodel.PointerTo(elem), nil
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return typemodel.TypeRef{}, fmt.Errorf("type %s has no JSON representation", t)
	}
	if t.Name() == "" {
		return b.literal(t)
	}
	if t.PkgPath() == "" && t.Kind() != reflect.Interface {
		return typemodel.Named(t.Name()), nil
	}
	if t == errorType {
		return typemodel.Named("string"), nil
	}
	if name, ok := b.declared[t]; ok {
		return typemodel.Named(name), nil
	}
	return b.declare(t)
}

func (b *Builder) literal(t reflect.Type) (typemodel.TypeRef, error) {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := b.Ref(t.Elem())
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		return typemodel.SliceOf(elem), nil
	case reflect.Map:
		key, err := b.Ref(t.Key())
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		value, err := b.Ref(t.Elem())
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		return typemodel.MapOf(key, value), nil
	case reflect.Interface:
		return typemodel.Named(typemodel.Any), nil
	case reflect.Struct:
		return typemodel.TypeRef{}, fmt.Errorf("anonymous struct %s is not supported", t)
	}
	return typemodel.TypeRef{}, fmt.Errorf("unsupported type %s", t)
}

func (b *Builder) declare(t reflect.Type) (typemodel.TypeRef, error) {
	name := Name(t)
	if d, ok := b.universe.Lookup(name); ok {
		if d.Runtime != nil && d.Runtime != t {
			return typemodel.TypeRef{}, fmt.Errorf("declaration %s is already bound to %s", name, d.Runtime)
		}
		b.declared[t] = name
		return typemodel.Named(name), nil
	}
	d := &typemodel.Decl{Name: name, Simple: simpleName(t), Kind: kindOf(t), Runtime: t}
	// registered before members so that recursive types terminate
	b.declared[t] = name
	if err := b.universe.Add(d); err != nil {
		return typemodel.TypeRef{}, err
	}
	if err := b.describe(d, t); err != nil {
		return typemodel.TypeRef{}, fmt.Errorf("declaring %s: %w", name, err)
	}
	return typemodel.Named(name), nil
}

func kindOf(t reflect.Type) typemodel.Kind {
	switch t.Kind() {
	case reflect.Struct:
		return typemodel.KindStruct
	case reflect.Interface:
		return typemodel.KindInterface
	case reflect.Slice, reflect.Array:
		return typemodel.KindCollection
	case reflect.Map:
		return typemodel.KindMap
	}
	return typemodel.KindBasic
}

func (b *Builder) describe(d *typemodel.Decl, t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		d.Underlying = t.Kind().String()
		d.Constants = b.enums[t]
		return nil
	case reflect.Interface:
		return nil
	case reflect.Slice, reflect.Array:
		elem, err := b.Ref(t.Elem())
		if err != nil {
			return err
		}
		d.Element = &elem
	case reflect.Map:
		key, err := b.Ref(t.Key())
		if err != nil {
			return err
		}
		value, err := b.Ref(t.Elem())
		if err != nil {
			return err
		}
		d.Key, d.Value = &key, &value
	case reflect.Struct:
		if slices.Contains(typemodel.Opaque, d.Name) {
			return nil
		}
		if err := b.fields(d, t); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported kind %s", t.Kind())
	}
	if b.methods && !t.Implements(jsonMarshaler) {
		return b.declareMethods(d, t)
	}
	return nil
}

func (b *Builder) fields(d *typemodel.Decl, t reflect.Type) error {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous && embeddable(f) {
			ref, err := b.Ref(f.Type)
			if err != nil {
				return err
			}
			ref.Pointer = false
			d.Supertypes = append(d.Supertypes, ref)
			continue
		}
		if !f.IsExported() && !b.unexported {
			continue
		}
		ref, err := b.Ref(f.Type)
		if err != nil {
			// channels and functions are left out like encoding/json does
			continue
		}
		d.Fields = append(d.Fields, &typemodel.Field{
			Name:     f.Name,
			Type:     ref,
			Tag:      f.Tag,
			Exported: f.IsExported(),
		})
	}
	return nil
}

// embeddable reports whether an embedded field promotes its members.
func embeddable(f reflect.StructField) bool {
	t := f.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name == ""
}

func (b *Builder) declareMethods(d *typemodel.Decl, t reflect.Type) error {
	for i := range t.NumMethod() {
		m := t.Method(i)
		if m.Type.NumOut() == 0 || m.Type.IsVariadic() {
			continue
		}
		method := &typemodel.Method{Name: m.Name, Exported: m.IsExported()}
		supported := true
		// the receiver is the first input
		for j := 1; j < m.Type.NumIn() && supported; j++ {
			ref, err := b.Ref(m.Type.In(j))
			if err != nil {
				supported = false
				break
			}
			method.Params = append(method.Params, ref)
		}
		result, err := b.Ref(m.Type.Out(0))
		if err != nil || !supported {
			continue
		}
		method.Result = &result
		d.Methods = append(d.Methods, method)
	}
	return nil
}
