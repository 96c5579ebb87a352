// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package gosource loads declarations from Go source packages.
//
// Packages are type-checked with golang.org/x/tools/go/packages. Doc comments
// of the loaded packages become declaration, field, method and constant docs.
// Constants declared with a named basic type enumerate that type.
package gosource

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"log/slog"
	"reflect"
	"slices"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/dacolabs/schemagen/internal/typemodel"
)

const loadMode = packages.NeedName | packages.NeedTypes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedImports

// Options tunes loading.
type Options struct {
	// Dir is the directory patterns are resolved in. Defaults to the
	// working directory.
	Dir        string
	BuildFlags []string
	// Methods also declares exported methods.
	Methods bool
	// Unexported also declares unexported fields.
	Unexported bool
	Logger     *slog.Logger
}

// Result is the outcome of Load.
type Result struct {
	Universe *typemodel.Universe
	// Types lists the exported non-generic named types of the matched
	// packages, sorted by name.
	Types []string
}

// Load type-checks the packages matching patterns and declares their named
// types and everything those reference.
func Load(ctx context.Context, patterns []string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        opts.Dir,
		BuildFlags: opts.BuildFlags,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages match %s", strings.Join(patterns, " "))
	}
	var errs []error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("loading packages: %w", errors.Join(errs...))
	}

	l := newLoader(opts)
	for _, p := range pkgs {
		l.collectDocs(p.Syntax)
	}
	res := &Result{Universe: l.universe}
	for _, p := range pkgs {
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !obj.Exported() || obj.IsAlias() {
				continue
			}
			named, ok := obj.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			ref, err := l.ref(named)
			if err != nil {
				opts.Logger.Debug("skipping type", "type", qualifiedName(obj), "error", err)
				continue
			}
			res.Types = append(res.Types, ref.Name)
		}
	}
	sort.Strings(res.Types)
	return res, nil
}

type loader struct {
	opts     Options
	universe *typemodel.Universe
	declared map[*types.TypeName]string
	// literal structs by type string
	literals map[string]string
	docs     map[token.Pos]string
}

func newLoader(opts Options) *loader {
	return &loader{
		opts:     opts,
		universe: typemodel.NewUniverse(),
		declared: make(map[*types.TypeName]string),
		literals: make(map[string]string),
		docs:     make(map[token.Pos]string),
	}
}

// collectDocs records doc comments by the position of the documented name.
func (l *loader) collectDocs(files []*ast.File) {
	for _, f := range files {
		for _, decl := range f.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				l.doc(decl.Name, decl.Doc)
			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					switch spec := spec.(type) {
					case *ast.TypeSpec:
						doc := spec.Doc
						if doc == nil && len(decl.Specs) == 1 {
							doc = decl.Doc
						}
						l.doc(spec.Name, doc)
						if st, ok := spec.Type.(*ast.StructType); ok {
							l.fieldDocs(st)
						}
					case *ast.ValueSpec:
						doc := spec.Doc
						if doc == nil && len(decl.Specs) == 1 {
							doc = decl.Doc
						}
						if doc == nil {
							doc = spec.Comment
						}
						for _, name := range spec.Names {
							l.doc(name, doc)
						}
					}
				}
			}
		}
	}
}

func (l *loader) fieldDocs(st *ast.StructType) {
	for _, field := range st.Fields.List {
		doc := field.Doc
		if doc == nil {
			doc = field.Comment
		}
		for _, name := range field.Names {
			l.doc(name, doc)
		}
		if nested, ok := field.Type.(*ast.StructType); ok {
			l.fieldDocs(nested)
		}
	}
}

func (l *loader) doc(name *ast.Ident, group *ast.CommentGroup) {
	if group == nil {
		return
	}
	if text := strings.TrimSpace(group.Text()); text != "" {
		l.docs[name.Pos()] = text
	}
}

func qualifiedName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func (l *loader) ref(t types.Type) (typemodel.TypeRef, error) {
	return l.refIn(t, "")
}

// refIn converts t. Literal structs are declared under hint.
func (l *loader) refIn(t types.Type, hint string) (typemodel.TypeRef, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return basicRef(t)
	case *types.Pointer:
		elem, err := l.refIn(t.Elem(), hint)
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		return typemodel.PointerTo(elem), nil
	case *types.Slice:
		elem, err := l.refIn(t.Elem(), hint)
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		return typemodel.SliceOf(elem), nil
	case *types.Array:
		elem, err := l.refIn(t.Elem(), hint)
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		return typemodel.SliceOf(elem), nil
	case *types.Map:
		key, err := l.refIn(t.Key(), hint)
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		value, err := l.refIn(t.Elem(), hint)
		if err != nil {
			return typemodel.TypeRef{}, err
		}
		return typemodel.MapOf(key, value), nil
	case *types.TypeParam:
		return typemodel.Param(t.Obj().Name()), nil
	case *types.Interface:
		return typemodel.Named(typemodel.Any), nil
	case *types.Struct:
		return l.literal(t, hint)
	case *types.Named:
		return l.named(t)
	}
	return typemodel.TypeRef{}, fmt.Errorf("type %s has no JSON representation", t)
}

func basicRef(t *types.Basic) (typemodel.TypeRef, error) {
	if t.Info()&types.IsUntyped != 0 || t.Kind() == types.UnsafePointer || t.Kind() == types.Invalid {
		return typemodel.TypeRef{}, fmt.Errorf("type %s has no JSON representation", t)
	}
	// byte and rune are spelled after the type they alias
	return typemodel.Named(types.Typ[t.Kind()].Name()), nil
}

func (l *loader) named(t *types.Named) (typemodel.TypeRef, error) {
	obj := t.Obj()
	if obj.Pkg() == nil {
		// error and comparable
		if obj.Name() == "error" {
			return typemodel.Named("string"), nil
		}
		return typemodel.Named(typemodel.Any), nil
	}
	name, err := l.declare(t.Origin())
	if err != nil {
		return typemodel.TypeRef{}, err
	}
	args := t.TypeArgs()
	var refs []typemodel.TypeRef
	for i := range args.Len() {
		arg, err := l.ref(args.At(i))
		if err != nil {
			return typemodel.TypeRef{}, fmt.Errorf("type argument of %s: %w", name, err)
		}
		refs = append(refs, arg)
	}
	return typemodel.Named(name, refs...), nil
}

func kindOf(u types.Type) (typemodel.Kind, error) {
	switch u := u.(type) {
	case *types.Basic:
		if _, err := basicRef(u); err != nil {
			return 0, err
		}
		return typemodel.KindBasic, nil
	case *types.Struct:
		return typemodel.KindStruct, nil
	case *types.Interface:
		return typemodel.KindInterface, nil
	case *types.Slice, *types.Array:
		return typemodel.KindCollection, nil
	case *types.Map:
		return typemodel.KindMap, nil
	}
	return 0, fmt.Errorf("underlying type %s has no JSON representation", u)
}

func (l *loader) declare(t *types.Named) (string, error) {
	obj := t.Obj()
	if name, ok := l.declared[obj]; ok {
		return name, nil
	}
	kind, err := kindOf(t.Underlying())
	if err != nil {
		return "", fmt.Errorf("declaring %s: %w", qualifiedName(obj), err)
	}
	d := &typemodel.Decl{
		Name:   qualifiedName(obj),
		Simple: obj.Name(),
		Kind:   kind,
		Doc:    l.docs[obj.Pos()],
	}
	for i := range t.TypeParams().Len() {
		d.Params = append(d.Params, typemodel.TypeParam{Name: t.TypeParams().At(i).Obj().Name()})
	}
	// registered before members so that recursive types terminate
	l.declared[obj] = d.Name
	if err := l.universe.Add(d); err != nil {
		return "", err
	}
	if err := l.describe(d, t); err != nil {
		return "", fmt.Errorf("declaring %s: %w", d.Name, err)
	}
	return d.Name, nil
}

func (l *loader) describe(d *typemodel.Decl, t *types.Named) error {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		ref, _ := basicRef(u)
		d.Underlying = ref.Name
		d.Constants = l.constants(t)
		return nil
	case *types.Interface:
		return nil
	case *types.Slice:
		elem, err := l.refIn(u.Elem(), d.Name+"Item")
		if err != nil {
			return err
		}
		d.Element = &elem
	case *types.Array:
		elem, err := l.refIn(u.Elem(), d.Name+"Item")
		if err != nil {
			return err
		}
		d.Element = &elem
	case *types.Map:
		key, err := l.ref(u.Key())
		if err != nil {
			return err
		}
		value, err := l.refIn(u.Elem(), d.Name+"Value")
		if err != nil {
			return err
		}
		d.Key, d.Value = &key, &value
	case *types.Struct:
		if slices.Contains(typemodel.Opaque, d.Name) {
			return nil
		}
		if err := l.fields(d, u); err != nil {
			return err
		}
	}
	if l.opts.Methods {
		l.methods(d, t)
	}
	return nil
}

// literal declares an anonymous struct. Identical literals share one
// declaration.
func (l *loader) literal(st *types.Struct, hint string) (typemodel.TypeRef, error) {
	key := st.String()
	if name, ok := l.literals[key]; ok {
		return typemodel.Named(name), nil
	}
	if hint == "" {
		return typemodel.TypeRef{}, fmt.Errorf("anonymous struct %s has no enclosing declaration", st)
	}
	name := hint
	for i := 2; l.universe.Has(name); i++ {
		name = fmt.Sprintf("%s%d", hint, i)
	}
	d := &typemodel.Decl{
		Name:   name,
		Simple: name[strings.LastIndexByte(name, '.')+1:],
		Kind:   typemodel.KindStruct,
	}
	l.literals[key] = name
	if err := l.universe.Add(d); err != nil {
		return typemodel.TypeRef{}, err
	}
	if err := l.fields(d, st); err != nil {
		return typemodel.TypeRef{}, err
	}
	return typemodel.Named(name), nil
}

func (l *loader) fields(d *typemodel.Decl, st *types.Struct) error {
	for i := range st.NumFields() {
		f := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		if f.Embedded() && embeddable(f, tag) {
			ref, err := l.ref(f.Type())
			if err != nil {
				return err
			}
			ref.Pointer = false
			d.Supertypes = append(d.Supertypes, ref)
			continue
		}
		if !f.Exported() && !l.opts.Unexported {
			continue
		}
		ref, err := l.refIn(f.Type(), d.Name+f.Name())
		if err != nil {
			l.opts.Logger.Debug("skipping field", "type", d.Name, "field", f.Name(), "error", err)
			continue
		}
		d.Fields = append(d.Fields, &typemodel.Field{
			Name:     f.Name(),
			Type:     ref,
			Tag:      tag,
			Doc:      l.docs[f.Pos()],
			Exported: f.Exported(),
		})
	}
	return nil
}

// embeddable reports whether an embedded field promotes its members.
func embeddable(f *types.Var, tag reflect.StructTag) bool {
	t := types.Unalias(f.Type())
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return false
	}
	name, _, _ := strings.Cut(tag.Get("json"), ",")
	return name == ""
}

func (l *loader) methods(d *typemodel.Decl, t *types.Named) {
	for i := range t.NumMethods() {
		fn := t.Method(i)
		if !fn.Exported() {
			continue
		}
		sig := fn.Signature()
		if sig.Results().Len() == 0 || sig.Variadic() {
			continue
		}
		m, err := l.method(fn, sig)
		if err != nil {
			l.opts.Logger.Debug("skipping method", "type", d.Name, "method", fn.Name(), "error", err)
			continue
		}
		d.Methods = append(d.Methods, m)
	}
}

func (l *loader) method(fn *types.Func, sig *types.Signature) (*typemodel.Method, error) {
	m := &typemodel.Method{Name: fn.Name(), Doc: l.docs[fn.Pos()], Exported: true}
	for i := range sig.Params().Len() {
		ref, err := l.ref(sig.Params().At(i).Type())
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, ref)
	}
	result, err := l.ref(sig.Results().At(0).Type())
	if err != nil {
		return nil, err
	}
	m.Result = &result
	return m, nil
}

// constants lists the package-level constants of type t in declaration
// order.
func (l *loader) constants(t *types.Named) []typemodel.Constant {
	scope := t.Obj().Pkg().Scope()
	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), t) {
			consts = append(consts, c)
		}
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
	var out []typemodel.Constant
	for _, c := range consts {
		out = append(out, typemodel.Constant{Name: c.Name(), Value: constantValue(c.Val()), Doc: l.docs[c.Pos()]})
	}
	return out
}

func constantValue(v constant.Value) any {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v)
	case constant.Bool:
		return constant.BoolVal(v)
	case constant.Int:
		if i, ok := constant.Int64Val(v); ok {
			return i
		}
		u, _ := constant.Uint64Val(v)
		return u
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return f
	}
	return v.ExactString()
}
