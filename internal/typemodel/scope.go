// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typemodel

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TypeScope is a resolved type viewed through a context.
type TypeScope struct {
	typ *ResolvedType
	ctx *Context
}

// NewTypeScope returns the scope of t in c.
func (c *Context) NewTypeScope(t *ResolvedType) *TypeScope {
	return &TypeScope{typ: t, ctx: c}
}

// Type returns the resolved type.
func (s *TypeScope) Type() *ResolvedType { return s.typ }

// Context returns the context the type was resolved in.
func (s *TypeScope) Context() *Context { return s.ctx }

// IsContainer reports whether the type is array-like.
func (s *TypeScope) IsContainer() bool { return s.ctx.IsContainer(s.typ) }

// ContainerItemType returns the element type of a container, nil otherwise.
func (s *TypeScope) ContainerItemType() *ResolvedType {
	item, _ := s.ctx.ContainerItemType(s.typ)
	return item
}

// TypeParameterFor returns the index-th type argument bound for declName.
func (s *TypeScope) TypeParameterFor(declName string, index int) *ResolvedType {
	return s.ctx.TypeParameterFor(s.typ, declName, index)
}

// SimpleDescription renders the type with unqualified names.
func (s *TypeScope) SimpleDescription() string { return s.typ.SimpleDescription() }

// MemberScope is a view over one field or method of a resolved type.
type MemberScope struct {
	ctx *Context
	// owner is the type whose members were collected; declaring is the
	// type in owner's hierarchy that declares the member.
	owner, declaring *ResolvedType
	field            *Field
	method           *Method
	declared         *ResolvedType
	params           []*ResolvedType
	overriddenType   *ResolvedType
	overriddenName   string
	containerItem    bool
}

// IsField reports whether the scope is a field.
func (m *MemberScope) IsField() bool { return m.field != nil }

// IsMethod reports whether the scope is a method.
func (m *MemberScope) IsMethod() bool { return m.method != nil }

// Field returns the raw field, nil for methods.
func (m *MemberScope) Field() *Field { return m.field }

// Method returns the raw method, nil for fields.
func (m *MemberScope) Method() *Method { return m.method }

// Context returns the resolution context.
func (m *MemberScope) Context() *Context { return m.ctx }

// DeclaringType returns the type that declares the member.
func (m *MemberScope) DeclaringType() *ResolvedType { return m.declaring }

// DeclaredName returns the member name as declared.
func (m *MemberScope) DeclaredName() string {
	if m.field != nil {
		return m.field.Name
	}
	return m.method.Name
}

// OverriddenName returns the name override, "" if there is none.
func (m *MemberScope) OverriddenName() string { return m.overriddenName }

// Name returns the overridden name if any, the declared name otherwise.
func (m *MemberScope) Name() string {
	if m.overriddenName != "" {
		return m.overriddenName
	}
	return m.DeclaredName()
}

// DeclaredType returns the member's type as declared.
func (m *MemberScope) DeclaredType() *ResolvedType { return m.declared }

// OverriddenType returns the target type override, nil if there is none.
func (m *MemberScope) OverriddenType() *ResolvedType { return m.overriddenType }

// Type returns the effective type: the override if present, the declared
// type otherwise.
func (m *MemberScope) Type() *ResolvedType {
	if m.overriddenType != nil {
		return m.overriddenType
	}
	return m.declared
}

// TypeScope returns the scope of the effective type.
func (m *MemberScope) TypeScope() *TypeScope { return m.ctx.NewTypeScope(m.Type()) }

// IsContainer reports whether the effective type is array-like.
func (m *MemberScope) IsContainer() bool { return m.ctx.IsContainer(m.Type()) }

// ContainerItemType returns the element type of the effective type.
func (m *MemberScope) ContainerItemType() *ResolvedType {
	item, _ := m.ctx.ContainerItemType(m.Type())
	return item
}

// IsContainerItem reports whether the scope represents one element of a
// container member rather than the member itself.
func (m *MemberScope) IsContainerItem() bool { return m.containerItem }

// IsStatic reports whether the member belongs to the type rather than instances.
func (m *MemberScope) IsStatic() bool {
	if m.field != nil {
		return m.field.Static
	}
	return m.method.Static
}

// IsExported reports whether the member is publicly accessible.
func (m *MemberScope) IsExported() bool {
	if m.field != nil {
		return m.field.Exported
	}
	return m.method.Exported
}

// IsFinal reports whether a field cannot be reassigned.
func (m *MemberScope) IsFinal() bool { return m.field != nil && m.field.Final }

// IsTransient reports whether a field is excluded from serialization.
func (m *MemberScope) IsTransient() bool { return m.field != nil && m.field.Transient }

// IsPointer reports whether the member was declared through a pointer.
func (m *MemberScope) IsPointer() bool {
	if m.field != nil {
		return m.field.Type.Pointer
	}
	return m.method.Result != nil && m.method.Result.Pointer
}

// IsVoid reports whether the member is a method without result.
func (m *MemberScope) IsVoid() bool { return m.method != nil && m.method.Result == nil }

// ArgumentTypes returns the resolved parameter types of a method.
func (m *MemberScope) ArgumentTypes() []*ResolvedType { return m.params }

// Doc returns the member's doc comment.
func (m *MemberScope) Doc() string {
	if m.field != nil {
		return m.field.Doc
	}
	return m.method.Doc
}

// OwnTag looks up key in the member's own tag.
func (m *MemberScope) OwnTag(key string) (string, bool) {
	if m.field != nil {
		return m.field.Tag.Lookup(key)
	}
	return m.method.Tag.Lookup(key)
}

// Tag looks up key in the member's tag, falling back to the tag of the
// matching field or accessor.
func (m *MemberScope) Tag(key string) (string, bool) {
	if v, ok := m.OwnTag(key); ok {
		return v, true
	}
	if counterpart := m.MatchingAccessorOrField(); counterpart != nil {
		return counterpart.OwnTag(key)
	}
	return "", false
}

// TagIfSupported is like Tag but yields nothing for container item scopes.
func (m *MemberScope) TagIfSupported(key string) (string, bool) {
	if m.containerItem {
		return "", false
	}
	return m.Tag(key)
}

// WithOverriddenType returns a copy with the given effective type.
func (m *MemberScope) WithOverriddenType(t *ResolvedType) *MemberScope {
	c := *m
	c.overriddenType = t
	return &c
}

// WithOverriddenName returns a copy with the given property name.
func (m *MemberScope) WithOverriddenName(name string) *MemberScope {
	c := *m
	c.overriddenName = name
	return &c
}

// AsContainerItem returns the scope describing one element of the member's
// container type. Non-container members are returned as plain copies.
func (m *MemberScope) AsContainerItem() *MemberScope {
	item := m.ContainerItemType()
	if item == nil {
		return m.WithOverriddenType(m.overriddenType)
	}
	c := m.WithOverriddenType(item)
	c.containerItem = true
	return c
}

// AsItem returns a container item scope of the member with t as its type,
// e.g. the value view of a map member.
func (m *MemberScope) AsItem(t *ResolvedType) *MemberScope {
	c := m.WithOverriddenType(t)
	c.containerItem = true
	return c
}

// TypeParameterFor returns the index-th type argument the effective type
// binds for declName.
func (m *MemberScope) TypeParameterFor(declName string, index int) *ResolvedType {
	return m.ctx.TypeParameterFor(m.Type(), declName, index)
}

// MatchingAccessorOrField returns the getter for a field, or the field for a
// getter. Getters are exported, argument-free methods named Get<Name> or
// Is<Name>.
func (m *MemberScope) MatchingAccessorOrField() *MemberScope {
	set, err := m.ctx.memberSet(m.owner)
	if err != nil {
		return nil
	}
	if m.field != nil {
		capitalised := upperFirst(m.field.Name)
		for _, candidate := range append(append([]*MemberScope(nil), set.methods...), set.staticMethods...) {
			name := candidate.method.Name
			if name == "Get"+capitalised || name == "Is"+capitalised {
				return candidate
			}
		}
		return nil
	}
	return m.getterField(set)
}

// IsGetter reports whether the method follows the accessor convention and has
// a matching field.
func (m *MemberScope) IsGetter() bool {
	if m.method == nil {
		return false
	}
	set, err := m.ctx.memberSet(m.owner)
	if err != nil {
		return false
	}
	return m.getterField(set) != nil
}

func (m *MemberScope) getterField(set *memberSet) *MemberScope {
	if m.method.Result == nil || !m.method.Exported || len(m.method.Params) > 0 {
		return nil
	}
	stem := accessorStem(m.method.Name)
	if stem == "" {
		return nil
	}
	lowered := lowerFirst(stem)
	for _, f := range set.fields {
		if f.field.Name == lowered {
			return f
		}
	}
	for _, f := range set.fields {
		if f.field.Name == stem {
			return f
		}
	}
	return nil
}

// accessorStem strips a Get or Is prefix followed by an upper-case letter.
func accessorStem(name string) string {
	for _, prefix := range []string{"Get", "Is"} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsUpper(r) {
			return rest
		}
	}
	return ""
}

// PropertyName returns the name under which the member appears in a schema.
func (m *MemberScope) PropertyName() string {
	name := m.Name()
	if m.field != nil {
		return name
	}
	if m.ctx.deriveFields && len(m.method.Params) == 0 {
		if m.overriddenName != "" {
			return name
		}
		if stem := accessorStem(name); stem != "" {
			return lowerFirst(stem)
		}
		return name + "()"
	}
	args := make([]string, len(m.params))
	for i, p := range m.params {
		args[i] = p.SimpleDescription()
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// Equal reports whether both scopes describe the same member of the same
// declaring type with the same container item flag.
func (m *MemberScope) Equal(other *MemberScope) bool {
	if other == nil {
		return false
	}
	return m.declaring == other.declaring &&
		m.field == other.field &&
		m.method == other.method &&
		m.containerItem == other.containerItem
}

// Path returns "Type.member", used to locate the member in error messages.
func (m *MemberScope) Path() string {
	path := m.declaring.SimpleDescription() + "." + m.DeclaredName()
	if m.method != nil {
		path += "()"
	}
	if m.containerItem {
		path += "[]"
	}
	return path
}

func (m *MemberScope) String() string {
	return fmt.Sprintf("%s %s", m.Type().SimpleDescription(), m.PropertyName())
}

// Fields returns the instance fields of t and its supertypes. Members of t
// come first.
func (c *Context) Fields(t *ResolvedType) ([]*MemberScope, error) {
	set, err := c.memberSet(t)
	if err != nil {
		return nil, err
	}
	return set.fields, nil
}

// StaticFields returns the static fields declared by t itself.
func (c *Context) StaticFields(t *ResolvedType) ([]*MemberScope, error) {
	set, err := c.memberSet(t)
	if err != nil {
		return nil, err
	}
	return set.staticFields, nil
}

// Methods returns the instance methods of t and its supertypes.
func (c *Context) Methods(t *ResolvedType) ([]*MemberScope, error) {
	set, err := c.memberSet(t)
	if err != nil {
		return nil, err
	}
	return set.methods, nil
}

// StaticMethods returns the static methods declared by t itself.
func (c *Context) StaticMethods(t *ResolvedType) ([]*MemberScope, error) {
	set, err := c.memberSet(t)
	if err != nil {
		return nil, err
	}
	return set.staticMethods, nil
}

func (c *Context) memberSet(t *ResolvedType) (*memberSet, error) {
	if cached, ok := c.members[t]; ok {
		return cached, nil
	}
	set := &memberSet{}
	// registered before population so that accessor lookups during
	// construction do not recurse
	c.members[t] = set
	hierarchy, err := c.Hierarchy(t)
	if err != nil {
		delete(c.members, t)
		return nil, err
	}
	for _, h := range hierarchy {
		if h.decl == nil {
			continue
		}
		for _, f := range h.decl.Fields {
			declared, err := c.Resolve(f.Type, h)
			if err != nil {
				delete(c.members, t)
				return nil, fmt.Errorf("field %s.%s: %w", h.SimpleDescription(), f.Name, err)
			}
			scope := &MemberScope{ctx: c, owner: t, declaring: h, field: f, declared: declared}
			switch {
			case !f.Static:
				set.fields = append(set.fields, scope)
			case h == t:
				set.staticFields = append(set.staticFields, scope)
			}
		}
		for _, meth := range h.decl.Methods {
			scope, err := c.methodScope(t, h, meth)
			if err != nil {
				delete(c.members, t)
				return nil, err
			}
			switch {
			case !meth.Static:
				set.methods = append(set.methods, scope)
			case h == t:
				set.staticMethods = append(set.staticMethods, scope)
			}
		}
	}
	return set, nil
}

func (c *Context) methodScope(owner, declaring *ResolvedType, meth *Method) (*MemberScope, error) {
	scope := &MemberScope{ctx: c, owner: owner, declaring: declaring, method: meth}
	if meth.Result == nil {
		scope.declared = c.VoidType()
	} else {
		result, err := c.Resolve(*meth.Result, declaring)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", declaring.SimpleDescription(), meth.Name, err)
		}
		scope.declared = result
	}
	for _, p := range meth.Params {
		resolved, err := c.Resolve(p, declaring)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", declaring.SimpleDescription(), meth.Name, err)
		}
		scope.params = append(scope.params, resolved)
	}
	return scope, nil
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
