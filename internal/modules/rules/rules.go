// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package rules decides member ignore, required and nullable flags through
// boolean expressions.
//
// Expressions see the member as "member":
//
//	member.Name startsWith "Internal"
//	member.Tag("validate") contains "required"
//	member.IsMethod && member.Type == "string"
package rules

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// Rules lists the expressions per flag. A flag is set when any of its
// expressions holds.
type Rules struct {
	Ignore   []string `yaml:"ignore,omitempty"`
	Required []string `yaml:"required,omitempty"`
	Nullable []string `yaml:"nullable,omitempty"`
}

// IsEmpty reports whether no expression is configured.
func (r Rules) IsEmpty() bool {
	return len(r.Ignore) == 0 && len(r.Required) == 0 && len(r.Nullable) == 0
}

// MemberEnv is the view of a member that expressions evaluate against.
type MemberEnv struct {
	Name            string
	PropertyName    string
	Type            string
	DeclaringType   string
	IsField         bool
	IsMethod        bool
	IsStatic        bool
	IsExported      bool
	IsContainerItem bool

	scope *typemodel.MemberScope
}

// Tag returns the value of the member's struct tag key, or "".
func (e MemberEnv) Tag(key string) string {
	if e.scope == nil {
		return ""
	}
	v, _ := e.scope.Tag(key)
	return v
}

// Env is the expression environment.
type Env struct {
	Member MemberEnv `expr:"member"`
}

func newEnv(m *typemodel.MemberScope) Env {
	return Env{Member: MemberEnv{
		Name:            m.Name(),
		PropertyName:    m.PropertyName(),
		Type:            m.Type().SimpleDescription(),
		DeclaringType:   m.DeclaringType().SimpleDescription(),
		IsField:         m.IsField(),
		IsMethod:        m.IsMethod(),
		IsStatic:        m.IsStatic(),
		IsExported:      m.IsExported(),
		IsContainerItem: m.IsContainerItem(),
		scope:           m,
	}}
}

// Compile compiles a single expression.
func Compile(source string) (*vm.Program, error) {
	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling rule %q: %w", source, err)
	}
	return program, nil
}

type rule struct {
	source  string
	program *vm.Program
}

func compileAll(sources []string) ([]rule, error) {
	compiled := make([]rule, 0, len(sources))
	for _, s := range sources {
		p, err := Compile(s)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rule{source: s, program: p})
	}
	return compiled, nil
}

// Module registers the compiled rules on fields and methods.
type Module struct {
	ignore, required, nullable []rule
	logger                     *slog.Logger
}

// New compiles the rules.
func New(r Rules, logger *slog.Logger) (*Module, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Module{logger: logger}
	var err error
	if m.ignore, err = compileAll(r.Ignore); err != nil {
		return nil, err
	}
	if m.required, err = compileAll(r.Required); err != nil {
		return nil, err
	}
	if m.nullable, err = compileAll(r.Nullable); err != nil {
		return nil, err
	}
	return m, nil
}

// matches reports whether any program holds for m. Programs failing at run
// time count as not holding.
func (m *Module) matches(rules []rule, member *typemodel.MemberScope) bool {
	if len(rules) == 0 {
		return false
	}
	env := newEnv(member)
	for _, r := range rules {
		out, err := expr.Run(r.program, env)
		if err != nil {
			m.logger.Debug("rule failed", "member", member.Path(), "rule", r.source, "error", err)
			continue
		}
		if ok, _ := out.(bool); ok {
			return true
		}
	}
	return false
}

func (m *Module) Apply(b *generator.ConfigBuilder) {
	for _, part := range []*generator.MemberPart{b.ForFields(), b.ForMethods()} {
		if len(m.ignore) > 0 {
			part.WithIgnoreCheck(func(member *typemodel.MemberScope) bool {
				return m.matches(m.ignore, member)
			})
		}
		if len(m.required) > 0 {
			part.MemberOnly().WithRequiredCheck(func(member *typemodel.MemberScope) bool {
				return m.matches(m.required, member)
			})
		}
		if len(m.nullable) > 0 {
			part.MemberOnly().WithNullableResolver(func(member *typemodel.MemberScope) (bool, bool) {
				if m.matches(m.nullable, member) {
					return true, true
				}
				return false, false
			})
		}
	}
}
