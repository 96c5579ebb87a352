// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typemodel

import (
	"fmt"
	"sort"
)

// Names of the built-in declarations.
const (
	Any  = "any"
	Void = "void"
)

// BasicTypes lists the built-in scalar declarations.
var BasicTypes = []string{
	"bool", "string",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64",
	"complex64", "complex128",
}

// Opaque lists struct types whose members are not described. They are
// covered by fixed schemas instead.
var Opaque = []string{
	"time.Time",
	"time.Location",
	"math/big.Int",
	"math/big.Float",
	"math/big.Rat",
	"net/url.URL",
	"net/netip.Addr",
}

// Universe is the registry of all known declarations.
type Universe struct {
	decls map[string]*Decl
}

// NewUniverse returns a universe holding the built-in declarations.
func NewUniverse() *Universe {
	u := &Universe{decls: make(map[string]*Decl)}
	for _, name := range BasicTypes {
		u.decls[name] = &Decl{Name: name, Kind: KindBasic, Underlying: name}
	}
	u.decls[Any] = &Decl{Name: Any, Kind: KindTop}
	u.decls[Void] = &Decl{Name: Void, Kind: KindVoid}
	return u
}

// Add registers declarations. Registering a name twice is an error.
func (u *Universe) Add(decls ...*Decl) error {
	for _, d := range decls {
		if d.Name == "" {
			return fmt.Errorf("declaration without name")
		}
		if _, exists := u.decls[d.Name]; exists {
			return fmt.Errorf("duplicate declaration: %s", d.Name)
		}
		if d.Kind == KindBasic && d.Underlying == "" {
			d.Underlying = d.Name
		}
		u.decls[d.Name] = d
	}
	return nil
}

// MustAdd is like Add but panics on error.
func (u *Universe) MustAdd(decls ...*Decl) *Universe {
	if err := u.Add(decls...); err != nil {
		panic(err)
	}
	return u
}

// Lookup returns the declaration registered under name.
func (u *Universe) Lookup(name string) (*Decl, bool) {
	d, ok := u.decls[name]
	return d, ok
}

// Has reports whether name is registered.
func (u *Universe) Has(name string) bool {
	_, ok := u.decls[name]
	return ok
}

// Names returns all registered names in sorted order, built-ins excluded.
func (u *Universe) Names() []string {
	var names []string
	for name, d := range u.decls {
		if isBuiltin(d) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isBuiltin(d *Decl) bool {
	if d.Kind == KindTop || d.Kind == KindVoid {
		return true
	}
	return d.Kind == KindBasic && d.Underlying == d.Name && d.Package() == ""
}
