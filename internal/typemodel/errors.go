// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typemodel

import "fmt"

// UnresolvedTypeVariableError is returned when a type parameter has neither a
// binding nor a declared bound.
type UnresolvedTypeVariableError struct {
	Variable string
	Context  string
}

func (e *UnresolvedTypeVariableError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("unresolved type variable %s", e.Variable)
	}
	return fmt.Sprintf("unresolved type variable %s in %s", e.Variable, e.Context)
}

// UnknownTypeError is returned when a reference names an unregistered declaration.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Name)
}
