// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generator

import (
	"errors"
	"fmt"
	"strings"
)

// CircularDefinitionError is returned when a definition depends on itself
// without passing through a shared definition, e.g. when every schema is
// inlined or a custom definition provider asks for its own type.
type CircularDefinitionError struct {
	Chain []string
}

func (e *CircularDefinitionError) Error() string {
	return "circular definition: " + strings.Join(e.Chain, " -> ")
}

// PathError attaches the member path at which generation failed.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *PathError) Unwrap() error { return e.Err }

// withPath wraps err unless a path was attached further down already.
func withPath(path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PathError
	if errors.As(err, &pe) {
		return err
	}
	return &PathError{Path: path, Err: err}
}

// NamingError is returned when a naming strategy produced the same key for
// different definitions, or dropped definitions while adjusting duplicates.
type NamingError struct {
	Names  []string
	Reason string
}

func (e *NamingError) Error() string {
	if len(e.Names) == 0 {
		return "definition naming: " + e.Reason
	}
	return fmt.Sprintf("definition naming: %s: %s", e.Reason, strings.Join(e.Names, ", "))
}
