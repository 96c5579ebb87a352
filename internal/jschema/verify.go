// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Draft202012 is the meta-schema URI of the only dialect Resolve accepts.
const Draft202012 = "https://json-schema.org/draft/2020-12/schema"

// VerifyRefs checks that every internal $ref of the schema points at an
// existing definition. Ref targets are followed, so a bare "#" always
// resolves and file refs are left to the Loader.
func VerifyRefs(schema *jsonschema.Schema) error {
	var errs []error
	resolve := func(ref string) *jsonschema.Schema {
		target, err := lookupRef(schema, ref)
		if err != nil {
			errs = append(errs, err)
		}
		return target
	}
	for range Traverse(schema, resolve) {
	}
	return errors.Join(errs...)
}

// lookupRef finds the target of ref within root. File refs yield no target
// and no error.
func lookupRef(root *jsonschema.Schema, ref string) (*jsonschema.Schema, error) {
	switch {
	case ref == "#":
		return root, nil
	case IsFileRef(ref):
		return nil, nil
	case !IsInternalRef(ref):
		return nil, fmt.Errorf("unsupported $ref %q", ref)
	}
	name := DefName(ref)
	if name == "" {
		return nil, fmt.Errorf("unsupported $ref %q", ref)
	}
	if target, ok := root.Defs[name]; ok {
		return target, nil
	}
	if target, ok := root.Definitions[name]; ok {
		return target, nil
	}
	return nil, fmt.Errorf("unresolved $ref %q", ref)
}

// Resolve prepares a draft 2020-12 schema for validation. Other dialects
// are rejected.
func Resolve(schema *jsonschema.Schema) (*jsonschema.Resolved, error) {
	if schema.Schema != "" && schema.Schema != Draft202012 {
		return nil, fmt.Errorf("cannot resolve dialect %q", schema.Schema)
	}
	return schema.Resolve(&jsonschema.ResolveOptions{})
}
