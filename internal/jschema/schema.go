// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jschema converts generated documents into github.com/google/jsonschema-go
// schemas and provides loading, traversal and $ref checks on top of them.
package jschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/dacolabs/schemagen/internal/jsonnode"
)

// Format is the encoding of a schema file.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFromPath picks the format from the file extension. Anything but
// .yaml and .yml is JSON.
func FormatFromPath(p string) Format {
	switch path.Ext(p) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// IsFileRef returns true if ref is an external file reference.
// File refs do not start with "#".
func IsFileRef(ref string) bool {
	return ref != "" && !strings.HasPrefix(ref, "#")
}

// IsInternalRef returns true if ref points into the same document.
func IsInternalRef(ref string) bool {
	return strings.HasPrefix(ref, "#/")
}

// DefName extracts the definition name from a $ref string.
// Supports $defs, definitions, and components/schemas (OpenAPI) formats.
// Returns empty string if the ref format is not recognized.
func DefName(ref string) string {
	p, ok := strings.CutPrefix(ref, "#/")
	if !ok {
		return ""
	}
	for _, prefix := range []string{"$defs/", "definitions/", "components/schemas/"} {
		if name, ok := strings.CutPrefix(p, prefix); ok {
			return unescape(name)
		}
	}
	return ""
}

// unescape decodes a JSON pointer token.
func unescape(token string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
}

// FromNode converts a generated document.
func FromNode(node *jsonnode.Node) (*jsonschema.Schema, error) {
	data, err := node.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	return &s, nil
}

// Encode renders a generated document in the given format. Key order is
// kept in both formats.
func Encode(node *jsonnode.Node, f Format) ([]byte, error) {
	if f == JSON {
		data, err := node.MarshalIndent("", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a document in the given format.
func Decode(data []byte, f Format) (*jsonnode.Node, error) {
	if f == YAML {
		return jsonnode.ParseYAML(data)
	}
	return jsonnode.Parse(data)
}
