// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/dacolabs/schemagen/internal/jsonnode"
)

// Loader loads schemas from a filesystem. Each file is parsed once.
type Loader struct {
	fsys  fs.FS
	nodes map[string]*jsonnode.Node
}

// NewLoader creates a Loader that reads from the given filesystem.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, nodes: make(map[string]*jsonnode.Node)}
}

// LoadNode loads a document keeping its key order. Callers own the returned
// node.
func (l *Loader) LoadNode(filePath string) (*jsonnode.Node, error) {
	filePath = path.Clean(filePath)
	if node, ok := l.nodes[filePath]; ok {
		return node.Copy(), nil
	}
	data, err := fs.ReadFile(l.fsys, filePath)
	if err != nil {
		return nil, err
	}
	node, err := Decode(data, FormatFromPath(filePath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	l.nodes[filePath] = node
	return node.Copy(), nil
}

// LoadFile loads and parses a schema file.
// The format is determined from the file extension.
func (l *Loader) LoadFile(filePath string) (*jsonschema.Schema, error) {
	node, err := l.LoadNode(filePath)
	if err != nil {
		return nil, err
	}
	schema, err := FromNode(node)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return schema, nil
}

// ResolveFile loads a schema file and resolves its file $refs.
func (l *Loader) ResolveFile(filePath string) (*jsonschema.Schema, error) {
	schema, err := l.LoadFile(filePath)
	if err != nil {
		return nil, err
	}
	filePath = path.Clean(filePath)
	if err := l.resolveRefs(schema, path.Dir(filePath), []string{filePath}); err != nil {
		return nil, err
	}
	return schema, nil
}

// ResolveRefs resolves all external file $refs in the schema tree in-place.
// It recursively loads referenced schemas and replaces the ref with the loaded content.
// Internal refs (starting with #/) are left unchanged.
func (l *Loader) ResolveRefs(schema *jsonschema.Schema, basePath string) error {
	return l.resolveRefs(schema, basePath, nil)
}

// resolveRefs tracks the chain of files being resolved; a file that is
// reached again through its own refs cannot be inlined.
func (l *Loader) resolveRefs(schema *jsonschema.Schema, basePath string, chain []string) error {
	for s := range Traverse(schema, nil) {
		if !IsFileRef(s.Ref) {
			continue
		}
		refPath := path.Join(basePath, s.Ref)
		next := append(slices.Clone(chain), refPath)
		if slices.Contains(chain, refPath) {
			return fmt.Errorf("circular file $ref: %s", strings.Join(next, " -> "))
		}
		loaded, err := l.LoadFile(refPath)
		if err != nil {
			return err
		}
		if err := l.resolveRefs(loaded, path.Dir(refPath), next); err != nil {
			return err
		}
		*s = *loaded
	}
	return nil
}
