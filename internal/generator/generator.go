// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package generator builds JSON Schema documents from a type model.
//
// A Config is assembled with a ConfigBuilder: a dialect, a preset of
// options and any number of modules that register resolvers for
// attributes, custom definitions and subtypes. A Generator then turns
// resolved types into documents:
//
//	cfg := generator.NewConfigBuilder(keyword.Draft2020_12, generator.PlainJSON).
//		WithModule(jsontag.New()).
//		Build()
//	gen := generator.New(cfg, universe)
//	doc, err := gen.GenerateNamed("example.com/app/model.User")
package generator

import (
	"fmt"
	"log/slog"

	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/typemodel"
)

// Generator produces schema documents. It is not safe for concurrent use;
// create one Generator per goroutine.
type Generator struct {
	config *Config
	types  *typemodel.Context
	logger *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger receiving debug events about the traversal.
func WithLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a generator for the declarations in universe.
func New(cfg *Config, universe *typemodel.Universe, opts ...GeneratorOption) *Generator {
	g := &Generator{
		config: cfg,
		types:  typemodel.NewContext(universe, typemodel.WithDerivedFields(cfg.Enabled(FieldsDerivedFromArgumentFreeMethods))),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TypeContext returns the context used to resolve types.
func (g *Generator) TypeContext() *typemodel.Context { return g.types }

// Config returns the configuration of the generator.
func (g *Generator) Config() *Config { return g.config }

// Generate returns the schema of the first root. Further roots are placed in
// the definitions section of the same document.
func (g *Generator) Generate(roots ...*typemodel.ResolvedType) (*jsonnode.Node, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no root type given")
	}
	defer g.reset()
	ctx := newGenerationContext(g.config, g.types, g.logger)
	g.logger.Debug("generating schema", "type", roots[0])
	doc, err := newSchemaBuilder(ctx).build(roots[0], roots[1:]...)
	if err != nil {
		return nil, fmt.Errorf("generating schema for %s: %w", roots[0].SimpleDescription(), err)
	}
	return doc, nil
}

// GenerateNamed resolves the declarations by name and generates their schema.
func (g *Generator) GenerateNamed(names ...string) (*jsonnode.Node, error) {
	roots := make([]*typemodel.ResolvedType, 0, len(names))
	for _, name := range names {
		t, err := g.types.ResolveName(name)
		if err != nil {
			return nil, err
		}
		roots = append(roots, t)
	}
	return g.Generate(roots...)
}

// ForMultipleTypes starts a builder that hands out references to several
// types and collects their definitions in a location chosen by the caller,
// e.g. the components of an OpenAPI document.
func (g *Generator) ForMultipleTypes() *MultiTypeBuilder {
	ctx := newGenerationContext(g.config, g.types, g.logger)
	return &MultiTypeBuilder{gen: g, builder: newSchemaBuilder(ctx)}
}

func (g *Generator) reset() {
	for _, r := range g.config.resetters() {
		r.Reset()
	}
}

// MultiTypeBuilder shares definitions between several independent schemas.
type MultiTypeBuilder struct {
	gen     *Generator
	builder *schemaBuilder
}

// Reference returns a node that ends up referencing or inlining the schema
// of t once Definitions is called.
func (b *MultiTypeBuilder) Reference(t *typemodel.ResolvedType) (*jsonnode.Node, error) {
	defer b.gen.reset()
	node, err := b.builder.ctx.CreateDefinitionReference(t)
	if err != nil {
		return nil, fmt.Errorf("generating schema for %s: %w", t.SimpleDescription(), err)
	}
	b.builder.schemaNodes = append(b.builder.schemaNodes, node)
	return node, nil
}

// Definitions resolves all references handed out so far. Shared definitions
// are returned as an object whose entries are referenced as
// "#/<location>/<name>".
func (b *MultiTypeBuilder) Definitions(location string) (*jsonnode.Node, error) {
	prefix := "#/" + location + "/"
	defs, err := b.builder.buildDefinitions(prefix, DefinitionKey{})
	if err != nil {
		return nil, err
	}
	b.builder.cleanup(defs, prefix)
	return defs, nil
}
