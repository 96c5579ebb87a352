// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/schemagen/internal/config"
)

var (
	// ErrNotInitialized indicates no schemagen.yaml was found in the current directory.
	ErrNotInitialized = errors.New("not in a schemagen project (schemagen.yaml not found)")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigFileName is the name of the schemagen configuration file.
const ConfigFileName = "schemagen.yaml"

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the project configuration.
type Context struct {
	Config *config.Config
	// Dir is the directory package patterns and output paths are relative to.
	Dir string
	// Path is the configuration file, empty when the defaults are used.
	Path string
}

// Load loads the project context and returns a new context.Context with the
// Context stored in it. An empty path looks for schemagen.yaml in the current
// working directory.
func Load(ctx context.Context, path string) (context.Context, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, ConfigFileName)
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil, ErrNotInitialized
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, validateErr)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return With(ctx, &Context{Config: cfg, Dir: filepath.Dir(abs), Path: abs}), nil
}

// LoadOrDefault is like Load but falls back to the default configuration
// when no path is given and the working directory has no schemagen.yaml.
func LoadOrDefault(ctx context.Context, path string) (context.Context, error) {
	loaded, err := Load(ctx, path)
	if !errors.Is(err, ErrNotInitialized) {
		return loaded, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return With(ctx, &Context{Config: config.Default(), Dir: cwd}), nil
}

// With stores c in ctx.
func With(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// From extracts the Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if c, ok := ctx.Value(contextKey{}).(*Context); ok {
		return c
	}
	return nil
}
