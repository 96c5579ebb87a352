// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"errors"

	"github.com/spf13/cobra"
)

// ConfigFlag is the persistent flag naming an explicit configuration file.
const ConfigFlag = "config"

// FromCommand extracts the Context from a cobra.Command's context.
// Returns nil if no Context is stored.
func FromCommand(cmd *cobra.Command) *Context {
	return From(cmd.Context())
}

// RequireFromCommand extracts the Context from a cobra.Command's context,
// returning an error if not found.
func RequireFromCommand(cmd *cobra.Command) (*Context, error) {
	ctx := FromCommand(cmd)
	if ctx == nil {
		return nil, errors.New("project context not loaded")
	}
	return ctx, nil
}

// PreRunLoad is a PersistentPreRunE function that loads the project context
// and stores it in the command's context. Without a schemagen.yaml and without
// an explicit --config the defaults are used.
func PreRunLoad(cmd *cobra.Command, _ []string) error {
	var path string
	if f := cmd.Flags().Lookup(ConfigFlag); f != nil {
		path = f.Value.String()
	}
	ctx, err := LoadOrDefault(cmd.Context(), path)
	if err != nil {
		return err
	}
	cmd.SetContext(ctx)
	return nil
}
