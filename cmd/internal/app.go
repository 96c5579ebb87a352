// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/dacolabs/schemagen/internal/commands"
	"github.com/dacolabs/schemagen/internal/session"
)

// ConfigEnv names the environment variable holding the default --config value.
const ConfigEnv = "SCHEMAGEN_CONFIG"

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, arguments, env lookup).
func Run(ctx context.Context, args []string, getenv func(string) string) error {
	rootCmd := commands.NewRootCmd()
	if path := getenv(ConfigEnv); path != "" {
		if err := rootCmd.PersistentFlags().Set(session.ConfigFlag, path); err != nil {
			return err
		}
	}
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
