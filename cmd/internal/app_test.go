// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacolabs/schemagen/internal/session"
)

func TestRun(t *testing.T) {
	require.NoError(t, Run(context.Background(), []string{"version", "--short"}, os.Getenv))
}

func TestRun_ConfigFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	getenv := func(key string) string {
		if key == ConfigEnv {
			return path
		}
		return ""
	}

	require.NoError(t, Run(context.Background(), []string{"init", "--non-interactive"}, getenv))
	assert.FileExists(t, path)

	err := Run(context.Background(), []string{"init", "--non-interactive"}, getenv)
	assert.ErrorContains(t, err, "already initialized")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(path), session.ConfigFileName))
}
