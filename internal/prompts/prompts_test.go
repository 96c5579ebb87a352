// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, []ResultField{
		{Label: "Order", Value: "schemas/Order.schema.json"},
		{Label: "Line", Value: "schemas/Line.schema.json"},
	}, "Generated 2 schema(s)")

	out := buf.String()
	assert.Contains(t, out, "Order:")
	assert.Contains(t, out, "schemas/Order.schema.json")
	assert.Contains(t, out, "Generated 2 schema(s)")
}

func TestPrintFailure(t *testing.T) {
	var buf bytes.Buffer
	PrintFailure(&buf, []ResultField{{Label: "Order", Value: "differs"}})
	assert.Contains(t, buf.String(), "Order: differs")
}

func TestRequiredValidator(t *testing.T) {
	validate := requiredValidator("output pattern")
	require.EqualError(t, validate(""), "output pattern is required")
	assert.NoError(t, validate("x.json"))
}

func TestSelectTypes_Empty(t *testing.T) {
	_, err := SelectTypes(nil)
	assert.Error(t, err)
}
