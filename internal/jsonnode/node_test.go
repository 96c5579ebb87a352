// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jsonnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSet_KeepsPosition(t *testing.T) {
	n := NewObject().Set("a", Int(1)).Set("b", Int(2)).Set("c", Int(3))
	n.Set("a", String("x"))

	assert.Equal(t, []string{"a", "b", "c"}, n.Keys())
	out, err := n.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":2,"c":3}`, string(out))
}

func TestRemove(t *testing.T) {
	n := MustParse(`{"a":1,"b":2}`)
	removed := n.Remove("a")
	assert.Equal(t, "1", removed.Text())
	assert.Equal(t, []string{"b"}, n.Keys())
	assert.Nil(t, n.Remove("missing"))
}

func TestParse_PreservesOrder(t *testing.T) {
	n, err := Parse([]byte(`{"z":{"y":true,"x":null},"a":[1,"two",1.5]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, n.Keys())
	assert.Equal(t, []string{"y", "x"}, n.Get("z").Keys())
	assert.Equal(t, 3, n.Get("a").Len())

	out, err := n.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":{"y":true,"x":null},"a":[1,"two",1.5]}`, string(out))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `{"a":`},
		{"trailing", `{} {}`},
		{"invalid", `{invalid}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"key order ignored", `{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{"numeric equality", `{"a":1}`, `{"a":1.0}`, true},
		{"array order matters", `[1,2]`, `[2,1]`, false},
		{"different kinds", `"1"`, `1`, false},
		{"missing key", `{"a":1}`, `{"a":1,"b":null}`, false},
		{"nested", `{"a":{"b":[true]}}`, `{"a":{"b":[true]}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.a).Equal(MustParse(tt.b)))
		})
	}
}

func TestCopy_IsDeep(t *testing.T) {
	orig := MustParse(`{"a":{"b":[1]}}`)
	c := orig.Copy()
	c.Get("a").Get("b").Append(Int(2))
	c.Get("a").Set("c", Bool(true))

	assert.Equal(t, 1, orig.Get("a").Get("b").Len())
	assert.False(t, orig.Get("a").Has("c"))
}

func TestSetAll_SharesChildren(t *testing.T) {
	src := MustParse(`{"a":{"x":1}}`)
	dst := NewObject().Set("b", Int(2))
	dst.SetAll(src)

	assert.Equal(t, []string{"b", "a"}, dst.Keys())
	assert.Same(t, src.Get("a"), dst.Get("a"))
}

func TestMarshalJSON_NoHTMLEscaping(t *testing.T) {
	out, err := String("<a & b>").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(out))
}

func TestMarshalIndent(t *testing.T) {
	out, err := MustParse(`{"a":[1]}`).MarshalIndent("", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", string(out))
}

func TestYAMLRoundTrip_KeepsOrder(t *testing.T) {
	n := MustParse(`{"type":"object","properties":{"b":{"type":"integer"},"a":{"type":"string"}},"required":["b"]}`)
	data, err := yaml.Marshal(n)
	require.NoError(t, err)

	back, err := ParseYAML(data)
	require.NoError(t, err)
	assert.True(t, n.Equal(back))
	assert.Equal(t, []string{"b", "a"}, back.Get("properties").Keys())
}

func TestFromValue(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, `null`},
		{"int", 42, `42`},
		{"float", 1.5, `1.5`},
		{"string", "x", `"x"`},
		{"slice", []any{1, "a"}, `[1,"a"]`},
		{"map sorted", map[string]any{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"struct", payload{Name: "n"}, `{"name":"n"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := FromValue(tt.value)
			require.NoError(t, err)
			out, err := n.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}
