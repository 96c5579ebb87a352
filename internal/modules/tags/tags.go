// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package tags parses the comma-separated key=value lists found in struct
// tag values, e.g. `jsonschema:"title=Name,minLength=1,required"`.
package tags

import (
	"strings"
)

// Pair is one entry of a tag value. Flags have no value.
type Pair struct {
	Key      string
	Value    string
	HasValue bool
}

// List is a parsed tag value in declaration order. Keys may repeat.
type List []Pair

// Parse splits a tag value at commas. A value may be quoted with single
// quotes to contain commas; a backslash escapes the next character.
func Parse(tag string) List {
	var (
		out    List
		sb     strings.Builder
		quoted bool
	)
	flush := func() {
		entry := strings.TrimSpace(sb.String())
		sb.Reset()
		if entry == "" {
			return
		}
		key, value, ok := strings.Cut(entry, "=")
		out = append(out, Pair{Key: strings.TrimSpace(key), Value: unquote(strings.TrimSpace(value)), HasValue: ok})
	}
	runes := []rune(tag)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			sb.WriteRune(runes[i])
		case r == '\'':
			quoted = !quoted
			sb.WriteRune(r)
		case r == ',' && !quoted:
			flush()
		default:
			sb.WriteRune(r)
		}
	}
	flush()
	return out
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1]
	}
	return v
}

// Lookup returns the value of the first entry with key.
func (l List) Lookup(key string) (string, bool) {
	for _, p := range l {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present, as a flag or with a value.
func (l List) Has(key string) bool {
	_, ok := l.Lookup(key)
	return ok
}

// Flag reports whether key is set as a bare flag or with the value "true".
func (l List) Flag(key string) bool {
	for _, p := range l {
		if p.Key == key {
			return !p.HasValue || p.Value == "true"
		}
	}
	return false
}

// All returns the values of every entry with key.
func (l List) All(key string) []string {
	var out []string
	for _, p := range l {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// Split returns the entries before and after the first entry with key,
// excluding it. Without such entry, after is nil.
func (l List) Split(key string) (before, after List) {
	for i, p := range l {
		if p.Key == key {
			return l[:i], l[i+1:]
		}
	}
	return l, nil
}
