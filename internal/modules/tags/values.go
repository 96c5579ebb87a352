// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package tags

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dacolabs/schemagen/internal/typemodel"
)

// ValueKind is the JSON category of a basic type.
type ValueKind int

const (
	KindOther ValueKind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
)

// KindOf classifies t by its underlying basic type.
func KindOf(t *typemodel.ResolvedType) ValueKind {
	if t == nil || t.Decl() == nil || t.Decl().Kind != typemodel.KindBasic {
		return KindOther
	}
	switch u := t.Decl().Underlying; {
	case u == "string":
		return KindString
	case u == "bool":
		return KindBoolean
	case u == "float32" || u == "float64":
		return KindNumber
	case strings.HasPrefix(u, "int") || strings.HasPrefix(u, "uint"):
		return KindInteger
	}
	return KindOther
}

// TypedValue converts raw to a value of the JSON category of t. Values that
// do not parse are kept as strings.
func TypedValue(t *typemodel.ResolvedType, raw string) any {
	switch KindOf(t) {
	case KindInteger:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return u
		}
	case KindNumber:
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return json.Number(raw)
		}
	case KindBoolean:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}

// Number parses raw as a JSON number.
func Number(raw string) (json.Number, bool) {
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return "", false
	}
	return json.Number(raw), true
}

// Int parses raw as a non-negative integer.
func Int(raw string) (int, bool) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
