// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package cleanup

import (
	"slices"

	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
)

// mergeFunc combines the values of one keyword taken from several allOf
// parts. It returns nil when the values cannot be combined.
type mergeFunc func(values []*jsonnode.Node, reverse map[string]keyword.Keyword) func() *jsonnode.Node

func (c *Cleaner) prepareMergers() map[keyword.Keyword]mergeFunc {
	m := make(map[keyword.Keyword]mergeFunc)
	arrays := func(values []*jsonnode.Node, _ map[string]keyword.Keyword) func() *jsonnode.Node {
		return mergeArrays(values)
	}
	m[keyword.AllOf] = arrays
	m[keyword.Required] = arrays
	m[keyword.Properties] = func(values []*jsonnode.Node, _ map[string]keyword.Keyword) func() *jsonnode.Node {
		return mergeObjectProperties(values)
	}
	m[keyword.DependentRequired] = func(values []*jsonnode.Node, _ map[string]keyword.Keyword) func() *jsonnode.Node {
		return mergeDependentRequired(values)
	}
	m[keyword.DependentSchemas] = func(values []*jsonnode.Node, _ map[string]keyword.Keyword) func() *jsonnode.Node {
		if c.dialect.Legacy() {
			// draft-06/07 share "dependencies" between both forms
			if merged := mergeDependentRequired(values); merged != nil {
				return merged
			}
		}
		return mergeObjectProperties(values)
	}
	schemas := func(values []*jsonnode.Node, reverse map[string]keyword.Keyword) func() *jsonnode.Node {
		return c.mergeSchemas(nil, values, reverse)
	}
	for _, k := range []keyword.Keyword{keyword.Items, keyword.UnevaluatedItems, keyword.AdditionalProperties, keyword.UnevaluatedProperties} {
		m[k] = schemas
	}
	m[keyword.Type] = func(values []*jsonnode.Node, _ map[string]keyword.Keyword) func() *jsonnode.Node {
		return overlapOfTypes(values)
	}
	minimum := func(values []*jsonnode.Node, _ map[string]keyword.Keyword) func() *jsonnode.Node {
		return pickNumber(values, func(cmp int) bool { return cmp < 0 })
	}
	maximum := func(values []*jsonnode.Node, _ map[string]keyword.Keyword) func() *jsonnode.Node {
		return pickNumber(values, func(cmp int) bool { return cmp > 0 })
	}
	for _, k := range []keyword.Keyword{keyword.MaxItems, keyword.MaxProperties, keyword.Maximum, keyword.ExclusiveMaximum, keyword.MaxLength} {
		m[k] = minimum
	}
	for _, k := range []keyword.Keyword{keyword.MinItems, keyword.MinProperties, keyword.Minimum, keyword.ExclusiveMinimum, keyword.MinLength} {
		m[k] = maximum
	}
	return m
}

func (c *Cleaner) mergeAllOfParts(n *jsonnode.Node, allOfTag string, reverse map[string]keyword.Keyword) {
	allOf := n.Get(allOfTag)
	if !n.IsObject() || !allOf.IsArray() {
		return
	}
	for _, part := range allOf.Items() {
		c.mergeAllOfParts(part, allOfTag, reverse)
	}
	parts := append([]*jsonnode.Node{n}, allOf.Items()...)
	merged := c.mergeSchemas(n, parts, reverse)
	if merged == nil {
		return
	}
	result := merged()
	n.Remove(allOfTag)
	n.SetAll(result)
}

type fieldValues struct {
	name   string
	values []*jsonnode.Node
}

// mergeSchemas combines the parts into one schema, or returns nil when they
// conflict. main is the parent holding the allOf, if any.
func (c *Cleaner) mergeSchemas(main *jsonnode.Node, nodes []*jsonnode.Node, reverse map[string]keyword.Keyword) func() *jsonnode.Node {
	var parts []*jsonnode.Node
	for _, n := range nodes {
		if n.IsBool() && !n.BoolValue() {
			return nil
		}
		if n.IsObject() {
			parts = append(parts, n)
		}
	}
	fields := fieldsOf(parts)
	if c.skipMerge(main, parts, fields) {
		return nil
	}

	var unsupported []fieldValues
	type supportedValue struct {
		keyword keyword.Keyword
		values  []*jsonnode.Node
	}
	var supported []supportedValue
	for _, f := range fields {
		k, ok := reverse[f.name]
		if !ok {
			if len(f.values) > 1 {
				return nil
			}
			unsupported = append(unsupported, f)
			continue
		}
		if k == keyword.If {
			return nil
		}
		supported = append(supported, supportedValue{k, f.values})
	}

	type mergedValue struct {
		keyword keyword.Keyword
		value   func() *jsonnode.Node
	}
	var merged []mergedValue
	for _, s := range supported {
		values := s.values
		if s.keyword == keyword.AllOf && main != nil {
			if len(values) == 1 {
				continue
			}
			values = values[1:]
		}
		fn := c.mergeFunctionFor(s.keyword, values, reverse)
		if fn == nil {
			return nil
		}
		merged = append(merged, mergedValue{s.keyword, fn})
	}
	return func() *jsonnode.Node {
		out := jsonnode.NewObject()
		for _, m := range merged {
			out.Set(c.kw(m.keyword), m.value())
		}
		for _, u := range unsupported {
			out.Set(u.name, u.values[0])
		}
		return out
	}
}

func fieldsOf(parts []*jsonnode.Node) []fieldValues {
	var out []fieldValues
	index := make(map[string]int)
	for _, part := range parts {
		for k, v := range part.Fields() {
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, fieldValues{name: k})
			}
			out[i].values = append(out[i].values, v)
		}
	}
	return out
}

// skipMerge guards draft-06/07, where "$ref" makes sibling keywords ignored.
func (c *Cleaner) skipMerge(main *jsonnode.Node, parts []*jsonnode.Node, fields []fieldValues) bool {
	if !c.dialect.Legacy() {
		return false
	}
	ref := c.kw(keyword.Ref)
	if !slices.ContainsFunc(fields, func(f fieldValues) bool { return f.name == ref }) {
		return false
	}
	if main == nil {
		return len(parts) > 1
	}
	return main.Len() > 1 || len(parts) > 2
}

func (c *Cleaner) mergeFunctionFor(k keyword.Keyword, values []*jsonnode.Node, reverse map[string]keyword.Keyword) func() *jsonnode.Node {
	if len(values) == 1 {
		v := values[0]
		return func() *jsonnode.Node { return v }
	}
	if fn, ok := c.mergers[k]; ok {
		return fn(values, reverse)
	}
	return oneIfAllEqual(values)
}

func mergeArrays(values []*jsonnode.Node) func() *jsonnode.Node {
	for _, v := range values {
		if !v.IsArray() {
			return nil
		}
	}
	return func() *jsonnode.Node {
		out := jsonnode.NewArray()
		for _, v := range values {
			for _, item := range v.Items() {
				if !out.ContainsItem(item) {
					out.Append(item)
				}
			}
		}
		return out
	}
}

func mergeObjectProperties(values []*jsonnode.Node) func() *jsonnode.Node {
	out := jsonnode.NewObject()
	for _, v := range values {
		if !v.IsObject() {
			return nil
		}
		for name, prop := range v.Fields() {
			existing := out.Get(name)
			switch {
			case existing == nil:
				out.Set(name, prop)
			case !existing.Equal(prop):
				return nil
			}
		}
	}
	return func() *jsonnode.Node { return out }
}

func mergeDependentRequired(values []*jsonnode.Node) func() *jsonnode.Node {
	var leads []string
	names := make(map[string][]string)
	for _, v := range values {
		if !v.IsObject() {
			return nil
		}
		for lead, dependents := range v.Fields() {
			if !dependents.IsArray() {
				return nil
			}
			if _, ok := names[lead]; !ok {
				leads = append(leads, lead)
				names[lead] = []string{}
			}
			for _, item := range dependents.Items() {
				if !item.IsString() {
					return nil
				}
				if !slices.Contains(names[lead], item.Text()) {
					names[lead] = append(names[lead], item.Text())
				}
			}
		}
	}
	return func() *jsonnode.Node {
		out := jsonnode.NewObject()
		for _, lead := range leads {
			out.Set(lead, jsonnode.Strings(names[lead]...))
		}
		return out
	}
}

func typeNames(n *jsonnode.Node) ([]string, bool) {
	switch {
	case n.IsString():
		return []string{n.Text()}, true
	case n.IsArray():
		out := make([]string, 0, n.Len())
		for _, item := range n.Items() {
			if !item.IsString() {
				return nil, false
			}
			out = append(out, item.Text())
		}
		return out, true
	}
	return nil, false
}

func overlapOfTypes(values []*jsonnode.Node) func() *jsonnode.Node {
	overlap, ok := typeNames(values[0])
	if !ok {
		return nil
	}
	for _, v := range values[1:] {
		next, ok := typeNames(v)
		if !ok {
			return nil
		}
		overlap = slices.DeleteFunc(overlap, func(t string) bool { return !slices.Contains(next, t) })
		if len(overlap) == 0 {
			return nil
		}
	}
	if len(overlap) == 1 {
		return func() *jsonnode.Node { return jsonnode.String(overlap[0]) }
	}
	return func() *jsonnode.Node { return jsonnode.Strings(overlap...) }
}

// pickNumber keeps the value for which better(cmp(candidate, kept)) holds.
func pickNumber(values []*jsonnode.Node, better func(cmp int) bool) func() *jsonnode.Node {
	for _, v := range values {
		if !v.IsNumber() {
			return nil
		}
	}
	return func() *jsonnode.Node {
		kept := values[0]
		keptRat, _ := kept.Rat()
		for _, v := range values[1:] {
			r, ok := v.Rat()
			if ok && keptRat != nil && better(r.Cmp(keptRat)) {
				kept, keptRat = v, r
			}
		}
		return kept
	}
}

func oneIfAllEqual(values []*jsonnode.Node) func() *jsonnode.Node {
	first := values[0]
	for _, v := range values[1:] {
		if !first.Equal(v) {
			return nil
		}
	}
	return func() *jsonnode.Node { return first }
}
