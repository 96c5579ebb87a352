// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jsonnode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes the node in compact form, keeping object key order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent writes the node with the given indentation.
func (n *Node) MarshalIndent(prefix, indent string) ([]byte, error) {
	compact, err := n.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (n *Node) write(buf *bytes.Buffer) error {
	switch n.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(n.b))
	case KindNumber:
		buf.WriteString(n.num.String())
	case KindString:
		return writeString(buf, n.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeString(buf, p.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := p.Value.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON replaces the node with the parsed document.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

// Parse decodes a JSON document, keeping object key order.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decode(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse JSON: unexpected trailing data")
	}
	return n, nil
}

// MustParse is like Parse but panics on error. Intended for tests and literals.
func MustParse(data string) *Node {
	n, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return n
}

func decode(dec *json.Decoder) (*Node, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := token.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyToken, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyToken.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyToken)
				}
				value, err := decode(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, value)
			}
			_, err := dec.Token()
			return obj, err
		case '[':
			arr := NewArray()
			for dec.More() {
				item, err := decode(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, item)
			}
			_, err := dec.Token()
			return arr, err
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", token)
}

// MarshalYAML renders the node as an ordered yaml.Node.
func (n *Node) MarshalYAML() (any, error) {
	return n.yamlNode(), nil
}

func (n *Node) yamlNode() *yaml.Node {
	switch n.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.b)}
	case KindNumber:
		tag := "!!float"
		if _, err := strconv.ParseInt(n.num.String(), 10, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.num.String()}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.str}
	case KindArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.items {
			seq.Content = append(seq.Content, item.yamlNode())
		}
		return seq
	default:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
				p.Value.yamlNode())
		}
		return m
	}
}

// ParseYAML decodes a YAML document into a node, keeping mapping order.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 {
		return Null(), nil
	}
	return fromYAML(&doc)
}

func fromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(y.Content[0])
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(y.Content); i += 2 {
			value, err := fromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(y.Content[i].Value, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := NewArray()
		for _, c := range y.Content {
			item, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			arr.items = append(arr.items, item)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch y.ShortTag() {
		case "!!null":
			return Null(), nil
		case "!!bool":
			var b bool
			if err := y.Decode(&b); err != nil {
				return nil, err
			}
			return Bool(b), nil
		case "!!int", "!!float":
			return Number(json.Number(y.Value)), nil
		default:
			return String(y.Value), nil
		}
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d", y.Kind)
}

// FromValue converts a Go value into a node. Maps are emitted with sorted
// keys, structs go through encoding/json.
func FromValue(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return t.Copy(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case []any:
		arr := NewArray()
		for _, item := range t {
			c, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			arr.items = append(arr.items, c)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			c, err := FromValue(t[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, c)
		}
		return obj, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %T: %w", v, err)
	}
	return Parse(data)
}

// Value converts the node into plain Go values (map[string]any, []any,
// json.Number, string, bool, nil).
func (n *Node) Value() any {
	switch n.Kind() {
	case KindBool:
		return n.b
	case KindNumber:
		return n.num
	case KindString:
		return n.str
	case KindArray:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.Value()
		}
		return out
	case KindObject:
		out := make(map[string]any, n.obj.Len())
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = p.Value.Value()
		}
		return out
	}
	return nil
}
