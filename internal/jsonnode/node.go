// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jsonnode provides a mutable JSON value tree whose objects keep
// their keys in insertion order.
package jsonnode

import (
	"encoding/json"
	"iter"
	"math/big"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the JSON type held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is a single JSON value. Object nodes keep their keys in insertion
// order; replacing the value of an existing key keeps its position.
type Node struct {
	kind  Kind
	b     bool
	num   json.Number
	str   string
	items []*Node
	obj   *orderedmap.OrderedMap[string, *Node]
}

// NewObject returns an empty object node.
func NewObject() *Node {
	return &Node{kind: KindObject, obj: orderedmap.New[string, *Node]()}
}

// NewArray returns an array node holding the given items.
func NewArray(items ...*Node) *Node {
	return &Node{kind: KindArray, items: append([]*Node(nil), items...)}
}

// Null returns a JSON null node.
func Null() *Node { return &Node{kind: KindNull} }

// Bool returns a boolean node.
func Bool(b bool) *Node { return &Node{kind: KindBool, b: b} }

// String returns a string node.
func String(s string) *Node { return &Node{kind: KindString, str: s} }

// Int returns a number node holding an integer.
func Int(i int64) *Node { return &Node{kind: KindNumber, num: json.Number(strconv.FormatInt(i, 10))} }

// Uint returns a number node holding an unsigned integer.
func Uint(i uint64) *Node { return &Node{kind: KindNumber, num: json.Number(strconv.FormatUint(i, 10))} }

// Float returns a number node holding a float.
func Float(f float64) *Node {
	return &Node{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// Number returns a number node from its literal representation.
func Number(n json.Number) *Node { return &Node{kind: KindNumber, num: n} }

// Strings returns an array node of string nodes.
func Strings(values ...string) *Node {
	arr := NewArray()
	for _, v := range values {
		arr.items = append(arr.items, String(v))
	}
	return arr
}

// Kind reports the JSON type of the node. A nil node reports KindNull.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

func (n *Node) IsObject() bool { return n != nil && n.kind == KindObject }
func (n *Node) IsArray() bool  { return n != nil && n.kind == KindArray }
func (n *Node) IsString() bool { return n != nil && n.kind == KindString }
func (n *Node) IsNumber() bool { return n != nil && n.kind == KindNumber }
func (n *Node) IsBool() bool   { return n != nil && n.kind == KindBool }
func (n *Node) IsNull() bool   { return n == nil || n.kind == KindNull }

// BoolValue returns the boolean held by the node, false otherwise.
func (n *Node) BoolValue() bool { return n != nil && n.kind == KindBool && n.b }

// Text returns the string held by a string node, or the literal of a
// number node. Other kinds yield "".
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	switch n.kind {
	case KindString:
		return n.str
	case KindNumber:
		return n.num.String()
	case KindBool:
		return strconv.FormatBool(n.b)
	default:
		return ""
	}
}

// NumberValue returns the literal of a number node.
func (n *Node) NumberValue() (json.Number, bool) {
	if n == nil || n.kind != KindNumber {
		return "", false
	}
	return n.num, true
}

// Rat returns the numeric value of a number node as a rational.
func (n *Node) Rat() (*big.Rat, bool) {
	if n == nil || n.kind != KindNumber {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(n.num.String())
	return r, ok
}

// Len returns the number of object fields or array items.
func (n *Node) Len() int {
	switch {
	case n.IsObject():
		return n.obj.Len()
	case n.IsArray():
		return len(n.items)
	default:
		return 0
	}
}

// Get returns the value stored under key, or nil.
func (n *Node) Get(key string) *Node {
	if !n.IsObject() {
		return nil
	}
	v, _ := n.obj.Get(key)
	return v
}

// Has reports whether the object holds key.
func (n *Node) Has(key string) bool {
	if !n.IsObject() {
		return false
	}
	_, ok := n.obj.Get(key)
	return ok
}

// Set stores value under key and returns the node for chaining.
// A nil value is stored as JSON null.
func (n *Node) Set(key string, value *Node) *Node {
	if value == nil {
		value = Null()
	}
	n.obj.Set(key, value)
	return n
}

// SetAll copies every field of other into n. Child nodes are shared, not copied.
func (n *Node) SetAll(other *Node) *Node {
	for k, v := range other.Fields() {
		n.obj.Set(k, v)
	}
	return n
}

// Remove deletes key and returns the removed value.
func (n *Node) Remove(key string) *Node {
	if !n.IsObject() {
		return nil
	}
	v, _ := n.obj.Delete(key)
	return v
}

// RemoveAll deletes every field of the object.
func (n *Node) RemoveAll() *Node {
	if n.IsObject() {
		n.obj = orderedmap.New[string, *Node]()
	}
	return n
}

// Keys returns the object keys in order.
func (n *Node) Keys() []string {
	if !n.IsObject() {
		return nil
	}
	keys := make([]string, 0, n.obj.Len())
	for p := n.obj.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Fields iterates the object fields in order.
func (n *Node) Fields() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		if !n.IsObject() {
			return
		}
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Items returns the array items. The slice must not be modified.
func (n *Node) Items() []*Node {
	if !n.IsArray() {
		return nil
	}
	return n.items
}

// Index returns the i-th array item.
func (n *Node) Index(i int) *Node {
	if !n.IsArray() || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Append adds items to the array and returns the node.
func (n *Node) Append(items ...*Node) *Node {
	for _, item := range items {
		if item == nil {
			item = Null()
		}
		n.items = append(n.items, item)
	}
	return n
}

// SetItems replaces the array items.
func (n *Node) SetItems(items []*Node) *Node {
	n.items = append([]*Node(nil), items...)
	return n
}

// RemoveIndex drops the i-th array item.
func (n *Node) RemoveIndex(i int) *Node {
	if !n.IsArray() || i < 0 || i >= len(n.items) {
		return nil
	}
	removed := n.items[i]
	n.items = append(n.items[:i], n.items[i+1:]...)
	return removed
}

// ContainsItem reports whether the array holds a value equal to v.
func (n *Node) ContainsItem(v *Node) bool {
	for _, item := range n.Items() {
		if item.Equal(v) {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the node.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	c := &Node{kind: n.kind, b: n.b, num: n.num, str: n.str}
	switch n.kind {
	case KindArray:
		c.items = make([]*Node, len(n.items))
		for i, item := range n.items {
			c.items[i] = item.Copy()
		}
	case KindObject:
		c.obj = orderedmap.New[string, *Node]()
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			c.obj.Set(p.Key, p.Value.Copy())
		}
	}
	return c
}

// Equal reports structural equality. Object key order is not significant and
// numbers compare by value.
func (n *Node) Equal(other *Node) bool {
	if n.Kind() != other.Kind() {
		return false
	}
	switch n.Kind() {
	case KindNull:
		return true
	case KindBool:
		return n.b == other.b
	case KindString:
		return n.str == other.str
	case KindNumber:
		if n.num == other.num {
			return true
		}
		a, okA := n.Rat()
		b, okB := other.Rat()
		return okA && okB && a.Cmp(b) == 0
	case KindArray:
		if len(n.items) != len(other.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if n.obj.Len() != other.obj.Len() {
			return false
		}
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			v, ok := other.obj.Get(p.Key)
			if !ok || !p.Value.Equal(v) {
				return false
			}
		}
		return true
	}
	return false
}
