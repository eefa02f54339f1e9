// Package cfgtree implements the in-memory configuration tree: a nested,
// insertion-ordered mapping of string keys to scalars, lists and further
// mappings, addressed by paths of keys.
package cfgtree

import (
	"fmt"
	"math"
	"sort"
)

// Kind identifies which variant a Node holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is a single value in a configuration tree. A nil *Node is treated as null.
type Node struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []*Node
	m    *Map
}

// Null returns a null leaf.
func Null() *Node { return &Node{kind: KindNull} }

// Bool returns a boolean leaf.
func Bool(b bool) *Node { return &Node{kind: KindBool, b: b} }

// Int returns an integer leaf.
func Int(i int64) *Node { return &Node{kind: KindInt, i: i} }

// Float returns a floating point leaf.
func Float(f float64) *Node { return &Node{kind: KindFloat, f: f} }

// String returns a string leaf.
func String(s string) *Node { return &Node{kind: KindString, s: s} }

// List returns a list node holding items. Nil items become null leaves.
func List(items ...*Node) *Node {
	list := make([]*Node, len(items))
	for i, item := range items {
		if item == nil {
			item = Null()
		}
		list[i] = item
	}
	return &Node{kind: KindList, list: list}
}

// Branch wraps m as a map node. A nil map becomes an empty one.
func Branch(m *Map) *Node {
	if m == nil {
		m = NewMap()
	}
	return &Node{kind: KindMap, m: m}
}

// EmptyMap returns a map node with no entries.
func EmptyMap() *Node { return Branch(NewMap()) }

// MapOf builds a map node from alternating key/value pairs. It panics on an
// odd number of arguments or a non-string key.
func MapOf(pairs ...any) *Node {
	if len(pairs)%2 != 0 {
		panic("cfgtree: MapOf needs key/value pairs")
	}
	m := NewMap()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("cfgtree: MapOf key %v is not a string", pairs[i]))
		}
		m.Set(key, MustValueOf(pairs[i+1]))
	}
	return Branch(m)
}

// Kind reports the variant of n.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// IsNull reports whether n is a null leaf.
func (n *Node) IsNull() bool { return n.Kind() == KindNull }

// IsBranch reports whether n is a map node.
func (n *Node) IsBranch() bool { return n.Kind() == KindMap }

// IsLeaf reports whether n is a scalar.
func (n *Node) IsLeaf() bool {
	k := n.Kind()
	return k != KindMap && k != KindList
}

// AsBool returns the boolean value and whether n is a bool.
func (n *Node) AsBool() (bool, bool) {
	if n.Kind() != KindBool {
		return false, false
	}
	return n.b, true
}

// AsInt returns the integer value and whether n is an int.
func (n *Node) AsInt() (int64, bool) {
	if n.Kind() != KindInt {
		return 0, false
	}
	return n.i, true
}

// AsFloat returns the numeric value of an int or float node.
func (n *Node) AsFloat() (float64, bool) {
	switch n.Kind() {
	case KindFloat:
		return n.f, true
	case KindInt:
		return float64(n.i), true
	default:
		return 0, false
	}
}

// AsString returns the string value and whether n is a string.
func (n *Node) AsString() (string, bool) {
	if n.Kind() != KindString {
		return "", false
	}
	return n.s, true
}

// AsList returns the list items and whether n is a list.
func (n *Node) AsList() ([]*Node, bool) {
	if n.Kind() != KindList {
		return nil, false
	}
	return n.list, true
}

// AsMap returns the underlying map and whether n is a branch.
func (n *Node) AsMap() (*Map, bool) {
	if n.Kind() != KindMap {
		return nil, false
	}
	return n.m, true
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return Null()
	}
	switch n.kind {
	case KindList:
		items := make([]*Node, len(n.list))
		for i, item := range n.list {
			items[i] = item.Clone()
		}
		return &Node{kind: KindList, list: items}
	case KindMap:
		return Branch(n.m.Clone())
	default:
		c := *n
		return &c
	}
}

// Equal reports whether n and other hold the same structure and values.
// Map key order is not significant.
func (n *Node) Equal(other *Node) bool {
	if n.Kind() != other.Kind() {
		return false
	}
	switch n.Kind() {
	case KindNull:
		return true
	case KindBool:
		return n.b == other.b
	case KindInt:
		return n.i == other.i
	case KindFloat:
		return n.f == other.f || (math.IsNaN(n.f) && math.IsNaN(other.f))
	case KindString:
		return n.s == other.s
	case KindList:
		if len(n.list) != len(other.list) {
			return false
		}
		for i := range n.list {
			if !n.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return n.m.Equal(other.m)
	}
	return false
}

// Interface converts n into plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any.
func (n *Node) Interface() any {
	switch n.Kind() {
	case KindBool:
		return n.b
	case KindInt:
		return n.i
	case KindFloat:
		return n.f
	case KindString:
		return n.s
	case KindList:
		out := make([]any, len(n.list))
		for i, item := range n.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, n.m.Len())
		n.m.Range(func(key string, value *Node) bool {
			out[key] = value.Interface()
			return true
		})
		return out
	default:
		return nil
	}
}

// String renders leaves as their plain value and containers in a compact
// flow form, for logs and prompts.
func (n *Node) String() string {
	switch n.Kind() {
	case KindNull:
		return "null"
	case KindString:
		return n.s
	default:
		return fmt.Sprintf("%v", n.Interface())
	}
}

// ValueOf converts a plain Go value into a Node. Maps are converted with
// their keys sorted so the result is deterministic.
func ValueOf(v any) (*Node, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		if val == nil {
			return Null(), nil
		}
		return val, nil
	case *Map:
		return Branch(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return unsignedOf(uint64(val))
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		return unsignedOf(val)
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []string:
		items := make([]*Node, len(val))
		for i, s := range val {
			items[i] = String(s)
		}
		return List(items...), nil
	case []any:
		items := make([]*Node, len(val))
		for i, item := range val {
			n, err := ValueOf(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = n
		}
		return List(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			n, err := ValueOf(val[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m.Set(k, n)
		}
		return Branch(m), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// MustValueOf is like ValueOf but panics on unsupported types.
func MustValueOf(v any) *Node {
	n, err := ValueOf(v)
	if err != nil {
		panic("cfgtree: " + err.Error())
	}
	return n
}

func unsignedOf(u uint64) (*Node, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("unsigned value %d overflows int64", u)
	}
	return Int(int64(u)), nil
}
