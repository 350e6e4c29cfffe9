package descriptor

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the type of a Node.
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

var kindNames = [...]string{"null", "bool", "integer", "number", "string", "list", "mapping"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Node is one value of a decoded document. Mappings keep their keys in
// document order so that legends and overlays are drawn as written.
type Node struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	List  []*Node
	Keys  []string
	Vals  []*Node
}

// Null returns a null node.
func Null() *Node { return &Node{Kind: KindNull} }

// Bool returns a boolean node.
func Bool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// Int returns an integer node.
func Int(n int64) *Node { return &Node{Kind: KindInt, Int: n} }

// Float returns a floating point node.
func Float(f float64) *Node { return &Node{Kind: KindFloat, Float: f} }

// String returns a string node.
func String(s string) *Node { return &Node{Kind: KindString, Str: s} }

// List returns a list node.
func List(items ...*Node) *Node { return &Node{Kind: KindList, List: items} }

// Map returns an empty mapping node.
func Map() *Node { return &Node{Kind: KindMap} }

// Put appends or replaces a key of a mapping node.
func (n *Node) Put(key string, v *Node) *Node {
	for i, k := range n.Keys {
		if k == key {
			n.Vals[i] = v
			return n
		}
	}
	n.Keys = append(n.Keys, key)
	n.Vals = append(n.Vals, v)
	return n
}

// Get returns the value stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMap {
		return nil, false
	}
	for i, k := range n.Keys {
		if k == key {
			return n.Vals[i], true
		}
	}
	return nil, false
}

// Has reports whether a mapping contains key.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// IsNull reports whether n is absent or null.
func (n *Node) IsNull() bool { return n == nil || n.Kind == KindNull }

// asInt returns an integer, accepting floats without a fractional part.
func (n *Node) asInt() (int, bool) {
	switch n.Kind {
	case KindInt:
		return int(n.Int), true
	case KindFloat:
		if n.Float == math.Trunc(n.Float) {
			return int(n.Float), true
		}
	}
	return 0, false
}

func (n *Node) asFloat() (float64, bool) {
	switch n.Kind {
	case KindInt:
		return float64(n.Int), true
	case KindFloat:
		return n.Float, true
	}
	return 0, false
}

// asScalarString formats strings and numbers as text.
func (n *Node) asScalarString() (string, bool) {
	switch n.Kind {
	case KindString:
		return n.Str, true
	case KindInt:
		return strconv.FormatInt(n.Int, 10), true
	case KindFloat:
		return strconv.FormatFloat(n.Float, 'f', -1, 64), true
	}
	return "", false
}

// items returns the elements of a list, or n itself for any other kind.
func (n *Node) items() []*Node {
	if n.Kind == KindList {
		return n.List
	}
	return []*Node{n}
}
