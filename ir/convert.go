package ir

import (
	"fmt"
	"maps"
	"slices"
)

// ToAny converts node to plain Go data: map[string]any for nodes with
// fields, []any for arrays, and the bare payload for nodes which only
// carry a Nameless slot. Scalars are returned as stored.
func ToAny(node *Node) (any, error) {
	return toAny(node, 0)
}

func toAny(node *Node, level int) (any, error) {
	if level > MaxDepth {
		return nil, DepthError("conversion", MaxDepth)
	}
	if node.IsNameless() {
		v, _ := node.Slot(Nameless)
		return valueToAny(v, level)
	}
	res := make(map[string]any, node.Len())
	for k, v := range node.All() {
		x, err := valueToAny(v, level)
		if err != nil {
			return nil, err
		}
		res[k] = x
	}
	return res, nil
}

// ToAny converts the value like the package level ToAny.
func (v Value) ToAny() (any, error) {
	return valueToAny(v, 0)
}

func valueToAny(v Value, level int) (any, error) {
	switch v.Kind {
	case ChildKind:
		return toAny(v.Child, level+1)
	case ArrayKind:
		res := make([]any, v.Array.Len())
		for i, elt := range v.Array.items {
			x, err := toAny(elt, level+1)
			if err != nil {
				return nil, err
			}
			res[i] = x
		}
		return res, nil
	}
	return v.Scalar, nil
}

// FromAny builds a node from plain Go data as produced by ToAny or by
// generic decoders. Maps become nodes, slices become arrays (under the
// Nameless key at the top), anything else a Nameless scalar.
func FromAny(v any) (*Node, error) {
	res := New()
	switch x := v.(type) {
	case map[string]any:
		if err := fillFromMap(res, x, 0); err != nil {
			return nil, err
		}
	case []any:
		a := res.CreateArray(Nameless)
		if err := fillArray(a, x, 0); err != nil {
			return nil, err
		}
	default:
		res.Set(Nameless, v)
	}
	return res, nil
}

func fillFromMap(node *Node, m map[string]any, level int) error {
	if level > MaxDepth {
		return DepthError("conversion", MaxDepth)
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := setAny(node, k, m[k], level); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

func setAny(node *Node, key string, v any, level int) error {
	switch x := v.(type) {
	case map[string]any:
		return fillFromMap(node.CreateObject(key), x, level+1)
	case []any:
		return fillArray(node.CreateArray(key), x, level+1)
	case *Node:
		node.SetObject(key, x)
	default:
		node.Set(key, v)
	}
	return nil
}

func fillArray(a *Array, xs []any, level int) error {
	if level > MaxDepth {
		return DepthError("conversion", MaxDepth)
	}
	for _, x := range xs {
		elt := a.CreateObject()
		switch y := x.(type) {
		case map[string]any:
			if err := fillFromMap(elt, y, level+1); err != nil {
				return err
			}
		case []any:
			if err := fillArray(elt.CreateArray(Nameless), y, level+1); err != nil {
				return err
			}
		default:
			elt.Set(Nameless, x)
		}
	}
	return nil
}
