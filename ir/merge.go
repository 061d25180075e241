package ir

import "time"

// Merge deep copies every slot of from into to. Children and arrays are
// copied into nodes created under to with CreateObject and CreateArray, so
// no node is shared with from. Merging deeper than MaxDepth fails with
// ErrDepthExceeded.
func Merge(from, to *Node) error {
	return merge(from, to, 0)
}

func merge(from, to *Node, level int) error {
	if level > MaxDepth {
		return DepthError("merge", MaxDepth)
	}
	for k, v := range from.All() {
		switch v.Kind {
		case ScalarKind:
			to.Set(k, cloneScalar(v.Scalar))
		case ChildKind:
			if err := merge(v.Child, to.CreateObject(k), level+1); err != nil {
				return err
			}
		case ArrayKind:
			dst := to.CreateArray(k)
			for _, elt := range v.Array.items {
				if err := merge(elt, dst.CreateObject(), level+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Clone returns a detached deep copy of node, named like node.
func (node *Node) Clone() (*Node, error) {
	res := NewNamed(node.Name)
	if err := Merge(node, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Equal reports whether a and b hold the same slots in the same order with
// equal scalars. Depth is bounded by MaxDepth.
func Equal(a, b *Node) bool {
	return equal(a, b, 0)
}

func equal(a, b *Node, level int) bool {
	if level > MaxDepth {
		return false
	}
	if a.Len() != b.Len() {
		return false
	}
	ka, kb := a.Keys(), b.Keys()
	for i, k := range ka {
		if kb[i] != k {
			return false
		}
		va, _ := a.Slot(k)
		vb, _ := b.Slot(k)
		if va.Kind != vb.Kind {
			return false
		}
		switch va.Kind {
		case ScalarKind:
			if !scalarEqual(va.Scalar, vb.Scalar) {
				return false
			}
		case ChildKind:
			if !equal(va.Child, vb.Child, level+1) {
				return false
			}
		case ArrayKind:
			if va.Array.Len() != vb.Array.Len() {
				return false
			}
			for j, x := range va.Array.items {
				if !equal(x, vb.Array.items[j], level+1) {
					return false
				}
			}
		}
	}
	return true
}

func scalarEqual(x, y any) bool {
	tx, ty := ScalarTypeOf(x), ScalarTypeOf(y)
	if tx != ty {
		return false
	}
	switch tx {
	case DateType:
		return x.(time.Time).Equal(y.(time.Time))
	case BinaryType, BigIntType, BigFloatType, EnumType, OtherType:
		sx, errX := ScalarString(x)
		sy, errY := ScalarString(y)
		return errX == nil && errY == nil && sx == sy
	}
	return x == y
}
