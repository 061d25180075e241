package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path returns the root relative path of node: "/" for the root, otherwise
// one segment per ancestor, "/name[i]" for array elements and "/name" for
// single children.
func (node *Node) Path() string {
	var segs []string
	for x := node; x != nil; x = x.parent {
		if x.parent == nil && x.array == nil {
			break
		}
		seg := x.Name
		if x.array != nil {
			seg += "[" + strconv.Itoa(x.array.IndexOf(x)) + "]"
		}
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return "/"
	}
	var b strings.Builder
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(segs[i])
	}
	return b.String()
}

// Segment is one step of a path: a field name with an optional index.
type Segment struct {
	Name  string
	Index int
	// HasIndex is set for "name[i]" segments.
	HasIndex bool
}

func (s Segment) String() string {
	if !s.HasIndex {
		return s.Name
	}
	return s.Name + "[" + strconv.Itoa(s.Index) + "]"
}

// ParsePath splits a "/a/b[2]/c" path into segments. Leading, trailing and
// repeated slashes are ignored.
func ParsePath(path string) ([]Segment, error) {
	parts := splitPath(path)
	res := make([]Segment, 0, len(parts))
	for _, p := range parts {
		seg, err := parseSegment(p)
		if err != nil {
			return nil, err
		}
		res = append(res, seg)
	}
	return res, nil
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	res := parts[:0]
	for _, p := range parts {
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

func parseSegment(p string) (Segment, error) {
	open := strings.IndexByte(p, '[')
	if open == -1 {
		if strings.IndexByte(p, ']') != -1 {
			return Segment{}, fmt.Errorf("%w: unbalanced ']' in %q", ErrBadPath, p)
		}
		return Segment{Name: p}, nil
	}
	if p[len(p)-1] != ']' {
		return Segment{}, fmt.Errorf("%w: segment %q does not end with ']'", ErrBadPath, p)
	}
	i, err := strconv.Atoi(p[open+1 : len(p)-1])
	if err != nil || i < 0 {
		return Segment{}, fmt.Errorf("%w: bad index in %q", ErrBadPath, p)
	}
	return Segment{Name: p[:open], Index: i, HasIndex: true}, nil
}

// FindOrCreateNode resolves path below root, creating what is missing. An
// indexed segment "name[i]" extends the array at name with empty objects
// until it has i+1 elements and selects element i. A plain segment selects
// the single child at name, creating it when absent; when name holds an
// array its first element is used.
func FindOrCreateNode(root *Node, path string) (*Node, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if len(segs) > MaxDepth {
		return nil, DepthError("path "+strconv.Quote(path), MaxDepth)
	}
	cur := root
	for _, seg := range segs {
		cur = cur.findOrCreate(seg)
	}
	return cur, nil
}

func (node *Node) findOrCreate(seg Segment) *Node {
	if seg.HasIndex {
		a, ok := node.GetArray(seg.Name)
		if !ok {
			a = node.promoteToArray(seg.Name)
		}
		for a.Len() <= seg.Index {
			a.CreateObject()
		}
		return a.Get(seg.Index)
	}
	if child, ok := node.GetObject(seg.Name); ok {
		return child
	}
	if a, ok := node.GetArray(seg.Name); ok {
		if a.Len() == 0 {
			return a.CreateObject()
		}
		return a.Get(0)
	}
	return node.CreateObject(seg.Name)
}

// promoteToArray turns the slot at key into an array, keeping a single
// child as its first element.
func (node *Node) promoteToArray(key string) *Array {
	child, hasChild := node.GetObject(key)
	a := node.CreateArray(key)
	if hasChild {
		a.Add(child)
	}
	return a
}

// FindNode resolves path below node without creating anything.
func (node *Node) FindNode(path string) (*Node, bool) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, false
	}
	cur := node
	for _, seg := range segs {
		if seg.HasIndex {
			a, ok := cur.GetArray(seg.Name)
			if !ok || a.Get(seg.Index) == nil {
				return nil, false
			}
			cur = a.Get(seg.Index)
			continue
		}
		child, ok := cur.GetObject(seg.Name)
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// FindValue resolves path below node like FindNode, but the last segment
// may also name a scalar or an array. Misses fail with ErrNotFound.
func (node *Node) FindValue(path string) (Value, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return Value{}, err
	}
	if n, ok := node.FindNode(path); ok {
		return Value{Kind: ChildKind, Child: n}, nil
	}
	if len(segs) > 0 && !segs[len(segs)-1].HasIndex {
		last := segs[len(segs)-1]
		var dir strings.Builder
		for _, seg := range segs[:len(segs)-1] {
			dir.WriteString("/" + seg.String())
		}
		if parent, ok := node.FindNode(dir.String()); ok {
			if v, ok := parent.Slot(last.Name); ok {
				return v, nil
			}
		}
	}
	return Value{}, fmt.Errorf("%w: %s", ErrNotFound, path)
}
