package ir

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Node is an ordered set of named slots, each holding a scalar, a single
// child Node or an Array of Nodes.
//
// parent and array are back references: parent is the node owning the field
// that holds this node (directly or through an array), array is the
// enclosing Array when the node is an array element.
type Node struct {
	Name string

	parent *Node
	array  *Array
	slots  *orderedmap.OrderedMap[string, Value]

	tmplOnce sync.Once
	tmpls    *xsync.MapOf[string, *Template]
}

// New returns an empty detached node.
func New() *Node {
	return &Node{}
}

// NewNamed returns an empty detached node with the given name.
func NewNamed(name string) *Node {
	return &Node{Name: name}
}

// FromScalar returns a detached node holding v under the Nameless key.
func FromScalar(v any) *Node {
	res := &Node{}
	res.Set(Nameless, v)
	return res
}

func (node *Node) m() *orderedmap.OrderedMap[string, Value] {
	if node.slots == nil {
		node.slots = orderedmap.New[string, Value]()
	}
	return node.slots
}

// Parent returns the node owning the field which holds node, nil for roots.
func (node *Node) Parent() *Node {
	return node.parent
}

// Array returns the array node is an element of, or nil.
func (node *Node) Array() *Array {
	return node.array
}

// Root returns the top most ancestor.
func (node *Node) Root() *Node {
	res := node
	for res.parent != nil {
		res = res.parent
	}
	return res
}

// IsRoot reports whether node has no parent.
func (node *Node) IsRoot() bool {
	return node.parent == nil
}

// Len returns the number of slots.
func (node *Node) Len() int {
	if node.slots == nil {
		return 0
	}
	return node.slots.Len()
}

// Keys returns the slot keys in insertion order.
func (node *Node) Keys() []string {
	res := make([]string, 0, node.Len())
	for k := range node.All() {
		res = append(res, k)
	}
	return res
}

// All iterates the slots in insertion order.
func (node *Node) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if node.slots == nil {
			return
		}
		for p := node.slots.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Slot returns the value at key.
func (node *Node) Slot(key string) (Value, bool) {
	if node.slots == nil {
		return Value{}, false
	}
	return node.slots.Get(key)
}

// Has reports whether key holds any value.
func (node *Node) Has(key string) bool {
	_, ok := node.Slot(key)
	return ok
}

// Kind returns the kind held at key.
func (node *Node) Kind(key string) (Kind, bool) {
	v, ok := node.Slot(key)
	return v.Kind, ok
}

// IsNameless reports whether the node only carries a Nameless payload.
func (node *Node) IsNameless() bool {
	return node.Len() == 1 && node.Has(Nameless)
}

// Set stores v at key. A *Node or *Array is stored as a child or array,
// anything else as a scalar. Whatever key held before is replaced.
func (node *Node) Set(key string, v any) {
	switch x := v.(type) {
	case *Node:
		if x == nil {
			node.put(key, scalarValue(nil))
			return
		}
		node.SetObject(key, x)
	case *Array:
		if x == nil {
			node.put(key, scalarValue(nil))
			return
		}
		node.SetArray(key, x)
	case Value:
		switch x.Kind {
		case ChildKind:
			node.SetObject(key, x.Child)
		case ArrayKind:
			node.SetArray(key, x.Array)
		default:
			node.put(key, scalarValue(x.Scalar))
		}
	default:
		node.put(key, scalarValue(v))
	}
}

// Get returns the scalar stored at key. Children and arrays are absent.
func (node *Node) Get(key string) (any, bool) {
	v, ok := node.Slot(key)
	if !ok || v.Kind != ScalarKind {
		return nil, false
	}
	return v.Scalar, true
}

// IsNull reports whether key holds a null scalar.
func (node *Node) IsNull(key string) bool {
	v, ok := node.Slot(key)
	return ok && v.IsNull()
}

// SetNull stores a null scalar at key.
func (node *Node) SetNull(key string) {
	node.put(key, scalarValue(nil))
}

// Remove deletes key, detaching any child or array it held.
func (node *Node) Remove(key string) bool {
	if node.slots == nil {
		return false
	}
	v, ok := node.slots.Delete(key)
	if ok {
		node.detach(v)
	}
	return ok
}

// RemoveProperty is Remove.
func (node *Node) RemoveProperty(key string) bool {
	return node.Remove(key)
}

// Clear removes every slot.
func (node *Node) Clear() {
	for _, k := range node.Keys() {
		node.Remove(k)
	}
}

func (node *Node) put(key string, v Value) {
	old, present := node.m().Set(key, v)
	if present && !sameValue(old, v) {
		node.detach(old)
	}
}

func sameValue(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ChildKind:
		return a.Child == b.Child
	case ArrayKind:
		return a.Array == b.Array
	}
	return false
}

// detach clears the back references of a value leaving node, unless they
// were already restamped by another owner.
func (node *Node) detach(v Value) {
	switch v.Kind {
	case ChildKind:
		if v.Child.parent == node && v.Child.array == nil {
			v.Child.parent = nil
		}
	case ArrayKind:
		if v.Array.owner != node {
			return
		}
		v.Array.owner = nil
		for _, n := range v.Array.items {
			if n.array == v.Array {
				n.parent = nil
			}
		}
	}
}

// IsObject reports whether key holds a single child.
func (node *Node) IsObject(key string) bool {
	k, ok := node.Kind(key)
	return ok && k == ChildKind
}

// GetObject returns the single child at key.
func (node *Node) GetObject(key string) (*Node, bool) {
	v, ok := node.Slot(key)
	if !ok || v.Kind != ChildKind {
		return nil, false
	}
	return v.Child, true
}

// IsArray reports whether key holds an array.
func (node *Node) IsArray(key string) bool {
	k, ok := node.Kind(key)
	return ok && k == ArrayKind
}

// GetArray returns the array at key.
func (node *Node) GetArray(key string) (*Array, bool) {
	v, ok := node.Slot(key)
	if !ok || v.Kind != ArrayKind {
		return nil, false
	}
	return v.Array, true
}

// SetObject stores child as the single child at key.
func (node *Node) SetObject(key string, child *Node) {
	child.Name = key
	child.parent = node
	child.array = nil
	node.put(key, childValue(child))
}

// SetArray stores a as the array at key, stamping it and its elements.
func (node *Node) SetArray(key string, a *Array) {
	a.name = key
	a.owner = node
	for _, n := range a.items {
		a.stamp(n)
	}
	node.put(key, arrayValue(a))
}

// CreateObject creates a child at key. On a fresh key (or one holding a
// scalar) the child becomes the single child. A key already holding a child
// is promoted to an array of the previous and the new child; a key holding
// an array gets the new child appended.
func (node *Node) CreateObject(key string) *Node {
	child := &Node{}
	node.AddObject(key, child)
	return child
}

// AddObject adds child at key with the promotion rules of CreateObject.
func (node *Node) AddObject(key string, child *Node) {
	v, ok := node.Slot(key)
	if !ok || v.Kind == ScalarKind {
		node.SetObject(key, child)
		return
	}
	switch v.Kind {
	case ChildKind:
		a := &Array{name: key, owner: node}
		a.add(v.Child)
		a.add(child)
		node.m().Set(key, arrayValue(a))
	case ArrayKind:
		v.Array.Add(child)
	}
}

// CreateArray replaces whatever key held with a fresh empty array.
func (node *Node) CreateArray(key string) *Array {
	a := &Array{}
	node.SetArray(key, a)
	return a
}

// GetAsObject always returns a node for key: the child itself, the first
// element of an array, or a detached node wrapping a scalar. Maps are
// folded into a detached node.
func (node *Node) GetAsObject(key string) *Node {
	v, ok := node.Slot(key)
	if !ok {
		return NewNamed(key)
	}
	switch v.Kind {
	case ChildKind:
		return v.Child
	case ArrayKind:
		if v.Array.Len() > 0 {
			return v.Array.Get(0)
		}
		return NewNamed(key)
	}
	if m, isMap := v.Scalar.(map[string]any); isMap {
		res, err := FromAny(m)
		if err == nil {
			res.Name = key
			return res
		}
	}
	res := FromScalar(v.Scalar)
	res.Name = key
	return res
}

// GetObjectByPath follows "/a/b/c" through single children. Empty segments
// are ignored.
func (node *Node) GetObjectByPath(path string) (*Node, bool) {
	res := node
	for _, seg := range splitPath(path) {
		child, ok := res.GetObject(seg)
		if !ok {
			return nil, false
		}
		res = child
	}
	return res, true
}

// Nodes returns the child nodes of every child and array slot, in order.
func (node *Node) Nodes() []*Node {
	var res []*Node
	for _, v := range node.All() {
		switch v.Kind {
		case ChildKind:
			res = append(res, v.Child)
		case ArrayKind:
			res = append(res, v.Array.items...)
		}
	}
	return res
}

// Visit walks the tree depth first, calling f before (isPost false) and
// after (isPost true) the children of each node. Returning false from the
// pre call skips the children.
func (node *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	return node.visit(f, 0)
}

func (node *Node) visit(f func(n *Node, isPost bool) (bool, error), level int) error {
	if level > MaxDepth {
		return DepthError("visit", MaxDepth)
	}
	dive, err := f(node, false)
	if err != nil {
		return err
	}
	if dive {
		for _, c := range node.Nodes() {
			if err := c.visit(f, level+1); err != nil {
				return err
			}
		}
	}
	if _, err := f(node, true); err != nil {
		return err
	}
	return nil
}

// ScalarKeys returns the keys holding scalars.
func (node *Node) ScalarKeys() []string {
	res := []string{}
	for k, v := range node.All() {
		if v.Kind == ScalarKind {
			res = append(res, k)
		}
	}
	return res
}

// Sort reorders the slots by key.
func (node *Node) Sort() {
	keys := node.Keys()
	slices.Sort(keys)
	fresh := orderedmap.New[string, Value]()
	for _, k := range keys {
		v, _ := node.slots.Get(k)
		fresh.Set(k, v)
	}
	node.slots = fresh
}

// String returns the node's path and keys.
func (node *Node) String() string {
	return fmt.Sprintf("%s%v", node.Path(), node.Keys())
}
