package ir

import (
	"iter"
	"slices"
)

// Array is an ordered list of Nodes sharing a field name and owner. Every
// node inserted is stamped with the array's name, owner (as parent) and the
// array itself, whatever it carried before.
type Array struct {
	name  string
	owner *Node
	items []*Node
}

// NewArray returns a detached empty array. It gets a name and owner when
// stored with Node.SetArray.
func NewArray(nodes ...*Node) *Array {
	a := &Array{}
	a.AddAll(nodes...)
	return a
}

// Name is the field name the array is stored under.
func (a *Array) Name() string {
	return a.name
}

// Owner is the node holding the array.
func (a *Array) Owner() *Node {
	return a.owner
}

func (a *Array) Len() int {
	return len(a.items)
}

// Get returns the element at i, nil when out of range.
func (a *Array) Get(i int) *Node {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Nodes returns the elements. The slice must not be modified.
func (a *Array) Nodes() []*Node {
	return a.items
}

// IndexOf returns the position of n by identity, -1 if absent.
func (a *Array) IndexOf(n *Node) int {
	for i, x := range a.items {
		if x == n {
			return i
		}
	}
	return -1
}

func (a *Array) stamp(n *Node) {
	n.Name = a.name
	n.parent = a.owner
	n.array = a
}

func (a *Array) add(n *Node) {
	a.stamp(n)
	a.items = append(a.items, n)
}

// Add appends n.
func (a *Array) Add(n *Node) {
	a.add(n)
}

// AddLast is Add.
func (a *Array) AddLast(n *Node) {
	a.add(n)
}

// AddFirst prepends n.
func (a *Array) AddFirst(n *Node) {
	a.Insert(0, n)
}

// Insert places n at i, shifting later elements. i is clamped to the
// valid range.
func (a *Array) Insert(i int, n *Node) {
	i = max(0, min(i, len(a.items)))
	a.stamp(n)
	a.items = slices.Insert(a.items, i, n)
}

// AddAll appends every node.
func (a *Array) AddAll(nodes ...*Node) {
	for _, n := range nodes {
		a.add(n)
	}
}

// Set replaces the element at i and returns the previous one. Setting one
// past the end appends.
func (a *Array) Set(i int, n *Node) *Node {
	if i == len(a.items) {
		a.add(n)
		return nil
	}
	if i < 0 || i > len(a.items) {
		return nil
	}
	prev := a.items[i]
	a.stamp(n)
	a.items[i] = n
	if prev != n {
		a.release(prev)
	}
	return prev
}

// Remove deletes the element at i and returns it.
func (a *Array) Remove(i int) *Node {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	n := a.items[i]
	a.items = slices.Delete(a.items, i, i+1)
	a.release(n)
	return n
}

// RemoveNode deletes n, matched by identity.
func (a *Array) RemoveNode(n *Node) bool {
	i := a.IndexOf(n)
	if i < 0 {
		return false
	}
	a.Remove(i)
	return true
}

// Clear removes every element.
func (a *Array) Clear() {
	for _, n := range a.items {
		a.release(n)
	}
	a.items = nil
}

func (a *Array) release(n *Node) {
	if n.array == a {
		n.array = nil
		n.parent = nil
	}
}

// CreateObject appends a fresh element whose parent is the owner of the
// array, not the array.
func (a *Array) CreateObject() *Node {
	n := &Node{}
	a.add(n)
	return n
}

// All iterates index and element.
func (a *Array) All() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		for i, n := range a.items {
			if !yield(i, n) {
				return
			}
		}
	}
}
