// Package ir provides the document tree shared by all doctree codecs.
//
// # Overview
//
// A document is a tree of *Node. A Node is an ordered set of slots keyed by
// name; each slot holds a Value, a tagged union of
//
//   - ScalarKind: a string, bool, number, time, []byte, Enum or null
//   - ChildKind: a single child *Node
//   - ArrayKind: an *Array of *Node sharing the slot's name
//
// Storing a value of a different kind in a slot replaces the previous one.
//
// The reserved key Nameless ("") holds a node's own payload when the node
// stands for a bare value rather than a set of fields: the elements of a
// JSON array of strings are nodes with a single Nameless scalar, and a
// document whose top level is an array is a node with the array under
// Nameless.
//
// # Back References
//
// Every node knows its Parent and, when it is an array element, its Array.
// The parent of an array element is the node owning the array's field, not
// the array. Arrays stamp name, parent and array on every node they
// receive, whatever the node carried before. Path uses the pair to render
// positions like "/sub[2]/name".
//
// # Creating Nodes
//
//	root := ir.New()
//	root.SetString("test1", "wow")
//	sub := root.CreateArray("sub")
//	elt := sub.CreateObject()
//	elt.SetString("test1", "wow1")
//
// CreateObject on a key which already holds a child promotes the slot to an
// array holding both children. CreateArray always replaces the slot.
//
// # Paths
//
// FindOrCreateNode resolves "/a/b[2]/c", creating missing children and
// extending arrays; Path renders the position of a node in that syntax;
// GetObjectByPath only follows existing single children.
//
// # Interpolation
//
// GetExtracted and Extract expand "$name" references against a node and its
// ancestors, see Template.
//
// # Depth
//
// Recursive operations stop with ErrDepthExceeded beyond MaxDepth levels.
//
// # Thread Safety
//
// Nodes are not safe for concurrent mutation. Only the lazily created
// template cache of a node tolerates concurrent first use.
package ir
