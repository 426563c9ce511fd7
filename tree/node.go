/*
Package tree implements a small generic ordered tree.

Nodes carry a payload of a type parameter and keep their children in
insertion order. The visual tree of package render builds on top of it,
in the same way other trees of this module compose a tree.Node.

Trees of this package are not safe for concurrent mutation. They are
built by a single goroutine and treated as read-only afterwards.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"fmt"
)

// Node is the base type our tree is built of.
type Node[T comparable] struct {
	parent   *Node[T]   // parent node of this node
	children []*Node[T] // children in insertion order
	Payload  T          // nodes may carry a payload of arbitrary type
}

// NewNode creates a new tree node with a given payload.
func NewNode[T comparable](payload T) *Node[T] {
	return &Node[T]{Payload: payload}
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("(Node #ch=%d %v)", node.ChildCount(), node.Payload)
}

// AddChild appends a child node.
// The newly inserted node is connected to this node as its parent.
// It returns the parent node to allow for chaining.
//
// Adding a node which already has a parent will first isolate it.
func (node *Node[T]) AddChild(ch *Node[T]) *Node[T] {
	if ch == nil || ch == node {
		return node
	}
	ch.Isolate()
	node.children = append(node.children, ch)
	ch.parent = node
	return node
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *Node[T]) Parent() *Node[T] {
	if node == nil {
		return nil
	}
	return node.parent
}

// Isolate removes a node from its parent.
// Isolate returns the isolated node.
func (node *Node[T]) Isolate() *Node[T] {
	if node == nil || node.parent == nil {
		return node
	}
	p := node.parent
	for i, ch := range p.children {
		if ch == node {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	node.parent = nil
	return node
}

// ChildCount returns the number of children-nodes for a node.
func (node *Node[T]) ChildCount() int {
	if node == nil {
		return 0
	}
	return len(node.children)
}

// Child returns the n-th child of a node.
func (node *Node[T]) Child(n int) (*Node[T], bool) {
	if n < 0 || node.ChildCount() <= n {
		return nil, false
	}
	return node.children[n], true
}

// Children returns a copy of the children of a node.
func (node *Node[T]) Children() []*Node[T] {
	if node == nil {
		return nil
	}
	children := make([]*Node[T], len(node.children))
	copy(children, node.children)
	return children
}

// IndexOfChild returns the index of a child within the list of children
// of its parent, or -1.
func (node *Node[T]) IndexOfChild(ch *Node[T]) int {
	for i, child := range node.Children() {
		if ch == child {
			return i
		}
	}
	return -1
}

// Walk visits node and its descendants depth-first in pre-order. If fn
// returns false, the subtree below the current node is skipped.
func (node *Node[T]) Walk(fn func(n *Node[T], depth int) bool) {
	node.walk(0, fn)
}

func (node *Node[T]) walk(depth int, fn func(*Node[T], int) bool) {
	if node == nil || !fn(node, depth) {
		return
	}
	for _, ch := range node.children {
		ch.walk(depth+1, fn)
	}
}
