package tree

import (
	"testing"
)

func TestAddChild(t *testing.T) {
	root := NewNode("root")
	a, b := NewNode("a"), NewNode("b")
	root.AddChild(a).AddChild(b).AddChild(nil).AddChild(root)
	if root.ChildCount() != 2 {
		t.Fatalf("expected root to have 2 children, has %d", root.ChildCount())
	}
	if a.Parent() != root || root.Parent() != nil {
		t.Error("expected a's parent to be root, and root to have no parent")
	}
	if ch, ok := root.Child(1); !ok || ch != b {
		t.Errorf("expected child #1 to be b, is %v", ch)
	}
	if _, ok := root.Child(2); ok {
		t.Error("expected child #2 not to exist")
	}
	if root.IndexOfChild(b) != 1 || root.IndexOfChild(root) != -1 {
		t.Error("unexpected index of child")
	}
}

func TestReparent(t *testing.T) {
	r1, r2, x := NewNode(1), NewNode(2), NewNode(3)
	r1.AddChild(x)
	r2.AddChild(x)
	if r1.ChildCount() != 0 || r2.ChildCount() != 1 || x.Parent() != r2 {
		t.Errorf("expected x to move from r1 to r2")
	}
}

func TestWalk(t *testing.T) {
	root := NewNode("r")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	root.AddChild(a).AddChild(c)
	a.AddChild(b)
	var seq string
	root.Walk(func(n *Node[string], depth int) bool {
		seq += n.Payload
		return n != a || depth > 1
	})
	if seq != "rac" {
		t.Errorf("expected pre-order walk skipping below a to yield 'rac', is %q", seq)
	}
}
