package render

import (
	"fmt"
	"strings"

	"github.com/npillmayer/webtree/dom/style"
	"github.com/npillmayer/webtree/tree"
	tp "github.com/xlab/treeprint"
)

// Kind is the type of a visual node.
type Kind uint8

const (
	Container Kind = iota // stacks child nodes
	Label                 // a run of styled text
	Link                  // an actionable link
)

func (k Kind) String() string {
	switch k {
	case Container:
		return "container"
	case Label:
		return "label"
	case Link:
		return "link"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Orientation is the stacking direction of a container.
type Orientation uint8

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Navigator is called when a link is activated. href is passed exactly as
// found in the document; resolving relative references is up to the
// navigator. Navigate reports whether it handled the request.
type Navigator interface {
	Navigate(href string) bool
}

// NavigatorFunc adapts an ordinary function to a Navigator.
type NavigatorFunc func(href string) bool

// Navigate calls f(href).
func (f NavigatorFunc) Navigate(href string) bool {
	return f(href)
}

// Visual is a node of the visual tree.
type Visual struct {
	tree.Node[*Visual] // we build on top of general purpose tree
	Kind               Kind
	Orientation        Orientation     // for containers
	Frame              string          // frame label for framed containers, empty if unframed
	Text               string          // for labels and links
	Style              style.TextStyle // for labels and links
	nav                Navigator
}

func newVisual(kind Kind) *Visual {
	v := &Visual{Kind: kind}
	v.Payload = v // Payload will always reference the node itself
	return v
}

// NewContainer creates an empty container.
func NewContainer(o Orientation) *Visual {
	v := newVisual(Container)
	v.Orientation = o
	return v
}

// NewLabel creates a text label.
func NewLabel(text string, ts style.TextStyle) *Visual {
	v := newVisual(Label)
	v.Text = text
	v.Style = ts
	return v
}

// NewLink creates a link to href, displaying text.
func NewLink(text, href string, nav Navigator) *Visual {
	v := newVisual(Link)
	v.Text = text
	v.Style = style.LinkText(href)
	v.nav = nav
	return v
}

// Add appends a child node and returns v.
func (v *Visual) Add(ch *Visual) *Visual {
	if ch != nil {
		v.AddChild(&ch.Node)
	}
	return v
}

// Boxes returns the child nodes of a container.
func (v *Visual) Boxes() []*Visual {
	children := v.Children()
	r := make([]*Visual, len(children))
	for i, ch := range children {
		r[i] = ch.Payload
	}
	return r
}

// Href returns the target of a link, or "" for other nodes.
func (v *Visual) Href() string {
	if v.Kind != Link {
		return ""
	}
	return v.Style.Href()
}

// Activate follows a link by calling its navigator. It reports false for
// nodes other than links and for links without a navigator.
func (v *Visual) Activate() bool {
	if v.Kind != Link || v.nav == nil {
		return false
	}
	tracer().Debugf("render: activating link to %s", v.Href())
	return v.nav.Navigate(v.Href())
}

// IsEmpty is true for containers without children.
func (v *Visual) IsEmpty() bool {
	return v.Kind == Container && v.ChildCount() == 0
}

// TextContent concatenates the text of all labels and links below v.
func (v *Visual) TextContent() string {
	var b strings.Builder
	v.Walk(func(n *tree.Node[*Visual], _ int) bool {
		if n.Payload.Kind != Container {
			b.WriteString(n.Payload.Text)
		}
		return true
	})
	return b.String()
}

func (v *Visual) String() string {
	switch v.Kind {
	case Container:
		s := "vbox"
		if v.Orientation == Horizontal {
			s = "hbox"
		}
		if v.Frame != "" {
			s += " [" + v.Frame + "]"
		}
		return s
	case Link:
		return fmt.Sprintf("link %q -> %s", v.Text, v.Href())
	}
	if v.Style.Kind() == style.Plain {
		return fmt.Sprintf("label %q", v.Text)
	}
	return fmt.Sprintf("label %q %s", v.Text, v.Style)
}

// Dump returns a printable representation of the visual tree below v.
func Dump(v *Visual) string {
	p := tp.New()
	if v != nil {
		dump(p, v)
	}
	return p.String()
}

func dump(p tp.Tree, v *Visual) {
	if v.ChildCount() == 0 {
		p.AddNode(v.String())
		return
	}
	branch := p.AddBranch(v.String())
	for _, ch := range v.Boxes() {
		dump(branch, ch)
	}
}
