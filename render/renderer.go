package render

import (
	"strings"

	"github.com/npillmayer/webtree/dom"
	"github.com/npillmayer/webtree/dom/style"
)

// Option configures a render pass.
type Option func(*renderer)

// WithFrame wraps every container in a frame labelled with the element's
// tag name. Inline elements then get containers of their own, so that each
// element of the document is visible as a frame.
func WithFrame(frame bool) Option {
	return func(r *renderer) {
		r.frame = frame
	}
}

// WithInvisible hides elements with the given tag names, in addition to
// the ones which are invisible anyway (head, script, style, …).
func WithInvisible(tags ...string) Option {
	return func(r *renderer) {
		r.invisible = append(r.invisible, tags...)
	}
}

type renderer struct {
	doc       *dom.Document
	nav       Navigator
	frame     bool
	invisible []string
}

// Render creates the visual tree for a document. nav is called for
// activated links and may be nil.
//
// Render always returns a container, even for an empty or nil document.
func Render(doc *dom.Document, nav Navigator, opts ...Option) *Visual {
	r := &renderer{doc: doc, nav: nav}
	for _, opt := range opts {
		opt(r)
	}
	if root, ok := doc.Element(dom.RootHandle); ok {
		if v, ok := r.element(root, style.Display(root, r.invisible...)); ok {
			return v
		}
	}
	tracer().Debugf("render: document has no visible content")
	return NewContainer(Vertical)
}

// element renders a block-level element. ok is false if it contains
// nothing visible.
func (r *renderer) element(e *dom.Element, display style.Property) (*Visual, bool) {
	if display == style.DisplayNone {
		return nil, false
	}
	o := Vertical
	if display == style.DisplayBlockInline {
		o = Horizontal
	}
	box := NewContainer(o)
	if !r.fill(box, e) {
		return nil, false
	}
	if r.frame {
		box.Frame = e.Name().Local
	}
	return box, true
}

// fill renders the children of e into box and reports whether it added
// anything.
func (r *renderer) fill(box *Visual, e *dom.Element) (containsSomething bool) {
	for _, entry := range e.Children() {
		if text, isText := entry.Text(); isText {
			if strings.TrimSpace(text) == "" {
				continue // inter-element white space
			}
			box.Add(r.leaf(text, e))
			containsSomething = true
			continue
		}
		h, _ := entry.Node()
		child, ok := r.doc.Element(h)
		if !ok {
			continue
		}
		display := style.Display(child, r.invisible...)
		switch {
		case display == style.DisplayNone:
			continue
		case display == style.DisplayInline && !r.frame:
			if r.fill(box, child) {
				containsSomething = true
			}
		default:
			if v, ok := r.element(child, display); ok {
				box.Add(v)
				containsSomething = true
			}
		}
	}
	return
}

// leaf creates a label or link for a text run which is a direct child of
// parent.
func (r *renderer) leaf(text string, parent *dom.Element) *Visual {
	ts := style.TextStyleFor(parent)
	if ts.Kind() == style.Link {
		return NewLink(text, ts.Href(), r.nav)
	}
	return NewLabel(text, ts)
}
