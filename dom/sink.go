package dom

import "fmt"

// QuirksMode is the document compatibility mode as determined by a
// parsing engine from the doctype.
type QuirksMode uint8

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

func (q QuirksMode) String() string {
	switch q {
	case NoQuirks:
		return "no-quirks"
	case LimitedQuirks:
		return "limited-quirks"
	case Quirks:
		return "quirks"
	}
	return fmt.Sprintf("quirks(%d)", uint8(q))
}

// TreeSink is the tree-construction protocol a streaming HTML parsing
// engine drives. Calls arrive in document order.
//
// Implementations must tolerate every operation, including the ones they
// do not support, and must never panic on unknown handles.
type TreeSink interface {
	Root() Handle
	CreateElement(name QualName, attrs []Attribute) Handle
	Append(parent Handle, child ChildEntry)
	ElementName(h Handle) (QualName, bool)
	SameNode(a, b Handle) bool
	Finish() *Document

	CreateComment(text string) Handle
	CreatePI(target, data string) Handle
	AppendDoctype(name, public, system string)
	AppendBeforeSibling(sibling Handle, child ChildEntry)
	AppendBasedOnParent(element, prevElement Handle, child ChildEntry)
	AddAttrsIfMissing(h Handle, attrs []Attribute)
	RemoveFromParent(h Handle)
	ReparentChildren(h, newParent Handle)
	TemplateContents(h Handle) Handle
	MarkScriptStarted(h Handle)
	ParseError(msg string)
	SetQuirksMode(mode QuirksMode)
}

// Sink collects tree-construction calls into a Document.
// A Sink is single-use: after Finish it ignores every call.
type Sink struct {
	doc  *Document
	next Handle
}

var _ TreeSink = (*Sink)(nil)

// NewSink creates a sink holding a document with nothing but a root element.
func NewSink() *Sink {
	return &Sink{
		doc:  newDocument(),
		next: RootHandle + 1,
	}
}

// Root returns the handle of the document root.
func (s *Sink) Root() Handle {
	return RootHandle
}

// CreateElement stores a new, detached element and returns its handle.
// Duplicate attributes keep the value seen first.
func (s *Sink) CreateElement(name QualName, attrs []Attribute) Handle {
	if s.doc == nil {
		return Invalid
	}
	h := s.next
	s.next++
	s.doc.elements[h] = &Element{
		name:   name,
		attrs:  dedupAttrs(attrs),
		parent: Invalid,
	}
	tracer().Debugf("sink: create %s = <%s>", h, name)
	return h
}

func dedupAttrs(attrs []Attribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	r := make([]Attribute, 0, len(attrs))
	seen := make(map[QualName]struct{}, len(attrs))
	for _, a := range attrs {
		if _, dup := seen[a.Name]; dup {
			continue
		}
		seen[a.Name] = struct{}{}
		r = append(r, a)
	}
	return r
}

// Append adds a child entry at the end of parent's children.
//
// Appending to an unknown parent is a no-op. Element entries which do not
// reference a detached element of this document (e.g., the Invalid handle
// returned for comments, or an element already attached elsewhere) are
// dropped, keeping the document a strict tree.
func (s *Sink) Append(parent Handle, child ChildEntry) {
	p, ok := s.doc.Element(parent)
	if !ok {
		tracer().Debugf("sink: append to unknown parent %s ignored", parent)
		return
	}
	if h, isNode := child.Node(); isNode {
		ch, ok := s.doc.elements[h]
		if !ok {
			return
		}
		if h == RootHandle || ch.parent != Invalid || s.isAncestor(h, parent) {
			tracer().Errorf("sink: refusing to attach %s to %s", h, parent)
			return
		}
		ch.parent = parent
	}
	p.children = append(p.children, child)
}

// isAncestor is true if a is parent or an ancestor of b.
func (s *Sink) isAncestor(a, b Handle) bool {
	for h := b; h != Invalid; {
		if h == a {
			return true
		}
		e, ok := s.doc.elements[h]
		if !ok {
			return false
		}
		h = e.parent
	}
	return false
}

// ElementName looks up the tag name of an element.
func (s *Sink) ElementName(h Handle) (QualName, bool) {
	e, ok := s.doc.Element(h)
	if !ok {
		return QualName{}, false
	}
	return e.name, true
}

// SameNode compares handles by value.
func (s *Sink) SameNode(a, b Handle) bool {
	return a == b
}

// Finish hands out the completed document. The sink is spent afterwards.
func (s *Sink) Finish() *Document {
	doc := s.doc
	s.doc = nil
	if doc != nil {
		tracer().Infof("sink: finished document with %d elements, %d parse errors",
			len(doc.elements), doc.parseErrors)
	}
	return doc
}

// --- Unsupported operations ------------------------------------------------

// CreateComment is not supported; it returns Invalid.
func (s *Sink) CreateComment(text string) Handle { return Invalid }

// CreatePI is not supported; it returns Invalid.
func (s *Sink) CreatePI(target, data string) Handle { return Invalid }

// AppendDoctype is a no-op.
func (s *Sink) AppendDoctype(name, public, system string) {}

// AppendBeforeSibling is a no-op.
func (s *Sink) AppendBeforeSibling(sibling Handle, child ChildEntry) {}

// AppendBasedOnParent is a no-op.
func (s *Sink) AppendBasedOnParent(element, prevElement Handle, child ChildEntry) {}

// AddAttrsIfMissing is a no-op; attributes are fixed at creation.
func (s *Sink) AddAttrsIfMissing(h Handle, attrs []Attribute) {}

// RemoveFromParent is a no-op.
func (s *Sink) RemoveFromParent(h Handle) {}

// ReparentChildren is a no-op.
func (s *Sink) ReparentChildren(h, newParent Handle) {}

// TemplateContents is not supported; it returns Invalid.
func (s *Sink) TemplateContents(h Handle) Handle { return Invalid }

// MarkScriptStarted is a no-op.
func (s *Sink) MarkScriptStarted(h Handle) {}

// ParseError records a parse error. The build continues.
func (s *Sink) ParseError(msg string) {
	if s.doc == nil {
		return
	}
	s.doc.parseErrors++
	tracer().Debugf("sink: parse error: %s", msg)
}

// SetQuirksMode records the quirks mode on the document.
func (s *Sink) SetQuirksMode(mode QuirksMode) {
	if s.doc == nil {
		return
	}
	s.doc.quirks = mode
}
