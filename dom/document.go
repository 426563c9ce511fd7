package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"math"
	"strings"
)

// Handle identifies an element within a Document.
type Handle uint

const (
	// RootHandle is the handle of the document root. It always exists.
	RootHandle Handle = 0
	// Invalid denotes "no such element". It is returned for protocol
	// operations the sink does not support.
	Invalid Handle = math.MaxUint
)

func (h Handle) String() string {
	if h == Invalid {
		return "#invalid"
	}
	return fmt.Sprintf("#%d", h)
}

// Well-known namespaces.
const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// QualName is a qualified tag or attribute name.
type QualName struct {
	Space string // namespace URL, may be empty for attributes
	Local string // local name, lowercase for HTML elements
}

// HTML creates a qualified name in the HTML namespace.
func HTML(local string) QualName {
	return QualName{Space: HTMLNamespace, Local: local}
}

func (qn QualName) String() string {
	switch qn.Space {
	case "", HTMLNamespace:
		return qn.Local
	case SVGNamespace:
		return "svg " + qn.Local
	case MathMLNamespace:
		return "math " + qn.Local
	}
	return "{" + qn.Space + "}" + qn.Local
}

// Attribute is a name/value pair of an element.
type Attribute struct {
	Name  QualName
	Value string
}

// --- Child entries ---------------------------------------------------------

// ChildEntry is either a reference to a child element or a run of text.
// The zero value is an empty text run.
type ChildEntry struct {
	node   Handle
	text   string
	isNode bool
}

// NodeEntry creates a child entry referencing the element with handle h.
func NodeEntry(h Handle) ChildEntry {
	return ChildEntry{node: h, isNode: true}
}

// TextEntry creates a child entry for a run of text.
func TextEntry(text string) ChildEntry {
	return ChildEntry{text: text}
}

// Node returns the handle of a child element. ok is false for text entries.
func (ce ChildEntry) Node() (h Handle, ok bool) {
	if !ce.isNode {
		return Invalid, false
	}
	return ce.node, true
}

// Text returns the text of a text entry. ok is false for element entries.
func (ce ChildEntry) Text() (text string, ok bool) {
	if ce.isNode {
		return "", false
	}
	return ce.text, true
}

// IsText is true for text runs.
func (ce ChildEntry) IsText() bool {
	return !ce.isNode
}

func (ce ChildEntry) String() string {
	if ce.isNode {
		return ce.node.String()
	}
	return fmt.Sprintf("%q", ce.text)
}

// --- Elements --------------------------------------------------------------

// Element is a node of the document tree.
type Element struct {
	name     QualName
	attrs    []Attribute
	children []ChildEntry
	parent   Handle // Invalid for the root and for detached elements
}

// Name returns the qualified tag name of an element.
func (e *Element) Name() QualName {
	return e.name
}

// Attributes returns the attributes of an element, in source order.
// Clients must not modify the returned slice.
func (e *Element) Attributes() []Attribute {
	return e.attrs
}

// Attr looks up an attribute by its local name.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == key {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns the child entries of an element in document order.
// Clients must not modify the returned slice.
func (e *Element) Children() []ChildEntry {
	return e.children
}

func (e *Element) String() string {
	return fmt.Sprintf("<%s #ch=%d>", e.name, len(e.children))
}

// --- Document --------------------------------------------------------------

// Document owns all the elements of a parse tree.
// A Document is built by a Sink and immutable afterwards.
type Document struct {
	elements    map[Handle]*Element
	quirks      QuirksMode
	parseErrors int
}

func newDocument() *Document {
	root := &Element{name: HTML("root"), parent: Invalid}
	return &Document{
		elements: map[Handle]*Element{RootHandle: root},
	}
}

// Root returns the root element.
func (doc *Document) Root() *Element {
	return doc.elements[RootHandle]
}

// Element looks up an element by handle.
// Unknown handles (including Invalid) yield ok=false.
func (doc *Document) Element(h Handle) (*Element, bool) {
	if doc == nil {
		return nil, false
	}
	e, ok := doc.elements[h]
	return e, ok
}

// Parent returns the handle of the parent of an element, if any.
func (doc *Document) Parent(h Handle) (Handle, bool) {
	e, ok := doc.Element(h)
	if !ok || e.parent == Invalid {
		return Invalid, false
	}
	return e.parent, true
}

// Len returns the number of elements, including the root.
func (doc *Document) Len() int {
	if doc == nil {
		return 0
	}
	return len(doc.elements)
}

// Quirks returns the quirks mode reported by the parsing engine.
func (doc *Document) Quirks() QuirksMode {
	return doc.quirks
}

// ParseErrors returns the number of parse errors reported while building.
func (doc *Document) ParseErrors() int {
	return doc.parseErrors
}

// Walk visits the elements reachable from the root in document order
// (depth-first, pre-order), starting with the root itself. The depth of
// the root is 0. If fn returns false, the children of that element are
// skipped.
func (doc *Document) Walk(fn func(h Handle, e *Element, depth int) bool) {
	if doc == nil || fn == nil {
		return
	}
	doc.walk(RootHandle, 0, fn)
}

func (doc *Document) walk(h Handle, depth int, fn func(Handle, *Element, int) bool) {
	e, ok := doc.elements[h]
	if !ok || !fn(h, e, depth) {
		return
	}
	for _, ch := range e.children {
		if child, isNode := ch.Node(); isNode {
			doc.walk(child, depth+1, fn)
		}
	}
}

// TextContent concatenates all text below element h in document order.
func (doc *Document) TextContent(h Handle) string {
	var b strings.Builder
	doc.textContent(h, &b)
	return b.String()
}

func (doc *Document) textContent(h Handle, b *strings.Builder) {
	e, ok := doc.Element(h)
	if !ok {
		return
	}
	for _, ch := range e.children {
		if child, isNode := ch.Node(); isNode {
			doc.textContent(child, b)
		} else {
			b.WriteString(ch.text)
		}
	}
}
