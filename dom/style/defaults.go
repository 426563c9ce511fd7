package style

import (
	"github.com/npillmayer/webtree/dom"
	"golang.org/x/net/html/atom"
)

// Display returns the display property of an element, derived from its tag
// and from an inline `style` attribute. This is what a user agent style sheet
// would say about the few properties we care for.
//
// Elements in a foreign namespace (SVG, MathML) are displayed as blocks;
// their text content will show up, their graphics won't.
func Display(e *dom.Element, invisible ...string) Property {
	if e == nil {
		return DisplayNone
	}
	if s, ok := e.Attr("style"); ok {
		if p, ok := ParseInline(s).Get("display"); ok && p == DisplayNone {
			return DisplayNone
		}
	}
	name := e.Name()
	for _, tag := range invisible {
		if name.Local == tag {
			return DisplayNone
		}
	}
	if name.Space != dom.HTMLNamespace {
		return DisplayBlock
	}
	return DisplayForTag(name.Local)
}

// DisplayForTag returns the default display property for an HTML tag.
func DisplayForTag(tag string) Property {
	switch atom.Lookup([]byte(tag)) {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript:
		return DisplayNone
	case atom.P:
		return DisplayBlockInline
	case atom.A, atom.Abbr, atom.B, atom.Cite, atom.Code, atom.Em, atom.I,
		atom.Kbd, atom.Mark, atom.Q, atom.S, atom.Samp, atom.Small,
		atom.Span, atom.Strong, atom.Sub, atom.Sup, atom.U, atom.Var:
		return DisplayInline
	case atom.Html, atom.Aside, atom.Body, atom.Div, atom.H1, atom.H2, atom.H3,
		atom.H4, atom.H5, atom.H6, atom.Ol, atom.Section, atom.Ul, atom.Li,
		atom.Article, atom.Header, atom.Footer, atom.Nav, atom.Main,
		atom.Table, atom.Tr, atom.Td, atom.Th, atom.Pre, atom.Blockquote:
		return DisplayBlock
	}
	if tag == "root" {
		return DisplayBlock
	}
	tracer().Debugf("unknown HTML element %s will be set to display: block", tag)
	return DisplayBlock
}
