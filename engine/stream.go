package engine

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/webtree/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Build tokenizes HTML from r and drives sink with the resulting
// tree-construction calls. It returns the document finished by the sink.
//
// The input is consumed incrementally; r may deliver a document in
// arbitrary chunks. ctx is checked between tokens.
func Build(ctx context.Context, r io.Reader, sink dom.TreeSink, opts ...Option) (*dom.Document, error) {
	if sink == nil {
		return nil, ErrNoSink
	}
	c := newConstructor(sink, collect(opts))
	z := html.NewTokenizer(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				tracer().Errorf("engine: reading input failed: %v", err)
				return nil, fmt.Errorf("tokenize html: %w", err)
			}
			break
		}
		c.process(tt, z.Token())
	}
	c.finish()
	return sink.Finish(), nil
}

// BuildChunks is like Build, reading from a stream of byte chunks, as
// produced by a fetcher. The stream ends when chunks is closed.
func BuildChunks(ctx context.Context, chunks <-chan []byte, sink dom.TreeSink, opts ...Option) (*dom.Document, error) {
	pr, pw := io.Pipe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				pw.CloseWithError(ctx.Err())
				return
			case chunk, ok := <-chunks:
				if !ok {
					pw.Close()
					return
				}
				if _, err := pw.Write(chunk); err != nil {
					return // reader side gave up
				}
			}
		}
	}()
	defer pr.Close()
	return Build(ctx, pr, sink, opts...)
}

// openElement is an entry in the stack of open elements.
type openElement struct {
	h     dom.Handle // where children go
	name  string
	space string
}

// overflowed records an element created beyond the depth limit, so that
// its end tag does not close an open ancestor of the same name.
type overflowed struct {
	name  string
	depth int // height of the open stack when it was refused
}

type constructor struct {
	sink       dom.TreeSink
	opts       options
	open       []openElement
	overflow   []overflowed // elements not pushed for exceeding the depth limit
	html       dom.Handle
	head       dom.Handle
	body       dom.Handle
	started    bool // seen anything but a doctype
	sawDoctype bool
}

func newConstructor(sink dom.TreeSink, opts options) *constructor {
	return &constructor{
		sink: sink,
		opts: opts,
		html: dom.Invalid,
		head: dom.Invalid,
		body: dom.Invalid,
	}
}

func (c *constructor) current() openElement {
	if len(c.open) == 0 {
		return openElement{h: c.sink.Root(), name: "root", space: dom.HTMLNamespace}
	}
	return c.open[len(c.open)-1]
}

func (c *constructor) process(tt html.TokenType, tok html.Token) {
	if tt == html.TextToken && !c.started && strings.TrimSpace(tok.Data) == "" {
		return // leading white space is insignificant
	}
	if tt != html.DoctypeToken && !c.started {
		c.started = true
		if !c.sawDoctype {
			c.sink.SetQuirksMode(dom.Quirks)
		}
	}
	switch tt {
	case html.DoctypeToken:
		c.doctype(tok.Data)
	case html.CommentToken:
		h := c.sink.CreateComment(tok.Data)
		c.sink.Append(c.current().h, dom.NodeEntry(h))
	case html.TextToken:
		c.text(tok.Data)
	case html.StartTagToken:
		c.startTag(tok, false)
	case html.SelfClosingTagToken:
		c.startTag(tok, true)
	case html.EndTagToken:
		c.endTag(tok.Data)
	}
}

func (c *constructor) finish() {
	if !c.started && !c.sawDoctype {
		c.sink.SetQuirksMode(dom.Quirks)
	}
	c.ensureBody()
	c.open = c.open[:0]
}

func (c *constructor) doctype(data string) {
	if c.started || c.sawDoctype {
		c.sink.ParseError("unexpected doctype")
		return
	}
	c.sawDoctype = true
	name := data
	if i := strings.IndexAny(data, " \t\n"); i >= 0 {
		name = data[:i]
	}
	var public, system string
	quoted := strings.FieldsFunc(data, func(r rune) bool { return r == '"' || r == '\'' })
	if len(quoted) >= 2 {
		public = quoted[1]
	}
	if len(quoted) >= 4 {
		system = quoted[3]
	}
	c.sink.AppendDoctype(name, public, system)
	c.sink.SetQuirksMode(quirksFor(name, public))
}

// whitespace is the set of HTML space characters.
const whitespace = " \t\n\f\r"

func (c *constructor) text(s string) {
	if s == "" {
		return
	}
	if c.inHead() {
		if c.current().h != c.head {
			c.sink.Append(c.current().h, dom.TextEntry(s)) // title, style, script
			return
		}
		rest := strings.TrimLeft(s, whitespace)
		if ws := s[:len(s)-len(rest)]; ws != "" {
			c.sink.Append(c.head, dom.TextEntry(ws))
		}
		if rest == "" {
			return
		}
		s = rest
		c.closeHead() // other text starts the body
	}
	if c.body == dom.Invalid {
		if strings.TrimSpace(s) == "" {
			return
		}
		c.ensureBody()
	}
	c.sink.Append(c.current().h, dom.TextEntry(s))
}

// --- Start tags ------------------------------------------------------------

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param, atom.Source,
		atom.Track, atom.Wbr:
		return true
	}
	return false
}

// belongsInHead is true for elements which go into head if they show up
// before the body has started.
func belongsInHead(a atom.Atom) bool {
	switch a {
	case atom.Base, atom.Link, atom.Meta, atom.Noscript, atom.Script,
		atom.Style, atom.Template, atom.Title:
		return true
	}
	return false
}

// closesParagraph is true for block-level elements which implicitly end
// an open paragraph.
func closesParagraph(a atom.Atom) bool {
	switch a {
	case atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Details,
		atom.Div, atom.Dl, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5,
		atom.H6, atom.Header, atom.Hr, atom.Main, atom.Menu, atom.Nav, atom.Ol,
		atom.P, atom.Pre, atom.Section, atom.Table, atom.Ul, atom.Li, atom.Dd,
		atom.Dt:
		return true
	}
	return false
}

func isHeading(a atom.Atom) bool {
	return a == atom.H1 || a == atom.H2 || a == atom.H3 ||
		a == atom.H4 || a == atom.H5 || a == atom.H6
}

func (c *constructor) startTag(tok html.Token, selfClosing bool) {
	a := tok.DataAtom
	attrs := attributes(tok.Attr)
	switch a {
	case atom.Html:
		if c.html != dom.Invalid {
			c.sink.ParseError("unexpected html start tag")
			c.sink.AddAttrsIfMissing(c.html, attrs)
			return
		}
		c.createHTML(attrs)
		return
	case atom.Head:
		if c.head != dom.Invalid {
			c.sink.ParseError("unexpected head start tag")
			return
		}
		c.ensureHTML()
		c.createHead(attrs)
		return
	case atom.Body:
		if c.body != dom.Invalid {
			c.sink.ParseError("unexpected body start tag")
			c.sink.AddAttrsIfMissing(c.body, attrs)
			return
		}
		c.createBody(attrs)
		return
	}
	if c.body == dom.Invalid && c.current().space == dom.HTMLNamespace {
		if belongsInHead(a) {
			c.ensureHead()
		} else {
			c.ensureBody()
		}
	}
	space := c.current().space
	switch {
	case a == atom.Svg:
		space = dom.SVGNamespace
	case a == atom.Math:
		space = dom.MathMLNamespace
	}
	if space == dom.HTMLNamespace {
		c.impliedEndTags(a)
	}
	h := c.sink.CreateElement(dom.QualName{Space: space, Local: tok.Data}, attrs)
	c.sink.Append(c.current().h, dom.NodeEntry(h))
	if a == atom.Script {
		c.sink.MarkScriptStarted(h) // scripts are never executed
	}
	// a self-closing flag only counts in foreign content
	if (selfClosing && space != dom.HTMLNamespace) || (space == dom.HTMLNamespace && isVoid(a)) {
		return
	}
	if a == atom.Template {
		if contents := c.sink.TemplateContents(h); contents != dom.Invalid {
			h = contents
		}
	}
	c.push(openElement{h: h, name: tok.Data, space: space})
}

// impliedEndTags closes elements which a start tag of a ends implicitly.
func (c *constructor) impliedEndTags(a atom.Atom) {
	switch {
	case a == atom.Li:
		c.closeIfOpen("li", "ul", "ol")
	case a == atom.Dd || a == atom.Dt:
		if !c.closeIfOpen("dd", "dl") {
			c.closeIfOpen("dt", "dl")
		}
	case a == atom.Option:
		if c.current().name == "option" {
			c.pop()
		}
	}
	if closesParagraph(a) {
		c.closeIfOpen("p", "button", "div", "section", "article", "td", "th", "li")
	}
	if isHeading(a) && isHeading(atom.Lookup([]byte(c.current().name))) {
		c.sink.ParseError("nested heading")
		c.pop()
	}
}

// closeIfOpen pops elements up to and including the topmost open element
// called name, unless a scope boundary (or the body) comes first.
func (c *constructor) closeIfOpen(name string, boundaries ...string) bool {
	for i := len(c.open) - 1; i >= 0; i-- {
		e := c.open[i]
		if e.space != dom.HTMLNamespace {
			return false
		}
		if e.name == name {
			c.open = c.open[:i]
			return true
		}
		if e.h == c.body || e.h == c.html {
			return false
		}
		for _, b := range boundaries {
			if e.name == b {
				return false
			}
		}
	}
	return false
}

func (c *constructor) push(e openElement) {
	c.pruneOverflow()
	if len(c.open) >= c.opts.maxDepth {
		c.sink.ParseError("maximum nesting depth exceeded")
		c.overflow = append(c.overflow, overflowed{name: e.name, depth: len(c.open)})
		return
	}
	c.open = append(c.open, e)
}

func (c *constructor) pop() {
	if len(c.open) > 0 {
		c.open = c.open[:len(c.open)-1]
	}
}

// --- Implied html, head and body -------------------------------------------

func (c *constructor) createHTML(attrs []dom.Attribute) {
	c.html = c.sink.CreateElement(dom.HTML("html"), attrs)
	c.sink.Append(c.sink.Root(), dom.NodeEntry(c.html))
	c.open = append(c.open[:0], openElement{h: c.html, name: "html", space: dom.HTMLNamespace})
}

func (c *constructor) ensureHTML() {
	if c.html == dom.Invalid {
		c.createHTML(nil)
	}
}

func (c *constructor) createHead(attrs []dom.Attribute) {
	c.head = c.sink.CreateElement(dom.HTML("head"), attrs)
	c.sink.Append(c.html, dom.NodeEntry(c.head))
	c.push(openElement{h: c.head, name: "head", space: dom.HTMLNamespace})
}

// ensureHead makes sure a head element exists and is open, unless the
// head has already been closed.
func (c *constructor) ensureHead() {
	c.ensureHTML()
	if c.head == dom.Invalid {
		c.createHead(nil)
	}
}

func (c *constructor) createBody(attrs []dom.Attribute) {
	c.ensureHead()
	c.closeHead()
	c.body = c.sink.CreateElement(dom.HTML("body"), attrs)
	c.sink.Append(c.html, dom.NodeEntry(c.body))
	c.push(openElement{h: c.body, name: "body", space: dom.HTMLNamespace})
}

func (c *constructor) ensureBody() {
	if c.body == dom.Invalid {
		c.createBody(nil)
	}
}

// closeHead pops the head and everything opened inside of it.
func (c *constructor) closeHead() {
	for i := len(c.open) - 1; i >= 0; i-- {
		if c.open[i].h == c.head {
			c.open = c.open[:i]
			return
		}
	}
}

func (c *constructor) inHead() bool {
	if c.head == dom.Invalid || c.body != dom.Invalid {
		return false
	}
	for _, e := range c.open {
		if e.h == c.head {
			return true
		}
	}
	return false
}

// --- End tags --------------------------------------------------------------

func (c *constructor) endTag(name string) {
	switch name {
	case "html", "body":
		return // the body stays open until end of input
	case "head":
		if c.inHead() {
			c.closeHead()
		} else {
			c.sink.ParseError("unexpected head end tag")
		}
		return
	case "br":
		c.sink.ParseError("unexpected br end tag")
		c.startTag(html.Token{Type: html.StartTagToken, DataAtom: atom.Br, Data: "br"}, true)
		return
	}
	if c.closeOverflowed(name) {
		return
	}
	for i := len(c.open) - 1; i >= 0; i-- {
		e := c.open[i]
		if e.name == name {
			if i != len(c.open)-1 {
				c.sink.ParseError("end tag " + name + " closes misnested elements")
			}
			c.open = c.open[:i]
			return
		}
		if e.h == c.body || e.h == c.html {
			break
		}
	}
	if name == "p" {
		c.sink.ParseError("end tag p without open paragraph")
		c.ensureBody()
		h := c.sink.CreateElement(dom.HTML("p"), nil)
		c.sink.Append(c.current().h, dom.NodeEntry(h))
		return
	}
	c.sink.ParseError("unexpected end tag " + name)
}

// closeOverflowed consumes the end tag of the innermost element refused by
// push, if name matches it.
func (c *constructor) closeOverflowed(name string) bool {
	c.pruneOverflow()
	n := len(c.overflow)
	if n == 0 || c.overflow[n-1].name != name || c.overflow[n-1].depth != len(c.open) {
		return false
	}
	c.overflow = c.overflow[:n-1]
	return true
}

// pruneOverflow forgets refused elements whose parent has been closed.
func (c *constructor) pruneOverflow() {
	n := len(c.overflow)
	for n > 0 && c.overflow[n-1].depth > len(c.open) {
		n--
	}
	c.overflow = c.overflow[:n]
}
