/*
Package engine drives a tree sink from HTML input.

Overview

Two engines are available. Both call the operations of dom.TreeSink in
document order and hand back the document the sink finishes with.

Build reads its input incrementally with the tokenizer of
golang.org/x/net/html and constructs the tree on the fly. It implements a
compact subset of HTML5 tree construction: implied html, head and body
elements, void elements, raw text elements, implied end tags of
paragraphs and list items, and end tags closing the nearest open element
of the same name. Misnested formatting elements are closed, not
re-opened (there is no adoption agency algorithm), which is good enough
for well-formed documents and keeps the build strictly append-only.

Replay parses the complete input with html.Parse, which implements the full
HTML5 error recovery, and then replays the resulting tree into the sink.
Use it if trees must match those of a conforming browser.

Neither engine ever fails on malformed markup. Parse errors are reported to
the sink and the build goes on. Errors returned are I/O errors of the
reader and context cancellation.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"errors"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/webtree/dom"
	"golang.org/x/net/html"
)

// tracer traces with key 'webtree.engine'.
func tracer() tracing.Trace {
	return tracing.Select("webtree.engine")
}

// ErrNoSink is returned if an engine is called without a tree sink.
var ErrNoSink = errors.New("engine needs a tree sink")

// DefaultMaxDepth is the default bound for the nesting of open elements.
const DefaultMaxDepth = 512

// Option configures an engine.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth limits the depth of the tree. Elements opened beyond this
// depth are attached to the deepest permitted element instead of nesting
// further, and so are their contents. Their end tags close nothing else.
// n < 1 selects DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

func collect(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxDepth < 1 {
		o.maxDepth = DefaultMaxDepth
	}
	return o
}

// --- Helpers shared by both engines ----------------------------------------

func attributes(attrs []html.Attribute) []dom.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	r := make([]dom.Attribute, len(attrs))
	for i, a := range attrs {
		r[i] = dom.Attribute{
			Name:  dom.QualName{Space: a.Namespace, Local: a.Key},
			Value: a.Val,
		}
	}
	return r
}

// namespaceURL maps x/net/html's short namespace names to namespace URLs.
func namespaceURL(ns string) string {
	switch ns {
	case "", "html":
		return dom.HTMLNamespace
	case "svg":
		return dom.SVGNamespace
	case "math":
		return dom.MathMLNamespace
	}
	return ns
}

// quirksFor derives the quirks mode from a doctype's name and public id.
func quirksFor(name, public string) dom.QuirksMode {
	if !strings.EqualFold(name, "html") {
		return dom.Quirks
	}
	public = strings.ToLower(public)
	switch {
	case strings.HasPrefix(public, "-//w3c//dtd html 4.01 transitional//"),
		strings.HasPrefix(public, "-//w3c//dtd html 4.01 frameset//"):
		return dom.Quirks
	case strings.HasPrefix(public, "-//w3c//dtd xhtml 1.0 transitional//"),
		strings.HasPrefix(public, "-//w3c//dtd xhtml 1.0 frameset//"):
		return dom.LimitedQuirks
	}
	return dom.NoQuirks
}
