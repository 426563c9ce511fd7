/*
Package dom holds the document tree built from an HTML5 parse.

Status

Early draft, API may change frequently. Please stay patient.

Overview

A parsing engine does not construct DOM nodes itself. Instead it drives a
tree sink: a small protocol of callbacks (create an element, append a child,
look up an element's name, …) invoked in document order while the input is
tokenized. Type Sink implements this protocol (interface TreeSink) and
collects everything into a Document.

Tree Implementation

Elements are kept in an arena owned by the Document and referenced by
Handle. A handle is a plain number; handles are allocated from a counter
starting right after the reserved root handle and are never re-used.
Children of an element are an ordered sequence of ChildEntry values, each
either a reference to a child element or a run of text. There are no parent
pointers and no sibling links: the tree is append-only and never rearranged
once built, which makes the arena a good fit.

The sink deliberately implements only the subset of the protocol needed
for rendering well-formed documents. Comments, processing instructions,
doctypes, re-parenting, removal and late attribute updates are accepted and
ignored. Documents which rely on HTML5 error recovery (the adoption agency
algorithm, foster parenting) will therefore be built differently from what a
conforming browser would produce. Package engine offers a conformant replay
mode for cases where this matters.

Once Finish has been called, the Document is read-only.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webtree.dom'.
func tracer() tracing.Trace {
	return tracing.Select("webtree.dom")
}
