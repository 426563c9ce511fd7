/*
Package render turns a document tree into a tree of visual nodes.

Overview

The visual tree is an abstract description of what a UI host should
display: containers stacking their children vertically or horizontally,
text labels with a simple style, and actionable links. It is independent
of any particular toolkit; a host walks it and creates its own widgets.

Rendering is a single depth-first, pre-order walk over the document,
starting at the root element. Elements whose display property is "none"
(head, script, style, …) are never entered. An element produces a container
only if something visible was produced for at least one of its descendants;
elements with nothing to show vanish instead of showing up as empty boxes.
Inline elements (b, i, a, span, …) do not get a container of their own:
their content flows into the container of the enclosing block.

Text runs are styled by the element directly containing them, see
style.TextStyleFor. Styles do not accumulate along the ancestor chain.
Text runs consisting of white space only, like the indentation between
elements, never produce a label. They do not make their container
visible either.

The document is never modified, and rendering never fails: a document
with nothing visible renders to an empty vertical container.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package render

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webtree.render'.
func tracer() tracing.Trace {
	return tracing.Select("webtree.render")
}
