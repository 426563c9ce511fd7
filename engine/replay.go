package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/npillmayer/webtree/dom"
	"golang.org/x/net/html"
)

// Replay parses the complete input from r with the HTML5 conformant parser
// of golang.org/x/net/html, and then replays the parse tree into sink, in
// document order. It returns the document finished by the sink.
//
// Unlike Build, Replay reads all of r before calling the sink.
func Replay(ctx context.Context, r io.Reader, sink dom.TreeSink, opts ...Option) (*dom.Document, error) {
	if sink == nil {
		return nil, ErrNoSink
	}
	o := collect(opts)
	root, err := html.Parse(r)
	if err != nil {
		tracer().Errorf("engine: parsing input failed: %v", err)
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rp := replayer{sink: sink, maxDepth: o.maxDepth}
	rp.sink.SetQuirksMode(dom.Quirks)
	if err := rp.children(ctx, root, sink.Root(), 0); err != nil {
		return nil, err
	}
	return sink.Finish(), nil
}

type replayer struct {
	sink     dom.TreeSink
	maxDepth int
}

func (rp replayer) children(ctx context.Context, n *html.Node, parent dom.Handle, depth int) error {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rp.node(ctx, ch, parent, depth); err != nil {
			return err
		}
	}
	return nil
}

func (rp replayer) node(ctx context.Context, n *html.Node, parent dom.Handle, depth int) error {
	switch n.Type {
	case html.DoctypeNode:
		var public, system string
		for _, a := range n.Attr {
			switch a.Key {
			case "public":
				public = a.Val
			case "system":
				system = a.Val
			}
		}
		rp.sink.AppendDoctype(n.Data, public, system)
		rp.sink.SetQuirksMode(quirksFor(n.Data, public))
	case html.CommentNode:
		h := rp.sink.CreateComment(n.Data)
		rp.sink.Append(parent, dom.NodeEntry(h))
	case html.TextNode:
		rp.sink.Append(parent, dom.TextEntry(n.Data))
	case html.ElementNode:
		name := dom.QualName{Space: namespaceURL(n.Namespace), Local: n.Data}
		h := rp.sink.CreateElement(name, attributes(n.Attr))
		rp.sink.Append(parent, dom.NodeEntry(h))
		if depth >= rp.maxDepth {
			rp.sink.ParseError("maximum nesting depth exceeded")
			return rp.children(ctx, n, parent, depth)
		}
		return rp.children(ctx, n, h, depth+1)
	case html.ErrorNode:
		rp.sink.ParseError(n.Data)
	}
	return nil
}
