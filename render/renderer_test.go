package render

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webtree/dom"
	"github.com/npillmayer/webtree/dom/style"
	"github.com/npillmayer/webtree/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type treeNode = tree.Node[*Visual]

// builder is a tiny helper to drive a sink from tests.
type builder struct {
	s *dom.Sink
}

func newBuilder() *builder {
	return &builder{s: dom.NewSink()}
}

func (b *builder) el(parent dom.Handle, tag string, attrs ...dom.Attribute) dom.Handle {
	h := b.s.CreateElement(dom.HTML(tag), attrs)
	b.s.Append(parent, dom.NodeEntry(h))
	return h
}

func (b *builder) text(parent dom.Handle, text string) {
	b.s.Append(parent, dom.TextEntry(text))
}

func href(url string) dom.Attribute {
	return dom.Attribute{Name: dom.QualName{Local: "href"}, Value: url}
}

func TestRenderParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	p := b.el(dom.RootHandle, "p")
	b.text(p, "Hello, ")
	bold := b.el(p, "b")
	b.text(bold, "world")
	v := Render(b.s.Finish(), nil)
	t.Logf("visual tree =\n%s", Dump(v))
	//
	require.Equal(t, Container, v.Kind)
	require.Len(t, v.Boxes(), 1)
	para := v.Boxes()[0]
	assert.Equal(t, Container, para.Kind)
	assert.Equal(t, Horizontal, para.Orientation)
	leaves := para.Boxes()
	require.Len(t, leaves, 2)
	assert.Equal(t, Label, leaves[0].Kind)
	assert.Equal(t, "Hello, ", leaves[0].Text)
	assert.Equal(t, style.PlainText, leaves[0].Style)
	assert.Equal(t, Label, leaves[1].Kind)
	assert.Equal(t, "world", leaves[1].Text)
	assert.Equal(t, style.BoldText, leaves[1].Style)
}

func TestRenderInvisibleHead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	head := b.el(dom.RootHandle, "head")
	title := b.el(head, "title")
	b.text(title, "X")
	v := Render(b.s.Finish(), nil)
	assert.Equal(t, Container, v.Kind)
	assert.True(t, v.IsEmpty())
}

func TestRenderHeadWithVisibleLookingChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	html := b.el(dom.RootHandle, "html")
	head := b.el(html, "head")
	h1 := b.el(head, "h1")
	b.text(h1, "hidden heading")
	a := b.el(head, "a", href("https://hidden"))
	b.text(a, "hidden link")
	body := b.el(html, "body")
	b.text(body, "shown")
	v := Render(b.s.Finish(), nil)
	t.Logf("visual tree =\n%s", Dump(v))
	assert.Equal(t, "shown", v.TextContent())
}

func TestRenderPrunesEmptyContainers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	outer := b.el(dom.RootHandle, "div")
	inner := b.el(outer, "div")
	script := b.el(inner, "script")
	b.text(script, "alert(1)")
	b.text(inner, "\n   ")
	sect := b.el(dom.RootHandle, "section")
	st := b.el(sect, "style")
	b.text(st, "p { color: red }")
	d := b.el(dom.RootHandle, "div")
	b.text(d, "content")
	v := Render(b.s.Finish(), nil)
	t.Logf("visual tree =\n%s", Dump(v))
	//
	require.Len(t, v.Boxes(), 1)
	only := v.Boxes()[0]
	assert.Equal(t, "content", only.TextContent())
	v.Walk(func(n *treeNode, _ int) bool {
		if n.Payload != v {
			assert.False(t, n.Payload.IsEmpty(), "found empty container in output")
		}
		return true
	})
}

func TestRenderSkipsWhiteSpaceText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	list := b.el(dom.RootHandle, "div")
	b.text(list, "\n  ")
	b.text(b.el(list, "p"), "one")
	b.text(list, "\n\t")
	b.text(b.el(list, "p"), "two")
	b.text(list, "\n")
	blank := b.el(dom.RootHandle, "div")
	b.text(blank, " \r\n ")
	v := Render(b.s.Finish(), nil)
	t.Logf("visual tree =\n%s", Dump(v))
	//
	require.Len(t, v.Boxes(), 1, "white space alone does not make a container visible")
	paras := v.Boxes()[0].Boxes()
	require.Len(t, paras, 2)
	assert.Equal(t, "one", paras[0].TextContent())
	assert.Equal(t, "two", paras[1].TextContent())
	assert.Equal(t, "onetwo", v.TextContent())
}

func TestRenderHeadingScale(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	h1 := b.el(dom.RootHandle, "h1")
	b.text(h1, "big")
	h6 := b.el(dom.RootHandle, "h6")
	b.text(h6, "small")
	div := b.el(dom.RootHandle, "div")
	b.text(div, "normal")
	v := Render(b.s.Finish(), nil)
	//
	boxes := v.Boxes()
	require.Len(t, boxes, 3)
	assert.Equal(t, 32, boxes[0].Boxes()[0].Style.Scale())
	assert.Equal(t, 11, boxes[1].Boxes()[0].Style.Scale())
	_, ok := boxes[2].Boxes()[0].Style.FontSize()
	assert.False(t, ok)
}

func TestRenderLinks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	var followed []string
	nav := NavigatorFunc(func(url string) bool {
		followed = append(followed, url)
		return true
	})
	b := newBuilder()
	div := b.el(dom.RootHandle, "div")
	a1 := b.el(div, "a", href("https://x"))
	b.text(a1, "go")
	a2 := b.el(div, "a")
	b.text(a2, "go")
	a3 := b.el(div, "a", href("../relative.html"))
	b.text(a3, "up")
	v := Render(b.s.Finish(), nav)
	t.Logf("visual tree =\n%s", Dump(v))
	//
	leaves := v.Boxes()[0].Boxes()
	require.Len(t, leaves, 3)
	assert.Equal(t, Link, leaves[0].Kind)
	assert.Equal(t, "https://x", leaves[0].Href())
	assert.Equal(t, "go", leaves[0].Text)
	assert.Equal(t, Label, leaves[1].Kind)
	assert.Equal(t, "go", leaves[1].Text)
	assert.Equal(t, "", leaves[1].Href())
	assert.False(t, leaves[1].Activate())
	//
	assert.True(t, leaves[0].Activate())
	assert.True(t, leaves[2].Activate())
	assert.Equal(t, []string{"https://x", "../relative.html"}, followed)
}

func TestRenderLinkWithoutNavigator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	a := b.el(dom.RootHandle, "a", href("https://x"))
	b.text(a, "go")
	v := Render(b.s.Finish(), nil)
	link := v.Boxes()[0]
	assert.Equal(t, Link, link.Kind)
	assert.False(t, link.Activate())
}

func TestRenderFrames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	p := b.el(dom.RootHandle, "p")
	b.text(p, "Hello, ")
	bold := b.el(p, "b")
	b.text(bold, "world")
	v := Render(b.s.Finish(), nil, WithFrame(true))
	t.Logf("visual tree =\n%s", Dump(v))
	//
	assert.Equal(t, "root", v.Frame)
	para := v.Boxes()[0]
	assert.Equal(t, "p", para.Frame)
	require.Len(t, para.Boxes(), 2)
	assert.Equal(t, "b", para.Boxes()[1].Frame)
	assert.Equal(t, style.BoldText, para.Boxes()[1].Boxes()[0].Style)
}

func TestRenderConfiguredInvisible(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	nav := b.el(dom.RootHandle, "nav")
	b.text(nav, "menu")
	main := b.el(dom.RootHandle, "main")
	b.text(main, "article")
	hidden := b.el(dom.RootHandle, "div", dom.Attribute{
		Name: dom.QualName{Local: "style"}, Value: "display: none",
	})
	b.text(hidden, "secret")
	v := Render(b.s.Finish(), nil, WithInvisible("nav"))
	assert.Equal(t, "article", v.TextContent())
}

func TestRenderDegenerateDocuments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	v := Render(nil, nil)
	assert.True(t, v.IsEmpty())
	v = Render(dom.NewSink().Finish(), nil)
	assert.True(t, v.IsEmpty())
	assert.Equal(t, Vertical, v.Orientation)
	assert.NotEmpty(t, Dump(v))
}

func TestRenderDoesNotMutateDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.render")
	defer teardown()
	//
	b := newBuilder()
	p := b.el(dom.RootHandle, "p")
	b.text(p, "text")
	doc := b.s.Finish()
	n := doc.Len()
	children := len(doc.Root().Children())
	Render(doc, nil, WithFrame(true))
	Render(doc, nil)
	assert.Equal(t, n, doc.Len())
	assert.Equal(t, children, len(doc.Root().Children()))
}
