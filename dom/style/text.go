package style

import (
	"fmt"

	"github.com/npillmayer/tyse/core/dimen"
	"github.com/npillmayer/webtree/dom"
	"golang.org/x/net/html/atom"
)

// TextKind discriminates the variants of TextStyle.
type TextKind uint8

const (
	Plain TextKind = iota
	Scaled
	Bold
	Italic
	Link
)

func (k TextKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Scaled:
		return "scaled"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Link:
		return "link"
	}
	return fmt.Sprintf("TextKind(%d)", uint8(k))
}

// TextStyle is the styling of a run of text. It is one of
//
//    plain | scaled(n) | bold | italic | link(href)
//
// Only one of these applies to any text run; styles do not compose.
// The zero value is the plain style.
type TextStyle struct {
	kind  TextKind
	scale int
	href  string
}

// PlainText is the style for text without any emphasis.
var PlainText = TextStyle{}

// ScaledText creates a style with a font scale of n points.
func ScaledText(n int) TextStyle {
	return TextStyle{kind: Scaled, scale: n}
}

// BoldText is the style for strong emphasis.
var BoldText = TextStyle{kind: Bold}

// ItalicText is the style for emphasis.
var ItalicText = TextStyle{kind: Italic}

// LinkText creates a style for an actionable link to href.
func LinkText(href string) TextStyle {
	return TextStyle{kind: Link, href: href}
}

// Kind returns the variant of a text style.
func (ts TextStyle) Kind() TextKind {
	return ts.kind
}

// Scale returns the font scale for scaled text, 0 otherwise.
func (ts TextStyle) Scale() int {
	return ts.scale
}

// FontSize returns the font size for scaled text. ok is false if the style
// does not override the font size.
func (ts TextStyle) FontSize() (size dimen.DU, ok bool) {
	if ts.kind != Scaled {
		return 0, false
	}
	return dimen.DU(ts.scale) * dimen.PT, true
}

// Href returns the link target of link styles.
func (ts TextStyle) Href() string {
	return ts.href
}

func (ts TextStyle) String() string {
	switch ts.kind {
	case Scaled:
		return fmt.Sprintf("scaled(%d)", ts.scale)
	case Link:
		return fmt.Sprintf("link(%s)", ts.href)
	}
	return ts.kind.String()
}

var headingScales = map[atom.Atom]int{
	atom.H1: 32,
	atom.H2: 24,
	atom.H3: 19,
	atom.H4: 16,
	atom.H5: 13,
	atom.H6: 11,
}

// TextStyleFor returns the style of text runs which are direct children of
// element e. An `a` element without an href attribute falls back to plain
// text.
func TextStyleFor(e *dom.Element) TextStyle {
	if e == nil || e.Name().Space != dom.HTMLNamespace {
		return PlainText
	}
	a := atom.Lookup([]byte(e.Name().Local))
	if scale, ok := headingScales[a]; ok {
		return ScaledText(scale)
	}
	switch a {
	case atom.B, atom.Strong:
		return BoldText
	case atom.I, atom.Em:
		return ItalicText
	case atom.A:
		if href, ok := e.Attr("href"); ok {
			return LinkText(href)
		}
	}
	return PlainText
}
