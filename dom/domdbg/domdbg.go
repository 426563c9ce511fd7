/*
Package domdbg implements helpers to debug a document tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/webtree/dom"
	tp "github.com/xlab/treeprint"
)

// Outline returns the tree below the root in the indented format of the
// html5lib tree-construction tests:
//
//    | <html>
//    |   <head>
//    |   <body>
//    |     "Hello"
//
// Attributes are listed sorted by name, below their element.
func Outline(doc *dom.Document) string {
	var b strings.Builder
	if root, ok := doc.Element(dom.RootHandle); ok {
		outline(&b, doc, root, 0)
	}
	return b.String()
}

func outline(b *strings.Builder, doc *dom.Document, e *dom.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, ch := range e.Children() {
		if text, ok := ch.Text(); ok {
			fmt.Fprintf(b, "| %s%q\n", indent, text)
			continue
		}
		h, _ := ch.Node()
		child, ok := doc.Element(h)
		if !ok {
			continue
		}
		fmt.Fprintf(b, "| %s<%s>\n", indent, child.Name())
		attrs := make([]string, 0, len(child.Attributes()))
		for _, a := range child.Attributes() {
			attrs = append(attrs, fmt.Sprintf("%s=%q", a.Name.Local, a.Value))
		}
		sort.Strings(attrs)
		for _, a := range attrs {
			fmt.Fprintf(b, "| %s  %s\n", indent, a)
		}
		outline(b, doc, child, depth+1)
	}
}

// Print returns a tree-like printout of a document, for logging.
func Print(doc *dom.Document) string {
	p := tp.New()
	if root, ok := doc.Element(dom.RootHandle); ok {
		printElement(p, doc, dom.RootHandle, root)
	}
	return p.String()
}

func printElement(p tp.Tree, doc *dom.Document, h dom.Handle, e *dom.Element) {
	label := fmt.Sprintf("<%s> %s", e.Name(), h)
	if len(e.Children()) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, ch := range e.Children() {
		if text, ok := ch.Text(); ok {
			branch.AddNode(shortText(text))
			continue
		}
		child, _ := ch.Node()
		if ce, ok := doc.Element(child); ok {
			printElement(branch, doc, child, ce)
		}
	}
}

// --- GraphViz --------------------------------------------------------------

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	NodeTmpl *template.Template
	TextTmpl *template.Template
	EdgeTmpl *template.Template
}

// ToGraphViz outputs a diagram for a document tree. The diagram is in
// GraphViz (DOT) format.
func ToGraphViz(doc *dom.Document, w io.Writer) error {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Parse(domNodeTmpl))
	gparams.TextTmpl = template.Must(template.New("textnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(textNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	var werr error
	textCount := 0
	doc.Walk(func(h dom.Handle, e *dom.Element, depth int) bool {
		if werr != nil {
			return false
		}
		name := nodeName(h)
		werr = gparams.NodeTmpl.Execute(w, node{Name: name, Label: e.Name().String()})
		for _, ch := range e.Children() {
			if werr != nil {
				break
			}
			if text, ok := ch.Text(); ok {
				textCount++
				tname := fmt.Sprintf("text%05d", textCount)
				werr = gparams.TextTmpl.Execute(w, node{Name: tname, Label: text})
				if werr == nil {
					werr = gparams.EdgeTmpl.Execute(w, edge{name, tname})
				}
				continue
			}
			child, _ := ch.Node()
			werr = gparams.EdgeTmpl.Execute(w, edge{name, nodeName(child)})
		}
		return true
	})
	if werr != nil {
		return werr
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a document and a testing.T, it will
// create a Graphiviz image of the document tree and write it to the test's
// temporary directory. The image is in SVG format. Dotty needs the dot
// command of Graphviz.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(doc *dom.Document, t *testing.T) {
	tmpfile, err := os.CreateTemp(t.TempDir(), "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(doc, tmpfile); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing DOM tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	Name  string
	Label string
}

type edge struct {
	From, To string
}

func nodeName(h dom.Handle) string {
	return fmt.Sprintf("node%05d", uint(h))
}

func shortText(s string) string {
	if r := []rune(s); len(r) > 10 {
		s = string(r[:10]) + "..."
	}
	s = strings.Replace(s, "\n", `\n`, -1)
	s = strings.Replace(s, "\t", `\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return fmt.Sprintf("%q", s)
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ .Name }}	[ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
`

const textNodeTmpl = `{{ .Name }}	[ label={{ shortstring .Label }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
`

const domEdgeTmpl = `{{ .From }} -> {{ .To }} [weight=1] ;
`
