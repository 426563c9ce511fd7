package browser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/npillmayer/webtree/config"
	"github.com/npillmayer/webtree/dom"
	"github.com/npillmayer/webtree/engine"
	"github.com/yuin/goldmark"
)

// Load fetches the document at target and builds its element tree,
// with the engine selected by cfg. It returns the document together with
// its effective location.
//
// Markdown documents are converted to HTML first.
func Load(ctx context.Context, f Fetcher, cfg config.Config, target string) (*dom.Document, *url.URL, error) {
	resp, err := f.Fetch(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	loc, err := url.Parse(resp.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("effective url: %w", err)
	}
	var body io.Reader = resp.Body
	if isMarkdown(resp.ContentType, loc) {
		if body, err = markdownToHTML(resp.Body); err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", resp.URL, err)
		}
	}
	opts := []engine.Option{engine.WithMaxDepth(cfg.MaxDepth)}
	var doc *dom.Document
	if cfg.Conformant {
		doc, err = engine.Replay(ctx, body, dom.NewSink(), opts...)
	} else {
		doc, err = engine.Build(ctx, body, dom.NewSink(), opts...)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", resp.URL, err)
	}
	tracer().Debugf("browser: document has %d elements, %d parse errors",
		doc.Len(), doc.ParseErrors())
	return doc, loc, nil
}

// isMarkdown decides by media type. For missing or unspecific media types
// the file extension of the location decides.
func isMarkdown(contentType string, loc *url.URL) bool {
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err == nil && mt != "text/plain" && mt != "application/octet-stream" {
			return mt == "text/markdown" || mt == "text/x-markdown"
		}
	}
	switch strings.ToLower(path.Ext(loc.Path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func markdownToHTML(r io.Reader) (io.Reader, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := goldmark.New().Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return &buf, nil
}
