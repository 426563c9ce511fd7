/*
Package browser ties fetching, tree construction and rendering together.

A Browser opens URLs: it fetches a document, drives a tree sink with it,
renders the finished document and hands the visual tree to a Host for
display. Links in the visual tree navigate through the browser that
rendered them.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/webtree/config"
	"github.com/npillmayer/webtree/render"
)

// tracer traces with key 'webtree.browser'.
func tracer() tracing.Trace {
	return tracing.Select("webtree.browser")
}

// ErrNoHistory is returned by Back if there is no previous page.
var ErrNoHistory = errors.New("no previous page")

// Host displays what a browser renders.
type Host interface {
	Mount(v *render.Visual) // replace the displayed content
	ShowError(err error)    // report a failed navigation
	SetLocation(url string) // show the URL of the displayed content
}

// Browser opens documents and mounts them into a host. It is a
// render.Navigator for the links it renders.
//
// Navigations are serialized. A Browser is safe for concurrent use.
type Browser struct {
	cfg     config.Config
	fetcher Fetcher
	host    Host
	ctx     context.Context // for navigations started by links
	mu      sync.Mutex      // guards current and history
	current *url.URL
	history []string
	pending sync.WaitGroup
}

var _ render.Navigator = (*Browser)(nil)

// New creates a browser. If fetcher is nil, an HTTPFetcher configured from
// cfg is used. ctx bounds navigations started by activating links.
func New(ctx context.Context, cfg config.Config, fetcher Fetcher, host Host) *Browser {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(cfg.UserAgent, cfg.Timeout)
	}
	return &Browser{
		cfg:     cfg,
		fetcher: fetcher,
		host:    host,
		ctx:     ctx,
	}
}

// Open loads the document at rawURL and mounts it. If absolute is false,
// rawURL is resolved against the location of the current document.
// Errors are shown by the host and returned.
func (b *Browser) Open(ctx context.Context, rawURL string, absolute bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	loc, err := b.open(ctx, rawURL, absolute)
	if err != nil {
		tracer().Errorf("browser: %v", err)
		b.host.ShowError(err)
		return err
	}
	if b.current != nil {
		b.history = append(b.history, b.current.String())
	}
	b.current = loc
	return nil
}

// Navigate is called for activated links. It opens href relative to the
// current document in the background and reports true. Use Wait to wait
// for the navigation to complete.
func (b *Browser) Navigate(href string) bool {
	b.pending.Add(1)
	go func() {
		defer b.pending.Done()
		_ = b.Open(b.ctx, href, false) // errors are reported to the host
	}()
	return true
}

// Wait blocks until all navigations started by Navigate have finished.
func (b *Browser) Wait() {
	b.pending.Wait()
}

// Back re-opens the document displayed before the current one.
func (b *Browser) Back(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.history) == 0 {
		return ErrNoHistory
	}
	prev := b.history[len(b.history)-1]
	loc, err := b.open(ctx, prev, true)
	if err != nil {
		tracer().Errorf("browser: %v", err)
		b.host.ShowError(err)
		return err
	}
	b.history = b.history[:len(b.history)-1]
	b.current = loc
	return nil
}

// Location returns the URL of the current document, or "" before the
// first successful Open.
func (b *Browser) Location() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return ""
	}
	return b.current.String()
}

// open does the work of Open. b.mu must be held.
func (b *Browser) open(ctx context.Context, rawURL string, absolute bool) (*url.URL, error) {
	target, err := b.resolve(rawURL, absolute)
	if err != nil {
		return nil, err
	}
	tracer().Infof("browser: opening %s", target)
	doc, loc, err := Load(ctx, b.fetcher, b.cfg, target)
	if err != nil {
		return nil, err
	}
	opts := []render.Option{render.WithFrame(b.cfg.Frame)}
	if len(b.cfg.Invisible) > 0 {
		opts = append(opts, render.WithInvisible(b.cfg.Invisible...))
	}
	v := render.Render(doc, b, opts...)
	b.host.Mount(v)
	b.host.SetLocation(loc.String())
	return loc, nil
}

// resolve makes rawURL absolute. Relative references are resolved against
// the current location, if any.
func (b *Browser) resolve(rawURL string, absolute bool) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if !absolute && b.current != nil {
		ref = b.current.ResolveReference(ref)
	}
	return ref.String(), nil
}
