package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Response is a fetched document.
type Response struct {
	URL         string        // effective URL, after redirects
	ContentType string        // media type as sent by the server, may be empty
	Body        io.ReadCloser // the document, to be closed by the caller
}

// Fetcher loads documents by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// HTTPFetcher fetches documents over HTTP(S), following redirects.
// URLs with scheme "file" are read from the local file system.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher creates a fetcher with a client timing out after timeout.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// Fetch implements Fetcher. Status codes other than 2xx are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if strings.EqualFold(u.Scheme, "file") {
		return fetchFile(u.Path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w", rawURL, &StatusError{Code: resp.StatusCode, Status: resp.Status})
	}
	tracer().Infof("browser: fetched %s", resp.Request.URL)
	return &Response{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

// StatusError is returned for unsuccessful HTTP responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "server responded " + e.Status
}

// fetchFile opens a local document. path is unescaped.
func fetchFile(path string) (*Response, error) {
	path = filepath.FromSlash(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	loc, err := FileURL(path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	return &Response{URL: loc, Body: f}, nil
}

// FileURL returns the "file" URL of a local path, escaped as necessary.
// Relative paths are made absolute first.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs // volume name
	}
	return (&url.URL{Scheme: "file", Path: abs}).String(), nil
}
