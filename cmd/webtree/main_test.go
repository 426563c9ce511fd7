package main

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><head><title>T</title></head>
<body><h1>Title</h1><p>See <a href="other.html">other</a></p></body></html>`

const other = `<p>Other page</p>`

func writePages(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "my pages")
	require.NoError(t, os.Mkdir(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte(page), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.html"), []byte(other), 0o600))
	return filepath.Join(dir, "page.html")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"FRAME", "WEBTREE_CONFORMANT", "WEBTREE_USER_AGENT", "WEBTREE_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.browser")
	defer teardown()
	//
	path := writePages(t)
	out, err := run(t, "", "render", path)
	require.NoError(t, err)
	t.Logf("output =\n%s", out)
	assert.Contains(t, out, `label "Title"`)
	assert.Contains(t, out, `link "other" -> other.html`)
	assert.Contains(t, out, "[1] other -> other.html")
	assert.NotContains(t, out, `"T"`)
	//
	out, err = run(t, "", "render", "--frame", path)
	require.NoError(t, err)
	assert.Contains(t, out, "hbox [p]")
}

func TestRenderInteractive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.browser")
	defer teardown()
	//
	path := writePages(t)
	out, err := run(t, "7\n1\nb\nq\n", "render", "-i", path)
	require.NoError(t, err)
	t.Logf("output =\n%s", out)
	assert.Contains(t, out, `no link "7"`)
	assert.Contains(t, out, `label "Other page"`)
	loc := (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
	assert.Contains(t, loc, "my%20pages")
	assert.Equal(t, 2, strings.Count(out, "@ "+loc))
}

func TestDom(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.engine")
	defer teardown()
	//
	path := writePages(t)
	out, err := run(t, "", "dom", path)
	require.NoError(t, err)
	assert.Contains(t, out, "|     <h1>")
	assert.Contains(t, out, "no-quirks")
	out, err = run(t, "", "dom", "--conformant", "--dot", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph g {"))
}

func TestErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webtree.browser")
	defer teardown()
	//
	_, err := run(t, "", "render", filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
	_, err = run(t, "", "render")
	assert.Error(t, err)
	_, err = run(t, "", "--config", filepath.Join(t.TempDir(), "missing.toml"), "dom", "x.html")
	assert.Error(t, err)
	_, err = run(t, "", "serve", "--addr", "localhost:-1")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "webtree dev"))
}

func TestLocation(t *testing.T) {
	loc, err := location("https://example.org/x")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/x", loc)
	loc, err = location("page.html")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc, "file://"))
	assert.True(t, strings.HasSuffix(loc, "/page.html"))
	loc, err = location(filepath.Join("my pages", "page.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(loc, "/my%20pages/page.html"), loc)
}
