package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/devserve/internal/port"
)

// newTestSite builds a temp directory with a representative SPA file
// tree and returns an httptest server over the handler.
func newTestSite(t *testing.T, logOut io.Writer) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"index-standalone.html": "<!doctype html><title>trainer</title>",
		"app.tsx":               "export const App = () => null;",
		"styles/main.css":       "body { margin: 0 }",
		"favicon.ico":           "\x00\x00\x01\x00",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	ts := httptest.NewServer(NewHandler(dir, "/index-standalone.html", logOut))
	t.Cleanup(ts.Close)
	return ts
}

// noRedirectClient returns a client that surfaces the 302 response
// itself instead of following it.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// TestRootRedirect verifies GET / responds 302 with the Location header
// pointing at the standalone entry document.
func TestRootRedirect(t *testing.T) {
	ts := newTestSite(t, io.Discard)

	resp, err := noRedirectClient().Get(ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/index-standalone.html", resp.Header.Get("Location"))
}

// TestFaviconAlways404 verifies /favicon.ico is answered 404 with an
// empty body even though a favicon.ico file exists in the served tree.
// The short-circuit is intentional and preserved literally.
func TestFaviconAlways404(t *testing.T) {
	ts := newTestSite(t, io.Discard)

	resp, err := http.Get(ts.URL + "/favicon.ico")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body, "favicon 404 carries no body")
}

// TestServeModuleWithOverriddenType verifies an existing .tsx file comes
// back 200 with the overridden script content-type rather than whatever
// the platform would have guessed.
func TestServeModuleWithOverriddenType(t *testing.T) {
	ts := newTestSite(t, io.Discard)

	resp, err := http.Get(ts.URL + "/app.tsx")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/javascript", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "export const App")
}

// TestServeCSSFromSubdirectory verifies override types apply to files in
// nested directories and that the mapped type carries through.
func TestServeCSSFromSubdirectory(t *testing.T) {
	ts := newTestSite(t, io.Discard)

	resp, err := http.Get(ts.URL + "/styles/main.css")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/css", resp.Header.Get("Content-Type"))
}

// TestMissingFile404 verifies a nonexistent path falls through to the
// file server's standard not-found response.
func TestMissingFile404(t *testing.T) {
	ts := newTestSite(t, io.Discard)

	resp, err := http.Get(ts.URL + "/does-not-exist.xyz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestEntryDocumentDirect verifies the end-to-end scenario: requesting
// the entry document directly yields 200 with the markup content-type.
func TestEntryDocumentDirect(t *testing.T) {
	ts := newTestSite(t, io.Discard)

	resp, err := http.Get(ts.URL + "/index-standalone.html")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
}

// syncBuffer is a bytes.Buffer safe for concurrent use. The handler
// logs from the connection goroutine while the test reads from its own.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestRequestLogging verifies each request produces a log line with the
// method, path, and response status.
func TestRequestLogging(t *testing.T) {
	buf := &syncBuffer{}
	ts := newTestSite(t, buf)

	resp, err := http.Get(ts.URL + "/app.tsx")
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Eventually(t, func() bool {
		line := buf.String()
		return strings.Contains(line, "GET /app.tsx") && strings.Contains(line, "200")
	}, time.Second, 10*time.Millisecond, "request should be logged with method, path, and status")

	resp, err = http.Get(ts.URL + "/missing.js")
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "404")
	}, time.Second, 10*time.Millisecond, "not-found responses should be logged too")
}

// TestServerHandler verifies a Server built through New routes the same
// way as a bare NewHandler: the accessor lets tests hit the redirect and
// override rules without binding the server's real port.
func TestServerHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.tsx"),
		[]byte("export {};"), 0o644))

	srv := New(8080, dir, "/index-standalone.html", io.Discard)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := noRedirectClient().Get(ts.URL + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/index-standalone.html", resp.Header.Get("Location"))

	resp, err = http.Get(ts.URL + "/app.tsx")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/javascript", resp.Header.Get("Content-Type"))
}

// TestListenAndServe_CleanShutdown starts a real server on a freshly
// selected port, confirms it answers requests, then cancels the context
// and expects a nil (clean) return.
func TestListenAndServe_CleanShutdown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index-standalone.html"),
		[]byte("<html></html>"), 0o644))

	p, err := port.NewScanner().FindFreePort(45000)
	require.NoError(t, err)

	srv := New(p, dir, "/index-standalone.html", io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	// Poll until the listener is accepting.
	url := fmt.Sprintf("http://localhost:%d/", p)
	client := noRedirectClient()
	var resp *http.Response
	require.Eventually(t, func() bool {
		var getErr error
		resp, getErr = client.Get(url)
		return getErr == nil
	}, 5*time.Second, 50*time.Millisecond, "server should start accepting connections")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "context cancellation is a clean stop")
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}
