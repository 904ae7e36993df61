// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vibecoder-tui/internal/config"
)

type seen struct {
	path  string
	query string
	host  string
	body  string
}

func newUpstream(t *testing.T) (*httptest.Server, *seen) {
	t.Helper()
	got := &seen{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.host = r.Host
		got.body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	t.Cleanup(upstream.Close)
	return upstream, got
}

func newProxy(t *testing.T, backend string) (*Server, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Backend.URL = backend
	s, err := NewServer(cfg)
	require.NoError(t, err)
	var buf bytes.Buffer
	s.WithLogger(log.New(&buf, "", 0))
	return s, &buf
}

func TestNewServer_Validation(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.URL = "not a url"
	_, err := NewServer(cfg)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	cfg = config.Default()
	cfg.Backend.URL = "ftp://example.com"
	_, err = NewServer(cfg)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	cfg = config.Default()
	cfg.Proxy.Prefix = "/"
	_, err = NewServer(cfg)
	assert.ErrorIs(t, err, ErrInvalidPrefix)

	cfg = config.Default()
	cfg.Proxy.Prefix = "api/"
	s, err := NewServer(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/api", s.Prefix())
	assert.Equal(t, ":5173", s.Addr())
}

func TestStripPrefix(t *testing.T) {
	s, _ := newProxy(t, "http://localhost:8000")
	tests := map[string]string{
		"/api/projects/":   "/projects/",
		"/api/chat/":       "/chat/",
		"/api":             "/",
		"/health":          "/health",
		"/api/projects/7/": "/projects/7/",
	}
	for in, want := range tests {
		assert.Equal(t, want, s.StripPrefix(in), in)
	}
}

func TestProxy_ForwardsWithPrefixStripped(t *testing.T) {
	upstream, got := newUpstream(t)
	s, logs := newProxy(t, upstream.URL)
	front := httptest.NewServer(s.Handler())
	defer front.Close()

	resp, err := http.Post(front.URL+"/api/chat/?x=1", "application/json", strings.NewReader(`{"project_id":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":1}]`, string(body))
	assert.Equal(t, "/chat/", got.path)
	assert.Equal(t, "x=1", got.query)
	assert.Equal(t, `{"project_id":1}`, got.body)

	target, _ := url.Parse(upstream.URL)
	assert.Equal(t, target.Host, got.host, "Host header must be rewritten to the backend")
	assert.Contains(t, logs.String(), "POST /api/chat/ | 200")
	assert.Contains(t, logs.String(), "PROXY | proxying POST /api/chat/ -> "+upstream.URL+"/chat/?x=1")
}

func TestProxy_BackendDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	s, logs := newProxy(t, deadURL)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload["detail"], "backend unavailable")
	assert.Contains(t, logs.String(), "PROXY_ERROR | method=GET path=/api/projects/")
}

func TestProxy_HealthAndNotFound(t *testing.T) {
	s, _ := newProxy(t, "http://localhost:8000")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), "localhost:8000")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api")
}

func TestProxy_CORS(t *testing.T) {
	upstream, _ := newUpstream(t)
	s, _ := newProxy(t, upstream.URL)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	h := RecoveryMiddleware(log.New(&buf, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "PANIC_RECOVERED | method=GET path=/ error=boom")
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(mw("a"), mw("b"), mw("c"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "final")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c", "final"}, order)
}
