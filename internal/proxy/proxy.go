// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/vibecoder-tui/internal/config"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	// ErrInvalidTarget is returned when the backend URL cannot be proxied to.
	ErrInvalidTarget = errors.New("invalid proxy target")

	// ErrInvalidPrefix is returned when the path prefix is empty or "/".
	ErrInvalidPrefix = errors.New("invalid proxy prefix")
)

// ============================================================================
// SERVER
// ============================================================================

// Server forwards prefixed requests to the backend.
type Server struct {
	addr    string
	prefix  string
	target  *url.URL
	origins []string
	logger  *log.Logger

	handler http.Handler
	server  *http.Server

	mu sync.Mutex
}

// NewServer builds a proxy from the backend and proxy sections of cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	target, err := url.Parse(cfg.Backend.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if target.Scheme != "http" && target.Scheme != "https" || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, cfg.Backend.URL)
	}

	prefix := "/" + strings.Trim(cfg.Proxy.Prefix, "/")
	if prefix == "/" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, cfg.Proxy.Prefix)
	}

	s := &Server{
		addr:    cfg.ProxyAddr(),
		prefix:  prefix,
		target:  target,
		origins: cfg.Proxy.AllowedOrigins,
		logger:  log.New(os.Stderr, "", 0),
	}
	s.handler = s.build()
	return s, nil
}

// WithLogger replaces the logger for access and proxy lines (stderr by
// default).
func (s *Server) WithLogger(logger *log.Logger) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
	s.handler = s.build()
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.addr }

// Target returns the backend URL requests are forwarded to.
func (s *Server) Target() string { return s.target.String() }

// Prefix returns the normalized path prefix that is stripped before forwarding.
func (s *Server) Prefix() string { return s.prefix }

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) build() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	rp := s.reverseProxy()
	mux.Handle(s.prefix+"/", rp)
	mux.Handle(s.prefix, rp)
	mux.HandleFunc("/", s.handleNotFound)

	return Chain(
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger),
		CORSMiddleware(s.origins),
	)(mux)
}

func (s *Server) reverseProxy() *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = s.StripPrefix(pr.In.URL.Path)
			pr.Out.URL.RawPath = ""
			// SetURL also rewrites the outgoing Host to the backend's.
			pr.SetURL(s.target)
			pr.SetXForwarded()
			s.logger.Printf("PROXY | proxying %s %s -> %s", pr.In.Method, pr.In.URL.Path, pr.Out.URL.String())
		},
		FlushInterval: 100 * time.Millisecond,
		ErrorHandler:  s.handleProxyError,
	}
}

// StripPrefix removes the proxy prefix from path. "/api" maps to "/".
func (s *Server) StripPrefix(path string) string {
	rest := strings.TrimPrefix(path, s.prefix)
	if rest == path {
		return path
	}
	if rest == "" {
		return "/"
	}
	return rest
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"prefix": s.prefix,
		"target": s.target.String(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"detail": fmt.Sprintf("no route for %s; API requests must start with %s", r.URL.Path, s.prefix),
	})
}

func (s *Server) handleProxyError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Printf("PROXY_ERROR | method=%s path=%s target=%s err=%v", r.Method, r.URL.Path, s.target, err)
	if errors.Is(err, context.Canceled) {
		// Client went away; nobody is left to read a response.
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{
		"detail": fmt.Sprintf("backend unavailable at %s: %v", s.target, err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start listens on Addr and blocks until the server stops.
// http.ErrServerClosed is returned after Shutdown.
func (s *Server) Start() error {
	return s.listen(s.newHTTPServer())
}

// Run starts the server and shuts it down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := s.newHTTPServer()
	errCh := make(chan error, 1)
	go func() { errCh <- s.listen(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) newHTTPServer() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.server
}

func (s *Server) listen(srv *http.Server) error {
	s.logger.Printf("PROXY_START | addr=%s prefix=%s target=%s", s.addr, s.prefix, s.target)
	return srv.ListenAndServe()
}

// Shutdown gracefully stops a running server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Printf("PROXY_SHUTDOWN | starting graceful shutdown")
	return srv.Shutdown(ctx)
}
