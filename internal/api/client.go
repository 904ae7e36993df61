// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/vibecoder-tui/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is where the backend listens in development.
	DefaultBaseURL = "http://localhost:8000"

	// ChatContractVersion is advertised on chat submissions.
	ChatContractVersion = "2"

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// RequestIDHeader carries a per-request correlation ID.
	RequestIDHeader = "X-Request-ID"

	// ChatContractHeader tells the backend which chat response shape we expect.
	ChatContractHeader = "X-Chat-Contract"
)

// Error variables for common backend failures.
var (
	// ErrNotFound indicates the backend answered 404.
	ErrNotFound = errors.New("not found")

	// ErrEmptyResponse indicates a chat submission returned no messages.
	ErrEmptyResponse = errors.New("chat response contained no messages")

	// ErrBadResponse indicates a 2xx body that could not be decoded.
	ErrBadResponse = errors.New("unexpected response body")

	// ErrInvalidProjectID indicates a non-positive project ID.
	ErrInvalidProjectID = errors.New("invalid project id")
)

// Gateway is the set of backend operations used by the client.
type Gateway interface {
	CreateProject(ctx context.Context, req model.ProjectCreate) (model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int64) (model.Project, error)
	ListMessages(ctx context.Context, projectID int64) ([]model.Message, error)
	SubmitChat(ctx context.Context, req model.ChatRequest) ([]model.Message, error)
}

// APIError represents a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// Is makes errors.Is(err, ErrNotFound) true for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// errorBody is FastAPI's error envelope; detail is a string or a list of
// validation errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logEnabled bool
}

var _ Gateway = (*Client)(nil)

// NewClient creates a client for the backend at baseURL. A path prefix such
// as "/api" may be included when going through the development proxy.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  "vibecoder-tui",
		logEnabled: true,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the per-request timeout. Zero means no timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithUserAgent sets the User-Agent header sent on every request.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// WithLogging toggles request/response log lines.
func (c *Client) WithLogging(enabled bool) *Client {
	c.logEnabled = enabled
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// LOGGING
// =============================================================================

func (c *Client) logRequest(req *http.Request) {
	if c.logEnabled {
		log.Printf("API Request: %s %s id=%s", req.Method, req.URL.Path, req.Header.Get(RequestIDHeader))
	}
}

func (c *Client) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	if c.logEnabled {
		log.Printf("API Response: %s %s %d (%v)", req.Method, req.URL.Path, resp.StatusCode, duration.Round(time.Millisecond))
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// CreateProject creates a project. Input is validated before any request.
func (c *Client) CreateProject(ctx context.Context, req model.ProjectCreate) (model.Project, error) {
	if err := req.Validate(); err != nil {
		return model.Project{}, err
	}
	var p model.Project
	if err := c.do(ctx, http.MethodPost, "/projects/", req, &p); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// ListProjects returns all projects in server order.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "/projects/", nil, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

// GetProject fetches one project. A missing project yields an error for
// which IsNotFound is true.
func (c *Client) GetProject(ctx context.Context, id int64) (model.Project, error) {
	if id <= 0 {
		return model.Project{}, ErrInvalidProjectID
	}
	var p model.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// ListMessages returns a project's chat history in chronological order.
func (c *Client) ListMessages(ctx context.Context, projectID int64) ([]model.Message, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	var msgs []model.Message
	path := "/projects/" + strconv.FormatInt(projectID, 10) + "/messages/"
	if err := c.do(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

// SubmitChat sends one chat turn and returns the messages it produced, in
// the order the backend listed them.
func (c *Client) SubmitChat(ctx context.Context, req model.ChatRequest) ([]model.Message, error) {
	if req.History == nil {
		req.History = []model.HistoryEntry{}
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/chat/", req, &raw); err != nil {
		return nil, err
	}
	return DecodeChatResponse(raw)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one request. in is JSON-encoded when non-nil; out receives the
// decoded 2xx body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, in != nil)
	if path == "/chat/" {
		req.Header.Set(ChatContractHeader, ChatContractVersion)
	}

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: request failed: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logResponse(req, resp, time.Since(start))

	data, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(method, path, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts a non-2xx response into an *APIError.
func handleErrorResponse(method, path string, statusCode int, body []byte) error {
	apiErr := &APIError{Method: method, Path: path, StatusCode: statusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 {
		var s string
		if json.Unmarshal(eb.Detail, &s) == nil {
			apiErr.Detail = s
		} else {
			apiErr.Detail = string(eb.Detail)
		}
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(body))
	if apiErr.Detail == "" {
		apiErr.Detail = http.StatusText(statusCode)
	}
	return apiErr
}
