// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vibecoder-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL).WithLogging(false)
}

// =============================================================================
// PROJECT TESTS
// =============================================================================

func TestCreateProject(t *testing.T) {
	var got model.ProjectCreate
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":1,"user_id":"default_user","project_name":"Demo","programming_language":"python",
			"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"}`)
	})

	p, err := client.CreateProject(context.Background(), model.ProjectCreate{Name: "Demo", Language: "python"})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectCreate{Name: "Demo", Language: "python"}, got)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Demo", p.Name)
	assert.Equal(t, "python", p.Language)
}

func TestCreateProject_ValidatesBeforeRequest(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := client.CreateProject(context.Background(), model.ProjectCreate{Name: "  ", Language: "python"})
	assert.ErrorIs(t, err, model.ErrInvalidProject)
	assert.Zero(t, calls.Load(), "no request should be sent for invalid input")
}

func TestListProjects_EmptyIsNotNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestGetProject_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/999", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"Project not found"}`)
	})

	_, err := client.GetProject(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Project not found", apiErr.Detail)
}

func TestGetProject_InvalidID(t *testing.T) {
	client := NewClient("http://127.0.0.1:1").WithLogging(false)
	_, err := client.GetProject(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidProjectID)
}

func TestListMessages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/3/messages/", r.URL.Path)
		io.WriteString(w, `[
			{"id":1,"project_id":3,"role":"user","content":"hi","created_at":"2024-05-01T10:00:00Z"},
			{"id":2,"project_id":3,"role":"assistant","content":"hello","created_at":"2024-05-01T10:00:01Z"}
		]`)
	})

	msgs, err := client.ListMessages(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestSubmitChat_Array(t *testing.T) {
	var req model.ChatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/", r.URL.Path)
		assert.Equal(t, ChatContractVersion, r.Header.Get(ChatContractHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		io.WriteString(w, `[
			{"id":10,"project_id":1,"role":"assistant","content":"a","created_at":"2024-05-01T10:00:00Z"},
			{"id":11,"project_id":1,"role":"analysis","content":"b","created_at":"2024-05-01T10:00:01Z"}
		]`)
	})

	msgs, err := client.SubmitChat(context.Background(), model.ChatRequest{
		ProjectID:      1,
		UserID:         "u",
		MessageContent: "go",
		Action:         model.ActionGenerateCode,
		Language:       "python",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(10), msgs[0].ID)
	assert.Equal(t, int64(11), msgs[1].ID)
	assert.NotNil(t, req.History, "history must be sent as an array")
	assert.Equal(t, model.ActionGenerateCode, req.Action)
}

func TestSubmitChat_SingleObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":5,"project_id":1,"role":"summary","content":"s","created_at":"2024-05-01T10:00:00Z"}`)
	})
	msgs, err := client.SubmitChat(context.Background(), model.ChatRequest{ProjectID: 1})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleSummary, msgs[0].Role)
}

func TestSubmitChat_BadRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"Invalid action specified."}`)
	})
	_, err := client.SubmitChat(context.Background(), model.ChatRequest{ProjectID: 1})
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Invalid action specified.")
}

func TestSubmitChat_ValidationDetailList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":[{"loc":["body","action"],"msg":"field required"}]}`)
	})
	_, err := client.SubmitChat(context.Background(), model.ChatRequest{ProjectID: 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Detail, "field required")
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url).WithLogging(false).WithTimeout(2 * time.Second)
	_, err := client.ListProjects(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_PlainTextError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})
	_, err := client.ListProjects(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream exploded", apiErr.Detail)
}

func TestClient_BaseURLWithPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/api/"), r.URL.Path)
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api/").WithLogging(false)
	assert.Equal(t, server.URL+"/api", client.BaseURL())
	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
}
