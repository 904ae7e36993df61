// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-memory api.Gateway for tests.
package apitest

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jeranaias/vibecoder-tui/internal/api"
	"github.com/jeranaias/vibecoder-tui/internal/model"
)

// ChatFunc produces the reply to a chat submission.
type ChatFunc func(req model.ChatRequest) ([]model.Message, error)

// Fake is a thread-safe in-memory backend.
type Fake struct {
	mu       sync.Mutex
	nextID   int64
	projects []model.Project
	messages map[int64][]model.Message
	requests []model.ChatRequest

	// Chat, when set, replaces the default echo reply.
	Chat ChatFunc

	// Err, when set, is returned by every call.
	Err error

	// Block, when set, is waited on by SubmitChat before replying.
	Block chan struct{}
}

var _ api.Gateway = (*Fake)(nil)

// NewFake returns an empty fake backend.
func NewFake() *Fake {
	return &Fake{messages: make(map[int64][]model.Message)}
}

func (f *Fake) id() int64 {
	f.nextID++
	return f.nextID
}

// AddProject stores a project and returns it with an assigned ID.
func (f *Fake) AddProject(name, language string) model.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	p := model.Project{ID: f.id(), UserID: "test_user", Name: name, Language: language, CreatedAt: now, UpdatedAt: now}
	f.projects = append(f.projects, p)
	return p
}

// AddMessage appends a message to a project's history.
func (f *Fake) AddMessage(projectID int64, role model.Role, content string) model.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := model.Message{ID: f.id(), ProjectID: projectID, Role: role, Content: content, CreatedAt: time.Now().UTC()}
	f.messages[projectID] = append(f.messages[projectID], m)
	return m
}

// Requests returns the chat requests received so far.
func (f *Fake) Requests() []model.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ChatRequest(nil), f.requests...)
}

func notFound(path string) error {
	return &api.APIError{Method: http.MethodGet, Path: path, StatusCode: http.StatusNotFound, Detail: "Project not found"}
}

// CreateProject implements api.Gateway.
func (f *Fake) CreateProject(_ context.Context, req model.ProjectCreate) (model.Project, error) {
	if f.Err != nil {
		return model.Project{}, f.Err
	}
	if err := req.Validate(); err != nil {
		return model.Project{}, err
	}
	return f.AddProject(req.Name, req.Language), nil
}

// ListProjects implements api.Gateway.
func (f *Fake) ListProjects(context.Context) ([]model.Project, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Project{}, f.projects...), nil
}

// GetProject implements api.Gateway.
func (f *Fake) GetProject(_ context.Context, id int64) (model.Project, error) {
	if f.Err != nil {
		return model.Project{}, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Project{}, notFound("/projects/" + strconv.FormatInt(id, 10))
}

// ListMessages implements api.Gateway.
func (f *Fake) ListMessages(_ context.Context, projectID int64) ([]model.Message, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Message{}, f.messages[projectID]...), nil
}

// SubmitChat implements api.Gateway. Without a Chat func it replies with a
// single assistant message echoing the input.
func (f *Fake) SubmitChat(ctx context.Context, req model.ChatRequest) ([]model.Message, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Chat != nil {
		return f.Chat(req)
	}

	f.AddMessage(req.ProjectID, model.RoleUser, req.MessageContent)
	reply := f.AddMessage(req.ProjectID, model.RoleAssistant, "echo: "+req.MessageContent)
	return []model.Message{reply}, nil
}
