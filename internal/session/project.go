// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jeranaias/vibecoder-tui/internal/api"
	"github.com/jeranaias/vibecoder-tui/internal/model"
)

// ErrInvalidProjectID is returned when a project view is opened with an ID
// that cannot name a project.
var ErrInvalidProjectID = errors.New("invalid project ID")

// ErrProjectNotFound is the terminal state of a view whose project is gone.
var ErrProjectNotFound = errors.New("project not found")

// LoadState is the lifecycle of a project view.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoadingProject
	StateLoadingMessages
	StateReady
	StateFailed
)

// String returns a readable state name.
func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingProject:
		return "loading project"
	case StateLoadingMessages:
		return "loading messages"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProjectView is the state behind a /project/:id screen.
type ProjectView struct {
	gw     api.Gateway
	id     int64
	userID string

	mu      sync.Mutex
	state   LoadState
	project model.Project
	err     error

	// Chat is usable once the view is ready.
	Chat *Chat
}

// NewProjectView creates a view for project id. Nothing is fetched until Load.
func NewProjectView(gw api.Gateway, id int64, userID string) *ProjectView {
	return &ProjectView{
		gw:     gw,
		id:     id,
		userID: userID,
		Chat:   NewChat(model.Project{ID: id}, userID),
	}
}

// ID returns the project ID the view was opened for.
func (v *ProjectView) ID() int64 {
	return v.id
}

// State returns the current load state.
func (v *ProjectView) State() LoadState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Project returns the loaded project.
func (v *ProjectView) Project() model.Project {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.project
}

// Err returns the terminal load error, if any.
func (v *ProjectView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *ProjectView) setState(s LoadState) {
	v.mu.Lock()
	v.state = s
	v.mu.Unlock()
}

func (v *ProjectView) fail(err error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = StateFailed
	v.err = err
	return err
}

// Load fetches the project and then its history. Any failure is terminal for
// the view; a missing project wraps ErrProjectNotFound.
func (v *ProjectView) Load(ctx context.Context) error {
	if v.id <= 0 {
		return v.fail(ErrInvalidProjectID)
	}

	v.setState(StateLoadingProject)
	p, err := v.gw.GetProject(ctx, v.id)
	if err != nil {
		if api.IsNotFound(err) {
			return v.fail(fmt.Errorf("%w: %d", ErrProjectNotFound, v.id))
		}
		return v.fail(fmt.Errorf("failed to load project: %w", err))
	}

	v.mu.Lock()
	v.project = p
	v.state = StateLoadingMessages
	v.mu.Unlock()
	v.Chat.SetProject(p)

	msgs, err := v.gw.ListMessages(ctx, v.id)
	if err != nil {
		return v.fail(fmt.Errorf("failed to load messages: %w", err))
	}
	v.Chat.LoadHistory(msgs)

	v.setState(StateReady)
	return nil
}

// Submit sends a ticket's request. It does not touch chat state.
func (v *ProjectView) Submit(ctx context.Context, t *Ticket) ([]model.Message, error) {
	return v.gw.SubmitChat(ctx, t.Request)
}

// Complete settles t with the outcome of Submit.
func (v *ProjectView) Complete(t *Ticket, replies []model.Message, err error) error {
	if err != nil {
		return v.Chat.Reject(t, err)
	}
	return v.Chat.Resolve(t, replies)
}

// Send submits text with action and waits for the reply. It returns the
// backend's messages, or the submission error after the chat has been
// rolled back.
func (v *ProjectView) Send(ctx context.Context, text string, action model.ChatAction) ([]model.Message, error) {
	if v.State() != StateReady {
		return nil, fmt.Errorf("project view is %s", v.State())
	}
	if v.Chat.Busy() {
		return nil, ErrBusy
	}
	v.Chat.SetInput(text)
	t, err := v.Chat.Begin(action)
	if err != nil {
		return nil, err
	}
	replies, err := v.Submit(ctx, t)
	if cerr := v.Complete(t, replies, err); cerr != nil {
		return nil, cerr
	}
	if err != nil {
		return nil, err
	}
	return replies, nil
}
