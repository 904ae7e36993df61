// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/jeranaias/vibecoder-tui/internal/api"
	"github.com/jeranaias/vibecoder-tui/internal/model"
)

// ProjectList is the state behind the / screen.
type ProjectList struct {
	gw api.Gateway

	mu       sync.Mutex
	projects []model.Project
	loaded   bool
	err      error
}

// NewProjectList creates an empty list backed by gw.
func NewProjectList(gw api.Gateway) *ProjectList {
	return &ProjectList{gw: gw}
}

// Refresh replaces the list with the backend's, in server order.
func (l *ProjectList) Refresh(ctx context.Context) error {
	projects, err := l.gw.ListProjects(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = fmt.Errorf("failed to load projects: %w", err)
		return l.err
	}
	l.projects = projects
	l.loaded = true
	l.err = nil
	return nil
}

// Create validates and creates a project, appending it to the local list.
// On any failure the list is unchanged.
func (l *ProjectList) Create(ctx context.Context, name, language string) (model.Project, error) {
	req, err := model.NewProjectCreate(name, language)
	if err != nil {
		l.setErr(err)
		return model.Project{}, err
	}

	p, err := l.gw.CreateProject(ctx, req)
	if err != nil {
		err = fmt.Errorf("failed to create project: %w", err)
		l.setErr(err)
		return model.Project{}, err
	}

	l.mu.Lock()
	l.projects = append(l.projects, p)
	l.err = nil
	l.mu.Unlock()
	return p, nil
}

func (l *ProjectList) setErr(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

// Projects returns a copy of the list.
func (l *ProjectList) Projects() []model.Project {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Project(nil), l.projects...)
}

// Loaded reports whether Refresh has succeeded at least once.
func (l *ProjectList) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Err returns the last error from Refresh or Create.
func (l *ProjectList) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
