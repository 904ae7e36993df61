// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vibecoder-tui/internal/api/apitest"
	"github.com/jeranaias/vibecoder-tui/internal/model"
)

func TestProjectList_RefreshAndCreate(t *testing.T) {
	fake := apitest.NewFake()
	fake.AddProject("Existing", "go")

	l := NewProjectList(fake)
	require.NoError(t, l.Refresh(context.Background()))
	assert.True(t, l.Loaded())
	require.Len(t, l.Projects(), 1)

	p, err := l.Create(context.Background(), "Demo", "python")
	require.NoError(t, err)
	assert.Equal(t, "Demo", p.Name)

	projects := l.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "Demo", projects[1].Name, "created project is appended")
}

func TestProjectList_CreateValidation(t *testing.T) {
	fake := apitest.NewFake()
	l := NewProjectList(fake)

	_, err := l.Create(context.Background(), "", "python")
	assert.ErrorIs(t, err, model.ErrInvalidProject)
	assert.Empty(t, l.Projects())
	assert.ErrorIs(t, l.Err(), model.ErrInvalidProject)

	projects, _ := fake.ListProjects(context.Background())
	assert.Empty(t, projects, "nothing reaches the backend")
}

func TestProjectList_CreateFailureLeavesList(t *testing.T) {
	fake := apitest.NewFake()
	fake.AddProject("Existing", "go")
	l := NewProjectList(fake)
	require.NoError(t, l.Refresh(context.Background()))

	fake.Err = errors.New("down")
	_, err := l.Create(context.Background(), "Demo", "python")
	require.Error(t, err)
	assert.Len(t, l.Projects(), 1)
}

func TestProjectList_RefreshError(t *testing.T) {
	fake := apitest.NewFake()
	fake.Err = errors.New("down")
	l := NewProjectList(fake)
	assert.Error(t, l.Refresh(context.Background()))
	assert.False(t, l.Loaded())
	assert.Error(t, l.Err())
}
