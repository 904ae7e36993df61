// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vibecoder-tui/internal/api/apitest"
	"github.com/jeranaias/vibecoder-tui/internal/config"
	"github.com/jeranaias/vibecoder-tui/internal/router"
	"github.com/jeranaias/vibecoder-tui/internal/ui/chat"
	"github.com/jeranaias/vibecoder-tui/internal/ui/projects"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.UI.Theme = "dark"
	return cfg
}

func TestStartsAtRoute(t *testing.T) {
	fake := apitest.NewFake()

	m := New(testConfig(), fake, router.Home)
	assert.Equal(t, router.Home, m.Route())
	assert.NotNil(t, m.Init())

	m = New(testConfig(), fake, router.Project(3))
	assert.Equal(t, router.Project(3), m.Route())
	assert.Equal(t, int64(3), m.chat.ProjectID())
}

func TestNavigation(t *testing.T) {
	fake := apitest.NewFake()
	p := fake.AddProject("Todo", "python")

	var model tea.Model = New(testConfig(), fake, router.Home)

	model, cmd := model.Update(projects.OpenProjectMsg{ID: p.ID})
	require.NotNil(t, cmd)
	m := model.(Model)
	assert.Equal(t, router.Project(p.ID), m.Route())
	assert.Equal(t, p.ID, m.chat.ProjectID())

	model, cmd = m.Update(chat.BackMsg{})
	require.NotNil(t, cmd, "returning home reloads the list")
	assert.Equal(t, router.Home, model.(Model).Route())
}

func TestResizeAndQuit(t *testing.T) {
	var model tea.Model = New(testConfig(), apitest.NewFake(), router.Home)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 90, Height: 20})
	m := model.(Model)
	assert.Equal(t, 90, m.width)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewFollowsRoute(t *testing.T) {
	fake := apitest.NewFake()
	m := New(testConfig(), fake, router.Home)
	assert.Contains(t, m.View(), "Projects")

	m = New(testConfig(), fake, router.Project(9))
	assert.Contains(t, m.View(), "Loading project")
}
