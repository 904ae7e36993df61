// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package projects

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vibecoder-tui/internal/api/apitest"
	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
)

var theme = styles.NewTheme(styles.ModeDark)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model whose first Refresh has completed.
func loaded(t *testing.T, fake *apitest.Fake) Model {
	t.Helper()
	m := New(theme, session.NewProjectList(fake))
	msg := m.refresh()()
	m, _ = m.Update(msg)
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestLoad_ListsProjects(t *testing.T) {
	fake := apitest.NewFake()
	fake.AddProject("Todo", "python")
	fake.AddProject("Chess", "go")

	m := loaded(t, fake)
	assert.False(t, m.loading)
	assert.NoError(t, m.loadErr)

	view := m.View()
	assert.Contains(t, view, "Todo")
	assert.Contains(t, view, "Chess")
	assert.Contains(t, view, "Create New Project")
}

func TestLoad_Error(t *testing.T) {
	fake := apitest.NewFake()
	fake.Err = errors.New("connection refused")

	m := loaded(t, fake)
	require.Error(t, m.loadErr)
	assert.Contains(t, m.View(), "Press r to retry")

	// Navigation is disabled on the error screen.
	m, cmd := m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
}

func TestEmptyList(t *testing.T) {
	m := loaded(t, apitest.NewFake())
	assert.Contains(t, m.View(), "No projects yet")
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestNavigateAndOpen(t *testing.T) {
	fake := apitest.NewFake()
	fake.AddProject("A", "python")
	b := fake.AddProject("B", "java")

	m := loaded(t, fake)
	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("down"))
	assert.Equal(t, 1, m.Cursor(), "cursor stops at the last project")

	m, _ = m.Update(keyMsg("up"))
	m, _ = m.Update(keyMsg("j"))

	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, OpenProjectMsg{ID: b.ID}, cmd())
}

func TestCreateProject(t *testing.T) {
	fake := apitest.NewFake()
	fake.AddProject("Existing", "python")
	m := loaded(t, fake)

	m, _ = m.Update(keyMsg("n"))
	assert.Equal(t, FocusName, m.Focus())

	// Letters that are bindings elsewhere go into the name field.
	m = typeText(m, "jolly quest")
	assert.Equal(t, "jolly quest", m.name.Value())

	m, _ = m.Update(keyMsg("tab"))
	assert.Equal(t, FocusLanguage, m.Focus())
	m, _ = m.Update(keyMsg("right"))
	assert.Equal(t, "javascript", m.Language())
	m, _ = m.Update(keyMsg("left"))
	m, _ = m.Update(keyMsg("left"))
	assert.Equal(t, "go", m.Language(), "language selection wraps around")

	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.creating)

	m, _ = m.Update(m.create()())
	assert.False(t, m.creating)
	assert.NoError(t, m.formErr)

	ps := m.list.Projects()
	require.Len(t, ps, 2)
	assert.Equal(t, "jolly quest", ps[1].Name)
	assert.Equal(t, "go", ps[1].Language)
	assert.Equal(t, 1, m.Cursor(), "new project is selected")
	assert.Equal(t, "", m.name.Value(), "form is reset")
	assert.Equal(t, model.DefaultLanguage, m.Language())
}

func TestCreateProject_BlankNameNeverSends(t *testing.T) {
	fake := apitest.NewFake()
	m := loaded(t, fake)

	m, _ = m.Update(keyMsg("n"))
	m = typeText(m, "   ")
	m, cmd := m.Update(keyMsg("enter"))

	assert.Nil(t, cmd)
	assert.ErrorIs(t, m.formErr, model.ErrInvalidProject)
	assert.Empty(t, m.list.Projects())
}

func TestCreateProject_BackendFailureKeepsForm(t *testing.T) {
	fake := apitest.NewFake()
	m := loaded(t, fake)

	m, _ = m.Update(keyMsg("n"))
	m = typeText(m, "Broken")
	m, _ = m.Update(keyMsg("enter"))

	fake.Err = errors.New("boom")
	m, _ = m.Update(m.create()())

	assert.Error(t, m.formErr)
	assert.Equal(t, "Broken", m.name.Value())
	assert.Empty(t, m.list.Projects())
}

func TestEscLeavesForm(t *testing.T) {
	m := loaded(t, apitest.NewFake())
	m, _ = m.Update(keyMsg("n"))
	m, _ = m.Update(keyMsg("esc"))
	assert.Equal(t, FocusList, m.Focus())
}
