// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package projects

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// OpenProjectMsg asks the shell to navigate to /project/:id.
type OpenProjectMsg struct {
	ID int64
}

type loadedMsg struct {
	err error
}

type createdMsg struct {
	project model.Project
	err     error
}

// =============================================================================
// MODEL
// =============================================================================

// Focus is the area of the screen receiving keys.
type Focus int

const (
	FocusList Focus = iota
	FocusName
	FocusLanguage
)

// Model is the bubbletea model of the project list screen.
type Model struct {
	theme *styles.Theme
	keys  KeyMap
	list  *session.ProjectList

	spinner  spinner.Model
	name     textinput.Model
	language string
	focus    Focus
	cursor   int

	loading  bool
	creating bool
	loadErr  error
	formErr  error

	width  int
	height int
}

// New creates the screen around list. Init starts the first load.
func New(theme *styles.Theme, list *session.ProjectList) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Project name"
	ti.CharLimit = 120
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	return Model{
		theme:    theme,
		keys:     DefaultKeyMap(),
		list:     list,
		spinner:  sp,
		name:     ti,
		language: model.DefaultLanguage,
		loading:  true,
		width:    80,
		height:   24,
	}
}

// Init loads the project list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

func (m Model) refresh() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		return loadedMsg{err: list.Refresh(context.Background())}
	}
}

func (m Model) create() tea.Cmd {
	list, name, lang := m.list, m.name.Value(), m.language
	return func() tea.Msg {
		p, err := list.Create(context.Background(), name, lang)
		return createdMsg{project: p, err: err}
	}
}

// Focus returns the focused area.
func (m Model) Focus() Focus { return m.focus }

// Cursor returns the index of the highlighted project.
func (m Model) Cursor() int { return m.cursor }

// Language returns the language selected in the creation form.
func (m Model) Language() string { return m.language }

// Selected returns the highlighted project.
func (m Model) Selected() (model.Project, bool) {
	ps := m.list.Projects()
	if m.cursor < 0 || m.cursor >= len(ps) {
		return model.Project{}, false
	}
	return ps[m.cursor], true
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.name.Width = max(width-20, 10)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err != nil {
			log.Printf("PROJECTS_LOAD_FAILED | err=%v", msg.err)
		}
		m.clampCursor()
		return m, nil

	case createdMsg:
		m.creating = false
		if msg.err != nil {
			m.formErr = msg.err
			return m, nil
		}
		m.formErr = nil
		m.name.Reset()
		m.language = model.DefaultLanguage
		m.cursor = len(m.list.Projects()) - 1
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.creating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == FocusName {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	switch m.focus {
	case FocusName:
		return m.handleNameKey(msg)
	case FocusLanguage:
		return m.handleLanguageKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.loadErr = nil
		return m, tea.Batch(m.spinner.Tick, m.refresh())

	case m.loadErr != nil:
		// Only refresh and quit are available on the error screen.
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list.Projects())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if p, ok := m.Selected(); ok {
			id := p.ID
			return m, func() tea.Msg { return OpenProjectMsg{ID: id} }
		}
	case key.Matches(msg, m.keys.New), key.Matches(msg, m.keys.Next):
		m.focus = FocusName
		return m, m.name.Focus()
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.blurForm(), nil
	case key.Matches(msg, m.keys.Next):
		m.focus = FocusLanguage
		m.name.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m.submit()
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m Model) handleLanguageKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.blurForm(), nil
	case key.Matches(msg, m.keys.Next):
		m.focus = FocusList
		return m, nil
	case key.Matches(msg, m.keys.NextLang), key.Matches(msg, m.keys.Down):
		m.language = model.NextLanguage(m.language, 1)
	case key.Matches(msg, m.keys.PrevLang), key.Matches(msg, m.keys.Up):
		m.language = model.NextLanguage(m.language, -1)
	case key.Matches(msg, m.keys.Open):
		return m.submit()
	}
	return m, nil
}

func (m Model) blurForm() Model {
	m.focus = FocusList
	m.name.Blur()
	m.formErr = nil
	return m
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.creating {
		return m, nil
	}
	// Validation runs before any request.
	if _, err := model.NewProjectCreate(m.name.Value(), m.language); err != nil {
		m.formErr = err
		return m, nil
	}
	m.formErr = nil
	m.creating = true
	return m, tea.Batch(m.spinner.Tick, m.create())
}

func (m *Model) clampCursor() {
	n := len(m.list.Projects())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
