// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root bubbletea model. It owns the current route and
// switches between the project list and project screens.
package app

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vibecoder-tui/internal/api"
	"github.com/jeranaias/vibecoder-tui/internal/config"
	"github.com/jeranaias/vibecoder-tui/internal/router"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/ui/chat"
	"github.com/jeranaias/vibecoder-tui/internal/ui/projects"
	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
)

// Model is the navigation shell.
type Model struct {
	cfg   *config.Config
	gw    api.Gateway
	theme *styles.Theme

	route    router.Route
	projects projects.Model
	chat     chat.Model

	width  int
	height int
}

// New creates the shell starting at route start.
func New(cfg *config.Config, gw api.Gateway, start router.Route) Model {
	theme := styles.NewTheme(cfg.UI.Theme)
	m := Model{
		cfg:      cfg,
		gw:       gw,
		theme:    theme,
		route:    start,
		projects: projects.New(theme, session.NewProjectList(gw)),
		width:    100,
		height:   30,
	}
	if start.Kind == router.KindProject {
		m.chat = m.newChat(start.ProjectID)
	}
	return m
}

func (m Model) newChat(id int64) chat.Model {
	view := session.NewProjectView(m.gw, id, m.cfg.Backend.UserID)
	c := chat.New(m.theme, view, chat.Options{
		CodeStyle:      m.cfg.UI.CodeStyle,
		ShowTimestamps: m.cfg.UI.ShowTimestamps,
		RenderMarkdown: m.cfg.UI.RenderMarkdown,
		WorkspaceDir:   m.cfg.Workspace.Dir,
		Watch:          m.cfg.Workspace.Watch,
	})
	c.SetSize(m.width, m.height)
	return c
}

// Route returns the current route.
func (m Model) Route() router.Route { return m.route }

// Init starts the screen of the initial route.
func (m Model) Init() tea.Cmd {
	if m.route.Kind == router.KindProject {
		return m.chat.Init()
	}
	return m.projects.Init()
}

// Update handles navigation and forwards everything else to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.closeChat()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.projects.SetSize(msg.Width, msg.Height)
		if m.route.Kind == router.KindProject {
			m.chat.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case projects.OpenProjectMsg:
		return m.navigate(router.Project(msg.ID))

	case chat.BackMsg:
		return m.navigate(router.Home)
	}

	var cmd tea.Cmd
	if m.route.Kind == router.KindProject {
		m.chat, cmd = m.chat.Update(msg)
	} else {
		m.projects, cmd = m.projects.Update(msg)
	}
	return m, cmd
}

func (m Model) navigate(to router.Route) (Model, tea.Cmd) {
	log.Printf("NAVIGATE | from=%s to=%s", m.route, to)
	if m.route.Kind == router.KindProject {
		m.closeChat()
	}
	m.route = to

	if to.Kind == router.KindProject {
		m.chat = m.newChat(to.ProjectID)
		return m, m.chat.Init()
	}
	// The list is fetched again on every visit.
	return m, m.projects.Init()
}

func (m Model) closeChat() {
	if m.route.Kind != router.KindProject {
		return
	}
	if err := m.chat.Close(); err != nil {
		log.Printf("WORKSPACE_CLOSE_FAILED | err=%v", err)
	}
}

// View renders the active screen.
func (m Model) View() string {
	if m.route.Kind == router.KindProject {
		return m.chat.View()
	}
	return m.projects.View()
}

// Run starts the full-screen program at start and blocks until it exits.
func Run(cfg *config.Config, gw api.Gateway, start router.Route) error {
	p := tea.NewProgram(New(cfg, gw, start), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
