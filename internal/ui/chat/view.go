// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vibecoder-tui/internal/router"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/ui/components"
)

const (
	headerHeight    = 1
	statusBarHeight = 1
	paneChrome      = 3 // border top/bottom + title line
	minBodyHeight   = 5
)

// currentErr is the recoverable error shown in the banner.
func (m Model) currentErr() error {
	if m.localErr != nil {
		return m.localErr
	}
	return m.view.Chat.Err()
}

// layout sizes the widgets from the terminal size and the banner height.
func (m *Model) layout() {
	bannerHeight := 0
	if err := m.currentErr(); err != nil {
		bannerHeight = lipgloss.Height(components.ErrorBanner(m.theme, err, m.width))
	}
	inputHeight := m.input.Height() + 2

	bodyHeight := m.height - headerHeight - statusBarHeight - bannerHeight - inputHeight
	if bodyHeight < minBodyHeight {
		bodyHeight = minBodyHeight
	}

	chatWidth := m.width * 3 / 5
	editorWidth := m.width - chatWidth

	m.viewport.Width = max(chatWidth-2, 10)
	m.viewport.Height = max(bodyHeight-paneChrome, 1)

	m.editor.SetWidth(max(editorWidth-2, 10))
	m.editor.SetHeight(max(bodyHeight-paneChrome, 1))
	m.code.Width = max(editorWidth-2, 10)
	m.code.Height = max(bodyHeight-paneChrome, 1)

	m.input.SetWidth(max(m.width-2, 10))
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen.
func (m Model) View() string {
	header := components.NewHeader(m.theme)
	header.Width = m.width
	header.Right = router.Project(m.view.ID()).Path()

	switch m.view.State() {
	case session.StateIdle, session.StateLoadingProject, session.StateLoadingMessages:
		header.Title = "Project #" + strconv.FormatInt(m.view.ID(), 10)
		return lipgloss.JoinVertical(lipgloss.Left,
			header.View(),
			"",
			"  "+m.spinner.View()+" Loading project...",
		)
	case session.StateFailed:
		header.Title = "Project #" + strconv.FormatInt(m.view.ID(), 10)
		return lipgloss.JoinVertical(lipgloss.Left,
			header.View(),
			"",
			components.ErrorBanner(m.theme, m.view.Err(), m.width),
			"",
			m.theme.Muted.Render("  Press esc to return to your projects."),
		)
	}

	p := m.view.Project()
	header.Title = p.Name
	header.Subtitle = p.Language

	parts := []string{header.View()}
	if err := m.currentErr(); err != nil {
		parts = append(parts, components.ErrorBanner(m.theme, err, m.width))
	}
	parts = append(parts,
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderChatPane(), m.renderEditorPane()),
		m.renderInput(),
		m.renderStatusBar(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) paneStyle(p Pane) lipgloss.Style {
	if m.focus == p {
		return m.theme.PaneFocused
	}
	return m.theme.Pane
}

func (m Model) renderChatPane() string {
	title := m.theme.PaneTitle.Render("Chat")
	if pct := m.viewport.ScrollPercent(); !m.viewport.AtBottom() {
		title += m.theme.Muted.Render(" " + strconv.Itoa(int(pct*100)) + "%")
	}
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View())
	return m.paneStyle(PaneChat).Width(m.viewport.Width).Render(content)
}

func (m Model) renderEditorPane() string {
	title := m.theme.PaneTitle.Render("Editor ") + m.code.Badge()

	var body string
	if m.focus == PaneEditor {
		body = m.editor.View()
	} else {
		body = lipgloss.NewStyle().Height(m.code.Height).Render(m.code.View())
	}
	content := lipgloss.JoinVertical(lipgloss.Left, title, body)
	return m.paneStyle(PaneEditor).Width(m.code.Width).Render(content)
}

func (m Model) renderInput() string {
	return m.paneStyle(PaneInput).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	bar := components.NewStatusBar(m.theme)
	bar.Width = m.width
	bar.Shortcuts = m.keys.Hints()

	snap := m.view.Chat.Snapshot()
	switch {
	case snap.Busy:
		bar.Status = m.spinner.View() + " Thinking (" + snap.Action.Label() + ")"
	case m.notice != "":
		bar.Status = m.notice
	default:
		bar.Status = strconv.Itoa(len(snap.Messages)) + " messages"
	}
	return bar.View()
}
