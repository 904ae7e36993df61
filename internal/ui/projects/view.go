// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package projects

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/router"
	"github.com/jeranaias/vibecoder-tui/internal/ui/components"
	"github.com/jeranaias/vibecoder-tui/internal/util"
)

// View renders the screen.
func (m Model) View() string {
	header := components.NewHeader(m.theme)
	header.Width = m.width
	header.Title = "Projects"
	header.Right = router.Home.Path()

	status := components.NewStatusBar(m.theme)
	status.Width = m.width
	status.Status = m.statusText()
	if m.focus == FocusList {
		status.Shortcuts = m.keys.listHints()
	} else {
		status.Shortcuts = m.keys.formHints()
	}

	body := m.renderBody()
	bodyHeight := m.height - lipgloss.Height(header.View()) - lipgloss.Height(status.View())
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header.View(), body, status.View())
}

func (m Model) statusText() string {
	switch {
	case m.loading:
		return m.spinner.View() + " Loading projects..."
	case m.creating:
		return m.spinner.View() + " Creating project..."
	case m.loadErr != nil:
		return "Error"
	default:
		return fmt.Sprintf("%d projects", len(m.list.Projects()))
	}
}

func (m Model) renderBody() string {
	if m.loading && !m.list.Loaded() {
		return "\n  " + m.spinner.View() + " Loading projects..."
	}
	if m.loadErr != nil {
		return "\n" + components.ErrorBanner(m.theme, m.loadErr, m.width) +
			"\n\n" + m.theme.Muted.Render("  Press r to retry.")
	}

	var b strings.Builder
	b.WriteString(m.renderForm())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(m.theme.ListTitle.Render("Create New Project"))
	b.WriteString("\n")

	nameLabel := m.theme.FormLabel.Render("Name")
	b.WriteString(m.focusMark(FocusName) + nameLabel + m.name.View() + "\n")

	lang := m.theme.FormValue.Render("< " + m.language + " >")
	if m.focus != FocusLanguage {
		lang = m.theme.Muted.Render(m.language)
	}
	b.WriteString(m.focusMark(FocusLanguage) + m.theme.FormLabel.Render("Language") + lang + "\n")

	if m.formErr != nil {
		b.WriteString("\n" + components.ErrorBanner(m.theme, m.formErr, m.width) + "\n")
	}
	return b.String()
}

func (m Model) focusMark(f Focus) string {
	if m.focus == f {
		return m.theme.ShortcutKey.Render("> ")
	}
	return "  "
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(m.theme.ListTitle.Render("Existing Projects"))
	b.WriteString("\n")

	ps := m.list.Projects()
	if len(ps) == 0 {
		b.WriteString(m.theme.Muted.Render("  No projects yet. Create one above!"))
		return b.String()
	}

	// Keep the cursor inside a window that fits below the form.
	visible := m.height - 14
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(ps))

	nameWidth := max(m.width/2, 16)
	for i := start; i < end; i++ {
		b.WriteString(m.renderItem(ps[i], nameWidth, i == m.cursor && m.focus == FocusList))
		b.WriteString("\n")
	}
	if end < len(ps) {
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("  ... %d more", len(ps)-end)))
	}
	return b.String()
}

func (m Model) renderItem(p model.Project, nameWidth int, selected bool) string {
	name := util.PadRight(p.Name, nameWidth)
	meta := fmt.Sprintf("%-11s", p.Language)
	if !p.CreatedAt.IsZero() {
		meta += " created " + p.CreatedAt.Local().Format("Jan 2, 2006")
	}

	if selected {
		return m.theme.ListItemSelected.Render(name + " " + meta)
	}
	return m.theme.ListItem.Render(name) + " " + m.theme.ListMeta.Render(meta)
}
