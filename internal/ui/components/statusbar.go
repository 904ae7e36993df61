// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
)

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: a status on the left, key hints on the right.
// Hints are dropped from the end until they fit.
type StatusBar struct {
	Status    string
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the bar.
func (s *StatusBar) View() string {
	inner := s.Width - s.theme.StatusBar.GetHorizontalFrameSize()
	status := s.Status

	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}

	right := strings.Join(hints, "  ")
	for len(hints) > 0 && lipgloss.Width(status)+1+lipgloss.Width(right) > inner {
		hints = hints[:len(hints)-1]
		right = strings.Join(hints, "  ")
	}

	gap := inner - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.Width).MaxWidth(s.Width).
		Render(status + strings.Repeat(" ", gap) + right)
}
