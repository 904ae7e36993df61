// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vibecoder-tui/internal/codeblock"
	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
)

// =============================================================================
// CODE VIEW
// =============================================================================

// CodeView renders the editor buffer read-only with syntax highlighting and
// line numbers. Scroll is the first visible line.
type CodeView struct {
	Code     string
	Language string
	Style    string
	Width    int
	Height   int
	Scroll   int
	theme    *styles.Theme
}

// NewCodeView creates a code view for language using the chroma style name.
func NewCodeView(theme *styles.Theme, language, style string) *CodeView {
	return &CodeView{Language: language, Style: style, Width: 60, Height: 20, theme: theme}
}

// LineCount returns the number of lines in the buffer.
func (c *CodeView) LineCount() int {
	if c.Code == "" {
		return 0
	}
	return strings.Count(c.Code, "\n") + 1
}

// View renders the visible window of the buffer.
func (c *CodeView) View() string {
	if strings.TrimSpace(c.Code) == "" {
		return c.theme.Muted.Render("Generated code will appear here.")
	}

	lines := strings.Split(codeblock.Highlight(c.Code, c.Language, c.Style), "\n")
	// chroma can add a trailing newline.
	if len(lines) > c.LineCount() {
		lines = lines[:c.LineCount()]
	}

	start := c.Scroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	if start < 0 {
		start = 0
	}
	end := len(lines)
	if c.Height > 0 && start+c.Height < end {
		end = start + c.Height
	}

	gutter := len(strconv.Itoa(len(lines)))
	numStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(gutter).
		Align(lipgloss.Right).
		MarginRight(1)
	clip := lipgloss.NewStyle().MaxWidth(max(c.Width-gutter-1, 1))

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, numStyle.Render(strconv.Itoa(i+1))+clip.Render(lines[i]))
	}
	return strings.Join(out, "\n")
}

// Badge renders the language label shown in the editor pane title.
func (c *CodeView) Badge() string {
	lang := c.Language
	if lang == "" {
		lang = "text"
	}
	return c.theme.CodeLang.Render(lang)
}
