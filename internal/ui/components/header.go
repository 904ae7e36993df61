// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
)

// Brand is the product name shown at the left of every header.
const Brand = "Vibe Coder AI"

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the single-line bar at the top of each screen.
type Header struct {
	Title    string
	Subtitle string
	Right    string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// View renders brand, title and subtitle on the left and Right on the right.
func (h *Header) View() string {
	left := []string{h.theme.HeaderBrand.Render(Brand)}
	if h.Title != "" {
		left = append(left, h.theme.HeaderTitle.Render(h.Title))
	}
	if h.Subtitle != "" {
		left = append(left, h.theme.HeaderSubtitle.Render(h.Subtitle))
	}
	leftStr := strings.Join(left, h.theme.Muted.Render(" / "))
	rightStr := h.theme.Muted.Render(h.Right)

	inner := h.Width - h.theme.Header.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(leftStr) - lipgloss.Width(rightStr)
	if gap < 1 {
		// Too narrow for both halves.
		return h.theme.Header.Width(h.Width).MaxWidth(h.Width).Render(leftStr)
	}
	return h.theme.Header.Width(h.Width).Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}
