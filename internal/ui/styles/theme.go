// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/vibecoder-tui/internal/model"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	AnalysisBubble  lipgloss.Style
	SummaryBubble   lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style
	PendingTag      lipgloss.Style

	// ==========================================================================
	// PANE STYLES
	// ==========================================================================

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	CodeLang    lipgloss.Style

	// ==========================================================================
	// PROJECT LIST STYLES
	// ==========================================================================

	ListTitle        lipgloss.Style
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListMeta         lipgloss.Style
	FormLabel        lipgloss.Style
	FormValue        lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
	Muted        lipgloss.Style

	// ==========================================================================
	// ERROR STYLES
	// ==========================================================================

	ErrorBanner  lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style
}

// NewTheme creates a theme for the given mode. Unknown modes behave like auto.
// Forcing dark or light also tells lipgloss which side of each AdaptiveColor to use.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// GlamourStyle returns the glamour standard style matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// Message bubbles
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	t.UserBubble = bubble.
		Foreground(UserBubbleFg).
		BorderForeground(UserBubbleBorder).
		MarginLeft(4)

	t.AssistantBubble = bubble.
		Foreground(AssistantBubbleFg).
		BorderForeground(AssistantBubbleBorder).
		MarginRight(4)

	t.AnalysisBubble = bubble.
		Foreground(AnalysisBubbleFg).
		BorderForeground(AnalysisBubbleBorder).
		MarginRight(4)

	t.SummaryBubble = bubble.
		Foreground(SummaryBubbleFg).
		BorderForeground(SummaryBubbleBorder).
		BorderStyle(lipgloss.DoubleBorder()).
		MarginRight(4)

	t.RoleLabel = lipgloss.NewStyle().Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.PendingTag = lipgloss.NewStyle().Foreground(Amber).Italic(true)

	// Panes
	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim)

	t.PaneFocused = t.Pane.BorderForeground(FocusRing)

	t.PaneTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.CodeLang = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)

	// Project list
	t.ListTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.ListItemSelected = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SelectionBg).
		Bold(true).
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Cyan)

	t.ListMeta = lipgloss.NewStyle().Foreground(TextMuted)
	t.FormLabel = lipgloss.NewStyle().Foreground(TextSecondary).Width(12)
	t.FormValue = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().Foreground(Purple)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)

	// Errors
	t.ErrorBanner = lipgloss.NewStyle().
		Background(RoseDeep).
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)
}

// Bubble returns the bubble style for a message role.
func (t *Theme) Bubble(role model.Role) lipgloss.Style {
	switch role {
	case model.RoleUser:
		return t.UserBubble
	case model.RoleAnalysis:
		return t.AnalysisBubble
	case model.RoleSummary:
		return t.SummaryBubble
	default:
		return t.AssistantBubble
	}
}

// RoleColor returns the accent color for a message role.
func RoleColor(role model.Role) lipgloss.AdaptiveColor {
	switch role {
	case model.RoleUser:
		return UserBubbleBorder
	case model.RoleAnalysis:
		return Emerald
	case model.RoleSummary:
		return Amber
	case model.RoleAssistant:
		return Purple
	default:
		return TextSecondary
	}
}
