// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the vibecoder TUI.

All colors use Lip Gloss AdaptiveColor so they follow the terminal's light or
dark background. The palette (colors.go) assigns one hue per message role:

	User      - blue bubble, right aligned
	Assistant - violet bubble
	Analysis  - emerald bubble
	Summary   - amber bubble

Theme (theme.go) bundles the prepared lipgloss styles. It is built once per
program from the configured mode:

	theme := styles.NewTheme(cfg.UI.Theme) // "auto", "dark" or "light"
	bubble := theme.Bubble(model.RoleAnalysis)
*/
package styles
