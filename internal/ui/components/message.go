// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one chat message with a role header.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
	markdown      *Markdown
}

// NewMessageBubble creates a bubble for msg. md may be nil for plain text.
func NewMessageBubble(msg model.Message, theme *styles.Theme, md *Markdown) *MessageBubble {
	return &MessageBubble{
		Message:  msg,
		Width:    80,
		theme:    theme,
		markdown: md,
	}
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	style := b.theme.Bubble(b.Message.Role)

	// Border, padding and margin eat into the usable width.
	contentWidth := b.Width - style.GetHorizontalFrameSize()
	if contentWidth < 20 {
		contentWidth = 20
	}

	content := b.Message.Content
	if strings.TrimSpace(content) == "" {
		content = "..."
	}

	var body string
	if b.Message.Role == model.RoleUser {
		// User input is shown as typed.
		body = wordWrap(content, contentWidth)
	} else {
		body = b.markdown.Render(content, contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.header(style), style.Render(body))
}

func (b *MessageBubble) header(style lipgloss.Style) string {
	role := b.theme.RoleLabel.
		Foreground(styles.RoleColor(b.Message.Role)).
		Render(b.Message.Role.DisplayName())

	parts := []string{role}
	if b.Message.Pending {
		parts = append(parts, b.theme.PendingTag.Render("sending..."))
	} else if b.ShowTimestamp && !b.Message.CreatedAt.IsZero() {
		parts = append(parts, b.theme.Timestamp.Render(FormatTimestamp(b.Message.CreatedAt, time.Now())))
	}

	return lipgloss.NewStyle().MarginLeft(style.GetMarginLeft()).Render(strings.Join(parts, " "))
}

// FormatTimestamp formats t as "3:04 PM" when it falls on the same day as
// now, and "Jan 2 3:04 PM" otherwise.
func FormatTimestamp(t, now time.Time) string {
	t = t.Local()
	now = now.Local()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("3:04 PM")
	}
	return t.Format("Jan 2 3:04 PM")
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders a whole conversation for a viewport.
type MessageList struct {
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
	markdown      *Markdown
}

// NewMessageList creates a message list renderer.
func NewMessageList(theme *styles.Theme, md *Markdown) *MessageList {
	return &MessageList{Width: 80, theme: theme, markdown: md}
}

// View renders messages separated by blank lines. An empty conversation
// renders a short hint.
func (ml *MessageList) View(messages []model.Message) string {
	if len(messages) == 0 {
		return ml.theme.Muted.Render("No messages yet. Ask for some code to get started.")
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		b := NewMessageBubble(msg, ml.theme, ml.markdown)
		b.Width = ml.Width
		b.ShowTimestamp = ml.ShowTimestamp
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}
