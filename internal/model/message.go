// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the producer of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleAnalysis  Role = "analysis"
	RoleSummary   Role = "summary"
)

var titleCaser = cases.Title(language.English)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the title-cased role ("Assistant", "Analysis", ...).
func (r Role) DisplayName() string {
	if r == "" {
		return "Unknown"
	}
	return titleCaser.String(string(r))
}

// IsValid reports whether r is one of the roles the backend produces.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleAnalysis, RoleSummary:
		return true
	}
	return false
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// LocalIDPrefix marks identifiers minted on the client for provisional messages.
const LocalIDPrefix = "local-"

// Message represents a single message in a project's chat history.
type Message struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Client-side state (not sent or received)
	LocalID string `json:"-"`
	Pending bool   `json:"-"`
}

// NewProvisionalMessage creates the optimistic user message shown while a
// chat request is in flight. It has no server ID until the backend echoes it.
func NewProvisionalMessage(projectID int64, content string) Message {
	return Message{
		ProjectID: projectID,
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
		LocalID:   LocalIDPrefix + uuid.NewString(),
		Pending:   true,
	}
}

// Key returns a stable identity for the message: the local ID for
// provisional messages, the server ID otherwise.
func (m Message) Key() string {
	if m.LocalID != "" {
		return m.LocalID
	}
	return "srv-" + strconv.FormatInt(m.ID, 10)
}

// IsProvisional reports whether the message was minted locally.
func (m Message) IsProvisional() bool {
	return strings.HasPrefix(m.LocalID, LocalIDPrefix)
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(m.Content), " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// CHAT REQUESTS
// =============================================================================

// ChatAction selects what the backend does with a chat turn.
type ChatAction string

const (
	ActionGenerateCode  ChatAction = "generate_code"
	ActionAnalyzeCode   ChatAction = "analyze_code"
	ActionSummarizeChat ChatAction = "summarize_chat"
)

// Actions lists the supported chat actions in menu order.
var Actions = []ChatAction{ActionGenerateCode, ActionAnalyzeCode, ActionSummarizeChat}

// Label returns a short human-readable label for the action.
func (a ChatAction) Label() string {
	switch a {
	case ActionGenerateCode:
		return "Generate"
	case ActionAnalyzeCode:
		return "Analyze"
	case ActionSummarizeChat:
		return "Summarize"
	default:
		return string(a)
	}
}

// IsValid reports whether a is a supported action.
func (a ChatAction) IsValid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// HistoryEntry is a single prior message as sent in a chat request.
type HistoryEntry struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

// ChatRequest is the payload of POST /chat/.
type ChatRequest struct {
	ProjectID      int64          `json:"project_id"`
	UserID         string         `json:"user_id"`
	MessageContent string         `json:"message_content"`
	Action         ChatAction     `json:"action"`
	Language       string         `json:"programming_language"`
	History        []HistoryEntry `json:"chat_history"`
	CurrentCode    string         `json:"current_code,omitempty"`
}

// HistoryOf converts messages to history entries, preserving order.
// The result is never nil so it encodes as an empty JSON array.
func HistoryOf(messages []Message) []HistoryEntry {
	history := make([]HistoryEntry, 0, len(messages))
	for _, m := range messages {
		history = append(history, HistoryEntry{Content: m.Content, Role: m.Role})
	}
	return history
}
