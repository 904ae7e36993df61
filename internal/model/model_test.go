// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "User"},
		{RoleAssistant, "Assistant"},
		{RoleAnalysis, "Analysis"},
		{RoleSummary, "Summary"},
		{Role(""), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("Role(%q).DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestRole_IsValid(t *testing.T) {
	if !RoleSummary.IsValid() {
		t.Error("summary should be a valid role")
	}
	if Role("system").IsValid() {
		t.Error("system is not produced by the backend")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewProvisionalMessage(t *testing.T) {
	a := NewProvisionalMessage(7, "hello")
	b := NewProvisionalMessage(7, "hello")

	if a.Role != RoleUser || a.ProjectID != 7 || a.Content != "hello" {
		t.Fatalf("unexpected provisional message: %+v", a)
	}
	if !a.Pending || !a.IsProvisional() {
		t.Error("provisional message should be pending and provisional")
	}
	if a.ID != 0 {
		t.Errorf("provisional message should have no server ID, got %d", a.ID)
	}
	if a.LocalID == b.LocalID {
		t.Error("provisional IDs must be unique even when minted back to back")
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMessage_Key(t *testing.T) {
	server := Message{ID: 42}
	if server.Key() != "srv-42" {
		t.Errorf("Key() = %q, want srv-42", server.Key())
	}
	local := NewProvisionalMessage(1, "x")
	if local.Key() != local.LocalID {
		t.Errorf("Key() = %q, want %q", local.Key(), local.LocalID)
	}
}

func TestMessage_Preview(t *testing.T) {
	m := Message{Content: "héllo   wörld\nagain"}
	if got := m.Preview(100); got != "héllo wörld again" {
		t.Errorf("Preview() = %q", got)
	}
	if got := m.Preview(8); got != "héllo..." {
		t.Errorf("Preview(8) = %q", got)
	}
}

func TestMessage_DecodeBackendJSON(t *testing.T) {
	raw := `{"id":3,"project_id":1,"role":"analysis","content":"ok","created_at":"2024-05-01T10:00:00Z"}`
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m.ID != 3 || m.Role != RoleAnalysis || m.CreatedAt.Year() != 2024 {
		t.Errorf("decoded %+v", m)
	}
	if m.Pending || m.LocalID != "" {
		t.Error("server messages are never provisional")
	}
}

// =============================================================================
// CHAT REQUEST TESTS
// =============================================================================

func TestHistoryOf_PreservesOrder(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "a"},
		{Role: RoleAssistant, Content: "b"},
		{Role: RoleSummary, Content: "c"},
	}
	h := HistoryOf(msgs)
	if len(h) != 3 {
		t.Fatalf("len = %d", len(h))
	}
	for i, m := range msgs {
		if h[i].Content != m.Content || h[i].Role != m.Role {
			t.Errorf("entry %d = %+v", i, h[i])
		}
	}
}

func TestChatRequest_WireFormat(t *testing.T) {
	req := ChatRequest{
		ProjectID:      1,
		UserID:         "app_demo_user",
		MessageContent: "hi",
		Action:         ActionGenerateCode,
		Language:       "python",
		History:        HistoryOf(nil),
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"chat_history":[]`, `"programming_language":"python"`, `"action":"generate_code"`} {
		if !strings.Contains(s, want) {
			t.Errorf("%s missing %s", s, want)
		}
	}
	if strings.Contains(s, "current_code") {
		t.Errorf("empty current_code should be omitted: %s", s)
	}
}

func TestChatAction(t *testing.T) {
	if !ActionAnalyzeCode.IsValid() || ChatAction("generate_and_analyze").IsValid() {
		t.Error("unexpected IsValid result")
	}
	if ActionSummarizeChat.Label() != "Summarize" {
		t.Errorf("Label() = %q", ActionSummarizeChat.Label())
	}
}

// =============================================================================
// PROJECT TESTS
// =============================================================================

func TestNewProjectCreate(t *testing.T) {
	tests := []struct {
		name, lang string
		wantErr    bool
	}{
		{"Demo", "python", false},
		{"  Demo  ", "go", false},
		{"", "python", true},
		{"   ", "python", true},
		{"Demo", "", true},
	}
	for _, tc := range tests {
		pc, err := NewProjectCreate(tc.name, tc.lang)
		if (err != nil) != tc.wantErr {
			t.Errorf("NewProjectCreate(%q, %q) err = %v", tc.name, tc.lang, err)
			continue
		}
		if err == nil && pc.Name != strings.TrimSpace(tc.name) {
			t.Errorf("name not trimmed: %q", pc.Name)
		}
	}
}

func TestNextLanguage(t *testing.T) {
	if got := NextLanguage("python", 1); got != "javascript" {
		t.Errorf("got %q", got)
	}
	if got := NextLanguage("go", 1); got != "python" {
		t.Errorf("wrap forward: got %q", got)
	}
	if got := NextLanguage("python", -1); got != "go" {
		t.Errorf("wrap backward: got %q", got)
	}
	if got := NextLanguage("cobol", 1); got != Languages[0] {
		t.Errorf("unknown: got %q", got)
	}
}
