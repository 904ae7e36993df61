// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged with the Vibe Coder
// backend: projects, chat messages, and chat requests.
//
// # Key Types
//
//   - Project: A named coding workspace bound to a programming language
//   - Message: Single chat message with role, content, and creation time
//   - Role: Message role enumeration (user, assistant, analysis, summary)
//   - ChatAction: What the backend should do with a chat turn
//   - ChatRequest: Payload of a chat submission, including prior history
//
// # Usage
//
// Build a chat request from a loaded history:
//
//	req := model.ChatRequest{
//	    ProjectID:      project.ID,
//	    UserID:         cfg.Backend.UserID,
//	    MessageContent: "write fizzbuzz",
//	    Action:         model.ActionGenerateCode,
//	    Language:       project.Language,
//	    History:        model.HistoryOf(messages),
//	}
//
// Provisional messages carry a LocalID and no server ID:
//
//	msg := model.NewProvisionalMessage(project.ID, "write fizzbuzz")
package model
