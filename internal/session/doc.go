// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the UI-independent state of a Vibe Coder client:
// the project list, the project being viewed, and its chat.
//
// Both the terminal UI and the line-mode REPL drive the same types, so the
// chat rules live here once.
//
// # Key Types
//
//   - Chat: Ordered messages, input and editor buffers, single in-flight request
//   - Ticket: Handle for one outstanding chat submission
//   - ProjectView: Loads a project and its history, then seeds the editor
//   - ProjectList: Lists and creates projects
//
// # Chat Lifecycle
//
// A submission is split in two so the network call can run elsewhere:
//
//	t, err := chat.Begin(model.ActionGenerateCode) // provisional message appended
//	msgs, err := gateway.SubmitChat(ctx, t.Request)
//	if err != nil {
//	    chat.Reject(t, err) // provisional message removed, input restored
//	} else {
//	    chat.Resolve(t, msgs) // replies appended, editor updated
//	}
//
// Only one ticket can be outstanding; Begin returns ErrBusy otherwise.
package session
