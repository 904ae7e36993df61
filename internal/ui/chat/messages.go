// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the project screen (route "/project/:id"): the
// conversation, the code editor and the message input.
//
// This file defines the Bubble Tea message types used by the screen.
package chat

import (
	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/workspace"
)

// BackMsg asks the shell to return to the project list.
type BackMsg struct{}

// loadedMsg reports the end of ProjectView.Load. view identifies the screen
// that started the load.
type loadedMsg struct {
	view *session.ProjectView
	err  error
}

// replyMsg carries the outcome of one chat submission.
type replyMsg struct {
	ticket  *session.Ticket
	replies []model.Message
	err     error
}

// fileChangedMsg carries the mirrored file after an external edit.
type fileChangedMsg struct {
	mirror *workspace.Mirror
	code   string
}

// exportedMsg reports the result of ctrl+e.
type exportedMsg struct {
	path string
	err  error
}
