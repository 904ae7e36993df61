// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace mirrors a project's editor buffer to a file on disk so
// it can be opened in a real editor, and feeds edits made there back into
// the chat.
//
// Each project gets <dir>/<id>-<slug>/main.<ext>. Writes are atomic, and
// the watcher ignores events caused by the mirror's own writes.
//
//	m := workspace.NewMirror(cfg.Workspace.Dir, project)
//	m.Sync(chat)                  // editor changes -> file
//	if err := m.Watch(); err == nil {
//	    go m.Follow(ctx, chat)    // file changes -> editor
//	}
//	defer m.Close()
package workspace
