// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the vibecoder command tree.
//
// # Commands
//
//	vibecoder                      Open the TUI at the project list
//	vibecoder open /project/3      Open the TUI at a route
//	vibecoder chat 3               Line-mode chat with a project
//	vibecoder projects list        List projects (--json for scripts)
//	vibecoder projects create      Create a project (--name, --language)
//	vibecoder export 3 -o chat.md  Export a transcript
//	vibecoder proxy                Run the development proxy
//	vibecoder config show|path|init|get|set
//	vibecoder version
//
// Global flags are --config (alternate TOML file) and --verbose (log to
// stderr). The full-screen TUI always logs to ~/.vibecoder/vibecoder.log.
//
// Output respects NO_COLOR and FORCE_COLOR; see terminal.go.
package cli
