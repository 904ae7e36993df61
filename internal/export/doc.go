// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a project's chat transcript to a file.
//
// # Supported Formats
//
//   - Markdown (.md): Readable transcript with the current editor buffer
//   - JSON (.json): Project, messages and editor buffer as loaded
//
// # Usage
//
//	t := export.Transcript{Project: p, Messages: msgs, Editor: code}
//	path, err := export.ExportToFile(t, export.NewMarkdownExporter(nil), nil)
package export
