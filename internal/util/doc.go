// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across vibecoder.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync and rename
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, PadRight: Display-width aware layout helpers
//   - Slugify: Filesystem-safe names for project folders
//
// # Usage
//
//	name := util.TruncateWidth(project.Name, 30)
//	err := util.AtomicWriteFile(path, data, 0644)
package util
