// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package codeblock finds fenced code blocks in chat messages and renders
// code for the terminal.
//
// Extraction is deliberately narrow: only the first fenced block of a message
// is considered, the optional language tag on the opening fence is dropped,
// and the inner text is trimmed. A message with no closed fence yields "".
//
//	code := codeblock.Extract("Here:\n```python\nprint(1)\n```")
//	// code == "print(1)"
//
// Highlighting uses chroma with a terminal formatter:
//
//	fmt.Println(codeblock.Highlight(code, "python", "monokai"))
package codeblock
