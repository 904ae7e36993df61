// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"regexp"
	"strings"

	"github.com/jeranaias/vibecoder-tui/internal/model"
)

var (
	// openRe matches an opening fence of three or more backticks. The block
	// closes at the next run of the same length.
	openRe = regexp.MustCompile("`{3,}")

	// tagRe matches the language tag. It only counts when the opening fence
	// line ends in a newline, so "```print(1)```" keeps its whole body.
	tagRe = regexp.MustCompile(`^([\w+#.-]*)[ \t]*\r?\n`)
)

// Block is a fenced block found in a message.
type Block struct {
	Language string
	Code     string
}

// Extract returns the trimmed body of the first fenced block, or "" if none.
func Extract(content string) string {
	b, _ := ExtractBlock(content)
	return b.Code
}

// ExtractBlock returns the first fenced block and whether one was found.
func ExtractBlock(content string) (Block, bool) {
	loc := openRe.FindStringIndex(content)
	if loc == nil {
		return Block{}, false
	}
	fence := content[loc[0]:loc[1]]
	body := content[loc[1]:]

	var lang string
	if m := tagRe.FindStringSubmatch(body); m != nil {
		lang = m[1]
		body = body[len(m[0]):]
	}
	end := strings.Index(body, fence)
	if end < 0 {
		return Block{}, false
	}
	return Block{
		Language: strings.ToLower(lang),
		Code:     strings.TrimSpace(body[:end]),
	}, true
}

// Contains reports whether content holds a closed fenced block.
func Contains(content string) bool {
	_, ok := ExtractBlock(content)
	return ok
}

// HasCode reports whether m is an assistant message carrying a code block.
// Only these messages ever populate the editor buffer.
func HasCode(m model.Message) bool {
	return m.Role == model.RoleAssistant && Contains(m.Content)
}

// FirstCode returns the code of the first message in msgs that HasCode.
func FirstCode(msgs []model.Message) (string, bool) {
	for _, m := range msgs {
		if HasCode(m) {
			return Extract(m.Content), true
		}
	}
	return "", false
}

// LatestCode scans msgs newest to oldest and returns the code of the most
// recent message that HasCode.
func LatestCode(msgs []model.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if HasCode(msgs[i]) {
			return Extract(msgs[i].Content), true
		}
	}
	return "", false
}
