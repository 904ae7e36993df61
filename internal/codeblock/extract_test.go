// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"strings"
	"testing"

	"github.com/jeranaias/vibecoder-tui/internal/model"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no fence", "just prose", ""},
		{"empty", "", ""},
		{"tagged", "```python\nprint(1)\n```", "print(1)"},
		{"untagged", "```\nx = 1\n```", "x = 1"},
		{"inline single line", "```print(1)```", "print(1)"},
		{"surrounding prose", "Sure:\n\n```go\nfunc main() {}\n```\nDone.", "func main() {}"},
		{"first wins", "```js\na()\n```\nand\n```js\nb()\n```", "a()"},
		{"unclosed", "```python\nprint(1)", ""},
		{"trims", "```ts\n\n  const x = 1;  \n\n```", "const x = 1;"},
		{"crlf", "```python\r\nprint(2)\r\n```", "print(2)"},
		{"csharp tag", "```c#\nvar x = 1;\n```", "var x = 1;"},
		{"four backticks", "````\ncode\n````", "code"},
		{"long fence holds short one", "````md\n```go\nx\n```\n````", "```go\nx\n```"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Extract(tc.content); got != tc.want {
				t.Errorf("Extract(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestExtract_Properties(t *testing.T) {
	inputs := []string{
		"```python\nprint(1)\n```",
		"text ```\n  spaced  \n``` text",
		"```go\n\tfmt.Println()\n```",
		"````python\nprint(1)\n````",
		"nothing here",
	}
	for _, in := range inputs {
		got := Extract(in)
		if got != strings.TrimSpace(got) {
			t.Errorf("Extract(%q) not trimmed: %q", in, got)
		}
		if !strings.Contains(in, "```") && got != "" {
			t.Errorf("Extract(%q) returned code without a fence", in)
		}
		// Every input holds at most one block with no backticks inside it.
		if strings.Contains(got, "`") {
			t.Errorf("Extract(%q) kept fence backticks: %q", in, got)
		}
	}
}

func TestExtractBlock_Language(t *testing.T) {
	b, ok := ExtractBlock("```Python\nprint(1)\n```")
	if !ok {
		t.Fatal("expected a block")
	}
	if b.Language != "python" {
		t.Errorf("Language = %q", b.Language)
	}

	b, ok = ExtractBlock("```print(1)```")
	if !ok || b.Language != "" {
		t.Errorf("inline block should have no language, got %+v", b)
	}
}

func TestContains(t *testing.T) {
	if Contains("no code") {
		t.Error("Contains(no code) = true")
	}
	if Contains("```only opening") {
		t.Error("an unclosed fence is not code")
	}
	if !Contains("```\n\n```") {
		t.Error("an empty block still counts as a block")
	}
}

func TestLatestCode(t *testing.T) {
	msgs := []model.Message{
		{Role: model.RoleAssistant, Content: "```python\nold()\n```"},
		{Role: model.RoleUser, Content: "```python\nmine()\n```"},
		{Role: model.RoleAssistant, Content: "```python\nnew()\n```"},
		{Role: model.RoleAnalysis, Content: "```python\nanalysis()\n```"},
		{Role: model.RoleAssistant, Content: "no code"},
	}

	code, ok := LatestCode(msgs)
	if !ok || code != "new()" {
		t.Errorf("LatestCode = %q, %v; want new()", code, ok)
	}

	code, ok = FirstCode(msgs)
	if !ok || code != "old()" {
		t.Errorf("FirstCode = %q, %v; want old()", code, ok)
	}

	if _, ok := LatestCode(msgs[1:2]); ok {
		t.Error("user messages never seed the editor")
	}
	if _, ok := LatestCode(nil); ok {
		t.Error("empty history has no code")
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"python": "py", "csharp": "cs", "Go": "go", "typescript": "ts", "cobol": "txt",
	}
	for lang, want := range tests {
		if got := Extension(lang); got != want {
			t.Errorf("Extension(%q) = %q, want %q", lang, got, want)
		}
	}
}

func TestHighlight(t *testing.T) {
	if Highlight("", "python", DefaultStyle) != "" {
		t.Error("empty code should stay empty")
	}
	out := Highlight("print(1)", "python", DefaultStyle)
	if !strings.Contains(out, "print") {
		t.Errorf("highlighted output lost the code: %q", out)
	}
	// Unknown styles and languages fall back rather than failing.
	out = Highlight("x", "no-such-lang", "no-such-style")
	if !strings.Contains(out, "x") {
		t.Errorf("fallback output lost the code: %q", out)
	}
}
