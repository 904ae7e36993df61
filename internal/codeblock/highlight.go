// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// lexerAliases maps project language tags to chroma lexer names where they differ.
var lexerAliases = map[string]string{
	"csharp": "c#",
	"golang": "go",
	"js":     "javascript",
	"ts":     "typescript",
	"py":     "python",
}

var extensions = map[string]string{
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"java":       "java",
	"csharp":     "cs",
	"go":         "go",
	"rust":       "rs",
	"ruby":       "rb",
	"c":          "c",
	"cpp":        "cpp",
	"bash":       "sh",
}

// Extension returns the conventional file extension for a language tag,
// falling back to "txt".
func Extension(language string) string {
	if ext, ok := extensions[strings.ToLower(language)]; ok {
		return ext
	}
	return "txt"
}

func lexerFor(code, language string) chroma.Lexer {
	name := strings.ToLower(language)
	if alias, ok := lexerAliases[name]; ok {
		name = alias
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Highlight applies ANSI syntax highlighting to code. It returns the input
// unchanged when tokenising or formatting fails.
func Highlight(code, language, style string) string {
	if code == "" {
		return ""
	}
	lexer := lexerFor(code, language)

	s := chromaStyles.Get(style)
	if s == nil {
		s = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, s, iterator); err != nil {
		return code
	}
	return buf.String()
}

// DetectLanguage guesses the language of code, returning "" when unsure.
func DetectLanguage(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return ""
}
