// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export renders t as Markdown. Message content is already Markdown and is
// written as-is.
func (e *MarkdownExporter) Export(t Transcript) ([]byte, error) {
	if len(t.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(t.Project.Name))
	fmt.Fprintf(&sb, "- **Language**: %s\n", t.Project.Language)
	if !t.Project.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "- **Created**: %s\n", formatTimestamp(t.Project.CreatedAt))
	}
	fmt.Fprintf(&sb, "- **Messages**: %d\n\n", len(t.Messages))
	sb.WriteString("## Conversation\n\n")

	for i, msg := range t.Messages {
		label := msg.Role.DisplayName()
		if e.options.IncludeTimestamps && !msg.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", label, formatTimestamp(msg.CreatedAt))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", label)
		}
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")
		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	if e.options.IncludeEditor && strings.TrimSpace(t.Editor) != "" {
		sb.WriteString("## Current Code\n\n")
		fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", fenceLanguage(t.Project.Language), strings.TrimRight(t.Editor, "\n"))
	}

	fmt.Fprintf(&sb, "*Exported from vibecoder on %s*\n", e.options.now().Format("January 2, 2006 at 3:04 PM"))
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func fenceLanguage(lang string) string {
	if lang == "csharp" {
		return "cs"
	}
	return lang
}

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("#", "\\#", "*", "\\*", "_", "\\_", "[", "\\[", "]", "\\]")
	return r.Replace(s)
}

var _ Exporter = (*MarkdownExporter)(nil)
