// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package codediff compares two revisions of the editor buffer line by line.
package codediff

import (
	"fmt"
	"strings"
)

// =============================================================================
// TYPES
// =============================================================================

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Prefix returns the unified diff marker for op.
func (o Op) Prefix() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a diff. Old and New are 1-based line numbers, zero
// when the line does not exist on that side.
type Line struct {
	Op   Op
	Text string
	Old  int
	New  int
}

// Hunk is a run of changes with surrounding context.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Change is the full line diff between two revisions.
type Change struct {
	Lines   []Line
	Added   int
	Removed int
}

// =============================================================================
// COMPUTATION
// =============================================================================

// Compute diffs before against after using a longest common subsequence.
// Removals are ordered before insertions within a changed run.
func Compute(before, after string) Change {
	a, b := splitLines(before), splitLines(after)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var c Change
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			c.Lines = append(c.Lines, Line{Op: Equal, Text: a[i], Old: i + 1, New: j + 1})
			i++
			j++
		case i < len(a) && (j == len(b) || lcs[i+1][j] >= lcs[i][j+1]):
			c.Lines = append(c.Lines, Line{Op: Delete, Text: a[i], Old: i + 1})
			c.Removed++
			i++
		default:
			c.Lines = append(c.Lines, Line{Op: Insert, Text: b[j], New: j + 1})
			c.Added++
			j++
		}
	}
	return c
}

// splitLines splits on newlines, ignoring one trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Empty reports whether the revisions are identical line for line.
func (c Change) Empty() bool {
	return c.Added == 0 && c.Removed == 0
}

// Summary renders the change counts, e.g. "+3 -1".
func (c Change) Summary() string {
	if c.Empty() {
		return "no changes"
	}
	return fmt.Sprintf("+%d -%d", c.Added, c.Removed)
}

// =============================================================================
// HUNKS
// =============================================================================

// Hunks groups changes that are at most 2*context lines apart, keeping up
// to context unchanged lines around each group.
func (c Change) Hunks(context int) []Hunk {
	if context < 0 {
		context = 0
	}
	var changed []int
	for i, l := range c.Lines {
		if l.Op != Equal {
			changed = append(changed, i)
		}
	}

	var hunks []Hunk
	for k := 0; k < len(changed); k++ {
		first, last := changed[k], changed[k]
		for k+1 < len(changed) && changed[k+1]-last-1 <= 2*context {
			k++
			last = changed[k]
		}
		start := max(0, first-context)
		stop := min(len(c.Lines), last+context+1)
		hunks = append(hunks, c.hunk(start, stop))
	}
	return hunks
}

func (c Change) hunk(start, stop int) Hunk {
	var oldBefore, newBefore int
	for _, l := range c.Lines[:start] {
		if l.Op != Insert {
			oldBefore++
		}
		if l.Op != Delete {
			newBefore++
		}
	}

	h := Hunk{Lines: c.Lines[start:stop]}
	for _, l := range h.Lines {
		if l.Op != Insert {
			h.OldCount++
		}
		if l.Op != Delete {
			h.NewCount++
		}
	}
	// An empty range names the line before it.
	h.OldStart = oldBefore
	if h.OldCount > 0 {
		h.OldStart++
	}
	h.NewStart = newBefore
	if h.NewCount > 0 {
		h.NewStart++
	}
	return h
}

// Unified renders the change as a unified diff of the file name. It returns
// "" when nothing changed.
func (c Change) Unified(name string, context int) string {
	if c.Empty() {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
	for _, h := range c.Hunks(context) {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			sb.WriteString(l.Op.Prefix())
			sb.WriteString(l.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
