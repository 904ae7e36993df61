// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package codediff

import (
	"fmt"
	"strings"
	"testing"
)

func TestCompute_Counts(t *testing.T) {
	tests := []struct {
		name          string
		before, after string
		added         int
		removed       int
	}{
		{"new buffer", "", "a\nb\nc", 3, 0},
		{"cleared buffer", "a\nb\nc", "", 0, 3},
		{"modified", "line1\nline2\nline3", "line1\nmodified\nline3\nline4", 2, 1},
		{"trailing newline ignored", "a\nb\n", "a\nb", 0, 0},
		{"crlf", "a\r\nb\r\n", "a\nb\n", 0, 0},
		{"both empty", "", "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compute(tt.before, tt.after)
			if c.Added != tt.added || c.Removed != tt.removed {
				t.Errorf("got +%d -%d, want +%d -%d", c.Added, c.Removed, tt.added, tt.removed)
			}
		})
	}
}

func TestCompute_Order(t *testing.T) {
	c := Compute("line1\nline2\nline3", "line1\nmodified\nline3\nline4")
	want := []Line{
		{Op: Equal, Text: "line1", Old: 1, New: 1},
		{Op: Delete, Text: "line2", Old: 2},
		{Op: Insert, Text: "modified", New: 2},
		{Op: Equal, Text: "line3", Old: 3, New: 3},
		{Op: Insert, Text: "line4", New: 4},
	}
	if len(c.Lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(c.Lines), len(want), c.Lines)
	}
	for i := range want {
		if c.Lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, c.Lines[i], want[i])
		}
	}
}

func TestSummary(t *testing.T) {
	if got := Compute("a", "a").Summary(); got != "no changes" {
		t.Errorf("Summary() = %q", got)
	}
	if got := Compute("line1\nline2\nline3", "line1\nmodified\nline3\nline4").Summary(); got != "+2 -1" {
		t.Errorf("Summary() = %q", got)
	}
}

func numbered(n int, replace map[int]string) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i+1)
		if r, ok := replace[i+1]; ok {
			lines[i] = r
		}
	}
	return strings.Join(lines, "\n")
}

func TestHunks(t *testing.T) {
	c := Compute(numbered(20, nil), numbered(20, map[int]string{2: "X", 18: "Y"}))

	hunks := c.Hunks(3)
	if len(hunks) != 2 {
		t.Fatalf("got %d hunks, want 2", len(hunks))
	}
	first := hunks[0]
	if first.OldStart != 1 || first.OldCount != 5 || first.NewStart != 1 || first.NewCount != 5 {
		t.Errorf("first hunk = -%d,%d +%d,%d", first.OldStart, first.OldCount, first.NewStart, first.NewCount)
	}
	second := hunks[1]
	if second.OldStart != 15 || second.OldCount != 6 || second.NewStart != 15 || second.NewCount != 6 {
		t.Errorf("second hunk = -%d,%d +%d,%d", second.OldStart, second.OldCount, second.NewStart, second.NewCount)
	}

	if n := len(c.Hunks(10)); n != 1 {
		t.Errorf("wide context: got %d hunks, want 1", n)
	}
	if n := len(Compute("a", "a").Hunks(3)); n != 0 {
		t.Errorf("no changes: got %d hunks", n)
	}
}

func TestUnified(t *testing.T) {
	got := Compute("", "x\ny").Unified("main.go", 3)
	want := "--- a/main.go\n+++ b/main.go\n@@ -0,0 +1,2 @@\n+x\n+y\n"
	if got != want {
		t.Errorf("Unified() =\n%s\nwant\n%s", got, want)
	}

	got = Compute("a\nb\nc", "a\nB\nc").Unified("f.py", 1)
	want = "--- a/f.py\n+++ b/f.py\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n"
	if got != want {
		t.Errorf("Unified() =\n%s\nwant\n%s", got, want)
	}

	if got := Compute("same", "same").Unified("f", 3); got != "" {
		t.Errorf("Unified() of no change = %q", got)
	}
}
