// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/util"
)

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("project has no messages to export")

// Transcript is everything exported for one project.
type Transcript struct {
	Project  model.Project   `json:"project"`
	Messages []model.Message `json:"messages"`
	Editor   string          `json:"editor,omitempty"`
}

// Exporter converts a transcript to one file format.
type Exporter interface {
	Export(t Transcript) ([]byte, error)
	FileExtension() string
	MimeType() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written when no explicit path is given.
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeTimestamps adds per-message times.
	IncludeTimestamps bool

	// IncludeEditor appends the editor buffer.
	IncludeEditor bool

	// Now stamps the export; defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeTimestamps: true,
		IncludeEditor:     true,
		Now:               time.Now,
	}
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// ForFormat returns the exporter for "markdown"/"md" or "json".
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want markdown or json)", format)
	}
}

// DefaultFilename names an export of t made at ts.
func DefaultFilename(t Transcript, ext string, ts time.Time) string {
	return fmt.Sprintf("vibecoder_%d_%s_%s%s",
		t.Project.ID, util.Slugify(t.Project.Name), ts.Format("20060102_150405"), ext)
}

// ExportToFile exports t and writes it under opts.OutputDir. It returns
// the written path.
func ExportToFile(t Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	path := filepath.Join(opts.OutputDir, DefaultFilename(t, exporter.FileExtension(), opts.now()))
	return path, ExportToPath(t, exporter, path, opts)
}

// ExportToPath exports t to an explicit path.
func ExportToPath(t Transcript, exporter Exporter, path string, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	content, err := exporter.Export(t)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if opts.OpenAfterExport {
		if err := openFile(path); err != nil {
			return fmt.Errorf("exported to %s but could not open it: %w", path, err)
		}
	}
	return nil
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// formatTimestamp formats a timestamp for display in local time.
func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
