// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/vibecoder-tui/internal/codeblock"
	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/util"
)

// DefaultDebounce coalesces bursts of events from editors that save in
// several steps.
const DefaultDebounce = 150 * time.Millisecond

// ErrClosed is returned by operations on a closed mirror.
var ErrClosed = errors.New("workspace mirror is closed")

// PathFor returns the mirror file of project p under dir.
func PathFor(dir string, p model.Project) string {
	folder := strconv.FormatInt(p.ID, 10) + "-" + util.Slugify(p.Name)
	return filepath.Join(dir, folder, "main."+codeblock.Extension(p.Language))
}

// Mirror keeps one file in step with an editor buffer.
type Mirror struct {
	path     string
	debounce time.Duration

	mu          sync.Mutex
	lastWritten string
	hasWritten  bool
	closed      bool
	watcher     *fsnotify.Watcher
	timer       *time.Timer

	changes chan string
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMirror creates a mirror for project p under dir. Nothing touches the
// filesystem until Write or Watch.
func NewMirror(dir string, p model.Project) *Mirror {
	ctx, cancel := context.WithCancel(context.Background())
	return &Mirror{
		path:     PathFor(dir, p),
		debounce: DefaultDebounce,
		changes:  make(chan string, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// WithDebounce sets the event coalescing window.
func (m *Mirror) WithDebounce(d time.Duration) *Mirror {
	m.debounce = d
	return m
}

// Path returns the mirrored file path.
func (m *Mirror) Path() string {
	return m.path
}

// Write replaces the file contents with code. Writing what was last written
// is a no-op.
func (m *Mirror) Write(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.hasWritten && code == m.lastWritten {
		return nil
	}
	if err := util.AtomicWriteFile(m.path, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to mirror editor: %w", err)
	}
	m.lastWritten = code
	m.hasWritten = true
	return nil
}

// Read returns the current file contents.
func (m *Mirror) Read() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Sync registers a hook on chat that writes every editor change to disk.
// The current buffer is written immediately.
func (m *Mirror) Sync(chat *session.Chat) error {
	chat.OnEditorChange(func(code string) {
		if err := m.Write(code); err != nil && !errors.Is(err, ErrClosed) {
			log.Printf("WORKSPACE_WRITE_FAILED | path=%s err=%v", m.path, err)
		}
	})
	return m.Write(chat.Editor())
}

// Changes delivers file contents after external edits. Only the latest
// pending change is kept.
func (m *Mirror) Changes() <-chan string {
	return m.changes
}

// Done is closed when the mirror is closed.
func (m *Mirror) Done() <-chan struct{} {
	return m.ctx.Done()
}

// Watch starts watching the file for external edits. The parent directory
// is watched because atomic saves replace the file rather than modify it.
func (m *Mirror) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.watcher != nil {
		return nil
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	m.watcher = watcher

	go m.processEvents(watcher)
	return nil
}

func (m *Mirror) processEvents(watcher *fsnotify.Watcher) {
	base := filepath.Base(m.path)
	for {
		select {
		case <-m.ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				m.schedule()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("WORKSPACE_WATCH_ERROR | path=%s err=%v", m.path, err)
		}
	}
}

func (m *Mirror) schedule() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.checkFile)
}

// checkFile publishes the file contents if they differ from our last write.
func (m *Mirror) checkFile() {
	content, err := m.Read()
	if err != nil {
		return
	}

	m.mu.Lock()
	if m.closed || (m.hasWritten && content == m.lastWritten) {
		m.mu.Unlock()
		return
	}
	m.lastWritten = content
	m.hasWritten = true
	m.mu.Unlock()

	// Drop a stale undelivered change in favour of this one.
	select {
	case <-m.changes:
	default:
	}
	select {
	case m.changes <- content:
	case <-m.ctx.Done():
	}
}

// Follow applies external edits to chat until ctx is done or the mirror is
// closed.
func (m *Mirror) Follow(ctx context.Context, chat *session.Chat) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.ctx.Done():
			return
		case code := <-m.changes:
			chat.SetEditor(code)
		}
	}
}

// Close stops watching. The mirrored file is left in place.
func (m *Mirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.cancel()
	if m.timer != nil {
		m.timer.Stop()
	}
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
