// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vibecoder-tui/internal/codediff"
	"github.com/jeranaias/vibecoder-tui/internal/export"
	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/ui/components"
	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
	"github.com/jeranaias/vibecoder-tui/internal/workspace"
)

// =============================================================================
// MODEL
// =============================================================================

// Pane is the area of the screen receiving keys.
type Pane int

const (
	PaneInput Pane = iota
	PaneEditor
	PaneChat
)

func (p Pane) next() Pane {
	return (p + 1) % 3
}

// Options carries the rendering and workspace preferences of the screen.
type Options struct {
	// CodeStyle is the chroma style of the editor pane.
	CodeStyle string
	// ShowTimestamps prints message times.
	ShowTimestamps bool
	// RenderMarkdown renders replies with glamour.
	RenderMarkdown bool
	// WorkspaceDir enables the on-disk mirror when non-empty.
	WorkspaceDir string
	// Watch applies external edits of the mirrored file.
	Watch bool
	// ExportDir is where ctrl+e writes transcripts.
	ExportDir string
}

// Model is the bubbletea model of the project screen.
type Model struct {
	theme *styles.Theme
	keys  KeyMap
	opts  Options

	view   *session.ProjectView
	mirror *workspace.Mirror

	viewport viewport.Model
	input    textarea.Model
	editor   textarea.Model
	spinner  spinner.Model
	messages *components.MessageList
	code     *components.CodeView

	focus    Pane
	loaded   bool
	notice   string
	localErr error

	// renderedCount and renderedWidth detect when the viewport is stale.
	renderedCount int
	renderedWidth int
	renderedBusy  bool

	width  int
	height int
}

// New creates the screen for view. Init starts loading the project.
func New(theme *styles.Theme, view *session.ProjectView, opts Options) Model {
	in := textarea.New()
	in.Placeholder = "Ask for code, or paste code for analysis..."
	in.CharLimit = 0
	in.ShowLineNumbers = false
	in.SetHeight(3)
	in.Focus()

	ed := textarea.New()
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.ShowLineNumbers = true
	ed.Placeholder = "Generated code will appear here."

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	var md *components.Markdown
	if opts.RenderMarkdown {
		md = components.NewMarkdown(theme.GlamourStyle())
	}
	ml := components.NewMessageList(theme, md)
	ml.ShowTimestamp = opts.ShowTimestamps

	m := Model{
		theme:         theme,
		keys:          DefaultKeyMap(),
		opts:          opts,
		view:          view,
		viewport:      viewport.New(60, 20),
		input:         in,
		editor:        ed,
		spinner:       sp,
		messages:      ml,
		code:          components.NewCodeView(theme, "", opts.CodeStyle),
		focus:         PaneInput,
		renderedCount: -1,
		width:         100,
		height:        30,
	}
	m.layout()
	return m
}

// Init loads the project and its history.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textarea.Blink, m.load())
}

func (m Model) load() tea.Cmd {
	v := m.view
	return func() tea.Msg {
		return loadedMsg{view: v, err: v.Load(context.Background())}
	}
}

func (m Model) submit(t *session.Ticket) tea.Cmd {
	v := m.view
	return func() tea.Msg {
		replies, err := v.Submit(context.Background(), t)
		return replyMsg{ticket: t, replies: replies, err: err}
	}
}

// waitForChange delivers the next external edit of the mirrored file.
func waitForChange(mirror *workspace.Mirror) tea.Cmd {
	return func() tea.Msg {
		select {
		case code := <-mirror.Changes():
			return fileChangedMsg{mirror: mirror, code: code}
		case <-mirror.Done():
			return nil
		}
	}
}

func (m Model) exportTranscript() tea.Cmd {
	snap := m.view.Chat.Snapshot()
	t := export.Transcript{Project: m.view.Project(), Editor: snap.Editor}
	for _, msg := range snap.Messages {
		if !msg.Pending {
			t.Messages = append(t.Messages, msg)
		}
	}
	opts := export.DefaultOptions()
	if m.opts.ExportDir != "" {
		opts.OutputDir = m.opts.ExportDir
	}
	return func() tea.Msg {
		path, err := export.ExportToFile(t, export.NewMarkdownExporter(opts), opts)
		return exportedMsg{path: path, err: err}
	}
}

// ProjectID returns the id of the project shown.
func (m Model) ProjectID() int64 { return m.view.ID() }

// Focus returns the focused pane.
func (m Model) Focus() Pane { return m.focus }

// Mirror returns the workspace mirror, or nil when mirroring is off.
func (m Model) Mirror() *workspace.Mirror { return m.mirror }

// Close releases the workspace mirror.
func (m Model) Close() error {
	if m.mirror == nil {
		return nil
	}
	return m.mirror.Close()
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.layout()
	m.refreshViewport()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg)

	case replyMsg:
		return m.handleReply(msg)

	case fileChangedMsg:
		if msg.mirror == nil || msg.mirror != m.mirror {
			return m, nil
		}
		m.view.Chat.SetEditor(msg.code)
		m.syncEditor()
		m.notice = "Reloaded " + m.mirror.Path()
		return m, waitForChange(m.mirror)

	case exportedMsg:
		if msg.err != nil {
			m.localErr = fmt.Errorf("export failed: %w", msg.err)
			return m, nil
		}
		m.localErr = nil
		m.notice = "Exported to " + msg.path
		return m, nil

	case spinner.TickMsg:
		if !m.loaded || m.view.Chat.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m Model) handleLoaded(msg loadedMsg) (Model, tea.Cmd) {
	// Loads started by an earlier screen may finish after navigation.
	if msg.view != m.view {
		return m, nil
	}
	m.loaded = true
	if msg.err != nil {
		log.Printf("PROJECT_LOAD_FAILED | id=%d err=%v", m.view.ID(), msg.err)
		return m, nil
	}

	p := m.view.Project()
	m.code.Language = p.Language
	m.input.Placeholder = fmt.Sprintf("Ask about %s code, or paste code for analysis...", p.Language)
	m.syncEditor()

	if m.opts.WorkspaceDir == "" {
		return m, nil
	}
	if m.mirror != nil {
		m.mirror.Close()
	}
	m.mirror = workspace.NewMirror(m.opts.WorkspaceDir, p)
	if err := m.mirror.Sync(m.view.Chat); err != nil {
		m.localErr = err
		return m, nil
	}
	if !m.opts.Watch {
		return m, nil
	}
	if err := m.mirror.Watch(); err != nil {
		m.localErr = err
		return m, nil
	}
	return m, waitForChange(m.mirror)
}

func (m Model) handleReply(msg replyMsg) (Model, tea.Cmd) {
	if err := m.view.Complete(msg.ticket, msg.replies, msg.err); err != nil {
		if errors.Is(err, session.ErrStaleTicket) {
			return m, nil
		}
		m.localErr = err
		return m, nil
	}
	if msg.err != nil {
		log.Printf("CHAT_FAILED | project=%d action=%s err=%v", m.view.ID(), msg.ticket.Request.Action, msg.err)
		// Reject may have put the text back.
		if m.input.Value() != m.view.Chat.Input() {
			m.input.SetValue(m.view.Chat.Input())
		}
		return m, nil
	}
	m.syncEditor()
	if before, after := msg.ticket.Request.CurrentCode, m.view.Chat.Editor(); before != after {
		m.notice = "Code updated " + codediff.Compute(before, after).Summary()
	}
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return BackMsg{} }
	}
	// Nothing but back works until the project is ready.
	if m.view.State() != session.StateReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Generate):
		return m.send(model.ActionGenerateCode)
	case key.Matches(msg, m.keys.Analyze):
		return m.send(model.ActionAnalyzeCode)
	case key.Matches(msg, m.keys.Summarize):
		return m.send(model.ActionSummarizeChat)
	case key.Matches(msg, m.keys.Export):
		return m, m.exportTranscript()
	case key.Matches(msg, m.keys.Focus):
		return m.cycleFocus()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == PaneChat {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	return m.forward(msg)
}

// forward passes msg to the focused text area and copies its buffer into the chat.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case PaneInput:
		m.input, cmd = m.input.Update(msg)
		m.view.Chat.SetInput(m.input.Value())
	case PaneEditor:
		m.editor, cmd = m.editor.Update(msg)
		m.view.Chat.SetEditor(m.editor.Value())
	}
	return m, cmd
}

func (m Model) cycleFocus() (Model, tea.Cmd) {
	m.focus = m.focus.next()
	m.input.Blur()
	m.editor.Blur()

	var cmd tea.Cmd
	switch m.focus {
	case PaneInput:
		cmd = m.input.Focus()
	case PaneEditor:
		cmd = m.editor.Focus()
	}
	return m, cmd
}

func (m Model) send(action model.ChatAction) (Model, tea.Cmd) {
	chat := m.view.Chat
	chat.SetInput(m.input.Value())

	t, err := chat.Begin(action)
	if err != nil {
		m.localErr = err
		return m, nil
	}
	m.localErr = nil
	m.notice = ""
	m.input.Reset()
	m.viewport.GotoBottom()
	log.Printf("CHAT_SEND | project=%d action=%s local_id=%s", m.view.ID(), action, t.LocalID)
	return m, tea.Batch(m.spinner.Tick, m.submit(t))
}

// syncEditor copies the chat's editor buffer into the editor widgets.
func (m *Model) syncEditor() {
	code := m.view.Chat.Editor()
	m.code.Code = code
	if m.editor.Value() != code {
		m.editor.SetValue(code)
	}
}

func (m *Model) refreshViewport() {
	msgs := m.view.Chat.Messages()
	busy := m.view.Chat.Busy()
	if len(msgs) == m.renderedCount && m.viewport.Width == m.renderedWidth && busy == m.renderedBusy {
		return
	}
	atBottom := m.viewport.AtBottom() || m.renderedCount < 0

	m.messages.Width = m.viewport.Width
	m.viewport.SetContent(m.messages.View(msgs))
	if atBottom || len(msgs) != m.renderedCount {
		m.viewport.GotoBottom()
	}

	m.renderedCount = len(msgs)
	m.renderedWidth = m.viewport.Width
	m.renderedBusy = busy
}
