// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/jeranaias/vibecoder-tui/internal/codeblock"
	"github.com/jeranaias/vibecoder-tui/internal/model"
)

// Chat errors.
var (
	// ErrBusy is returned by Begin while another submission is outstanding.
	ErrBusy = errors.New("a chat request is already in progress")

	// ErrEmptyInput is returned by Begin when the input is blank.
	ErrEmptyInput = errors.New("message is empty")

	// ErrStaleTicket is returned when resolving a ticket that is not current.
	ErrStaleTicket = errors.New("chat ticket is no longer current")
)

// Ticket identifies one outstanding chat submission.
type Ticket struct {
	seq uint64

	// LocalID is the provisional message's identifier.
	LocalID string

	// Input is the text that was submitted.
	Input string

	// Request is ready to pass to api.Gateway.SubmitChat.
	Request model.ChatRequest
}

// Snapshot is a copy of the chat state for rendering.
type Snapshot struct {
	Messages []model.Message
	Input    string
	Editor   string
	Busy     bool
	Action   model.ChatAction
	Err      error
}

// Chat reconciles optimistic user messages with backend replies.
type Chat struct {
	mu sync.Mutex

	project  model.Project
	userID   string
	messages []model.Message
	input    string
	editor   string
	seeded   bool
	err      error

	seq      uint64
	inflight *Ticket

	onEditor []func(string)
}

// NewChat creates an empty chat for project.
func NewChat(project model.Project, userID string) *Chat {
	return &Chat{project: project, userID: userID}
}

// SetProject replaces the project the chat submits for.
func (c *Chat) SetProject(p model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.project = p
}

// Project returns the project the chat belongs to.
func (c *Chat) Project() model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.project
}

// OnEditorChange registers fn to run after the editor buffer changes. fn is
// called without the chat lock held.
func (c *Chat) OnEditorChange(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEditor = append(c.onEditor, fn)
}

func (c *Chat) notifyEditor(hooks []func(string), code string) {
	for _, fn := range hooks {
		fn(code)
	}
}

// LoadHistory replaces the message list with history. The first call seeds
// the editor from the most recent code-bearing assistant message; later
// calls leave the editor alone.
func (c *Chat) LoadHistory(history []model.Message) {
	c.mu.Lock()
	c.messages = append([]model.Message(nil), history...)
	var hooks []func(string)
	var code string
	if !c.seeded {
		c.seeded = true
		if latest, ok := codeblock.LatestCode(c.messages); ok && latest != c.editor {
			c.editor = latest
			code = latest
			hooks = append(hooks, c.onEditor...)
		}
	}
	c.mu.Unlock()

	c.notifyEditor(hooks, code)
}

// SetInput replaces the input buffer.
func (c *Chat) SetInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = s
}

// Input returns the input buffer.
func (c *Chat) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetEditor replaces the editor buffer, typically after a user edit.
func (c *Chat) SetEditor(code string) {
	c.mu.Lock()
	if c.editor == code {
		c.mu.Unlock()
		return
	}
	c.editor = code
	hooks := slices.Clone(c.onEditor)
	c.mu.Unlock()

	c.notifyEditor(hooks, code)
}

// Editor returns the editor buffer.
func (c *Chat) Editor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor
}

// Messages returns a copy of the ordered message list.
func (c *Chat) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Message(nil), c.messages...)
}

// Busy reports whether a submission is outstanding.
func (c *Chat) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight != nil
}

// Err returns the error from the last failed submission, if any.
func (c *Chat) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ClearErr dismisses the last submission error.
func (c *Chat) ClearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
}

// Snapshot returns a consistent copy of the chat state.
func (c *Chat) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Messages: append([]model.Message(nil), c.messages...),
		Input:    c.input,
		Editor:   c.editor,
		Busy:     c.inflight != nil,
		Err:      c.err,
	}
	if c.inflight != nil {
		s.Action = c.inflight.Request.Action
	}
	return s
}

// Begin starts a submission of the current input. The request carries the
// history as it stood before this message. The provisional user message is
// appended and the input cleared before Begin returns.
func (c *Chat) Begin(action model.ChatAction) (*Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != nil {
		return nil, ErrBusy
	}
	text := strings.TrimSpace(c.input)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if action == "" {
		action = model.ActionGenerateCode
	}

	req := model.ChatRequest{
		ProjectID:      c.project.ID,
		UserID:         c.userID,
		MessageContent: text,
		Action:         action,
		Language:       c.project.Language,
		History:        model.HistoryOf(c.messages),
		CurrentCode:    c.editor,
	}

	msg := model.NewProvisionalMessage(c.project.ID, text)
	c.messages = append(c.messages, msg)
	c.input = ""
	c.err = nil

	c.seq++
	c.inflight = &Ticket{seq: c.seq, LocalID: msg.LocalID, Input: text, Request: req}
	return c.inflight, nil
}

func (c *Chat) current(t *Ticket) bool {
	return t != nil && c.inflight != nil && c.inflight.seq == t.seq
}

func (c *Chat) indexOf(localID string) int {
	for i, m := range c.messages {
		if m.LocalID == localID {
			return i
		}
	}
	return -1
}

// Resolve completes t with the backend's reply. The provisional message is
// kept, replies are appended in order, and the first assistant reply with a
// code block replaces the editor buffer.
func (c *Chat) Resolve(t *Ticket, replies []model.Message) error {
	c.mu.Lock()
	if !c.current(t) {
		c.mu.Unlock()
		return ErrStaleTicket
	}

	if i := c.indexOf(t.LocalID); i >= 0 {
		c.messages[i].Pending = false
	}
	c.messages = append(c.messages, replies...)
	c.inflight = nil
	c.err = nil

	var hooks []func(string)
	code, ok := codeblock.FirstCode(replies)
	if ok && code != c.editor {
		c.editor = code
		hooks = append(hooks, c.onEditor...)
	}
	c.mu.Unlock()

	c.notifyEditor(hooks, code)
	return nil
}

// Reject fails t. Exactly the provisional message is removed, the editor is
// untouched, and the submitted text goes back into the input unless the user
// has typed something new since.
func (c *Chat) Reject(t *Ticket, cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(t) {
		return ErrStaleTicket
	}

	if i := c.indexOf(t.LocalID); i >= 0 {
		c.messages = append(c.messages[:i], c.messages[i+1:]...)
	}
	if strings.TrimSpace(c.input) == "" {
		c.input = t.Input
	}
	c.err = cause
	c.inflight = nil
	return nil
}
