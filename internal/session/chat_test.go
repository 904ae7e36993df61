// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vibecoder-tui/internal/model"
)

func newTestChat() *Chat {
	return NewChat(model.Project{ID: 1, Name: "Demo", Language: "python"}, "app_demo_user")
}

func TestChat_BeginAppendsProvisional(t *testing.T) {
	c := newTestChat()
	c.LoadHistory([]model.Message{{ID: 1, Role: model.RoleUser, Content: "earlier"}})
	c.SetInput("  write fizzbuzz  ")

	tk, err := c.Begin(model.ActionGenerateCode)
	require.NoError(t, err)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	last := msgs[1]
	assert.Equal(t, model.RoleUser, last.Role)
	assert.Equal(t, "write fizzbuzz", last.Content)
	assert.True(t, last.Pending)
	assert.Equal(t, tk.LocalID, last.LocalID)
	assert.Empty(t, c.Input(), "input is cleared immediately")
	assert.True(t, c.Busy())

	// History is the list before the new message.
	require.Len(t, tk.Request.History, 1)
	assert.Equal(t, "earlier", tk.Request.History[0].Content)
	assert.Equal(t, "app_demo_user", tk.Request.UserID)
	assert.Equal(t, "python", tk.Request.Language)
	assert.Equal(t, int64(1), tk.Request.ProjectID)
}

func TestChat_BeginRejectsBlankInput(t *testing.T) {
	c := newTestChat()
	c.SetInput(" \n\t ")
	_, err := c.Begin(model.ActionGenerateCode)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, c.Messages())
	assert.False(t, c.Busy())
}

func TestChat_SingleFlight(t *testing.T) {
	c := newTestChat()
	c.SetInput("one")
	first, err := c.Begin(model.ActionGenerateCode)
	require.NoError(t, err)

	c.SetInput("two")
	_, err = c.Begin(model.ActionAnalyzeCode)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, c.Messages(), 1, "a rejected submission leaves no trace")
	assert.Equal(t, "two", c.Input())

	require.NoError(t, c.Resolve(first, nil))
	_, err = c.Begin(model.ActionAnalyzeCode)
	assert.NoError(t, err, "a new submission is allowed once the first settles")
}

func TestChat_SingleFlightConcurrent(t *testing.T) {
	c := newTestChat()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.SetInput("go")
			if _, err := c.Begin(model.ActionGenerateCode); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestChat_ResolveAppendsInOrder(t *testing.T) {
	c := newTestChat()
	c.SetInput("build it")
	tk, err := c.Begin(model.ActionGenerateCode)
	require.NoError(t, err)

	replies := []model.Message{
		{ID: 10, Role: model.RoleAssistant, Content: "```python\nprint(1)\n```"},
		{ID: 11, Role: model.RoleAnalysis, Content: "```python\nanalysis()\n```"},
		{ID: 12, Role: model.RoleAssistant, Content: "```python\nsecond()\n```"},
	}
	require.NoError(t, c.Resolve(tk, replies))

	msgs := c.Messages()
	require.Len(t, msgs, 4)
	assert.False(t, msgs[0].Pending, "provisional message is confirmed")
	assert.Equal(t, []int64{10, 11, 12}, []int64{msgs[1].ID, msgs[2].ID, msgs[3].ID})
	assert.Equal(t, "print(1)", c.Editor(), "first assistant code block wins")
	assert.False(t, c.Busy())
	assert.NoError(t, c.Err())
}

func TestChat_ResolveWithoutCodeKeepsEditor(t *testing.T) {
	c := newTestChat()
	c.SetEditor("keep()")
	c.SetInput("explain")
	tk, err := c.Begin(model.ActionAnalyzeCode)
	require.NoError(t, err)
	assert.Equal(t, "keep()", tk.Request.CurrentCode)

	require.NoError(t, c.Resolve(tk, []model.Message{{ID: 3, Role: model.RoleAnalysis, Content: "```python\nx()\n```"}}))
	assert.Equal(t, "keep()", c.Editor(), "only assistant replies update the editor")
}

func TestChat_RejectRollsBack(t *testing.T) {
	c := newTestChat()
	history := []model.Message{
		{ID: 1, Role: model.RoleUser, Content: "a"},
		{ID: 2, Role: model.RoleAssistant, Content: "```go\nmain()\n```"},
	}
	c.LoadHistory(history)
	before := c.Messages()
	editorBefore := c.Editor()

	c.SetInput("break it")
	tk, err := c.Begin(model.ActionGenerateCode)
	require.NoError(t, err)

	cause := errors.New("boom")
	require.NoError(t, c.Reject(tk, cause))

	assert.Equal(t, before, c.Messages(), "the list equals the pre-submission list")
	assert.Equal(t, editorBefore, c.Editor())
	assert.Equal(t, "break it", c.Input(), "input is restored for retry")
	assert.ErrorIs(t, c.Err(), cause)
	assert.False(t, c.Busy())
}

func TestChat_RejectKeepsNewInput(t *testing.T) {
	c := newTestChat()
	c.SetInput("first")
	tk, err := c.Begin(model.ActionGenerateCode)
	require.NoError(t, err)

	c.SetInput("typed meanwhile")
	require.NoError(t, c.Reject(tk, errors.New("x")))
	assert.Equal(t, "typed meanwhile", c.Input())
}

func TestChat_StaleTicket(t *testing.T) {
	c := newTestChat()
	c.SetInput("one")
	tk, err := c.Begin(model.ActionGenerateCode)
	require.NoError(t, err)
	require.NoError(t, c.Resolve(tk, nil))

	assert.ErrorIs(t, c.Resolve(tk, nil), ErrStaleTicket)
	assert.ErrorIs(t, c.Reject(tk, errors.New("late")), ErrStaleTicket)
	assert.Len(t, c.Messages(), 1)
}

func TestChat_SeedsEditorOnce(t *testing.T) {
	c := newTestChat()
	c.LoadHistory([]model.Message{
		{ID: 1, Role: model.RoleAssistant, Content: "```python\nold()\n```"},
		{ID: 2, Role: model.RoleAssistant, Content: "```python\nprint(1)\n```"},
		{ID: 3, Role: model.RoleUser, Content: "thanks"},
	})
	assert.Equal(t, "print(1)", c.Editor())

	c.SetEditor("edited()")
	c.LoadHistory([]model.Message{{ID: 4, Role: model.RoleAssistant, Content: "```python\nnewer()\n```"}})
	assert.Equal(t, "edited()", c.Editor(), "seeding happens only on the first load")
}

func TestChat_OnEditorChange(t *testing.T) {
	c := newTestChat()
	var seen []string
	c.OnEditorChange(func(code string) { seen = append(seen, code) })

	c.SetEditor("a")
	c.SetEditor("a")
	c.SetInput("go")
	tk, err := c.Begin(model.ActionGenerateCode)
	require.NoError(t, err)
	require.NoError(t, c.Resolve(tk, []model.Message{{Role: model.RoleAssistant, Content: "```\nb\n```"}}))

	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestChat_HookAddedDuringNotify(t *testing.T) {
	c := newTestChat()
	var late []string
	c.OnEditorChange(func(string) {
		if late == nil {
			late = []string{}
			c.OnEditorChange(func(code string) { late = append(late, code) })
		}
	})

	c.SetEditor("first")
	assert.Empty(t, late, "a hook added while notifying waits for the next change")
	c.SetEditor("second")
	assert.Equal(t, []string{"second"}, late)
}

func TestChat_Snapshot(t *testing.T) {
	c := newTestChat()
	c.SetInput("x")
	_, err := c.Begin(model.ActionSummarizeChat)
	require.NoError(t, err)

	s := c.Snapshot()
	assert.True(t, s.Busy)
	assert.Equal(t, model.ActionSummarizeChat, s.Action)
	require.Len(t, s.Messages, 1)

	s.Messages[0].Content = "mutated"
	assert.Equal(t, "x", c.Messages()[0].Content, "snapshots are copies")
}
