// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projects provides the project list screen (route "/"): the list of
// the user's projects and the creation form.
package projects

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/vibecoder-tui/internal/ui/components"
)

// KeyMap defines the bindings of the project list screen.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	New      key.Binding
	Refresh  key.Binding
	NextLang key.Binding
	PrevLang key.Binding
	Next     key.Binding
	Cancel   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new project"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NextLang: key.NewBinding(
			key.WithKeys("right", "l", " "),
			key.WithHelp("left/right", "language"),
		),
		PrevLang: key.NewBinding(
			key.WithKeys("left", "h"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

func hint(b key.Binding) components.Shortcut {
	h := b.Help()
	return components.Shortcut{Key: h.Key, Desc: h.Desc}
}

func (k KeyMap) listHints() []components.Shortcut {
	return []components.Shortcut{hint(k.Open), hint(k.New), hint(k.Refresh), hint(k.Up), hint(k.Quit)}
}

func (k KeyMap) formHints() []components.Shortcut {
	return []components.Shortcut{
		{Key: "enter", Desc: "create"},
		hint(k.Next),
		hint(k.NextLang),
		hint(k.Cancel),
	}
}
