// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the render-only building blocks shared by the
// vibecoder screens: message bubbles, the markdown renderer, the highlighted
// code view, the header, the status bar and the error banner.
//
// Components hold no tea.Model state of their own; screens in ui/projects and
// ui/chat own the interactive widgets and call into this package from View.
package components
