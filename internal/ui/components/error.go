// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jeranaias/vibecoder-tui/internal/api"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
)

// =============================================================================
// ERROR CATEGORIES
// =============================================================================

// ErrorCategory classifies an error for display.
type ErrorCategory string

const (
	CategoryNetwork  ErrorCategory = "Network"
	CategoryNotFound ErrorCategory = "Not Found"
	CategoryBackend  ErrorCategory = "Backend"
	CategoryTimeout  ErrorCategory = "Timeout"
	CategoryInput    ErrorCategory = "Input"
	CategoryUnknown  ErrorCategory = "Error"
)

// ErrorInfo is the user-facing description of an error.
type ErrorInfo struct {
	Category   ErrorCategory
	Message    string
	Suggestion string
}

// Describe classifies err and pairs it with a short suggestion.
func Describe(err error) ErrorInfo {
	info := ErrorInfo{Category: CategoryUnknown, Message: err.Error()}

	var apiErr *api.APIError
	var netErr net.Error
	switch {
	case errors.Is(err, session.ErrProjectNotFound), errors.Is(err, api.ErrNotFound):
		info.Category = CategoryNotFound
		info.Suggestion = "Press esc to return to the project list."
	case errors.Is(err, session.ErrInvalidProjectID):
		info.Category = CategoryInput
		info.Suggestion = "Project IDs are positive integers."
	case errors.Is(err, session.ErrEmptyInput):
		info.Category = CategoryInput
		info.Suggestion = "Type a message first."
	case errors.Is(err, session.ErrBusy):
		info.Category = CategoryInput
		info.Suggestion = "Wait for the current reply."
	case errors.Is(err, context.DeadlineExceeded):
		info.Category = CategoryTimeout
		info.Suggestion = "Increase backend.timeout_secs or check the backend load."
	case errors.Is(err, syscall.ECONNREFUSED), strings.Contains(err.Error(), "connection refused"):
		info.Category = CategoryNetwork
		info.Suggestion = "Is the backend running? Check backend.url with `vibecoder config show`."
	case errors.As(err, &netErr):
		info.Category = CategoryNetwork
		if netErr.Timeout() {
			info.Category = CategoryTimeout
		}
		info.Suggestion = "Check your network and backend.url."
	case errors.Is(err, api.ErrEmptyResponse), errors.Is(err, api.ErrBadResponse):
		info.Category = CategoryBackend
		info.Suggestion = "The backend answered with an unexpected payload; try again."
	case errors.As(err, &apiErr):
		info.Category = CategoryBackend
		if apiErr.Detail != "" {
			info.Message = apiErr.Detail
		}
		if apiErr.StatusCode >= 500 {
			info.Suggestion = "The backend failed; see its logs."
		}
	}
	return info
}

// =============================================================================
// ERROR BANNER
// =============================================================================

// ErrorBanner renders err as a one or two line banner. A nil error renders "".
func ErrorBanner(theme *styles.Theme, err error, width int) string {
	if err == nil {
		return ""
	}
	info := Describe(err)

	text := theme.ErrorTitle.Render(styles.StatusIndicators.Error+" "+string(info.Category)+":") +
		" " + theme.ErrorMessage.Render(info.Message)
	if info.Suggestion != "" {
		text += "\n" + theme.Muted.Render(info.Suggestion)
	}
	return theme.ErrorBanner.Width(width).MaxWidth(width).Render(text)
}
