// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jeranaias/vibecoder-tui/internal/model"
)

// DecodeChatResponse decodes a chat response body. Arrays are returned in
// order; a single object becomes a one-element slice. Anything else, or an
// empty array, is an error.
func DecodeChatResponse(raw []byte) ([]model.Message, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrEmptyResponse
	}

	switch trimmed[0] {
	case '[':
		var msgs []model.Message
		if err := json.Unmarshal(trimmed, &msgs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		if len(msgs) == 0 {
			return nil, ErrEmptyResponse
		}
		return msgs, nil
	case '{':
		var msg model.Message
		if err := json.Unmarshal(trimmed, &msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		return []model.Message{msg}, nil
	case 'n':
		if string(trimmed) == "null" {
			return nil, ErrEmptyResponse
		}
	}
	return nil, fmt.Errorf("%w: chat response is neither an object nor an array", ErrBadResponse)
}
