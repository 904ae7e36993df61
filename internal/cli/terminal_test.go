// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorDecision(t *testing.T) {
	tests := []struct {
		name    string
		noColor string
		force   string
		tty     bool
		want    bool
	}{
		{"tty", "", "", true, true},
		{"piped", "", "", false, false},
		{"no color wins", "1", "1", true, false},
		{"force on pipe", "", "1", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, colorDecision(tt.noColor, tt.force, tt.tty))
		})
	}
}

func TestTTYRequiredError(t *testing.T) {
	err := &TTYRequiredError{Operation: "chat"}
	assert.Equal(t, "stdin is not a terminal; cannot chat", err.Error())
	assert.Equal(t, "stdin is not a terminal", (&TTYRequiredError{}).Error())
}

func TestRenderStatus(t *testing.T) {
	assert.Contains(t, RenderStatus("ok"), "[OK]")
	assert.Contains(t, RenderStatus("failed"), "[FAIL]")
	assert.Contains(t, RenderStatus("warn"), "[WARN]")
	assert.Contains(t, RenderStatus("skipped"), "[SKIPPED]")
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	err := OutputJSON(&buf, true, "projects list", func() (any, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, []any{"a", "b"}, resp.Data)
	assert.NotEmpty(t, resp.Timestamp)

	buf.Reset()
	boom := errors.New("boom")
	err = OutputJSON(&buf, true, "projects list", func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "boom", *resp.Error)

	buf.Reset()
	err = OutputJSON(&buf, false, "projects list", func() (any, error) { return "ignored", nil })
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
