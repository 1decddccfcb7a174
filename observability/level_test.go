/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"Trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"Off", LevelOff},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewLoggerFollowsLevel(t *testing.T) {
	original := Level()
	defer SetLevel(original)

	var buf bytes.Buffer
	logger := NewLogger(&buf, "text")

	SetLevel(slog.LevelWarn)
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	SetLevel(LevelTrace)
	logger.Log(context.Background(), LevelTrace, "very detailed")
	assert.Contains(t, buf.String(), "level=TRACE")

	buf.Reset()
	SetLevel(LevelOff)
	logger.Error("suppressed")
	assert.Empty(t, buf.String())
}

func TestNewLoggerJSON(t *testing.T) {
	original := Level()
	defer SetLevel(original)
	SetLevel(slog.LevelInfo)

	var buf bytes.Buffer
	NewLogger(&buf, "JSON").Info("hello", slog.String("id", "AppConfig"))
	assert.Contains(t, buf.String(), `"id":"AppConfig"`)
}
