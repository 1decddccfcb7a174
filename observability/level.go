/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Levels beyond the four slog defines.
const (
	LevelTrace = slog.Level(-8)
	LevelOff   = slog.Level(12)
)

var level = new(slog.LevelVar)

// Level returns the process-wide level shared by loggers built with NewLogger.
func Level() slog.Level {
	return level.Level()
}

// SetLevel changes the process-wide level. Loggers built with NewLogger pick
// the change up immediately.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel maps a level name (trace, debug, info, warn, error, off) in any
// case to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off":
		return LevelOff, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewLogger builds a logger writing to w whose level follows SetLevel.
// format is "json" or "text".
func NewLogger(w io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
