/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package observability provides structured logging, metrics and tracing for
// appdata boundary operations and configuration commits.
//
// Features:
//   - Structured logging via slog with a process-wide, live-adjustable level
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Metrics and tracing have no-op implementations for when they are disabled.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// EnrichLogger adds request context to a logger.
// Returns a new logger with request_id, op and id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, reqID, "save_record", "UserProfile")
//	enriched.Debug("decoding payload")
func EnrichLogger(logger *slog.Logger, requestID, op, id string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("request_id", requestID),
		slog.String("op", op),
		slog.String("id", id),
	)
}

// LogRegistered logs a data set registration.
func LogRegistered(logger *slog.Logger, id, typeName string) {
	if logger == nil {
		return
	}
	logger.Info("data set registered",
		slog.String("id", id),
		slog.String("type", typeName),
	)
}

// LogDuplicateRegistration logs a rejected registration.
func LogDuplicateRegistration(logger *slog.Logger, id, existingType, newType string) {
	if logger == nil {
		return
	}
	logger.Error("duplicate data set registration",
		slog.String("id", id),
		slog.String("type", existingType),
		slog.String("new_type", newType),
	)
}

// LogOpStart logs the start of a boundary operation.
func LogOpStart(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Debug("operation starting")
}

// LogOpComplete logs successful completion of a boundary operation.
func LogOpComplete(logger *slog.Logger, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("operation completed",
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
	)
}

// LogOpError logs a failed boundary operation. Caller errors such as
// unknown ids or malformed payloads log at warn, store faults at error.
func LogOpError(logger *slog.Logger, err error, duration time.Duration, internal bool) {
	if logger == nil {
		return
	}
	level := slog.LevelWarn
	if internal {
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, "operation failed",
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
	)
}

// LogOpAbandoned logs a call whose caller went away before the result was ready.
// The storage work still runs to completion.
func LogOpAbandoned(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Info("caller abandoned operation",
		slog.String("error", err.Error()),
	)
}

// LogConfigCommitted logs a published configuration value.
func LogConfigCommitted(logger *slog.Logger, observers int) {
	if logger == nil {
		return
	}
	logger.Info("configuration committed",
		slog.Int("observers", observers),
	)
}

// LogConfigCreated logs that no stored configuration existed and the
// defaults were persisted.
func LogConfigCreated(logger *slog.Logger, store string) {
	if logger == nil {
		return
	}
	logger.Info("created default configuration",
		slog.String("id", store),
	)
}

// LogConfigRecovered logs a save whose flush failed; the value now durable in
// the store is published instead.
func LogConfigRecovered(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Warn("configuration flush failed, republished stored value",
		slog.String("error", err.Error()),
	)
}

// LogObserverPanic logs a recovered panic from a configuration observer.
// The commit it was notified about stays in effect.
func LogObserverPanic(logger *slog.Logger, index int, recovered any) {
	if logger == nil {
		return
	}
	logger.Error("configuration observer panicked",
		slog.Int("observer", index),
		slog.Any("panic", recovered),
	)
}

// LogImport logs a completed bulk import.
func LogImport(logger *slog.Logger, id string, records int) {
	if logger == nil {
		return
	}
	logger.Info("records imported",
		slog.String("id", id),
		slog.Int("records", records),
	)
}
