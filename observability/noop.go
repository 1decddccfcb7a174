/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordOperation does nothing.
func (NoopMetrics) RecordOperation(_ context.Context, _, _ string, _ time.Duration, _ error) {}

// RecordConfigCommit does nothing.
func (NoopMetrics) RecordConfigCommit(_ context.Context, _ bool) {}
