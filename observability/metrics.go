/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records appdata metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordOperation records a boundary operation with its duration and error status.
	RecordOperation(ctx context.Context, op, id string, duration time.Duration, err error)

	// RecordConfigCommit records a configuration save attempt.
	RecordConfigCommit(ctx context.Context, success bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	operations    metric.Int64Counter
	opLatency     metric.Float64Histogram
	opErrors      metric.Int64Counter
	configCommits metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("appdata")

	operations, err := meter.Int64Counter("appdata.boundary.operations",
		metric.WithDescription("Number of boundary operations"),
	)
	if err != nil {
		return nil, err
	}

	opLatency, err := meter.Float64Histogram("appdata.boundary.latency_ms",
		metric.WithDescription("Boundary operation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	opErrors, err := meter.Int64Counter("appdata.boundary.errors",
		metric.WithDescription("Number of failed boundary operations"),
	)
	if err != nil {
		return nil, err
	}

	configCommits, err := meter.Int64Counter("appdata.config.commits",
		metric.WithDescription("Number of configuration save attempts"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		operations:    operations,
		opLatency:     opLatency,
		opErrors:      opErrors,
		configCommits: configCommits,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder on the global OTel meter
// provider, or a no-op recorder if the instruments cannot be created.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordOperation records a boundary operation.
func (m *otelMetrics) RecordOperation(ctx context.Context, op, id string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("id", id),
	)

	m.operations.Add(ctx, 1, attrs)
	m.opLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.opErrors.Add(ctx, 1, attrs)
	}
}

// RecordConfigCommit records a configuration save attempt.
func (m *otelMetrics) RecordConfigCommit(ctx context.Context, success bool) {
	m.configCommits.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}
